package handler

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/aniladanir/waitlist-sms-service/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "requestId"
	signatureHeader = "X-Twilio-Signature"
)

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// rateLimit rejects clients over their limit. A failing limiter lets requests through.
func rateLimit(limiter RateLimiter, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}

		ok, retryAfter, err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			logger.Error("rate limiter unavailable", "requestId", c.GetString(requestIDKey), "error", err.Error())
			c.Next()
			return
		}
		if !ok {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, domain.ErrorResponse{Error: "too many signups, try again later"})
			return
		}

		c.Next()
	}
}

// twilioSignature verifies the webhook signature when a validator is configured.
func twilioSignature(validator WebhookValidator, publicBaseURL string, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if validator == nil {
			c.Next()
			return
		}

		if err := c.Request.ParseForm(); err != nil {
			c.AbortWithStatus(http.StatusBadRequest)
			return
		}

		params := make(map[string]string, len(c.Request.PostForm))
		for key, values := range c.Request.PostForm {
			if len(values) > 0 {
				params[key] = values[0]
			}
		}

		url := joinURL(publicBaseURL, c.Request.URL.RequestURI())
		if !validator.Validate(url, params, c.GetHeader(signatureHeader)) {
			logger.Warn("rejected unsigned webhook", "requestId", c.GetString(requestIDKey), "url", url)
			c.AbortWithStatus(http.StatusForbidden)
			return
		}

		c.Next()
	}
}
