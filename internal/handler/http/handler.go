package handler

import (
	"context"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/aniladanir/waitlist-sms-service/docs"
	"github.com/aniladanir/waitlist-sms-service/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RateLimiter decides whether a client may submit another signup.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, time.Duration, error)
}

// WebhookValidator checks the provider signature of an inbound webhook.
type WebhookValidator interface {
	Validate(url string, params map[string]string, expectedSignature string) bool
}

type Options struct {
	Limiter          RateLimiter
	WebhookValidator WebhookValidator
	// PublicBaseURL is the externally visible origin the provider signs webhooks against.
	PublicBaseURL string
	StaticDir     string
	Logger        *slog.Logger
}

type Handler struct {
	signups service.SignupService
	replies service.ReplyResolver
	opts    Options
	logger  *slog.Logger
	router  *gin.Engine
	server  *http.Server
}

// @title Waitlist SMS API
// @version 1.0
// @description Waitlist signups with an SMS welcome sequence and trade flavour replies
// @host localhost:6060
// @BasePath /
func NewHttpHandler(addr string, signups service.SignupService, replies service.ReplyResolver, opts Options) *Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	h := &Handler{
		signups: signups,
		replies: replies,
		opts:    opts,
		logger:  logger,
	}

	// create router
	router := gin.Default()
	router.Use(requestID())

	// register routes
	api := router.Group("/api")
	{
		api.POST("/signup", rateLimit(opts.Limiter, logger), h.signup)
		api.GET("/signups/count", h.countSignups)
		api.GET("/messages", h.getSentMessages)
	}
	router.POST("/sms/inbound", twilioSignature(opts.WebhookValidator, opts.PublicBaseURL, logger), h.inboundSMS)
	router.GET("/healthz", h.healthz)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	if opts.StaticDir != "" {
		router.StaticFile("/", filepath.Join(opts.StaticDir, "index.html"))
		router.Static("/assets", filepath.Join(opts.StaticDir, "assets"))
	}

	h.router = router

	// create http server
	h.server = &http.Server{
		Addr:    addr,
		Handler: router.Handler(),
	}

	return h
}

func (h *Handler) Run() error {
	return h.server.ListenAndServe()
}

func (h *Handler) Shutdown(ctx context.Context) error {
	return h.server.Shutdown(ctx)
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

// Healthz godoc
// @Summary Liveness check
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /healthz [get]
func (h *Handler) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func joinURL(base, requestURI string) string {
	return strings.TrimRight(base, "/") + requestURI
}
