package handler

import (
	"errors"
	"net/http"

	"github.com/aniladanir/waitlist-sms-service/internal/domain"
	"github.com/aniladanir/waitlist-sms-service/internal/service"
	"github.com/gin-gonic/gin"
)

// Signup godoc
// @Summary Join the waitlist
// @Description Validates the phone number, stores the signup and texts the welcome sequence
// @Tags Signups
// @Accept json
// @Produce json
// @Param request body domain.SignupRequest true "signup form"
// @Success 200 {object} domain.SignupResponse
// @Failure 400 {object} domain.ErrorResponse
// @Failure 429 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Router /api/signup [post]
func (h *Handler) signup(c *gin.Context) {
	var req domain.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, domain.ErrorResponse{Error: "invalid request body"})
		return
	}

	_, err := h.signups.Signup(c.Request.Context(), req)
	if err != nil {
		status, resp := signupError(err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("signup failed", "requestId", c.GetString(requestIDKey), "error", err.Error())
		}
		c.JSON(status, resp)
		return
	}

	c.JSON(http.StatusOK, domain.SignupResponse{Success: true})
}

func signupError(err error) (int, domain.ErrorResponse) {
	var deliveryErr *service.DeliveryError

	switch {
	case errors.Is(err, service.ErrMissingPhone),
		errors.Is(err, service.ErrInvalidPhone),
		errors.Is(err, service.ErrBotSuspected):
		return http.StatusBadRequest, domain.ErrorResponse{Error: err.Error()}
	case errors.Is(err, service.ErrPersistence):
		return http.StatusInternalServerError, domain.ErrorResponse{Error: service.ErrPersistence.Error()}
	case errors.As(err, &deliveryErr):
		sent := deliveryErr.Index
		return http.StatusInternalServerError, domain.ErrorResponse{Error: "failed to send messages", Sent: &sent}
	default:
		return http.StatusInternalServerError, domain.ErrorResponse{Error: "internal error"}
	}
}

// CountSignups godoc
// @Summary Count signups
// @Description Total number of waitlist signups, for the dashboard
// @Tags Signups
// @Produce json
// @Success 200 {object} domain.CountResponse
// @Failure 503 {object} domain.ErrorResponse
// @Router /api/signups/count [get]
func (h *Handler) countSignups(c *gin.Context) {
	count, err := h.signups.Count(c.Request.Context())
	if err != nil {
		h.storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, domain.CountResponse{Count: count})
}

// GetSentMessages godoc
// @Summary Get list of sent messages
// @Description Retrieves all welcome messages delivered to the provider
// @Tags Messages
// @Produce json
// @Success 200 {array} domain.Delivery
// @Failure 503 {object} domain.ErrorResponse
// @Router /api/messages [get]
func (h *Handler) getSentMessages(c *gin.Context) {
	msgs, err := h.signups.SentDeliveries(c.Request.Context())
	if err != nil {
		h.storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, msgs)
}

func (h *Handler) storeError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrPersistenceUnavailable) {
		c.JSON(http.StatusServiceUnavailable, domain.ErrorResponse{Error: err.Error()})
		return
	}
	h.logger.Error("store query failed", "requestId", c.GetString(requestIDKey), "error", err.Error())
	c.Status(http.StatusInternalServerError)
}
