package handler

import (
	"net/http"

	"github.com/aniladanir/waitlist-sms-service/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/twilio/twilio-go/twiml"
)

// InboundSMS godoc
// @Summary Inbound SMS webhook
// @Description Answers a text with a trade flavour guess, wrapped in TwiML
// @Tags Messages
// @Accept x-www-form-urlencoded
// @Produce xml
// @Param Body formData string false "message text"
// @Param From formData string false "sender phone number"
// @Success 200 {string} string "TwiML response"
// @Failure 403 {string} string "invalid signature"
// @Router /sms/inbound [post]
func (h *Handler) inboundSMS(c *gin.Context) {
	var in domain.InboundSMS
	if err := c.ShouldBind(&in); err != nil {
		h.logger.Warn("failed to bind inbound sms", "requestId", c.GetString(requestIDKey), "error", err.Error())
	}

	reply := h.replies.Resolve(c.Request.Context(), in.Body)
	h.logger.Info("answered inbound sms",
		"requestId", c.GetString(requestIDKey),
		"from", in.From,
		"source", string(reply.Source))

	out, err := twiml.Messages([]twiml.Element{&twiml.MessagingMessage{Body: reply.Text}})
	if err != nil {
		h.logger.Error("failed to build twiml", "requestId", c.GetString(requestIDKey), "error", err.Error())
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Data(http.StatusOK, "text/xml; charset=utf-8", []byte(out))
}
