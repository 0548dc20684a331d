package api

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kingrain94/tagorder-api/internal/api/dto"
	"github.com/kingrain94/tagorder-api/internal/service"
)

const (
	stripeSignatureHeader = "Stripe-Signature"
	maxWebhookBodyBytes   = 1 << 20
)

//go:generate mockery --name WebhookService --output ../mocks
type WebhookService interface {
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
}

type WebhookHandler struct {
	*BaseHandler
	service WebhookService
}

func NewWebhookHandler(service WebhookService) *WebhookHandler {
	return &WebhookHandler{service: service}
}

// HandleStripeWebhook Receive a billing webhook
// @Summary Stripe webhook
// @Description Verify and apply a Stripe event. Any non-2xx response makes Stripe redeliver.
// @Tags    billing
// @Accept  json
// @Produce json
// @Param   Stripe-Signature header string true "Stripe signature"
// @Success 200 {object} dto.WebhookResponse
// @Failure 400 {object} dto.Error
// @Failure 500 {object} dto.Error
// @Router  /webhook [post]
func (h *WebhookHandler) HandleStripeWebhook(c *gin.Context) {
	signature := c.GetHeader(stripeSignatureHeader)
	if signature == "" {
		c.JSON(http.StatusBadRequest, dto.Error{Error: "Missing Stripe-Signature header"})
		return
	}

	payload, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBodyBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.Error{Error: "Failed to read request body"})
		return
	}

	if err := h.service.HandleWebhook(c.Request.Context(), payload, signature); err != nil {
		if errors.Is(err, service.ErrInvalidSignature) {
			c.JSON(http.StatusBadRequest, dto.Error{Error: "Invalid signature"})
			return
		}
		c.JSON(http.StatusInternalServerError, dto.Error{Error: "Webhook handler failed"})
		return
	}

	c.JSON(http.StatusOK, dto.WebhookResponse{Received: true})
}
