package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kingrain94/tagorder-api/internal/api/dto"
	"github.com/kingrain94/tagorder-api/internal/middleware"
)

//go:generate mockery --name CheckoutService --output ../mocks
type CheckoutService interface {
	CreateSession(ctx context.Context, req dto.CheckoutRequest, origin string) (*dto.CheckoutResponse, error)
}

type CheckoutHandler struct {
	*BaseHandler
	service CheckoutService
}

func NewCheckoutHandler(service CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{service: service}
}

// CreateCheckout Start a subscription checkout
// @Summary Create checkout session
// @Description Create a hosted checkout session for the caller's store. The access token may be sent in the body or as a bearer token.
// @Tags    billing
// @Accept  json
// @Produce json
// @Param   body body dto.CheckoutRequest true "Checkout request"
// @Success 200 {object} dto.CheckoutResponse
// @Failure 400 {object} dto.Error
// @Failure 401 {object} dto.Error
// @Failure 404 {object} dto.Error
// @Failure 500 {object} dto.Error
// @Router  /checkout [post]
func (h *CheckoutHandler) CreateCheckout(c *gin.Context) {
	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Error{Error: err.Error()})
		return
	}

	if req.AccessToken == "" {
		if token, ok := middleware.BearerToken(c.GetHeader("Authorization")); ok {
			req.AccessToken = token
		}
	}

	resp, err := h.service.CreateSession(h.RequestCtx(c), req, c.GetHeader("Origin"))
	if err != nil {
		h.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
