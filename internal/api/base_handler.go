package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kingrain94/tagorder-api/internal/api/dto"
	"github.com/kingrain94/tagorder-api/internal/service"
	"github.com/kingrain94/tagorder-api/internal/utils"
)

type BaseHandler struct{}

func (h *BaseHandler) RequestCtx(ginCtx *gin.Context) context.Context {
	ctx := ginCtx.Request.Context()
	for k, v := range ginCtx.Keys {
		// Convert string keys to proper context key types to avoid collisions
		contextKey := utils.ContextKey(k)
		ctx = context.WithValue(ctx, contextKey, v)
	}
	return ctx
}

// Identity returns the caller set by the auth middleware, or writes 401.
func (h *BaseHandler) Identity(c *gin.Context) (utils.Identity, bool) {
	identity, err := utils.GetIdentityFromContext(h.RequestCtx(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, dto.Error{Error: "Unauthorized"})
		return utils.Identity{}, false
	}
	return identity, true
}

// WriteError maps service errors onto HTTP statuses.
func (h *BaseHandler) WriteError(c *gin.Context, err error) {
	c.JSON(statusFor(err), dto.Error{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrMissingPriceID),
		errors.Is(err, service.ErrInvalidArgument),
		errors.Is(err, service.ErrUnknownReferralCode),
		errors.Is(err, service.ErrInvalidSignature):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrStoreNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrStoreExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
