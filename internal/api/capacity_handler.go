package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kingrain94/tagorder-api/internal/api/dto"
)

//go:generate mockery --name CapacityService --output ../mocks
type CapacityService interface {
	GetCapacity(ctx context.Context) (*dto.CapacityResponse, error)
	CacheTTL() time.Duration
}

type CapacityHandler struct {
	*BaseHandler
	service CapacityService
}

func NewCapacityHandler(service CapacityService) *CapacityHandler {
	return &CapacityHandler{service: service}
}

// GetCapacity Early-bird slots left
// @Summary Get early-bird capacity
// @Description Remaining early-bird slots. Shared caches may keep the response for the counter's cache TTL.
// @Tags    public
// @Produce json
// @Success 200 {object} dto.CapacityResponse
// @Failure 500 {object} dto.Error
// @Router  /capacity [get]
func (h *CapacityHandler) GetCapacity(c *gin.Context) {
	resp, err := h.service.GetCapacity(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.Error{Error: err.Error()})
		return
	}

	c.Header("Cache-Control", fmt.Sprintf("public, max-age=0, s-maxage=%d", int(h.service.CacheTTL().Seconds())))
	c.JSON(http.StatusOK, resp)
}
