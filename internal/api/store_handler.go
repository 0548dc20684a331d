package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kingrain94/tagorder-api/internal/api/dto"
	"github.com/kingrain94/tagorder-api/internal/service"
	"github.com/kingrain94/tagorder-api/internal/utils"
)

//go:generate mockery --name StoreService --output ../mocks
type StoreService interface {
	Create(ctx context.Context, identity utils.Identity, req dto.CreateStoreRequest) (*dto.StoreResponse, error)
	GetMe(ctx context.Context, identity utils.Identity) (*dto.StoreResponse, error)
	ListTags(ctx context.Context, identity utils.Identity) ([]dto.TagResponse, error)
	ExportTags(ctx context.Context, identity utils.Identity, format string) (*service.TagSheet, error)
	ListBillingEvents(ctx context.Context, identity utils.Identity, query dto.BillingEventQuery) ([]dto.BillingEventResponse, error)
	Plans() []dto.PlanResponse
}

type StoreHandler struct {
	*BaseHandler
	service StoreService
}

func NewStoreHandler(service StoreService) *StoreHandler {
	return &StoreHandler{service: service}
}

// CreateStore Sign up the caller's store
// @Summary Create store
// @Description Create the caller's store on the free plan, optionally linked to a referrer
// @Tags    stores
// @Accept  json
// @Produce json
// @Param   body body dto.CreateStoreRequest true "Store"
// @Success 201 {object} dto.StoreResponse
// @Failure 400 {object} dto.Error
// @Failure 401 {object} dto.Error
// @Failure 409 {object} dto.Error
// @Failure 500 {object} dto.Error
// @Security BearerAuth
// @Router  /stores [post]
func (h *StoreHandler) CreateStore(c *gin.Context) {
	identity, ok := h.Identity(c)
	if !ok {
		return
	}

	var req dto.CreateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Error{Error: err.Error()})
		return
	}

	store, err := h.service.Create(h.RequestCtx(c), identity, req)
	if err != nil {
		h.WriteError(c, err)
		return
	}

	c.JSON(http.StatusCreated, store)
}

// GetMyStore Get the caller's store
// @Summary Get my store
// @Tags    stores
// @Produce json
// @Success 200 {object} dto.StoreResponse
// @Failure 401 {object} dto.Error
// @Failure 404 {object} dto.Error
// @Security BearerAuth
// @Router  /stores/me [get]
func (h *StoreHandler) GetMyStore(c *gin.Context) {
	identity, ok := h.Identity(c)
	if !ok {
		return
	}

	store, err := h.service.GetMe(h.RequestCtx(c), identity)
	if err != nil {
		h.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, store)
}

// ListTags List the caller's tags
// @Summary List tags
// @Tags    stores
// @Produce json
// @Success 200 {array} dto.TagResponse
// @Failure 401 {object} dto.Error
// @Failure 404 {object} dto.Error
// @Security BearerAuth
// @Router  /stores/me/tags [get]
func (h *StoreHandler) ListTags(c *gin.Context) {
	identity, ok := h.Identity(c)
	if !ok {
		return
	}

	tags, err := h.service.ListTags(h.RequestCtx(c), identity)
	if err != nil {
		h.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, tags)
}

// ExportTags Download the printable tag sheet
// @Summary Export tags
// @Tags    stores
// @Produce octet-stream
// @Param   format query string false "csv (default) or xlsx"
// @Success 200 {file} file
// @Failure 400 {object} dto.Error
// @Failure 401 {object} dto.Error
// @Failure 404 {object} dto.Error
// @Security BearerAuth
// @Router  /stores/me/tags/export [get]
func (h *StoreHandler) ExportTags(c *gin.Context) {
	identity, ok := h.Identity(c)
	if !ok {
		return
	}

	var query dto.TagExportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, dto.Error{Error: err.Error()})
		return
	}

	sheet, err := h.service.ExportTags(h.RequestCtx(c), identity, query.Format)
	if err != nil {
		h.WriteError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", sheet.Filename))
	c.Data(http.StatusOK, sheet.ContentType, sheet.Data)
}

// ListBillingEvents Recent billing events for the caller's store
// @Summary List billing events
// @Tags    stores
// @Produce json
// @Param   since query string false "Only events received at or after (RFC3339 or YYYY-MM-DD)"
// @Param   limit query int false "Max events (1-200, default 50)"
// @Success 200 {array} dto.BillingEventResponse
// @Failure 400 {object} dto.Error
// @Failure 401 {object} dto.Error
// @Failure 404 {object} dto.Error
// @Security BearerAuth
// @Router  /stores/me/billing-events [get]
func (h *StoreHandler) ListBillingEvents(c *gin.Context) {
	identity, ok := h.Identity(c)
	if !ok {
		return
	}

	var query dto.BillingEventQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, dto.Error{Error: err.Error()})
		return
	}

	events, err := h.service.ListBillingEvents(h.RequestCtx(c), identity, query)
	if err != nil {
		h.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, events)
}

// ListPlans Public plan catalog
// @Summary List plans
// @Tags    public
// @Produce json
// @Success 200 {array} dto.PlanResponse
// @Router  /plans [get]
func (h *StoreHandler) ListPlans(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Plans())
}
