package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kingrain94/tagorder-api/internal/api/dto"
)

type MockCapacityService struct {
	mock.Mock
}

func (m *MockCapacityService) GetCapacity(ctx context.Context) (*dto.CapacityResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.CapacityResponse), args.Error(1)
}

func (m *MockCapacityService) CacheTTL() time.Duration {
	return m.Called().Get(0).(time.Duration)
}

func newCapacityRouter(svc CapacityService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/capacity", NewCapacityHandler(svc).GetCapacity)
	return router
}

func TestGetCapacity_SetsSharedCacheHeader(t *testing.T) {
	svc := new(MockCapacityService)
	svc.On("GetCapacity", mock.Anything).Return(&dto.CapacityResponse{Remaining: 37, Total: 100}, nil)
	svc.On("CacheTTL").Return(60 * time.Second)

	w := httptest.NewRecorder()
	newCapacityRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/capacity", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "public, max-age=0, s-maxage=60", w.Header().Get("Cache-Control"))

	var resp dto.CapacityResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, dto.CapacityResponse{Remaining: 37, Total: 100, Closed: false}, resp)
}

func TestGetCapacity_ErrorIsNotCacheable(t *testing.T) {
	svc := new(MockCapacityService)
	svc.On("GetCapacity", mock.Anything).Return(nil, errors.New("db down"))

	w := httptest.NewRecorder()
	newCapacityRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/capacity", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Empty(t, w.Header().Get("Cache-Control"))
}
