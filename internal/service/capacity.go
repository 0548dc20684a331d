package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/kingrain94/tagorder-api/internal/api/dto"
	"github.com/kingrain94/tagorder-api/internal/config"
	"github.com/kingrain94/tagorder-api/internal/metrics"
	"github.com/kingrain94/tagorder-api/internal/repository"
	"github.com/kingrain94/tagorder-api/pkg/cache"
)

// CapacityService reports how many early-bird slots are left.
type CapacityService struct {
	repo  repository.Repository
	total int
	count *cache.TTL[int64]
}

func NewCapacityService(repo repository.Repository, cfg config.CapacityConfig, clock clockwork.Clock) *CapacityService {
	s := &CapacityService{
		repo:  repo,
		total: cfg.EarlyBirdTotal,
	}
	s.count = cache.NewTTL(cfg.CacheTTL, s.countEarlyBirds, clock)
	return s
}

func (s *CapacityService) countEarlyBirds(ctx context.Context) (int64, error) {
	count, err := s.repo.Store().CountEarlyBirds(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count early-bird stores: %w", err)
	}
	return count, nil
}

// GetCapacity serves the public counter from the cache.
func (s *CapacityService) GetCapacity(ctx context.Context) (*dto.CapacityResponse, error) {
	count, err := s.count.Get(ctx)
	if err != nil {
		return nil, err
	}

	remaining := s.total - int(count)
	if remaining < 0 {
		remaining = 0
	}
	metrics.EarlyBirdRemaining.Set(float64(remaining))

	return &dto.CapacityResponse{
		Remaining: remaining,
		Total:     s.total,
		Closed:    remaining == 0,
	}, nil
}

// CacheTTL is how long shared caches may keep the counter.
func (s *CapacityService) CacheTTL() time.Duration {
	return s.count.TTL()
}

// HasEarlyBirdSlot reads the live count; signup must not act on a stale one.
func (s *CapacityService) HasEarlyBirdSlot(ctx context.Context) (bool, error) {
	count, err := s.countEarlyBirds(ctx)
	if err != nil {
		return false, err
	}
	return int(count) < s.total, nil
}

func (s *CapacityService) Invalidate() {
	s.count.Invalidate()
}
