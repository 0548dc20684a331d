package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kingrain94/tagorder-api/internal/domain"
	"github.com/kingrain94/tagorder-api/internal/metrics"
	"github.com/kingrain94/tagorder-api/internal/repository"
	"github.com/kingrain94/tagorder-api/pkg/logger"
)

// TagProvisioner tops a store's tags up to its SKU quota. Tags above a
// lowered quota are kept.
type TagProvisioner struct {
	repo   repository.Repository
	logger *logger.Logger
}

func NewTagProvisioner(repo repository.Repository, logger *logger.Logger) *TagProvisioner {
	return &TagProvisioner{repo: repo, logger: logger}
}

// Provision inserts tags existing+1..MaxSKU and returns how many were new.
// Codes that already exist are skipped, so repeated calls are harmless.
func (p *TagProvisioner) Provision(ctx context.Context, store *domain.Store) (int64, error) {
	existing, err := p.repo.Tag().Count(ctx, store.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to count tags: %w", err)
	}

	tags := domain.TagsInRange(store.ID, int(existing)+1, store.MaxSKU)
	if len(tags) == 0 {
		return 0, nil
	}

	inserted, err := p.repo.Tag().InsertIfAbsent(ctx, tags)
	if err != nil {
		return 0, fmt.Errorf("failed to insert tags: %w", err)
	}

	metrics.TagsProvisionedTotal.Add(float64(inserted))
	p.logger.Info("Tags provisioned",
		zap.String("store_id", store.ID),
		zap.Int64("existing", existing),
		zap.Int64("inserted", inserted),
		zap.Int("max_sku", store.MaxSKU))
	return inserted, nil
}
