package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kingrain94/tagorder-api/internal/domain"
)

const defaultBillingEventLimit = 50

type BillingEventRepository struct {
	writerDB *gorm.DB
	readerDB *gorm.DB
}

func NewBillingEventRepository(writerDB, readerDB *gorm.DB) *BillingEventRepository {
	return &BillingEventRepository{
		writerDB: writerDB,
		readerDB: readerDB,
	}
}

// Record inserts the event or, for a redelivery of a known event id,
// overwrites its outcome and increments attempts.
func (r *BillingEventRepository) Record(ctx context.Context, event *domain.BillingEvent) error {
	if event.ReceivedAt.IsZero() {
		event.ReceivedAt = time.Now().UTC()
	}
	if event.Attempts == 0 {
		event.Attempts = 1
	}

	return r.writerDB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"store_id":    event.StoreID,
				"customer_id": event.CustomerID,
				"outcome":     event.Outcome,
				"error":       event.Error,
				"payload":     event.Payload,
				"attempts":    gorm.Expr("billing_events.attempts + 1"),
				"updated_at":  time.Now().UTC(),
			}),
		}).
		Create(event).Error
}

func (r *BillingEventRepository) List(ctx context.Context, filter domain.BillingEventFilter) ([]domain.BillingEvent, error) {
	if filter.StoreID == "" {
		return nil, fmt.Errorf("store_id is required")
	}

	db := r.readerDB.WithContext(ctx).Where("store_id = ?", filter.StoreID)
	if !filter.Since.IsZero() {
		db = db.Where("received_at >= ?", filter.Since)
	}
	if !filter.Before.IsZero() {
		db = db.Where("received_at < ?", filter.Before)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultBillingEventLimit
	}

	var events []domain.BillingEvent
	if err := db.Order("received_at DESC").Limit(limit).Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// ListBefore returns the oldest events received before the cutoff.
func (r *BillingEventRepository) ListBefore(ctx context.Context, before time.Time, limit int) ([]domain.BillingEvent, error) {
	db := r.readerDB.WithContext(ctx).
		Where("received_at < ?", before).
		Order("received_at ASC")
	if limit > 0 {
		db = db.Limit(limit)
	}

	var events []domain.BillingEvent
	if err := db.Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (r *BillingEventRepository) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	result := r.writerDB.WithContext(ctx).
		Where("received_at < ?", before).
		Delete(&domain.BillingEvent{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
