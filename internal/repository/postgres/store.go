package postgres

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kingrain94/tagorder-api/internal/domain"
)

type StoreRepository struct {
	writerDB *gorm.DB
	readerDB *gorm.DB
}

func NewStoreRepository(writerDB, readerDB *gorm.DB) *StoreRepository {
	return &StoreRepository{
		writerDB: writerDB,
		readerDB: readerDB,
	}
}

func (r *StoreRepository) Create(ctx context.Context, store *domain.Store) error {
	return translateError(r.writerDB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(store).Error; err != nil {
			return err
		}
		if store.ReferredBy == nil {
			return nil
		}
		return requireRows(tx.Model(&domain.Store{}).
			Where("id = ?", *store.ReferredBy).
			UpdateColumn("referral_count", gorm.Expr("referral_count + ?", 1)))
	}))
}

func (r *StoreRepository) GetByID(ctx context.Context, id string) (*domain.Store, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *StoreRepository) GetByAuthUserID(ctx context.Context, authUserID string) (*domain.Store, error) {
	return r.first(ctx, "auth_user_id = ?", authUserID)
}

func (r *StoreRepository) GetByCustomerID(ctx context.Context, customerID string) (*domain.Store, error) {
	return r.first(ctx, "stripe_customer_id = ?", customerID)
}

func (r *StoreRepository) GetByReferralCode(ctx context.Context, code string) (*domain.Store, error) {
	return r.first(ctx, "referral_code = ?", domain.NormalizeReferralCode(code))
}

// Lookups go to the writer so a row created moments ago is visible before
// replication catches up.
func (r *StoreRepository) first(ctx context.Context, query string, arg interface{}) (*domain.Store, error) {
	var store domain.Store
	if err := r.writerDB.WithContext(ctx).Where(query, arg).Take(&store).Error; err != nil {
		return nil, translateError(err)
	}
	return &store, nil
}

func (r *StoreRepository) SetCustomerID(ctx context.Context, storeID, customerID string) error {
	return requireRows(r.writerDB.WithContext(ctx).
		Model(&domain.Store{}).
		Where("id = ?", storeID).
		Update("stripe_customer_id", customerID))
}

func (r *StoreRepository) UpdateSubscriptionByCustomerID(ctx context.Context, customerID string, change domain.SubscriptionChange) (*domain.Store, error) {
	return r.updateByCustomerID(ctx, customerID, map[string]interface{}{
		"stripe_subscription_id": change.SubscriptionID,
		"stripe_price_id":        change.PriceID,
		"plan":                   change.Plan,
		"max_sku":                change.MaxSKU,
		"subscription_status":    change.Status,
	})
}

func (r *StoreRepository) UpdateStatusByCustomerID(ctx context.Context, customerID string, status domain.SubscriptionStatus) (*domain.Store, error) {
	return r.updateByCustomerID(ctx, customerID, map[string]interface{}{
		"subscription_status": status,
	})
}

func (r *StoreRepository) updateByCustomerID(ctx context.Context, customerID string, columns map[string]interface{}) (*domain.Store, error) {
	var store domain.Store
	result := r.writerDB.WithContext(ctx).
		Model(&store).
		Clauses(clause.Returning{}).
		Where("stripe_customer_id = ?", customerID).
		Updates(columns)
	if err := requireRows(result); err != nil {
		return nil, err
	}
	return &store, nil
}

func (r *StoreRepository) CountEarlyBirds(ctx context.Context) (int64, error) {
	var count int64
	err := r.readerDB.WithContext(ctx).
		Model(&domain.Store{}).
		Where("is_early_bird = ?", true).
		Count(&count).Error
	return count, err
}
