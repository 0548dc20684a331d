package repository

import (
	"context"
	"errors"
	"time"

	"github.com/kingrain94/tagorder-api/internal/domain"
)

var (
	// ErrNotFound is returned when a lookup finds no row or an update
	// matches zero rows.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when an insert violates a unique key.
	ErrConflict = errors.New("record already exists")
)

//go:generate mockery --name StoreRepository --output ../mocks
type StoreRepository interface {
	// Create inserts the store and, when ReferredBy is set, bumps the
	// referrer's referral_count in the same transaction.
	Create(ctx context.Context, store *domain.Store) error
	GetByID(ctx context.Context, id string) (*domain.Store, error)
	GetByAuthUserID(ctx context.Context, authUserID string) (*domain.Store, error)
	GetByCustomerID(ctx context.Context, customerID string) (*domain.Store, error)
	GetByReferralCode(ctx context.Context, code string) (*domain.Store, error)
	SetCustomerID(ctx context.Context, storeID, customerID string) error
	UpdateSubscriptionByCustomerID(ctx context.Context, customerID string, change domain.SubscriptionChange) (*domain.Store, error)
	UpdateStatusByCustomerID(ctx context.Context, customerID string, status domain.SubscriptionStatus) (*domain.Store, error)
	CountEarlyBirds(ctx context.Context) (int64, error)
}

//go:generate mockery --name TagRepository --output ../mocks
type TagRepository interface {
	Count(ctx context.Context, storeID string) (int64, error)
	InsertIfAbsent(ctx context.Context, tags []domain.Tag) (int64, error)
	ListByStore(ctx context.Context, storeID string) ([]domain.Tag, error)
}

//go:generate mockery --name BillingEventRepository --output ../mocks
type BillingEventRepository interface {
	Record(ctx context.Context, event *domain.BillingEvent) error
	List(ctx context.Context, filter domain.BillingEventFilter) ([]domain.BillingEvent, error)
	ListBefore(ctx context.Context, before time.Time, limit int) ([]domain.BillingEvent, error)
	DeleteBefore(ctx context.Context, before time.Time) (int64, error)
}

//go:generate mockery --name Repository --output ../mocks
type Repository interface {
	Store() StoreRepository
	Tag() TagRepository
	BillingEvent() BillingEventRepository
}
