package domain

import (
	"strings"
	"time"
)

type SubscriptionStatus string

const (
	SubscriptionNone     SubscriptionStatus = "none"
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionPastDue  SubscriptionStatus = "past_due"
	SubscriptionCanceled SubscriptionStatus = "canceled"
)

// Store is one salon account. Plan, MaxSKU and the Stripe fields are only
// written by checkout (customer id) and webhook reconciliation.
type Store struct {
	ID                   string             `gorm:"primaryKey;type:uuid" json:"id"`
	AuthUserID           string             `gorm:"type:uuid;not null;uniqueIndex" json:"auth_user_id"`
	Email                string             `gorm:"type:text" json:"email"`
	Name                 string             `gorm:"type:text;not null" json:"name"`
	StripeCustomerID     *string            `gorm:"type:text;uniqueIndex" json:"stripe_customer_id,omitempty"`
	StripeSubscriptionID *string            `gorm:"type:text" json:"stripe_subscription_id,omitempty"`
	StripePriceID        *string            `gorm:"type:text" json:"stripe_price_id,omitempty"`
	Plan                 string             `gorm:"type:text;not null;default:'free'" json:"plan"`
	MaxSKU               int                `gorm:"column:max_sku;not null;default:10" json:"max_sku"`
	SubscriptionStatus   SubscriptionStatus `gorm:"type:text;not null;default:'none'" json:"subscription_status"`
	ReferralCode         string             `gorm:"type:text;not null;uniqueIndex" json:"referral_code"`
	ReferredBy           *string            `gorm:"type:uuid" json:"referred_by,omitempty"`
	ReferralCount        int                `gorm:"not null;default:0" json:"referral_count"`
	IsEarlyBird          bool               `gorm:"not null;default:false" json:"is_early_bird"`
	CreatedAt            time.Time          `gorm:"type:timestamp with time zone;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt            time.Time          `gorm:"type:timestamp with time zone;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Store) TableName() string {
	return "stores"
}

// VIPEligible reports whether checkout attaches the VIP coupon instead of
// letting the customer type a promotion code.
func (s *Store) VIPEligible() bool {
	return s.IsEarlyBird || s.ReferredBy != nil
}

func (s *Store) HasCustomer() bool {
	return s.StripeCustomerID != nil && *s.StripeCustomerID != ""
}

func (s *Store) HasSubscription() bool {
	return s.StripeSubscriptionID != nil && *s.StripeSubscriptionID != ""
}

// TagPrefix is the store-specific prefix printed on every tag code.
func (s *Store) TagPrefix() string {
	return TagPrefixFor(s.ID)
}

// SubscriptionChange is the set of columns a subscription event overwrites,
// keyed by the Stripe customer id. Nil ids clear the column.
type SubscriptionChange struct {
	SubscriptionID *string
	PriceID        *string
	Plan           string
	MaxSKU         int
	Status         SubscriptionStatus
}

// FreeTierChange reverts a store to the free plan after its subscription ends.
func FreeTierChange() SubscriptionChange {
	free := FreePlan()
	return SubscriptionChange{
		Plan:   free.ID,
		MaxSKU: free.MaxSKU,
		Status: SubscriptionCanceled,
	}
}

// NormalizeReferralCode upper-cases and trims user-entered codes.
func NormalizeReferralCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
