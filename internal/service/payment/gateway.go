// Package payment talks to the billing platform: customers, coupons,
// checkout sessions, subscription discounts and webhook verification.
package payment

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
)

var (
	ErrMissingSignature = errors.New("missing Stripe signature")
	ErrInvalidSignature = errors.New("invalid Stripe signature")
)

//go:generate mockery --name Gateway --output ../../mocks
type Gateway interface {
	CreateCustomer(ctx context.Context, email string, metadata map[string]string) (string, error)
	// FindOrCreateCoupon returns spec.ID, creating the coupon from spec
	// when the platform has no coupon with that id.
	FindOrCreateCoupon(ctx context.Context, spec CouponSpec) (string, error)
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (string, error)
	// ApplySubscriptionCoupon replaces any discount on the subscription.
	ApplySubscriptionCoupon(ctx context.Context, subscriptionID, couponID string) error
	VerifyEvent(payload []byte, signature string) (*Event, error)
}

// CouponSpec describes a fixed-amount coupon that lasts forever.
type CouponSpec struct {
	ID        string
	Name      string
	AmountOff int64
	Currency  string
}

type CheckoutRequest struct {
	CustomerID          string
	PriceID             string
	SuccessURL          string
	CancelURL           string
	CouponID            string
	AllowPromotionCodes bool
	TrialDays           int64
	Metadata            map[string]string
}

// Event is a verified webhook event. Object is the raw data.object payload.
type Event struct {
	ID     string
	Type   string
	Object json.RawMessage
}

// Subscription is the subset of a subscription object the reconciler reads.
type Subscription struct {
	ID       string            `json:"id"`
	Customer string            `json:"customer"`
	Status   string            `json:"status"`
	Metadata map[string]string `json:"metadata"`
	Items    struct {
		Data []struct {
			Price struct {
				ID string `json:"id"`
			} `json:"price"`
		} `json:"data"`
	} `json:"items"`
}

// FirstPriceID returns the price of the first subscription item, or "".
func (s Subscription) FirstPriceID() string {
	for _, item := range s.Items.Data {
		if id := strings.TrimSpace(item.Price.ID); id != "" {
			return id
		}
	}
	return ""
}

// Invoice is the subset of an invoice object the reconciler reads.
type Invoice struct {
	ID           string `json:"id"`
	Customer     string `json:"customer"`
	Subscription string `json:"subscription"`
}

// CustomerID extracts data.object.customer from any event payload.
func (e *Event) CustomerID() string {
	var object struct {
		Customer string `json:"customer"`
	}
	if err := json.Unmarshal(e.Object, &object); err != nil {
		return ""
	}
	return object.Customer
}
