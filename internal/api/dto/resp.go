package dto

import (
	"encoding/json"
	"time"
)

type CheckoutResponse struct {
	URL string `json:"url" example:"https://checkout.stripe.com/c/pay/cs_test_a1"`
}

type WebhookResponse struct {
	Received bool `json:"received" example:"true"`
}

type CapacityResponse struct {
	Remaining int  `json:"remaining" example:"37"`
	Total     int  `json:"total" example:"100"`
	Closed    bool `json:"closed" example:"false"`
}

type PlanResponse struct {
	Plan    string `json:"plan" example:"lite"`
	PriceID string `json:"price_id,omitempty" example:"price_1PlLite"`
	MaxSKU  int    `json:"max_sku" example:"30"`
	Label   string `json:"label" example:"Lite (30 SKU)"`
	Price   int64  `json:"price" example:"980"`
}

type StoreResponse struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Email              string    `json:"email,omitempty"`
	Plan               string    `json:"plan" example:"free"`
	PlanLabel          string    `json:"plan_label" example:"Free"`
	MaxSKU             int       `json:"max_sku" example:"10"`
	SubscriptionStatus string    `json:"subscription_status" example:"none"`
	ReferralCode       string    `json:"referral_code" example:"7F3K9Q2M"`
	ReferralCount      int       `json:"referral_count" example:"0"`
	ReferredBy         *string   `json:"referred_by,omitempty"`
	IsEarlyBird        bool      `json:"is_early_bird"`
	HasSubscription    bool      `json:"has_subscription"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

type TagResponse struct {
	Code      string    `json:"code" example:"3FA85F-001"`
	Status    string    `json:"status" example:"unassigned"`
	ProductID *string   `json:"product_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type BillingEventResponse struct {
	ID         string    `json:"id" example:"evt_1PqR"`
	Type       string    `json:"type" example:"customer.subscription.updated"`
	Outcome    string    `json:"outcome" example:"processed"`
	Error      string    `json:"error,omitempty"`
	Attempts   int       `json:"attempts" example:"1"`
	ReceivedAt time.Time `json:"received_at"`
}

// StoreEvent is pushed to a store's realtime subscribers after billing
// changes its row.
type StoreEvent struct {
	StoreID            string          `json:"store_id"`
	Type               string          `json:"type" example:"subscription.synced"`
	Plan               string          `json:"plan"`
	MaxSKU             int             `json:"max_sku"`
	SubscriptionStatus string          `json:"subscription_status"`
	TagsAdded          int64           `json:"tags_added,omitempty"`
	OccurredAt         time.Time       `json:"occurred_at"`
	Details            json.RawMessage `json:"details,omitempty" swaggertype:"object"`
}
