package domain

import (
	"encoding/json"
	"time"
)

type BillingEventOutcome string

const (
	BillingEventProcessed BillingEventOutcome = "processed"
	BillingEventFailed    BillingEventOutcome = "failed"
	BillingEventIgnored   BillingEventOutcome = "ignored"
)

// BillingEvent is the audit record of one verified webhook delivery. Retries
// of the same event update the row and bump Attempts.
type BillingEvent struct {
	ID         string              `gorm:"primaryKey;type:text" json:"id"`
	Type       string              `gorm:"type:text;not null;index" json:"type"`
	CustomerID string              `gorm:"type:text;index" json:"customer_id"`
	StoreID    *string             `gorm:"type:uuid;index" json:"store_id,omitempty"`
	Outcome    BillingEventOutcome `gorm:"type:text;not null" json:"outcome"`
	Error      string              `gorm:"type:text" json:"error,omitempty"`
	Attempts   int                 `gorm:"not null;default:1" json:"attempts"`
	Payload    json.RawMessage     `gorm:"type:jsonb" json:"payload,omitempty"`
	ReceivedAt time.Time           `gorm:"type:timestamp with time zone;not null;index" json:"received_at"`
	CreatedAt  time.Time           `gorm:"type:timestamp with time zone;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time           `gorm:"type:timestamp with time zone;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (BillingEvent) TableName() string {
	return "billing_events"
}

type BillingEventFilter struct {
	StoreID string
	Since   time.Time
	Before  time.Time
	Limit   int
}
