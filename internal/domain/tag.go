package domain

import (
	"fmt"
	"strings"
	"time"
)

type TagStatus string

const (
	TagUnassigned TagStatus = "unassigned"
	TagAttached   TagStatus = "attached"
	TagRemoved    TagStatus = "removed"
)

const tagPrefixLength = 6

// Tag is a physical reorder-point marker. (StoreID, Code) is the key, which
// is what makes batch provisioning safe to repeat.
type Tag struct {
	StoreID   string    `gorm:"primaryKey;type:uuid" json:"store_id"`
	Code      string    `gorm:"primaryKey;type:text" json:"code"`
	Status    TagStatus `gorm:"type:text;not null;default:'unassigned'" json:"status"`
	ProductID *string   `gorm:"type:uuid" json:"product_id,omitempty"`
	CreatedAt time.Time `gorm:"type:timestamp with time zone;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:timestamp with time zone;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Tag) TableName() string {
	return "tags"
}

func TagPrefixFor(storeID string) string {
	compact := strings.ToUpper(strings.ReplaceAll(storeID, "-", ""))
	if len(compact) > tagPrefixLength {
		compact = compact[:tagPrefixLength]
	}
	return compact
}

// TagCode formats the n-th (1-based) tag of a store, e.g. "3FA85F-007".
func TagCode(prefix string, n int) string {
	return fmt.Sprintf("%s-%03d", prefix, n)
}

// TagsInRange builds unassigned tags numbered from..to inclusive. An empty
// slice is returned when from > to.
func TagsInRange(storeID string, from, to int) []Tag {
	if from < 1 {
		from = 1
	}
	if from > to {
		return []Tag{}
	}
	prefix := TagPrefixFor(storeID)
	tags := make([]Tag, 0, to-from+1)
	for n := from; n <= to; n++ {
		tags = append(tags, Tag{
			StoreID: storeID,
			Code:    TagCode(prefix, n),
			Status:  TagUnassigned,
		})
	}
	return tags
}
