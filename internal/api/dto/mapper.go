package dto

import (
	"github.com/kingrain94/tagorder-api/internal/domain"
)

// FromStore converts a Store to its API shape; plan carries the label.
func FromStore(store *domain.Store, plan domain.Plan) *StoreResponse {
	return &StoreResponse{
		ID:                 store.ID,
		Name:               store.Name,
		Email:              store.Email,
		Plan:               store.Plan,
		PlanLabel:          plan.Label,
		MaxSKU:             store.MaxSKU,
		SubscriptionStatus: string(store.SubscriptionStatus),
		ReferralCode:       store.ReferralCode,
		ReferralCount:      store.ReferralCount,
		ReferredBy:         store.ReferredBy,
		IsEarlyBird:        store.IsEarlyBird,
		HasSubscription:    store.HasSubscription(),
		CreatedAt:          store.CreatedAt,
		UpdatedAt:          store.UpdatedAt,
	}
}

func FromTags(tags []domain.Tag) []TagResponse {
	responses := make([]TagResponse, len(tags))
	for i, tag := range tags {
		responses[i] = TagResponse{
			Code:      tag.Code,
			Status:    string(tag.Status),
			ProductID: tag.ProductID,
			CreatedAt: tag.CreatedAt,
		}
	}
	return responses
}

func FromBillingEvents(events []domain.BillingEvent) []BillingEventResponse {
	responses := make([]BillingEventResponse, len(events))
	for i, event := range events {
		responses[i] = BillingEventResponse{
			ID:         event.ID,
			Type:       event.Type,
			Outcome:    string(event.Outcome),
			Error:      event.Error,
			Attempts:   event.Attempts,
			ReceivedAt: event.ReceivedAt,
		}
	}
	return responses
}

func FromPlans(plans []domain.PricedPlan) []PlanResponse {
	responses := make([]PlanResponse, len(plans))
	for i, plan := range plans {
		responses[i] = PlanResponse{
			Plan:    plan.ID,
			PriceID: plan.PriceID,
			MaxSKU:  plan.MaxSKU,
			Label:   plan.Label,
			Price:   plan.Price,
		}
	}
	return responses
}

// NewStoreEvent snapshots the billing columns of store for a realtime push.
func NewStoreEvent(store *domain.Store, eventType string) *StoreEvent {
	return &StoreEvent{
		StoreID:            store.ID,
		Type:               eventType,
		Plan:               store.Plan,
		MaxSKU:             store.MaxSKU,
		SubscriptionStatus: string(store.SubscriptionStatus),
	}
}
