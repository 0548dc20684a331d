package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kingrain94/tagorder-api/internal/api/dto"
	"github.com/kingrain94/tagorder-api/internal/domain"
	"github.com/kingrain94/tagorder-api/internal/metrics"
	"github.com/kingrain94/tagorder-api/internal/repository"
	"github.com/kingrain94/tagorder-api/internal/service/payment"
	"github.com/kingrain94/tagorder-api/pkg/logger"
)

const (
	EventSubscriptionCreated  = "customer.subscription.created"
	EventSubscriptionUpdated  = "customer.subscription.updated"
	EventSubscriptionDeleted  = "customer.subscription.deleted"
	EventInvoicePaymentFailed = "invoice.payment_failed"
)

// Store event types pushed to realtime subscribers.
const (
	StoreEventSubscriptionSynced = "subscription.synced"
	StoreEventSubscriptionEnded  = "subscription.ended"
	StoreEventPaymentFailed      = "payment.failed"
)

//go:generate mockery --name StoreNotifier --output ../mocks
type StoreNotifier interface {
	Publish(ctx context.Context, event *dto.StoreEvent) error
}

// ReconcilerService applies verified billing webhook events to store rows.
// The primary update of each event is fatal so the platform redelivers;
// everything after it is best-effort.
type ReconcilerService struct {
	repo      repository.Repository
	gateway   payment.Gateway
	catalog   *domain.PlanCatalog
	tags      *TagProvisioner
	referrals *ReferralService
	notifier  StoreNotifier
	logger    *logger.Logger
}

func NewReconcilerService(
	repo repository.Repository,
	gateway payment.Gateway,
	catalog *domain.PlanCatalog,
	tags *TagProvisioner,
	referrals *ReferralService,
	logger *logger.Logger,
) *ReconcilerService {
	return &ReconcilerService{
		repo:      repo,
		gateway:   gateway,
		catalog:   catalog,
		tags:      tags,
		referrals: referrals,
		logger:    logger,
	}
}

// SetNotifier enables realtime store update pushes.
func (s *ReconcilerService) SetNotifier(notifier StoreNotifier) {
	s.notifier = notifier
}

// HandleWebhook verifies and applies one delivery. ErrInvalidSignature means
// nothing was read or written.
func (s *ReconcilerService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := s.gateway.VerifyEvent(payload, signature)
	if err != nil {
		metrics.WebhookRejectedTotal.Inc()
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	start := time.Now()
	log := s.logger.With(zap.String("event_id", event.ID), zap.String("event_type", event.Type))

	store, outcome, err := s.dispatch(ctx, event, log)

	metrics.WebhookEventsTotal.WithLabelValues(event.Type, string(outcome)).Inc()
	metrics.WebhookDuration.WithLabelValues(event.Type).Observe(time.Since(start).Seconds())
	s.recordEvent(ctx, event, store, outcome, err, log)

	if err != nil {
		log.Error("Stripe webhook processing failed", err)
		return err
	}
	return nil
}

func (s *ReconcilerService) dispatch(ctx context.Context, event *payment.Event, log *logger.Logger) (*domain.Store, domain.BillingEventOutcome, error) {
	var (
		store *domain.Store
		err   error
	)

	switch event.Type {
	case EventSubscriptionCreated, EventSubscriptionUpdated:
		var sub payment.Subscription
		if err := json.Unmarshal(event.Object, &sub); err != nil {
			return nil, domain.BillingEventFailed, fmt.Errorf("decode subscription: %w", err)
		}
		store, err = s.syncSubscription(ctx, sub, log)

	case EventSubscriptionDeleted:
		var sub payment.Subscription
		if err := json.Unmarshal(event.Object, &sub); err != nil {
			return nil, domain.BillingEventFailed, fmt.Errorf("decode subscription: %w", err)
		}
		store, err = s.revertToFree(ctx, sub, log)

	case EventInvoicePaymentFailed:
		var invoice payment.Invoice
		if err := json.Unmarshal(event.Object, &invoice); err != nil {
			return nil, domain.BillingEventFailed, fmt.Errorf("decode invoice: %w", err)
		}
		store, err = s.markPastDue(ctx, invoice, log)

	default:
		log.Info("Stripe webhook ignored (unhandled type)")
		return nil, domain.BillingEventIgnored, nil
	}

	if err != nil {
		return nil, domain.BillingEventFailed, err
	}
	return store, domain.BillingEventProcessed, nil
}

// syncSubscription copies plan, quota and status from the subscription onto
// the store that owns its customer, then backfills tags and, for a referred
// store turning active, refreshes the referrer's discount.
func (s *ReconcilerService) syncSubscription(ctx context.Context, sub payment.Subscription, log *logger.Logger) (*domain.Store, error) {
	priceID := sub.FirstPriceID()
	plan := s.catalog.PlanFor(priceID)

	change := domain.SubscriptionChange{
		SubscriptionID: optional(sub.ID),
		PriceID:        optional(priceID),
		Plan:           plan.ID,
		MaxSKU:         plan.MaxSKU,
		Status:         domain.SubscriptionStatus(sub.Status),
	}

	store, err := s.updateSubscription(ctx, sub.Customer, change)
	if err != nil {
		return nil, err
	}
	log = log.With(zap.String("store_id", store.ID))

	added, err := s.tags.Provision(ctx, store)
	if err != nil {
		metrics.SecondaryFailuresTotal.WithLabelValues("tag_backfill").Inc()
		log.Error("Tag backfill failed", err, zap.Int("max_sku", store.MaxSKU))
	}

	if store.ReferredBy != nil && change.Status == domain.SubscriptionActive {
		if _, err := s.referrals.ApplyReferrerDiscount(ctx, *store.ReferredBy); err != nil {
			metrics.SecondaryFailuresTotal.WithLabelValues("referral_discount").Inc()
			log.Error("Referral discount update failed", err, zap.String("referrer_id", *store.ReferredBy))
		}
	}

	event := dto.NewStoreEvent(store, StoreEventSubscriptionSynced)
	event.TagsAdded = added
	s.notify(ctx, event, log)

	log.Info("Subscription synced",
		zap.String("plan", store.Plan),
		zap.Int("max_sku", store.MaxSKU),
		zap.String("status", string(store.SubscriptionStatus)))
	return store, nil
}

// revertToFree drops the store back to the free plan. Existing tags stay.
func (s *ReconcilerService) revertToFree(ctx context.Context, sub payment.Subscription, log *logger.Logger) (*domain.Store, error) {
	store, err := s.updateSubscription(ctx, sub.Customer, domain.FreeTierChange())
	if err != nil {
		return nil, err
	}

	s.notify(ctx, dto.NewStoreEvent(store, StoreEventSubscriptionEnded), log)
	log.Info("Subscription ended, store reverted to free", zap.String("store_id", store.ID))
	return store, nil
}

func (s *ReconcilerService) markPastDue(ctx context.Context, invoice payment.Invoice, log *logger.Logger) (*domain.Store, error) {
	if invoice.Customer == "" {
		return nil, fmt.Errorf("%w: invoice %s has no customer", ErrStoreNotFound, invoice.ID)
	}

	store, err := s.repo.Store().UpdateStatusByCustomerID(ctx, invoice.Customer, domain.SubscriptionPastDue)
	if err != nil {
		return nil, wrapCustomerLookup(err, invoice.Customer)
	}

	s.notify(ctx, dto.NewStoreEvent(store, StoreEventPaymentFailed), log)
	log.Warn("Invoice payment failed, store marked past due", zap.String("store_id", store.ID))
	return store, nil
}

func (s *ReconcilerService) updateSubscription(ctx context.Context, customerID string, change domain.SubscriptionChange) (*domain.Store, error) {
	if customerID == "" {
		return nil, fmt.Errorf("%w: subscription has no customer", ErrStoreNotFound)
	}
	store, err := s.repo.Store().UpdateSubscriptionByCustomerID(ctx, customerID, change)
	if err != nil {
		return nil, wrapCustomerLookup(err, customerID)
	}
	return store, nil
}

func (s *ReconcilerService) notify(ctx context.Context, event *dto.StoreEvent, log *logger.Logger) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Publish(ctx, event); err != nil {
		metrics.SecondaryFailuresTotal.WithLabelValues("notify").Inc()
		log.Warn("Failed to publish store event", zap.Error(err))
	}
}

func (s *ReconcilerService) recordEvent(ctx context.Context, event *payment.Event, store *domain.Store, outcome domain.BillingEventOutcome, procErr error, log *logger.Logger) {
	record := &domain.BillingEvent{
		ID:         event.ID,
		Type:       event.Type,
		CustomerID: event.CustomerID(),
		Outcome:    outcome,
		Payload:    event.Object,
	}
	if store != nil {
		record.StoreID = &store.ID
	}
	if procErr != nil {
		record.Error = procErr.Error()
	}

	if err := s.repo.BillingEvent().Record(ctx, record); err != nil {
		metrics.SecondaryFailuresTotal.WithLabelValues("event_log").Inc()
		log.Warn("Failed to record billing event", zap.Error(err))
	}
}

func wrapCustomerLookup(err error, customerID string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: no store for customer %s", ErrStoreNotFound, customerID)
	}
	return fmt.Errorf("failed to update store for customer %s: %w", customerID, err)
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
