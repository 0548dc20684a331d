package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kingrain94/tagorder-api/internal/api/dto"
	"github.com/kingrain94/tagorder-api/internal/domain"
	"github.com/kingrain94/tagorder-api/internal/repository"
	"github.com/kingrain94/tagorder-api/internal/utils"
	"github.com/kingrain94/tagorder-api/pkg/logger"
	timeutil "github.com/kingrain94/tagorder-api/pkg/utils"
)

const referralCodeLength = 8

type StoreService struct {
	repo        repository.Repository
	catalog     *domain.PlanCatalog
	capacity    *CapacityService
	tags        *TagProvisioner
	reorderBase string
	logger      *logger.Logger
}

func NewStoreService(repo repository.Repository, catalog *domain.PlanCatalog, capacity *CapacityService, tags *TagProvisioner, reorderBase string, logger *logger.Logger) *StoreService {
	return &StoreService{
		repo:        repo,
		catalog:     catalog,
		capacity:    capacity,
		tags:        tags,
		reorderBase: strings.TrimRight(reorderBase, "/"),
		logger:      logger,
	}
}

// Create signs the caller up as a free store. A referral code links the new
// store to its referrer and counts toward the referrer's discount.
func (s *StoreService) Create(ctx context.Context, identity utils.Identity, req dto.CreateStoreRequest) (*dto.StoreResponse, error) {
	_, err := s.repo.Store().GetByAuthUserID(ctx, identity.UserID)
	if err == nil {
		return nil, ErrStoreExists
	}
	if !isNotFound(err) {
		return nil, fmt.Errorf("failed to check existing store: %w", err)
	}

	var referredBy *string
	if code := domain.NormalizeReferralCode(req.ReferralCode); code != "" {
		referrer, err := s.repo.Store().GetByReferralCode(ctx, code)
		if isNotFound(err) {
			return nil, ErrUnknownReferralCode
		}
		if err != nil {
			return nil, fmt.Errorf("failed to resolve referral code: %w", err)
		}
		referredBy = &referrer.ID
	}

	earlyBird, err := s.capacity.HasEarlyBirdSlot(ctx)
	if err != nil {
		return nil, err
	}

	free := domain.FreePlan()
	store := &domain.Store{
		ID:                 uuid.NewString(),
		AuthUserID:         identity.UserID,
		Email:              identity.Email,
		Name:               strings.TrimSpace(req.Name),
		Plan:               free.ID,
		MaxSKU:             free.MaxSKU,
		SubscriptionStatus: domain.SubscriptionNone,
		ReferralCode:       newReferralCode(),
		ReferredBy:         referredBy,
		IsEarlyBird:        earlyBird,
	}

	if err := s.repo.Store().Create(ctx, store); err != nil {
		switch {
		case errors.Is(err, repository.ErrConflict):
			return nil, ErrStoreExists
		case isNotFound(err):
			// Referrer row vanished between lookup and insert.
			return nil, ErrUnknownReferralCode
		}
		return nil, fmt.Errorf("failed to create store: %w", err)
	}
	if earlyBird {
		s.capacity.Invalidate()
	}

	if _, err := s.tags.Provision(ctx, store); err != nil {
		s.logger.Error("Initial tag provisioning failed", err, zap.String("store_id", store.ID))
	}

	s.logger.Info("Store created",
		zap.String("store_id", store.ID),
		zap.Bool("early_bird", store.IsEarlyBird),
		zap.Bool("referred", referredBy != nil))
	return dto.FromStore(store, free), nil
}

func (s *StoreService) GetMe(ctx context.Context, identity utils.Identity) (*dto.StoreResponse, error) {
	store, err := s.storeFor(ctx, identity)
	if err != nil {
		return nil, err
	}
	return dto.FromStore(store, s.planOf(store)), nil
}

// StoreIDFor resolves the caller's store id, for stream subscriptions.
func (s *StoreService) StoreIDFor(ctx context.Context, identity utils.Identity) (string, error) {
	store, err := s.storeFor(ctx, identity)
	if err != nil {
		return "", err
	}
	return store.ID, nil
}

func (s *StoreService) ListTags(ctx context.Context, identity utils.Identity) ([]dto.TagResponse, error) {
	store, err := s.storeFor(ctx, identity)
	if err != nil {
		return nil, err
	}
	tags, err := s.repo.Tag().ListByStore(ctx, store.ID)
	if err != nil {
		return nil, err
	}
	return dto.FromTags(tags), nil
}

func (s *StoreService) ExportTags(ctx context.Context, identity utils.Identity, format string) (*TagSheet, error) {
	if format == "" {
		format = ExportFormatCSV
	}

	store, err := s.storeFor(ctx, identity)
	if err != nil {
		return nil, err
	}
	tags, err := s.repo.Tag().ListByStore(ctx, store.ID)
	if err != nil {
		return nil, err
	}
	return renderTagSheet(format, store.TagPrefix(), tags, s.reorderBase)
}

func (s *StoreService) ListBillingEvents(ctx context.Context, identity utils.Identity, query dto.BillingEventQuery) ([]dto.BillingEventResponse, error) {
	filter := domain.BillingEventFilter{Limit: query.Limit}
	if query.Since != "" {
		since, err := timeutil.ParseUserTime(query.Since, false)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
		}
		filter.Since = since
	}

	store, err := s.storeFor(ctx, identity)
	if err != nil {
		return nil, err
	}
	filter.StoreID = store.ID

	events, err := s.repo.BillingEvent().List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return dto.FromBillingEvents(events), nil
}

func (s *StoreService) Plans() []dto.PlanResponse {
	return dto.FromPlans(s.catalog.Plans())
}

func (s *StoreService) storeFor(ctx context.Context, identity utils.Identity) (*domain.Store, error) {
	store, err := s.repo.Store().GetByAuthUserID(ctx, identity.UserID)
	if isNotFound(err) {
		return nil, ErrStoreNotFound
	}
	return store, err
}

// planOf labels the store's plan. Free stores and stores whose price was
// removed from the catalog fall back to the stored quota.
func (s *StoreService) planOf(store *domain.Store) domain.Plan {
	if store.StripePriceID != nil {
		if plan := s.catalog.PlanFor(*store.StripePriceID); plan.ID == store.Plan {
			return plan
		}
	}
	plan := domain.FreePlan()
	if store.Plan != plan.ID {
		plan = domain.Plan{ID: store.Plan, MaxSKU: store.MaxSKU, Label: store.Plan}
	}
	return plan
}

func newReferralCode() string {
	code := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return code[:referralCodeLength]
}
