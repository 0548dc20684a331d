package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/kingrain94/tagorder-api/internal/api/dto"
	"github.com/kingrain94/tagorder-api/internal/config"
	"github.com/kingrain94/tagorder-api/internal/domain"
	"github.com/kingrain94/tagorder-api/internal/metrics"
	"github.com/kingrain94/tagorder-api/internal/repository"
	"github.com/kingrain94/tagorder-api/internal/service/payment"
	"github.com/kingrain94/tagorder-api/internal/utils"
	"github.com/kingrain94/tagorder-api/pkg/logger"
	"github.com/kingrain94/tagorder-api/pkg/retry"
)

//go:generate mockery --name IdentityVerifier --output ../mocks
type IdentityVerifier interface {
	Verify(ctx context.Context, token string) (utils.Identity, error)
}

type CheckoutService struct {
	repo     repository.Repository
	gateway  payment.Gateway
	verifier IdentityVerifier
	config   *config.Config
	logger   *logger.Logger
}

func NewCheckoutService(repo repository.Repository, gateway payment.Gateway, verifier IdentityVerifier, config *config.Config, logger *logger.Logger) *CheckoutService {
	return &CheckoutService{
		repo:     repo,
		gateway:  gateway,
		verifier: verifier,
		config:   config,
		logger:   logger,
	}
}

// CreateSession starts a subscription checkout for the caller's store and
// returns the hosted checkout URL. origin is the request's Origin header.
func (s *CheckoutService) CreateSession(ctx context.Context, req dto.CheckoutRequest, origin string) (*dto.CheckoutResponse, error) {
	priceID := strings.TrimSpace(req.PriceID)
	if priceID == "" {
		return nil, ErrMissingPriceID
	}

	identity, err := s.verifier.Verify(ctx, req.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	store, err := s.findStore(ctx, identity.UserID)
	if err != nil {
		return nil, err
	}

	customerID, err := s.ensureCustomer(ctx, store, identity.Email)
	if err != nil {
		metrics.CheckoutSessionsTotal.WithLabelValues("failed").Inc()
		return nil, err
	}

	base := s.redirectBase(origin)
	checkout := payment.CheckoutRequest{
		CustomerID: customerID,
		PriceID:    priceID,
		SuccessURL: base + "/billing/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:  base + "/billing/cancel",
		TrialDays:  req.TrialDays,
		Metadata:   checkoutMetadata(store),
	}

	if store.VIPEligible() {
		couponID, err := s.gateway.FindOrCreateCoupon(ctx, s.vipCoupon())
		if err != nil {
			metrics.CheckoutSessionsTotal.WithLabelValues("failed").Inc()
			return nil, err
		}
		checkout.CouponID = couponID
	} else {
		checkout.AllowPromotionCodes = true
	}

	url, err := s.gateway.CreateCheckoutSession(ctx, checkout)
	if err != nil {
		metrics.CheckoutSessionsTotal.WithLabelValues("failed").Inc()
		return nil, err
	}

	metrics.CheckoutSessionsTotal.WithLabelValues("created").Inc()
	s.logger.Info("Checkout session created",
		zap.String("store_id", store.ID),
		zap.String("price_id", priceID),
		zap.Bool("vip", checkout.CouponID != ""))

	return &dto.CheckoutResponse{URL: url}, nil
}

// findStore tolerates the window between signup and the store row becoming
// visible.
func (s *CheckoutService) findStore(ctx context.Context, authUserID string) (*domain.Store, error) {
	policy := retry.Policy{
		MaxAttempts: s.config.Retry.StoreLookupAttempts,
		Delay:       s.config.Retry.StoreLookupDelay,
	}
	result := retry.Do(ctx, policy, func(ctx context.Context) (*domain.Store, error) {
		return s.repo.Store().GetByAuthUserID(ctx, authUserID)
	}, isNotFound)
	metrics.StoreLookupOutcomes.WithLabelValues(result.Outcome.String()).Inc()

	switch result.Outcome {
	case retry.Found:
		return result.Value, nil
	case retry.NotFound:
		return nil, ErrStoreNotFound
	default:
		return nil, fmt.Errorf("failed to load store: %w", result.Err)
	}
}

// ensureCustomer creates the billing customer once and persists its id
// before any session is created for it.
func (s *CheckoutService) ensureCustomer(ctx context.Context, store *domain.Store, email string) (string, error) {
	if store.HasCustomer() {
		return *store.StripeCustomerID, nil
	}
	if store.Email != "" {
		email = store.Email
	}

	customerID, err := s.gateway.CreateCustomer(ctx, email, map[string]string{
		"store_id":     store.ID,
		"auth_user_id": store.AuthUserID,
	})
	if err != nil {
		return "", err
	}

	if err := s.repo.Store().SetCustomerID(ctx, store.ID, customerID); err != nil {
		return "", fmt.Errorf("failed to save customer id: %w", err)
	}
	store.StripeCustomerID = &customerID
	return customerID, nil
}

func (s *CheckoutService) vipCoupon() payment.CouponSpec {
	return payment.CouponSpec{
		ID:        s.config.Stripe.VIPCouponID,
		Name:      "VIP discount",
		AmountOff: s.config.Stripe.VIPDiscountAmount,
		Currency:  s.config.Stripe.Currency,
	}
}

// redirectBase uses the request origin when CORS would accept it, otherwise
// the configured frontend URL.
func (s *CheckoutService) redirectBase(origin string) string {
	origin = strings.TrimRight(strings.TrimSpace(origin), "/")
	if origin != "" {
		for _, allowed := range s.config.CORSAllowedOrigins {
			if allowed == "*" || strings.EqualFold(allowed, origin) {
				return origin
			}
		}
	}
	return s.config.FrontendURL
}

func checkoutMetadata(store *domain.Store) map[string]string {
	referredBy := ""
	if store.ReferredBy != nil {
		referredBy = *store.ReferredBy
	}
	return map[string]string{
		"store_id":      store.ID,
		"referral_code": store.ReferralCode,
		"referred_by":   referredBy,
		"is_early_bird": strconv.FormatBool(store.IsEarlyBird),
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
