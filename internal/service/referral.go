package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kingrain94/tagorder-api/internal/repository"
	"github.com/kingrain94/tagorder-api/internal/service/payment"
	"github.com/kingrain94/tagorder-api/pkg/logger"
)

const defaultReferralUnit = 500

type ReferralService struct {
	repo     repository.Repository
	gateway  payment.Gateway
	unit     int64
	currency string
	logger   *logger.Logger
}

func NewReferralService(repo repository.Repository, gateway payment.Gateway, unit int64, currency string, logger *logger.Logger) *ReferralService {
	if unit <= 0 {
		unit = defaultReferralUnit
	}
	return &ReferralService{
		repo:     repo,
		gateway:  gateway,
		unit:     unit,
		currency: currency,
		logger:   logger,
	}
}

// ReferralCouponID names the shared coupon for a total discount amount, so
// every referrer with the same count reuses one coupon.
func ReferralCouponID(amount int64) string {
	return fmt.Sprintf("referral_%d", amount)
}

// ApplyReferrerDiscount sets the referrer's subscription discount to
// referral_count * unit, replacing whatever discount it had. It returns the
// applied coupon id, or "" when there was nothing to do.
func (s *ReferralService) ApplyReferrerDiscount(ctx context.Context, referrerID string) (string, error) {
	referrer, err := s.repo.Store().GetByID(ctx, referrerID)
	if errors.Is(err, repository.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to load referrer %s: %w", referrerID, err)
	}

	// Free-tier referrers have nothing to discount.
	if !referrer.HasSubscription() {
		return "", nil
	}

	amount := int64(referrer.ReferralCount) * s.unit
	if amount <= 0 {
		return "", nil
	}

	couponID, err := s.gateway.FindOrCreateCoupon(ctx, payment.CouponSpec{
		ID:        ReferralCouponID(amount),
		Name:      fmt.Sprintf("Referral discount x%d", referrer.ReferralCount),
		AmountOff: amount,
		Currency:  s.currency,
	})
	if err != nil {
		return "", err
	}

	if err := s.gateway.ApplySubscriptionCoupon(ctx, *referrer.StripeSubscriptionID, couponID); err != nil {
		return "", err
	}

	s.logger.Info("Referral discount applied",
		zap.String("referrer_id", referrer.ID),
		zap.Int("referral_count", referrer.ReferralCount),
		zap.String("coupon_id", couponID))
	return couponID, nil
}
