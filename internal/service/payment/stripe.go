package payment

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"github.com/stripe/stripe-go/v79/webhook"
)

type StripeGateway struct {
	api           *client.API
	webhookSecret string
}

func NewStripeGateway(secretKey, webhookSecret string) *StripeGateway {
	return NewStripeGatewayWithBackends(secretKey, webhookSecret, nil)
}

// NewStripeGatewayWithBackends lets callers point the client at another API
// base URL. Nil backends use the defaults.
func NewStripeGatewayWithBackends(secretKey, webhookSecret string, backends *stripe.Backends) *StripeGateway {
	return &StripeGateway{
		api:           client.New(secretKey, backends),
		webhookSecret: webhookSecret,
	}
}

func (g *StripeGateway) CreateCustomer(ctx context.Context, email string, metadata map[string]string) (string, error) {
	params := &stripe.CustomerParams{}
	params.Context = ctx
	if email != "" {
		params.Email = stripe.String(email)
	}
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	cust, err := g.api.Customers.New(params)
	if err != nil {
		return "", fmt.Errorf("create customer: %w", err)
	}
	return cust.ID, nil
}

func (g *StripeGateway) FindOrCreateCoupon(ctx context.Context, spec CouponSpec) (string, error) {
	getParams := &stripe.CouponParams{}
	getParams.Context = ctx
	existing, err := g.api.Coupons.Get(spec.ID, getParams)
	if err == nil {
		return existing.ID, nil
	}
	if !isResourceMissing(err) {
		return "", fmt.Errorf("get coupon %s: %w", spec.ID, err)
	}

	params := &stripe.CouponParams{
		ID:        stripe.String(spec.ID),
		AmountOff: stripe.Int64(spec.AmountOff),
		Currency:  stripe.String(strings.ToLower(spec.Currency)),
		Duration:  stripe.String(string(stripe.CouponDurationForever)),
	}
	params.Context = ctx
	if spec.Name != "" {
		params.Name = stripe.String(spec.Name)
	}

	created, err := g.api.Coupons.New(params)
	if err == nil {
		return created.ID, nil
	}
	if !isResourceExists(err) {
		return "", fmt.Errorf("create coupon %s: %w", spec.ID, err)
	}

	// A concurrent checkout created the same coupon between get and create.
	existing, err = g.api.Coupons.Get(spec.ID, getParams)
	if err != nil {
		return "", fmt.Errorf("get coupon %s: %w", spec.ID, err)
	}
	return existing.ID, nil
}

func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (string, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:     stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		Customer: stripe.String(req.CustomerID),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(req.PriceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
	}
	params.Context = ctx

	// Stripe rejects discounts and allow_promotion_codes together.
	if req.CouponID != "" {
		params.Discounts = []*stripe.CheckoutSessionDiscountParams{
			{Coupon: stripe.String(req.CouponID)},
		}
	} else if req.AllowPromotionCodes {
		params.AllowPromotionCodes = stripe.Bool(true)
	}

	subscriptionData := &stripe.CheckoutSessionSubscriptionDataParams{}
	if req.TrialDays > 0 {
		subscriptionData.TrialPeriodDays = stripe.Int64(req.TrialDays)
	}
	if len(req.Metadata) > 0 {
		subscriptionData.Metadata = make(map[string]string, len(req.Metadata))
		for k, v := range req.Metadata {
			params.AddMetadata(k, v)
			subscriptionData.Metadata[k] = v
		}
	}
	if subscriptionData.TrialPeriodDays != nil || subscriptionData.Metadata != nil {
		params.SubscriptionData = subscriptionData
	}

	sess, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return "", fmt.Errorf("create checkout session: %w", err)
	}
	return sess.URL, nil
}

func (g *StripeGateway) ApplySubscriptionCoupon(ctx context.Context, subscriptionID, couponID string) error {
	params := &stripe.SubscriptionParams{
		Discounts: []*stripe.SubscriptionDiscountParams{
			{Coupon: stripe.String(couponID)},
		},
	}
	params.Context = ctx

	if _, err := g.api.Subscriptions.Update(subscriptionID, params); err != nil {
		return fmt.Errorf("apply coupon %s to subscription %s: %w", couponID, subscriptionID, err)
	}
	return nil
}

func (g *StripeGateway) VerifyEvent(payload []byte, signature string) (*Event, error) {
	if strings.TrimSpace(signature) == "" {
		return nil, ErrMissingSignature
	}

	event, err := webhook.ConstructEventWithOptions(payload, signature, g.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	out := &Event{ID: event.ID, Type: string(event.Type)}
	if event.Data != nil {
		out.Object = event.Data.Raw
	}
	return out, nil
}

func isResourceMissing(err error) bool {
	var stripeErr *stripe.Error
	if !errors.As(err, &stripeErr) {
		return false
	}
	return stripeErr.Code == stripe.ErrorCodeResourceMissing || stripeErr.HTTPStatusCode == http.StatusNotFound
}

func isResourceExists(err error) bool {
	var stripeErr *stripe.Error
	return errors.As(err, &stripeErr) && stripeErr.Code == stripe.ErrorCodeResourceAlreadyExists
}
