package service

import "errors"

var (
	// Store errors
	ErrStoreNotFound       = errors.New("store not found")
	ErrStoreExists         = errors.New("store already exists")
	ErrUnknownReferralCode = errors.New("unknown referral code")

	// Request errors
	ErrUnauthorized    = errors.New("unauthorized")
	ErrInvalidArgument = errors.New("invalid argument")

	// Billing errors
	ErrMissingPriceID   = errors.New("missing priceId")
	ErrInvalidSignature = errors.New("invalid webhook signature")
)
