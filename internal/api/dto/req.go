package dto

// CheckoutRequest is the body of POST /checkout. The token may instead come
// from the Authorization header.
type CheckoutRequest struct {
	PriceID     string `json:"priceId" example:"price_1PlLite"`
	AccessToken string `json:"accessToken,omitempty"`
	TrialDays   int64  `json:"trialDays,omitempty" example:"14"`
}

type CreateStoreRequest struct {
	Name         string `json:"name" binding:"required,max=120" example:"Salon Aoyama"`
	ReferralCode string `json:"referral_code,omitempty" example:"7F3K9Q2M"`
}

type BillingEventQuery struct {
	Since string `form:"since" example:"2026-01-01"`
	Limit int    `form:"limit" binding:"omitempty,min=1,max=200" example:"50"`
}

type TagExportQuery struct {
	Format string `form:"format" binding:"omitempty,oneof=csv xlsx" example:"xlsx"`
}
