package domain

import "sort"

const (
	PlanFree     = "free"
	PlanLite     = "lite"
	PlanStandard = "standard"
	PlanPro      = "pro"

	DefaultMaxSKU = 10
)

// Plan describes one subscription tier. Price is in the billing currency's
// smallest unit.
type Plan struct {
	ID     string `json:"plan"`
	MaxSKU int    `json:"max_sku"`
	Label  string `json:"label"`
	Price  int64  `json:"price"`
}

func FreePlan() Plan {
	return Plan{ID: PlanFree, MaxSKU: DefaultMaxSKU, Label: "Free", Price: 0}
}

// PlanCatalog maps Stripe price ids to plans.
type PlanCatalog struct {
	byPrice map[string]Plan
}

// NewPlanCatalog builds a catalog from price id -> plan. Entries with an empty
// price id are skipped so an unconfigured tier can never match.
func NewPlanCatalog(entries map[string]Plan) *PlanCatalog {
	byPrice := make(map[string]Plan, len(entries))
	for priceID, plan := range entries {
		if priceID == "" {
			continue
		}
		byPrice[priceID] = plan
	}
	return &PlanCatalog{byPrice: byPrice}
}

// DefaultPlans returns the paid tiers keyed by plan id.
func DefaultPlans() map[string]Plan {
	return map[string]Plan{
		PlanLite:     {ID: PlanLite, MaxSKU: 30, Label: "Lite (30 SKU)", Price: 980},
		PlanStandard: {ID: PlanStandard, MaxSKU: 100, Label: "Standard (100 SKU)", Price: 2980},
		PlanPro:      {ID: PlanPro, MaxSKU: 300, Label: "Pro (300 SKU)", Price: 5980},
	}
}

// PlanFor never fails: unknown and empty ids resolve to the free plan.
func (c *PlanCatalog) PlanFor(priceID string) Plan {
	if c != nil {
		if plan, ok := c.byPrice[priceID]; ok {
			return plan
		}
	}
	return FreePlan()
}

// PricedPlan pairs a plan with the price id that buys it.
type PricedPlan struct {
	PriceID string
	Plan
}

// Plans lists the free plan followed by paid plans ordered by quota.
func (c *PlanCatalog) Plans() []PricedPlan {
	plans := []PricedPlan{{Plan: FreePlan()}}
	if c == nil {
		return plans
	}
	paid := make([]PricedPlan, 0, len(c.byPrice))
	for priceID, plan := range c.byPrice {
		paid = append(paid, PricedPlan{PriceID: priceID, Plan: plan})
	}
	sort.Slice(paid, func(i, j int) bool {
		if paid[i].MaxSKU != paid[j].MaxSKU {
			return paid[i].MaxSKU < paid[j].MaxSKU
		}
		return paid[i].PriceID < paid[j].PriceID
	})
	return append(plans, paid...)
}
