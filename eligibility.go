package discounts

import (
	"context"
	"strings"
	"time"

	"goflare.io/discounts/models"
)

// Verdict is the outcome of evaluating a discount's conditions. When the
// discount is ineligible, Failure carries the single reported reason.
type Verdict struct {
	Eligible bool
	Failure  *IneligibleError
}

// EvaluationInput is the state snapshot a verdict is computed from.
type EvaluationInput struct {
	Conditions *models.DiscountConditions
	Cart       *models.Cart
	ShopID     string
	Location   *models.ShopLocationSettings
	Counts     UsageCounts
	Now        time.Time
}

// conditionCheck returns a non-nil failure when its condition rejects the
// application.
type conditionCheck func(ctx context.Context) *IneligibleError

// Evaluator is the pure rules engine deciding discount eligibility. County
// resolution is its only collaborator.
type Evaluator struct {
	resolver CountyResolver
}

func NewEvaluator(resolver CountyResolver) *Evaluator {
	return &Evaluator{resolver: resolver}
}

// Evaluate runs the condition checks in a fixed precedence order and reports
// the first failure. A discount without conditions is always eligible.
//
// Shop adherence and geography come first as hard jurisdictional
// constraints; monetary and usage limits follow; temporal state is checked
// last. The order is part of the contract: verdicts must be deterministic
// for a given snapshot.
func (ev *Evaluator) Evaluate(ctx context.Context, in EvaluationInput) Verdict {
	if in.Conditions == nil {
		return Verdict{Eligible: true}
	}

	checks := []conditionCheck{
		ev.checkExcludedShops(in),
		ev.checkCounty(in),
		ev.checkOrderBounds(in),
		ev.checkRedemptionLimit(in),
		ev.checkAccountLimit(in),
		ev.checkEnabled(in),
		ev.checkEndDate(in),
	}

	for _, check := range checks {
		if failure := check(ctx); failure != nil {
			return Verdict{Failure: failure}
		}
	}

	return Verdict{Eligible: true}
}

// checkExcludedShops rejects shops listed in the conditions' permissions
// field. Listed shops are disqualified, not authorized.
func (ev *Evaluator) checkExcludedShops(in EvaluationInput) conditionCheck {
	return func(context.Context) *IneligibleError {
		for _, shopID := range in.Conditions.ExcludedShopIDs {
			if shopID == in.ShopID {
				return &IneligibleError{Reason: ReasonNotAdherentStore}
			}
		}
		return nil
	}
}

// checkCounty requires the shop's resolved county to match the required one
// case-insensitively. An unresolvable county is a mismatch, never an error.
func (ev *Evaluator) checkCounty(in EvaluationInput) conditionCheck {
	return func(ctx context.Context) *IneligibleError {
		if in.Conditions.County == nil {
			return nil
		}
		county, ok := ev.resolver.ResolveCounty(ctx, in.Location)
		if !ok || !strings.EqualFold(county, *in.Conditions.County) {
			return &IneligibleError{Reason: ReasonInvalidCounty}
		}
		return nil
	}
}

// checkOrderBounds verifies min <= cartTotal <= max. Boundary values pass.
func (ev *Evaluator) checkOrderBounds(in EvaluationInput) conditionCheck {
	return func(context.Context) *IneligibleError {
		order := in.Conditions.Order
		if order == nil || (order.Min == nil && order.Max == nil) {
			return nil
		}
		total := in.Cart.Total()
		if (order.Min != nil && total < *order.Min) || (order.Max != nil && total > *order.Max) {
			return &IneligibleError{
				Reason: ReasonAmountOutOfBounds,
				Min:    order.Min,
				Max:    order.Max,
			}
		}
		return nil
	}
}

func (ev *Evaluator) checkRedemptionLimit(in EvaluationInput) conditionCheck {
	return func(context.Context) *IneligibleError {
		limit := in.Conditions.RedemptionLimit
		if limit > 0 && in.Counts.TotalRedemptions >= limit {
			return &IneligibleError{Reason: ReasonDiscountLimitExceeded}
		}
		return nil
	}
}

// checkAccountLimit disqualifies once either the user's transaction count or
// their discount-bearing cart count reaches the limit.
func (ev *Evaluator) checkAccountLimit(in EvaluationInput) conditionCheck {
	return func(context.Context) *IneligibleError {
		limit := in.Conditions.AccountLimit
		if limit > 0 && (in.Counts.UserRedemptions >= limit || in.Counts.CartRedemptions >= limit) {
			return &IneligibleError{Reason: ReasonUserLimitExceeded}
		}
		return nil
	}
}

func (ev *Evaluator) checkEnabled(in EvaluationInput) conditionCheck {
	return func(context.Context) *IneligibleError {
		if !in.Conditions.Enabled {
			return &IneligibleError{Reason: ReasonDiscountDisabled}
		}
		return nil
	}
}

func (ev *Evaluator) checkEndDate(in EvaluationInput) conditionCheck {
	return func(context.Context) *IneligibleError {
		order := in.Conditions.Order
		if order != nil && order.EndDate != nil && order.EndDate.Before(in.Now) {
			return &IneligibleError{Reason: ReasonDiscountOutdated}
		}
		return nil
	}
}
