package activity

import (
	"context"
	"errors"
)

// PriceResolver answers "what does this activity cost this month". A nil
// result means no positive price could be found anywhere; callers fall back
// to the cost already stored on the membership.
type PriceResolver interface {
	CurrentPriceCents(ctx context.Context, gymID, activityID int) (*int64, error)
}

type resolver struct {
	repo Repository
}

func NewPriceResolver(repo Repository) PriceResolver {
	return &resolver{repo: repo}
}

// CurrentPriceCents checks the activity's price columns in priority order
// (price_cents, cost_cents, monthly_price_cents) and falls back to a single
// active membership plan for the activity. Read-only.
func (r *resolver) CurrentPriceCents(ctx context.Context, gymID, activityID int) (*int64, error) {
	if activityID == 0 {
		return nil, nil
	}

	a, err := r.repo.GetByID(ctx, gymID, activityID)
	if err != nil && !errors.Is(err, ErrActivityNotFound) {
		return nil, err
	}
	if a != nil {
		for _, price := range []*int64{a.PriceCents, a.CostCents, a.MonthlyPriceCents} {
			if price != nil && *price > 0 {
				v := *price
				return &v, nil
			}
		}
	}

	plan, err := r.repo.GetActivePlanForActivity(ctx, gymID, activityID)
	if err != nil {
		if errors.Is(err, ErrPlanNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if plan.CostCents > 0 {
		v := plan.CostCents
		return &v, nil
	}

	return nil, nil
}
