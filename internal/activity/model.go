package activity

import "time"

// Activity carries up to three price columns. Older installations filled
// cost_cents or monthly_price_cents instead of price_cents, so the resolver
// checks them in priority order rather than coalescing in SQL.
type Activity struct {
	ID                int       `db:"id" json:"id"`
	GymID             int       `db:"gym_id" json:"gym_id"`
	Name              string    `db:"name" json:"name"`
	PriceCents        *int64    `db:"price_cents" json:"price_cents,omitempty"`
	CostCents         *int64    `db:"cost_cents" json:"cost_cents,omitempty"`
	MonthlyPriceCents *int64    `db:"monthly_price_cents" json:"monthly_price_cents,omitempty"`
	Active            bool      `db:"active" json:"active"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
}

// Plan is the membership-plan fallback the resolver consults when an
// activity record exposes no usable price.
type Plan struct {
	ID         int       `db:"id" json:"id"`
	GymID      int       `db:"gym_id" json:"gym_id"`
	ActivityID int       `db:"activity_id" json:"activity_id"`
	Name       string    `db:"name" json:"name"`
	CostCents  int64     `db:"cost_cents" json:"cost_cents"`
	Active     bool      `db:"active" json:"active"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
