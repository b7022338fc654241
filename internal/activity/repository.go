package activity

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

var (
	ErrActivityNotFound = errors.New("activity not found")
	ErrPlanNotFound     = errors.New("membership plan not found")
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateActivity(ctx context.Context, gymID int, name string, priceCents *int64) (*Activity, error) {
	a := &Activity{}
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO activities (gym_id, name, price_cents)
		VALUES ($1, $2, $3)
		RETURNING id, gym_id, name, price_cents, cost_cents, monthly_price_cents, active, created_at
	`, gymID, name, priceCents).StructScan(a)
	return a, err
}

func (r *repository) GetByID(ctx context.Context, gymID, id int) (*Activity, error) {
	a := &Activity{}
	err := r.db.GetContext(ctx, a, `
		SELECT * FROM activities WHERE id = $1 AND gym_id = $2
	`, id, gymID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrActivityNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *repository) ListByGym(ctx context.Context, gymID int) ([]Activity, error) {
	activities := []Activity{}
	err := r.db.SelectContext(ctx, &activities, `
		SELECT * FROM activities
		WHERE gym_id = $1
		ORDER BY name
	`, gymID)
	return activities, err
}

func (r *repository) CreatePlan(ctx context.Context, gymID, activityID int, name string, costCents int64) (*Plan, error) {
	p := &Plan{}
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO membership_plans (gym_id, activity_id, name, cost_cents)
		VALUES ($1, $2, $3, $4)
		RETURNING id, gym_id, activity_id, name, cost_cents, active, created_at
	`, gymID, activityID, name, costCents).StructScan(p)
	return p, err
}

func (r *repository) GetActivePlanForActivity(ctx context.Context, gymID, activityID int) (*Plan, error) {
	p := &Plan{}
	err := r.db.GetContext(ctx, p, `
		SELECT * FROM membership_plans
		WHERE gym_id = $1
		  AND activity_id = $2
		  AND active = TRUE
		LIMIT 1
	`, gymID, activityID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPlanNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}
