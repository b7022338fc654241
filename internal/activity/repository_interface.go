package activity

import "context"

type Repository interface {
	CreateActivity(ctx context.Context, gymID int, name string, priceCents *int64) (*Activity, error)
	GetByID(ctx context.Context, gymID, id int) (*Activity, error)
	ListByGym(ctx context.Context, gymID int) ([]Activity, error)
	CreatePlan(ctx context.Context, gymID, activityID int, name string, costCents int64) (*Plan, error)
	GetActivePlanForActivity(ctx context.Context, gymID, activityID int) (*Plan, error)
}
