package payment

import (
	"context"
	"time"
)

type Repository interface {
	GetByID(ctx context.Context, gymID, id int) (*MonthlyPayment, error)
	ListByMember(ctx context.Context, gymID, memberID int) ([]MonthlyPayment, error)
	ListByGym(ctx context.Context, gymID int, status Status, today time.Time) ([]MonthlyPayment, error)
	MarkPaid(ctx context.Context, gymID, id int, paidAt time.Time) error
}
