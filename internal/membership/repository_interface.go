package membership

import (
	"context"
	"time"
)

type Repository interface {
	AssignActivity(ctx context.Context, gymID int, p AssignParams) (*Membership, error)
	GetByID(ctx context.Context, gymID, id int) (*MembershipWithMember, error)
	ListByMember(ctx context.Context, gymID, memberID int) ([]Membership, error)
	GetExpiredAutoRenewals(ctx context.Context, gymID int, today time.Time) ([]MembershipWithMember, error)
	GetUpcomingAutoRenewals(ctx context.Context, gymID int, today, until time.Time) ([]MembershipWithMember, error)
	SetStatus(ctx context.Context, gymID, id int, status Status) error
	SetAutoRenewal(ctx context.Context, gymID, id int, enabled bool) error
	IncrementAttendance(ctx context.Context, gymID, id int) error
	Renew(ctx context.Context, p RenewParams) error
}
