package member

import "context"

type Repository interface {
	CreateMember(ctx context.Context, gymID int, name, email string) (*Member, error)
	GetByID(ctx context.Context, gymID, id int) (*Member, error)
	ListByGym(ctx context.Context, gymID int) ([]Member, error)
	SetStatus(ctx context.Context, gymID, id int, status Status) error
}
