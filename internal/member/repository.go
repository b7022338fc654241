package member

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

var ErrMemberNotFound = errors.New("member not found")

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateMember(ctx context.Context, gymID int, name, email string) (*Member, error) {
	m := &Member{}
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO members (gym_id, name, email, status)
		VALUES ($1, $2, $3, 'active')
		RETURNING id, gym_id, name, email, status, created_at
	`, gymID, name, email).StructScan(m)
	return m, err
}

func (r *repository) GetByID(ctx context.Context, gymID, id int) (*Member, error) {
	m := &Member{}
	err := r.db.GetContext(ctx, m, `
		SELECT * FROM members WHERE id = $1 AND gym_id = $2
	`, id, gymID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMemberNotFound
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *repository) ListByGym(ctx context.Context, gymID int) ([]Member, error) {
	members := []Member{}
	err := r.db.SelectContext(ctx, &members, `
		SELECT * FROM members
		WHERE gym_id = $1
		ORDER BY name
	`, gymID)
	return members, err
}

func (r *repository) SetStatus(ctx context.Context, gymID, id int, status Status) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE members SET status = $1 WHERE id = $2 AND gym_id = $3
	`, status, id, gymID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrMemberNotFound
	}
	return nil
}
