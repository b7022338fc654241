package gym

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateGym(ctx context.Context, name, location string) (*Gym, error) {
	g := &Gym{}
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO gyms (name, location)
		VALUES ($1, $2)
		RETURNING id, name, location, created_at
	`, name, location).StructScan(g)
	return g, err
}

func (r *repository) GetGymByID(ctx context.Context, id int) (*Gym, error) {
	g := &Gym{}
	err := r.db.GetContext(ctx, g, `SELECT * FROM gyms WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	return g, nil
}

func (r *repository) GetAllGyms(ctx context.Context) ([]Gym, error) {
	gyms := []Gym{}
	err := r.db.SelectContext(ctx, &gyms, `SELECT * FROM gyms ORDER BY id`)
	return gyms, err
}
