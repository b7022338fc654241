package renewal

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type HistoryRepository interface {
	Append(ctx context.Context, e *HistoryEntry) error
	List(ctx context.Context, gymID, limit int) ([]HistoryEntry, error)
}

type historyRepository struct {
	db *sqlx.DB
}

func NewHistoryRepository(db *sqlx.DB) HistoryRepository {
	return &historyRepository{db: db}
}

func (r *historyRepository) Append(ctx context.Context, e *HistoryEntry) error {
	return r.db.QueryRowxContext(ctx, `
		INSERT INTO renewal_history (gym_id, executed_at, execution_type, processed_memberships, successful_renewals, failed_renewals, price_updates, total_amount_cents, errors, details)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`, e.GymID, e.ExecutedAt, e.ExecutionType, e.ProcessedMemberships, e.SuccessfulRenewals,
		e.FailedRenewals, e.PriceUpdates, e.TotalAmountCents, e.Errors, e.Details).Scan(&e.ID)
}

func (r *historyRepository) List(ctx context.Context, gymID, limit int) ([]HistoryEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	entries := []HistoryEntry{}
	err := r.db.SelectContext(ctx, &entries, `
		SELECT * FROM renewal_history
		WHERE gym_id = $1
		ORDER BY executed_at DESC
		LIMIT $2
	`, gymID, limit)
	return entries, err
}
