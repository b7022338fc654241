package payment

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

var (
	ErrPaymentNotFound = errors.New("payment not found")
	ErrAlreadyPaid     = errors.New("payment already registered")
)

// Creation of ledger rows happens inside membership transactions only; this
// repository reads the ledger and registers manual payments.
type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByID(ctx context.Context, gymID, id int) (*MonthlyPayment, error) {
	p := &MonthlyPayment{}
	err := r.db.GetContext(ctx, p, `
		SELECT * FROM monthly_payments WHERE id = $1 AND gym_id = $2
	`, id, gymID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *repository) ListByMember(ctx context.Context, gymID, memberID int) ([]MonthlyPayment, error) {
	payments := []MonthlyPayment{}
	err := r.db.SelectContext(ctx, &payments, `
		SELECT * FROM monthly_payments
		WHERE gym_id = $1 AND member_id = $2
		ORDER BY billing_month DESC, id DESC
	`, gymID, memberID)
	return payments, err
}

// ListByGym filters by effective status: asking for overdue returns pending
// rows whose due date has passed, since overdue is never stored.
func (r *repository) ListByGym(ctx context.Context, gymID int, status Status, today time.Time) ([]MonthlyPayment, error) {
	payments := []MonthlyPayment{}

	switch status {
	case StatusOverdue:
		err := r.db.SelectContext(ctx, &payments, `
			SELECT * FROM monthly_payments
			WHERE gym_id = $1 AND status = 'pending' AND due_date < $2
			ORDER BY due_date ASC
		`, gymID, today)
		return payments, err
	case StatusPending:
		err := r.db.SelectContext(ctx, &payments, `
			SELECT * FROM monthly_payments
			WHERE gym_id = $1 AND status = 'pending' AND due_date >= $2
			ORDER BY due_date ASC
		`, gymID, today)
		return payments, err
	case StatusPaid:
		err := r.db.SelectContext(ctx, &payments, `
			SELECT * FROM monthly_payments
			WHERE gym_id = $1 AND status = 'paid'
			ORDER BY paid_at DESC
		`, gymID)
		return payments, err
	default:
		err := r.db.SelectContext(ctx, &payments, `
			SELECT * FROM monthly_payments
			WHERE gym_id = $1
			ORDER BY billing_month DESC, id DESC
		`, gymID)
		return payments, err
	}
}

func (r *repository) MarkPaid(ctx context.Context, gymID, id int, paidAt time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE monthly_payments
		SET status = 'paid', paid_at = $1
		WHERE id = $2 AND gym_id = $3 AND status = 'pending'
	`, paidAt, id, gymID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		// Distinguish missing from already-paid for the caller.
		p, getErr := r.GetByID(ctx, gymID, id)
		if getErr != nil {
			return ErrPaymentNotFound
		}
		if p.Status == StatusPaid {
			return ErrAlreadyPaid
		}
		return ErrPaymentNotFound
	}
	return nil
}
