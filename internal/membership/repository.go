package membership

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"gymdesk/internal/db"
	"gymdesk/internal/payment"

	"github.com/jmoiron/sqlx"
)

var (
	ErrMembershipNotFound = errors.New("membership not found")
	ErrVersionConflict    = errors.New("membership was modified concurrently")
	ErrAlreadyBilled      = errors.New("billing month already has a ledger entry")
	ErrNotRenewable       = errors.New("membership is not active")
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(database *sqlx.DB) Repository {
	return &repository{db: database}
}

const candidateSelect = `
	SELECT ms.*, m.name AS member_name, m.gym_id
	FROM memberships ms
	JOIN members m ON m.id = ms.member_id
	WHERE m.gym_id = $1
	  AND m.status = 'active'
	  AND ms.status = 'active'
	  AND ms.auto_renewal = TRUE
`

// AssignActivity creates the membership and its prorated first charge in one
// transaction. A membership assigned through the 15th bills the current
// month; later assignments bill the following month.
func (r *repository) AssignActivity(ctx context.Context, gymID int, p AssignParams) (*Membership, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	start := payment.DayStart(p.AssignedAt)
	end := start.AddDate(0, 1, 0)

	ms := &Membership{}
	err = tx.QueryRowxContext(ctx, `
		INSERT INTO memberships (member_id, activity_id, activity_name, cost_cents, status, auto_renewal, start_date, end_date, max_attendances, current_attendances)
		VALUES ($1, $2, $3, $4, 'active', $5, $6, $7, $8, 0)
		RETURNING id, member_id, activity_id, activity_name, cost_cents, status, auto_renewal, start_date, end_date, max_attendances, current_attendances, renewed_automatically, renewal_date, version, created_at, updated_at
	`, p.MemberID, p.ActivityID, p.ActivityName, p.CostCents, p.AutoRenewal, start, end, p.MaxAttendances).StructScan(ms)
	if err != nil {
		return nil, err
	}

	if p.CostCents > 0 {
		billingMonth := payment.BillingMonthFor(start)
		dueDate := payment.DueDateFor(billingMonth)

		_, err = tx.ExecContext(ctx, `
			INSERT INTO monthly_payments (gym_id, member_id, membership_id, activity_id, activity_name, amount_cents, status, due_date, billing_month, auto_generated, renewal_payment)
			VALUES ($1, $2, $3, $4, $5, $6, 'pending', $7, $8, TRUE, FALSE)
		`, gymID, p.MemberID, ms.ID, p.ActivityID, p.ActivityName, p.CostCents, dueDate, billingMonth)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return ms, nil
}

func (r *repository) GetByID(ctx context.Context, gymID, id int) (*MembershipWithMember, error) {
	ms := &MembershipWithMember{}
	err := r.db.GetContext(ctx, ms, `
		SELECT ms.*, m.name AS member_name, m.gym_id
		FROM memberships ms
		JOIN members m ON m.id = ms.member_id
		WHERE ms.id = $1 AND m.gym_id = $2
	`, id, gymID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMembershipNotFound
	}
	if err != nil {
		return nil, err
	}
	return ms, nil
}

func (r *repository) ListByMember(ctx context.Context, gymID, memberID int) ([]Membership, error) {
	memberships := []Membership{}
	err := r.db.SelectContext(ctx, &memberships, `
		SELECT ms.*
		FROM memberships ms
		JOIN members m ON m.id = ms.member_id
		WHERE ms.member_id = $1 AND m.gym_id = $2
		ORDER BY ms.id
	`, memberID, gymID)
	return memberships, err
}

// GetExpiredAutoRenewals enumerates the renewal candidates: active members'
// active, auto-renewal memberships whose period has ended on or before
// today. Date-only comparison; callers pass a midnight-truncated today.
func (r *repository) GetExpiredAutoRenewals(ctx context.Context, gymID int, today time.Time) ([]MembershipWithMember, error) {
	memberships := []MembershipWithMember{}
	err := r.db.SelectContext(ctx, &memberships, candidateSelect+`
	  AND ms.end_date <= $2
	ORDER BY ms.end_date ASC, ms.id ASC
	`, gymID, today)
	return memberships, err
}

func (r *repository) GetUpcomingAutoRenewals(ctx context.Context, gymID int, today, until time.Time) ([]MembershipWithMember, error) {
	memberships := []MembershipWithMember{}
	err := r.db.SelectContext(ctx, &memberships, candidateSelect+`
	  AND ms.end_date > $2
	  AND ms.end_date <= $3
	ORDER BY ms.end_date ASC, ms.id ASC
	`, gymID, today, until)
	return memberships, err
}

func (r *repository) SetStatus(ctx context.Context, gymID, id int, status Status) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE memberships ms
		SET status = $1, updated_at = NOW(), version = version + 1
		FROM members m
		WHERE ms.id = $2 AND m.id = ms.member_id AND m.gym_id = $3
	`, status, id, gymID)
	return affectedOrNotFound(res, err)
}

func (r *repository) SetAutoRenewal(ctx context.Context, gymID, id int, enabled bool) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE memberships ms
		SET auto_renewal = $1, updated_at = NOW(), version = version + 1
		FROM members m
		WHERE ms.id = $2 AND m.id = ms.member_id AND m.gym_id = $3
	`, enabled, id, gymID)
	return affectedOrNotFound(res, err)
}

func (r *repository) IncrementAttendance(ctx context.Context, gymID, id int) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE memberships ms
		SET current_attendances = ms.current_attendances + 1, updated_at = NOW()
		FROM members m
		WHERE ms.id = $1 AND m.id = ms.member_id AND m.gym_id = $2
	`, id, gymID)
	return affectedOrNotFound(res, err)
}

// Renew applies one membership renewal atomically: the period/cost update
// and the new pending ledger entry commit together or not at all. The
// version predicate rejects writes against stale reads; the billing-month
// guard rejects a second charge for a month already billed.
func (r *repository) Renew(ctx context.Context, p RenewParams) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE memberships
		SET start_date = $1,
		    end_date = $2,
		    cost_cents = $3,
		    current_attendances = 0,
		    renewed_automatically = TRUE,
		    renewal_date = $4,
		    version = version + 1,
		    updated_at = NOW()
		WHERE id = $5 AND version = $6 AND status = 'active'
	`, p.NewStart, p.NewEnd, p.NewCostCents, p.RenewalDate, p.MembershipID, p.ExpectedVersion)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		var status Status
		err := tx.QueryRowxContext(ctx, `SELECT status FROM memberships WHERE id = $1`, p.MembershipID).Scan(&status)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrMembershipNotFound
		}
		if err != nil {
			return err
		}
		if status != StatusActive {
			return ErrNotRenewable
		}
		return ErrVersionConflict
	}

	if p.NewCostCents > 0 {
		billingMonth := payment.MonthStart(p.NewStart)

		billed, err := db.Exists(ctx, tx, `
			SELECT EXISTS (
				SELECT 1 FROM monthly_payments
				WHERE membership_id = $1 AND billing_month = $2
			)
		`, p.MembershipID, billingMonth)
		if err != nil {
			return err
		}
		if billed {
			return ErrAlreadyBilled
		}

		var previousPrice *int64
		if p.PriceChanged {
			previousPrice = &p.PreviousPriceCents
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO monthly_payments (gym_id, member_id, membership_id, activity_id, activity_name, amount_cents, status, due_date, billing_month, auto_generated, renewal_payment, price_updated, previous_price_cents)
			VALUES ($1, $2, $3, $4, $5, $6, 'pending', $7, $8, TRUE, TRUE, $9, $10)
		`, p.GymID, p.MemberID, p.MembershipID, p.ActivityID, p.ActivityName, p.NewCostCents, p.NewStart, billingMonth, p.PriceChanged, previousPrice)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func affectedOrNotFound(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrMembershipNotFound
	}
	return nil
}
