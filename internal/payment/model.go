package payment

import "time"

type Status string

const (
	StatusPending Status = "pending"
	StatusOverdue Status = "overdue"
	StatusPaid    Status = "paid"
)

// MonthlyPayment is one billing charge for one membership for one month.
// Only pending and paid are ever stored; overdue is derived from due_date
// at read time, so no background job has to flip statuses.
type MonthlyPayment struct {
	ID                 int        `db:"id" json:"id"`
	GymID              int        `db:"gym_id" json:"gym_id"`
	MemberID           int        `db:"member_id" json:"member_id"`
	MembershipID       int        `db:"membership_id" json:"membership_id"`
	ActivityID         int        `db:"activity_id" json:"activity_id"`
	ActivityName       string     `db:"activity_name" json:"activity_name"`
	AmountCents        int64      `db:"amount_cents" json:"amount_cents"`
	Status             Status     `db:"status" json:"status"`
	DueDate            time.Time  `db:"due_date" json:"due_date"`
	BillingMonth       time.Time  `db:"billing_month" json:"billing_month"`
	AutoGenerated      bool       `db:"auto_generated" json:"auto_generated"`
	RenewalPayment     bool       `db:"renewal_payment" json:"renewal_payment"`
	PriceUpdated       bool       `db:"price_updated" json:"price_updated"`
	PreviousPriceCents *int64     `db:"previous_price_cents" json:"previous_price_cents,omitempty"`
	PaidAt             *time.Time `db:"paid_at" json:"paid_at,omitempty"`
	CreatedAt          time.Time  `db:"created_at" json:"created_at"`
}

// EffectiveStatus reports the charge as overdue once today has passed the
// due date and it is still unpaid. The stored status never holds "overdue".
func (p *MonthlyPayment) EffectiveStatus(today time.Time) Status {
	if p.Status == StatusPending && today.After(p.DueDate) {
		return StatusOverdue
	}
	return p.Status
}
