package membership

import "time"

type Status string

const (
	StatusActive    Status = "active"
	StatusPaused    Status = "paused"
	StatusCancelled Status = "cancelled"
)

// Membership is the permanent member-to-activity relationship. It never
// expires on its own; billing eligibility is decided from status,
// auto_renewal and end_date. Version is the optimistic-lock counter bumped
// by every renewal.
type Membership struct {
	ID                   int        `db:"id" json:"id"`
	MemberID             int        `db:"member_id" json:"member_id"`
	ActivityID           int        `db:"activity_id" json:"activity_id"`
	ActivityName         string     `db:"activity_name" json:"activity_name"`
	CostCents            int64      `db:"cost_cents" json:"cost_cents"`
	Status               Status     `db:"status" json:"status"`
	AutoRenewal          bool       `db:"auto_renewal" json:"auto_renewal"`
	StartDate            time.Time  `db:"start_date" json:"start_date"`
	EndDate              time.Time  `db:"end_date" json:"end_date"`
	MaxAttendances       int        `db:"max_attendances" json:"max_attendances"`
	CurrentAttendances   int        `db:"current_attendances" json:"current_attendances"`
	RenewedAutomatically bool       `db:"renewed_automatically" json:"renewed_automatically"`
	RenewalDate          *time.Time `db:"renewal_date" json:"renewal_date,omitempty"`
	Version              int        `db:"version" json:"version"`
	CreatedAt            time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time  `db:"updated_at" json:"updated_at"`
}

// MembershipWithMember joins the owning member's name and gym for renewal
// candidate lists and error reporting.
type MembershipWithMember struct {
	Membership
	MemberName string `db:"member_name" json:"member_name"`
	GymID      int    `db:"gym_id" json:"gym_id"`
}

// AssignParams creates a membership and, when the cost is positive, its
// prorated first charge.
type AssignParams struct {
	MemberID       int
	ActivityID     int
	ActivityName   string
	CostCents      int64
	AutoRenewal    bool
	MaxAttendances int
	AssignedAt     time.Time
}

// RenewParams is the atomic unit of a renewal: the membership update and the
// ledger insert it implies. ExpectedVersion makes the write conditional.
type RenewParams struct {
	GymID              int
	MembershipID       int
	MemberID           int
	ActivityID         int
	ActivityName       string
	ExpectedVersion    int
	NewStart           time.Time
	NewEnd             time.Time
	NewCostCents       int64
	PriceChanged       bool
	PreviousPriceCents int64
	RenewalDate        time.Time
}
