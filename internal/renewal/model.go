package renewal

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

type ExecutionType string

const (
	ExecutionAutomatic  ExecutionType = "automatic"
	ExecutionIndividual ExecutionType = "individual"
)

// Detail is the per-membership outcome of a renewal attempt. Renewed is
// authoritative: a detail with Renewed=false and an empty Error means the
// membership was skipped (e.g. a concurrent run got there first), not that
// it failed.
type Detail struct {
	MembershipID  int       `json:"membership_id"`
	MemberName    string    `json:"member_name"`
	ActivityName  string    `json:"activity_name"`
	OldPriceCents int64     `json:"old_price_cents"`
	NewPriceCents int64     `json:"new_price_cents"`
	PriceChanged  bool      `json:"price_changed"`
	NewStartDate  time.Time `json:"new_start_date"`
	NewEndDate    time.Time `json:"new_end_date"`
	Renewed       bool      `json:"renewed"`
	Error         string    `json:"error,omitempty"`
}

// Result summarizes one batch run. Success is true iff Errors is empty; a
// run with zero eligible memberships succeeds with all counts at zero.
type Result struct {
	Success          bool     `json:"success"`
	ProcessedCount   int      `json:"processed_count"`
	RenewedCount     int      `json:"renewed_count"`
	TotalAmountCents int64    `json:"total_amount_cents"`
	PriceUpdateCount int      `json:"price_update_count"`
	Errors           []string `json:"errors"`
	Details          []Detail `json:"details"`
}

// HistoryEntry is one appended audit record per batch (or individual) run.
type HistoryEntry struct {
	ID                   int           `db:"id" json:"id"`
	GymID                int           `db:"gym_id" json:"gym_id"`
	ExecutedAt           time.Time     `db:"executed_at" json:"executed_at"`
	ExecutionType        ExecutionType `db:"execution_type" json:"execution_type"`
	ProcessedMemberships int           `db:"processed_memberships" json:"processed_memberships"`
	SuccessfulRenewals   int           `db:"successful_renewals" json:"successful_renewals"`
	FailedRenewals       int           `db:"failed_renewals" json:"failed_renewals"`
	PriceUpdates         int           `db:"price_updates" json:"price_updates"`
	TotalAmountCents     int64         `db:"total_amount_cents" json:"total_amount_cents"`
	Errors               StringList    `db:"errors" json:"errors"`
	Details              DetailList    `db:"details" json:"details"`
}

// StringList maps a JSONB column to []string.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l)
}

func (l *StringList) Scan(src interface{}) error {
	return scanJSON(src, l)
}

// DetailList maps a JSONB column to []Detail.
type DetailList []Detail

func (l DetailList) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l)
}

func (l *DetailList) Scan(src interface{}) error {
	return scanJSON(src, l)
}

func scanJSON(src, dst interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	case nil:
		return nil
	default:
		return errors.New("unsupported type for JSONB column")
	}
}
