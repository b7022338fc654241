package payment

import "time"

// ProrationCutoffDay splits a month into "bills this month" and "bills next
// month" when an activity is first assigned. Dues always land on the same
// day of the billed month.
const ProrationCutoffDay = 15

// BillingMonthFor returns the first day of the month a membership assigned
// on assignedAt is billed for: the current month through the 15th, the
// following month afterwards.
func BillingMonthFor(assignedAt time.Time) time.Time {
	month := MonthStart(assignedAt)
	if assignedAt.Day() > ProrationCutoffDay {
		month = month.AddDate(0, 1, 0)
	}
	return month
}

// DueDateFor returns the 15th of the billed month.
func DueDateFor(billingMonth time.Time) time.Time {
	return time.Date(billingMonth.Year(), billingMonth.Month(), ProrationCutoffDay, 0, 0, 0, 0, billingMonth.Location())
}

// MonthStart truncates a date to the first of its month, keeping the
// location so the proration boundary follows gym-local wall time.
func MonthStart(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, d.Location())
}

// DayStart truncates to midnight in the date's own location. All
// eligibility comparisons are date-only.
func DayStart(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
}
