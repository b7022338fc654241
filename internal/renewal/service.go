package renewal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gymdesk/internal/activity"
	"gymdesk/internal/logger"
	"gymdesk/internal/membership"
	"gymdesk/internal/metrics"
	"gymdesk/internal/payment"
)

// DefaultThrottle spaces per-membership writes so a large batch does not
// hit the store in one burst. Correctness does not depend on it.
const DefaultThrottle = 100 * time.Millisecond

// errAlreadyRenewed marks a candidate whose period a concurrent run moved
// forward between our read and write. Skipped, not failed.
var errAlreadyRenewed = errors.New("membership already renewed")

type Service interface {
	ProcessAllAutoRenewals(ctx context.Context, gymID int) *Result
	RenewMembership(ctx context.Context, gymID, membershipID int) Detail
	UpcomingRenewals(ctx context.Context, gymID, daysAhead int) ([]membership.MembershipWithMember, error)
	History(ctx context.Context, gymID, limit int) ([]HistoryEntry, error)
}

type service struct {
	memberships membership.Repository
	prices      activity.PriceResolver
	history     HistoryRepository
	loc         *time.Location
	throttle    time.Duration
	now         func() time.Time
}

func NewService(
	memberships membership.Repository,
	prices activity.PriceResolver,
	history HistoryRepository,
	loc *time.Location,
	throttle time.Duration,
) Service {
	if loc == nil {
		loc = time.Local
	}
	return &service{
		memberships: memberships,
		prices:      prices,
		history:     history,
		loc:         loc,
		throttle:    throttle,
		now:         time.Now,
	}
}

func (s *service) today() time.Time {
	return payment.DayStart(s.now().In(s.loc))
}

// ProcessAllAutoRenewals renews every expired auto-renewal membership of the
// gym's active members. Each membership is an isolated unit of work: one
// failure is recorded and the batch moves on. A cancelled context stops the
// batch between memberships; renewals already committed stay committed.
func (s *service) ProcessAllAutoRenewals(ctx context.Context, gymID int) *Result {
	started := s.now()
	today := s.today()

	result := &Result{Success: true, Errors: []string{}, Details: []Detail{}}

	candidates, err := s.memberships.GetExpiredAutoRenewals(ctx, gymID, today)
	if err != nil {
		result.Success = false
		result.Errors = append(result.Errors, fmt.Sprintf("failed to load renewal candidates: %v", err))
		logger.Errorf("Auto-renewal batch for gym %d aborted: %v", gymID, err)
		return result
	}

	for i, candidate := range candidates {
		if i > 0 && s.throttle > 0 {
			select {
			case <-time.After(s.throttle):
			case <-ctx.Done():
			}
		}
		if ctx.Err() != nil {
			logger.Info("Auto-renewal batch stopped early",
				"gym_id", gymID,
				"processed", i,
				"pending", len(candidates)-i,
			)
			break
		}

		detail := s.renewCandidate(ctx, gymID, candidate, today)
		result.Details = append(result.Details, detail)
		result.ProcessedCount++

		switch {
		case detail.Renewed:
			result.RenewedCount++
			result.TotalAmountCents += detail.NewPriceCents
			if detail.PriceChanged {
				result.PriceUpdateCount++
				metrics.RecordPriceUpdate()
			}
			metrics.RecordRenewal("success", string(ExecutionAutomatic))
			metrics.RecordPaymentGenerated("renewal")
		case detail.Error != "":
			result.Errors = append(result.Errors, detail.Error)
			metrics.RecordRenewal("failure", string(ExecutionAutomatic))
		}
	}

	result.Success = len(result.Errors) == 0

	s.appendHistory(ctx, gymID, ExecutionAutomatic, result)
	metrics.RenewalBatchDuration.Observe(s.now().Sub(started).Seconds())

	logger.Info("Auto-renewal batch finished",
		"gym_id", gymID,
		"candidates", len(candidates),
		"renewed", result.RenewedCount,
		"errors", len(result.Errors),
		"total_amount_cents", result.TotalAmountCents,
	)

	return result
}

// RenewMembership is the manual single-membership path behind the admin's
// "renew now" button. It runs the same atomic unit as the batch and records
// an individual history entry.
func (s *service) RenewMembership(ctx context.Context, gymID, membershipID int) Detail {
	today := s.today()

	ms, err := s.memberships.GetByID(ctx, gymID, membershipID)
	if err != nil {
		return Detail{
			MembershipID: membershipID,
			Error:        fmt.Sprintf("membership %d: %v", membershipID, err),
		}
	}

	detail := s.renewCandidate(ctx, gymID, *ms, today)

	result := &Result{
		Success:        detail.Error == "",
		ProcessedCount: 1,
		Errors:         []string{},
		Details:        []Detail{detail},
	}
	if detail.Renewed {
		result.RenewedCount = 1
		result.TotalAmountCents = detail.NewPriceCents
		if detail.PriceChanged {
			result.PriceUpdateCount = 1
			metrics.RecordPriceUpdate()
		}
		metrics.RecordRenewal("success", string(ExecutionIndividual))
		metrics.RecordPaymentGenerated("renewal")
	} else if detail.Error != "" {
		result.Errors = append(result.Errors, detail.Error)
		metrics.RecordRenewal("failure", string(ExecutionIndividual))
	}
	s.appendHistory(ctx, gymID, ExecutionIndividual, result)

	return detail
}

func (s *service) UpcomingRenewals(ctx context.Context, gymID, daysAhead int) ([]membership.MembershipWithMember, error) {
	today := s.today()
	return s.memberships.GetUpcomingAutoRenewals(ctx, gymID, today, today.AddDate(0, 0, daysAhead))
}

func (s *service) History(ctx context.Context, gymID, limit int) ([]HistoryEntry, error) {
	return s.history.List(ctx, gymID, limit)
}

// renewCandidate performs one renewal: resolve the price (falling back to
// the stored cost on a miss), compute the new calendar-month period, and
// commit the membership update plus ledger entry atomically. A version
// conflict gets one retry against fresh data; a membership that turns out
// to be already renewed is skipped without error.
func (s *service) renewCandidate(ctx context.Context, gymID int, candidate membership.MembershipWithMember, today time.Time) Detail {
	detail := Detail{
		MembershipID:  candidate.ID,
		MemberName:    candidate.MemberName,
		ActivityName:  candidate.ActivityName,
		OldPriceCents: candidate.CostCents,
	}

	newPrice := candidate.CostCents
	resolved, err := s.prices.CurrentPriceCents(ctx, gymID, candidate.ActivityID)
	if err != nil {
		// A resolver failure is treated like a miss: bill the last known cost.
		logger.Errorf("Price resolution failed for activity %d, using stored cost: %v", candidate.ActivityID, err)
	} else if resolved != nil && *resolved > 0 {
		newPrice = *resolved
	}

	newStart := today
	newEnd := today.AddDate(0, 1, 0)

	detail.NewPriceCents = newPrice
	detail.PriceChanged = newPrice != candidate.CostCents
	detail.NewStartDate = newStart
	detail.NewEndDate = newEnd

	renewErr := s.memberships.Renew(ctx, membership.RenewParams{
		GymID:              gymID,
		MembershipID:       candidate.ID,
		MemberID:           candidate.MemberID,
		ActivityID:         candidate.ActivityID,
		ActivityName:       candidate.ActivityName,
		ExpectedVersion:    candidate.Version,
		NewStart:           newStart,
		NewEnd:             newEnd,
		NewCostCents:       newPrice,
		PriceChanged:       detail.PriceChanged,
		PreviousPriceCents: candidate.CostCents,
		RenewalDate:        s.now().In(s.loc),
	})

	if errors.Is(renewErr, membership.ErrVersionConflict) {
		detail, renewErr = s.retryWithFreshData(ctx, gymID, candidate.ID, today, detail)
		if errors.Is(renewErr, errAlreadyRenewed) {
			detail.Renewed = false
			detail.Error = ""
			return detail
		}
	}

	if renewErr != nil {
		detail.Renewed = false
		detail.Error = fmt.Sprintf("%s / %s: %v", candidate.MemberName, candidate.ActivityName, renewErr)
		return detail
	}

	detail.Renewed = true
	return detail
}

func (s *service) retryWithFreshData(ctx context.Context, gymID, membershipID int, today time.Time, detail Detail) (Detail, error) {
	fresh, err := s.memberships.GetByID(ctx, gymID, membershipID)
	if err != nil {
		return detail, err
	}

	// Another run won the race and already moved the period forward.
	if fresh.Status != membership.StatusActive || !fresh.AutoRenewal || fresh.EndDate.After(today) {
		logger.Info("Membership already renewed concurrently, skipping",
			"membership_id", membershipID,
			"gym_id", gymID,
		)
		return detail, errAlreadyRenewed
	}

	newPrice := detail.NewPriceCents
	if newPrice <= 0 {
		newPrice = fresh.CostCents
	}

	detail.OldPriceCents = fresh.CostCents
	detail.PriceChanged = newPrice != fresh.CostCents

	err = s.memberships.Renew(ctx, membership.RenewParams{
		GymID:              gymID,
		MembershipID:       fresh.ID,
		MemberID:           fresh.MemberID,
		ActivityID:         fresh.ActivityID,
		ActivityName:       fresh.ActivityName,
		ExpectedVersion:    fresh.Version,
		NewStart:           detail.NewStartDate,
		NewEnd:             detail.NewEndDate,
		NewCostCents:       newPrice,
		PriceChanged:       detail.PriceChanged,
		PreviousPriceCents: fresh.CostCents,
		RenewalDate:        s.now().In(s.loc),
	})
	detail.NewPriceCents = newPrice
	return detail, err
}

// appendHistory is best-effort telemetry: a failed write is logged and
// never changes the batch's reported outcome.
func (s *service) appendHistory(ctx context.Context, gymID int, executionType ExecutionType, result *Result) {
	entry := &HistoryEntry{
		GymID:                gymID,
		ExecutedAt:           s.now().In(s.loc),
		ExecutionType:        executionType,
		ProcessedMemberships: result.ProcessedCount,
		SuccessfulRenewals:   result.RenewedCount,
		FailedRenewals:       len(result.Errors),
		PriceUpdates:         result.PriceUpdateCount,
		TotalAmountCents:     result.TotalAmountCents,
		Errors:               StringList(result.Errors),
		Details:              DetailList(result.Details),
	}

	// The batch ctx may already be cancelled when we get here (stopped
	// batches get a history row too), so the write runs on its own deadline.
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if err := s.history.Append(writeCtx, entry); err != nil {
		logger.Errorf("Failed to record renewal history for gym %d: %v", gymID, err)
	}
}
