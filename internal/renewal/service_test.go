package renewal

import (
	"context"
	"errors"
	"testing"
	"time"

	"gymdesk/internal/membership"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockMembershipRepo struct{ mock.Mock }

func (m *MockMembershipRepo) AssignActivity(ctx context.Context, gymID int, p membership.AssignParams) (*membership.Membership, error) {
	args := m.Called(ctx, gymID, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*membership.Membership), args.Error(1)
}

func (m *MockMembershipRepo) GetByID(ctx context.Context, gymID, id int) (*membership.MembershipWithMember, error) {
	args := m.Called(ctx, gymID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*membership.MembershipWithMember), args.Error(1)
}

func (m *MockMembershipRepo) ListByMember(ctx context.Context, gymID, memberID int) ([]membership.Membership, error) {
	args := m.Called(ctx, gymID, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]membership.Membership), args.Error(1)
}

func (m *MockMembershipRepo) GetExpiredAutoRenewals(ctx context.Context, gymID int, today time.Time) ([]membership.MembershipWithMember, error) {
	args := m.Called(ctx, gymID, today)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]membership.MembershipWithMember), args.Error(1)
}

func (m *MockMembershipRepo) GetUpcomingAutoRenewals(ctx context.Context, gymID int, today, until time.Time) ([]membership.MembershipWithMember, error) {
	args := m.Called(ctx, gymID, today, until)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]membership.MembershipWithMember), args.Error(1)
}

func (m *MockMembershipRepo) SetStatus(ctx context.Context, gymID, id int, status membership.Status) error {
	return m.Called(ctx, gymID, id, status).Error(0)
}

func (m *MockMembershipRepo) SetAutoRenewal(ctx context.Context, gymID, id int, enabled bool) error {
	return m.Called(ctx, gymID, id, enabled).Error(0)
}

func (m *MockMembershipRepo) IncrementAttendance(ctx context.Context, gymID, id int) error {
	return m.Called(ctx, gymID, id).Error(0)
}

func (m *MockMembershipRepo) Renew(ctx context.Context, p membership.RenewParams) error {
	return m.Called(ctx, p).Error(0)
}

type MockPriceResolver struct{ mock.Mock }

func (m *MockPriceResolver) CurrentPriceCents(ctx context.Context, gymID, activityID int) (*int64, error) {
	args := m.Called(ctx, gymID, activityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*int64), args.Error(1)
}

type MockHistoryRepo struct{ mock.Mock }

func (m *MockHistoryRepo) Append(ctx context.Context, e *HistoryEntry) error {
	return m.Called(ctx, e).Error(0)
}

func (m *MockHistoryRepo) List(ctx context.Context, gymID, limit int) ([]HistoryEntry, error) {
	args := m.Called(ctx, gymID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]HistoryEntry), args.Error(1)
}

func cents(v int64) *int64 { return &v }

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func fixedService(memberships *MockMembershipRepo, prices *MockPriceResolver, history *MockHistoryRepo, now time.Time) Service {
	s := NewService(memberships, prices, history, time.UTC, 0).(*service)
	s.now = func() time.Time { return now }
	return s
}

func candidate(id int, name, activityName string, cost int64, end time.Time, version int) membership.MembershipWithMember {
	return membership.MembershipWithMember{
		Membership: membership.Membership{
			ID:           id,
			MemberID:     id * 10,
			ActivityID:   id * 100,
			ActivityName: activityName,
			CostCents:    cost,
			Status:       membership.StatusActive,
			AutoRenewal:  true,
			StartDate:    end.AddDate(0, -1, 0),
			EndDate:      end,
			Version:      version,
		},
		MemberName: name,
		GymID:      1,
	}
}

func TestProcessAllAutoRenewals_EmptyBatchSucceeds(t *testing.T) {
	memberships := new(MockMembershipRepo)
	prices := new(MockPriceResolver)
	history := new(MockHistoryRepo)
	now := day(2025, time.February, 3)

	memberships.On("GetExpiredAutoRenewals", mock.Anything, 1, now).
		Return([]membership.MembershipWithMember{}, nil)
	history.On("Append", mock.Anything, mock.Anything).Return(nil)

	result := fixedService(memberships, prices, history, now).ProcessAllAutoRenewals(context.Background(), 1)

	assert.True(t, result.Success)
	assert.Zero(t, result.RenewedCount)
	assert.Zero(t, result.TotalAmountCents)
	assert.Empty(t, result.Errors)
	history.AssertCalled(t, "Append", mock.Anything, mock.MatchedBy(func(e *HistoryEntry) bool {
		return e.ExecutionType == ExecutionAutomatic && e.ProcessedMemberships == 0
	}))
}

func TestProcessAllAutoRenewals_CandidateQueryFails(t *testing.T) {
	memberships := new(MockMembershipRepo)
	prices := new(MockPriceResolver)
	history := new(MockHistoryRepo)
	now := day(2025, time.February, 3)

	memberships.On("GetExpiredAutoRenewals", mock.Anything, 1, now).
		Return(nil, errors.New("connection refused"))

	result := fixedService(memberships, prices, history, now).ProcessAllAutoRenewals(context.Background(), 1)

	assert.False(t, result.Success)
	assert.Len(t, result.Errors, 1)
	assert.Zero(t, result.RenewedCount)
	history.AssertNotCalled(t, "Append")
}

func TestProcessAllAutoRenewals_RenewsAndAggregates(t *testing.T) {
	memberships := new(MockMembershipRepo)
	prices := new(MockPriceResolver)
	history := new(MockHistoryRepo)
	now := day(2025, time.February, 3)

	c1 := candidate(1, "Ana Diaz", "Spinning", 8000, day(2025, time.February, 1), 2)
	c2 := candidate(2, "Luis Vega", "CrossFit", 10000, day(2025, time.January, 31), 4)

	memberships.On("GetExpiredAutoRenewals", mock.Anything, 1, now).
		Return([]membership.MembershipWithMember{c1, c2}, nil)
	// Spinning went up, CrossFit price resolves to the same value.
	prices.On("CurrentPriceCents", mock.Anything, 1, 100).Return(cents(9000), nil)
	prices.On("CurrentPriceCents", mock.Anything, 1, 200).Return(cents(10000), nil)
	memberships.On("Renew", mock.Anything, mock.Anything).Return(nil)
	history.On("Append", mock.Anything, mock.Anything).Return(nil)

	result := fixedService(memberships, prices, history, now).ProcessAllAutoRenewals(context.Background(), 1)

	assert.True(t, result.Success)
	assert.Equal(t, 2, result.RenewedCount)
	assert.Equal(t, int64(19000), result.TotalAmountCents)
	assert.Equal(t, 1, result.PriceUpdateCount)
	assert.Empty(t, result.Errors)
	require.Len(t, result.Details, 2)

	first := result.Details[0]
	assert.True(t, first.Renewed)
	assert.True(t, first.PriceChanged)
	assert.Equal(t, int64(8000), first.OldPriceCents)
	assert.Equal(t, int64(9000), first.NewPriceCents)
	assert.Equal(t, now, first.NewStartDate)
	assert.Equal(t, day(2025, time.March, 3), first.NewEndDate)

	memberships.AssertCalled(t, "Renew", mock.Anything, mock.MatchedBy(func(p membership.RenewParams) bool {
		return p.MembershipID == 1 && p.ExpectedVersion == 2 && p.NewCostCents == 9000 && p.PriceChanged
	}))
}

// Calendar-month arithmetic, not day-addition: a renewal on Feb 3rd ends
// March 3rd even though February is short.
func TestProcessAllAutoRenewals_CalendarMonthPeriod(t *testing.T) {
	memberships := new(MockMembershipRepo)
	prices := new(MockPriceResolver)
	history := new(MockHistoryRepo)
	now := day(2025, time.February, 3)

	c := candidate(1, "Ana Diaz", "Spinning", 8000, day(2025, time.January, 31), 1)

	memberships.On("GetExpiredAutoRenewals", mock.Anything, 1, now).
		Return([]membership.MembershipWithMember{c}, nil)
	prices.On("CurrentPriceCents", mock.Anything, 1, 100).Return(nil, nil)
	memberships.On("Renew", mock.Anything, mock.Anything).Return(nil)
	history.On("Append", mock.Anything, mock.Anything).Return(nil)

	result := fixedService(memberships, prices, history, now).ProcessAllAutoRenewals(context.Background(), 1)

	require.Len(t, result.Details, 1)
	assert.Equal(t, day(2025, time.February, 3), result.Details[0].NewStartDate)
	assert.Equal(t, day(2025, time.March, 3), result.Details[0].NewEndDate)
}

func TestProcessAllAutoRenewals_PriceFallback(t *testing.T) {
	memberships := new(MockMembershipRepo)
	prices := new(MockPriceResolver)
	history := new(MockHistoryRepo)
	now := day(2025, time.February, 3)

	c := candidate(1, "Ana Diaz", "Spinning", 8000, day(2025, time.February, 1), 1)

	memberships.On("GetExpiredAutoRenewals", mock.Anything, 1, now).
		Return([]membership.MembershipWithMember{c}, nil)
	prices.On("CurrentPriceCents", mock.Anything, 1, 100).Return(nil, nil)
	memberships.On("Renew", mock.Anything, mock.Anything).Return(nil)
	history.On("Append", mock.Anything, mock.Anything).Return(nil)

	result := fixedService(memberships, prices, history, now).ProcessAllAutoRenewals(context.Background(), 1)

	require.Len(t, result.Details, 1)
	detail := result.Details[0]
	assert.True(t, detail.Renewed)
	assert.False(t, detail.PriceChanged)
	assert.Equal(t, int64(8000), detail.NewPriceCents)
	assert.Zero(t, result.PriceUpdateCount)
}

func TestProcessAllAutoRenewals_ResolverErrorFallsBack(t *testing.T) {
	memberships := new(MockMembershipRepo)
	prices := new(MockPriceResolver)
	history := new(MockHistoryRepo)
	now := day(2025, time.February, 3)

	c := candidate(1, "Ana Diaz", "Spinning", 8000, day(2025, time.February, 1), 1)

	memberships.On("GetExpiredAutoRenewals", mock.Anything, 1, now).
		Return([]membership.MembershipWithMember{c}, nil)
	prices.On("CurrentPriceCents", mock.Anything, 1, 100).Return(nil, errors.New("lookup timeout"))
	memberships.On("Renew", mock.Anything, mock.Anything).Return(nil)
	history.On("Append", mock.Anything, mock.Anything).Return(nil)

	result := fixedService(memberships, prices, history, now).ProcessAllAutoRenewals(context.Background(), 1)

	assert.True(t, result.Success)
	assert.Equal(t, int64(8000), result.Details[0].NewPriceCents)
}

// One membership failing mid-batch must not stop the others.
func TestProcessAllAutoRenewals_ErrorIsolation(t *testing.T) {
	memberships := new(MockMembershipRepo)
	prices := new(MockPriceResolver)
	history := new(MockHistoryRepo)
	now := day(2025, time.February, 3)

	c1 := candidate(1, "Ana Diaz", "Spinning", 8000, day(2025, time.February, 1), 1)
	c2 := candidate(2, "Luis Vega", "CrossFit", 10000, day(2025, time.February, 1), 1)
	c3 := candidate(3, "Mia Ruiz", "Pilates", 7000, day(2025, time.February, 1), 1)

	memberships.On("GetExpiredAutoRenewals", mock.Anything, 1, now).
		Return([]membership.MembershipWithMember{c1, c2, c3}, nil)
	prices.On("CurrentPriceCents", mock.Anything, 1, mock.Anything).Return(nil, nil)
	memberships.On("Renew", mock.Anything, mock.MatchedBy(func(p membership.RenewParams) bool {
		return p.MembershipID == 2
	})).Return(errors.New("transaction aborted"))
	memberships.On("Renew", mock.Anything, mock.Anything).Return(nil)
	history.On("Append", mock.Anything, mock.Anything).Return(nil)

	result := fixedService(memberships, prices, history, now).ProcessAllAutoRenewals(context.Background(), 1)

	assert.False(t, result.Success)
	assert.Equal(t, 2, result.RenewedCount)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Luis Vega")
	assert.Contains(t, result.Errors[0], "CrossFit")

	require.Len(t, result.Details, 3)
	assert.True(t, result.Details[0].Renewed)
	assert.False(t, result.Details[1].Renewed)
	assert.True(t, result.Details[2].Renewed)
}

func TestProcessAllAutoRenewals_HistoryFailureIsSwallowed(t *testing.T) {
	memberships := new(MockMembershipRepo)
	prices := new(MockPriceResolver)
	history := new(MockHistoryRepo)
	now := day(2025, time.February, 3)

	c := candidate(1, "Ana Diaz", "Spinning", 8000, day(2025, time.February, 1), 1)

	memberships.On("GetExpiredAutoRenewals", mock.Anything, 1, now).
		Return([]membership.MembershipWithMember{c}, nil)
	prices.On("CurrentPriceCents", mock.Anything, 1, 100).Return(nil, nil)
	memberships.On("Renew", mock.Anything, mock.Anything).Return(nil)
	history.On("Append", mock.Anything, mock.Anything).Return(errors.New("history table unavailable"))

	result := fixedService(memberships, prices, history, now).ProcessAllAutoRenewals(context.Background(), 1)

	assert.True(t, result.Success)
	assert.Equal(t, 1, result.RenewedCount)
	assert.Empty(t, result.Errors)
}

func TestProcessAllAutoRenewals_VersionConflictRetries(t *testing.T) {
	memberships := new(MockMembershipRepo)
	prices := new(MockPriceResolver)
	history := new(MockHistoryRepo)
	now := day(2025, time.February, 3)

	c := candidate(1, "Ana Diaz", "Spinning", 8000, day(2025, time.February, 1), 1)

	fresh := c
	fresh.Version = 2

	memberships.On("GetExpiredAutoRenewals", mock.Anything, 1, now).
		Return([]membership.MembershipWithMember{c}, nil)
	prices.On("CurrentPriceCents", mock.Anything, 1, 100).Return(cents(8000), nil)
	memberships.On("Renew", mock.Anything, mock.MatchedBy(func(p membership.RenewParams) bool {
		return p.ExpectedVersion == 1
	})).Return(membership.ErrVersionConflict)
	memberships.On("GetByID", mock.Anything, 1, 1).Return(&fresh, nil)
	memberships.On("Renew", mock.Anything, mock.MatchedBy(func(p membership.RenewParams) bool {
		return p.ExpectedVersion == 2
	})).Return(nil)
	history.On("Append", mock.Anything, mock.Anything).Return(nil)

	result := fixedService(memberships, prices, history, now).ProcessAllAutoRenewals(context.Background(), 1)

	assert.True(t, result.Success)
	assert.Equal(t, 1, result.RenewedCount)
}

func TestProcessAllAutoRenewals_ConcurrentlyRenewedIsSkipped(t *testing.T) {
	memberships := new(MockMembershipRepo)
	prices := new(MockPriceResolver)
	history := new(MockHistoryRepo)
	now := day(2025, time.February, 3)

	c := candidate(1, "Ana Diaz", "Spinning", 8000, day(2025, time.February, 1), 1)

	fresh := c
	fresh.Version = 2
	fresh.EndDate = day(2025, time.March, 3) // already pushed forward

	memberships.On("GetExpiredAutoRenewals", mock.Anything, 1, now).
		Return([]membership.MembershipWithMember{c}, nil)
	prices.On("CurrentPriceCents", mock.Anything, 1, 100).Return(nil, nil)
	memberships.On("Renew", mock.Anything, mock.Anything).Return(membership.ErrVersionConflict).Once()
	memberships.On("GetByID", mock.Anything, 1, 1).Return(&fresh, nil)
	history.On("Append", mock.Anything, mock.Anything).Return(nil)

	result := fixedService(memberships, prices, history, now).ProcessAllAutoRenewals(context.Background(), 1)

	assert.True(t, result.Success)
	assert.Zero(t, result.RenewedCount)
	assert.Empty(t, result.Errors)
	require.Len(t, result.Details, 1)
	assert.False(t, result.Details[0].Renewed)
	assert.Empty(t, result.Details[0].Error)
}

func TestProcessAllAutoRenewals_CancelledContextStopsBetweenMemberships(t *testing.T) {
	memberships := new(MockMembershipRepo)
	prices := new(MockPriceResolver)
	history := new(MockHistoryRepo)
	now := day(2025, time.February, 3)

	c1 := candidate(1, "Ana Diaz", "Spinning", 8000, day(2025, time.February, 1), 1)
	c2 := candidate(2, "Luis Vega", "CrossFit", 10000, day(2025, time.February, 1), 1)

	ctx, cancel := context.WithCancel(context.Background())

	memberships.On("GetExpiredAutoRenewals", mock.Anything, 1, now).
		Return([]membership.MembershipWithMember{c1, c2}, nil)
	prices.On("CurrentPriceCents", mock.Anything, 1, 100).Return(nil, nil)
	memberships.On("Renew", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { cancel() }).
		Return(nil)
	history.On("Append", mock.Anything, mock.Anything).Return(nil)

	result := fixedService(memberships, prices, history, now).ProcessAllAutoRenewals(ctx, 1)

	// The first renewal committed before cancellation; the second never ran.
	assert.True(t, result.Success)
	assert.Equal(t, 1, result.RenewedCount)
	require.Len(t, result.Details, 1)
	memberships.AssertNumberOfCalls(t, "Renew", 1)
}

// A batch stopped mid-run still leaves its audit row: the history write must
// not ride on the already-cancelled batch context.
func TestProcessAllAutoRenewals_HistoryRecordedAfterCancellation(t *testing.T) {
	memberships := new(MockMembershipRepo)
	prices := new(MockPriceResolver)
	history := new(MockHistoryRepo)
	now := day(2025, time.February, 3)

	c1 := candidate(1, "Ana Diaz", "Spinning", 8000, day(2025, time.February, 1), 1)
	c2 := candidate(2, "Luis Vega", "CrossFit", 10000, day(2025, time.February, 1), 1)

	ctx, cancel := context.WithCancel(context.Background())

	memberships.On("GetExpiredAutoRenewals", mock.Anything, 1, now).
		Return([]membership.MembershipWithMember{c1, c2}, nil)
	prices.On("CurrentPriceCents", mock.Anything, 1, 100).Return(nil, nil)
	memberships.On("Renew", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { cancel() }).
		Return(nil)
	history.On("Append", mock.MatchedBy(func(ctx context.Context) bool {
		return ctx.Err() == nil
	}), mock.Anything).Return(nil)

	result := fixedService(memberships, prices, history, now).ProcessAllAutoRenewals(ctx, 1)

	assert.Equal(t, 1, result.RenewedCount)
	history.AssertNumberOfCalls(t, "Append", 1)
}

// Cancellation takes effect right away instead of waiting out the
// per-membership throttle interval first.
func TestProcessAllAutoRenewals_CancellationSkipsThrottleWait(t *testing.T) {
	memberships := new(MockMembershipRepo)
	prices := new(MockPriceResolver)
	history := new(MockHistoryRepo)
	now := day(2025, time.February, 3)

	c1 := candidate(1, "Ana Diaz", "Spinning", 8000, day(2025, time.February, 1), 1)
	c2 := candidate(2, "Luis Vega", "CrossFit", 10000, day(2025, time.February, 1), 1)

	ctx, cancel := context.WithCancel(context.Background())

	memberships.On("GetExpiredAutoRenewals", mock.Anything, 1, now).
		Return([]membership.MembershipWithMember{c1, c2}, nil)
	prices.On("CurrentPriceCents", mock.Anything, 1, 100).Return(nil, nil)
	memberships.On("Renew", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { cancel() }).
		Return(nil)
	history.On("Append", mock.Anything, mock.Anything).Return(nil)

	// An hour-long throttle would stall the test if the batch slept before
	// noticing the cancellation.
	s := NewService(memberships, prices, history, time.UTC, time.Hour).(*service)
	s.now = func() time.Time { return now }

	start := time.Now()
	result := s.ProcessAllAutoRenewals(ctx, 1)

	assert.Less(t, time.Since(start), 10*time.Second)
	assert.Equal(t, 1, result.RenewedCount)
	memberships.AssertNumberOfCalls(t, "Renew", 1)
}

// Running the batch twice in a day renews each membership once: after the
// first run end_date is in the future, so the second enumeration is empty.
func TestProcessAllAutoRenewals_IdempotentSameDay(t *testing.T) {
	memberships := new(MockMembershipRepo)
	prices := new(MockPriceResolver)
	history := new(MockHistoryRepo)
	now := day(2025, time.February, 3)

	c := candidate(1, "Ana Diaz", "Spinning", 8000, day(2025, time.February, 1), 1)

	memberships.On("GetExpiredAutoRenewals", mock.Anything, 1, now).
		Return([]membership.MembershipWithMember{c}, nil).Once()
	memberships.On("GetExpiredAutoRenewals", mock.Anything, 1, now).
		Return([]membership.MembershipWithMember{}, nil).Once()
	prices.On("CurrentPriceCents", mock.Anything, 1, 100).Return(nil, nil)
	memberships.On("Renew", mock.Anything, mock.Anything).Return(nil)
	history.On("Append", mock.Anything, mock.Anything).Return(nil)

	svc := fixedService(memberships, prices, history, now)

	first := svc.ProcessAllAutoRenewals(context.Background(), 1)
	second := svc.ProcessAllAutoRenewals(context.Background(), 1)

	assert.Equal(t, 1, first.RenewedCount)
	assert.Zero(t, second.RenewedCount)
	assert.True(t, second.Success)
	memberships.AssertNumberOfCalls(t, "Renew", 1)
}

func TestRenewMembership_Individual(t *testing.T) {
	memberships := new(MockMembershipRepo)
	prices := new(MockPriceResolver)
	history := new(MockHistoryRepo)
	now := day(2025, time.February, 3)

	c := candidate(1, "Ana Diaz", "Spinning", 8000, day(2025, time.February, 1), 3)

	memberships.On("GetByID", mock.Anything, 1, 1).Return(&c, nil)
	prices.On("CurrentPriceCents", mock.Anything, 1, 100).Return(cents(9000), nil)
	memberships.On("Renew", mock.Anything, mock.Anything).Return(nil)
	history.On("Append", mock.Anything, mock.Anything).Return(nil)

	detail := fixedService(memberships, prices, history, now).RenewMembership(context.Background(), 1, 1)

	assert.True(t, detail.Renewed)
	assert.True(t, detail.PriceChanged)
	assert.Equal(t, int64(9000), detail.NewPriceCents)

	history.AssertCalled(t, "Append", mock.Anything, mock.MatchedBy(func(e *HistoryEntry) bool {
		return e.ExecutionType == ExecutionIndividual && e.SuccessfulRenewals == 1
	}))
}

func TestRenewMembership_NotFound(t *testing.T) {
	memberships := new(MockMembershipRepo)
	prices := new(MockPriceResolver)
	history := new(MockHistoryRepo)
	now := day(2025, time.February, 3)

	memberships.On("GetByID", mock.Anything, 1, 99).Return(nil, membership.ErrMembershipNotFound)

	detail := fixedService(memberships, prices, history, now).RenewMembership(context.Background(), 1, 99)

	assert.False(t, detail.Renewed)
	assert.NotEmpty(t, detail.Error)
}

// A second manual renewal in the same billing month hits the ledger guard
// and surfaces as an error instead of double-billing.
func TestRenewMembership_AlreadyBilled(t *testing.T) {
	memberships := new(MockMembershipRepo)
	prices := new(MockPriceResolver)
	history := new(MockHistoryRepo)
	now := day(2025, time.February, 3)

	c := candidate(1, "Ana Diaz", "Spinning", 8000, day(2025, time.February, 1), 3)

	memberships.On("GetByID", mock.Anything, 1, 1).Return(&c, nil)
	prices.On("CurrentPriceCents", mock.Anything, 1, 100).Return(nil, nil)
	memberships.On("Renew", mock.Anything, mock.Anything).Return(membership.ErrAlreadyBilled)
	history.On("Append", mock.Anything, mock.Anything).Return(nil)

	detail := fixedService(memberships, prices, history, now).RenewMembership(context.Background(), 1, 1)

	assert.False(t, detail.Renewed)
	assert.Contains(t, detail.Error, "Ana Diaz")
}

func TestUpcomingRenewals(t *testing.T) {
	memberships := new(MockMembershipRepo)
	prices := new(MockPriceResolver)
	history := new(MockHistoryRepo)
	now := day(2025, time.February, 3)

	upcoming := []membership.MembershipWithMember{
		candidate(1, "Ana Diaz", "Spinning", 8000, day(2025, time.February, 5), 1),
	}

	memberships.On("GetUpcomingAutoRenewals", mock.Anything, 1, now, day(2025, time.February, 10)).
		Return(upcoming, nil)

	got, err := fixedService(memberships, prices, history, now).UpcomingRenewals(context.Background(), 1, 7)

	require.NoError(t, err)
	assert.Equal(t, upcoming, got)
}
