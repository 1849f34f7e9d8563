package service_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"stableride-backend/internal/domain"
	"stableride-backend/internal/service"
)

// MockBookingRepo
type MockBookingRepo struct {
	mock.Mock
}

func (m *MockBookingRepo) CreateIfAvailable(ctx context.Context, b *domain.Booking, checkStart, checkEnd time.Time) error {
	args := m.Called(ctx, b, checkStart, checkEnd)
	return args.Error(0)
}
func (m *MockBookingRepo) RescheduleIfAvailable(ctx context.Context, b *domain.Booking, checkStart, checkEnd time.Time) error {
	args := m.Called(ctx, b, checkStart, checkEnd)
	return args.Error(0)
}
func (m *MockBookingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) Update(ctx context.Context, b *domain.Booking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}
func (m *MockBookingRepo) HasConflict(ctx context.Context, horseID int64, start, end time.Time, excludeBookingID int64) (bool, error) {
	args := m.Called(ctx, horseID, start, end, excludeBookingID)
	return args.Bool(0), args.Error(1)
}
func (m *MockBookingRepo) ListByRider(ctx context.Context, riderID int64, status domain.BookingStatus, page, pageSize int64) ([]domain.Booking, int64, error) {
	args := m.Called(ctx, riderID, status, page, pageSize)
	return args.Get(0).([]domain.Booking), args.Get(1).(int64), args.Error(2)
}
func (m *MockBookingRepo) ListByStable(ctx context.Context, stableID int64, status domain.BookingStatus, page, pageSize int64) ([]domain.Booking, int64, error) {
	args := m.Called(ctx, stableID, status, page, pageSize)
	return args.Get(0).([]domain.Booking), args.Get(1).(int64), args.Error(2)
}

// MockSlotRepo
type MockSlotRepo struct {
	mock.Mock
}

func (m *MockSlotRepo) Create(ctx context.Context, slot *domain.AvailabilitySlot) error {
	args := m.Called(ctx, slot)
	return args.Error(0)
}
func (m *MockSlotRepo) ListOrdered(ctx context.Context, horseID *int64) ([]domain.AvailabilitySlot, error) {
	args := m.Called(ctx, horseID)
	return args.Get(0).([]domain.AvailabilitySlot), args.Error(1)
}
func (m *MockSlotRepo) DeleteByIDs(ctx context.Context, ids []int64) (int64, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(int64), args.Error(1)
}

// MockHorseRepo
type MockHorseRepo struct {
	mock.Mock
}

func (m *MockHorseRepo) GetByID(ctx context.Context, id int64) (*domain.Horse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Horse), args.Error(1)
}

// MockStableRepo
type MockStableRepo struct {
	mock.Mock
}

func (m *MockStableRepo) GetByID(ctx context.Context, id int64) (*domain.Stable, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Stable), args.Error(1)
}

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockScoreRepo
type MockScoreRepo struct {
	mock.Mock
}

func (m *MockScoreRepo) GetResultByBookingID(ctx context.Context, bookingID int64) (*domain.RideResult, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RideResult), args.Error(1)
}
func (m *MockScoreRepo) ApplyScore(ctx context.Context, result *domain.RideResult, review *domain.RiderReview, newPoints int64) error {
	args := m.Called(ctx, result, review, newPoints)
	return args.Error(0)
}

// MockLeagueRepo
type MockLeagueRepo struct {
	mock.Mock
}

func (m *MockLeagueRepo) GetByID(ctx context.Context, id int64) (*domain.League, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.League), args.Error(1)
}
func (m *MockLeagueRepo) ActiveByDivision(ctx context.Context, division domain.Division, at time.Time) (*domain.League, error) {
	args := m.Called(ctx, division, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.League), args.Error(1)
}
func (m *MockLeagueRepo) ListActiveEndedBefore(ctx context.Context, cutoff time.Time) ([]domain.League, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).([]domain.League), args.Error(1)
}
func (m *MockLeagueRepo) Create(ctx context.Context, league *domain.League) error {
	args := m.Called(ctx, league)
	return args.Error(0)
}
func (m *MockLeagueRepo) ListMembers(ctx context.Context, leagueID int64) ([]domain.User, error) {
	args := m.Called(ctx, leagueID)
	return args.Get(0).([]domain.User), args.Error(1)
}
func (m *MockLeagueRepo) AddMember(ctx context.Context, leagueID, riderID int64) error {
	args := m.Called(ctx, leagueID, riderID)
	return args.Error(0)
}
func (m *MockLeagueRepo) Promote(ctx context.Context, sourceID int64, standings []domain.LeagueStanding, promotedRiderIDs []int64, targetID int64) error {
	args := m.Called(ctx, sourceID, standings, promotedRiderIDs, targetID)
	return args.Error(0)
}
func (m *MockLeagueRepo) ListStandings(ctx context.Context, leagueID int64) ([]domain.LeagueStanding, error) {
	args := m.Called(ctx, leagueID)
	return args.Get(0).([]domain.LeagueStanding), args.Error(1)
}
func (m *MockLeagueRepo) ListDriftMemberships(ctx context.Context) ([]domain.LeagueMember, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.LeagueMember), args.Error(1)
}
func (m *MockLeagueRepo) RemoveMember(ctx context.Context, leagueID, riderID int64) error {
	args := m.Called(ctx, leagueID, riderID)
	return args.Error(0)
}
func (m *MockLeagueRepo) SetCurrentLeague(ctx context.Context, riderID int64, leagueID *int64) error {
	args := m.Called(ctx, riderID, leagueID)
	return args.Error(0)
}

// MockNotifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) BookingConfirmed(ctx context.Context, booking *domain.Booking) {
	m.Called(ctx, booking)
}
func (m *MockNotifier) BookingRescheduled(ctx context.Context, booking *domain.Booking, by domain.ActorRole) {
	m.Called(ctx, booking, by)
}
func (m *MockNotifier) BookingCancelled(ctx context.Context, booking *domain.Booking, by domain.ActorRole) {
	m.Called(ctx, booking, by)
}
func (m *MockNotifier) RefundProcessed(ctx context.Context, booking *domain.Booking) {
	m.Called(ctx, booking)
}

// MockPaymentProvider
type MockPaymentProvider struct {
	mock.Mock
}

func (m *MockPaymentProvider) Refund(ctx context.Context, paymentRef string, amountCents int64) (string, error) {
	args := m.Called(ctx, paymentRef, amountCents)
	return args.String(0), args.Error(1)
}

// MockLeagueService
type MockLeagueService struct {
	mock.Mock
}

func (m *MockLeagueService) CurrentLeague(ctx context.Context, division domain.Division) (*domain.League, error) {
	args := m.Called(ctx, division)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.League), args.Error(1)
}
func (m *MockLeagueService) PromoteLeague(ctx context.Context, actor domain.Actor, leagueID int64) (*service.PromotionResult, error) {
	args := m.Called(ctx, actor, leagueID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PromotionResult), args.Error(1)
}
func (m *MockLeagueService) Standings(ctx context.Context, leagueID int64) ([]domain.LeagueStanding, error) {
	args := m.Called(ctx, leagueID)
	return args.Get(0).([]domain.LeagueStanding), args.Error(1)
}
func (m *MockLeagueService) EnsureMembership(ctx context.Context, riderID int64) error {
	args := m.Called(ctx, riderID)
	return args.Error(0)
}
func (m *MockLeagueService) RepairMemberships(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
