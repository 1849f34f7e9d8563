package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"stableride-backend/internal/domain"
	"stableride-backend/internal/service"
)

func newScoringFixture() (*MockBookingRepo, *MockHorseRepo, *MockStableRepo, *MockUserRepo, *MockScoreRepo, *MockLeagueService, service.ScoringService) {
	bookingRepo := new(MockBookingRepo)
	horseRepo := new(MockHorseRepo)
	stableRepo := new(MockStableRepo)
	userRepo := new(MockUserRepo)
	scoreRepo := new(MockScoreRepo)
	leagueSvc := new(MockLeagueService)
	svc := service.NewScoringService(bookingRepo, horseRepo, stableRepo, userRepo, scoreRepo, leagueSvc)
	return bookingRepo, horseRepo, stableRepo, userRepo, scoreRepo, leagueSvc, svc
}

func completedBooking() *domain.Booking {
	return &domain.Booking{ID: 11, RiderID: 1, StableID: 3, HorseID: 7, Status: domain.BookingStatusCompleted}
}

func tieredHorse(tier domain.Tier) *domain.Horse {
	h := activeHorse()
	h.AdminTier = &tier
	return h
}

func TestScoringService_ScoreRide(t *testing.T) {
	ctx := context.Background()
	owner := domain.Actor{UserID: 20, Role: domain.ActorRoleOwner}

	t.Run("Beginner Pass On Beginner Horse", func(t *testing.T) {
		bookingRepo, horseRepo, stableRepo, userRepo, scoreRepo, leagueSvc, svc := newScoringFixture()
		bookingRepo.On("GetByID", ctx, int64(11)).Return(completedBooking(), nil)
		stableRepo.On("GetByID", ctx, int64(3)).Return(approvedStable(), nil)
		scoreRepo.On("GetResultByBookingID", ctx, int64(11)).Return(nil, domain.ErrNotFound)
		horseRepo.On("GetByID", ctx, int64(7)).Return(tieredHorse(domain.TierBeginner), nil)
		userRepo.On("GetByID", ctx, int64(1)).Return(&domain.User{ID: 1, RankPoints: 1200}, nil)
		scoreRepo.On("ApplyScore", ctx, mock.AnythingOfType("*domain.RideResult"),
			mock.AnythingOfType("*domain.RiderReview"), int64(1215)).Return(nil)
		leagueSvc.On("EnsureMembership", ctx, int64(1)).Return(nil)

		summary, err := svc.ScoreRide(ctx, owner, 11, 8, 4, "solid seat")
		assert.NoError(t, err)
		assert.Equal(t, int64(15), summary.PointsChange)
		assert.Equal(t, int64(1215), summary.NewRiderPoints)
		assert.Equal(t, domain.TierBeginner, summary.RiderTier)
	})

	t.Run("Advanced Rider On Beginner Horse Drops A Tier", func(t *testing.T) {
		bookingRepo, horseRepo, stableRepo, userRepo, scoreRepo, leagueSvc, svc := newScoringFixture()
		bookingRepo.On("GetByID", ctx, int64(11)).Return(completedBooking(), nil)
		stableRepo.On("GetByID", ctx, int64(3)).Return(approvedStable(), nil)
		scoreRepo.On("GetResultByBookingID", ctx, int64(11)).Return(nil, domain.ErrNotFound)
		horseRepo.On("GetByID", ctx, int64(7)).Return(tieredHorse(domain.TierBeginner), nil)
		userRepo.On("GetByID", ctx, int64(1)).Return(&domain.User{ID: 1, RankPoints: 1750}, nil)
		scoreRepo.On("ApplyScore", ctx, mock.AnythingOfType("*domain.RideResult"),
			mock.AnythingOfType("*domain.RiderReview"), int64(1700)).Return(nil)
		leagueSvc.On("EnsureMembership", ctx, int64(1)).Return(nil)

		summary, err := svc.ScoreRide(ctx, owner, 11, 9, 3, "")
		assert.NoError(t, err)
		assert.Equal(t, int64(-50), summary.PointsChange)
		assert.Equal(t, int64(1700), summary.NewRiderPoints)
		assert.Equal(t, domain.TierIntermediate, summary.RiderTier)
	})

	t.Run("Points Never Below Zero", func(t *testing.T) {
		bookingRepo, horseRepo, stableRepo, userRepo, scoreRepo, leagueSvc, svc := newScoringFixture()
		bookingRepo.On("GetByID", ctx, int64(11)).Return(completedBooking(), nil)
		stableRepo.On("GetByID", ctx, int64(3)).Return(approvedStable(), nil)
		scoreRepo.On("GetResultByBookingID", ctx, int64(11)).Return(nil, domain.ErrNotFound)
		horseRepo.On("GetByID", ctx, int64(7)).Return(tieredHorse(domain.TierBeginner), nil)
		userRepo.On("GetByID", ctx, int64(1)).Return(&domain.User{ID: 1, RankPoints: 5}, nil)
		scoreRepo.On("ApplyScore", ctx, mock.AnythingOfType("*domain.RideResult"),
			mock.AnythingOfType("*domain.RiderReview"), int64(0)).Return(nil)
		leagueSvc.On("EnsureMembership", ctx, int64(1)).Return(nil)

		summary, err := svc.ScoreRide(ctx, owner, 11, 3, 3, "")
		assert.NoError(t, err)
		assert.Equal(t, int64(0), summary.NewRiderPoints)
	})

	t.Run("Already Scored", func(t *testing.T) {
		bookingRepo, _, stableRepo, _, scoreRepo, _, svc := newScoringFixture()
		bookingRepo.On("GetByID", ctx, int64(11)).Return(completedBooking(), nil)
		stableRepo.On("GetByID", ctx, int64(3)).Return(approvedStable(), nil)
		scoreRepo.On("GetResultByBookingID", ctx, int64(11)).Return(&domain.RideResult{BookingID: 11}, nil)

		_, err := svc.ScoreRide(ctx, owner, 11, 8, 4, "")
		assert.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("Uncompleted Booking", func(t *testing.T) {
		bookingRepo, _, _, _, _, _, svc := newScoringFixture()
		confirmed := completedBooking()
		confirmed.Status = domain.BookingStatusConfirmed
		bookingRepo.On("GetByID", ctx, int64(11)).Return(confirmed, nil)

		_, err := svc.ScoreRide(ctx, owner, 11, 8, 4, "")
		assert.ErrorIs(t, err, domain.ErrPreconditionFailed)
	})

	t.Run("Untiered Horse", func(t *testing.T) {
		bookingRepo, horseRepo, stableRepo, _, scoreRepo, _, svc := newScoringFixture()
		bookingRepo.On("GetByID", ctx, int64(11)).Return(completedBooking(), nil)
		stableRepo.On("GetByID", ctx, int64(3)).Return(approvedStable(), nil)
		scoreRepo.On("GetResultByBookingID", ctx, int64(11)).Return(nil, domain.ErrNotFound)
		horseRepo.On("GetByID", ctx, int64(7)).Return(activeHorse(), nil)

		_, err := svc.ScoreRide(ctx, owner, 11, 8, 4, "")
		assert.ErrorIs(t, err, domain.ErrPreconditionFailed)
	})

	t.Run("Rider Cannot Score", func(t *testing.T) {
		bookingRepo, _, stableRepo, _, _, _, svc := newScoringFixture()
		bookingRepo.On("GetByID", ctx, int64(11)).Return(completedBooking(), nil)
		stableRepo.On("GetByID", ctx, int64(3)).Return(approvedStable(), nil)

		rider := domain.Actor{UserID: 1, Role: domain.ActorRoleRider}
		_, err := svc.ScoreRide(ctx, rider, 11, 10, 5, "")
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("RPS Out Of Range", func(t *testing.T) {
		_, _, _, _, _, _, svc := newScoringFixture()
		_, err := svc.ScoreRide(ctx, owner, 11, 11, 4, "")
		assert.ErrorIs(t, err, domain.ErrValidation)
		_, err = svc.ScoreRide(ctx, owner, 11, 0, 4, "")
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("League Enrolment Failure Is Swallowed", func(t *testing.T) {
		bookingRepo, horseRepo, stableRepo, userRepo, scoreRepo, leagueSvc, svc := newScoringFixture()
		bookingRepo.On("GetByID", ctx, int64(11)).Return(completedBooking(), nil)
		stableRepo.On("GetByID", ctx, int64(3)).Return(approvedStable(), nil)
		scoreRepo.On("GetResultByBookingID", ctx, int64(11)).Return(nil, domain.ErrNotFound)
		horseRepo.On("GetByID", ctx, int64(7)).Return(tieredHorse(domain.TierBeginner), nil)
		userRepo.On("GetByID", ctx, int64(1)).Return(&domain.User{ID: 1, RankPoints: 100}, nil)
		scoreRepo.On("ApplyScore", ctx, mock.Anything, mock.Anything, int64(115)).Return(nil)
		leagueSvc.On("EnsureMembership", ctx, int64(1)).Return(domain.ErrNotFound)

		summary, err := svc.ScoreRide(ctx, owner, 11, 9, 5, "")
		assert.NoError(t, err)
		assert.Equal(t, int64(115), summary.NewRiderPoints)
	})
}
