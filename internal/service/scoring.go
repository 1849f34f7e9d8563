package service

import (
	"context"
	"errors"
	"fmt"

	"stableride-backend/internal/domain"
	"stableride-backend/internal/logger"
	"stableride-backend/internal/rating"
	"stableride-backend/internal/repository"
)

type scoringService struct {
	bookingRepo repository.BookingRepository
	horseRepo   repository.HorseRepository
	stableRepo  repository.StableRepository
	userRepo    repository.UserRepository
	scoreRepo   repository.ScoreRepository
	leagueSvc   LeagueService
}

func NewScoringService(
	bookingRepo repository.BookingRepository,
	horseRepo repository.HorseRepository,
	stableRepo repository.StableRepository,
	userRepo repository.UserRepository,
	scoreRepo repository.ScoreRepository,
	leagueSvc LeagueService,
) ScoringService {
	return &scoringService{
		bookingRepo: bookingRepo,
		horseRepo:   horseRepo,
		stableRepo:  stableRepo,
		userRepo:    userRepo,
		scoreRepo:   scoreRepo,
		leagueSvc:   leagueSvc,
	}
}

func (s *scoringService) ScoreRide(ctx context.Context, actor domain.Actor, bookingID int64, rps, behaviorRating int, comment string) (*ScoreSummary, error) {
	if rps < 1 || rps > 10 {
		return nil, fmt.Errorf("rps must be 1..10, got %d: %w", rps, domain.ErrValidation)
	}
	if behaviorRating < 1 || behaviorRating > 5 {
		return nil, fmt.Errorf("behavior rating must be 1..5, got %d: %w", behaviorRating, domain.ErrValidation)
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status != domain.BookingStatusCompleted {
		return nil, fmt.Errorf("booking %d is %s, only completed rides are scored: %w",
			bookingID, booking.Status, domain.ErrPreconditionFailed)
	}

	stable, err := s.stableRepo.GetByID(ctx, booking.StableID)
	if err != nil {
		return nil, err
	}
	// Only the hosting stable's owner, or an admin, may score the ride.
	if !actor.IsAdmin() && actor.UserID != stable.OwnerID {
		return nil, fmt.Errorf("user %d may not score booking %d: %w", actor.UserID, bookingID, domain.ErrForbidden)
	}

	// Cheap pre-check for a friendlier error; the unique index inside
	// ApplyScore is the real guard under concurrency.
	if _, err := s.scoreRepo.GetResultByBookingID(ctx, bookingID); err == nil {
		return nil, fmt.Errorf("booking %d already scored: %w", bookingID, domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	horse, err := s.horseRepo.GetByID(ctx, booking.HorseID)
	if err != nil {
		return nil, err
	}
	if horse.AdminTier == nil {
		return nil, fmt.Errorf("horse %d has no admin tier: %w", horse.ID, domain.ErrPreconditionFailed)
	}

	rider, err := s.userRepo.GetByID(ctx, booking.RiderID)
	if err != nil {
		return nil, err
	}

	outcome := rating.Score(rider.RankPoints, *horse.AdminTier, rps)

	result := &domain.RideResult{
		BookingID:    booking.ID,
		RiderID:      rider.ID,
		HorseID:      horse.ID,
		StableID:     stable.ID,
		RPS:          rps,
		PointsChange: outcome.Delta,
	}
	review := &domain.RiderReview{
		BookingID:        booking.ID,
		RiderID:          rider.ID,
		RidingSkillLevel: rps,
		BehaviorRating:   behaviorRating,
		Comment:          comment,
	}

	if err := s.scoreRepo.ApplyScore(ctx, result, review, outcome.NewPoints); err != nil {
		return nil, err
	}

	// Enrol the rider into the entry division if they have no league yet.
	// Best-effort: league placement must not fail an already-applied score.
	if err := s.leagueSvc.EnsureMembership(ctx, rider.ID); err != nil {
		logger.Error("League enrolment after scoring failed", "rider_id", rider.ID, "error", err)
	}

	return &ScoreSummary{
		BookingID:      booking.ID,
		PointsChange:   outcome.Delta,
		NewRiderPoints: outcome.NewPoints,
		RiderTier:      outcome.NewTier,
	}, nil
}
