package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"stableride-backend/internal/domain"
	"stableride-backend/internal/repository"
)

const pgUniqueViolation = "23505"

type scoreRepository struct {
	db *sql.DB
}

func NewScoreRepository(db *sql.DB) repository.ScoreRepository {
	return &scoreRepository{db: db}
}

func (r *scoreRepository) GetResultByBookingID(ctx context.Context, bookingID int64) (*domain.RideResult, error) {
	res := &domain.RideResult{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, booking_id, rider_id, horse_id, stable_id, rps, points_change, created_on
		 FROM ride_results WHERE booking_id = $1`, bookingID,
	).Scan(&res.ID, &res.BookingID, &res.RiderID, &res.HorseID, &res.StableID, &res.RPS, &res.PointsChange, &res.CreatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("ride result for booking %d: %w", bookingID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

// ApplyScore pairs the append-only RideResult with the rider's new point
// total. Either both land or neither does; the unique index on
// ride_results.booking_id turns a concurrent double-score into
// domain.ErrConflict.
func (r *scoreRepository) ApplyScore(ctx context.Context, result *domain.RideResult, review *domain.RiderReview, newPoints int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx,
		`INSERT INTO rider_reviews (booking_id, rider_id, riding_skill_level, behavior_rating, comment)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id, created_on`,
		review.BookingID, review.RiderID, review.RidingSkillLevel, review.BehaviorRating, review.Comment,
	).Scan(&review.ID, &review.CreatedOn)
	if err != nil {
		return wrapScoreConflict(err, review.BookingID)
	}

	err = tx.QueryRowContext(ctx,
		`INSERT INTO ride_results (booking_id, rider_id, horse_id, stable_id, rps, points_change)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, created_on`,
		result.BookingID, result.RiderID, result.HorseID, result.StableID, result.RPS, result.PointsChange,
	).Scan(&result.ID, &result.CreatedOn)
	if err != nil {
		return wrapScoreConflict(err, result.BookingID)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE users SET rank_points = $1 WHERE id = $2`, newPoints, result.RiderID); err != nil {
		return err
	}

	return tx.Commit()
}

func wrapScoreConflict(err error, bookingID int64) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation {
		return fmt.Errorf("booking %d already scored: %w", bookingID, domain.ErrConflict)
	}
	return err
}
