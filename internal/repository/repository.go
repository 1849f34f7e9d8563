package repository

import (
	"context"
	"time"

	"stableride-backend/internal/domain"
)

type BookingRepository interface {
	// CreateIfAvailable inserts the booking only if no active booking for
	// the same horse overlaps [checkStart, checkEnd] (the requested window
	// widened by any turnaround buffer). The conflict check and the insert
	// run in one transaction under a horse-row lock; a losing concurrent
	// request gets domain.ErrConflict.
	CreateIfAvailable(ctx context.Context, b *domain.Booking, checkStart, checkEnd time.Time) error
	// RescheduleIfAvailable rewrites the booking's window, price and
	// reschedule bookkeeping under the same transactional conflict check,
	// excluding the booking itself.
	RescheduleIfAvailable(ctx context.Context, b *domain.Booking, checkStart, checkEnd time.Time) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	// Update persists status, cancellation and refund fields.
	Update(ctx context.Context, b *domain.Booking) error
	// HasConflict is the read-only availability probe. excludeBookingID
	// may be zero.
	HasConflict(ctx context.Context, horseID int64, start, end time.Time, excludeBookingID int64) (bool, error)
	ListByRider(ctx context.Context, riderID int64, status domain.BookingStatus, page, pageSize int64) ([]domain.Booking, int64, error)
	ListByStable(ctx context.Context, stableID int64, status domain.BookingStatus, page, pageSize int64) ([]domain.Booking, int64, error)
}

type SlotRepository interface {
	Create(ctx context.Context, slot *domain.AvailabilitySlot) error
	// ListOrdered returns slots sorted by horse then start time, which is
	// the order the dedup pass expects. A nil horseID means all horses.
	ListOrdered(ctx context.Context, horseID *int64) ([]domain.AvailabilitySlot, error)
	DeleteByIDs(ctx context.Context, ids []int64) (int64, error)
}

type HorseRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Horse, error)
}

type StableRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Stable, error)
}

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type ScoreRepository interface {
	GetResultByBookingID(ctx context.Context, bookingID int64) (*domain.RideResult, error)
	// ApplyScore writes the review, the ride result and the rider's new
	// point total in one transaction. A duplicate booking scores as
	// domain.ErrConflict via the unique index on ride_results.booking_id.
	ApplyScore(ctx context.Context, result *domain.RideResult, review *domain.RiderReview, newPoints int64) error
}

type LeagueRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.League, error)
	// ActiveByDivision returns the division's league whose window covers
	// at, or domain.ErrNotFound.
	ActiveByDivision(ctx context.Context, division domain.Division, at time.Time) (*domain.League, error)
	// ListActiveEndedBefore returns active leagues whose window has
	// already closed, oldest first. The rollover sweep promotes these.
	ListActiveEndedBefore(ctx context.Context, cutoff time.Time) ([]domain.League, error)
	Create(ctx context.Context, league *domain.League) error
	ListMembers(ctx context.Context, leagueID int64) ([]domain.User, error)
	AddMember(ctx context.Context, leagueID, riderID int64) error
	// Promote atomically writes all standings, moves the promoted riders'
	// membership and current_league_id to the target league, and marks the
	// source league ended. All-or-nothing.
	Promote(ctx context.Context, sourceID int64, standings []domain.LeagueStanding, promotedRiderIDs []int64, targetID int64) error
	ListStandings(ctx context.Context, leagueID int64) ([]domain.LeagueStanding, error)
	// ListDriftMemberships returns membership rows of riders who belong
	// to more than one active league.
	ListDriftMemberships(ctx context.Context) ([]domain.LeagueMember, error)
	RemoveMember(ctx context.Context, leagueID, riderID int64) error
	SetCurrentLeague(ctx context.Context, riderID int64, leagueID *int64) error
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	List(ctx context.Context, userID int64, limit, offset int64) ([]domain.Notification, int64, error)
	MarkAsRead(ctx context.Context, id, userID int64) error
}
