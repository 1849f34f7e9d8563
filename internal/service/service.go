package service

import (
	"context"
	"errors"
	"time"

	"stableride-backend/internal/domain"
)

type BookingService interface {
	// CreateBooking places an ordinary rider booking in CONFIRMED.
	CreateBooking(ctx context.Context, actor domain.Actor, stableID, horseID int64, start, end time.Time) (*domain.Booking, error)
	// CreateWalkInBooking is the admin path for rides that already
	// happened: rider looked up by email, past start allowed, booking
	// lands directly in COMPLETED.
	CreateWalkInBooking(ctx context.Context, actor domain.Actor, riderEmail string, stableID, horseID int64, start, end time.Time) (*domain.Booking, error)
	RescheduleBooking(ctx context.Context, actor domain.Actor, bookingID int64, newStart, newEnd time.Time) (*domain.Booking, error)
	CancelBooking(ctx context.Context, actor domain.Actor, bookingID int64, reason string) (*domain.Booking, error)
	CompleteBooking(ctx context.Context, actor domain.Actor, bookingID int64) (*domain.Booking, error)
	GetBooking(ctx context.Context, actor domain.Actor, bookingID int64) (*domain.Booking, error)
	ListRiderBookings(ctx context.Context, actor domain.Actor, riderID int64, status domain.BookingStatus, page, pageSize int64) ([]domain.Booking, int64, error)
	ListStableBookings(ctx context.Context, actor domain.Actor, stableID int64, status domain.BookingStatus, page, pageSize int64) ([]domain.Booking, int64, error)
}

type AvailabilityService interface {
	// HasConflict reports whether the window collides with an active
	// booking for the horse. excludeBookingID may be zero.
	HasConflict(ctx context.Context, horseID int64, start, end time.Time, excludeBookingID int64) (bool, error)
	// DeduplicateSlots removes near-duplicate availability slots and
	// returns the number deleted. Idempotent.
	DeduplicateSlots(ctx context.Context, horseID *int64) (int64, error)
}

type RefundService interface {
	RequestRefund(ctx context.Context, actor domain.Actor, bookingID int64, reason string) (*domain.Booking, error)
	RejectRefund(ctx context.Context, actor domain.Actor, bookingID int64) (*domain.Booking, error)
	// ProcessRefund executes the refund with the payment provider. A nil
	// amount refunds the full booking price. Provider failure leaves all
	// local state untouched.
	ProcessRefund(ctx context.Context, actor domain.Actor, bookingID int64, amountCents *int64) (*domain.Booking, error)
}

// ScoreSummary is returned to the caller after a ride is scored.
type ScoreSummary struct {
	BookingID      int64       `json:"booking_id"`
	PointsChange   int64       `json:"points_change"`
	NewRiderPoints int64       `json:"new_rider_points"`
	RiderTier      domain.Tier `json:"rider_tier"`
}

type ScoringService interface {
	// ScoreRide converts a completed ride into a point delta, exactly
	// once per booking.
	ScoreRide(ctx context.Context, actor domain.Actor, bookingID int64, rps, behaviorRating int, comment string) (*ScoreSummary, error)
}

// PromotionResult reports what a league promotion did.
type PromotionResult struct {
	LeagueID         int64   `json:"league_id"`
	PromotedRiderIDs []int64 `json:"promoted_rider_ids"`
	NextLeagueID     int64   `json:"next_league_id"`
	StandingsWritten int     `json:"standings_written"`
}

type LeagueService interface {
	// CurrentLeague returns the division's active league, lazily
	// creating a fresh 14-day instance when none covers now.
	CurrentLeague(ctx context.Context, division domain.Division) (*domain.League, error)
	// PromoteLeague ranks members, promotes the top three into the next
	// division's active league and ends the source league, atomically.
	PromoteLeague(ctx context.Context, actor domain.Actor, leagueID int64) (*PromotionResult, error)
	Standings(ctx context.Context, leagueID int64) ([]domain.LeagueStanding, error)
	// EnsureMembership enrols a rider into the lowest division's current
	// league if they have no active league yet.
	EnsureMembership(ctx context.Context, riderID int64) error
	// RepairMemberships fixes drift: a rider found in several active
	// leagues keeps only the highest division. Returns removals.
	RepairMemberships(ctx context.Context) (int64, error)
}

type NotificationService interface {
	ListNotifications(ctx context.Context, actor domain.Actor, page, pageSize int64) ([]domain.Notification, int64, error)
	MarkNotificationRead(ctx context.Context, actor domain.Actor, notificationID int64) error
}

// Notifier delivers booking lifecycle messages. All methods are
// best-effort: failures are logged, never returned, and never block a
// committed state change.
type Notifier interface {
	BookingConfirmed(ctx context.Context, booking *domain.Booking)
	BookingRescheduled(ctx context.Context, booking *domain.Booking, by domain.ActorRole)
	BookingCancelled(ctx context.Context, booking *domain.Booking, by domain.ActorRole)
	RefundProcessed(ctx context.Context, booking *domain.Booking)
}

// EmailService is the outbound email channel.
type EmailService interface {
	SendBookingConfirmation(ctx context.Context, to, riderName, horseName string, start, end time.Time) error
	SendBookingRescheduled(ctx context.Context, to, riderName, horseName string, start, end time.Time) error
	SendBookingCancelled(ctx context.Context, to, name, horseName, reason string) error
	SendRefundProcessed(ctx context.Context, to, riderName string, amountCents int64) error
}

// PushService is the outbound push channel.
type PushService interface {
	Send(ctx context.Context, deviceToken, title, body string, data map[string]string) error
}

// PaymentProvider executes refunds against the payment gateway. It is
// an external collaborator; retries are the caller's decision.
type PaymentProvider interface {
	Refund(ctx context.Context, paymentRef string, amountCents int64) (refundRef string, err error)
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
