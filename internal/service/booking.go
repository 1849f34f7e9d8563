package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"stableride-backend/internal/domain"
	"stableride-backend/internal/repository"
)

type bookingService struct {
	bookingRepo repository.BookingRepository
	horseRepo   repository.HorseRepository
	stableRepo  repository.StableRepository
	userRepo    repository.UserRepository
	notifier    Notifier
	// minTurnaround widens the conflict window between rides. Zero keeps
	// the closed-interval policy: touching endpoints still conflict.
	minTurnaround time.Duration
	now           func() time.Time
}

func NewBookingService(
	bookingRepo repository.BookingRepository,
	horseRepo repository.HorseRepository,
	stableRepo repository.StableRepository,
	userRepo repository.UserRepository,
	notifier Notifier,
	minTurnaround time.Duration,
) BookingService {
	return &bookingService{
		bookingRepo:   bookingRepo,
		horseRepo:     horseRepo,
		stableRepo:    stableRepo,
		userRepo:      userRepo,
		notifier:      notifier,
		minTurnaround: minTurnaround,
		now:           time.Now,
	}
}

// resolveActorRole derives who the actor is relative to the booking.
// Every transition uses this one function so cancel and reschedule
// cannot diverge, and callers can never spoof who acted.
func resolveActorRole(actor domain.Actor, booking *domain.Booking, stable *domain.Stable) (domain.ActorRole, error) {
	switch {
	case actor.IsAdmin():
		return domain.ActorRoleAdmin, nil
	case actor.UserID == booking.RiderID:
		return domain.ActorRoleRider, nil
	case stable != nil && actor.UserID == stable.OwnerID:
		return domain.ActorRoleOwner, nil
	default:
		return "", fmt.Errorf("user %d has no role on booking %d: %w", actor.UserID, booking.ID, domain.ErrForbidden)
	}
}

// priceFor computes the booking price and the platform commission for a
// window on a horse. Commission uses the stable's rate or the default.
func priceFor(horse *domain.Horse, stable *domain.Stable, start, end time.Time) (totalCents, commissionCents int64) {
	hours := end.Sub(start).Hours()
	totalCents = int64(math.Round(hours * float64(horse.HourlyRate())))
	commissionCents = stable.CommissionFor(totalCents)
	return totalCents, commissionCents
}

// conflictWindow widens the requested window by the turnaround buffer.
// The repository's overlap test is closed-interval, so with a zero
// buffer touching endpoints already conflict.
func (s *bookingService) conflictWindow(start, end time.Time) (time.Time, time.Time) {
	return start.Add(-s.minTurnaround), end.Add(s.minTurnaround)
}

func validateWindow(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return fmt.Errorf("start and end are required: %w", domain.ErrValidation)
	}
	if !end.After(start) {
		return fmt.Errorf("end must be after start: %w", domain.ErrValidation)
	}
	return nil
}

// checkBookable verifies stable approval and horse state for any
// booking creation path.
func (s *bookingService) checkBookable(ctx context.Context, stableID, horseID int64) (*domain.Horse, *domain.Stable, error) {
	stable, err := s.stableRepo.GetByID(ctx, stableID)
	if err != nil {
		return nil, nil, err
	}
	if stable.Status != domain.StableStatusApproved {
		return nil, nil, fmt.Errorf("stable %d is not approved: %w", stableID, domain.ErrPreconditionFailed)
	}
	horse, err := s.horseRepo.GetByID(ctx, horseID)
	if err != nil {
		return nil, nil, err
	}
	if horse.StableID != stableID {
		return nil, nil, fmt.Errorf("horse %d does not belong to stable %d: %w", horseID, stableID, domain.ErrValidation)
	}
	if !horse.IsActive {
		return nil, nil, fmt.Errorf("horse %d is not active: %w", horseID, domain.ErrPreconditionFailed)
	}
	return horse, stable, nil
}

func (s *bookingService) CreateBooking(ctx context.Context, actor domain.Actor, stableID, horseID int64, start, end time.Time) (*domain.Booking, error) {
	if err := validateWindow(start, end); err != nil {
		return nil, err
	}
	if start.Before(s.now()) {
		return nil, fmt.Errorf("start is in the past: %w", domain.ErrValidation)
	}

	horse, stable, err := s.checkBookable(ctx, stableID, horseID)
	if err != nil {
		return nil, err
	}

	total, commission := priceFor(horse, stable, start, end)
	booking := &domain.Booking{
		RiderID:         actor.UserID,
		StableID:        stableID,
		HorseID:         horseID,
		StartTime:       start,
		EndTime:         end,
		TotalPriceCents: total,
		CommissionCents: commission,
		Status:          domain.BookingStatusConfirmed,
		RefundStatus:    domain.RefundStatusNone,
	}

	checkStart, checkEnd := s.conflictWindow(start, end)
	if err := s.bookingRepo.CreateIfAvailable(ctx, booking, checkStart, checkEnd); err != nil {
		return nil, err
	}

	s.notifier.BookingConfirmed(ctx, booking)
	return booking, nil
}

func (s *bookingService) CreateWalkInBooking(ctx context.Context, actor domain.Actor, riderEmail string, stableID, horseID int64, start, end time.Time) (*domain.Booking, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("walk-in bookings are admin-only: %w", domain.ErrForbidden)
	}
	if err := validateWindow(start, end); err != nil {
		return nil, err
	}
	// No past-start check: walk-ins record rides that already happened.

	rider, err := s.userRepo.GetByEmail(ctx, riderEmail)
	if err != nil {
		return nil, err
	}
	horse, stable, err := s.checkBookable(ctx, stableID, horseID)
	if err != nil {
		return nil, err
	}

	total, commission := priceFor(horse, stable, start, end)
	booking := &domain.Booking{
		RiderID:         rider.ID,
		StableID:        stableID,
		HorseID:         horseID,
		StartTime:       start,
		EndTime:         end,
		TotalPriceCents: total,
		CommissionCents: commission,
		Status:          domain.BookingStatusCompleted,
		RefundStatus:    domain.RefundStatusNone,
	}

	checkStart, checkEnd := s.conflictWindow(start, end)
	if err := s.bookingRepo.CreateIfAvailable(ctx, booking, checkStart, checkEnd); err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *bookingService) RescheduleBooking(ctx context.Context, actor domain.Actor, bookingID int64, newStart, newEnd time.Time) (*domain.Booking, error) {
	if err := validateWindow(newStart, newEnd); err != nil {
		return nil, err
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status.Terminal() {
		return nil, fmt.Errorf("booking %d is %s: %w", bookingID, booking.Status, domain.ErrInvalidState)
	}

	stable, err := s.stableRepo.GetByID(ctx, booking.StableID)
	if err != nil {
		return nil, err
	}
	role, err := resolveActorRole(actor, booking, stable)
	if err != nil {
		return nil, err
	}

	horse, err := s.horseRepo.GetByID(ctx, booking.HorseID)
	if err != nil {
		return nil, err
	}
	if !horse.IsActive {
		return nil, fmt.Errorf("horse %d is not active: %w", horse.ID, domain.ErrPreconditionFailed)
	}

	oldStart := booking.StartTime
	total, commission := priceFor(horse, stable, newStart, newEnd)

	booking.StartTime = newStart
	booking.EndTime = newEnd
	booking.TotalPriceCents = total
	booking.CommissionCents = commission
	booking.Status = domain.BookingStatusRescheduled
	booking.IsRescheduled = true
	booking.RescheduledFrom = &oldStart
	booking.RescheduledTo = &newStart

	checkStart, checkEnd := s.conflictWindow(newStart, newEnd)
	if err := s.bookingRepo.RescheduleIfAvailable(ctx, booking, checkStart, checkEnd); err != nil {
		return nil, err
	}

	// The rider already knows about their own reschedule.
	if role != domain.ActorRoleRider {
		s.notifier.BookingRescheduled(ctx, booking, role)
	}
	return booking, nil
}

func (s *bookingService) CancelBooking(ctx context.Context, actor domain.Actor, bookingID int64, reason string) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status == domain.BookingStatusCancelled {
		return nil, fmt.Errorf("booking %d is already cancelled: %w", bookingID, domain.ErrInvalidState)
	}
	if booking.Status == domain.BookingStatusCompleted {
		return nil, fmt.Errorf("booking %d is completed: %w", bookingID, domain.ErrInvalidState)
	}

	stable, err := s.stableRepo.GetByID(ctx, booking.StableID)
	if err != nil {
		return nil, err
	}
	role, err := resolveActorRole(actor, booking, stable)
	if err != nil {
		return nil, err
	}

	booking.Status = domain.BookingStatusCancelled
	booking.CancellationReason = reason
	booking.CancelledBy = &role

	if err := s.bookingRepo.Update(ctx, booking); err != nil {
		return nil, err
	}

	s.notifier.BookingCancelled(ctx, booking, role)
	return booking, nil
}

func (s *bookingService) CompleteBooking(ctx context.Context, actor domain.Actor, bookingID int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !booking.Status.Active() {
		return nil, fmt.Errorf("booking %d is %s: %w", bookingID, booking.Status, domain.ErrInvalidState)
	}

	stable, err := s.stableRepo.GetByID(ctx, booking.StableID)
	if err != nil {
		return nil, err
	}
	role, err := resolveActorRole(actor, booking, stable)
	if err != nil {
		return nil, err
	}
	if role == domain.ActorRoleRider {
		return nil, fmt.Errorf("riders cannot complete their own booking: %w", domain.ErrForbidden)
	}

	booking.Status = domain.BookingStatusCompleted
	if err := s.bookingRepo.Update(ctx, booking); err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *bookingService) GetBooking(ctx context.Context, actor domain.Actor, bookingID int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	stable, err := s.stableRepo.GetByID(ctx, booking.StableID)
	if err != nil {
		return nil, err
	}
	if _, err := resolveActorRole(actor, booking, stable); err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *bookingService) ListRiderBookings(ctx context.Context, actor domain.Actor, riderID int64, status domain.BookingStatus, page, pageSize int64) ([]domain.Booking, int64, error) {
	if actor.UserID != riderID && !actor.IsAdmin() {
		return nil, 0, fmt.Errorf("cannot list another rider's bookings: %w", domain.ErrForbidden)
	}
	return s.bookingRepo.ListByRider(ctx, riderID, status, page, pageSize)
}

func (s *bookingService) ListStableBookings(ctx context.Context, actor domain.Actor, stableID int64, status domain.BookingStatus, page, pageSize int64) ([]domain.Booking, int64, error) {
	if !actor.IsAdmin() {
		stable, err := s.stableRepo.GetByID(ctx, stableID)
		if err != nil {
			return nil, 0, err
		}
		if stable.OwnerID != actor.UserID {
			return nil, 0, fmt.Errorf("not the stable owner: %w", domain.ErrForbidden)
		}
	}
	return s.bookingRepo.ListByStable(ctx, stableID, status, page, pageSize)
}
