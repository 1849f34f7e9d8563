package service

import (
	"context"
	"fmt"

	"stableride-backend/internal/domain"
	"stableride-backend/internal/repository"
)

type refundService struct {
	bookingRepo repository.BookingRepository
	stableRepo  repository.StableRepository
	provider    PaymentProvider
	notifier    Notifier
}

func NewRefundService(
	bookingRepo repository.BookingRepository,
	stableRepo repository.StableRepository,
	provider PaymentProvider,
	notifier Notifier,
) RefundService {
	return &refundService{
		bookingRepo: bookingRepo,
		stableRepo:  stableRepo,
		provider:    provider,
		notifier:    notifier,
	}
}

// refundable reports whether the refund sub-lifecycle is reachable from
// the booking's primary state.
func refundable(b *domain.Booking) bool {
	return b.Status.Active() || b.Status == domain.BookingStatusCompleted
}

func (s *refundService) RequestRefund(ctx context.Context, actor domain.Actor, bookingID int64, reason string) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !refundable(booking) {
		return nil, fmt.Errorf("booking %d is %s: %w", bookingID, booking.Status, domain.ErrInvalidState)
	}
	if booking.RefundStatus != domain.RefundStatusNone {
		return nil, fmt.Errorf("refund already %s: %w", booking.RefundStatus, domain.ErrInvalidState)
	}
	// Only the rider who paid may ask for their money back.
	if actor.UserID != booking.RiderID {
		return nil, fmt.Errorf("only the rider may request a refund: %w", domain.ErrForbidden)
	}

	booking.RefundStatus = domain.RefundStatusRequested
	booking.RefundReason = reason
	if err := s.bookingRepo.Update(ctx, booking); err != nil {
		return nil, err
	}
	return booking, nil
}

// requireOwnerOrAdmin authorises the deciding side of the refund flow.
func (s *refundService) requireOwnerOrAdmin(ctx context.Context, actor domain.Actor, booking *domain.Booking) error {
	stable, err := s.stableRepo.GetByID(ctx, booking.StableID)
	if err != nil {
		return err
	}
	role, err := resolveActorRole(actor, booking, stable)
	if err != nil {
		return err
	}
	if role == domain.ActorRoleRider {
		return fmt.Errorf("riders cannot decide refunds: %w", domain.ErrForbidden)
	}
	return nil
}

func (s *refundService) RejectRefund(ctx context.Context, actor domain.Actor, bookingID int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.RefundStatus != domain.RefundStatusRequested {
		return nil, fmt.Errorf("refund is %s, not requested: %w", booking.RefundStatus, domain.ErrInvalidState)
	}
	if err := s.requireOwnerOrAdmin(ctx, actor, booking); err != nil {
		return nil, err
	}

	booking.RefundStatus = domain.RefundStatusRejected
	if err := s.bookingRepo.Update(ctx, booking); err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *refundService) ProcessRefund(ctx context.Context, actor domain.Actor, bookingID int64, amountCents *int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.RefundStatus != domain.RefundStatusRequested {
		return nil, fmt.Errorf("refund is %s, not requested: %w", booking.RefundStatus, domain.ErrInvalidState)
	}
	if err := s.requireOwnerOrAdmin(ctx, actor, booking); err != nil {
		return nil, err
	}
	if booking.PaymentRef == nil || *booking.PaymentRef == "" {
		return nil, fmt.Errorf("booking %d has no payment reference: %w", bookingID, domain.ErrPreconditionFailed)
	}

	amount := booking.TotalPriceCents
	if amountCents != nil {
		amount = *amountCents
	}
	if amount <= 0 || amount > booking.TotalPriceCents {
		return nil, fmt.Errorf("refund amount %d out of range: %w", amount, domain.ErrValidation)
	}

	// Provider call first: if it fails, no local state is mutated.
	refundRef, err := s.provider.Refund(ctx, *booking.PaymentRef, amount)
	if err != nil {
		return nil, fmt.Errorf("refund execution: %w: %v", domain.ErrExternalDependency, err)
	}

	roleCancelled := domain.ActorRoleOwner
	if actor.IsAdmin() {
		roleCancelled = domain.ActorRoleAdmin
	}

	booking.RefundStatus = domain.RefundStatusProcessed
	booking.RefundAmountCents = amount
	booking.RefundRef = &refundRef
	// A processed refund voids the reservation.
	booking.Status = domain.BookingStatusCancelled
	booking.CancelledBy = &roleCancelled
	if booking.CancellationReason == "" {
		booking.CancellationReason = "refund processed"
	}

	if err := s.bookingRepo.Update(ctx, booking); err != nil {
		return nil, err
	}

	s.notifier.RefundProcessed(ctx, booking)
	return booking, nil
}
