package service

import (
	"context"
	"fmt"
	"strconv"

	"stableride-backend/internal/domain"
	"stableride-backend/internal/logger"
	"stableride-backend/internal/repository"
)

// notifier fans a booking event out to email, push and the in-app
// notification feed. Every channel is best effort: a failed lookup or
// send is logged and the rest of the channels still run.
type notifier struct {
	userRepo   repository.UserRepository
	horseRepo  repository.HorseRepository
	stableRepo repository.StableRepository
	noteRepo   repository.NotificationRepository
	email      EmailService
	push       PushService
}

func NewNotifier(
	userRepo repository.UserRepository,
	horseRepo repository.HorseRepository,
	stableRepo repository.StableRepository,
	noteRepo repository.NotificationRepository,
	email EmailService,
	push PushService,
) Notifier {
	return &notifier{
		userRepo:   userRepo,
		horseRepo:  horseRepo,
		stableRepo: stableRepo,
		noteRepo:   noteRepo,
		email:      email,
		push:       push,
	}
}

type bookingContext struct {
	rider *domain.User
	horse *domain.Horse
}

func (n *notifier) load(ctx context.Context, booking *domain.Booking) (*bookingContext, bool) {
	rider, err := n.userRepo.GetByID(ctx, booking.RiderID)
	if err != nil {
		logger.Error("Notification lookup failed", "booking_id", booking.ID, "rider_id", booking.RiderID, "error", err)
		return nil, false
	}
	horse, err := n.horseRepo.GetByID(ctx, booking.HorseID)
	if err != nil {
		logger.Error("Notification lookup failed", "booking_id", booking.ID, "horse_id", booking.HorseID, "error", err)
		return nil, false
	}
	return &bookingContext{rider: rider, horse: horse}, true
}

func (n *notifier) record(ctx context.Context, userID int64, title, message string, booking *domain.Booking) {
	note := &domain.Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
		Attributes: map[string]string{
			"booking_id": strconv.FormatInt(booking.ID, 10),
			"horse_id":   strconv.FormatInt(booking.HorseID, 10),
		},
	}
	if err := n.noteRepo.Create(ctx, note); err != nil {
		logger.Error("Failed to record notification", "user_id", userID, "title", title, "error", err)
	}
}

func (n *notifier) pushTo(ctx context.Context, user *domain.User, title, body string, booking *domain.Booking) {
	if user.DeviceToken == nil || *user.DeviceToken == "" {
		return
	}
	err := n.push.Send(ctx, *user.DeviceToken, title, body, map[string]string{
		"booking_id": strconv.FormatInt(booking.ID, 10),
	})
	logger.ExternalServiceResult("push", "send", err)
}

func (n *notifier) BookingConfirmed(ctx context.Context, booking *domain.Booking) {
	bc, ok := n.load(ctx, booking)
	if !ok {
		return
	}
	err := n.email.SendBookingConfirmation(ctx, bc.rider.Email, bc.rider.Name, bc.horse.Name, booking.StartTime, booking.EndTime)
	logger.ExternalServiceResult("sendgrid", "booking_confirmation", err)

	msg := fmt.Sprintf("Your ride on %s is confirmed for %s.", bc.horse.Name, booking.StartTime.Format("Jan 2 15:04"))
	n.pushTo(ctx, bc.rider, "Booking confirmed", msg, booking)
	n.record(ctx, bc.rider.ID, "Booking confirmed", msg, booking)
}

func (n *notifier) BookingRescheduled(ctx context.Context, booking *domain.Booking, by domain.ActorRole) {
	bc, ok := n.load(ctx, booking)
	if !ok {
		return
	}
	err := n.email.SendBookingRescheduled(ctx, bc.rider.Email, bc.rider.Name, bc.horse.Name, booking.StartTime, booking.EndTime)
	logger.ExternalServiceResult("sendgrid", "booking_rescheduled", err)

	msg := fmt.Sprintf("Your ride on %s was moved to %s by the %s.", bc.horse.Name, booking.StartTime.Format("Jan 2 15:04"), by)
	n.pushTo(ctx, bc.rider, "Booking rescheduled", msg, booking)
	n.record(ctx, bc.rider.ID, "Booking rescheduled", msg, booking)
}

// BookingCancelled notifies both sides so neither shows up for a ride
// the other party called off.
func (n *notifier) BookingCancelled(ctx context.Context, booking *domain.Booking, by domain.ActorRole) {
	bc, ok := n.load(ctx, booking)
	if !ok {
		return
	}

	msg := fmt.Sprintf("The ride on %s scheduled for %s was cancelled by the %s.",
		bc.horse.Name, booking.StartTime.Format("Jan 2 15:04"), by)

	err := n.email.SendBookingCancelled(ctx, bc.rider.Email, bc.rider.Name, bc.horse.Name, booking.CancellationReason)
	logger.ExternalServiceResult("sendgrid", "booking_cancelled", err)
	n.pushTo(ctx, bc.rider, "Booking cancelled", msg, booking)
	n.record(ctx, bc.rider.ID, "Booking cancelled", msg, booking)

	stable, err := n.stableRepo.GetByID(ctx, booking.StableID)
	if err != nil {
		logger.Error("Notification lookup failed", "booking_id", booking.ID, "stable_id", booking.StableID, "error", err)
		return
	}
	owner, err := n.userRepo.GetByID(ctx, stable.OwnerID)
	if err != nil {
		logger.Error("Notification lookup failed", "booking_id", booking.ID, "owner_id", stable.OwnerID, "error", err)
		return
	}
	err = n.email.SendBookingCancelled(ctx, owner.Email, owner.Name, bc.horse.Name, booking.CancellationReason)
	logger.ExternalServiceResult("sendgrid", "booking_cancelled", err)
	n.pushTo(ctx, owner, "Booking cancelled", msg, booking)
	n.record(ctx, owner.ID, "Booking cancelled", msg, booking)
}

func (n *notifier) RefundProcessed(ctx context.Context, booking *domain.Booking) {
	bc, ok := n.load(ctx, booking)
	if !ok {
		return
	}
	err := n.email.SendRefundProcessed(ctx, bc.rider.Email, bc.rider.Name, booking.RefundAmountCents)
	logger.ExternalServiceResult("sendgrid", "refund_processed", err)

	msg := fmt.Sprintf("Your refund of $%.2f for the ride on %s was processed.",
		float64(booking.RefundAmountCents)/100, bc.horse.Name)
	n.pushTo(ctx, bc.rider, "Refund processed", msg, booking)
	n.record(ctx, bc.rider.ID, "Refund processed", msg, booking)
}
