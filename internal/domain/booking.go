package domain

import "time"

type BookingStatus string

const (
	BookingStatusConfirmed   BookingStatus = "CONFIRMED"
	BookingStatusRescheduled BookingStatus = "RESCHEDULED"
	BookingStatusCancelled   BookingStatus = "CANCELLED"
	BookingStatusCompleted   BookingStatus = "COMPLETED"
)

// Active reports whether the booking still occupies its time window.
// RESCHEDULED is a confirmed-equivalent state: it is conflict-checked,
// cancellable and refundable exactly like CONFIRMED.
func (s BookingStatus) Active() bool {
	return s == BookingStatusConfirmed || s == BookingStatusRescheduled
}

// Terminal reports whether no further lifecycle transition is allowed.
func (s BookingStatus) Terminal() bool {
	return s == BookingStatusCancelled || s == BookingStatusCompleted
}

// ActiveBookingStatuses is the single definition of the "still occupies
// the slot" status class used by every conflict query.
func ActiveBookingStatuses() []BookingStatus {
	return []BookingStatus{BookingStatusConfirmed, BookingStatusRescheduled}
}

type RefundStatus string

const (
	RefundStatusNone      RefundStatus = "NONE"
	RefundStatusRequested RefundStatus = "REQUESTED"
	RefundStatusRejected  RefundStatus = "REJECTED"
	RefundStatusProcessed RefundStatus = "PROCESSED"
)

type Booking struct {
	ID              int64         `json:"id"`
	RiderID         int64         `json:"rider_id"`
	StableID        int64         `json:"stable_id"`
	HorseID         int64         `json:"horse_id"`
	StartTime       time.Time     `json:"start_time"`
	EndTime         time.Time     `json:"end_time"`
	TotalPriceCents int64         `json:"total_price_cents"`
	CommissionCents int64         `json:"commission_cents"`
	Status          BookingStatus `json:"status"`

	CancellationReason string     `json:"cancellation_reason,omitempty"`
	CancelledBy        *ActorRole `json:"cancelled_by,omitempty"`

	IsRescheduled   bool       `json:"is_rescheduled"`
	RescheduledFrom *time.Time `json:"rescheduled_from,omitempty"`
	RescheduledTo   *time.Time `json:"rescheduled_to,omitempty"`

	RefundStatus      RefundStatus `json:"refund_status"`
	RefundAmountCents int64        `json:"refund_amount_cents,omitempty"`
	RefundReason      string       `json:"refund_reason,omitempty"`
	PaymentRef        *string      `json:"payment_ref,omitempty"`
	RefundRef         *string      `json:"refund_ref,omitempty"`

	CreatedOn time.Time `json:"created_on"`
	UpdatedOn time.Time `json:"updated_on"`
}

// DurationHours returns the booked duration in fractional hours,
// the unit prices are quoted in.
func (b *Booking) DurationHours() float64 {
	return b.EndTime.Sub(b.StartTime).Hours()
}
