package domain

import "math"

type StableStatus string

const (
	StableStatusPending   StableStatus = "PENDING"
	StableStatusApproved  StableStatus = "APPROVED"
	StableStatusSuspended StableStatus = "SUSPENDED"
)

// DefaultCommissionRate applies when a stable has no negotiated rate.
const DefaultCommissionRate = 0.15

type Stable struct {
	ID      int64        `json:"id"`
	OwnerID int64        `json:"owner_id"`
	Name    string       `json:"name"`
	Status  StableStatus `json:"status"`
	// CommissionRate is the platform's cut as a fraction of the booking
	// price. Nil means the default rate.
	CommissionRate *float64 `json:"commission_rate,omitempty"`
}

// EffectiveCommissionRate returns the stable's rate or the default.
func (s *Stable) EffectiveCommissionRate() float64 {
	if s.CommissionRate != nil {
		return *s.CommissionRate
	}
	return DefaultCommissionRate
}

// CommissionFor computes the platform commission in cents for a booking
// price, rounded to the nearest cent.
func (s *Stable) CommissionFor(totalPriceCents int64) int64 {
	return int64(math.Round(float64(totalPriceCents) * s.EffectiveCommissionRate()))
}
