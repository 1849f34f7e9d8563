package domain

// Tier classifies both horses (admin-assigned difficulty) and riders
// (derived from rank points). The payoff matrix is keyed by the pair.
type Tier string

const (
	TierBeginner     Tier = "BEGINNER"
	TierIntermediate Tier = "INTERMEDIATE"
	TierAdvanced     Tier = "ADVANCED"
)

// DefaultPricePerHourCents is the fallback hourly rate for horses
// whose owners never set a price.
const DefaultPricePerHourCents int64 = 50000

type Horse struct {
	ID       int64  `json:"id"`
	StableID int64  `json:"stable_id"`
	Name     string `json:"name"`
	// AdminTier is set exclusively by a platform administrator and is
	// immutable by stable owners. An untiered horse cannot produce a
	// scored ride.
	AdminTier         *Tier `json:"admin_tier,omitempty"`
	PricePerHourCents int64 `json:"price_per_hour_cents"`
	IsActive          bool  `json:"is_active"`
}

// HourlyRate returns the configured price or the platform default.
func (h *Horse) HourlyRate() int64 {
	if h.PricePerHourCents > 0 {
		return h.PricePerHourCents
	}
	return DefaultPricePerHourCents
}
