// Package rating implements the competitive payoff matrix. It is pure:
// no I/O, no clock, no storage. Persistence of outcomes lives in the
// scoring service.
package rating

import "stableride-backend/internal/domain"

// Rank point boundaries between rider tiers.
const (
	intermediateFloor = 1301
	advancedFloor     = 1701
)

// TierForPoints maps rank points to the rider's tier.
// Beginner < 1301 <= Intermediate <= 1700 < 1701 <= Advanced.
func TierForPoints(points int64) domain.Tier {
	switch {
	case points < intermediateFloor:
		return domain.TierBeginner
	case points < advancedFloor:
		return domain.TierIntermediate
	default:
		return domain.TierAdvanced
	}
}

// Passed reports whether an RPS counts as a passed ride.
func Passed(rps int) bool {
	return rps >= domain.PassThreshold
}

// payoff is the 3x3x2 matrix keyed by rider tier, then horse tier.
// Cell layout: [pass, fail]. Riding below tier shrinks or inverts the
// reward even on success; riding above tier pays out on success and
// softens the failure penalty.
var payoff = map[domain.Tier]map[domain.Tier][2]int64{
	domain.TierBeginner: {
		domain.TierBeginner:     {15, -10},
		domain.TierIntermediate: {30, -5},
		domain.TierAdvanced:     {70, 0},
	},
	domain.TierIntermediate: {
		domain.TierBeginner:     {-20, -40},
		domain.TierIntermediate: {20, -15},
		domain.TierAdvanced:     {50, -10},
	},
	domain.TierAdvanced: {
		domain.TierBeginner:     {-50, -80},
		domain.TierIntermediate: {-10, -30},
		domain.TierAdvanced:     {25, -20},
	},
}

// Delta looks up the point change for one ride outcome.
func Delta(riderTier, horseTier domain.Tier, pass bool) int64 {
	cell := payoff[riderTier][horseTier]
	if pass {
		return cell[0]
	}
	return cell[1]
}

// Outcome is the result of applying one scored ride to a rider.
type Outcome struct {
	Delta     int64
	Pass      bool
	OldPoints int64
	NewPoints int64
	NewTier   domain.Tier
}

// Score computes the full outcome of a ride: the delta from the matrix,
// the floored new point total, and the tier recomputed from it. A single
// ride can move a rider across a tier boundary.
func Score(oldPoints int64, horseTier domain.Tier, rps int) Outcome {
	pass := Passed(rps)
	delta := Delta(TierForPoints(oldPoints), horseTier, pass)
	newPoints := oldPoints + delta
	if newPoints < 0 {
		newPoints = 0
	}
	return Outcome{
		Delta:     delta,
		Pass:      pass,
		OldPoints: oldPoints,
		NewPoints: newPoints,
		NewTier:   TierForPoints(newPoints),
	}
}
