package domain

import "time"

// PassThreshold is the minimum RPS counted as a passed ride.
const PassThreshold = 7

// RiderReview is the stable owner's assessment of a completed ride.
// One per booking, write-once.
type RiderReview struct {
	ID        int64 `json:"id"`
	BookingID int64 `json:"booking_id"`
	RiderID   int64 `json:"rider_id"`
	// RidingSkillLevel is the RPS, 1..10.
	RidingSkillLevel int `json:"riding_skill_level"`
	// BehaviorRating is 1..5 and has no effect on rank points.
	BehaviorRating int       `json:"behavior_rating"`
	Comment        string    `json:"comment,omitempty"`
	CreatedOn      time.Time `json:"created_on"`
}

// RideResult is the append-only scoring record, created exactly once
// per booking. Its existence guards against re-scoring.
type RideResult struct {
	ID           int64     `json:"id"`
	BookingID    int64     `json:"booking_id"`
	RiderID      int64     `json:"rider_id"`
	HorseID      int64     `json:"horse_id"`
	StableID     int64     `json:"stable_id"`
	RPS          int       `json:"rps"`
	PointsChange int64     `json:"points_change"`
	CreatedOn    time.Time `json:"created_on"`
}
