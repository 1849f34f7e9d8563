package domain

import "time"

// SlotDedupWindow is the span within which two availability slots for
// the same horse are considered near-duplicates and must be merged.
const SlotDedupWindow = 60 * time.Second

// AvailabilitySlot is an explicit, owner-defined bookable unit. It is
// an optional overlay; ad-hoc bookings do not require one. A nil
// HorseID means the slot applies to the whole stable.
type AvailabilitySlot struct {
	ID        int64     `json:"id"`
	StableID  int64     `json:"stable_id"`
	HorseID   *int64    `json:"horse_id,omitempty"`
	StartTime time.Time `json:"start_time"`
	IsBooked  bool      `json:"is_booked"`
	CreatedOn time.Time `json:"created_on"`
}

// Clean reports whether the slot's timestamp lands exactly on a minute
// boundary. Clean slots win dedup ties against hand-entered ones.
func (s *AvailabilitySlot) Clean() bool {
	return s.StartTime.Second() == 0 && s.StartTime.Nanosecond() == 0
}
