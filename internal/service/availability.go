package service

import (
	"context"
	"time"

	"stableride-backend/internal/domain"
	"stableride-backend/internal/logger"
	"stableride-backend/internal/repository"
)

type availabilityService struct {
	bookingRepo   repository.BookingRepository
	slotRepo      repository.SlotRepository
	minTurnaround time.Duration
}

func NewAvailabilityService(
	bookingRepo repository.BookingRepository,
	slotRepo repository.SlotRepository,
	minTurnaround time.Duration,
) AvailabilityService {
	return &availabilityService{
		bookingRepo:   bookingRepo,
		slotRepo:      slotRepo,
		minTurnaround: minTurnaround,
	}
}

func (s *availabilityService) HasConflict(ctx context.Context, horseID int64, start, end time.Time, excludeBookingID int64) (bool, error) {
	return s.bookingRepo.HasConflict(ctx, horseID,
		start.Add(-s.minTurnaround), end.Add(s.minTurnaround), excludeBookingID)
}

func (s *availabilityService) DeduplicateSlots(ctx context.Context, horseID *int64) (int64, error) {
	slots, err := s.slotRepo.ListOrdered(ctx, horseID)
	if err != nil {
		return 0, err
	}

	victims := nearDuplicateSlotIDs(slots)
	if len(victims) == 0 {
		return 0, nil
	}

	deleted, err := s.slotRepo.DeleteByIDs(ctx, victims)
	if err != nil {
		return 0, err
	}
	logger.Info("Deduplicated availability slots", "deleted", deleted)
	return deleted, nil
}

// slotGroup identifies the dedup scope of a slot: a horse, or the whole
// stable for stable-wide slots. Slots in different groups never merge.
type slotGroup struct {
	horseID    int64
	stableID   int64
	stableWide bool
}

func groupOf(s *domain.AvailabilitySlot) slotGroup {
	if s.HorseID == nil {
		return slotGroup{stableID: s.StableID, stableWide: true}
	}
	return slotGroup{horseID: *s.HorseID}
}

// nearDuplicateSlotIDs walks slots sorted by start time within each group
// and returns the ids to delete. The last-kept slot is tracked per group,
// so groups interleaved in the input stream stay independent. Within a
// group, any two surviving slots end up more than SlotDedupWindow apart,
// which makes a second pass a no-op. Tie-break per pair: keep the booked
// one, else keep the one on a clean minute boundary, else keep the
// earlier-encountered one.
func nearDuplicateSlotIDs(slots []domain.AvailabilitySlot) []int64 {
	var victims []int64
	kept := make(map[slotGroup]*domain.AvailabilitySlot)

	for i := range slots {
		cur := &slots[i]
		g := groupOf(cur)
		prev := kept[g]
		if prev == nil || cur.StartTime.Sub(prev.StartTime) > domain.SlotDedupWindow {
			kept[g] = cur
			continue
		}

		// cur is a near-duplicate of prev: pick the survivor.
		keepCur := false
		switch {
		case cur.IsBooked != prev.IsBooked:
			keepCur = cur.IsBooked
		case cur.Clean() != prev.Clean():
			keepCur = cur.Clean()
		}
		if keepCur {
			victims = append(victims, prev.ID)
			kept[g] = cur
		} else {
			victims = append(victims, cur.ID)
		}
	}
	return victims
}
