package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"stableride-backend/internal/domain"
	"stableride-backend/internal/service"
)

func newAvailabilityFixture(turnaround time.Duration) (*MockBookingRepo, *MockSlotRepo, service.AvailabilityService) {
	bookingRepo := new(MockBookingRepo)
	slotRepo := new(MockSlotRepo)
	svc := service.NewAvailabilityService(bookingRepo, slotRepo, turnaround)
	return bookingRepo, slotRepo, svc
}

func horseSlot(id int64, horseID int64, start time.Time, booked bool) domain.AvailabilitySlot {
	return domain.AvailabilitySlot{ID: id, StableID: 3, HorseID: &horseID, StartTime: start, IsBooked: booked}
}

func TestAvailabilityService_HasConflict(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	t.Run("Window Widened By Turnaround", func(t *testing.T) {
		bookingRepo, _, svc := newAvailabilityFixture(30 * time.Minute)
		bookingRepo.On("HasConflict", ctx, int64(7),
			start.Add(-30*time.Minute), end.Add(30*time.Minute), int64(0)).Return(true, nil)

		conflict, err := svc.HasConflict(ctx, 7, start, end, 0)
		assert.NoError(t, err)
		assert.True(t, conflict)
	})

	t.Run("Zero Turnaround Uses Window As Is", func(t *testing.T) {
		bookingRepo, _, svc := newAvailabilityFixture(0)
		bookingRepo.On("HasConflict", ctx, int64(7), start, end, int64(5)).Return(false, nil)

		conflict, err := svc.HasConflict(ctx, 7, start, end, 5)
		assert.NoError(t, err)
		assert.False(t, conflict)
	})
}

func TestAvailabilityService_DeduplicateSlots(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)

	t.Run("Near Duplicates Removed Within Sixty Seconds", func(t *testing.T) {
		_, slotRepo, svc := newAvailabilityFixture(0)
		slots := []domain.AvailabilitySlot{
			horseSlot(1, 7, base, false),
			horseSlot(2, 7, base.Add(30*time.Second), false),
			horseSlot(3, 7, base.Add(45*time.Second), false),
			horseSlot(4, 7, base.Add(5*time.Minute), false),
		}
		slotRepo.On("ListOrdered", ctx, (*int64)(nil)).Return(slots, nil)
		slotRepo.On("DeleteByIDs", ctx, []int64{2, 3}).Return(int64(2), nil)

		removed, err := svc.DeduplicateSlots(ctx, nil)
		assert.NoError(t, err)
		assert.Equal(t, int64(2), removed)
	})

	t.Run("Booked Slot Wins The Tie", func(t *testing.T) {
		_, slotRepo, svc := newAvailabilityFixture(0)
		slots := []domain.AvailabilitySlot{
			horseSlot(1, 7, base, false),
			horseSlot(2, 7, base.Add(20*time.Second), true),
		}
		slotRepo.On("ListOrdered", ctx, (*int64)(nil)).Return(slots, nil)
		slotRepo.On("DeleteByIDs", ctx, []int64{1}).Return(int64(1), nil)

		removed, err := svc.DeduplicateSlots(ctx, nil)
		assert.NoError(t, err)
		assert.Equal(t, int64(1), removed)
	})

	t.Run("Clean Timestamp Wins Over Ragged", func(t *testing.T) {
		_, slotRepo, svc := newAvailabilityFixture(0)
		slots := []domain.AvailabilitySlot{
			horseSlot(1, 7, base.Add(17*time.Second), false),
			horseSlot(2, 7, base.Add(time.Minute), false),
		}
		slotRepo.On("ListOrdered", ctx, (*int64)(nil)).Return(slots, nil)
		slotRepo.On("DeleteByIDs", ctx, []int64{1}).Return(int64(1), nil)

		removed, err := svc.DeduplicateSlots(ctx, nil)
		assert.NoError(t, err)
		assert.Equal(t, int64(1), removed)
	})

	t.Run("Different Horses Never Merge", func(t *testing.T) {
		_, slotRepo, svc := newAvailabilityFixture(0)
		slots := []domain.AvailabilitySlot{
			horseSlot(1, 7, base, false),
			horseSlot(2, 8, base.Add(10*time.Second), false),
		}
		slotRepo.On("ListOrdered", ctx, (*int64)(nil)).Return(slots, nil)

		removed, err := svc.DeduplicateSlots(ctx, nil)
		assert.NoError(t, err)
		assert.Equal(t, int64(0), removed)
		slotRepo.AssertNotCalled(t, "DeleteByIDs", mock.Anything, mock.Anything)
	})

	t.Run("Interleaved Stable Wide Slots Still Merge", func(t *testing.T) {
		_, slotRepo, svc := newAvailabilityFixture(0)
		stableSlot := func(id, stableID int64, start time.Time) domain.AvailabilitySlot {
			return domain.AvailabilitySlot{ID: id, StableID: stableID, StartTime: start}
		}
		// A slot of another stable sits between two near-duplicates of
		// stable 1 in the time-ordered stream.
		slots := []domain.AvailabilitySlot{
			stableSlot(1, 1, base),
			stableSlot(2, 2, base.Add(5*time.Second)),
			stableSlot(3, 1, base.Add(10*time.Second)),
		}
		slotRepo.On("ListOrdered", ctx, (*int64)(nil)).Return(slots, nil)
		slotRepo.On("DeleteByIDs", ctx, []int64{3}).Return(int64(1), nil)

		removed, err := svc.DeduplicateSlots(ctx, nil)
		assert.NoError(t, err)
		assert.Equal(t, int64(1), removed)
	})

	t.Run("Idempotent Second Pass", func(t *testing.T) {
		_, slotRepo, svc := newAvailabilityFixture(0)
		// Survivors of the first pass: more than a minute apart.
		slots := []domain.AvailabilitySlot{
			horseSlot(1, 7, base, false),
			horseSlot(4, 7, base.Add(5*time.Minute), false),
		}
		slotRepo.On("ListOrdered", ctx, (*int64)(nil)).Return(slots, nil)

		removed, err := svc.DeduplicateSlots(ctx, nil)
		assert.NoError(t, err)
		assert.Equal(t, int64(0), removed)
	})
}
