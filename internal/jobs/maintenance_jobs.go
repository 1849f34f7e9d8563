package jobs

import (
	"context"
	"time"

	"stableride-backend/internal/domain"
	"stableride-backend/internal/logger"
)

// systemActor is the identity background jobs act under.
var systemActor = domain.Actor{UserID: 0, Role: domain.ActorRoleAdmin}

// DeduplicateSlots removes near-duplicate availability slots across all
// horses.
func (jr *JobRunner) DeduplicateSlots() {
	jr.runWithRecovery("DeduplicateSlots", func() error {
		ctx := context.Background()
		removed, err := jr.services.Availability.DeduplicateSlots(ctx, nil)
		if err != nil {
			return err
		}
		logger.Info("Deduplicated availability slots", "removed", removed)
		return nil
	})
}

// RotateLeagues promotes every active league whose window has closed.
// One failed league does not stop the sweep.
func (jr *JobRunner) RotateLeagues() {
	jr.runWithRecovery("RotateLeagues", func() error {
		ctx := context.Background()
		expired, err := jr.store.ListActiveEndedBefore(ctx, time.Now())
		if err != nil {
			return err
		}

		for _, league := range expired {
			result, err := jr.services.League.PromoteLeague(ctx, systemActor, league.ID)
			if err != nil {
				logger.Error("Failed to rotate league", "league_id", league.ID,
					"division", league.Division, "error", err)
				continue
			}
			logger.Info("Rotated league", "league_id", league.ID, "division", league.Division,
				"promoted", len(result.PromotedRiderIDs))
		}
		logger.Info("League rotation sweep finished", "expired", len(expired))
		return nil
	})
}

// RepairLeagueMemberships reconciles riders holding more than one active
// league membership.
func (jr *JobRunner) RepairLeagueMemberships() {
	jr.runWithRecovery("RepairLeagueMemberships", func() error {
		ctx := context.Background()
		removed, err := jr.services.League.RepairMemberships(ctx)
		if err != nil {
			return err
		}
		logger.Info("Repaired league memberships", "removed", removed)
		return nil
	})
}
