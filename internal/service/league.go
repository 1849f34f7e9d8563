package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"stableride-backend/internal/domain"
	"stableride-backend/internal/logger"
	"stableride-backend/internal/repository"
)

type leagueService struct {
	leagueRepo repository.LeagueRepository
	userRepo   repository.UserRepository
	now        func() time.Time
}

func NewLeagueService(leagueRepo repository.LeagueRepository, userRepo repository.UserRepository) LeagueService {
	return &leagueService{
		leagueRepo: leagueRepo,
		userRepo:   userRepo,
		now:        time.Now,
	}
}

// activeOrCreate returns the division's league covering now, creating a
// fresh 14-day instance when none exists. Applied to every division, not
// only the lowest: promotion into an idle division must not wedge.
func (s *leagueService) activeOrCreate(ctx context.Context, division domain.Division) (*domain.League, error) {
	if _, known := domain.DivisionRank(division); !known {
		return nil, fmt.Errorf("unknown division %q: %w", division, domain.ErrValidation)
	}

	now := s.now()
	league, err := s.leagueRepo.ActiveByDivision(ctx, division, now)
	if err == nil {
		return league, nil
	}
	if !isNotFound(err) {
		return nil, err
	}

	league = &domain.League{
		Division:  division,
		StartDate: now,
		EndDate:   now.Add(domain.LeagueWindow),
		Status:    domain.LeagueStatusActive,
	}
	if err := s.leagueRepo.Create(ctx, league); err != nil {
		return nil, err
	}
	logger.Info("Created league", "division", division, "league_id", league.ID, "ends", league.EndDate)
	return league, nil
}

func (s *leagueService) CurrentLeague(ctx context.Context, division domain.Division) (*domain.League, error) {
	return s.activeOrCreate(ctx, division)
}

func (s *leagueService) PromoteLeague(ctx context.Context, actor domain.Actor, leagueID int64) (*PromotionResult, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("league promotion is admin-only: %w", domain.ErrForbidden)
	}

	league, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	if league.Status != domain.LeagueStatusActive {
		return nil, fmt.Errorf("league %d is %s: %w", leagueID, league.Status, domain.ErrInvalidState)
	}

	members, err := s.leagueRepo.ListMembers(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	// Repo orders by points already; re-sort defensively is not needed,
	// but stable rank assignment is: ties break by user id.
	sort.SliceStable(members, func(i, j int) bool {
		if members[i].RankPoints != members[j].RankPoints {
			return members[i].RankPoints > members[j].RankPoints
		}
		return members[i].ID < members[j].ID
	})

	next, hasNext := domain.NextDivision(league.Division)

	var promotedIDs []int64
	standings := make([]domain.LeagueStanding, 0, len(members))
	for i, m := range members {
		promoted := hasNext && i < domain.PromotedCount
		standings = append(standings, domain.LeagueStanding{
			LeagueID:   leagueID,
			RiderID:    m.ID,
			RankPoints: m.RankPoints,
			FinalRank:  i + 1,
			Promoted:   promoted,
		})
		if promoted {
			promotedIDs = append(promotedIDs, m.ID)
		}
	}

	var targetID int64
	if hasNext && len(promotedIDs) > 0 {
		target, err := s.activeOrCreate(ctx, next)
		if err != nil {
			return nil, err
		}
		targetID = target.ID
	}

	if err := s.leagueRepo.Promote(ctx, leagueID, standings, promotedIDs, targetID); err != nil {
		return nil, err
	}

	logger.Info("League promoted", "league_id", leagueID, "division", league.Division,
		"promoted", len(promotedIDs), "standings", len(standings))
	return &PromotionResult{
		LeagueID:         leagueID,
		PromotedRiderIDs: promotedIDs,
		NextLeagueID:     targetID,
		StandingsWritten: len(standings),
	}, nil
}

func (s *leagueService) Standings(ctx context.Context, leagueID int64) ([]domain.LeagueStanding, error) {
	if _, err := s.leagueRepo.GetByID(ctx, leagueID); err != nil {
		return nil, err
	}
	return s.leagueRepo.ListStandings(ctx, leagueID)
}

func (s *leagueService) EnsureMembership(ctx context.Context, riderID int64) error {
	rider, err := s.userRepo.GetByID(ctx, riderID)
	if err != nil {
		return err
	}
	if rider.CurrentLeagueID != nil {
		league, err := s.leagueRepo.GetByID(ctx, *rider.CurrentLeagueID)
		if err == nil && league.Status == domain.LeagueStatusActive {
			return nil
		}
		if err != nil && !isNotFound(err) {
			return err
		}
	}

	entry, err := s.activeOrCreate(ctx, domain.Divisions[0])
	if err != nil {
		return err
	}
	return s.leagueRepo.AddMember(ctx, entry.ID, riderID)
}

// RepairMemberships removes drifted duplicate memberships: a rider in
// several active leagues keeps only the highest-ranked division.
func (s *leagueService) RepairMemberships(ctx context.Context) (int64, error) {
	drift, err := s.leagueRepo.ListDriftMemberships(ctx)
	if err != nil {
		return 0, err
	}
	if len(drift) == 0 {
		return 0, nil
	}

	byRider := make(map[int64][]domain.LeagueMember)
	for _, m := range drift {
		byRider[m.RiderID] = append(byRider[m.RiderID], m)
	}

	var removed int64
	for riderID, memberships := range byRider {
		best := memberships[0]
		for _, m := range memberships[1:] {
			bestRank, _ := domain.DivisionRank(best.Division)
			rank, _ := domain.DivisionRank(m.Division)
			if rank > bestRank {
				best = m
			}
		}
		for _, m := range memberships {
			if m.LeagueID == best.LeagueID {
				continue
			}
			if err := s.leagueRepo.RemoveMember(ctx, m.LeagueID, riderID); err != nil {
				return removed, err
			}
			removed++
		}
		keep := best.LeagueID
		if err := s.leagueRepo.SetCurrentLeague(ctx, riderID, &keep); err != nil {
			return removed, err
		}
	}

	logger.Info("Repaired league memberships", "removed", removed, "riders", len(byRider))
	return removed, nil
}
