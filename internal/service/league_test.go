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

func newLeagueFixture() (*MockLeagueRepo, *MockUserRepo, service.LeagueService) {
	leagueRepo := new(MockLeagueRepo)
	userRepo := new(MockUserRepo)
	svc := service.NewLeagueService(leagueRepo, userRepo)
	return leagueRepo, userRepo, svc
}

func TestLeagueService_CurrentLeague(t *testing.T) {
	ctx := context.Background()

	t.Run("Existing League Returned", func(t *testing.T) {
		leagueRepo, _, svc := newLeagueFixture()
		existing := &domain.League{ID: 1, Division: domain.DivisionWood, Status: domain.LeagueStatusActive}
		leagueRepo.On("ActiveByDivision", ctx, domain.DivisionWood, mock.AnythingOfType("time.Time")).Return(existing, nil)

		league, err := svc.CurrentLeague(ctx, domain.DivisionWood)
		assert.NoError(t, err)
		assert.Equal(t, int64(1), league.ID)
		leagueRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Lazily Creates Fourteen Day League", func(t *testing.T) {
		leagueRepo, _, svc := newLeagueFixture()
		leagueRepo.On("ActiveByDivision", ctx, domain.DivisionSilver, mock.AnythingOfType("time.Time")).Return(nil, domain.ErrNotFound)
		leagueRepo.On("Create", ctx, mock.AnythingOfType("*domain.League")).Run(func(args mock.Arguments) {
			l := args.Get(1).(*domain.League)
			l.ID = 42
		}).Return(nil)

		league, err := svc.CurrentLeague(ctx, domain.DivisionSilver)
		assert.NoError(t, err)
		assert.Equal(t, int64(42), league.ID)
		assert.Equal(t, domain.LeagueStatusActive, league.Status)
		assert.Equal(t, 14*24*time.Hour, league.EndDate.Sub(league.StartDate))
	})

	t.Run("Unknown Division Rejected", func(t *testing.T) {
		_, _, svc := newLeagueFixture()
		_, err := svc.CurrentLeague(ctx, domain.Division("clay"))
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestLeagueService_PromoteLeague(t *testing.T) {
	ctx := context.Background()
	admin := domain.Actor{UserID: 99, Role: domain.ActorRoleAdmin}

	t.Run("Top Three Promoted", func(t *testing.T) {
		leagueRepo, _, svc := newLeagueFixture()
		source := &domain.League{ID: 1, Division: domain.DivisionWood, Status: domain.LeagueStatusActive}
		leagueRepo.On("GetByID", ctx, int64(1)).Return(source, nil)
		leagueRepo.On("ListMembers", ctx, int64(1)).Return([]domain.User{
			{ID: 10, RankPoints: 400},
			{ID: 11, RankPoints: 300},
			{ID: 12, RankPoints: 200},
			{ID: 13, RankPoints: 100},
		}, nil)
		target := &domain.League{ID: 2, Division: domain.DivisionBronze, Status: domain.LeagueStatusActive}
		leagueRepo.On("ActiveByDivision", ctx, domain.DivisionBronze, mock.AnythingOfType("time.Time")).Return(target, nil)
		leagueRepo.On("Promote", ctx, int64(1), mock.AnythingOfType("[]domain.LeagueStanding"),
			[]int64{10, 11, 12}, int64(2)).Return(nil)

		result, err := svc.PromoteLeague(ctx, admin, 1)
		assert.NoError(t, err)
		assert.Equal(t, []int64{10, 11, 12}, result.PromotedRiderIDs)
		assert.Equal(t, int64(2), result.NextLeagueID)
		assert.Equal(t, 4, result.StandingsWritten)

		var standings []domain.LeagueStanding
		for _, call := range leagueRepo.Calls {
			if call.Method == "Promote" {
				standings = call.Arguments.Get(2).([]domain.LeagueStanding)
			}
		}
		assert.Len(t, standings, 4)
		assert.True(t, standings[0].Promoted)
		assert.True(t, standings[2].Promoted)
		assert.False(t, standings[3].Promoted)
		assert.Equal(t, 1, standings[0].FinalRank)
		assert.Equal(t, 4, standings[3].FinalRank)
	})

	t.Run("Champion Division Has No Target", func(t *testing.T) {
		leagueRepo, _, svc := newLeagueFixture()
		source := &domain.League{ID: 9, Division: domain.DivisionChampion, Status: domain.LeagueStatusActive}
		leagueRepo.On("GetByID", ctx, int64(9)).Return(source, nil)
		leagueRepo.On("ListMembers", ctx, int64(9)).Return([]domain.User{
			{ID: 10, RankPoints: 2000},
			{ID: 11, RankPoints: 1900},
		}, nil)
		leagueRepo.On("Promote", ctx, int64(9), mock.AnythingOfType("[]domain.LeagueStanding"),
			[]int64(nil), int64(0)).Return(nil)

		result, err := svc.PromoteLeague(ctx, admin, 9)
		assert.NoError(t, err)
		assert.Empty(t, result.PromotedRiderIDs)
		assert.Equal(t, 2, result.StandingsWritten)
	})

	t.Run("Ended League Rejected", func(t *testing.T) {
		leagueRepo, _, svc := newLeagueFixture()
		ended := &domain.League{ID: 1, Division: domain.DivisionWood, Status: domain.LeagueStatusEnded}
		leagueRepo.On("GetByID", ctx, int64(1)).Return(ended, nil)

		_, err := svc.PromoteLeague(ctx, admin, 1)
		assert.ErrorIs(t, err, domain.ErrInvalidState)
	})

	t.Run("Admin Only", func(t *testing.T) {
		_, _, svc := newLeagueFixture()
		owner := domain.Actor{UserID: 20, Role: domain.ActorRoleOwner}
		_, err := svc.PromoteLeague(ctx, owner, 1)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}

func TestLeagueService_EnsureMembership(t *testing.T) {
	ctx := context.Background()

	t.Run("Active Membership Left Alone", func(t *testing.T) {
		leagueRepo, userRepo, svc := newLeagueFixture()
		current := int64(5)
		userRepo.On("GetByID", ctx, int64(1)).Return(&domain.User{ID: 1, CurrentLeagueID: &current}, nil)
		leagueRepo.On("GetByID", ctx, int64(5)).Return(&domain.League{ID: 5, Status: domain.LeagueStatusActive}, nil)

		err := svc.EnsureMembership(ctx, 1)
		assert.NoError(t, err)
		leagueRepo.AssertNotCalled(t, "AddMember", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Unplaced Rider Joins Wood", func(t *testing.T) {
		leagueRepo, userRepo, svc := newLeagueFixture()
		userRepo.On("GetByID", ctx, int64(1)).Return(&domain.User{ID: 1}, nil)
		wood := &domain.League{ID: 7, Division: domain.DivisionWood, Status: domain.LeagueStatusActive}
		leagueRepo.On("ActiveByDivision", ctx, domain.DivisionWood, mock.AnythingOfType("time.Time")).Return(wood, nil)
		leagueRepo.On("AddMember", ctx, int64(7), int64(1)).Return(nil)

		err := svc.EnsureMembership(ctx, 1)
		assert.NoError(t, err)
		leagueRepo.AssertCalled(t, "AddMember", ctx, int64(7), int64(1))
	})

	t.Run("Ended League Triggers Reenrolment", func(t *testing.T) {
		leagueRepo, userRepo, svc := newLeagueFixture()
		stale := int64(5)
		userRepo.On("GetByID", ctx, int64(1)).Return(&domain.User{ID: 1, CurrentLeagueID: &stale}, nil)
		leagueRepo.On("GetByID", ctx, int64(5)).Return(&domain.League{ID: 5, Status: domain.LeagueStatusEnded}, nil)
		wood := &domain.League{ID: 7, Division: domain.DivisionWood, Status: domain.LeagueStatusActive}
		leagueRepo.On("ActiveByDivision", ctx, domain.DivisionWood, mock.AnythingOfType("time.Time")).Return(wood, nil)
		leagueRepo.On("AddMember", ctx, int64(7), int64(1)).Return(nil)

		err := svc.EnsureMembership(ctx, 1)
		assert.NoError(t, err)
	})
}

func TestLeagueService_RepairMemberships(t *testing.T) {
	ctx := context.Background()

	t.Run("Keeps Highest Division", func(t *testing.T) {
		leagueRepo, _, svc := newLeagueFixture()
		leagueRepo.On("ListDriftMemberships", ctx).Return([]domain.LeagueMember{
			{LeagueID: 1, RiderID: 10, Division: domain.DivisionWood},
			{LeagueID: 2, RiderID: 10, Division: domain.DivisionBronze},
		}, nil)
		leagueRepo.On("RemoveMember", ctx, int64(1), int64(10)).Return(nil)
		keep := int64(2)
		leagueRepo.On("SetCurrentLeague", ctx, int64(10), &keep).Return(nil)

		removed, err := svc.RepairMemberships(ctx)
		assert.NoError(t, err)
		assert.Equal(t, int64(1), removed)
		leagueRepo.AssertCalled(t, "RemoveMember", ctx, int64(1), int64(10))
		leagueRepo.AssertNotCalled(t, "RemoveMember", ctx, int64(2), int64(10))
	})

	t.Run("No Drift Is A NoOp", func(t *testing.T) {
		leagueRepo, _, svc := newLeagueFixture()
		leagueRepo.On("ListDriftMemberships", ctx).Return([]domain.LeagueMember{}, nil)

		removed, err := svc.RepairMemberships(ctx)
		assert.NoError(t, err)
		assert.Equal(t, int64(0), removed)
	})
}
