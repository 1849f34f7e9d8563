package domain

import "time"

// Division is one of the seven ordered league tiers.
type Division string

const (
	DivisionWood     Division = "wood"
	DivisionBronze   Division = "bronze"
	DivisionSilver   Division = "silver"
	DivisionGold     Division = "gold"
	DivisionPlatinum Division = "platinum"
	DivisionElite    Division = "elite"
	DivisionChampion Division = "champion"
)

// Divisions lists every division from lowest to highest.
var Divisions = []Division{
	DivisionWood,
	DivisionBronze,
	DivisionSilver,
	DivisionGold,
	DivisionPlatinum,
	DivisionElite,
	DivisionChampion,
}

// DivisionRank returns the ordinal of a division (wood = 0) and whether
// the name is known.
func DivisionRank(d Division) (int, bool) {
	for i, div := range Divisions {
		if div == d {
			return i, true
		}
	}
	return 0, false
}

// NextDivision returns the division one tier above d. ok is false for
// champion (nothing above) and for unknown names.
func NextDivision(d Division) (Division, bool) {
	rank, known := DivisionRank(d)
	if !known || rank == len(Divisions)-1 {
		return "", false
	}
	return Divisions[rank+1], true
}

type LeagueStatus string

const (
	LeagueStatusActive LeagueStatus = "ACTIVE"
	LeagueStatusEnded  LeagueStatus = "ENDED"
)

// LeagueWindow is the lifetime of a lazily created league instance.
const LeagueWindow = 14 * 24 * time.Hour

// League is a time-boxed cohort of riders within one division. At most
// one active league per division may cover any instant.
type League struct {
	ID        int64        `json:"id"`
	Division  Division     `json:"division"`
	StartDate time.Time    `json:"start_date"`
	EndDate   time.Time    `json:"end_date"`
	Status    LeagueStatus `json:"status"`
}

// PromotedCount is how many top riders move up when a league ends.
const PromotedCount = 3

// LeagueStanding is the archival snapshot written for every member at
// promotion time. Never mutated after creation.
type LeagueStanding struct {
	ID         int64     `json:"id"`
	LeagueID   int64     `json:"league_id"`
	RiderID    int64     `json:"rider_id"`
	RankPoints int64     `json:"rank_points"`
	FinalRank  int       `json:"final_rank"`
	Promoted   bool      `json:"promoted"`
	CreatedOn  time.Time `json:"created_on"`
}

// LeagueMember is a rider's membership row in a league instance.
// users.current_league_id is a denormalized pointer to the same fact;
// the repair job reconciles the two when they drift.
type LeagueMember struct {
	LeagueID int64    `json:"league_id"`
	RiderID  int64    `json:"rider_id"`
	Division Division `json:"division"`
}
