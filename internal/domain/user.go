package domain

import "time"

// ActorRole identifies who performed a lifecycle transition. It is
// always derived from the authenticated actor against the booking,
// never taken from a caller-supplied flag.
type ActorRole string

const (
	ActorRoleRider ActorRole = "RIDER"
	ActorRoleOwner ActorRole = "OWNER"
	ActorRoleAdmin ActorRole = "ADMIN"
)

// Actor is the authenticated identity attached to a request.
type Actor struct {
	UserID int64
	Role   ActorRole
}

func (a Actor) IsAdmin() bool { return a.Role == ActorRoleAdmin }

type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	// RankPoints is the rider's competitive score, floored at zero.
	RankPoints      int64     `json:"rank_points"`
	CurrentLeagueID *int64    `json:"current_league_id,omitempty"`
	DeviceToken     *string   `json:"-"`
	CreatedOn       time.Time `json:"created_on"`
}
