package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"stableride-backend/internal/domain"
	"stableride-backend/internal/repository"
)

type leagueRepository struct {
	db *sql.DB
}

func NewLeagueRepository(db *sql.DB) repository.LeagueRepository {
	return &leagueRepository{db: db}
}

func scanLeague(row interface{ Scan(...any) error }) (*domain.League, error) {
	l := &domain.League{}
	if err := row.Scan(&l.ID, &l.Division, &l.StartDate, &l.EndDate, &l.Status); err != nil {
		return nil, err
	}
	return l, nil
}

func (r *leagueRepository) GetByID(ctx context.Context, id int64) (*domain.League, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, division, start_date, end_date, status FROM leagues WHERE id = $1`, id)
	l, err := scanLeague(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("league %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (r *leagueRepository) ActiveByDivision(ctx context.Context, division domain.Division, at time.Time) (*domain.League, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, division, start_date, end_date, status FROM leagues
		 WHERE division = $1 AND status = $2 AND start_date <= $3 AND end_date >= $3
		 ORDER BY start_date DESC LIMIT 1`,
		division, domain.LeagueStatusActive, at)
	l, err := scanLeague(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("active %s league: %w", division, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (r *leagueRepository) ListActiveEndedBefore(ctx context.Context, cutoff time.Time) ([]domain.League, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, division, start_date, end_date, status FROM leagues
		 WHERE status = $1 AND end_date < $2 ORDER BY end_date`,
		domain.LeagueStatusActive, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leagues []domain.League
	for rows.Next() {
		l, err := scanLeague(rows)
		if err != nil {
			return nil, err
		}
		leagues = append(leagues, *l)
	}
	return leagues, rows.Err()
}

func (r *leagueRepository) Create(ctx context.Context, l *domain.League) error {
	return r.db.QueryRowContext(ctx,
		`INSERT INTO leagues (division, start_date, end_date, status)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		l.Division, l.StartDate, l.EndDate, l.Status,
	).Scan(&l.ID)
}

func (r *leagueRepository) ListMembers(ctx context.Context, leagueID int64) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT u.id, u.name, u.email, u.rank_points, u.current_league_id, u.device_token, u.created_on
		 FROM users u JOIN league_members m ON m.rider_id = u.id
		 WHERE m.league_id = $1
		 ORDER BY u.rank_points DESC, u.id`, leagueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (r *leagueRepository) AddMember(ctx context.Context, leagueID, riderID int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO league_members (league_id, rider_id) VALUES ($1, $2)
		 ON CONFLICT DO NOTHING`, leagueID, riderID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE users SET current_league_id = $1 WHERE id = $2`, leagueID, riderID); err != nil {
		return err
	}
	return tx.Commit()
}

// Promote is the single atomic unit of the promotion operation: all
// standings, the top riders' relocation and the source league's
// termination commit together or not at all.
func (r *leagueRepository) Promote(ctx context.Context, sourceID int64, standings []domain.LeagueStanding, promotedRiderIDs []int64, targetID int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for i := range standings {
		s := &standings[i]
		err := tx.QueryRowContext(ctx,
			`INSERT INTO league_standings (league_id, rider_id, rank_points, final_rank, promoted)
			 VALUES ($1, $2, $3, $4, $5) RETURNING id, created_on`,
			s.LeagueID, s.RiderID, s.RankPoints, s.FinalRank, s.Promoted,
		).Scan(&s.ID, &s.CreatedOn)
		if err != nil {
			return err
		}
	}

	if len(promotedRiderIDs) > 0 {
		if _, err := tx.ExecContext(ctx,
			`UPDATE league_members SET league_id = $1
			 WHERE league_id = $2 AND rider_id = ANY($3)`,
			targetID, sourceID, pq.Array(promotedRiderIDs)); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE users SET current_league_id = $1 WHERE id = ANY($2)`,
			targetID, pq.Array(promotedRiderIDs)); err != nil {
			return err
		}
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE leagues SET status = $1 WHERE id = $2 AND status = $3`,
		domain.LeagueStatusEnded, sourceID, domain.LeagueStatusActive)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("league %d not active: %w", sourceID, domain.ErrInvalidState)
	}

	return tx.Commit()
}

func (r *leagueRepository) ListStandings(ctx context.Context, leagueID int64) ([]domain.LeagueStanding, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, league_id, rider_id, rank_points, final_rank, promoted, created_on
		 FROM league_standings WHERE league_id = $1 ORDER BY final_rank`, leagueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var standings []domain.LeagueStanding
	for rows.Next() {
		var s domain.LeagueStanding
		if err := rows.Scan(&s.ID, &s.LeagueID, &s.RiderID, &s.RankPoints, &s.FinalRank, &s.Promoted, &s.CreatedOn); err != nil {
			return nil, err
		}
		standings = append(standings, s)
	}
	return standings, rows.Err()
}

func (r *leagueRepository) ListDriftMemberships(ctx context.Context) ([]domain.LeagueMember, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT m.league_id, m.rider_id, l.division
		 FROM league_members m
		 JOIN leagues l ON l.id = m.league_id AND l.status = $1
		 WHERE m.rider_id IN (
			SELECT m2.rider_id FROM league_members m2
			JOIN leagues l2 ON l2.id = m2.league_id AND l2.status = $1
			GROUP BY m2.rider_id HAVING COUNT(*) > 1
		 )
		 ORDER BY m.rider_id, m.league_id`, domain.LeagueStatusActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []domain.LeagueMember
	for rows.Next() {
		var m domain.LeagueMember
		if err := rows.Scan(&m.LeagueID, &m.RiderID, &m.Division); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (r *leagueRepository) RemoveMember(ctx context.Context, leagueID, riderID int64) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM league_members WHERE league_id = $1 AND rider_id = $2`, leagueID, riderID)
	return err
}

func (r *leagueRepository) SetCurrentLeague(ctx context.Context, riderID int64, leagueID *int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET current_league_id = $1 WHERE id = $2`, leagueID, riderID)
	return err
}
