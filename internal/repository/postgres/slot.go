package postgres

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"stableride-backend/internal/domain"
	"stableride-backend/internal/repository"
)

type slotRepository struct {
	db *sql.DB
}

func NewSlotRepository(db *sql.DB) repository.SlotRepository {
	return &slotRepository{db: db}
}

func (r *slotRepository) Create(ctx context.Context, s *domain.AvailabilitySlot) error {
	return r.db.QueryRowContext(ctx,
		`INSERT INTO availability_slots (stable_id, horse_id, start_time, is_booked)
		 VALUES ($1, $2, $3, $4) RETURNING id, created_on`,
		s.StableID, s.HorseID, s.StartTime, s.IsBooked,
	).Scan(&s.ID, &s.CreatedOn)
}

func (r *slotRepository) ListOrdered(ctx context.Context, horseID *int64) ([]domain.AvailabilitySlot, error) {
	query := `SELECT id, stable_id, horse_id, start_time, is_booked, created_on
	          FROM availability_slots`
	args := []any{}
	if horseID != nil {
		query += ` WHERE horse_id = $1`
		args = append(args, *horseID)
	}
	query += ` ORDER BY horse_id NULLS FIRST, start_time, id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slots []domain.AvailabilitySlot
	for rows.Next() {
		var s domain.AvailabilitySlot
		if err := rows.Scan(&s.ID, &s.StableID, &s.HorseID, &s.StartTime, &s.IsBooked, &s.CreatedOn); err != nil {
			return nil, err
		}
		slots = append(slots, s)
	}
	return slots, rows.Err()
}

func (r *slotRepository) DeleteByIDs(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM availability_slots WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
