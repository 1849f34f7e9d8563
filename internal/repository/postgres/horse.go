package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"stableride-backend/internal/domain"
	"stableride-backend/internal/repository"
)

type horseRepository struct {
	db *sql.DB
}

func NewHorseRepository(db *sql.DB) repository.HorseRepository {
	return &horseRepository{db: db}
}

func (r *horseRepository) GetByID(ctx context.Context, id int64) (*domain.Horse, error) {
	h := &domain.Horse{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, stable_id, name, admin_tier, price_per_hour_cents, is_active
		 FROM horses WHERE id = $1`, id,
	).Scan(&h.ID, &h.StableID, &h.Name, &h.AdminTier, &h.PricePerHourCents, &h.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("horse %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return h, nil
}
