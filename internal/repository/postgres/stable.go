package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"stableride-backend/internal/domain"
	"stableride-backend/internal/repository"
)

type stableRepository struct {
	db *sql.DB
}

func NewStableRepository(db *sql.DB) repository.StableRepository {
	return &stableRepository{db: db}
}

func (r *stableRepository) GetByID(ctx context.Context, id int64) (*domain.Stable, error) {
	s := &domain.Stable{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, owner_id, name, status, commission_rate
		 FROM stables WHERE id = $1`, id,
	).Scan(&s.ID, &s.OwnerID, &s.Name, &s.Status, &s.CommissionRate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("stable %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}
