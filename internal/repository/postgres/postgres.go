package postgres

import (
	"database/sql"

	"stableride-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.BookingRepository
	repository.SlotRepository
	repository.HorseRepository
	repository.StableRepository
	repository.UserRepository
	repository.ScoreRepository
	repository.LeagueRepository
	repository.NotificationRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                     db,
		BookingRepository:      NewBookingRepository(db),
		SlotRepository:         NewSlotRepository(db),
		HorseRepository:        NewHorseRepository(db),
		StableRepository:       NewStableRepository(db),
		UserRepository:         NewUserRepository(db),
		ScoreRepository:        NewScoreRepository(db),
		LeagueRepository:       NewLeagueRepository(db),
		NotificationRepository: NewNotificationRepository(db),
	}
}
