package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"stableride-backend/internal/domain"
	"stableride-backend/internal/repository"
)

const bookingColumns = `id, rider_id, stable_id, horse_id, start_time, end_time,
	total_price_cents, commission_cents, status, cancellation_reason, cancelled_by,
	is_rescheduled, rescheduled_from, rescheduled_to,
	refund_status, refund_amount_cents, refund_reason, payment_ref, refund_ref,
	created_on, updated_on`

type bookingRepository struct {
	db  *sql.DB
	psq sq.StatementBuilderType
}

func NewBookingRepository(db *sql.DB) repository.BookingRepository {
	return &bookingRepository{
		db:  db,
		psq: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func scanBooking(row interface{ Scan(...any) error }) (*domain.Booking, error) {
	b := &domain.Booking{}
	err := row.Scan(
		&b.ID, &b.RiderID, &b.StableID, &b.HorseID, &b.StartTime, &b.EndTime,
		&b.TotalPriceCents, &b.CommissionCents, &b.Status, &b.CancellationReason, &b.CancelledBy,
		&b.IsRescheduled, &b.RescheduledFrom, &b.RescheduledTo,
		&b.RefundStatus, &b.RefundAmountCents, &b.RefundReason, &b.PaymentRef, &b.RefundRef,
		&b.CreatedOn, &b.UpdatedOn,
	)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// countOverlapping runs the closed-interval conflict query inside the
// caller's transaction. Touching endpoints count as conflicting.
func countOverlapping(ctx context.Context, tx *sql.Tx, horseID int64, start, end time.Time, excludeID int64) (int, error) {
	var count int
	err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings
		 WHERE horse_id = $1 AND id <> $2
		   AND status IN ($3, $4)
		   AND start_time <= $5 AND end_time >= $6`,
		horseID, excludeID,
		domain.BookingStatusConfirmed, domain.BookingStatusRescheduled,
		end, start,
	).Scan(&count)
	return count, err
}

// lockHorse serialises bookings per horse for the duration of the
// transaction, closing the read-check-then-write race.
func lockHorse(ctx context.Context, tx *sql.Tx, horseID int64) error {
	var id int64
	err := tx.QueryRowContext(ctx, `SELECT id FROM horses WHERE id = $1 FOR UPDATE`, horseID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("horse %d: %w", horseID, domain.ErrNotFound)
	}
	return err
}

func (r *bookingRepository) CreateIfAvailable(ctx context.Context, b *domain.Booking, checkStart, checkEnd time.Time) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := lockHorse(ctx, tx, b.HorseID); err != nil {
		return err
	}

	count, err := countOverlapping(ctx, tx, b.HorseID, checkStart, checkEnd, 0)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("horse %d already booked in window: %w", b.HorseID, domain.ErrConflict)
	}

	err = tx.QueryRowContext(ctx,
		`INSERT INTO bookings (rider_id, stable_id, horse_id, start_time, end_time,
			total_price_cents, commission_cents, status, refund_status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id, created_on, updated_on`,
		b.RiderID, b.StableID, b.HorseID, b.StartTime, b.EndTime,
		b.TotalPriceCents, b.CommissionCents, b.Status, b.RefundStatus,
	).Scan(&b.ID, &b.CreatedOn, &b.UpdatedOn)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *bookingRepository) RescheduleIfAvailable(ctx context.Context, b *domain.Booking, checkStart, checkEnd time.Time) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := lockHorse(ctx, tx, b.HorseID); err != nil {
		return err
	}

	count, err := countOverlapping(ctx, tx, b.HorseID, checkStart, checkEnd, b.ID)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("horse %d already booked in window: %w", b.HorseID, domain.ErrConflict)
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE bookings SET start_time = $1, end_time = $2,
			total_price_cents = $3, commission_cents = $4, status = $5,
			is_rescheduled = TRUE, rescheduled_from = $6, rescheduled_to = $7,
			updated_on = now()
		 WHERE id = $8`,
		b.StartTime, b.EndTime, b.TotalPriceCents, b.CommissionCents, b.Status,
		b.RescheduledFrom, b.RescheduledTo, b.ID,
	)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("booking %d: %w", b.ID, domain.ErrNotFound)
	}

	return tx.Commit()
}

func (r *bookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id)
	b, err := scanBooking(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("booking %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *bookingRepository) Update(ctx context.Context, b *domain.Booking) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE bookings SET status = $1, cancellation_reason = $2, cancelled_by = $3,
			refund_status = $4, refund_amount_cents = $5, refund_reason = $6,
			payment_ref = $7, refund_ref = $8, updated_on = now()
		 WHERE id = $9`,
		b.Status, b.CancellationReason, b.CancelledBy,
		b.RefundStatus, b.RefundAmountCents, b.RefundReason,
		b.PaymentRef, b.RefundRef, b.ID,
	)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("booking %d: %w", b.ID, domain.ErrNotFound)
	}
	return nil
}

func (r *bookingRepository) HasConflict(ctx context.Context, horseID int64, start, end time.Time, excludeBookingID int64) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings
		 WHERE horse_id = $1 AND id <> $2
		   AND status IN ($3, $4)
		   AND start_time <= $5 AND end_time >= $6`,
		horseID, excludeBookingID,
		domain.BookingStatusConfirmed, domain.BookingStatusRescheduled,
		end, start,
	).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *bookingRepository) ListByRider(ctx context.Context, riderID int64, status domain.BookingStatus, page, pageSize int64) ([]domain.Booking, int64, error) {
	return r.list(ctx, sq.Eq{"rider_id": riderID}, status, page, pageSize)
}

func (r *bookingRepository) ListByStable(ctx context.Context, stableID int64, status domain.BookingStatus, page, pageSize int64) ([]domain.Booking, int64, error) {
	return r.list(ctx, sq.Eq{"stable_id": stableID}, status, page, pageSize)
}

func (r *bookingRepository) list(ctx context.Context, filter sq.Eq, status domain.BookingStatus, page, pageSize int64) ([]domain.Booking, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if status != "" {
		filter["status"] = status
	}

	countQuery, countArgs, err := r.psq.Select("COUNT(*)").From("bookings").Where(filter).ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total int64
	if err := r.db.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query, args, err := r.psq.Select(bookingColumns).
		From("bookings").
		Where(filter).
		OrderBy("start_time DESC").
		Limit(uint64(pageSize)).
		Offset(uint64((page - 1) * pageSize)).
		ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, 0, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, total, rows.Err()
}
