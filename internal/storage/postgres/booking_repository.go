package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xDbibix/Better-Ticketmaster/internal/domain"
)

type BookingRepository struct {
	pool *pgxpool.Pool
}

func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{pool: pool}
}

const bookingColumns = `id, consumer_id, event_id, seat_ids, total_price, status, expiry`

func scanBooking(row pgx.Row) (domain.Booking, error) {
	var b domain.Booking
	var status string
	err := row.Scan(&b.ID, &b.ConsumerID, &b.EventID, &b.SeatIDs, &b.TotalPrice, &status, &b.Expiry)
	if err != nil {
		return domain.Booking{}, err
	}
	b.Status = domain.BookingStatus(status)
	return b, nil
}

func (r *BookingRepository) CreateBooking(ctx context.Context, b domain.Booking) error {
	_, err := db(ctx, r.pool).Exec(ctx, `
INSERT INTO bookings (id, consumer_id, event_id, seat_ids, total_price, status, expiry)
VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		b.ID, b.ConsumerID, b.EventID, b.SeatIDs, b.TotalPrice, string(b.Status), b.Expiry)
	if err != nil {
		return fmt.Errorf("create booking: %w", err)
	}
	return nil
}

func (r *BookingRepository) GetBooking(ctx context.Context, id string) (domain.Booking, error) {
	row := db(ctx, r.pool).QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id)
	booking, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidUUID(err) {
			return domain.Booking{}, domain.ErrBookingNotFound
		}
		return domain.Booking{}, fmt.Errorf("get booking: %w", err)
	}
	return booking, nil
}

func (r *BookingRepository) UpdateBooking(ctx context.Context, b domain.Booking) error {
	tag, err := db(ctx, r.pool).Exec(ctx, `
UPDATE bookings
SET status = $1, expiry = $2
WHERE id = $3`,
		string(b.Status), b.Expiry, b.ID)
	if err != nil {
		return fmt.Errorf("update booking: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBookingNotFound
	}
	return nil
}

func (r *BookingRepository) ListBookingsByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	rows, err := db(ctx, r.pool).Query(ctx, `
SELECT `+bookingColumns+`
FROM bookings
WHERE consumer_id = $1
ORDER BY id`, userID)
	if err != nil {
		if isInvalidUUID(err) {
			return []domain.Booking{}, nil
		}
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, booking)
	}
	return bookings, rows.Err()
}

func (r *BookingRepository) DeleteBookingsByEvent(ctx context.Context, eventID string) error {
	if _, err := db(ctx, r.pool).Exec(ctx, `DELETE FROM bookings WHERE event_id = $1`, eventID); err != nil {
		return fmt.Errorf("delete bookings: %w", err)
	}
	return nil
}
