package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xDbibix/Better-Ticketmaster/internal/domain"
)

// SeatRepository persists seats with an optimistic version token. Every
// update is conditioned on the version the caller read; a stale version
// fails the write with domain.ErrVersionConflict instead of overwriting.
type SeatRepository struct {
	pool *pgxpool.Pool
}

func NewSeatRepository(pool *pgxpool.Pool) *SeatRepository {
	return &SeatRepository{pool: pool}
}

const seatColumns = `id, event_id, section, row_label, seat_num, price, status, hold_until, version`

func scanSeat(row pgx.Row) (domain.Seat, error) {
	var s domain.Seat
	var status string
	err := row.Scan(&s.ID, &s.EventID, &s.Section, &s.Row, &s.SeatNum, &s.Price, &status, &s.HoldUntil, &s.Version)
	if err != nil {
		return domain.Seat{}, err
	}
	s.Status = domain.SeatStatus(status)
	return s, nil
}

func (r *SeatRepository) GetSeat(ctx context.Context, id string) (domain.Seat, error) {
	row := db(ctx, r.pool).QueryRow(ctx, `SELECT `+seatColumns+` FROM seats WHERE id = $1`, id)
	seat, err := scanSeat(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidUUID(err) {
			return domain.Seat{}, domain.ErrSeatNotFound
		}
		return domain.Seat{}, fmt.Errorf("get seat: %w", err)
	}
	return seat, nil
}

func (r *SeatRepository) ListSeatsByEvent(ctx context.Context, eventID string) ([]domain.Seat, error) {
	rows, err := db(ctx, r.pool).Query(ctx, `
SELECT `+seatColumns+`
FROM seats
WHERE event_id = $1
ORDER BY section, row_label, seat_num`, eventID)
	if err != nil {
		if isInvalidUUID(err) {
			return []domain.Seat{}, nil
		}
		return nil, fmt.Errorf("list seats: %w", err)
	}
	defer rows.Close()

	seats := make([]domain.Seat, 0)
	for rows.Next() {
		seat, err := scanSeat(rows)
		if err != nil {
			return nil, fmt.Errorf("scan seat: %w", err)
		}
		seats = append(seats, seat)
	}
	return seats, rows.Err()
}

// UpdateSeat writes the seat only if the stored version still equals
// expectedVersion, bumping the version in the same statement. Zero rows
// touched means either the seat vanished or someone else won the race.
func (r *SeatRepository) UpdateSeat(ctx context.Context, seat domain.Seat, expectedVersion int64) (domain.Seat, error) {
	row := db(ctx, r.pool).QueryRow(ctx, `
UPDATE seats
SET status = $1, hold_until = $2, price = $3, version = version + 1
WHERE id = $4 AND version = $5
RETURNING `+seatColumns, string(seat.Status), seat.HoldUntil, seat.Price, seat.ID, expectedVersion)

	updated, err := scanSeat(row)
	if err == nil {
		return updated, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		if isInvalidUUID(err) {
			return domain.Seat{}, domain.ErrSeatNotFound
		}
		return domain.Seat{}, fmt.Errorf("update seat: %w", err)
	}

	var exists bool
	if err := db(ctx, r.pool).QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM seats WHERE id = $1)`, seat.ID).Scan(&exists); err != nil {
		return domain.Seat{}, fmt.Errorf("update seat: %w", err)
	}
	if !exists {
		return domain.Seat{}, domain.ErrSeatNotFound
	}
	return domain.Seat{}, domain.ErrVersionConflict
}

// CreateSeats bulk-inserts generated inventory via COPY.
func (r *SeatRepository) CreateSeats(ctx context.Context, seats []domain.Seat) error {
	if len(seats) == 0 {
		return nil
	}
	_, err := r.pool.CopyFrom(ctx,
		pgx.Identifier{"seats"},
		[]string{"id", "event_id", "section", "row_label", "seat_num", "price", "status", "hold_until", "version"},
		pgx.CopyFromSlice(len(seats), func(i int) ([]any, error) {
			s := seats[i]
			return []any{s.ID, s.EventID, s.Section, s.Row, s.SeatNum, s.Price, string(s.Status), s.HoldUntil, s.Version}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("create seats: %w", err)
	}
	return nil
}

func (r *SeatRepository) DeleteSeatsByEvent(ctx context.Context, eventID string) error {
	if _, err := db(ctx, r.pool).Exec(ctx, `DELETE FROM seats WHERE event_id = $1`, eventID); err != nil {
		return fmt.Errorf("delete seats: %w", err)
	}
	return nil
}
