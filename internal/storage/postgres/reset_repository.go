package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ResetRepository groups the bulk deletes behind one transaction hook for
// the administrative event reset.
type ResetRepository struct {
	*SeatRepository
	*BookingRepository
	*TicketRepository
	pool *pgxpool.Pool
}

func NewResetRepository(pool *pgxpool.Pool, seats *SeatRepository, bookings *BookingRepository, tickets *TicketRepository) *ResetRepository {
	return &ResetRepository{
		SeatRepository:    seats,
		BookingRepository: bookings,
		TicketRepository:  tickets,
		pool:              pool,
	}
}

func (r *ResetRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}
