package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xDbibix/Better-Ticketmaster/internal/domain"
)

// TicketRepository persists the ownership ledger. WithTx lets the service
// commit a resale purchase and both owned-set updates as one transaction.
type TicketRepository struct {
	pool *pgxpool.Pool
}

func NewTicketRepository(pool *pgxpool.Pool) *TicketRepository {
	return &TicketRepository{pool: pool}
}

func (r *TicketRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

const ticketColumns = `id, seat_id, event_id, owner_id, buyer_id, purchase_price, purchased_at, resale, resale_price, qr_code`

func scanTicket(row pgx.Row) (domain.Ticket, error) {
	var t domain.Ticket
	err := row.Scan(&t.ID, &t.SeatID, &t.EventID, &t.OwnerID, &t.BuyerID,
		&t.PurchasePrice, &t.PurchasedAt, &t.Resale, &t.ResalePrice, &t.QRCode)
	if err != nil {
		return domain.Ticket{}, err
	}
	return t, nil
}

func (r *TicketRepository) CreateTicket(ctx context.Context, t domain.Ticket) error {
	_, err := db(ctx, r.pool).Exec(ctx, `
INSERT INTO tickets (id, seat_id, event_id, owner_id, buyer_id, purchase_price, purchased_at, resale, resale_price, qr_code)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		t.ID, t.SeatID, t.EventID, t.OwnerID, t.BuyerID,
		t.PurchasePrice, t.PurchasedAt, t.Resale, t.ResalePrice, t.QRCode)
	if err != nil {
		return fmt.Errorf("create ticket: %w", err)
	}
	return nil
}

func (r *TicketRepository) GetTicket(ctx context.Context, id string) (domain.Ticket, error) {
	row := db(ctx, r.pool).QueryRow(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE id = $1`, id)
	ticket, err := scanTicket(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidUUID(err) {
			return domain.Ticket{}, domain.ErrTicketNotFound
		}
		return domain.Ticket{}, fmt.Errorf("get ticket: %w", err)
	}
	return ticket, nil
}

func (r *TicketRepository) UpdateTicket(ctx context.Context, t domain.Ticket) error {
	tag, err := db(ctx, r.pool).Exec(ctx, `
UPDATE tickets
SET owner_id = $1, buyer_id = $2, resale = $3, resale_price = $4, qr_code = $5
WHERE id = $6`,
		t.OwnerID, t.BuyerID, t.Resale, t.ResalePrice, t.QRCode, t.ID)
	if err != nil {
		return fmt.Errorf("update ticket: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTicketNotFound
	}
	return nil
}

func (r *TicketRepository) ListResaleByEvent(ctx context.Context, eventID string) ([]domain.Ticket, error) {
	return r.list(ctx, `
SELECT `+ticketColumns+`
FROM tickets
WHERE event_id = $1 AND resale
ORDER BY resale_price, id`, eventID)
}

func (r *TicketRepository) ListTicketsByOwner(ctx context.Context, ownerID string) ([]domain.Ticket, error) {
	return r.list(ctx, `
SELECT `+ticketColumns+`
FROM tickets
WHERE owner_id = $1
ORDER BY purchased_at, id`, ownerID)
}

func (r *TicketRepository) list(ctx context.Context, query string, arg any) ([]domain.Ticket, error) {
	rows, err := db(ctx, r.pool).Query(ctx, query, arg)
	if err != nil {
		if isInvalidUUID(err) {
			return []domain.Ticket{}, nil
		}
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	defer rows.Close()

	tickets := make([]domain.Ticket, 0)
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ticket: %w", err)
		}
		tickets = append(tickets, ticket)
	}
	return tickets, rows.Err()
}

func (r *TicketRepository) DeleteTicketsByEvent(ctx context.Context, eventID string) error {
	if _, err := db(ctx, r.pool).Exec(ctx, `DELETE FROM tickets WHERE event_id = $1`, eventID); err != nil {
		return fmt.Errorf("delete tickets: %w", err)
	}
	return nil
}
