package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xDbibix/Better-Ticketmaster/internal/domain"
)

type EventRepository struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{pool: pool}
}

const eventColumns = `id, organizer_id, layout_id, title, venue_name, status, date_time, min_resale, max_resale, description, image_url`

func scanEvent(row pgx.Row) (domain.Event, error) {
	var e domain.Event
	var status string
	var layoutID *string
	err := row.Scan(&e.ID, &e.OrganizerID, &layoutID, &e.Title, &e.VenueName, &status,
		&e.DateTime, &e.MinResale, &e.MaxResale, &e.Description, &e.ImageURL)
	if err != nil {
		return domain.Event{}, err
	}
	e.Status = domain.EventStatus(status)
	if layoutID != nil {
		e.LayoutID = *layoutID
	}
	return e, nil
}

func layoutIDArg(layoutID string) any {
	if layoutID == "" {
		return nil
	}
	return layoutID
}

func (r *EventRepository) CreateEvent(ctx context.Context, e domain.Event) error {
	_, err := db(ctx, r.pool).Exec(ctx, `
INSERT INTO events (id, organizer_id, layout_id, title, venue_name, status, date_time, min_resale, max_resale, description, image_url)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		e.ID, e.OrganizerID, layoutIDArg(e.LayoutID), e.Title, e.VenueName, string(e.Status),
		e.DateTime, e.MinResale, e.MaxResale, e.Description, e.ImageURL)
	if err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

func (r *EventRepository) GetEvent(ctx context.Context, id string) (domain.Event, error) {
	row := db(ctx, r.pool).QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id)
	event, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidUUID(err) {
			return domain.Event{}, domain.ErrEventNotFound
		}
		return domain.Event{}, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

func (r *EventRepository) UpdateEvent(ctx context.Context, e domain.Event) error {
	tag, err := db(ctx, r.pool).Exec(ctx, `
UPDATE events
SET title = $1, venue_name = $2, status = $3, date_time = $4, min_resale = $5, max_resale = $6, description = $7, image_url = $8
WHERE id = $9`,
		e.Title, e.VenueName, string(e.Status), e.DateTime, e.MinResale, e.MaxResale, e.Description, e.ImageURL, e.ID)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

func (r *EventRepository) ListEvents(ctx context.Context) ([]domain.Event, error) {
	rows, err := db(ctx, r.pool).Query(ctx, `SELECT `+eventColumns+` FROM events ORDER BY date_time, id`)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	events := make([]domain.Event, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, event)
	}
	return events, rows.Err()
}
