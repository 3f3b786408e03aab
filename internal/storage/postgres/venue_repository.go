package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xDbibix/Better-Ticketmaster/internal/domain"
)

// VenueRepository persists the venue catalog: venues, layouts, and section
// templates.
type VenueRepository struct {
	pool *pgxpool.Pool
}

func NewVenueRepository(pool *pgxpool.Pool) *VenueRepository {
	return &VenueRepository{pool: pool}
}

func (r *VenueRepository) CreateVenue(ctx context.Context, v domain.Venue) error {
	_, err := db(ctx, r.pool).Exec(ctx, `
INSERT INTO venues (id, name, location, type)
VALUES ($1, $2, $3, $4)`,
		v.ID, v.Name, v.Location, string(v.Type))
	if err != nil {
		return fmt.Errorf("create venue: %w", err)
	}
	return nil
}

func (r *VenueRepository) GetVenue(ctx context.Context, id string) (domain.Venue, error) {
	var v domain.Venue
	var venueType string
	err := db(ctx, r.pool).QueryRow(ctx,
		`SELECT id, name, location, type FROM venues WHERE id = $1`, id).
		Scan(&v.ID, &v.Name, &v.Location, &venueType)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidUUID(err) {
			return domain.Venue{}, domain.ErrVenueNotFound
		}
		return domain.Venue{}, fmt.Errorf("get venue: %w", err)
	}
	v.Type = domain.VenueType(venueType)
	return v, nil
}

func (r *VenueRepository) ListVenues(ctx context.Context) ([]domain.Venue, error) {
	rows, err := db(ctx, r.pool).Query(ctx, `SELECT id, name, location, type FROM venues ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("list venues: %w", err)
	}
	defer rows.Close()

	venues := make([]domain.Venue, 0)
	for rows.Next() {
		var v domain.Venue
		var venueType string
		if err := rows.Scan(&v.ID, &v.Name, &v.Location, &venueType); err != nil {
			return nil, fmt.Errorf("scan venue: %w", err)
		}
		v.Type = domain.VenueType(venueType)
		venues = append(venues, v)
	}
	return venues, rows.Err()
}

func (r *VenueRepository) CreateLayout(ctx context.Context, l domain.Layout) error {
	_, err := db(ctx, r.pool).Exec(ctx, `
INSERT INTO layouts (id, venue_id, name, image_url)
VALUES ($1, $2, $3, $4)`,
		l.ID, l.VenueID, l.Name, l.ImageURL)
	if err != nil {
		return fmt.Errorf("create layout: %w", err)
	}
	return nil
}

func (r *VenueRepository) GetLayout(ctx context.Context, id string) (domain.Layout, error) {
	var l domain.Layout
	err := db(ctx, r.pool).QueryRow(ctx,
		`SELECT id, venue_id, name, image_url FROM layouts WHERE id = $1`, id).
		Scan(&l.ID, &l.VenueID, &l.Name, &l.ImageURL)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidUUID(err) {
			return domain.Layout{}, domain.ErrLayoutNotFound
		}
		return domain.Layout{}, fmt.Errorf("get layout: %w", err)
	}
	return l, nil
}

func (r *VenueRepository) ListLayoutsByVenue(ctx context.Context, venueID string) ([]domain.Layout, error) {
	rows, err := db(ctx, r.pool).Query(ctx,
		`SELECT id, venue_id, name, image_url FROM layouts WHERE venue_id = $1 ORDER BY name, id`, venueID)
	if err != nil {
		if isInvalidUUID(err) {
			return []domain.Layout{}, nil
		}
		return nil, fmt.Errorf("list layouts: %w", err)
	}
	defer rows.Close()

	layouts := make([]domain.Layout, 0)
	for rows.Next() {
		var l domain.Layout
		if err := rows.Scan(&l.ID, &l.VenueID, &l.Name, &l.ImageURL); err != nil {
			return nil, fmt.Errorf("scan layout: %w", err)
		}
		layouts = append(layouts, l)
	}
	return layouts, rows.Err()
}

func (r *VenueRepository) CreateSection(ctx context.Context, s domain.SectionTemplate) error {
	disabled := make([]string, 0, len(s.DisabledSeats))
	for key := range s.DisabledSeats {
		disabled = append(disabled, key)
	}
	rowsArg := s.Rows
	if rowsArg == nil {
		rowsArg = []string{}
	}
	_, err := db(ctx, r.pool).Exec(ctx, `
INSERT INTO section_templates (id, layout_id, section_name, section_type, rows, seats_per_row, capacity, disabled_seats)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		s.ID, s.LayoutID, s.SectionName, string(s.SectionType), rowsArg, s.SeatsPerRow, s.Capacity, disabled)
	if err != nil {
		return fmt.Errorf("create section: %w", err)
	}
	return nil
}

func (r *VenueRepository) ListSectionsByLayout(ctx context.Context, layoutID string) ([]domain.SectionTemplate, error) {
	rows, err := db(ctx, r.pool).Query(ctx, `
SELECT id, layout_id, section_name, section_type, rows, seats_per_row, capacity, disabled_seats
FROM section_templates
WHERE layout_id = $1
ORDER BY section_name, id`, layoutID)
	if err != nil {
		if isInvalidUUID(err) {
			return []domain.SectionTemplate{}, nil
		}
		return nil, fmt.Errorf("list sections: %w", err)
	}
	defer rows.Close()

	sections := make([]domain.SectionTemplate, 0)
	for rows.Next() {
		var s domain.SectionTemplate
		var sectionType string
		var disabled []string
		if err := rows.Scan(&s.ID, &s.LayoutID, &s.SectionName, &sectionType,
			&s.Rows, &s.SeatsPerRow, &s.Capacity, &disabled); err != nil {
			return nil, fmt.Errorf("scan section: %w", err)
		}
		s.SectionType = domain.SectionType(sectionType)
		s.DisabledSeats = make(map[string]struct{}, len(disabled))
		for _, key := range disabled {
			s.DisabledSeats[key] = struct{}{}
		}
		sections = append(sections, s)
	}
	return sections, rows.Err()
}
