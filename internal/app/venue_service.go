package app

import (
	"context"
	"strings"

	"github.com/xDbibix/Better-Ticketmaster/internal/domain"
)

type VenueStore interface {
	CreateVenue(ctx context.Context, v domain.Venue) error
	GetVenue(ctx context.Context, id string) (domain.Venue, error)
	ListVenues(ctx context.Context) ([]domain.Venue, error)
	CreateLayout(ctx context.Context, l domain.Layout) error
	GetLayout(ctx context.Context, id string) (domain.Layout, error)
	ListLayoutsByVenue(ctx context.Context, venueID string) ([]domain.Layout, error)
	CreateSection(ctx context.Context, s domain.SectionTemplate) error
	ListSectionsByLayout(ctx context.Context, layoutID string) ([]domain.SectionTemplate, error)
}

// VenueService manages the venue catalog: venues, their layouts, and the
// section templates seat generation reads from.
type VenueService struct {
	venues VenueStore
}

func NewVenueService(venues VenueStore) *VenueService {
	return &VenueService{venues: venues}
}

type CreateVenueInput struct {
	Name     string
	Location string
	Type     domain.VenueType
}

func (s *VenueService) CreateVenue(ctx context.Context, in CreateVenueInput) (domain.Venue, error) {
	if strings.TrimSpace(in.Name) == "" {
		return domain.Venue{}, domain.ErrVenueNameRequired
	}
	venueType := in.Type
	if venueType == "" {
		venueType = domain.VenueOther
	}
	venue := domain.Venue{
		ID:       newID(),
		Name:     in.Name,
		Location: in.Location,
		Type:     venueType,
	}
	if err := s.venues.CreateVenue(ctx, venue); err != nil {
		return domain.Venue{}, err
	}
	return venue, nil
}

func (s *VenueService) GetVenue(ctx context.Context, id string) (domain.Venue, error) {
	return s.venues.GetVenue(ctx, id)
}

func (s *VenueService) ListVenues(ctx context.Context) ([]domain.Venue, error) {
	return s.venues.ListVenues(ctx)
}

type CreateLayoutInput struct {
	VenueID  string
	Name     string
	ImageURL string
}

func (s *VenueService) CreateLayout(ctx context.Context, in CreateLayoutInput) (domain.Layout, error) {
	if strings.TrimSpace(in.Name) == "" {
		return domain.Layout{}, domain.ErrLayoutNameRequired
	}
	if _, err := s.venues.GetVenue(ctx, in.VenueID); err != nil {
		return domain.Layout{}, err
	}
	layout := domain.Layout{
		ID:       newID(),
		VenueID:  in.VenueID,
		Name:     in.Name,
		ImageURL: in.ImageURL,
	}
	if err := s.venues.CreateLayout(ctx, layout); err != nil {
		return domain.Layout{}, err
	}
	return layout, nil
}

func (s *VenueService) GetLayout(ctx context.Context, id string) (domain.Layout, error) {
	return s.venues.GetLayout(ctx, id)
}

func (s *VenueService) ListLayoutsByVenue(ctx context.Context, venueID string) ([]domain.Layout, error) {
	return s.venues.ListLayoutsByVenue(ctx, venueID)
}

type CreateSectionInput struct {
	LayoutID      string
	SectionName   string
	SectionType   domain.SectionType
	Rows          []string
	SeatsPerRow   int
	Capacity      int
	DisabledSeats []string
}

// CreateSection adds a section template to a layout. Seated sections need
// rows and a positive seats-per-row; GA sections need a positive capacity.
func (s *VenueService) CreateSection(ctx context.Context, in CreateSectionInput) (domain.SectionTemplate, error) {
	if strings.TrimSpace(in.SectionName) == "" {
		return domain.SectionTemplate{}, domain.ErrSectionNameRequired
	}
	if _, err := s.venues.GetLayout(ctx, in.LayoutID); err != nil {
		return domain.SectionTemplate{}, err
	}

	sectionType := in.SectionType
	if sectionType == "" {
		sectionType = domain.SectionSeated
	}
	switch sectionType {
	case domain.SectionGA:
		if in.Capacity <= 0 {
			return domain.SectionTemplate{}, domain.ErrInvalidCapacity
		}
	default:
		if len(in.Rows) == 0 {
			return domain.SectionTemplate{}, domain.ErrRowsRequired
		}
		if in.SeatsPerRow <= 0 {
			return domain.SectionTemplate{}, domain.ErrInvalidSeatsPerRow
		}
	}

	disabled := make(map[string]struct{}, len(in.DisabledSeats))
	for _, key := range in.DisabledSeats {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		disabled[key] = struct{}{}
	}

	section := domain.SectionTemplate{
		ID:            newID(),
		LayoutID:      in.LayoutID,
		SectionName:   in.SectionName,
		SectionType:   sectionType,
		Rows:          append([]string{}, in.Rows...),
		SeatsPerRow:   in.SeatsPerRow,
		Capacity:      in.Capacity,
		DisabledSeats: disabled,
	}
	if err := s.venues.CreateSection(ctx, section); err != nil {
		return domain.SectionTemplate{}, err
	}
	return section, nil
}

func (s *VenueService) ListSectionsByLayout(ctx context.Context, layoutID string) ([]domain.SectionTemplate, error) {
	return s.venues.ListSectionsByLayout(ctx, layoutID)
}
