package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/xDbibix/Better-Ticketmaster/internal/clock"
	"github.com/xDbibix/Better-Ticketmaster/internal/domain"
)

type EventStore interface {
	CreateEvent(ctx context.Context, e domain.Event) error
	GetEvent(ctx context.Context, id string) (domain.Event, error)
	UpdateEvent(ctx context.Context, e domain.Event) error
	ListEvents(ctx context.Context) ([]domain.Event, error)
}

// SeatAdminStore is the seat persistence the event lifecycle needs: bulk
// generation at approval time and bulk reset.
type SeatAdminStore interface {
	ListSeatsByEvent(ctx context.Context, eventID string) ([]domain.Seat, error)
	CreateSeats(ctx context.Context, seats []domain.Seat) error
}

type SectionLister interface {
	ListSectionsByLayout(ctx context.Context, layoutID string) ([]domain.SectionTemplate, error)
}

// EventResetStore deletes an event's derived records as one transactional
// unit for the administrative reset.
type EventResetStore interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	DeleteSeatsByEvent(ctx context.Context, eventID string) error
	DeleteBookingsByEvent(ctx context.Context, eventID string) error
	DeleteTicketsByEvent(ctx context.Context, eventID string) error
}

// EventService owns the event approval lifecycle and the one-time seat
// generation from the event's layout.
type EventService struct {
	events   EventStore
	seats    SeatAdminStore
	sections SectionLister
	reset    EventResetStore
	clock    clock.Clock
	log      *zap.Logger
}

var defaultSeatPrice = decimal.NewFromFloat(25.0)

func NewEventService(events EventStore, seats SeatAdminStore, sections SectionLister, reset EventResetStore, clk clock.Clock, log *zap.Logger) *EventService {
	return &EventService{
		events:   events,
		seats:    seats,
		sections: sections,
		reset:    reset,
		clock:    clk,
		log:      log,
	}
}

type CreateEventInput struct {
	OrganizerID string
	LayoutID    string
	Title       string
	VenueName   string
	DateTime    time.Time
	MinResale   decimal.Decimal
	MaxResale   decimal.Decimal
	Description string
	ImageURL    string
}

func (in CreateEventInput) validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return domain.ErrEventTitleRequired
	}
	if in.MinResale.IsNegative() || in.MaxResale.IsNegative() {
		return domain.ErrInvalidPrice
	}
	if in.MinResale.GreaterThan(in.MaxResale) {
		return domain.ErrInvalidResaleBounds
	}
	return nil
}

// RequestEventCreation files an organizer's event for admin approval.
func (s *EventService) RequestEventCreation(ctx context.Context, in CreateEventInput) (domain.Event, error) {
	return s.create(ctx, in, domain.EventPending)
}

// CreateEvent creates an event directly in APPROVED state (admin path).
func (s *EventService) CreateEvent(ctx context.Context, in CreateEventInput) (domain.Event, error) {
	return s.create(ctx, in, domain.EventApproved)
}

func (s *EventService) create(ctx context.Context, in CreateEventInput, status domain.EventStatus) (domain.Event, error) {
	if err := in.validate(); err != nil {
		return domain.Event{}, err
	}

	event := domain.Event{
		ID:          newID(),
		OrganizerID: in.OrganizerID,
		LayoutID:    in.LayoutID,
		Title:       in.Title,
		VenueName:   in.VenueName,
		Status:      status,
		DateTime:    in.DateTime,
		MinResale:   in.MinResale,
		MaxResale:   in.MaxResale,
		Description: in.Description,
		ImageURL:    in.ImageURL,
	}
	if err := s.events.CreateEvent(ctx, event); err != nil {
		return domain.Event{}, err
	}

	if err := s.GenerateSeats(ctx, event.ID); err != nil {
		// The event exists; seat generation can be retried by re-saving.
		s.log.Warn("seat generation failed",
			zap.String("event_id", event.ID),
			zap.Error(err),
		)
	}
	return event, nil
}

// GenerateSeats materializes the event's seat inventory from its layout's
// section templates. Idempotent: an event with any seats is left alone.
// Seated sections produce rows × seatsPerRow; GA sections produce Capacity
// seats under a single "GA" row. Disabled "ROW-NUM" keys are skipped.
func (s *EventService) GenerateSeats(ctx context.Context, eventID string) error {
	event, err := s.events.GetEvent(ctx, eventID)
	if err != nil {
		return err
	}
	if strings.TrimSpace(event.LayoutID) == "" {
		return nil
	}

	existing, err := s.seats.ListSeatsByEvent(ctx, eventID)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	sections, err := s.sections.ListSectionsByLayout(ctx, event.LayoutID)
	if err != nil {
		return err
	}
	if len(sections) == 0 {
		return nil
	}

	var seats []domain.Seat
	for _, section := range sections {
		name := strings.TrimSpace(section.SectionName)
		if name == "" {
			continue
		}

		if section.SectionType == domain.SectionGA {
			capacity := section.Capacity
			if capacity <= 0 {
				capacity = len(section.Rows) * max(0, section.SeatsPerRow)
			}
			for seatNum := 1; seatNum <= capacity; seatNum++ {
				if section.SeatDisabled(fmt.Sprintf("GA-%d", seatNum)) {
					continue
				}
				seats = append(seats, newGeneratedSeat(eventID, name, "GA", seatNum))
			}
			continue
		}

		if len(section.Rows) == 0 || section.SeatsPerRow <= 0 {
			continue
		}
		for _, row := range section.Rows {
			row = strings.TrimSpace(row)
			if row == "" {
				continue
			}
			for seatNum := 1; seatNum <= section.SeatsPerRow; seatNum++ {
				if section.SeatDisabled(fmt.Sprintf("%s-%d", row, seatNum)) {
					continue
				}
				seats = append(seats, newGeneratedSeat(eventID, name, row, seatNum))
			}
		}
	}

	if len(seats) == 0 {
		return nil
	}
	return s.seats.CreateSeats(ctx, seats)
}

func newGeneratedSeat(eventID, section, row string, seatNum int) domain.Seat {
	return domain.Seat{
		ID:      newID(),
		EventID: eventID,
		Section: section,
		Row:     row,
		SeatNum: seatNum,
		Price:   defaultSeatPrice,
		Status:  domain.SeatAvailable,
	}
}

func (s *EventService) ApproveEvent(ctx context.Context, id string) (domain.Event, error) {
	return s.setStatus(ctx, id, domain.EventApproved)
}

func (s *EventService) RejectEvent(ctx context.Context, id string) (domain.Event, error) {
	return s.setStatus(ctx, id, domain.EventRejected)
}

// CloseEvent blocks all further seat and ticket mutation for the event.
func (s *EventService) CloseEvent(ctx context.Context, id string) (domain.Event, error) {
	return s.setStatus(ctx, id, domain.EventClosed)
}

func (s *EventService) setStatus(ctx context.Context, id string, status domain.EventStatus) (domain.Event, error) {
	event, err := s.events.GetEvent(ctx, id)
	if err != nil {
		return domain.Event{}, err
	}
	event.Status = status
	if err := s.events.UpdateEvent(ctx, event); err != nil {
		return domain.Event{}, err
	}
	return event, nil
}

type UpdateEventInput struct {
	Title       *string
	VenueName   *string
	DateTime    *time.Time
	MinResale   *decimal.Decimal
	MaxResale   *decimal.Decimal
	Description *string
	ImageURL    *string
}

// UpdateEvent applies the provided fields, re-validating the resale window
// against the merged result.
func (s *EventService) UpdateEvent(ctx context.Context, id string, in UpdateEventInput) (domain.Event, error) {
	event, err := s.events.GetEvent(ctx, id)
	if err != nil {
		return domain.Event{}, err
	}

	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return domain.Event{}, domain.ErrEventTitleRequired
		}
		event.Title = *in.Title
	}
	if in.VenueName != nil {
		event.VenueName = *in.VenueName
	}
	if in.DateTime != nil {
		event.DateTime = *in.DateTime
	}
	if in.MinResale != nil {
		event.MinResale = *in.MinResale
	}
	if in.MaxResale != nil {
		event.MaxResale = *in.MaxResale
	}
	if event.MinResale.IsNegative() || event.MaxResale.IsNegative() {
		return domain.Event{}, domain.ErrInvalidPrice
	}
	if event.MinResale.GreaterThan(event.MaxResale) {
		return domain.Event{}, domain.ErrInvalidResaleBounds
	}
	if in.Description != nil {
		event.Description = *in.Description
	}
	if in.ImageURL != nil {
		event.ImageURL = *in.ImageURL
	}

	if err := s.events.UpdateEvent(ctx, event); err != nil {
		return domain.Event{}, err
	}
	return event, nil
}

func (s *EventService) GetEvent(ctx context.Context, id string) (domain.Event, error) {
	return s.events.GetEvent(ctx, id)
}

func (s *EventService) ListEvents(ctx context.Context) ([]domain.Event, error) {
	return s.events.ListEvents(ctx)
}

func (s *EventService) ListPendingEvents(ctx context.Context) ([]domain.Event, error) {
	all, err := s.events.ListEvents(ctx)
	if err != nil {
		return nil, err
	}
	pending := make([]domain.Event, 0)
	for _, e := range all {
		if e.Status == domain.EventPending {
			pending = append(pending, e)
		}
	}
	return pending, nil
}

// ResetEventData wipes the event's seats, bookings, and tickets in one
// transaction. Administrative tooling only; nothing in the purchase flow
// deletes records.
func (s *EventService) ResetEventData(ctx context.Context, eventID string) error {
	if _, err := s.events.GetEvent(ctx, eventID); err != nil {
		return err
	}
	return s.reset.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.reset.DeleteTicketsByEvent(txCtx, eventID); err != nil {
			return err
		}
		if err := s.reset.DeleteBookingsByEvent(txCtx, eventID); err != nil {
			return err
		}
		return s.reset.DeleteSeatsByEvent(txCtx, eventID)
	})
}
