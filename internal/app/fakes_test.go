package app

import (
	"context"
	"strings"

	"github.com/xDbibix/Better-Ticketmaster/internal/domain"
)

// fakeStore is an in-memory backend implementing every store interface the
// services consume. UpdateSeat enforces the same version compare-and-swap as
// the real repository.
type fakeStore struct {
	seats    map[string]domain.Seat
	events   map[string]domain.Event
	bookings map[string]domain.Booking
	tickets  map[string]domain.Ticket
	users    map[string]domain.User
	venues   map[string]domain.Venue
	layouts  map[string]domain.Layout
	sections map[string]domain.SectionTemplate

	// failUpdateSeat forces the next CAS write on the given seat to fail as a
	// version conflict, simulating a concurrent writer.
	failUpdateSeat map[string]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		seats:          make(map[string]domain.Seat),
		events:         make(map[string]domain.Event),
		bookings:       make(map[string]domain.Booking),
		tickets:        make(map[string]domain.Ticket),
		users:          make(map[string]domain.User),
		venues:         make(map[string]domain.Venue),
		layouts:        make(map[string]domain.Layout),
		sections:       make(map[string]domain.SectionTemplate),
		failUpdateSeat: make(map[string]bool),
	}
}

func (f *fakeStore) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (f *fakeStore) GetSeat(_ context.Context, id string) (domain.Seat, error) {
	seat, ok := f.seats[id]
	if !ok {
		return domain.Seat{}, domain.ErrSeatNotFound
	}
	return seat, nil
}

func (f *fakeStore) ListSeatsByEvent(_ context.Context, eventID string) ([]domain.Seat, error) {
	out := make([]domain.Seat, 0)
	for _, seat := range f.seats {
		if seat.EventID == eventID {
			out = append(out, seat)
		}
	}
	return out, nil
}

func (f *fakeStore) UpdateSeat(_ context.Context, seat domain.Seat, expectedVersion int64) (domain.Seat, error) {
	stored, ok := f.seats[seat.ID]
	if !ok {
		return domain.Seat{}, domain.ErrSeatNotFound
	}
	if f.failUpdateSeat[seat.ID] {
		delete(f.failUpdateSeat, seat.ID)
		return domain.Seat{}, domain.ErrVersionConflict
	}
	if stored.Version != expectedVersion {
		return domain.Seat{}, domain.ErrVersionConflict
	}
	seat.Version = stored.Version + 1
	f.seats[seat.ID] = seat
	return seat, nil
}

func (f *fakeStore) CreateSeats(_ context.Context, seats []domain.Seat) error {
	for _, seat := range seats {
		f.seats[seat.ID] = seat
	}
	return nil
}

func (f *fakeStore) DeleteSeatsByEvent(_ context.Context, eventID string) error {
	for id, seat := range f.seats {
		if seat.EventID == eventID {
			delete(f.seats, id)
		}
	}
	return nil
}

func (f *fakeStore) CreateEvent(_ context.Context, e domain.Event) error {
	f.events[e.ID] = e
	return nil
}

func (f *fakeStore) GetEvent(_ context.Context, id string) (domain.Event, error) {
	event, ok := f.events[id]
	if !ok {
		return domain.Event{}, domain.ErrEventNotFound
	}
	return event, nil
}

func (f *fakeStore) UpdateEvent(_ context.Context, e domain.Event) error {
	if _, ok := f.events[e.ID]; !ok {
		return domain.ErrEventNotFound
	}
	f.events[e.ID] = e
	return nil
}

func (f *fakeStore) ListEvents(_ context.Context) ([]domain.Event, error) {
	out := make([]domain.Event, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeStore) CreateBooking(_ context.Context, b domain.Booking) error {
	f.bookings[b.ID] = b
	return nil
}

func (f *fakeStore) GetBooking(_ context.Context, id string) (domain.Booking, error) {
	booking, ok := f.bookings[id]
	if !ok {
		return domain.Booking{}, domain.ErrBookingNotFound
	}
	return booking, nil
}

func (f *fakeStore) UpdateBooking(_ context.Context, b domain.Booking) error {
	if _, ok := f.bookings[b.ID]; !ok {
		return domain.ErrBookingNotFound
	}
	f.bookings[b.ID] = b
	return nil
}

func (f *fakeStore) ListBookingsByUser(_ context.Context, userID string) ([]domain.Booking, error) {
	out := make([]domain.Booking, 0)
	for _, b := range f.bookings {
		if b.ConsumerID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeStore) DeleteBookingsByEvent(_ context.Context, eventID string) error {
	for id, b := range f.bookings {
		if b.EventID == eventID {
			delete(f.bookings, id)
		}
	}
	return nil
}

func (f *fakeStore) CreateTicket(_ context.Context, t domain.Ticket) error {
	f.tickets[t.ID] = t
	return nil
}

func (f *fakeStore) GetTicket(_ context.Context, id string) (domain.Ticket, error) {
	ticket, ok := f.tickets[id]
	if !ok {
		return domain.Ticket{}, domain.ErrTicketNotFound
	}
	return ticket, nil
}

func (f *fakeStore) UpdateTicket(_ context.Context, t domain.Ticket) error {
	if _, ok := f.tickets[t.ID]; !ok {
		return domain.ErrTicketNotFound
	}
	f.tickets[t.ID] = t
	return nil
}

func (f *fakeStore) ListResaleByEvent(_ context.Context, eventID string) ([]domain.Ticket, error) {
	out := make([]domain.Ticket, 0)
	for _, t := range f.tickets {
		if t.EventID == eventID && t.Resale {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeStore) ListTicketsByOwner(_ context.Context, ownerID string) ([]domain.Ticket, error) {
	out := make([]domain.Ticket, 0)
	for _, t := range f.tickets {
		if t.OwnerID == ownerID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeStore) DeleteTicketsByEvent(_ context.Context, eventID string) error {
	for id, t := range f.tickets {
		if t.EventID == eventID {
			delete(f.tickets, id)
		}
	}
	return nil
}

func (f *fakeStore) CreateUser(_ context.Context, u domain.User) error {
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return domain.ErrEmailTaken
		}
	}
	f.users[u.ID] = u
	return nil
}

func (f *fakeStore) GetUser(_ context.Context, id string) (domain.User, error) {
	user, ok := f.users[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeStore) GetUserByEmail(_ context.Context, email string) (domain.User, error) {
	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound
}

func (f *fakeStore) UpdateUser(_ context.Context, u domain.User) error {
	if _, ok := f.users[u.ID]; !ok {
		return domain.ErrUserNotFound
	}
	f.users[u.ID] = u
	return nil
}

func (f *fakeStore) CreateVenue(_ context.Context, v domain.Venue) error {
	f.venues[v.ID] = v
	return nil
}

func (f *fakeStore) GetVenue(_ context.Context, id string) (domain.Venue, error) {
	venue, ok := f.venues[id]
	if !ok {
		return domain.Venue{}, domain.ErrVenueNotFound
	}
	return venue, nil
}

func (f *fakeStore) ListVenues(_ context.Context) ([]domain.Venue, error) {
	out := make([]domain.Venue, 0, len(f.venues))
	for _, v := range f.venues {
		out = append(out, v)
	}
	return out, nil
}

func (f *fakeStore) CreateLayout(_ context.Context, l domain.Layout) error {
	f.layouts[l.ID] = l
	return nil
}

func (f *fakeStore) GetLayout(_ context.Context, id string) (domain.Layout, error) {
	layout, ok := f.layouts[id]
	if !ok {
		return domain.Layout{}, domain.ErrLayoutNotFound
	}
	return layout, nil
}

func (f *fakeStore) ListLayoutsByVenue(_ context.Context, venueID string) ([]domain.Layout, error) {
	out := make([]domain.Layout, 0)
	for _, l := range f.layouts {
		if l.VenueID == venueID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeStore) CreateSection(_ context.Context, s domain.SectionTemplate) error {
	f.sections[s.ID] = s
	return nil
}

func (f *fakeStore) ListSectionsByLayout(_ context.Context, layoutID string) ([]domain.SectionTemplate, error) {
	out := make([]domain.SectionTemplate, 0)
	for _, s := range f.sections {
		if s.LayoutID == layoutID {
			out = append(out, s)
		}
	}
	return out, nil
}

// fakeNotifier records sent mail for assertions.
type fakeNotifier struct {
	sent []sentMail
}

type sentMail struct {
	to       string
	subject  string
	template string
}

func (n *fakeNotifier) SendEmail(to, subject, template string, _ map[string]any) error {
	n.sent = append(n.sent, sentMail{to: to, subject: subject, template: template})
	return nil
}
