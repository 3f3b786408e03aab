package app

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/xDbibix/Better-Ticketmaster/internal/clock"
	"github.com/xDbibix/Better-Ticketmaster/internal/domain"
	"github.com/xDbibix/Better-Ticketmaster/internal/metrics"
	"github.com/xDbibix/Better-Ticketmaster/internal/notification"
)

type BookingStore interface {
	CreateBooking(ctx context.Context, b domain.Booking) error
	GetBooking(ctx context.Context, id string) (domain.Booking, error)
	UpdateBooking(ctx context.Context, b domain.Booking) error
	ListBookingsByUser(ctx context.Context, userID string) ([]domain.Booking, error)
}

type TicketWriter interface {
	CreateTicket(ctx context.Context, t domain.Ticket) error
}

type UserStore interface {
	GetUser(ctx context.Context, id string) (domain.User, error)
	UpdateUser(ctx context.Context, u domain.User) error
}

// SeatSeller is the slice of the seat inventory the booking lifecycle uses:
// re-reading seats for the completion-time hold check, and selling them.
type SeatSeller interface {
	GetSeat(ctx context.Context, id string) (domain.Seat, error)
	SellSeat(ctx context.Context, id string) (domain.Seat, error)
}

// BookingService drives a booking from PENDING to one of its terminal
// states. Completion is the only path that sells seats and mints tickets.
type BookingService struct {
	bookings BookingStore
	tickets  TicketWriter
	users    UserStore
	seats    SeatSeller
	events   EventGetter
	notifier notification.Notifier
	clock    clock.Clock
	log      *zap.Logger
	ttl      time.Duration
}

const defaultBookingTTL = 10 * time.Minute

func NewBookingService(
	bookings BookingStore,
	tickets TicketWriter,
	users UserStore,
	seats SeatSeller,
	events EventGetter,
	notifier notification.Notifier,
	clk clock.Clock,
	log *zap.Logger,
	opts ...BookingServiceOption,
) *BookingService {
	svc := &BookingService{
		bookings: bookings,
		tickets:  tickets,
		users:    users,
		seats:    seats,
		events:   events,
		notifier: notifier,
		clock:    clk,
		log:      log,
		ttl:      defaultBookingTTL,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type BookingServiceOption func(*BookingService)

// WithBookingTTL overrides the purchase window for new bookings.
func WithBookingTTL(d time.Duration) BookingServiceOption {
	return func(s *BookingService) {
		if d > 0 {
			s.ttl = d
		}
	}
}

type CreateBookingInput struct {
	ConsumerID string
	EventID    string
	SeatIDs    []string
	TotalPrice decimal.Decimal
}

// CreateBooking records purchase intent. It does not hold seats — holding is
// a prior, separate step by the caller.
func (s *BookingService) CreateBooking(ctx context.Context, in CreateBookingInput) (domain.Booking, error) {
	if len(in.SeatIDs) == 0 {
		return domain.Booking{}, domain.ErrSeatIDsRequired
	}
	if in.TotalPrice.IsNegative() {
		return domain.Booking{}, domain.ErrInvalidPrice
	}
	if _, err := s.events.GetEvent(ctx, in.EventID); err != nil {
		return domain.Booking{}, err
	}

	expiry := s.clock.Now().Add(s.ttl)
	booking := domain.Booking{
		ID:         newID(),
		ConsumerID: in.ConsumerID,
		EventID:    in.EventID,
		SeatIDs:    append([]string{}, in.SeatIDs...),
		TotalPrice: in.TotalPrice,
		Status:     domain.BookingPending,
		Expiry:     &expiry,
	}
	if err := s.bookings.CreateBooking(ctx, booking); err != nil {
		return domain.Booking{}, err
	}
	return booking, nil
}

// CompleteBooking turns a pending booking into a purchase. Preconditions run
// in order; the completion-time seat check is a second verification layer on
// top of the original hold, closing the window where a hold lazily expired
// between holding and completing.
func (s *BookingService) CompleteBooking(ctx context.Context, id string) (domain.Booking, error) {
	booking, err := s.bookings.GetBooking(ctx, id)
	if err != nil {
		return domain.Booking{}, err
	}
	if booking.Status != domain.BookingPending {
		return domain.Booking{}, domain.ErrBookingNotPending
	}
	if len(booking.SeatIDs) == 0 {
		return domain.Booking{}, domain.ErrSeatIDsRequired
	}

	event, err := s.events.GetEvent(ctx, booking.EventID)
	if err != nil {
		return domain.Booking{}, err
	}
	if event.Closed() {
		return domain.Booking{}, domain.ErrEventClosed
	}

	now := s.clock.Now()
	if booking.Expired(now) {
		booking.MarkExpired()
		if uerr := s.bookings.UpdateBooking(ctx, booking); uerr != nil {
			return domain.Booking{}, uerr
		}
		return domain.Booking{}, domain.ErrBookingExpired
	}

	// Every seat must read HELD with a live deadline before anything is
	// mutated.
	for _, seatID := range booking.SeatIDs {
		seat, serr := s.seats.GetSeat(ctx, seatID)
		if serr != nil {
			return domain.Booking{}, serr
		}
		if !seat.HoldLive(now) {
			if seat.Status == domain.SeatHeld {
				return domain.Booking{}, domain.ErrHoldExpired
			}
			return domain.Booking{}, domain.ErrSeatNotHeld
		}
	}

	unitPrice := booking.TotalPrice.Div(decimal.NewFromInt(int64(len(booking.SeatIDs))))
	purchasedAt := now

	created := make([]domain.Ticket, 0, len(booking.SeatIDs))
	for _, seatID := range booking.SeatIDs {
		if _, serr := s.seats.SellSeat(ctx, seatID); serr != nil {
			return domain.Booking{}, serr
		}
		ticket := domain.NewPurchasedTicket(newID(), booking.EventID, seatID, booking.ConsumerID, unitPrice, purchasedAt)
		ticket.QRCode = newID()
		if terr := s.tickets.CreateTicket(ctx, ticket); terr != nil {
			return domain.Booking{}, terr
		}
		created = append(created, ticket)
	}

	booking.Complete()
	if err := s.bookings.UpdateBooking(ctx, booking); err != nil {
		return domain.Booking{}, err
	}
	metrics.TrackBookingCompleted()

	// Owned-ticket back-references and the confirmation email are best
	// effort: the sale is already final.
	user, uerr := s.users.GetUser(ctx, booking.ConsumerID)
	if uerr == nil {
		for _, t := range created {
			user.AddOwnedTicket(t.ID)
		}
		if err := s.users.UpdateUser(ctx, user); err != nil {
			s.log.Warn("owned-ticket update failed",
				zap.String("booking_id", booking.ID),
				zap.String("user_id", user.ID),
				zap.Error(err),
			)
		}
		if err := s.notifier.SendEmail(
			user.Email,
			"Your Ticket Purchase Confirmation",
			"purchase-confirmation",
			map[string]any{
				"user":    user.Name,
				"eventId": booking.EventID,
				"seats":   booking.SeatIDs,
				"total":   booking.TotalPrice,
			},
		); err != nil {
			s.log.Warn("confirmation email failed",
				zap.String("booking_id", booking.ID),
				zap.Error(err),
			)
		}
	}

	return booking, nil
}

// CancelBooking cancels any booking that has not completed.
func (s *BookingService) CancelBooking(ctx context.Context, id string) (domain.Booking, error) {
	booking, err := s.bookings.GetBooking(ctx, id)
	if err != nil {
		return domain.Booking{}, err
	}
	if err := booking.Cancel(); err != nil {
		return domain.Booking{}, err
	}
	if err := s.bookings.UpdateBooking(ctx, booking); err != nil {
		return domain.Booking{}, err
	}
	return booking, nil
}

// RequestTransfer flags the booking for transfer. The reference behavior has
// no prior-state check here; CompleteTransfer is where the state is enforced.
func (s *BookingService) RequestTransfer(ctx context.Context, id, toUserID string) (domain.Booking, error) {
	booking, err := s.bookings.GetBooking(ctx, id)
	if err != nil {
		return domain.Booking{}, err
	}
	booking.Status = domain.BookingTransferRequested
	if err := s.bookings.UpdateBooking(ctx, booking); err != nil {
		return domain.Booking{}, err
	}
	return booking, nil
}

func (s *BookingService) CompleteTransfer(ctx context.Context, id string) (domain.Booking, error) {
	booking, err := s.bookings.GetBooking(ctx, id)
	if err != nil {
		return domain.Booking{}, err
	}
	if booking.Status != domain.BookingTransferRequested {
		return domain.Booking{}, domain.ErrNoTransferRequested
	}
	booking.Complete()
	if err := s.bookings.UpdateBooking(ctx, booking); err != nil {
		return domain.Booking{}, err
	}
	return booking, nil
}

func (s *BookingService) GetBooking(ctx context.Context, id string) (domain.Booking, error) {
	return s.bookings.GetBooking(ctx, id)
}

func (s *BookingService) ListByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	return s.bookings.ListBookingsByUser(ctx, userID)
}
