package http

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/xDbibix/Better-Ticketmaster/internal/app"
	"github.com/xDbibix/Better-Ticketmaster/internal/domain"
)

// stubSessions resolves any request carrying the session cookie to a fixed
// user.
type stubSessions struct {
	user domain.User
	err  error
}

func (s *stubSessions) CurrentUser(_ context.Context, token string) (domain.User, error) {
	if s.err != nil {
		return domain.User{}, s.err
	}
	if token == "" {
		return domain.User{}, domain.ErrInvalidCredentials
	}
	return s.user, nil
}

func withSession(req *http.Request) *http.Request {
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "token-1"})
	return req
}

type stubSeatService struct {
	seats []domain.Seat
	res   app.ReleaseResult
	err   error
}

func (s *stubSeatService) HoldSeats(_ context.Context, _ []string) ([]domain.Seat, error) {
	return s.seats, s.err
}

func (s *stubSeatService) ReleaseSeats(_ context.Context, _ []string) (app.ReleaseResult, error) {
	return s.res, s.err
}

type stubBookingService struct {
	booking domain.Booking
	err     error
}

func (s *stubBookingService) CreateBooking(_ context.Context, _ app.CreateBookingInput) (domain.Booking, error) {
	return s.booking, s.err
}

func (s *stubBookingService) CompleteBooking(_ context.Context, _ string) (domain.Booking, error) {
	return s.booking, s.err
}

func (s *stubBookingService) CancelBooking(_ context.Context, _ string) (domain.Booking, error) {
	return s.booking, s.err
}

func (s *stubBookingService) RequestTransfer(_ context.Context, _, _ string) (domain.Booking, error) {
	return s.booking, s.err
}

func (s *stubBookingService) CompleteTransfer(_ context.Context, _ string) (domain.Booking, error) {
	return s.booking, s.err
}

func (s *stubBookingService) GetBooking(_ context.Context, _ string) (domain.Booking, error) {
	return s.booking, nil
}

func (s *stubBookingService) ListByUser(_ context.Context, _ string) ([]domain.Booking, error) {
	return []domain.Booking{s.booking}, s.err
}

type stubTicketService struct {
	ticket domain.Ticket
	err    error
}

func (s *stubTicketService) ResellTicket(_ context.Context, _ string, _ decimal.Decimal, _ string) (domain.Ticket, error) {
	return s.ticket, s.err
}

func (s *stubTicketService) PurchaseResale(_ context.Context, _, _ string) (domain.Ticket, error) {
	return s.ticket, s.err
}

func (s *stubTicketService) TransferTicket(_ context.Context, _ app.TransferTicketInput) (domain.Ticket, error) {
	return s.ticket, s.err
}

func (s *stubTicketService) ListByOwner(_ context.Context, _ string) ([]domain.Ticket, error) {
	return []domain.Ticket{s.ticket}, s.err
}
