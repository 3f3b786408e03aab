package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xDbibix/Better-Ticketmaster/internal/app"
	"github.com/xDbibix/Better-Ticketmaster/internal/domain"
)

// BookingAPI is the minimal interface the booking endpoints need.
type BookingAPI interface {
	CreateBooking(ctx context.Context, in app.CreateBookingInput) (domain.Booking, error)
	CompleteBooking(ctx context.Context, id string) (domain.Booking, error)
	CancelBooking(ctx context.Context, id string) (domain.Booking, error)
	RequestTransfer(ctx context.Context, id, toUserID string) (domain.Booking, error)
	CompleteTransfer(ctx context.Context, id string) (domain.Booking, error)
	GetBooking(ctx context.Context, id string) (domain.Booking, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Booking, error)
}

type bookingResponse struct {
	ID         string          `json:"id"`
	ConsumerID string          `json:"consumerId"`
	EventID    string          `json:"eventId"`
	SeatIDs    []string        `json:"seatIds"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	Status     string          `json:"status"`
	Expiry     *time.Time      `json:"expiry,omitempty"`
}

func toBookingResponse(b domain.Booking) bookingResponse {
	return bookingResponse{
		ID:         b.ID,
		ConsumerID: b.ConsumerID,
		EventID:    b.EventID,
		SeatIDs:    b.SeatIDs,
		TotalPrice: b.TotalPrice,
		Status:     string(b.Status),
		Expiry:     b.Expiry,
	}
}

type createBookingRequest struct {
	EventID    string          `json:"eventId"`
	SeatIDs    []string        `json:"seatIds"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

// HandleBookings serves the booking collection: the caller's bookings and
// new booking creation.
func HandleBookings(svc BookingAPI, sessions SessionResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := authenticate(w, r, sessions)
		if !ok {
			return
		}

		switch r.Method {
		case http.MethodGet:
			bookings, err := svc.ListByUser(r.Context(), user.ID)
			if err != nil {
				writeDomainError(w, err)
				return
			}
			resp := make([]bookingResponse, 0, len(bookings))
			for _, b := range bookings {
				resp = append(resp, toBookingResponse(b))
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(resp)
		case http.MethodPost:
			var req createBookingRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}

			booking, err := svc.CreateBooking(r.Context(), app.CreateBookingInput{
				ConsumerID: user.ID,
				EventID:    req.EventID,
				SeatIDs:    req.SeatIDs,
				TotalPrice: req.TotalPrice,
			})
			if err != nil {
				writeDomainError(w, err)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(toBookingResponse(booking))
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		}
	}
}

type transferRequest struct {
	ToUserID string `json:"toUserId"`
}

// HandleBookingItem serves a single booking and its lifecycle actions:
//
//	GET  /bookings/{id}
//	POST /bookings/{id}/complete
//	POST /bookings/{id}/cancel
//	POST /bookings/{id}/transfer
//	POST /bookings/{id}/transfer/complete
func HandleBookingItem(svc BookingAPI, sessions SessionResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := authenticate(w, r, sessions)
		if !ok {
			return
		}

		rest := strings.TrimPrefix(r.URL.Path, "/bookings/")
		parts := strings.Split(strings.Trim(rest, "/"), "/")
		if len(parts) == 0 || parts[0] == "" {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}
		bookingID := parts[0]

		booking, err := svc.GetBooking(r.Context(), bookingID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		if booking.ConsumerID != user.ID && !user.IsAdmin() {
			writeError(w, http.StatusForbidden, codeForbidden, "forbidden")
			return
		}

		if len(parts) == 1 {
			if r.Method != http.MethodGet {
				writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(toBookingResponse(booking))
			return
		}
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		action := strings.Join(parts[1:], "/")
		var updated domain.Booking
		switch action {
		case "complete":
			updated, err = svc.CompleteBooking(r.Context(), bookingID)
		case "cancel":
			updated, err = svc.CancelBooking(r.Context(), bookingID)
		case "transfer":
			var req transferRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if derr := dec.Decode(&req); derr != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}
			updated, err = svc.RequestTransfer(r.Context(), bookingID, req.ToUserID)
		case "transfer/complete":
			updated, err = svc.CompleteTransfer(r.Context(), bookingID)
		default:
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}
		if err != nil {
			writeDomainError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(toBookingResponse(updated))
	}
}
