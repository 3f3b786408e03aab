package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xDbibix/Better-Ticketmaster/internal/app"
	"github.com/xDbibix/Better-Ticketmaster/internal/domain"
)

// SeatInventory is the minimal interface the seat endpoints need.
type SeatInventory interface {
	HoldSeats(ctx context.Context, seatIDs []string) ([]domain.Seat, error)
	ReleaseSeats(ctx context.Context, seatIDs []string) (app.ReleaseResult, error)
}

type seatResponse struct {
	ID        string          `json:"id"`
	EventID   string          `json:"eventId"`
	Section   string          `json:"section"`
	Row       string          `json:"row"`
	SeatNum   int             `json:"seatNum"`
	Price     decimal.Decimal `json:"price"`
	Status    string          `json:"status"`
	HoldUntil *time.Time      `json:"holdUntil,omitempty"`
}

func toSeatResponse(s domain.Seat) seatResponse {
	return seatResponse{
		ID:        s.ID,
		EventID:   s.EventID,
		Section:   s.Section,
		Row:       s.Row,
		SeatNum:   s.SeatNum,
		Price:     s.Price,
		Status:    string(s.Status),
		HoldUntil: s.HoldUntil,
	}
}

func toSeatResponses(seats []domain.Seat) []seatResponse {
	out := make([]seatResponse, 0, len(seats))
	for _, s := range seats {
		out = append(out, toSeatResponse(s))
	}
	return out
}

type seatIDsRequest struct {
	SeatIDs []string `json:"seatIds"`
}

// HandleHoldSeats returns an HTTP handler that places a batch hold.
func HandleHoldSeats(svc SeatInventory, sessions SessionResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}
		if _, ok := authenticate(w, r, sessions); !ok {
			return
		}

		var req seatIDsRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		seats, err := svc.HoldSeats(r.Context(), req.SeatIDs)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(toSeatResponses(seats))
	}
}

type releaseResponse struct {
	Released   int      `json:"released"`
	MissingIDs []string `json:"missingIds,omitempty"`
}

// HandleReleaseSeats returns an HTTP handler that releases held seats.
// Releasing is idempotent; missing seats are reported, not errors.
func HandleReleaseSeats(svc SeatInventory, sessions SessionResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}
		if _, ok := authenticate(w, r, sessions); !ok {
			return
		}

		var req seatIDsRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		result, err := svc.ReleaseSeats(r.Context(), req.SeatIDs)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(releaseResponse{
			Released:   result.Released,
			MissingIDs: result.MissingIDs,
		})
	}
}
