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

// TicketAPI is the minimal interface the ticket endpoints need.
type TicketAPI interface {
	ResellTicket(ctx context.Context, ticketID string, price decimal.Decimal, requesterID string) (domain.Ticket, error)
	PurchaseResale(ctx context.Context, ticketID, buyerID string) (domain.Ticket, error)
	TransferTicket(ctx context.Context, in app.TransferTicketInput) (domain.Ticket, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Ticket, error)
}

type ticketResponse struct {
	ID            string          `json:"id"`
	SeatID        string          `json:"seatId"`
	EventID       string          `json:"eventId"`
	OwnerID       string          `json:"ownerId"`
	BuyerID       string          `json:"buyerId"`
	PurchasePrice decimal.Decimal `json:"purchasePrice"`
	PurchasedAt   time.Time       `json:"purchasedAt"`
	Resale        bool            `json:"resale"`
	ResalePrice   decimal.Decimal `json:"resalePrice"`
	QRCode        string          `json:"qrCode,omitempty"`
}

func toTicketResponse(t domain.Ticket) ticketResponse {
	return ticketResponse{
		ID:            t.ID,
		SeatID:        t.SeatID,
		EventID:       t.EventID,
		OwnerID:       t.OwnerID,
		BuyerID:       t.BuyerID,
		PurchasePrice: t.PurchasePrice,
		PurchasedAt:   t.PurchasedAt,
		Resale:        t.Resale,
		ResalePrice:   t.ResalePrice,
		QRCode:        t.QRCode,
	}
}

func toTicketResponses(tickets []domain.Ticket) []ticketResponse {
	out := make([]ticketResponse, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, toTicketResponse(t))
	}
	return out
}

// HandleTickets serves the caller's tickets.
func HandleTickets(svc TicketAPI, sessions SessionResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}
		user, ok := authenticate(w, r, sessions)
		if !ok {
			return
		}

		tickets, err := svc.ListByOwner(r.Context(), user.ID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(toTicketResponses(tickets))
	}
}

type resellRequest struct {
	Price decimal.Decimal `json:"price"`
}

type transferTicketRequest struct {
	ToEmail string `json:"toEmail"`
}

// HandleTicketItem serves the per-ticket market actions:
//
//	POST /tickets/{id}/resell
//	POST /tickets/{id}/purchase
//	POST /tickets/{id}/transfer
func HandleTicketItem(svc TicketAPI, sessions SessionResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}
		user, ok := authenticate(w, r, sessions)
		if !ok {
			return
		}

		rest := strings.TrimPrefix(r.URL.Path, "/tickets/")
		parts := strings.Split(strings.Trim(rest, "/"), "/")
		if len(parts) != 2 || parts[0] == "" {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}
		ticketID := parts[0]

		var ticket domain.Ticket
		var err error
		switch parts[1] {
		case "resell":
			var req resellRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if derr := dec.Decode(&req); derr != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}
			ticket, err = svc.ResellTicket(r.Context(), ticketID, req.Price, user.ID)
		case "purchase":
			ticket, err = svc.PurchaseResale(r.Context(), ticketID, user.ID)
		case "transfer":
			var req transferTicketRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if derr := dec.Decode(&req); derr != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}
			ticket, err = svc.TransferTicket(r.Context(), app.TransferTicketInput{
				TicketID:    ticketID,
				RequesterID: user.ID,
				ToEmail:     req.ToEmail,
			})
		default:
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}
		if err != nil {
			writeDomainError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(toTicketResponse(ticket))
	}
}
