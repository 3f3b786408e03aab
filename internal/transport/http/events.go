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

// EventCatalog is the minimal interface the public event endpoints need.
type EventCatalog interface {
	RequestEventCreation(ctx context.Context, in app.CreateEventInput) (domain.Event, error)
	UpdateEvent(ctx context.Context, id string, in app.UpdateEventInput) (domain.Event, error)
	GetEvent(ctx context.Context, id string) (domain.Event, error)
	ListEvents(ctx context.Context) ([]domain.Event, error)
}

// SeatLister lists an event's seats with lazy hold expiry applied.
type SeatLister interface {
	ListSeats(ctx context.Context, eventID string) ([]domain.Seat, error)
}

// ResaleLister lists an event's open resale listings.
type ResaleLister interface {
	ListResaleTickets(ctx context.Context, eventID string) ([]domain.Ticket, error)
}

func requireRole(w http.ResponseWriter, user domain.User, roles ...domain.Role) bool {
	for _, role := range roles {
		if user.Role == role {
			return true
		}
	}
	writeError(w, http.StatusForbidden, codeForbidden, "forbidden")
	return false
}

type eventResponse struct {
	ID          string          `json:"id"`
	OrganizerID string          `json:"organizerId"`
	LayoutID    string          `json:"layoutId,omitempty"`
	Title       string          `json:"title"`
	VenueName   string          `json:"venueName"`
	Status      string          `json:"status"`
	DateTime    time.Time       `json:"dateTime"`
	MinResale   decimal.Decimal `json:"minResale"`
	MaxResale   decimal.Decimal `json:"maxResale"`
	Description string          `json:"description,omitempty"`
	ImageURL    string          `json:"imageUrl,omitempty"`
}

func toEventResponse(e domain.Event) eventResponse {
	return eventResponse{
		ID:          e.ID,
		OrganizerID: e.OrganizerID,
		LayoutID:    e.LayoutID,
		Title:       e.Title,
		VenueName:   e.VenueName,
		Status:      string(e.Status),
		DateTime:    e.DateTime,
		MinResale:   e.MinResale,
		MaxResale:   e.MaxResale,
		Description: e.Description,
		ImageURL:    e.ImageURL,
	}
}

func toEventResponses(events []domain.Event) []eventResponse {
	out := make([]eventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, toEventResponse(e))
	}
	return out
}

type createEventRequest struct {
	LayoutID    string           `json:"layoutId"`
	Title       string           `json:"title"`
	VenueName   string           `json:"venueName"`
	DateTime    string           `json:"dateTime"`
	MinResale   *decimal.Decimal `json:"minResale"`
	MaxResale   *decimal.Decimal `json:"maxResale"`
	Description string           `json:"description"`
	ImageURL    string           `json:"imageUrl"`
}

func (req createEventRequest) toInput(organizerID string) (app.CreateEventInput, string, bool) {
	in := app.CreateEventInput{
		OrganizerID: organizerID,
		LayoutID:    req.LayoutID,
		Title:       req.Title,
		VenueName:   req.VenueName,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	}
	if req.DateTime != "" {
		parsed, err := time.Parse(time.RFC3339, req.DateTime)
		if err != nil {
			return in, "invalid dateTime format", false
		}
		in.DateTime = parsed
	}
	if req.MinResale != nil {
		in.MinResale = *req.MinResale
	}
	if req.MaxResale != nil {
		in.MaxResale = *req.MaxResale
	}
	return in, "", true
}

// HandleEvents serves the event collection: public listing, and event
// creation requests from organizers.
func HandleEvents(svc EventCatalog, sessions SessionResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			events, err := svc.ListEvents(r.Context())
			if err != nil {
				writeDomainError(w, err)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(toEventResponses(events))
		case http.MethodPost:
			user, ok := authenticate(w, r, sessions)
			if !ok {
				return
			}
			if !requireRole(w, user, domain.RoleOrganizer, domain.RoleAdmin) {
				return
			}

			var req createEventRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}
			in, msg, ok := req.toInput(user.ID)
			if !ok {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, msg)
				return
			}

			event, err := svc.RequestEventCreation(r.Context(), in)
			if err != nil {
				writeDomainError(w, err)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(toEventResponse(event))
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		}
	}
}

type updateEventRequest struct {
	Title       *string          `json:"title"`
	VenueName   *string          `json:"venueName"`
	DateTime    *string          `json:"dateTime"`
	MinResale   *decimal.Decimal `json:"minResale"`
	MaxResale   *decimal.Decimal `json:"maxResale"`
	Description *string          `json:"description"`
	ImageURL    *string          `json:"imageUrl"`
}

// HandleEventItem serves a single event and its sub-resources:
//
//	GET   /events/{id}
//	PATCH /events/{id}
//	GET   /events/{id}/seats
//	GET   /events/{id}/resale
func HandleEventItem(svc EventCatalog, seats SeatLister, resale ResaleLister, sessions SessionResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rest := strings.TrimPrefix(r.URL.Path, "/events/")
		parts := strings.Split(strings.Trim(rest, "/"), "/")
		if len(parts) == 0 || parts[0] == "" {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}
		eventID := parts[0]

		if len(parts) == 2 {
			if r.Method != http.MethodGet {
				writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
				return
			}
			switch parts[1] {
			case "seats":
				list, err := seats.ListSeats(r.Context(), eventID)
				if err != nil {
					writeDomainError(w, err)
					return
				}
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(toSeatResponses(list))
			case "resale":
				list, err := resale.ListResaleTickets(r.Context(), eventID)
				if err != nil {
					writeDomainError(w, err)
					return
				}
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(toTicketResponses(list))
			default:
				writeError(w, http.StatusNotFound, codeNotFound, "not found")
			}
			return
		}
		if len(parts) != 1 {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		switch r.Method {
		case http.MethodGet:
			event, err := svc.GetEvent(r.Context(), eventID)
			if err != nil {
				writeDomainError(w, err)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(toEventResponse(event))
		case http.MethodPatch:
			user, ok := authenticate(w, r, sessions)
			if !ok {
				return
			}

			event, err := svc.GetEvent(r.Context(), eventID)
			if err != nil {
				writeDomainError(w, err)
				return
			}
			if !user.IsAdmin() && event.OrganizerID != user.ID {
				writeError(w, http.StatusForbidden, codeForbidden, "forbidden")
				return
			}

			var req updateEventRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}
			in := app.UpdateEventInput{
				Title:       req.Title,
				VenueName:   req.VenueName,
				MinResale:   req.MinResale,
				MaxResale:   req.MaxResale,
				Description: req.Description,
				ImageURL:    req.ImageURL,
			}
			if req.DateTime != nil {
				parsed, perr := time.Parse(time.RFC3339, *req.DateTime)
				if perr != nil {
					writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid dateTime format")
					return
				}
				in.DateTime = &parsed
			}

			updated, err := svc.UpdateEvent(r.Context(), eventID, in)
			if err != nil {
				writeDomainError(w, err)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(toEventResponse(updated))
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		}
	}
}

// EventAdminService is the minimal interface the admin event endpoints need.
type EventAdminService interface {
	CreateEvent(ctx context.Context, in app.CreateEventInput) (domain.Event, error)
	ListPendingEvents(ctx context.Context) ([]domain.Event, error)
	ApproveEvent(ctx context.Context, id string) (domain.Event, error)
	RejectEvent(ctx context.Context, id string) (domain.Event, error)
	CloseEvent(ctx context.Context, id string) (domain.Event, error)
	ResetEventData(ctx context.Context, eventID string) error
}

// HandleAdminEvents serves the admin event collection: pending listing and
// direct (pre-approved) creation.
func HandleAdminEvents(svc EventAdminService, sessions SessionResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := authenticate(w, r, sessions)
		if !ok {
			return
		}
		if !requireRole(w, user, domain.RoleAdmin) {
			return
		}

		switch r.Method {
		case http.MethodGet:
			events, err := svc.ListPendingEvents(r.Context())
			if err != nil {
				writeDomainError(w, err)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(toEventResponses(events))
		case http.MethodPost:
			var req createEventRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}
			in, msg, ok := req.toInput(user.ID)
			if !ok {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, msg)
				return
			}

			event, err := svc.CreateEvent(r.Context(), in)
			if err != nil {
				writeDomainError(w, err)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(toEventResponse(event))
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		}
	}
}

// HandleAdminEventActions serves the admin lifecycle actions:
//
//	POST /admin/events/{id}/approve
//	POST /admin/events/{id}/reject
//	POST /admin/events/{id}/close
//	POST /admin/events/{id}/reset
func HandleAdminEventActions(svc EventAdminService, sessions SessionResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}
		user, ok := authenticate(w, r, sessions)
		if !ok {
			return
		}
		if !requireRole(w, user, domain.RoleAdmin) {
			return
		}

		rest := strings.TrimPrefix(r.URL.Path, "/admin/events/")
		parts := strings.Split(strings.Trim(rest, "/"), "/")
		if len(parts) != 2 || parts[0] == "" {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}
		eventID := parts[0]

		switch parts[1] {
		case "approve":
			respondEventAction(w, svc.ApproveEvent)(r.Context(), eventID)
		case "reject":
			respondEventAction(w, svc.RejectEvent)(r.Context(), eventID)
		case "close":
			respondEventAction(w, svc.CloseEvent)(r.Context(), eventID)
		case "reset":
			if err := svc.ResetEventData(r.Context(), eventID); err != nil {
				writeDomainError(w, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		default:
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
		}
	}
}

func respondEventAction(w http.ResponseWriter, action func(ctx context.Context, id string) (domain.Event, error)) func(ctx context.Context, id string) {
	return func(ctx context.Context, id string) {
		event, err := action(ctx, id)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(toEventResponse(event))
	}
}
