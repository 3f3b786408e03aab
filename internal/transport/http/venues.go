package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/xDbibix/Better-Ticketmaster/internal/app"
	"github.com/xDbibix/Better-Ticketmaster/internal/domain"
)

// VenueBuilder is the minimal interface the venue builder endpoints need.
type VenueBuilder interface {
	CreateVenue(ctx context.Context, in app.CreateVenueInput) (domain.Venue, error)
	GetVenue(ctx context.Context, id string) (domain.Venue, error)
	ListVenues(ctx context.Context) ([]domain.Venue, error)
	CreateLayout(ctx context.Context, in app.CreateLayoutInput) (domain.Layout, error)
	ListLayoutsByVenue(ctx context.Context, venueID string) ([]domain.Layout, error)
	CreateSection(ctx context.Context, in app.CreateSectionInput) (domain.SectionTemplate, error)
	ListSectionsByLayout(ctx context.Context, layoutID string) ([]domain.SectionTemplate, error)
}

type venueResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
	Type     string `json:"type"`
}

func toVenueResponse(v domain.Venue) venueResponse {
	return venueResponse{
		ID:       v.ID,
		Name:     v.Name,
		Location: v.Location,
		Type:     string(v.Type),
	}
}

type layoutResponse struct {
	ID       string `json:"id"`
	VenueID  string `json:"venueId"`
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl,omitempty"`
}

func toLayoutResponse(l domain.Layout) layoutResponse {
	return layoutResponse{
		ID:       l.ID,
		VenueID:  l.VenueID,
		Name:     l.Name,
		ImageURL: l.ImageURL,
	}
}

type sectionResponse struct {
	ID            string   `json:"id"`
	LayoutID      string   `json:"layoutId"`
	SectionName   string   `json:"sectionName"`
	SectionType   string   `json:"sectionType"`
	Rows          []string `json:"rows"`
	SeatsPerRow   int      `json:"seatsPerRow"`
	Capacity      int      `json:"capacity"`
	DisabledSeats []string `json:"disabledSeats"`
}

func toSectionResponse(s domain.SectionTemplate) sectionResponse {
	disabled := make([]string, 0, len(s.DisabledSeats))
	for key := range s.DisabledSeats {
		disabled = append(disabled, key)
	}
	rows := s.Rows
	if rows == nil {
		rows = []string{}
	}
	return sectionResponse{
		ID:            s.ID,
		LayoutID:      s.LayoutID,
		SectionName:   s.SectionName,
		SectionType:   string(s.SectionType),
		Rows:          rows,
		SeatsPerRow:   s.SeatsPerRow,
		Capacity:      s.Capacity,
		DisabledSeats: disabled,
	}
}

type createVenueRequest struct {
	Name     string `json:"name"`
	Location string `json:"location"`
	Type     string `json:"type"`
}

// HandleAdminVenues serves the venue collection for admins.
func HandleAdminVenues(svc VenueBuilder, sessions SessionResolver) http.HandlerFunc {
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
			venues, err := svc.ListVenues(r.Context())
			if err != nil {
				writeDomainError(w, err)
				return
			}
			resp := make([]venueResponse, 0, len(venues))
			for _, v := range venues {
				resp = append(resp, toVenueResponse(v))
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(resp)
		case http.MethodPost:
			var req createVenueRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}

			venue, err := svc.CreateVenue(r.Context(), app.CreateVenueInput{
				Name:     req.Name,
				Location: req.Location,
				Type:     domain.VenueType(req.Type),
			})
			if err != nil {
				writeDomainError(w, err)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(toVenueResponse(venue))
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		}
	}
}

type createLayoutRequest struct {
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl"`
}

// HandleAdminVenueItem serves a single venue and its layouts:
//
//	GET  /admin/venues/{id}
//	GET  /admin/venues/{id}/layouts
//	POST /admin/venues/{id}/layouts
func HandleAdminVenueItem(svc VenueBuilder, sessions SessionResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := authenticate(w, r, sessions)
		if !ok {
			return
		}
		if !requireRole(w, user, domain.RoleAdmin) {
			return
		}

		rest := strings.TrimPrefix(r.URL.Path, "/admin/venues/")
		parts := strings.Split(strings.Trim(rest, "/"), "/")
		if len(parts) == 0 || parts[0] == "" {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}
		venueID := parts[0]

		if len(parts) == 1 {
			if r.Method != http.MethodGet {
				writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
				return
			}
			venue, err := svc.GetVenue(r.Context(), venueID)
			if err != nil {
				writeDomainError(w, err)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(toVenueResponse(venue))
			return
		}
		if len(parts) != 2 || parts[1] != "layouts" {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		switch r.Method {
		case http.MethodGet:
			layouts, err := svc.ListLayoutsByVenue(r.Context(), venueID)
			if err != nil {
				writeDomainError(w, err)
				return
			}
			resp := make([]layoutResponse, 0, len(layouts))
			for _, l := range layouts {
				resp = append(resp, toLayoutResponse(l))
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(resp)
		case http.MethodPost:
			var req createLayoutRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}

			layout, err := svc.CreateLayout(r.Context(), app.CreateLayoutInput{
				VenueID:  venueID,
				Name:     req.Name,
				ImageURL: req.ImageURL,
			})
			if err != nil {
				writeDomainError(w, err)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(toLayoutResponse(layout))
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		}
	}
}

type createSectionRequest struct {
	SectionName   string   `json:"sectionName"`
	SectionType   string   `json:"sectionType"`
	Rows          []string `json:"rows"`
	SeatsPerRow   int      `json:"seatsPerRow"`
	Capacity      int      `json:"capacity"`
	DisabledSeats []string `json:"disabledSeats"`
}

// HandleAdminLayoutSections serves a layout's section templates:
//
//	GET  /admin/layouts/{id}/sections
//	POST /admin/layouts/{id}/sections
func HandleAdminLayoutSections(svc VenueBuilder, sessions SessionResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := authenticate(w, r, sessions)
		if !ok {
			return
		}
		if !requireRole(w, user, domain.RoleAdmin) {
			return
		}

		rest := strings.TrimPrefix(r.URL.Path, "/admin/layouts/")
		parts := strings.Split(strings.Trim(rest, "/"), "/")
		if len(parts) != 2 || parts[0] == "" || parts[1] != "sections" {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}
		layoutID := parts[0]

		switch r.Method {
		case http.MethodGet:
			sections, err := svc.ListSectionsByLayout(r.Context(), layoutID)
			if err != nil {
				writeDomainError(w, err)
				return
			}
			resp := make([]sectionResponse, 0, len(sections))
			for _, s := range sections {
				resp = append(resp, toSectionResponse(s))
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(resp)
		case http.MethodPost:
			var req createSectionRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}

			section, err := svc.CreateSection(r.Context(), app.CreateSectionInput{
				LayoutID:      layoutID,
				SectionName:   req.SectionName,
				SectionType:   domain.SectionType(req.SectionType),
				Rows:          req.Rows,
				SeatsPerRow:   req.SeatsPerRow,
				Capacity:      req.Capacity,
				DisabledSeats: req.DisabledSeats,
			})
			if err != nil {
				writeDomainError(w, err)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(toSectionResponse(section))
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		}
	}
}
