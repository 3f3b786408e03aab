package http

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/xDbibix/Better-Ticketmaster/internal/app"
	"github.com/xDbibix/Better-Ticketmaster/internal/domain"
)

func TestHandleHoldSeats(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	holdUntil := now.Add(5 * time.Minute)
	heldSeat := domain.Seat{ID: "s1", EventID: "e1", Status: domain.SeatHeld, HoldUntil: &holdUntil}
	sessions := &stubSessions{user: domain.User{ID: "u1", Role: domain.RoleConsumer}}

	tests := []struct {
		name           string
		body           string
		serviceErr     error
		authed         bool
		expectedStatus int
		expectedSubstr string
	}{
		{
			name:           "success",
			body:           `{"seatIds":["s1"]}`,
			authed:         true,
			expectedStatus: http.StatusOK,
			expectedSubstr: `"status":"HELD"`,
		},
		{
			name:           "unauthenticated",
			body:           `{"seatIds":["s1"]}`,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "invalid json",
			body:           `{"seatIds":`,
			authed:         true,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "empty batch",
			body:           `{"seatIds":[]}`,
			serviceErr:     domain.ErrSeatIDsRequired,
			authed:         true,
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name:           "seat sold",
			body:           `{"seatIds":["s1"]}`,
			serviceErr:     domain.ErrSeatSold,
			authed:         true,
			expectedStatus: http.StatusConflict,
			expectedSubstr: `"code":"seat_sold"`,
		},
		{
			name:           "version conflict",
			body:           `{"seatIds":["s1"]}`,
			serviceErr:     domain.ErrVersionConflict,
			authed:         true,
			expectedStatus: http.StatusConflict,
			expectedSubstr: `"code":"version_conflict"`,
		},
		{
			name:           "internal error",
			body:           `{"seatIds":["s1"]}`,
			serviceErr:     errors.New("boom"),
			authed:         true,
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := &stubSeatService{seats: []domain.Seat{heldSeat}, err: tt.serviceErr}
			req := httptest.NewRequest(http.MethodPost, "/seats/hold", bytes.NewBufferString(tt.body))
			if tt.authed {
				req = withSession(req)
			}
			rec := httptest.NewRecorder()

			HandleHoldSeats(svc, sessions).ServeHTTP(rec, req)

			if rec.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d: %s", tt.expectedStatus, rec.Code, rec.Body.String())
			}
			if tt.expectedSubstr != "" && !strings.Contains(rec.Body.String(), tt.expectedSubstr) {
				t.Fatalf("expected body to contain %q, got %q", tt.expectedSubstr, rec.Body.String())
			}
		})
	}

	t.Run("method not allowed", func(t *testing.T) {
		t.Parallel()
		req := withSession(httptest.NewRequest(http.MethodGet, "/seats/hold", nil))
		rec := httptest.NewRecorder()
		HandleHoldSeats(&stubSeatService{}, sessions).ServeHTTP(rec, req)
		if rec.Code != http.StatusMethodNotAllowed {
			t.Fatalf("expected 405, got %d", rec.Code)
		}
	})
}

func TestHandleReleaseSeats(t *testing.T) {
	t.Parallel()

	sessions := &stubSessions{user: domain.User{ID: "u1", Role: domain.RoleConsumer}}

	t.Run("reports released and missing", func(t *testing.T) {
		t.Parallel()
		svc := &stubSeatService{res: app.ReleaseResult{Released: 2, MissingIDs: []string{"ghost"}}}
		req := withSession(httptest.NewRequest(http.MethodPost, "/seats/release", bytes.NewBufferString(`{"seatIds":["s1","s2","ghost"]}`)))
		rec := httptest.NewRecorder()

		HandleReleaseSeats(svc, sessions).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		body := rec.Body.String()
		if !strings.Contains(body, `"released":2`) || !strings.Contains(body, `"ghost"`) {
			t.Fatalf("unexpected body %q", body)
		}
	})
}
