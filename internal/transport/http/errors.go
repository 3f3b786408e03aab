package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/xDbibix/Better-Ticketmaster/internal/domain"
)

const (
	codeMethodNotAllowed    = "method_not_allowed"
	codeNotFound            = "not_found"
	codeInvalidRequestBody  = "invalid_request_body"
	codeForbidden           = "forbidden"
	codeUnauthorized        = "unauthorized"
	codeInternalError       = "internal_error"
	codeValidation          = "validation_failed"
	codeSeatNotFound        = "seat_not_found"
	codeBookingNotFound     = "booking_not_found"
	codeTicketNotFound      = "ticket_not_found"
	codeEventNotFound       = "event_not_found"
	codeUserNotFound        = "user_not_found"
	codeVenueNotFound       = "venue_not_found"
	codeLayoutNotFound      = "layout_not_found"
	codeVersionConflict     = "version_conflict"
	codeSeatSold            = "seat_sold"
	codeSeatNotAvailable    = "seat_not_available"
	codeSeatNotHeld         = "seat_not_held"
	codeEventClosed         = "event_closed"
	codeEventStarted        = "event_started"
	codeBookingNotPending   = "booking_not_pending"
	codeBookingCompleted    = "booking_completed"
	codeBookingExpired      = "booking_expired"
	codeHoldExpired         = "hold_expired"
	codeNoTransferRequested = "no_transfer_requested"
	codeTicketNotForResale  = "ticket_not_for_resale"
	codeTicketListed        = "ticket_listed"
	codeNotOwner            = "not_owner"
	codeEmailTaken          = "email_taken"
	codeInvalidCredentials  = "invalid_credentials"
	codeResaleOutOfRange    = "resale_price_out_of_range"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{
		Error: msg,
		Code:  code,
	})
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}

// domainErrorMapping pins each sentinel to its HTTP shape so every handler
// reports the same status and code for the same failure.
var domainErrorMapping = []struct {
	err    error
	status int
	code   string
}{
	{domain.ErrSeatNotFound, http.StatusNotFound, codeSeatNotFound},
	{domain.ErrBookingNotFound, http.StatusNotFound, codeBookingNotFound},
	{domain.ErrTicketNotFound, http.StatusNotFound, codeTicketNotFound},
	{domain.ErrEventNotFound, http.StatusNotFound, codeEventNotFound},
	{domain.ErrUserNotFound, http.StatusNotFound, codeUserNotFound},
	{domain.ErrVenueNotFound, http.StatusNotFound, codeVenueNotFound},
	{domain.ErrLayoutNotFound, http.StatusNotFound, codeLayoutNotFound},

	{domain.ErrVersionConflict, http.StatusConflict, codeVersionConflict},
	{domain.ErrSeatSold, http.StatusConflict, codeSeatSold},
	{domain.ErrSeatNotAvailable, http.StatusConflict, codeSeatNotAvailable},
	{domain.ErrSeatNotHeld, http.StatusConflict, codeSeatNotHeld},
	{domain.ErrEventClosed, http.StatusConflict, codeEventClosed},
	{domain.ErrEventStarted, http.StatusConflict, codeEventStarted},
	{domain.ErrBookingNotPending, http.StatusConflict, codeBookingNotPending},
	{domain.ErrBookingCompleted, http.StatusConflict, codeBookingCompleted},
	{domain.ErrNoTransferRequested, http.StatusConflict, codeNoTransferRequested},
	{domain.ErrTicketNotForResale, http.StatusConflict, codeTicketNotForResale},
	{domain.ErrTicketListed, http.StatusConflict, codeTicketListed},
	{domain.ErrEmailTaken, http.StatusConflict, codeEmailTaken},

	{domain.ErrBookingExpired, http.StatusGone, codeBookingExpired},
	{domain.ErrHoldExpired, http.StatusGone, codeHoldExpired},

	{domain.ErrNotOwner, http.StatusForbidden, codeNotOwner},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized, codeInvalidCredentials},
	{domain.ErrResalePriceOutOfRange, http.StatusUnprocessableEntity, codeResaleOutOfRange},
}

// writeDomainError translates service errors into the JSON envelope.
// Validation sentinels become 422s with their message; anything unmapped is
// a 500 with a generic body.
func writeDomainError(w http.ResponseWriter, err error) {
	for _, m := range domainErrorMapping {
		if errors.Is(err, m.err) {
			writeError(w, m.status, m.code, m.err.Error())
			return
		}
	}
	if domain.IsValidation(err) {
		writeError(w, http.StatusUnprocessableEntity, codeValidation, err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
