package domain

import "errors"

// Not found.
var (
	ErrSeatNotFound    = errors.New("seat not found")
	ErrBookingNotFound = errors.New("booking not found")
	ErrTicketNotFound  = errors.New("ticket not found")
	ErrEventNotFound   = errors.New("event not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrVenueNotFound   = errors.New("venue not found")
	ErrLayoutNotFound  = errors.New("layout not found")
)

// Conflicts. ErrVersionConflict is the only retryable one: a concurrent
// writer won the compare-and-swap, the request itself may still be valid.
var (
	ErrVersionConflict     = errors.New("concurrent modification")
	ErrSeatSold            = errors.New("seat is sold")
	ErrSeatNotAvailable    = errors.New("seat is not available")
	ErrSeatNotHeld         = errors.New("seat is not held")
	ErrEventClosed         = errors.New("event is closed")
	ErrEventStarted        = errors.New("event already started")
	ErrBookingNotPending   = errors.New("booking is not pending")
	ErrBookingCompleted    = errors.New("completed bookings cannot be cancelled")
	ErrNoTransferRequested = errors.New("no transfer requested")
	ErrTicketNotForResale  = errors.New("ticket is not listed for resale")
	ErrTicketListed        = errors.New("ticket is listed for resale")
	ErrNotOwner            = errors.New("not the ticket owner")
	ErrEmailTaken          = errors.New("email already registered")
)

// Validation, rejected before any mutation.
var (
	ErrSeatIDsRequired       = errors.New("seatIds is required")
	ErrSeatsMixedEvents      = errors.New("all seats must belong to the same event")
	ErrInvalidPrice          = errors.New("invalid price")
	ErrResalePriceOutOfRange = errors.New("resale price outside the organizer min/max range")
	ErrInvalidResaleBounds   = errors.New("minResale must not exceed maxResale")
	ErrEventTitleRequired    = errors.New("event title required")
	ErrVenueNameRequired     = errors.New("venue name required")
	ErrLayoutNameRequired    = errors.New("layout name required")
	ErrSectionNameRequired   = errors.New("section name required")
	ErrInvalidCapacity       = errors.New("capacity must be positive")
	ErrInvalidSeatsPerRow    = errors.New("seatsPerRow must be positive")
	ErrRowsRequired          = errors.New("rows are required for a seated section")
	ErrEmailRequired         = errors.New("email is required")
	ErrPasswordRequired      = errors.New("password is required")
	ErrInvalidCredentials    = errors.New("invalid email or password")
	ErrRecipientRequired     = errors.New("recipient is required")
	ErrTransferToSelf        = errors.New("cannot transfer to yourself")
	ErrInvalidID             = errors.New("invalid id")
)

// Deadline passed; detection transitions state before the error is returned.
var (
	ErrBookingExpired = errors.New("booking expired")
	ErrHoldExpired    = errors.New("seat hold expired")
)

var validationErrors = []error{
	ErrSeatIDsRequired,
	ErrSeatsMixedEvents,
	ErrInvalidPrice,
	ErrResalePriceOutOfRange,
	ErrInvalidResaleBounds,
	ErrEventTitleRequired,
	ErrVenueNameRequired,
	ErrLayoutNameRequired,
	ErrSectionNameRequired,
	ErrInvalidCapacity,
	ErrInvalidSeatsPerRow,
	ErrRowsRequired,
	ErrEmailRequired,
	ErrPasswordRequired,
	ErrInvalidCredentials,
	ErrRecipientRequired,
	ErrTransferToSelf,
	ErrInvalidID,
}

// IsValidation reports whether the error is an input-validation rejection.
func IsValidation(err error) bool {
	for _, verr := range validationErrors {
		if errors.Is(err, verr) {
			return true
		}
	}
	return false
}
