package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type EventStatus string

const (
	EventPending  EventStatus = "PENDING"
	EventApproved EventStatus = "APPROVED"
	EventRejected EventStatus = "REJECTED"
	EventClosed   EventStatus = "CLOSED"
)

// Event is read-only policy input for the core: a closed event blocks all
// seat and ticket mutation, the resale window bounds listing prices, and
// transfers stop once the event has started.
type Event struct {
	ID          string
	OrganizerID string
	LayoutID    string
	Title       string
	VenueName   string
	Status      EventStatus
	DateTime    time.Time
	MinResale   decimal.Decimal
	MaxResale   decimal.Decimal
	Description string
	ImageURL    string
}

// ValidResalePrice checks the organizer's window; both bounds are inclusive.
func (e *Event) ValidResalePrice(price decimal.Decimal) bool {
	return price.GreaterThanOrEqual(e.MinResale) && price.LessThanOrEqual(e.MaxResale)
}

func (e *Event) Started(now time.Time) bool {
	return now.After(e.DateTime)
}

func (e *Event) Closed() bool {
	return e.Status == EventClosed
}
