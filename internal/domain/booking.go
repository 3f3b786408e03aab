package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingPending           BookingStatus = "PENDING"
	BookingCompleted         BookingStatus = "COMPLETED"
	BookingExpired           BookingStatus = "EXPIRED"
	BookingCancelled         BookingStatus = "CANCELLED"
	BookingTransferRequested BookingStatus = "TRANSFER_REQUESTED"
)

// Booking records a buyer's intent to purchase a fixed set of held seats.
// SeatIDs never change after creation; the record is kept as the purchase
// history once completed.
type Booking struct {
	ID         string
	ConsumerID string
	EventID    string
	SeatIDs    []string
	TotalPrice decimal.Decimal
	Status     BookingStatus
	Expiry     *time.Time
}

// Complete finishes a pending (or transfer-requested, via CompleteTransfer)
// booking and clears the purchase timer.
func (b *Booking) Complete() {
	b.Status = BookingCompleted
	b.Expiry = nil
}

// Cancel rejects cancellation of completed bookings; all sales are final.
func (b *Booking) Cancel() error {
	if b.Status == BookingCompleted {
		return ErrBookingCompleted
	}
	b.Status = BookingCancelled
	return nil
}

func (b *Booking) MarkExpired() {
	b.Status = BookingExpired
}

// Expired reports whether the purchase window has closed.
func (b *Booking) Expired(now time.Time) bool {
	return b.Expiry != nil && now.After(*b.Expiry)
}
