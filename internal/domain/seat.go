package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type SeatStatus string

const (
	SeatAvailable SeatStatus = "AVAILABLE"
	SeatHeld      SeatStatus = "HELD"
	SeatSold      SeatStatus = "SOLD"
)

// Seat is the unit of inventory. Status transitions go through the methods
// below; SOLD is terminal. Version is the optimistic-concurrency token: every
// write is conditioned on the version read beforehand.
type Seat struct {
	ID        string
	EventID   string
	Section   string
	Row       string
	SeatNum   int
	Price     decimal.Decimal
	Status    SeatStatus
	HoldUntil *time.Time
	Version   int64
}

// Hold reserves an available seat until the given instant.
func (s *Seat) Hold(until time.Time) error {
	if s.Status != SeatAvailable {
		return ErrSeatNotAvailable
	}
	s.Status = SeatHeld
	s.HoldUntil = &until
	return nil
}

// ExtendHold pushes the deadline of an existing hold.
func (s *Seat) ExtendHold(until time.Time) error {
	if s.Status != SeatHeld {
		return ErrSeatNotHeld
	}
	s.HoldUntil = &until
	return nil
}

// Sell marks a held seat sold. HoldUntil is cleared: it only carries meaning
// while the seat is HELD.
func (s *Seat) Sell() error {
	if s.Status != SeatHeld {
		return ErrSeatNotHeld
	}
	s.Status = SeatSold
	s.HoldUntil = nil
	return nil
}

// Release returns a held seat to the available pool.
func (s *Seat) Release() error {
	if s.Status != SeatHeld {
		return ErrSeatNotHeld
	}
	s.Status = SeatAvailable
	s.HoldUntil = nil
	return nil
}

// HoldLapsed reports whether the seat shows HELD but its hold deadline has
// passed. Expiry is lazy: nothing flips the record until a reader or writer
// notices.
func (s *Seat) HoldLapsed(now time.Time) bool {
	return s.Status == SeatHeld && s.HoldUntil != nil && s.HoldUntil.Before(now)
}

// HoldLive reports whether the seat is HELD with a deadline still in the
// future.
func (s *Seat) HoldLive(now time.Time) bool {
	return s.Status == SeatHeld && s.HoldUntil != nil && s.HoldUntil.After(now)
}

func (s *Seat) Available() bool {
	return s.Status == SeatAvailable
}
