package app

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/xDbibix/Better-Ticketmaster/internal/clock"
	"github.com/xDbibix/Better-Ticketmaster/internal/domain"
	"github.com/xDbibix/Better-Ticketmaster/internal/metrics"
)

// SeatStore is the seat persistence the inventory needs. UpdateSeat is a
// compare-and-swap: the write succeeds only if the stored version still equals
// expectedVersion, and the stored version is bumped on success. A lost swap is
// domain.ErrVersionConflict.
type SeatStore interface {
	GetSeat(ctx context.Context, id string) (domain.Seat, error)
	ListSeatsByEvent(ctx context.Context, eventID string) ([]domain.Seat, error)
	UpdateSeat(ctx context.Context, seat domain.Seat, expectedVersion int64) (domain.Seat, error)
}

// EventGetter gives read access to event policy (status, resale window,
// start time).
type EventGetter interface {
	GetEvent(ctx context.Context, id string) (domain.Event, error)
}

// SeatService guarantees at most one buyer ever holds or owns a given seat,
// with bounded-duration holds. There is no multi-record transaction here:
// batch holds are validate-then-apply with a compensating rollback, each
// per-seat write guarded by the version token read in the snapshot phase.
type SeatService struct {
	seats   SeatStore
	events  EventGetter
	clock   clock.Clock
	log     *zap.Logger
	holdTTL time.Duration
}

const defaultHoldTTL = 5 * time.Minute

func NewSeatService(seats SeatStore, events EventGetter, clk clock.Clock, log *zap.Logger, opts ...SeatServiceOption) *SeatService {
	svc := &SeatService{
		seats:   seats,
		events:  events,
		clock:   clk,
		log:     log,
		holdTTL: defaultHoldTTL,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type SeatServiceOption func(*SeatService)

// WithHoldTTL overrides the default hold duration.
func WithHoldTTL(d time.Duration) SeatServiceOption {
	return func(s *SeatService) {
		if d > 0 {
			s.holdTTL = d
		}
	}
}

// ListSeats returns the event's seats, first releasing any hold whose
// deadline has passed. Expiry is detected here, on read, not by a timer.
func (s *SeatService) ListSeats(ctx context.Context, eventID string) ([]domain.Seat, error) {
	seats, err := s.seats.ListSeatsByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	for i := range seats {
		if !seats[i].HoldLapsed(now) {
			continue
		}
		seat := seats[i]
		if err := seat.Release(); err != nil {
			continue
		}
		updated, err := s.seats.UpdateSeat(ctx, seat, seat.Version)
		if err != nil {
			// A concurrent writer got there first; their view wins.
			if errors.Is(err, domain.ErrVersionConflict) {
				if fresh, gerr := s.seats.GetSeat(ctx, seat.ID); gerr == nil {
					seats[i] = fresh
				}
				continue
			}
			return nil, err
		}
		seats[i] = updated
	}
	return seats, nil
}

type seatSnapshot struct {
	status    domain.SeatStatus
	holdUntil *time.Time
	version   int64
}

// HoldSeats places (or extends) a 5-minute hold on every seat in the batch,
// all-or-nothing. All seats must belong to the same, non-closed event. A seat
// already SOLD fails the whole batch before anything is written; a failure
// during the apply pass rolls every already-written seat back to its
// snapshot before the conflict is reported.
func (s *SeatService) HoldSeats(ctx context.Context, seatIDs []string) ([]domain.Seat, error) {
	if len(seatIDs) == 0 {
		return nil, domain.ErrSeatIDsRequired
	}
	seatIDs = dedupe(seatIDs)

	now := s.clock.Now()

	// Snapshot pass: record each seat's pre-call state and version.
	snapshots := make(map[string]seatSnapshot, len(seatIDs))
	eventID := ""
	for _, seatID := range seatIDs {
		seat, err := s.seats.GetSeat(ctx, seatID)
		if err != nil {
			return nil, err
		}
		snapshots[seatID] = seatSnapshot{
			status:    seat.Status,
			holdUntil: seat.HoldUntil,
			version:   seat.Version,
		}
		if eventID == "" {
			eventID = seat.EventID
		} else if seat.EventID != eventID {
			return nil, domain.ErrSeatsMixedEvents
		}
	}

	event, err := s.events.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.Closed() {
		return nil, domain.ErrEventClosed
	}

	// Validation pass: a SOLD seat rejects the whole batch with no mutation.
	// A lapsed hold counts as available here.
	for _, seatID := range seatIDs {
		if snapshots[seatID].status == domain.SeatSold {
			metrics.TrackHold(metrics.OutcomeConflict)
			return nil, domain.ErrSeatSold
		}
	}

	holdUntil := now.Add(s.holdTTL)

	// Apply pass. Every write is conditioned on the snapshot version; any
	// failure rolls back the seats already written in this call.
	applied := make([]domain.Seat, 0, len(seatIDs))
	held := make([]domain.Seat, 0, len(seatIDs))
	for _, seatID := range seatIDs {
		snap := snapshots[seatID]
		seat, gerr := s.seats.GetSeat(ctx, seatID)
		if gerr != nil {
			s.rollback(ctx, applied, snapshots)
			return nil, gerr
		}

		if seat.HoldLapsed(now) {
			if rerr := seat.Release(); rerr != nil {
				s.rollback(ctx, applied, snapshots)
				return nil, rerr
			}
		}

		switch {
		case seat.Available():
			if herr := seat.Hold(holdUntil); herr != nil {
				s.rollback(ctx, applied, snapshots)
				return nil, herr
			}
		case seat.Status == domain.SeatHeld:
			// Re-holding extends any active hold, the same or another caller.
			if herr := seat.ExtendHold(holdUntil); herr != nil {
				s.rollback(ctx, applied, snapshots)
				return nil, herr
			}
		default:
			s.rollback(ctx, applied, snapshots)
			metrics.TrackHold(metrics.OutcomeConflict)
			return nil, domain.ErrSeatNotAvailable
		}

		updated, uerr := s.seats.UpdateSeat(ctx, seat, snap.version)
		if uerr != nil {
			s.rollback(ctx, applied, snapshots)
			if errors.Is(uerr, domain.ErrVersionConflict) {
				metrics.TrackCASConflict()
				metrics.TrackHold(metrics.OutcomeConflict)
			}
			return nil, uerr
		}
		applied = append(applied, updated)
		held = append(held, updated)
	}

	metrics.TrackHold(metrics.OutcomeHeld)
	return held, nil
}

// rollback restores every seat this call already wrote to its pre-call
// snapshot. Best effort: a seat that moved again since our write is left to
// its new owner.
func (s *SeatService) rollback(ctx context.Context, applied []domain.Seat, snapshots map[string]seatSnapshot) {
	if len(applied) == 0 {
		return
	}
	metrics.TrackHold(metrics.OutcomeRollback)
	for _, seat := range applied {
		snap, ok := snapshots[seat.ID]
		if !ok {
			continue
		}
		restored := seat
		restored.Status = snap.status
		restored.HoldUntil = snap.holdUntil
		if _, err := s.seats.UpdateSeat(ctx, restored, seat.Version); err != nil {
			s.log.Warn("hold rollback failed",
				zap.String("seat_id", seat.ID),
				zap.Error(err),
			)
		}
	}
}

// ReleaseResult reports what a release batch actually did.
type ReleaseResult struct {
	Released   int
	MissingIDs []string
}

// ReleaseSeats returns held seats to the pool. Seats that are missing or not
// HELD are skipped, not errors: releasing is idempotent.
func (s *SeatService) ReleaseSeats(ctx context.Context, seatIDs []string) (ReleaseResult, error) {
	if len(seatIDs) == 0 {
		return ReleaseResult{}, domain.ErrSeatIDsRequired
	}
	seatIDs = dedupe(seatIDs)

	res := ReleaseResult{}
	for _, seatID := range seatIDs {
		seat, err := s.seats.GetSeat(ctx, seatID)
		if err != nil {
			if errors.Is(err, domain.ErrSeatNotFound) {
				res.MissingIDs = append(res.MissingIDs, seatID)
				continue
			}
			return ReleaseResult{}, err
		}
		if seat.Status != domain.SeatHeld {
			continue
		}
		if err := seat.Release(); err != nil {
			continue
		}
		if _, err := s.seats.UpdateSeat(ctx, seat, seat.Version); err != nil {
			if errors.Is(err, domain.ErrVersionConflict) {
				// Someone else already moved the seat; nothing to undo.
				continue
			}
			return ReleaseResult{}, err
		}
		res.Released++
	}
	return res, nil
}

// GetSeat reads a single seat as stored, without reconciling a lapsed hold.
// The booking completion path needs the raw state to tell an expired hold
// apart from a seat that was never held.
func (s *SeatService) GetSeat(ctx context.Context, seatID string) (domain.Seat, error) {
	return s.seats.GetSeat(ctx, seatID)
}

// SellSeat transitions a held seat to SOLD. Only the booking completion path
// calls this, after it has re-verified the hold is still live.
func (s *SeatService) SellSeat(ctx context.Context, seatID string) (domain.Seat, error) {
	seat, err := s.seats.GetSeat(ctx, seatID)
	if err != nil {
		return domain.Seat{}, err
	}
	if err := seat.Sell(); err != nil {
		return domain.Seat{}, err
	}
	updated, err := s.seats.UpdateSeat(ctx, seat, seat.Version)
	if err != nil {
		if errors.Is(err, domain.ErrVersionConflict) {
			metrics.TrackCASConflict()
		}
		return domain.Seat{}, err
	}
	metrics.TrackSeatsSold(1)
	return updated, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
