package app

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/xDbibix/Better-Ticketmaster/internal/clock"
	"github.com/xDbibix/Better-Ticketmaster/internal/domain"
)

func TestBookingService_CreateBooking(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ttl := 10 * time.Minute

	store := newFakeStore()
	store.events["event-1"] = domain.Event{ID: "event-1", Status: domain.EventApproved}
	seatSvc := NewSeatService(store, store, clock.NewFixed(now), zap.NewNop())
	svc := NewBookingService(store, store, store, seatSvc, store, &fakeNotifier{}, clock.NewFixed(now), zap.NewNop(), WithBookingTTL(ttl))

	t.Run("creates pending booking with expiry", func(t *testing.T) {
		booking, err := svc.CreateBooking(context.Background(), CreateBookingInput{
			ConsumerID: "user-1",
			EventID:    "event-1",
			SeatIDs:    []string{"s1", "s2"},
			TotalPrice: decimal.NewFromInt(50),
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if booking.Status != domain.BookingPending {
			t.Fatalf("expected PENDING, got %s", booking.Status)
		}
		if booking.Expiry == nil || !booking.Expiry.Equal(now.Add(ttl)) {
			t.Fatalf("expected expiry %v, got %v", now.Add(ttl), booking.Expiry)
		}
	})

	t.Run("rejects empty seat list", func(t *testing.T) {
		_, err := svc.CreateBooking(context.Background(), CreateBookingInput{
			ConsumerID: "user-1",
			EventID:    "event-1",
			TotalPrice: decimal.NewFromInt(50),
		})
		if err != domain.ErrSeatIDsRequired {
			t.Fatalf("expected ErrSeatIDsRequired, got %v", err)
		}
	})

	t.Run("rejects negative price", func(t *testing.T) {
		_, err := svc.CreateBooking(context.Background(), CreateBookingInput{
			ConsumerID: "user-1",
			EventID:    "event-1",
			SeatIDs:    []string{"s1"},
			TotalPrice: decimal.NewFromInt(-1),
		})
		if err != domain.ErrInvalidPrice {
			t.Fatalf("expected ErrInvalidPrice, got %v", err)
		}
	})

	t.Run("rejects unknown event", func(t *testing.T) {
		_, err := svc.CreateBooking(context.Background(), CreateBookingInput{
			ConsumerID: "user-1",
			EventID:    "nope",
			SeatIDs:    []string{"s1"},
			TotalPrice: decimal.NewFromInt(10),
		})
		if err != domain.ErrEventNotFound {
			t.Fatalf("expected ErrEventNotFound, got %v", err)
		}
	})
}

func TestBookingService_CompleteBooking(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	type fixture struct {
		store    *fakeStore
		notifier *fakeNotifier
		clk      *clock.Manual
		svc      *BookingService
	}

	makeFixture := func() fixture {
		store := newFakeStore()
		clk := clock.NewManual(now)
		notifier := &fakeNotifier{}
		store.events["event-1"] = domain.Event{ID: "event-1", Status: domain.EventApproved, DateTime: now.Add(24 * time.Hour)}
		store.users["user-1"] = domain.User{ID: "user-1", Email: "user@example.com", Name: "Pat", Role: domain.RoleConsumer}

		holdUntil := now.Add(5 * time.Minute)
		store.seats["s1"] = domain.Seat{ID: "s1", EventID: "event-1", Status: domain.SeatHeld, HoldUntil: &holdUntil, Price: decimal.NewFromInt(25)}
		store.seats["s2"] = domain.Seat{ID: "s2", EventID: "event-1", Status: domain.SeatHeld, HoldUntil: &holdUntil, Price: decimal.NewFromInt(25)}

		expiry := now.Add(10 * time.Minute)
		store.bookings["b1"] = domain.Booking{
			ID:         "b1",
			ConsumerID: "user-1",
			EventID:    "event-1",
			SeatIDs:    []string{"s1", "s2"},
			TotalPrice: decimal.NewFromInt(50),
			Status:     domain.BookingPending,
			Expiry:     &expiry,
		}

		seatSvc := NewSeatService(store, store, clk, zap.NewNop())
		svc := NewBookingService(store, store, store, seatSvc, store, notifier, clk, zap.NewNop())
		return fixture{store: store, notifier: notifier, clk: clk, svc: svc}
	}

	t.Run("sells seats, mints tickets, notifies", func(t *testing.T) {
		f := makeFixture()

		booking, err := f.svc.CompleteBooking(context.Background(), "b1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if booking.Status != domain.BookingCompleted {
			t.Fatalf("expected COMPLETED, got %s", booking.Status)
		}
		if booking.Expiry != nil {
			t.Fatalf("expected expiry cleared, got %v", booking.Expiry)
		}
		for _, id := range []string{"s1", "s2"} {
			if f.store.seats[id].Status != domain.SeatSold {
				t.Fatalf("expected %s SOLD, got %s", id, f.store.seats[id].Status)
			}
		}
		if len(f.store.tickets) != 2 {
			t.Fatalf("expected 2 tickets, got %d", len(f.store.tickets))
		}
		unit := decimal.NewFromInt(25)
		for _, ticket := range f.store.tickets {
			if ticket.OwnerID != "user-1" || ticket.BuyerID != "user-1" {
				t.Fatalf("expected user-1 as owner and buyer, got %s/%s", ticket.OwnerID, ticket.BuyerID)
			}
			if !ticket.PurchasePrice.Equal(unit) {
				t.Fatalf("expected unit price 25, got %s", ticket.PurchasePrice)
			}
			owner := f.store.users["user-1"]
			if !owner.OwnsTicket(ticket.ID) {
				t.Fatalf("expected owned set to include %s", ticket.ID)
			}
		}
		if len(f.notifier.sent) != 1 || f.notifier.sent[0].to != "user@example.com" {
			t.Fatalf("expected one confirmation mail, got %v", f.notifier.sent)
		}
	})

	t.Run("fails when a hold lapsed before completion", func(t *testing.T) {
		f := makeFixture()
		f.clk.Advance(6 * time.Minute)

		_, err := f.svc.CompleteBooking(context.Background(), "b1")
		if err != domain.ErrHoldExpired {
			t.Fatalf("expected ErrHoldExpired, got %v", err)
		}
		if f.store.seats["s1"].Status != domain.SeatHeld {
			t.Fatalf("expected no seat mutation, got %s", f.store.seats["s1"].Status)
		}
		if len(f.store.tickets) != 0 {
			t.Fatalf("expected no tickets, got %d", len(f.store.tickets))
		}
	})

	t.Run("expired booking is marked and rejected", func(t *testing.T) {
		f := makeFixture()
		f.clk.Advance(11 * time.Minute)

		_, err := f.svc.CompleteBooking(context.Background(), "b1")
		if err != domain.ErrBookingExpired {
			t.Fatalf("expected ErrBookingExpired, got %v", err)
		}
		if f.store.bookings["b1"].Status != domain.BookingExpired {
			t.Fatalf("expected booking EXPIRED, got %s", f.store.bookings["b1"].Status)
		}
	})

	t.Run("non-pending booking rejected", func(t *testing.T) {
		f := makeFixture()
		b := f.store.bookings["b1"]
		b.Status = domain.BookingCancelled
		f.store.bookings["b1"] = b

		_, err := f.svc.CompleteBooking(context.Background(), "b1")
		if err != domain.ErrBookingNotPending {
			t.Fatalf("expected ErrBookingNotPending, got %v", err)
		}
	})

	t.Run("closed event rejected", func(t *testing.T) {
		f := makeFixture()
		e := f.store.events["event-1"]
		e.Status = domain.EventClosed
		f.store.events["event-1"] = e

		_, err := f.svc.CompleteBooking(context.Background(), "b1")
		if err != domain.ErrEventClosed {
			t.Fatalf("expected ErrEventClosed, got %v", err)
		}
	})

	t.Run("seat never held rejected", func(t *testing.T) {
		f := makeFixture()
		s := f.store.seats["s2"]
		s.Status = domain.SeatAvailable
		s.HoldUntil = nil
		f.store.seats["s2"] = s

		_, err := f.svc.CompleteBooking(context.Background(), "b1")
		if err != domain.ErrSeatNotHeld {
			t.Fatalf("expected ErrSeatNotHeld, got %v", err)
		}
	})
}

func TestBookingService_CancelAndTransfer(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	makeSvc := func(status domain.BookingStatus) (*BookingService, *fakeStore) {
		store := newFakeStore()
		store.events["event-1"] = domain.Event{ID: "event-1", Status: domain.EventApproved}
		store.bookings["b1"] = domain.Booking{ID: "b1", ConsumerID: "user-1", EventID: "event-1", SeatIDs: []string{"s1"}, Status: status}
		seatSvc := NewSeatService(store, store, clock.NewFixed(now), zap.NewNop())
		svc := NewBookingService(store, store, store, seatSvc, store, &fakeNotifier{}, clock.NewFixed(now), zap.NewNop())
		return svc, store
	}

	t.Run("cancel pending booking", func(t *testing.T) {
		svc, store := makeSvc(domain.BookingPending)
		booking, err := svc.CancelBooking(context.Background(), "b1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if booking.Status != domain.BookingCancelled {
			t.Fatalf("expected CANCELLED, got %s", booking.Status)
		}
		if store.bookings["b1"].Status != domain.BookingCancelled {
			t.Fatalf("expected persisted CANCELLED, got %s", store.bookings["b1"].Status)
		}
	})

	t.Run("cancel completed booking rejected", func(t *testing.T) {
		svc, _ := makeSvc(domain.BookingCompleted)
		_, err := svc.CancelBooking(context.Background(), "b1")
		if err != domain.ErrBookingCompleted {
			t.Fatalf("expected ErrBookingCompleted, got %v", err)
		}
	})

	t.Run("transfer request then complete", func(t *testing.T) {
		svc, store := makeSvc(domain.BookingPending)

		booking, err := svc.RequestTransfer(context.Background(), "b1", "user-2")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if booking.Status != domain.BookingTransferRequested {
			t.Fatalf("expected TRANSFER_REQUESTED, got %s", booking.Status)
		}

		booking, err = svc.CompleteTransfer(context.Background(), "b1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if booking.Status != domain.BookingCompleted {
			t.Fatalf("expected COMPLETED, got %s", booking.Status)
		}
		if store.bookings["b1"].Status != domain.BookingCompleted {
			t.Fatalf("expected persisted COMPLETED, got %s", store.bookings["b1"].Status)
		}
	})

	t.Run("complete transfer without request rejected", func(t *testing.T) {
		svc, _ := makeSvc(domain.BookingPending)
		_, err := svc.CompleteTransfer(context.Background(), "b1")
		if err != domain.ErrNoTransferRequested {
			t.Fatalf("expected ErrNoTransferRequested, got %v", err)
		}
	})
}
