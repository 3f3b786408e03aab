package app

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xDbibix/Better-Ticketmaster/internal/clock"
	"github.com/xDbibix/Better-Ticketmaster/internal/domain"
)

func TestTicketService_ResellTicket(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	makeSvc := func() (*TicketService, *fakeStore) {
		store := newFakeStore()
		store.events["event-1"] = domain.Event{
			ID:        "event-1",
			Status:    domain.EventApproved,
			DateTime:  now.Add(24 * time.Hour),
			MinResale: decimal.NewFromInt(10),
			MaxResale: decimal.NewFromInt(100),
		}
		store.tickets["t1"] = domain.Ticket{ID: "t1", EventID: "event-1", SeatID: "s1", OwnerID: "owner-1", BuyerID: "owner-1", PurchasePrice: decimal.NewFromInt(25)}
		return NewTicketService(store, store, store, clock.NewFixed(now)), store
	}

	t.Run("lists at a price inside the window", func(t *testing.T) {
		svc, store := makeSvc()
		ticket, err := svc.ResellTicket(context.Background(), "t1", decimal.NewFromInt(40), "owner-1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !ticket.Resale || !ticket.ResalePrice.Equal(decimal.NewFromInt(40)) {
			t.Fatalf("expected listing at 40, got %v %s", ticket.Resale, ticket.ResalePrice)
		}
		if !store.tickets["t1"].Resale {
			t.Fatalf("expected listing persisted")
		}
	})

	t.Run("bounds are inclusive", func(t *testing.T) {
		svc, _ := makeSvc()
		if _, err := svc.ResellTicket(context.Background(), "t1", decimal.NewFromInt(10), "owner-1"); err != nil {
			t.Fatalf("expected min bound accepted, got %v", err)
		}
		if _, err := svc.ResellTicket(context.Background(), "t1", decimal.NewFromInt(100), "owner-1"); err != nil {
			t.Fatalf("expected max bound accepted, got %v", err)
		}
	})

	t.Run("price outside window rejected", func(t *testing.T) {
		svc, _ := makeSvc()
		if _, err := svc.ResellTicket(context.Background(), "t1", decimal.NewFromInt(9), "owner-1"); err != domain.ErrResalePriceOutOfRange {
			t.Fatalf("expected ErrResalePriceOutOfRange below min, got %v", err)
		}
		if _, err := svc.ResellTicket(context.Background(), "t1", decimal.NewFromInt(101), "owner-1"); err != domain.ErrResalePriceOutOfRange {
			t.Fatalf("expected ErrResalePriceOutOfRange above max, got %v", err)
		}
	})

	t.Run("only the owner can list", func(t *testing.T) {
		svc, _ := makeSvc()
		if _, err := svc.ResellTicket(context.Background(), "t1", decimal.NewFromInt(40), "intruder"); err != domain.ErrNotOwner {
			t.Fatalf("expected ErrNotOwner, got %v", err)
		}
	})

	t.Run("started event rejected", func(t *testing.T) {
		svc, store := makeSvc()
		e := store.events["event-1"]
		e.DateTime = now.Add(-time.Hour)
		store.events["event-1"] = e
		if _, err := svc.ResellTicket(context.Background(), "t1", decimal.NewFromInt(40), "owner-1"); err != domain.ErrEventStarted {
			t.Fatalf("expected ErrEventStarted, got %v", err)
		}
	})
}

func TestTicketService_PurchaseResale(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	makeSvc := func(listed bool) (*TicketService, *fakeStore) {
		store := newFakeStore()
		store.events["event-1"] = domain.Event{ID: "event-1", Status: domain.EventApproved, DateTime: now.Add(24 * time.Hour)}
		store.users["seller"] = domain.User{ID: "seller", OwnedTicketIDs: []string{"t1"}}
		store.users["buyer"] = domain.User{ID: "buyer"}
		store.tickets["t1"] = domain.Ticket{
			ID:          "t1",
			EventID:     "event-1",
			OwnerID:     "seller",
			BuyerID:     "seller",
			Resale:      listed,
			ResalePrice: decimal.NewFromInt(40),
		}
		return NewTicketService(store, store, store, clock.NewFixed(now)), store
	}

	t.Run("moves ownership and provenance to the buyer", func(t *testing.T) {
		svc, store := makeSvc(true)
		ticket, err := svc.PurchaseResale(context.Background(), "t1", "buyer")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if ticket.OwnerID != "buyer" || ticket.BuyerID != "buyer" {
			t.Fatalf("expected buyer as owner and buyer, got %s/%s", ticket.OwnerID, ticket.BuyerID)
		}
		if ticket.Resale || !ticket.ResalePrice.IsZero() {
			t.Fatalf("expected listing cleared, got %v %s", ticket.Resale, ticket.ResalePrice)
		}
		seller := store.users["seller"]
		if seller.OwnsTicket("t1") {
			t.Fatalf("expected seller's owned set cleared")
		}
		buyer := store.users["buyer"]
		if !buyer.OwnsTicket("t1") {
			t.Fatalf("expected buyer's owned set updated")
		}
	})

	t.Run("unlisted ticket rejected", func(t *testing.T) {
		svc, _ := makeSvc(false)
		if _, err := svc.PurchaseResale(context.Background(), "t1", "buyer"); err != domain.ErrTicketNotForResale {
			t.Fatalf("expected ErrTicketNotForResale, got %v", err)
		}
	})

	t.Run("closed event rejected", func(t *testing.T) {
		svc, store := makeSvc(true)
		e := store.events["event-1"]
		e.Status = domain.EventClosed
		store.events["event-1"] = e
		if _, err := svc.PurchaseResale(context.Background(), "t1", "buyer"); err != domain.ErrEventClosed {
			t.Fatalf("expected ErrEventClosed, got %v", err)
		}
	})
}

func TestTicketService_TransferTicket(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	makeSvc := func() (*TicketService, *fakeStore) {
		store := newFakeStore()
		store.events["event-1"] = domain.Event{ID: "event-1", Status: domain.EventApproved, DateTime: now.Add(24 * time.Hour)}
		store.users["owner-1"] = domain.User{ID: "owner-1", Email: "owner@example.com"}
		store.users["friend"] = domain.User{ID: "friend", Email: "friend@example.com"}
		store.tickets["t1"] = domain.Ticket{ID: "t1", EventID: "event-1", OwnerID: "owner-1", BuyerID: "owner-1"}
		return NewTicketService(store, store, store, clock.NewFixed(now)), store
	}

	t.Run("moves ownership, keeps purchaser of record", func(t *testing.T) {
		svc, store := makeSvc()
		ticket, err := svc.TransferTicket(context.Background(), TransferTicketInput{
			TicketID:    "t1",
			RequesterID: "owner-1",
			ToEmail:     "friend@example.com",
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if ticket.OwnerID != "friend" {
			t.Fatalf("expected friend as owner, got %s", ticket.OwnerID)
		}
		if ticket.BuyerID != "owner-1" {
			t.Fatalf("expected provenance kept, got %s", ticket.BuyerID)
		}
		if store.tickets["t1"].OwnerID != "friend" {
			t.Fatalf("expected transfer persisted")
		}
	})

	t.Run("listed ticket must be delisted first", func(t *testing.T) {
		svc, store := makeSvc()
		tk := store.tickets["t1"]
		tk.Resale = true
		store.tickets["t1"] = tk
		_, err := svc.TransferTicket(context.Background(), TransferTicketInput{
			TicketID:    "t1",
			RequesterID: "owner-1",
			ToEmail:     "friend@example.com",
		})
		if err != domain.ErrTicketListed {
			t.Fatalf("expected ErrTicketListed, got %v", err)
		}
	})

	t.Run("self transfer rejected", func(t *testing.T) {
		svc, _ := makeSvc()
		_, err := svc.TransferTicket(context.Background(), TransferTicketInput{
			TicketID:    "t1",
			RequesterID: "owner-1",
			ToEmail:     "owner@example.com",
		})
		if err != domain.ErrTransferToSelf {
			t.Fatalf("expected ErrTransferToSelf, got %v", err)
		}
	})

	t.Run("recipient required", func(t *testing.T) {
		svc, _ := makeSvc()
		_, err := svc.TransferTicket(context.Background(), TransferTicketInput{
			TicketID:    "t1",
			RequesterID: "owner-1",
		})
		if err != domain.ErrRecipientRequired {
			t.Fatalf("expected ErrRecipientRequired, got %v", err)
		}
	})
}

func TestTicketService_ListResaleTickets(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	store := newFakeStore()
	store.events["open"] = domain.Event{ID: "open", Status: domain.EventApproved}
	store.events["closed"] = domain.Event{ID: "closed", Status: domain.EventClosed}
	store.tickets["t1"] = domain.Ticket{ID: "t1", EventID: "open", OwnerID: "a", Resale: true}
	store.tickets["t2"] = domain.Ticket{ID: "t2", EventID: "open", OwnerID: "b"}
	store.tickets["t3"] = domain.Ticket{ID: "t3", EventID: "closed", OwnerID: "c", Resale: true}
	svc := NewTicketService(store, store, store, clock.NewFixed(now))

	open, err := svc.ListResaleTickets(context.Background(), "open")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(open) != 1 || open[0].ID != "t1" {
		t.Fatalf("expected only t1 listed, got %v", open)
	}

	closed, err := svc.ListResaleTickets(context.Background(), "closed")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(closed) != 0 {
		t.Fatalf("expected closed event to list nothing, got %d", len(closed))
	}
}
