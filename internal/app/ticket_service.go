package app

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/xDbibix/Better-Ticketmaster/internal/clock"
	"github.com/xDbibix/Better-Ticketmaster/internal/domain"
	"github.com/xDbibix/Better-Ticketmaster/internal/metrics"
)

// TicketStore is ticket persistence plus the transaction hook. A resale
// purchase rewrites the ticket and two users' owned sets as one logical unit;
// WithTx makes that a real transaction where the store supports one.
type TicketStore interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetTicket(ctx context.Context, id string) (domain.Ticket, error)
	UpdateTicket(ctx context.Context, t domain.Ticket) error
	ListResaleByEvent(ctx context.Context, eventID string) ([]domain.Ticket, error)
	ListTicketsByOwner(ctx context.Context, ownerID string) ([]domain.Ticket, error)
}

// UserFinder extends UserStore with email lookup for direct transfers.
type UserFinder interface {
	UserStore
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)
}

// TicketService is the ownership and resale ledger. Listing rights belong to
// the current owner; BuyerID is provenance and changes only through a market
// purchase.
type TicketService struct {
	tickets TicketStore
	users   UserFinder
	events  EventGetter
	clock   clock.Clock
}

func NewTicketService(tickets TicketStore, users UserFinder, events EventGetter, clk clock.Clock) *TicketService {
	return &TicketService{
		tickets: tickets,
		users:   users,
		events:  events,
		clock:   clk,
	}
}

// ResellTicket lists a ticket on the resale market at the given price. The
// price must sit inside the organizer's window, bounds inclusive.
func (s *TicketService) ResellTicket(ctx context.Context, ticketID string, price decimal.Decimal, requesterID string) (domain.Ticket, error) {
	ticket, err := s.tickets.GetTicket(ctx, ticketID)
	if err != nil {
		return domain.Ticket{}, err
	}
	if ticket.OwnerID != requesterID {
		return domain.Ticket{}, domain.ErrNotOwner
	}

	event, err := s.events.GetEvent(ctx, ticket.EventID)
	if err != nil {
		return domain.Ticket{}, err
	}
	if event.Closed() {
		return domain.Ticket{}, domain.ErrEventClosed
	}
	if event.Started(s.clock.Now()) {
		return domain.Ticket{}, domain.ErrEventStarted
	}
	if !event.ValidResalePrice(price) {
		return domain.Ticket{}, domain.ErrResalePriceOutOfRange
	}

	ticket.ListForResale(price)
	if err := s.tickets.UpdateTicket(ctx, ticket); err != nil {
		return domain.Ticket{}, err
	}
	return ticket, nil
}

// PurchaseResale moves a listed ticket to the buyer: owner and buyer-of-record
// reassigned, listing cleared, and both users' owned sets updated. The whole
// unit commits or none of it does; a partial failure surfaces as an error.
func (s *TicketService) PurchaseResale(ctx context.Context, ticketID, buyerID string) (domain.Ticket, error) {
	ticket, err := s.tickets.GetTicket(ctx, ticketID)
	if err != nil {
		return domain.Ticket{}, err
	}
	if !ticket.Resale {
		return domain.Ticket{}, domain.ErrTicketNotForResale
	}

	event, err := s.events.GetEvent(ctx, ticket.EventID)
	if err != nil {
		return domain.Ticket{}, err
	}
	if event.Closed() {
		return domain.Ticket{}, domain.ErrEventClosed
	}
	if event.Started(s.clock.Now()) {
		return domain.Ticket{}, domain.ErrEventStarted
	}

	previousOwnerID := ticket.OwnerID
	ticket.CompleteResaleTo(buyerID)

	err = s.tickets.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.tickets.UpdateTicket(txCtx, ticket); err != nil {
			return err
		}
		if prev, gerr := s.users.GetUser(txCtx, previousOwnerID); gerr == nil {
			prev.RemoveOwnedTicket(ticket.ID)
			if uerr := s.users.UpdateUser(txCtx, prev); uerr != nil {
				return uerr
			}
		}
		if buyer, gerr := s.users.GetUser(txCtx, buyerID); gerr == nil {
			buyer.AddOwnedTicket(ticket.ID)
			if uerr := s.users.UpdateUser(txCtx, buyer); uerr != nil {
				return uerr
			}
		}
		return nil
	})
	if err != nil {
		return domain.Ticket{}, err
	}

	metrics.TrackResalePurchase()
	return ticket, nil
}

type TransferTicketInput struct {
	TicketID    string
	RequesterID string
	ToEmail     string
}

// TransferTicket hands a ticket to another user outside the market. The
// original purchaser's identity stays on the ticket; only ownership moves.
// Listed tickets must be delisted first, and transfers stop at event start.
func (s *TicketService) TransferTicket(ctx context.Context, in TransferTicketInput) (domain.Ticket, error) {
	if in.ToEmail == "" {
		return domain.Ticket{}, domain.ErrRecipientRequired
	}

	ticket, err := s.tickets.GetTicket(ctx, in.TicketID)
	if err != nil {
		return domain.Ticket{}, err
	}
	if ticket.OwnerID != in.RequesterID {
		return domain.Ticket{}, domain.ErrNotOwner
	}
	if ticket.Resale {
		return domain.Ticket{}, domain.ErrTicketListed
	}

	event, err := s.events.GetEvent(ctx, ticket.EventID)
	if err != nil {
		return domain.Ticket{}, err
	}
	if event.Started(s.clock.Now()) {
		return domain.Ticket{}, domain.ErrEventStarted
	}

	recipient, err := s.users.GetUserByEmail(ctx, in.ToEmail)
	if err != nil {
		return domain.Ticket{}, err
	}
	if recipient.ID == in.RequesterID {
		return domain.Ticket{}, domain.ErrTransferToSelf
	}

	ticket.TransferTo(recipient.ID)
	if err := s.tickets.UpdateTicket(ctx, ticket); err != nil {
		return domain.Ticket{}, err
	}
	return ticket, nil
}

// ListResaleTickets returns the event's open listings; a closed event lists
// nothing.
func (s *TicketService) ListResaleTickets(ctx context.Context, eventID string) ([]domain.Ticket, error) {
	event, err := s.events.GetEvent(ctx, eventID)
	if err == nil && event.Closed() {
		return []domain.Ticket{}, nil
	}
	return s.tickets.ListResaleByEvent(ctx, eventID)
}

func (s *TicketService) ListByOwner(ctx context.Context, ownerID string) ([]domain.Ticket, error) {
	return s.tickets.ListTicketsByOwner(ctx, ownerID)
}
