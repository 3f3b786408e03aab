package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Ticket is minted once per sold seat. OwnerID is the current holder and the
// only identity with listing/transfer rights. BuyerID is provenance: the
// purchaser of record, reassigned only when the ticket changes hands through
// the resale market.
type Ticket struct {
	ID            string
	SeatID        string
	EventID       string
	OwnerID       string
	BuyerID       string
	PurchasePrice decimal.Decimal
	PurchasedAt   time.Time
	Resale        bool
	ResalePrice   decimal.Decimal
	QRCode        string
}

// NewPurchasedTicket mints a ticket for a freshly sold seat; owner and buyer
// start as the same person.
func NewPurchasedTicket(id, eventID, seatID, buyerID string, price decimal.Decimal, purchasedAt time.Time) Ticket {
	return Ticket{
		ID:            id,
		SeatID:        seatID,
		EventID:       eventID,
		OwnerID:       buyerID,
		BuyerID:       buyerID,
		PurchasePrice: price,
		PurchasedAt:   purchasedAt,
	}
}

func (t *Ticket) ListForResale(price decimal.Decimal) {
	t.Resale = true
	t.ResalePrice = price
}

// TransferTo hands the ticket to a new owner outside the market. BuyerID
// stays with the original purchaser; a transfer is not a resale.
func (t *Ticket) TransferTo(newOwnerID string) {
	t.OwnerID = newOwnerID
	t.Resale = false
	t.ResalePrice = decimal.Zero
}

// CompleteResaleTo finishes a market purchase: the buyer becomes both owner
// and purchaser of record, and the listing is cleared.
func (t *Ticket) CompleteResaleTo(newOwnerID string) {
	t.OwnerID = newOwnerID
	t.BuyerID = newOwnerID
	t.Resale = false
	t.ResalePrice = decimal.Zero
}
