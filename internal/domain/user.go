package domain

type Role string

const (
	RoleAdmin     Role = "ADMIN"     // full access, can use the venue builder
	RoleOrganizer Role = "ORGANIZER" // can create and manage events
	RoleConsumer  Role = "CONSUMER"  // buy, sell, transfer tickets
)

// User is a single entity with a role tag; capability checks replace any
// subtype hierarchy. OwnedTicketIDs is a back-reference for listing — the
// authoritative owner of a ticket is Ticket.OwnerID.
type User struct {
	ID             string
	Email          string
	PasswordHash   string
	Name           string
	Role           Role
	OwnedTicketIDs []string
}

func (u *User) IsAdmin() bool     { return u.Role == RoleAdmin }
func (u *User) IsOrganizer() bool { return u.Role == RoleOrganizer }
func (u *User) IsConsumer() bool  { return u.Role == RoleConsumer }

// AddOwnedTicket appends the ticket id if absent; safe to retry.
func (u *User) AddOwnedTicket(ticketID string) {
	if ticketID == "" || u.OwnsTicket(ticketID) {
		return
	}
	u.OwnedTicketIDs = append(u.OwnedTicketIDs, ticketID)
}

// RemoveOwnedTicket drops the ticket id if present; safe to retry.
func (u *User) RemoveOwnedTicket(ticketID string) {
	for i, id := range u.OwnedTicketIDs {
		if id == ticketID {
			u.OwnedTicketIDs = append(u.OwnedTicketIDs[:i], u.OwnedTicketIDs[i+1:]...)
			return
		}
	}
}

func (u *User) OwnsTicket(ticketID string) bool {
	for _, id := range u.OwnedTicketIDs {
		if id == ticketID {
			return true
		}
	}
	return false
}
