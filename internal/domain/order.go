package domain

import "time"

// Order records one successful purchase against a ticket pool. Immutable
// after creation.
type Order struct {
	ID              int64
	TicketID        int64
	UserID          int64
	PurchasedAmount int
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Ticket          *Ticket
}
