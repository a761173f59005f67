package domain

import "time"

// Ticket is the inventory pool for one event: the remaining purchasable
// quantity. The event_id column is unique, so each event has at most one
// pool. Quantity is mutated only through purchase and replenish.
type Ticket struct {
	ID        int64
	EventID   int64
	Quantity  int
	CreatedAt time.Time
	UpdatedAt time.Time
	Event     *Event
}
