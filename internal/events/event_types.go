package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventOrderCreated      EventType = "order_created"
	EventTicketReplenished EventType = "ticket_replenished"
	EventCatalogCreated    EventType = "catalog_event_created"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	UserID    *int64      `json:"user_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// OrderCreatedPayload payload.
type OrderCreatedPayload struct {
	OrderID         int64 `json:"order_id"`
	TicketID        int64 `json:"ticket_id"`
	PurchasedAmount int   `json:"purchased_amount"`
	Remaining       int   `json:"remaining"`
}

// TicketReplenishedPayload payload.
type TicketReplenishedPayload struct {
	TicketID int64 `json:"ticket_id"`
	Added    int   `json:"added"`
	Quantity int   `json:"quantity"`
}

// CatalogCreatedPayload payload.
type CatalogCreatedPayload struct {
	EventID   int64     `json:"event_id"`
	EventName string    `json:"event_name"`
	EventDate time.Time `json:"event_date"`
}
