package dto

import (
	"time"

	"github.com/spec-kit/event-ticketing/internal/domain"
)

// TicketCreateRequest payload for opening a pool.
type TicketCreateRequest struct {
	EventID  int64 `json:"event_id"`
	Quantity int   `json:"quantity"`
}

// ReplenishRequest payload for restocking a pool.
type ReplenishRequest struct {
	Amount int `json:"amount"`
}

// TicketResponse is the public shape of a ticket pool.
type TicketResponse struct {
	ID        int64          `json:"id"`
	EventID   int64          `json:"event_id"`
	Quantity  int            `json:"quantity"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	Event     *EventResponse `json:"event,omitempty"`
}

// FromTicket maps a domain ticket onto the response shape.
func FromTicket(ticket *domain.Ticket) TicketResponse {
	resp := TicketResponse{
		ID:        ticket.ID,
		EventID:   ticket.EventID,
		Quantity:  ticket.Quantity,
		CreatedAt: ticket.CreatedAt,
		UpdatedAt: ticket.UpdatedAt,
	}
	if ticket.Event != nil {
		event := FromEvent(ticket.Event)
		resp.Event = &event
	}
	return resp
}
