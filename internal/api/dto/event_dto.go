package dto

import (
	"time"

	"github.com/spec-kit/event-ticketing/internal/domain"
)

// EventRequest payload for creating or updating an event. EventDate is
// an RFC 3339 string validated at the handler.
type EventRequest struct {
	EventName string `json:"event_name"`
	EventDate string `json:"event_date"`
}

// EventResponse is the public shape of a catalog event.
type EventResponse struct {
	ID        int64           `json:"id"`
	EventName string          `json:"event_name"`
	EventDate time.Time       `json:"event_date"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	Ticket    *TicketResponse `json:"ticket,omitempty"`
}

// FromEvent maps a domain event onto the response shape.
func FromEvent(event *domain.Event) EventResponse {
	resp := EventResponse{
		ID:        event.ID,
		EventName: event.Name,
		EventDate: event.Date,
		CreatedAt: event.CreatedAt,
		UpdatedAt: event.UpdatedAt,
	}
	if event.Ticket != nil {
		ticket := FromTicket(event.Ticket)
		resp.Ticket = &ticket
	}
	return resp
}
