package dto

import (
	"time"

	"github.com/spec-kit/event-ticketing/internal/domain"
)

// OrderCreateRequest payload for a purchase.
type OrderCreateRequest struct {
	TicketID        int64 `json:"ticket_id"`
	PurchasedAmount int   `json:"purchased_amount"`
}

// OrderResponse is the public shape of an order.
type OrderResponse struct {
	ID              int64           `json:"id"`
	PurchasedAmount int             `json:"purchased_amount"`
	CreatedAt       time.Time       `json:"created_at"`
	Ticket          *TicketResponse `json:"ticket,omitempty"`
}

// FromOrder maps a domain order onto the response shape.
func FromOrder(order *domain.Order) OrderResponse {
	resp := OrderResponse{
		ID:              order.ID,
		PurchasedAmount: order.PurchasedAmount,
		CreatedAt:       order.CreatedAt,
	}
	if order.Ticket != nil {
		ticket := FromTicket(order.Ticket)
		resp.Ticket = &ticket
	}
	return resp
}

// FromOrders maps a slice of domain orders.
func FromOrders(orders []domain.Order) []OrderResponse {
	result := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		result = append(result, FromOrder(&orders[i]))
	}
	return result
}
