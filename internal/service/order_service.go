package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/event-ticketing/internal/domain"
	"github.com/spec-kit/event-ticketing/internal/events"
	"github.com/spec-kit/event-ticketing/internal/repository"
	apperrors "github.com/spec-kit/event-ticketing/pkg/util"
)

// OrderService owns the purchase flow: admit a purchase only when the
// pool holds enough units, decrement, and record the order, all inside
// one transaction. Concurrent purchases against the same pool serialize
// on the conditional decrement; different pools never block each other.
type OrderService struct {
	orders     repository.OrderRepository
	tickets    repository.TicketRepository
	dispatcher events.Dispatcher
}

// OrderDependencies bundles repositories for the order service.
type OrderDependencies struct {
	OrderRepo  repository.OrderRepository
	TicketRepo repository.TicketRepository
	Dispatcher events.Dispatcher
}

// NewOrderService constructs the service.
func NewOrderService(deps OrderDependencies) *OrderService {
	return &OrderService{
		orders:     deps.OrderRepo,
		tickets:    deps.TicketRepo,
		dispatcher: deps.Dispatcher,
	}
}

// Purchase buys amount units from the given pool on behalf of user.
// Either the pool is decremented and an order recorded, or nothing
// changes.
func (s *OrderService) Purchase(ctx context.Context, user *domain.User, ticketID int64, amount int) (*domain.Order, error) {
	if user == nil {
		return nil, apperrors.NewUnauthorized("purchase requires an authenticated user")
	}
	if amount <= 0 {
		return nil, apperrors.NewValidationError("purchased amount must be positive", map[string]any{
			"purchased_amount": amount,
		})
	}

	var (
		order     *domain.Order
		remaining int
	)
	err := s.orders.WithTx(ctx, func(txCtx context.Context) error {
		rem, ok, err := s.tickets.Decrement(txCtx, ticketID, amount)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
			}
			return err
		}
		if !ok {
			return apperrors.NewInsufficientInventory(ticketID, amount)
		}
		remaining = rem

		order = &domain.Order{
			TicketID:        ticketID,
			UserID:          user.ID,
			PurchasedAmount: amount,
		}
		if err := s.orders.Create(txCtx, order); err != nil {
			return err
		}

		ticket, err := s.tickets.GetByID(txCtx, ticketID)
		if err != nil {
			return err
		}
		order.Ticket = ticket
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:   events.EventOrderCreated,
		UserID: &user.ID,
		Payload: events.OrderCreatedPayload{
			OrderID:         order.ID,
			TicketID:        ticketID,
			PurchasedAmount: amount,
			Remaining:       remaining,
		},
	})
	return order, nil
}

// ListForUser returns the caller's orders in insertion order with pool
// and event attached.
func (s *OrderService) ListForUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

func (s *OrderService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
