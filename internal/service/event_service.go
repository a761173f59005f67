package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/event-ticketing/internal/domain"
	"github.com/spec-kit/event-ticketing/internal/events"
	"github.com/spec-kit/event-ticketing/internal/repository"
	apperrors "github.com/spec-kit/event-ticketing/pkg/util"
)

// EventService coordinates catalog workflows.
type EventService struct {
	catalog    repository.EventRepository
	dispatcher events.Dispatcher
}

// EventDependencies bundles repositories for the event service.
type EventDependencies struct {
	EventRepo  repository.EventRepository
	Dispatcher events.Dispatcher
}

// NewEventService constructs the service.
func NewEventService(deps EventDependencies) *EventService {
	return &EventService{catalog: deps.EventRepo, dispatcher: deps.Dispatcher}
}

// Create adds a catalog event.
func (s *EventService) Create(ctx context.Context, name string, date time.Time) (*domain.Event, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("event name required", nil)
	}
	if date.IsZero() {
		return nil, apperrors.NewValidationError("event date must be a valid date", nil)
	}

	event := &domain.Event{Name: name, Date: date}
	if err := s.catalog.Create(ctx, event); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type: events.EventCatalogCreated,
		Payload: events.CatalogCreatedPayload{
			EventID:   event.ID,
			EventName: event.Name,
			EventDate: event.Date,
		},
	})
	return event, nil
}

// Update modifies an event's name and date.
func (s *EventService) Update(ctx context.Context, id int64, name string, date time.Time) (*domain.Event, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("event name required", nil)
	}
	if date.IsZero() {
		return nil, apperrors.NewValidationError("event date must be a valid date", nil)
	}

	event := &domain.Event{ID: id, Name: name, Date: date}
	if err := s.catalog.Update(ctx, event); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("event", map[string]any{"event_id": id})
		}
		return nil, err
	}
	return event, nil
}

// Delete removes an event; its pool goes with it.
func (s *EventService) Delete(ctx context.Context, id int64) error {
	if err := s.catalog.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("event", map[string]any{"event_id": id})
		}
		return err
	}
	return nil
}

// Get fetches one event with its pool attached.
func (s *EventService) Get(ctx context.Context, id int64) (*domain.Event, error) {
	event, err := s.catalog.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("event", map[string]any{"event_id": id})
		}
		return nil, err
	}
	return event, nil
}

// List returns the catalog with pools attached. Remaining quantities
// come straight from the committed pool rows.
func (s *EventService) List(ctx context.Context, sortField string, direction domain.SortDirection) ([]domain.Event, error) {
	if sortField == "" {
		sortField = "id"
	}
	if direction != domain.SortDesc {
		direction = domain.SortAsc
	}
	return s.catalog.List(ctx, sortField, direction)
}

func (s *EventService) publish(ctx context.Context, event events.Event) {
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
