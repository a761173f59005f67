package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/event-ticketing/internal/api/dto"
	"github.com/spec-kit/event-ticketing/internal/domain"
	"github.com/spec-kit/event-ticketing/internal/service"
	apperrors "github.com/spec-kit/event-ticketing/pkg/util"
)

// EventsHandler manages catalog endpoints.
type EventsHandler struct {
	service *service.EventService
}

// NewEventsHandler constructs handler.
func NewEventsHandler(eventService *service.EventService) *EventsHandler {
	return &EventsHandler{service: eventService}
}

// List handles GET /events?sort=&direction=.
func (h *EventsHandler) List(c *fiber.Ctx) error {
	sortField := c.Query("sort", "id")
	direction := domain.SortAsc
	if strings.EqualFold(c.Query("direction"), string(domain.SortDesc)) {
		direction = domain.SortDesc
	}

	events, err := h.service.List(c.UserContext(), sortField, direction)
	if err != nil {
		return err
	}

	result := make([]dto.EventResponse, 0, len(events))
	for i := range events {
		result = append(result, dto.FromEvent(&events[i]))
	}
	return c.JSON(fiber.Map{"data": result})
}

// Get handles GET /events/:id.
func (h *EventsHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	event, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromEvent(event)})
}

// Create handles POST /events.
func (h *EventsHandler) Create(c *fiber.Ctx) error {
	name, date, err := parseEventRequest(c)
	if err != nil {
		return err
	}
	event, err := h.service.Create(c.UserContext(), name, date)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.FromEvent(event)})
}

// Update handles PUT /events/:id.
func (h *EventsHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	name, date, err := parseEventRequest(c)
	if err != nil {
		return err
	}
	event, err := h.service.Update(c.UserContext(), id, name, date)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromEvent(event)})
}

// Delete handles DELETE /events/:id.
func (h *EventsHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func parseEventRequest(c *fiber.Ctx) (string, time.Time, error) {
	var req dto.EventRequest
	if err := c.BodyParser(&req); err != nil {
		return "", time.Time{}, apperrors.NewValidationError("invalid payload", nil)
	}
	if req.EventName == "" || req.EventDate == "" {
		return "", time.Time{}, apperrors.NewValidationError("event_name and event_date required", nil)
	}
	date, err := time.Parse(time.RFC3339, req.EventDate)
	if err != nil {
		return "", time.Time{}, apperrors.NewValidationError("event date must be a valid date", map[string]any{
			"event_date": req.EventDate,
		})
	}
	return req.EventName, date, nil
}

func parseID(c *fiber.Ctx, param string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(param), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid id", map[string]any{param: c.Params(param)})
	}
	return id, nil
}
