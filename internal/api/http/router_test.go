package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/event-ticketing/internal/api/http/handlers"
	"github.com/spec-kit/event-ticketing/internal/auth"
	"github.com/spec-kit/event-ticketing/internal/config"
	"github.com/spec-kit/event-ticketing/internal/domain"
	"github.com/spec-kit/event-ticketing/internal/observability"
	"github.com/spec-kit/event-ticketing/internal/repository"
	"github.com/spec-kit/event-ticketing/internal/service"
)

// memStore backs every repository interface the routes need, so the
// whole HTTP surface runs against one in-memory state.
type memStore struct {
	mu      sync.Mutex
	users   map[int64]*domain.User
	tokens  map[string]*domain.IssuedToken
	events  map[int64]*domain.Event
	tickets map[int64]*domain.Ticket
	orders  []domain.Order
	nextID  int64
}

func newMemStore() *memStore {
	return &memStore{
		users:   make(map[int64]*domain.User),
		tokens:  make(map[string]*domain.IssuedToken),
		events:  make(map[int64]*domain.Event),
		tickets: make(map[int64]*domain.Ticket),
		nextID:  100,
	}
}

func (s *memStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *user
	return &cp, nil
}

func (s *memStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.Email == email {
			cp := *user
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type memTokenRepo struct{ store *memStore }

func (r *memTokenRepo) Create(ctx context.Context, token *domain.IssuedToken) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, existing := range r.store.tokens {
		if existing.UserID == token.UserID {
			return repository.ErrTokenExists
		}
	}
	cp := *token
	cp.CreatedAt = time.Now()
	r.store.tokens[cp.ID] = &cp
	return nil
}

func (r *memTokenRepo) Replace(ctx context.Context, token *domain.IssuedToken) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for id, existing := range r.store.tokens {
		if existing.UserID == token.UserID {
			delete(r.store.tokens, id)
			cp := *token
			cp.CreatedAt = existing.CreatedAt
			r.store.tokens[cp.ID] = &cp
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *memTokenRepo) GetByUserID(ctx context.Context, userID int64) (*domain.IssuedToken, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, token := range r.store.tokens {
		if token.UserID == userID {
			cp := *token
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memTokenRepo) GetWithUser(ctx context.Context, id string) (*domain.IssuedToken, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	token, ok := r.store.tokens[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	user, ok := r.store.users[token.UserID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *token
	userCopy := *user
	cp.User = &userCopy
	return &cp, nil
}

type memEventRepo struct{ store *memStore }

func (r *memEventRepo) Create(ctx context.Context, event *domain.Event) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.nextID++
	event.ID = r.store.nextID
	event.CreatedAt = time.Now()
	event.UpdatedAt = event.CreatedAt
	cp := *event
	r.store.events[cp.ID] = &cp
	return nil
}

func (r *memEventRepo) Update(ctx context.Context, event *domain.Event) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	existing, ok := r.store.events[event.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	existing.Name = event.Name
	existing.Date = event.Date
	return nil
}

func (r *memEventRepo) Delete(ctx context.Context, id int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.events[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.store.events, id)
	return nil
}

func (r *memEventRepo) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	event, ok := r.store.events[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *event
	return &cp, nil
}

func (r *memEventRepo) List(ctx context.Context, sortField string, direction domain.SortDirection) ([]domain.Event, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	result := make([]domain.Event, 0, len(r.store.events))
	for _, event := range r.store.events {
		result = append(result, *event)
	}
	return result, nil
}

type memTicketRepo struct{ store *memStore }

func (r *memTicketRepo) Create(ctx context.Context, ticket *domain.Ticket) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, existing := range r.store.tickets {
		if existing.EventID == ticket.EventID {
			return repository.ErrDuplicatePool
		}
	}
	r.store.nextID++
	ticket.ID = r.store.nextID
	cp := *ticket
	r.store.tickets[cp.ID] = &cp
	return nil
}

func (r *memTicketRepo) Delete(ctx context.Context, id int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.tickets[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.store.tickets, id)
	return nil
}

func (r *memTicketRepo) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	ticket, ok := r.store.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *ticket
	return &cp, nil
}

func (r *memTicketRepo) Decrement(ctx context.Context, id int64, amount int) (int, bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	ticket, ok := r.store.tickets[id]
	if !ok {
		return 0, false, pgx.ErrNoRows
	}
	if ticket.Quantity < amount {
		return 0, false, nil
	}
	ticket.Quantity -= amount
	return ticket.Quantity, true, nil
}

func (r *memTicketRepo) Replenish(ctx context.Context, id int64, amount int) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	ticket, ok := r.store.tickets[id]
	if !ok {
		return 0, pgx.ErrNoRows
	}
	ticket.Quantity += amount
	return ticket.Quantity, nil
}

type memOrderRepo struct{ store *memStore }

func (r *memOrderRepo) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (r *memOrderRepo) Create(ctx context.Context, order *domain.Order) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.nextID++
	order.ID = r.store.nextID
	order.CreatedAt = time.Now()
	r.store.orders = append(r.store.orders, *order)
	return nil
}

func (r *memOrderRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var result []domain.Order
	for _, order := range r.store.orders {
		if order.UserID == userID {
			result = append(result, order)
		}
	}
	return result, nil
}

type testEnv struct {
	app   *fiber.App
	store *memStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := newMemStore()
	cfg := config.Config{
		Auth: config.AuthConfig{TokenSecret: "test-secret", TokenTTLMinutes: 10},
	}

	tokenRepo := &memTokenRepo{store: store}
	authService := service.NewAuthService(cfg, service.AuthDependencies{
		UserRepo:  store,
		TokenRepo: tokenRepo,
	})
	eventService := service.NewEventService(service.EventDependencies{
		EventRepo: &memEventRepo{store: store},
	})
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo: &memTicketRepo{store: store},
		EventRepo:  &memEventRepo{store: store},
	})
	orderService := service.NewOrderService(service.OrderDependencies{
		OrderRepo:  &memOrderRepo{store: store},
		TicketRepo: &memTicketRepo{store: store},
	})

	resolver := auth.NewResolver(authService.TokenManager(), tokenRepo, nil)

	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), 5*time.Second)
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler("event-ticketing", "test", nil, nil),
		Auth:           handlers.NewAuthHandler(authService),
		Events:         handlers.NewEventsHandler(eventService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Orders:         handlers.NewOrdersHandler(orderService),
		AuthMiddleware: auth.NewAuthMiddleware(resolver),
	})

	return &testEnv{app: app, store: store}
}

func (e *testEnv) seedUser(id int64, email, password string) {
	e.store.mu.Lock()
	defer e.store.mu.Unlock()
	e.store.users[id] = &domain.User{
		ID:        id,
		FirstName: "Test",
		LastName:  "User",
		Email:     email,
		Password:  password,
	}
}

func (e *testEnv) seedPool(eventID, ticketID int64, quantity int) {
	e.store.mu.Lock()
	defer e.store.mu.Unlock()
	e.store.events[eventID] = &domain.Event{ID: eventID, Name: "Seeded", Date: time.Now().AddDate(0, 1, 0)}
	e.store.tickets[ticketID] = &domain.Ticket{ID: ticketID, EventID: eventID, Quantity: quantity}
}

func (e *testEnv) request(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func (e *testEnv) login(t *testing.T, email, password string) string {
	t.Helper()
	resp := e.request(t, http.MethodPost, "/auth/login", "", map[string]any{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	header := resp.Header.Get("Authorization")
	require.True(t, strings.HasPrefix(header, "Bearer "))
	return strings.TrimPrefix(header, "Bearer ")
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}

func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	body := decodeBody(t, resp)
	errObj, ok := body["error"].(map[string]any)
	require.True(t, ok, "expected error envelope, got %v", body)
	code, _ := errObj["code"].(string)
	return code
}

func TestRoutes_HealthLive(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, http.MethodGet, "/health/live", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "alive", body["status"])
}

func TestRoutes_LoginIssuesBearerToken(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(1, "alice@example.com", "secret")

	token := env.login(t, "alice@example.com", "secret")
	assert.NotEmpty(t, token)
	assert.Len(t, strings.Split(token, "."), 3)

	again := env.login(t, "alice@example.com", "secret")
	assert.Equal(t, token, again)
}

func TestRoutes_LoginRejectsBadCredentials(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(1, "alice@example.com", "secret")

	resp := env.request(t, http.MethodPost, "/auth/login", "", map[string]any{
		"email":    "alice@example.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", errorCode(t, resp))
}

func TestRoutes_ProtectedEndpointsRequireToken(t *testing.T) {
	env := newTestEnv(t)
	env.seedPool(1, 10, 5)

	t.Run("missing header", func(t *testing.T) {
		resp := env.request(t, http.MethodPost, "/orders", "", map[string]any{
			"ticket_id": 10, "purchased_amount": 2,
		})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "UNAUTHORIZED", errorCode(t, resp))
	})

	t.Run("forged token", func(t *testing.T) {
		forged := "eyJ0eXAiOiJKV1QiLCJhbGciOiJIUzUxMiJ9.eyJ0aW1lT3V0Ijo5OTk5OTk5OTk5OTk5LCJ0b2tlbklkIjoieCJ9.Zm9yZ2Vk"
		resp := env.request(t, http.MethodGet, "/orders", forged, nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("rejected request mutates nothing", func(t *testing.T) {
		env.store.mu.Lock()
		quantity := env.store.tickets[10].Quantity
		env.store.mu.Unlock()
		assert.Equal(t, 5, quantity)
	})
}

func TestRoutes_PurchaseFlow(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(1, "alice@example.com", "secret")
	env.seedPool(1, 10, 5)

	token := env.login(t, "alice@example.com", "secret")

	resp := env.request(t, http.MethodPost, "/orders", token, map[string]any{
		"ticket_id": 10, "purchased_amount": 3,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	body := decodeBody(t, resp)
	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 3, data["purchased_amount"])
	ticket, ok := data["ticket"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 2, ticket["quantity"])

	resp = env.request(t, http.MethodPost, "/orders", token, map[string]any{
		"ticket_id": 10, "purchased_amount": 3,
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_INVENTORY", errorCode(t, resp))

	resp = env.request(t, http.MethodGet, "/orders", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	orders, ok := body["data"].([]any)
	require.True(t, ok)
	require.Len(t, orders, 1)
}

func TestRoutes_CatalogAndPoolAdministration(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(1, "admin@example.com", "secret")
	token := env.login(t, "admin@example.com", "secret")

	resp := env.request(t, http.MethodPost, "/events", token, map[string]any{
		"event_name": "Autumn Gala",
		"event_date": "2026-10-01T20:00:00Z",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	body := decodeBody(t, resp)
	data := body["data"].(map[string]any)
	eventID := int64(data["id"].(float64))

	resp = env.request(t, http.MethodPost, "/tickets", token, map[string]any{
		"event_id": eventID, "quantity": 40,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	body = decodeBody(t, resp)
	ticketData := body["data"].(map[string]any)
	ticketID := int64(ticketData["id"].(float64))

	resp = env.request(t, http.MethodPost, "/tickets", token, map[string]any{
		"event_id": eventID, "quantity": 1,
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	replenishPath := "/tickets/" + strconv.FormatInt(ticketID, 10) + "/replenish"
	resp = env.request(t, http.MethodPost, replenishPath, token, map[string]any{"amount": 10})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	assert.EqualValues(t, 50, body["data"].(map[string]any)["quantity"])

	resp = env.request(t, http.MethodGet, "/events", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
