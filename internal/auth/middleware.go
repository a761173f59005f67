package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/event-ticketing/internal/domain"
)

const principalKey = "auth_principal"

// AuthMiddleware guards routes: every request passing through it must
// carry a resolvable bearer token. The resolved user is attached to the
// request and consumed by handlers as an explicit argument, never read
// from shared state.
type AuthMiddleware struct {
	resolver *Resolver
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(resolver *Resolver) *AuthMiddleware {
	return &AuthMiddleware{resolver: resolver}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	user, err := m.resolver.Resolve(c.UserContext(), c.Get("Authorization"))
	if err != nil {
		return err
	}
	c.Locals(principalKey, user)
	return c.Next()
}

// UserFromContext retrieves the authenticated user for the request.
func UserFromContext(c *fiber.Ctx) (*domain.User, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	user, ok := val.(*domain.User)
	return user, ok
}
