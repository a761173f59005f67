package auth

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/event-ticketing/internal/domain"
	apperrors "github.com/spec-kit/event-ticketing/pkg/util"
)

// TokenStore loads issued-token records with the owning user attached.
type TokenStore interface {
	GetWithUser(ctx context.Context, id string) (*domain.IssuedToken, error)
}

// Resolver turns a raw Authorization value into the authenticated user.
// Verification is layered: the signature and expiry are checked by the
// token manager, then the embedded tokenId must resolve to a stored
// issued-token record. Positive resolutions are cached in redis until
// the token expires.
type Resolver struct {
	tokens *TokenManager
	store  TokenStore
	cache  *redis.Client
}

// NewResolver constructs a resolver. cache may be nil.
func NewResolver(tokens *TokenManager, store TokenStore, cache *redis.Client) *Resolver {
	return &Resolver{tokens: tokens, store: store, cache: cache}
}

const cacheKeyPrefix = "issued_token:"

type cachedPrincipal struct {
	User domain.User `json:"user"`
}

// Resolve authenticates the bearer value of an Authorization header.
func (r *Resolver) Resolve(ctx context.Context, authorization string) (*domain.User, error) {
	if authorization == "" {
		return nil, apperrors.NewUnauthorized("missing authorization header")
	}

	raw := authorization
	parts := strings.SplitN(authorization, " ", 2)
	if len(parts) == 2 {
		if !strings.EqualFold(parts[0], "Bearer") {
			return nil, apperrors.NewUnauthorized("invalid authorization header")
		}
		raw = parts[1]
	}

	claims, err := r.tokens.Parse(raw)
	if err != nil {
		return nil, apperrors.NewUnauthorized("invalid token")
	}

	if user := r.cachedUser(ctx, claims.TokenID); user != nil {
		return user, nil
	}

	record, err := r.store.GetWithUser(ctx, claims.TokenID)
	if err != nil {
		return nil, apperrors.NewUnauthorized("unknown token")
	}
	if record == nil || record.User == nil {
		return nil, apperrors.NewUnauthorized("unknown token")
	}

	r.cacheUser(ctx, claims, record.User)
	return record.User, nil
}

func (r *Resolver) cachedUser(ctx context.Context, tokenID string) *domain.User {
	if r.cache == nil {
		return nil
	}
	val, err := r.cache.Get(ctx, cacheKeyPrefix+tokenID).Result()
	if err != nil {
		return nil
	}
	var cached cachedPrincipal
	if err := json.Unmarshal([]byte(val), &cached); err != nil {
		return nil
	}
	return &cached.User
}

func (r *Resolver) cacheUser(ctx context.Context, claims *Claims, user *domain.User) {
	if r.cache == nil {
		return
	}
	ttl := time.Until(claims.ExpiresAt())
	if ttl <= 0 {
		return
	}
	payload, err := json.Marshal(cachedPrincipal{User: *user})
	if err != nil {
		return
	}
	_ = r.cache.Set(ctx, cacheKeyPrefix+claims.TokenID, payload, ttl).Err()
}
