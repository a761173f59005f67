package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/event-ticketing/internal/auth"
	"github.com/spec-kit/event-ticketing/internal/config"
	"github.com/spec-kit/event-ticketing/internal/domain"
	"github.com/spec-kit/event-ticketing/internal/repository"
	apperrors "github.com/spec-kit/event-ticketing/pkg/util"
)

// AuthService coordinates the login flow.
type AuthService struct {
	users    repository.UserRepository
	tokens   repository.TokenRepository
	tokenMgr *auth.TokenManager
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	UserRepo  repository.UserRepository
	TokenRepo repository.TokenRepository
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:    deps.UserRepo,
		tokens:   deps.TokenRepo,
		tokenMgr: auth.NewTokenManager(cfg.Auth.TokenSecret, cfg.Auth.TokenTTL()),
	}
}

// Login authenticates a user and returns their bearer token. A stored
// token that still verifies is handed back unchanged; one that no longer
// parses (expired, or signed under a rotated secret) is replaced with a
// fresh mint, so expiry never locks a user out. Two concurrent first
// logins both succeed: the loser of the insert race returns the winner's
// token.
func (s *AuthService) Login(ctx context.Context, email, password string, rememberToken bool) (string, *domain.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return "", nil, err
	}
	if !auth.CredentialsMatch(user.Password, password) {
		return "", nil, apperrors.NewUnauthorized("invalid credentials")
	}

	existing, err := s.tokens.GetByUserID(ctx, user.ID)
	if err != nil {
		return "", nil, err
	}
	if existing != nil {
		if _, perr := s.tokenMgr.Parse(existing.Token); perr == nil {
			return existing.Token, user, nil
		}
		return s.reissue(ctx, user, rememberToken)
	}

	tokenID := uuid.NewString()
	token, _, err := s.tokenMgr.Issue(tokenID)
	if err != nil {
		return "", nil, err
	}

	record := &domain.IssuedToken{
		ID:            tokenID,
		UserID:        user.ID,
		Token:         token,
		RememberToken: rememberToken,
	}
	if err := s.tokens.Create(ctx, record); err != nil {
		if errors.Is(err, repository.ErrTokenExists) {
			winner, rerr := s.tokens.GetByUserID(ctx, user.ID)
			if rerr != nil {
				return "", nil, rerr
			}
			if winner != nil {
				return winner.Token, user, nil
			}
		}
		return "", nil, err
	}

	return token, user, nil
}

// reissue replaces a user's dead stored token in place with a fresh one.
func (s *AuthService) reissue(ctx context.Context, user *domain.User, rememberToken bool) (string, *domain.User, error) {
	tokenID := uuid.NewString()
	token, _, err := s.tokenMgr.Issue(tokenID)
	if err != nil {
		return "", nil, err
	}

	record := &domain.IssuedToken{
		ID:            tokenID,
		UserID:        user.ID,
		Token:         token,
		RememberToken: rememberToken,
	}
	if err := s.tokens.Replace(ctx, record); err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
