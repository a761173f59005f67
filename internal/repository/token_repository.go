package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/event-ticketing/internal/domain"
)

// ErrTokenExists is returned when a token insert loses the race against
// a concurrent first login for the same user.
var ErrTokenExists = errTokenExists{}

type errTokenExists struct{}

func (errTokenExists) Error() string { return "user already has an issued token" }

// TokenRepository persists issued-token records.
type TokenRepository interface {
	Create(ctx context.Context, token *domain.IssuedToken) error
	// Replace swaps a user's stored token for a fresh one in place,
	// keeping the one-row-per-user shape.
	Replace(ctx context.Context, token *domain.IssuedToken) error
	GetByUserID(ctx context.Context, userID int64) (*domain.IssuedToken, error)
	GetWithUser(ctx context.Context, id string) (*domain.IssuedToken, error)
}

type tokenRepository struct {
	db
}

// NewTokenRepository instantiates repository.
func NewTokenRepository(pool *pgxpool.Pool) TokenRepository {
	return &tokenRepository{db{pool: pool}}
}

func (r *tokenRepository) Create(ctx context.Context, token *domain.IssuedToken) error {
	const query = `
        INSERT INTO personal_access_tokens (id, user_id, token, remember_token)
        VALUES ($1, $2, $3, $4)
        RETURNING created_at, updated_at`
	err := r.queryRow(ctx, query, token.ID, token.UserID, token.Token, token.RememberToken).
		Scan(&token.CreatedAt, &token.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrTokenExists
		}
		return err
	}
	return nil
}

func (r *tokenRepository) Replace(ctx context.Context, token *domain.IssuedToken) error {
	const query = `
        UPDATE personal_access_tokens
        SET id=$1, token=$2, remember_token=$3, updated_at=NOW()
        WHERE user_id=$4
        RETURNING created_at, updated_at`
	return r.queryRow(ctx, query, token.ID, token.Token, token.RememberToken, token.UserID).
		Scan(&token.CreatedAt, &token.UpdatedAt)
}

func (r *tokenRepository) GetByUserID(ctx context.Context, userID int64) (*domain.IssuedToken, error) {
	const query = `
        SELECT id, user_id, token, remember_token, token_change_count, created_at, updated_at
        FROM personal_access_tokens WHERE user_id=$1`

	var token domain.IssuedToken
	if err := r.queryRow(ctx, query, userID).Scan(
		&token.ID,
		&token.UserID,
		&token.Token,
		&token.RememberToken,
		&token.TokenChangeCount,
		&token.CreatedAt,
		&token.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &token, nil
}

func (r *tokenRepository) GetWithUser(ctx context.Context, id string) (*domain.IssuedToken, error) {
	const query = `
        SELECT pat.id, pat.user_id, pat.token, pat.remember_token, pat.token_change_count, pat.created_at, pat.updated_at,
               users.id, users.first_name, users.last_name, users.email, users.password, users.created_at, users.updated_at
        FROM personal_access_tokens pat
        JOIN users ON users.id = pat.user_id
        WHERE pat.id=$1`

	var (
		token domain.IssuedToken
		user  domain.User
	)
	if err := r.queryRow(ctx, query, id).Scan(
		&token.ID,
		&token.UserID,
		&token.Token,
		&token.RememberToken,
		&token.TokenChangeCount,
		&token.CreatedAt,
		&token.UpdatedAt,
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&user.Email,
		&user.Password,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	token.User = &user
	return &token, nil
}
