package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// TokenManager issues and verifies the three-segment bearer tokens the
// mobile client presents. The payload carries a millisecond-epoch expiry
// and the uuid of the stored token record.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

// Claims is the token payload: {timeOut, tokenId}.
type Claims struct {
	TimeOut int64  `json:"timeOut"`
	TokenID string `json:"tokenId"`
}

// GetExpirationTime maps the millisecond timeOut onto the validator's
// expiry check, so expired tokens are rejected at parse time.
func (c Claims) GetExpirationTime() (*jwt.NumericDate, error) {
	return jwt.NewNumericDate(time.UnixMilli(c.TimeOut)), nil
}

func (c Claims) GetIssuedAt() (*jwt.NumericDate, error)  { return nil, nil }
func (c Claims) GetNotBefore() (*jwt.NumericDate, error) { return nil, nil }
func (c Claims) GetIssuer() (string, error)              { return "", nil }
func (c Claims) GetSubject() (string, error)             { return c.TokenID, nil }
func (c Claims) GetAudience() (jwt.ClaimStrings, error)  { return nil, nil }

// ExpiresAt returns the payload expiry as a time.
func (c Claims) ExpiresAt() time.Time {
	return time.UnixMilli(c.TimeOut)
}

// Issue signs a token embedding the given token id, valid for the
// configured TTL.
func (tm *TokenManager) Issue(tokenID string) (string, time.Time, error) {
	expiresAt := time.Now().Add(tm.ttl)
	claims := Claims{
		TimeOut: expiresAt.UnixMilli(),
		TokenID: tokenID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// Parse verifies the signature and expiry and returns the claims.
// Malformed, forged and expired tokens all fail here.
func (tm *TokenManager) Parse(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS512 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	if claims.TokenID == "" {
		return nil, errors.New("token missing tokenId")
	}
	return claims, nil
}
