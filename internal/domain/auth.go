package domain

import "time"

// IssuedToken is the stored record of a login token. The id is the uuid
// embedded in the token payload as tokenId; user_id is unique so a user
// holds at most one token. TokenChangeCount exists in the schema for
// compatibility and is not consulted by any logic.
type IssuedToken struct {
	ID               string
	UserID           int64
	Token            string
	RememberToken    bool
	TokenChangeCount int
	CreatedAt        time.Time
	UpdatedAt        time.Time
	User             *User
}
