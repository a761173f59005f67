package dto

// LoginRequest payload for login.
type LoginRequest struct {
	Email         string `json:"email"`
	Password      string `json:"password"`
	RememberToken bool   `json:"remember_token"`
}

// UserResponse is the public shape of a user.
type UserResponse struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}
