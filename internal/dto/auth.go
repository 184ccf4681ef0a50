package dto

// LoginRequest is the credentials payload.
type LoginRequest struct {
	Email      string `json:"email"       binding:"required,email"`
	Password   string `json:"password"    binding:"required,min=8"`
	RememberMe bool   `json:"remember_me"`
}

// RefreshRequest carries the refresh token.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// TokenResponse returns a token pair plus the signed-in user.
type TokenResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int          `json:"expires_in"` // access token lifetime, seconds
	User         UserResponse `json:"user"`
}

// UserResponse describes the authenticated user.
type UserResponse struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Role      string  `json:"role"`
	TeamID    *string `json:"team_id,omitempty"`
	TeamName  string  `json:"team_name,omitempty"`
}
