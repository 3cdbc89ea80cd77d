package dto

// SignupRequest payload for new admin accounts.
type SignupRequest struct {
	FullName     string `json:"fullName"`
	EmailAddress string `json:"emailAddress"`
	Password     string `json:"password"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	EmailAddress string `json:"emailAddress"`
	Password     string `json:"password"`
}

// ResetPasswordRequest payload for setting a new password.
type ResetPasswordRequest struct {
	Password string `json:"password"`
}

// UserResponse is the public shape of an admin account. The password hash
// never leaves the server.
type UserResponse struct {
	ID           string  `json:"_id"`
	FullName     string  `json:"fullName"`
	EmailAddress string  `json:"emailAddress"`
	ProfilePhoto *string `json:"profilePhoto,omitempty"`
}

// AuthResponse bundles the user record with a fresh access token.
type AuthResponse struct {
	User        UserResponse `json:"user"`
	AccessToken string       `json:"accessToken"`
}
