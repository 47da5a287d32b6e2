package dto

// LoginRequest carries credentials for the token endpoints.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse wraps an issued bearer token.
type TokenResponse struct {
	Token string `json:"token"`
}

// PasswordChangeRequest carries the old and new credentials.
type PasswordChangeRequest struct {
	Password    string `json:"password"`
	NewPassword string `json:"newPassword"`
}

// PasswordResetRequest carries the emailed code and the new credential.
type PasswordResetRequest struct {
	NewPassword       string `json:"newPassword"`
	NotificationToken string `json:"notificationToken"`
}
