package domain

import "time"

// Identity holds the fields shared by every account that can log in.
// Operators and staff embed it by value; emails form a single global
// namespace across both populations.
type Identity struct {
	ID               int
	FirstName        string
	FamilyName       string
	Email            string
	PasswordHash     string
	RegistrationDate time.Time
}

// FullName returns the display name carried in issued tokens.
func (i Identity) FullName() string {
	return i.FirstName
}

// PasswordSet reports whether the account already has credentials.
func (i Identity) PasswordSet() bool {
	return i.PasswordHash != ""
}
