package domain

import "time"

type User struct {
	ID               int64
	Username         string
	Email            string
	FirstName        string
	LastName         string
	PasswordHash     string  // argon2 encoded
	TOTPSecret       *string // base32 encoded; set during enrollment, before confirmation
	TwoFactorEnabled bool
	CreatedAt        time.Time
}

// HasTOTPSecret reports whether a secret is stored. Independent of
// TwoFactorEnabled: a secret exists during enrollment before confirmation
// flips the flag.
func (u User) HasTOTPSecret() bool {
	return u.TOTPSecret != nil && *u.TOTPSecret != ""
}

// Profile is the outward projection of a user. It never carries the
// password hash or the TOTP secret.
type Profile struct {
	ID               int64     `json:"id"`
	Username         string    `json:"username"`
	Email            string    `json:"email"`
	FirstName        string    `json:"first_name"`
	LastName         string    `json:"last_name"`
	TwoFactorEnabled bool      `json:"two_factor_enabled"`
	CreatedAt        time.Time `json:"created_at"`
}

func (u User) Profile() Profile {
	return Profile{
		ID:               u.ID,
		Username:         u.Username,
		Email:            u.Email,
		FirstName:        u.FirstName,
		LastName:         u.LastName,
		TwoFactorEnabled: u.TwoFactorEnabled,
		CreatedAt:        u.CreatedAt,
	}
}
