package service

import (
	"errors"
	"fmt"
)

// Failure taxonomy shared by the auth operations. Handlers map these onto
// status codes; nothing here is transient and nothing is retried.
var (
	// ErrInvalidCredentials covers unknown username and wrong password
	// alike, so responses cannot be used to enumerate usernames.
	ErrInvalidCredentials = errors.New("invalid_credentials")

	// ErrInvalidSecondFactor covers a bad, missing, or expired TOTP code
	// and a bad or wrong-purpose pending token alike.
	ErrInvalidSecondFactor = errors.New("invalid_second_factor")

	// ErrUnknownIdentity reports a referenced user that no longer exists,
	// e.g. deleted between token issuance and use.
	ErrUnknownIdentity = errors.New("unknown_identity")

	// ErrSetupNotInitiated reports a confirm call with no pending secret.
	ErrSetupNotInitiated = errors.New("setup_not_initiated")
)

// DuplicateError reports a registration collision on a specific field,
// username or email, so the caller can say which one.
type DuplicateError struct {
	Field string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate_identity: %s already exists", e.Field)
}
