package store

import (
	"context"
	"errors"

	"github.com/keygateio/keygate/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite for
// now) implement this. The auth core treats each access as atomic and does
// not arbitrate cross-row races; that contract belongs to the driver.
type Store interface {
	Users() Users

	ApplyMigrations() error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

type Users interface {
	// GetUserByID returns a user by numeric id.
	GetUserByID(ctx context.Context, id int64) (domain.User, error)

	// GetUserByUsername is used during login and token-subject resolution.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// UsernameExists and EmailExists are checked independently at
	// registration so the caller can report which field collided.
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)

	// CreateUser inserts a new user and returns it with the assigned id.
	CreateUser(ctx context.Context, u domain.User) (domain.User, error)

	// UpdateTOTPSecret sets or replaces the stored TOTP secret without
	// touching the enabled flag.
	UpdateTOTPSecret(ctx context.Context, userID int64, secret string) error

	// EnableTwoFactor flips the enabled flag on.
	EnableTwoFactor(ctx context.Context, userID int64) error

	// DisableTwoFactor clears both the secret and the enabled flag.
	DisableTwoFactor(ctx context.Context, userID int64) error
}
