package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/keygateio/keygate/internal/auth/domain"
	"github.com/keygateio/keygate/internal/auth/store"
)

type usersRepo struct {
	db *sql.DB
}

const userColumns = `id, username, email, first_name, last_name, password_hash, totp_secret, two_factor_enabled, created_at`

func (r *usersRepo) GetUserByID(ctx context.Context, id int64) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (r *usersRepo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = ?`, username)
	return scanUser(row)
}

func (r *usersRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM users WHERE username = ?`, username).Scan(&n)
	return n > 0, err
}

func (r *usersRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM users WHERE email = ?`, email).Scan(&n)
	return n > 0, err
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (username, email, first_name, last_name, password_hash, totp_secret, two_factor_enabled, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		u.Username,
		u.Email,
		u.FirstName,
		u.LastName,
		u.PasswordHash,
		secretToNull(u.TOTPSecret),
		boolToInt(u.TwoFactorEnabled),
		u.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return domain.User{}, mapConstraint(err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return domain.User{}, err
	}
	u.ID = id
	return u, nil
}

func (r *usersRepo) UpdateTOTPSecret(ctx context.Context, userID int64, secret string) error {
	return r.exec(ctx,
		`UPDATE users SET totp_secret = ? WHERE id = ?`, secret, userID)
}

func (r *usersRepo) EnableTwoFactor(ctx context.Context, userID int64) error {
	return r.exec(ctx,
		`UPDATE users SET two_factor_enabled = 1 WHERE id = ?`, userID)
}

func (r *usersRepo) DisableTwoFactor(ctx context.Context, userID int64) error {
	return r.exec(ctx,
		`UPDATE users SET two_factor_enabled = 0, totp_secret = NULL WHERE id = ?`, userID)
}

// exec runs an UPDATE that must touch exactly one row.
func (r *usersRepo) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func scanUser(row *sql.Row) (domain.User, error) {
	var (
		u         domain.User
		secret    sql.NullString
		enabled   int64
		createdAt string
	)
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.FirstName,
		&u.LastName,
		&u.PasswordHash,
		&secret,
		&enabled,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, store.ErrNotFound
		}
		return domain.User{}, err
	}

	if secret.Valid && secret.String != "" {
		u.TOTPSecret = &secret.String
	}
	u.TwoFactorEnabled = enabled != 0
	if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		u.CreatedAt = t
	}

	return u, nil
}

func secretToNull(s *string) sql.NullString {
	if s == nil || *s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func mapConstraint(err error) error {
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return store.ErrAlreadyExists
	}
	return err
}
