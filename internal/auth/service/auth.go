package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/keygateio/keygate/internal/auth/domain"
	"github.com/keygateio/keygate/internal/auth/store"
	"github.com/keygateio/keygate/pkg/cryptox"
	"github.com/keygateio/keygate/pkg/slogx"
	"github.com/keygateio/keygate/pkg/tokenx"
	"github.com/keygateio/keygate/pkg/totpx"
)

// AuthService drives the multi-step authentication state machine:
// registration, password login, and second-factor challenge/response. It is
// stateless between calls; all progress lives in the user store and in the
// tokens themselves.
type AuthService struct {
	Store  store.Store
	Tokens *tokenx.Service
	TOTP   *totpx.Engine
}

type RegisterParams struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// Register creates a user and immediately issues a session. Username and
// email collisions are checked independently so the caller can report which
// field is taken.
func (s *AuthService) Register(ctx context.Context, p RegisterParams) (domain.Outcome, error) {
	users := s.Store.Users()

	taken, err := users.UsernameExists(ctx, p.Username)
	if err != nil {
		return domain.Outcome{}, fmt.Errorf("check username: %w", err)
	}
	if taken {
		return domain.Outcome{}, &DuplicateError{Field: "username"}
	}

	taken, err = users.EmailExists(ctx, p.Email)
	if err != nil {
		return domain.Outcome{}, fmt.Errorf("check email: %w", err)
	}
	if taken {
		return domain.Outcome{}, &DuplicateError{Field: "email"}
	}

	hash, err := cryptox.HashPassword(p.Password)
	if err != nil {
		return domain.Outcome{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := users.CreateUser(ctx, domain.User{
		Username:     p.Username,
		Email:        p.Email,
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		// A racing registration can still trip the unique index after the
		// existence checks passed; surface it the same way.
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Outcome{}, &DuplicateError{Field: "username"}
		}
		return domain.Outcome{}, fmt.Errorf("create user: %w", err)
	}

	token, err := s.Tokens.IssueSession(user.Username, user.ID)
	if err != nil {
		return domain.Outcome{}, err
	}

	slogx.FromContext(ctx).Info("user registered", "username", user.Username)
	return domain.SessionOutcome(token), nil
}

// Login verifies a username/password pair and, when a second factor is
// enabled, either verifies an inline code or hands back a pending
// challenge token. Unknown user and wrong password collapse into the same
// ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password, code string) (domain.Outcome, error) {
	log := slogx.FromContext(ctx)

	user, err := s.Store.Users().GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Outcome{}, ErrInvalidCredentials
		}
		return domain.Outcome{}, fmt.Errorf("load user: %w", err)
	}

	if cryptox.VerifyPassword(password, user.PasswordHash) != nil {
		log.Info("login rejected", "username", username)
		return domain.Outcome{}, ErrInvalidCredentials
	}

	if user.TwoFactorEnabled {
		if strings.TrimSpace(code) == "" {
			pending, err := s.Tokens.IssuePending(user.Username)
			if err != nil {
				return domain.Outcome{}, err
			}
			return domain.ChallengeOutcome(pending), nil
		}

		if !user.HasTOTPSecret() || !s.TOTP.VerifyCode(*user.TOTPSecret, code) {
			log.Info("second factor rejected", "username", username)
			return domain.Outcome{}, ErrInvalidSecondFactor
		}
	}

	token, err := s.Tokens.IssueSession(user.Username, user.ID)
	if err != nil {
		return domain.Outcome{}, err
	}
	return domain.SessionOutcome(token), nil
}

// VerifySecondFactor completes a pending login. The pending token must be
// valid and carry the second-factor purpose; a session token presented here
// is rejected the same as a forged one.
func (s *AuthService) VerifySecondFactor(ctx context.Context, pendingToken, code string) (domain.Outcome, error) {
	if !s.Tokens.IsValid(pendingToken) ||
		!s.Tokens.IsPurpose(pendingToken, tokenx.PurposeSecondFactor) {
		return domain.Outcome{}, ErrInvalidSecondFactor
	}

	username := s.Tokens.Subject(pendingToken)
	user, err := s.Store.Users().GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Outcome{}, ErrUnknownIdentity
		}
		return domain.Outcome{}, fmt.Errorf("load user: %w", err)
	}

	if !user.HasTOTPSecret() || !s.TOTP.VerifyCode(*user.TOTPSecret, code) {
		slogx.FromContext(ctx).Info("second factor rejected", "username", username)
		return domain.Outcome{}, ErrInvalidSecondFactor
	}

	token, err := s.Tokens.IssueSession(user.Username, user.ID)
	if err != nil {
		return domain.Outcome{}, err
	}
	return domain.SessionOutcome(token), nil
}

// CurrentUser returns the public profile projection for a username.
func (s *AuthService) CurrentUser(ctx context.Context, username string) (domain.Profile, error) {
	user, err := s.Store.Users().GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Profile{}, ErrUnknownIdentity
		}
		return domain.Profile{}, fmt.Errorf("load user: %w", err)
	}
	return user.Profile(), nil
}
