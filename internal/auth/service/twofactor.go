package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/keygateio/keygate/internal/auth/domain"
	"github.com/keygateio/keygate/internal/auth/store"
	"github.com/keygateio/keygate/pkg/qrx"
	"github.com/keygateio/keygate/pkg/slogx"
	"github.com/keygateio/keygate/pkg/tokenx"
	"github.com/keygateio/keygate/pkg/totpx"
)

// TwoFactorService manages second-factor enrollment for an already
// authenticated user: setup stores a fresh secret, confirm verifies a code
// and flips the enabled flag, disable clears both.
type TwoFactorService struct {
	Store  store.Store
	Tokens *tokenx.Service
	TOTP   *totpx.Engine
}

// Setup generates a new secret, persists it against the user, and returns
// it with its provisioning URI and QR rendering. The second factor is NOT
// enabled yet; that happens only on Confirm. Calling Setup again before
// confirming discards the previous secret.
func (s *TwoFactorService) Setup(ctx context.Context, username string) (domain.TwoFactorSetup, error) {
	user, err := s.lookup(ctx, username)
	if err != nil {
		return domain.TwoFactorSetup{}, err
	}

	secret, err := s.TOTP.GenerateSecret()
	if err != nil {
		return domain.TwoFactorSetup{}, fmt.Errorf("generate secret: %w", err)
	}

	if err := s.Store.Users().UpdateTOTPSecret(ctx, user.ID, secret); err != nil {
		return domain.TwoFactorSetup{}, fmt.Errorf("store secret: %w", err)
	}

	uri := s.TOTP.ProvisioningURI(secret, user.Username)
	qr, err := qrx.DataURI(uri, 0)
	if err != nil {
		return domain.TwoFactorSetup{}, fmt.Errorf("render qr: %w", err)
	}

	slogx.FromContext(ctx).Info("second factor setup initiated", "username", username)
	return domain.TwoFactorSetup{
		Secret:          secret,
		ProvisioningURI: uri,
		QRCode:          qr,
	}, nil
}

// Confirm verifies a code against the pending secret, enables the second
// factor, and issues a fresh session token.
func (s *TwoFactorService) Confirm(ctx context.Context, username, code string) (string, error) {
	user, err := s.lookup(ctx, username)
	if err != nil {
		return "", err
	}

	if !user.HasTOTPSecret() {
		return "", ErrSetupNotInitiated
	}

	if !s.TOTP.VerifyCode(*user.TOTPSecret, code) {
		return "", ErrInvalidSecondFactor
	}

	if err := s.Store.Users().EnableTwoFactor(ctx, user.ID); err != nil {
		return "", fmt.Errorf("enable second factor: %w", err)
	}

	slogx.FromContext(ctx).Info("second factor enabled", "username", username)
	return s.Tokens.IssueSession(user.Username, user.ID)
}

// Disable clears the secret and the enabled flag unconditionally. No code
// re-confirmation is required; a valid session is the only gate. Calling it
// on a user with no second factor is a no-op, not an error.
func (s *TwoFactorService) Disable(ctx context.Context, username string) error {
	user, err := s.lookup(ctx, username)
	if err != nil {
		return err
	}

	if err := s.Store.Users().DisableTwoFactor(ctx, user.ID); err != nil {
		return fmt.Errorf("disable second factor: %w", err)
	}

	slogx.FromContext(ctx).Info("second factor disabled", "username", username)
	return nil
}

func (s *TwoFactorService) lookup(ctx context.Context, username string) (domain.User, error) {
	user, err := s.Store.Users().GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrUnknownIdentity
		}
		return domain.User{}, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}
