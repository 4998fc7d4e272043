package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/keygateio/keygate/pkg/totpx"
)

func TestSetupStoresSecretWithoutEnabling(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.register(t, "bob", "bob@example.com", "hunter2")
	ctx := context.Background()

	setup, err := f.twofa.Setup(ctx, "bob")
	require.NoError(t, err)
	require.NotEmpty(t, setup.Secret)

	decoded, err := totpx.DecodeBase32(setup.Secret)
	require.NoError(t, err)
	require.Len(t, decoded, totpx.SecretSize)

	require.Contains(t, setup.ProvisioningURI, "otpauth://totp/")
	require.Contains(t, setup.ProvisioningURI, "secret="+setup.Secret)
	require.True(t, strings.HasPrefix(setup.QRCode, "data:image/png;base64,"))

	user, err := f.store.Users().GetUserByUsername(ctx, "bob")
	require.NoError(t, err)
	require.True(t, user.HasTOTPSecret())
	require.False(t, user.TwoFactorEnabled, "setup alone must not enable the second factor")
}

func TestSetupAgainReplacesPendingSecret(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.register(t, "bob", "bob@example.com", "hunter2")
	ctx := context.Background()

	first, err := f.twofa.Setup(ctx, "bob")
	require.NoError(t, err)
	second, err := f.twofa.Setup(ctx, "bob")
	require.NoError(t, err)
	require.NotEqual(t, first.Secret, second.Secret)

	// The first secret is gone; only codes for the second one confirm.
	_, err = f.twofa.Confirm(ctx, "bob", codeAt(t, first.Secret, f.now))
	require.ErrorIs(t, err, ErrInvalidSecondFactor)

	_, err = f.twofa.Confirm(ctx, "bob", codeAt(t, second.Secret, f.now))
	require.NoError(t, err)
}

func TestConfirmFlow(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.register(t, "bob", "bob@example.com", "hunter2")
	ctx := context.Background()

	t.Run("confirm before setup", func(t *testing.T) {
		_, err := f.twofa.Confirm(ctx, "bob", "123456")
		require.ErrorIs(t, err, ErrSetupNotInitiated)
	})

	setup, err := f.twofa.Setup(ctx, "bob")
	require.NoError(t, err)

	t.Run("wrong code leaves the factor disabled", func(t *testing.T) {
		_, err := f.twofa.Confirm(ctx, "bob", wrongCodeAt(t, setup.Secret, f.now))
		require.ErrorIs(t, err, ErrInvalidSecondFactor)

		user, err := f.store.Users().GetUserByUsername(ctx, "bob")
		require.NoError(t, err)
		require.False(t, user.TwoFactorEnabled)
	})

	t.Run("correct code enables and issues a session", func(t *testing.T) {
		token, err := f.twofa.Confirm(ctx, "bob", codeAt(t, setup.Secret, f.now))
		require.NoError(t, err)
		require.True(t, f.tokens.IsValid(token))

		user, err := f.store.Users().GetUserByUsername(ctx, "bob")
		require.NoError(t, err)
		require.True(t, user.TwoFactorEnabled)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := f.twofa.Confirm(ctx, "nobody", "123456")
		require.ErrorIs(t, err, ErrUnknownIdentity)
	})
}

func TestDisableIsIdempotent(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.register(t, "bob", "bob@example.com", "hunter2")
	ctx := context.Background()

	setup, err := f.twofa.Setup(ctx, "bob")
	require.NoError(t, err)
	_, err = f.twofa.Confirm(ctx, "bob", codeAt(t, setup.Secret, f.now))
	require.NoError(t, err)

	require.NoError(t, f.twofa.Disable(ctx, "bob"))
	require.NoError(t, f.twofa.Disable(ctx, "bob"), "second disable must also succeed")

	user, err := f.store.Users().GetUserByUsername(ctx, "bob")
	require.NoError(t, err)
	require.False(t, user.TwoFactorEnabled)
	require.False(t, user.HasTOTPSecret())

	// Login goes straight to a session again.
	out, err := f.auth.Login(ctx, "bob", "hunter2", "")
	require.NoError(t, err)
	require.False(t, out.ChallengeRequired)
}

func TestDisableUnknownUser(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	require.ErrorIs(t, f.twofa.Disable(context.Background(), "nobody"), ErrUnknownIdentity)
}
