package cryptox

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	// Tests share a throwaway pepper file so hashing is self-consistent.
	pepperPath := filepath.Join(os.TempDir(), "keygate-test-pepper")
	SetPepperPath(pepperPath)

	os.Remove(pepperPath)
	defer os.Remove(pepperPath)

	os.Exit(m.Run())
}

func TestHashPasswordFormat(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{"simple password", "hunter2"},
		{"complex password", "P@ssw0rd!#$%^&*()"},
		{"long password", strings.Repeat("a", 100)},
		{"empty password", ""},
		{"unicode password", "lozinka密码🔒"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := HashPassword(tt.password)
			require.NoError(t, err)
			require.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"))

			parts := strings.Split(hash, "$")
			require.Len(t, parts, 6)
			require.NotEmpty(t, parts[4], "salt")
			require.NotEmpty(t, parts[5], "digest")
		})
	}
}

func TestHashPasswordUniqueSalts(t *testing.T) {
	a, err := HashPassword("samepassword")
	require.NoError(t, err)
	b, err := HashPassword("samepassword")
	require.NoError(t, err)

	require.NotEqual(t, a, b, "salts must differ per hash")
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)

	t.Run("correct password", func(t *testing.T) {
		require.NoError(t, VerifyPassword("hunter2", hash))
	})

	t.Run("wrong password", func(t *testing.T) {
		require.ErrorIs(t, VerifyPassword("hunter3", hash), ErrPasswordMismatch)
	})

	t.Run("malformed hash", func(t *testing.T) {
		for _, bad := range []string{
			"",
			"plainhash",
			"$bcrypt$v=19$m=1,t=1,p=1$c2FsdA$aGFzaA",
			"$argon2id$v=18$m=1,t=1,p=1$c2FsdA$aGFzaA",
			"$argon2id$v=19$bogus$c2FsdA$aGFzaA",
		} {
			err := VerifyPassword("hunter2", bad)
			require.Error(t, err, "hash %q", bad)
			require.NotErrorIs(t, err, ErrPasswordMismatch)
		}
	})
}
