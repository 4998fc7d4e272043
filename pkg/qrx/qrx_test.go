package qrx

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPNG(t *testing.T) {
	t.Parallel()

	png, err := PNG("otpauth://totp/keygate:alice?secret=JBSWY3DPEHPK3PXP", 0)
	require.NoError(t, err)
	// PNG magic bytes.
	require.True(t, len(png) > 8)
	require.Equal(t, "\x89PNG", string(png[:4]))
}

func TestPNGEmptyContent(t *testing.T) {
	t.Parallel()

	_, err := PNG("   ", 128)
	require.ErrorIs(t, err, ErrEmptyContent)
}

func TestDataURI(t *testing.T) {
	t.Parallel()

	uri, err := DataURI("hello", 64)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(uri, "data:image/png;base64,"))
}
