package totpx

import (
	"bytes"
	"encoding/base32"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBase32RoundTrip(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(42))
	for length := 0; length <= 40; length++ {
		data := make([]byte, length)
		_, _ = rng.Read(data)

		decoded, err := DecodeBase32(EncodeBase32(data))
		require.NoError(t, err)
		require.True(t, bytes.Equal(data, decoded), "round trip failed for length %d", length)
	}
}

func TestBase32MatchesStdlibEncoding(t *testing.T) {
	t.Parallel()

	std := base32.StdEncoding.WithPadding(base32.NoPadding)
	rng := rand.New(rand.NewSource(7))
	for length := 1; length <= 25; length++ {
		data := make([]byte, length)
		_, _ = rng.Read(data)

		require.Equal(t, std.EncodeToString(data), EncodeBase32(data))
	}
}

func TestDecodeBase32Leniency(t *testing.T) {
	t.Parallel()

	want := []byte("hello")
	canonical := EncodeBase32(want) // NBSWY3DP

	t.Run("lowercase", func(t *testing.T) {
		got, err := DecodeBase32("nbswy3dp")
		require.NoError(t, err)
		require.Equal(t, want, got)
	})

	t.Run("padding stripped", func(t *testing.T) {
		got, err := DecodeBase32(canonical + "===")
		require.NoError(t, err)
		require.Equal(t, want, got)
	})

	t.Run("whitespace stripped", func(t *testing.T) {
		got, err := DecodeBase32("NBSW Y3DP\n")
		require.NoError(t, err)
		require.Equal(t, want, got)
	})
}

func TestDecodeBase32RejectsInvalidCharacters(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"NBSW1", "ABC!", "0AAA", "ABC-DEF"} {
		_, err := DecodeBase32(input)
		require.ErrorIs(t, err, ErrInvalidEncoding, "input %q", input)
	}
}

func TestEncodeBase32Empty(t *testing.T) {
	t.Parallel()

	require.Empty(t, EncodeBase32(nil))

	decoded, err := DecodeBase32("")
	require.NoError(t, err)
	require.Empty(t, decoded)
}
