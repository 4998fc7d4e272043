package totpx

import (
	"bytes"
	"testing"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/require"
)

// rfc4226Secret is the ASCII key "12345678901234567890" from RFC 4226
// appendix D, base32-encoded.
const rfc4226Secret = "GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ"

func TestDeriveCodeRFC4226Vectors(t *testing.T) {
	t.Parallel()

	// Expected HOTP values for counters 0..9, truncated to 6 digits.
	want := []string{
		"755224", "287082", "359152", "969429", "338314",
		"254676", "287922", "162583", "399871", "520489",
	}

	for counter, expected := range want {
		code, err := deriveCode(rfc4226Secret, int64(counter))
		require.NoError(t, err)
		require.Equal(t, expected, code, "counter %d", counter)
	}
}

func TestDeriveCodeDeterministicSixDigits(t *testing.T) {
	t.Parallel()

	for step := int64(0); step < 50; step++ {
		a, err := deriveCode(rfc4226Secret, step)
		require.NoError(t, err)
		b, err := deriveCode(rfc4226Secret, step)
		require.NoError(t, err)

		require.Equal(t, a, b)
		require.Len(t, a, Digits)
		for _, c := range a {
			require.True(t, c >= '0' && c <= '9')
		}
	}
}

func TestDeriveCodeRejectsCorruptSecret(t *testing.T) {
	t.Parallel()

	_, err := deriveCode("not!base32", 0)
	require.ErrorIs(t, err, ErrInvalidEncoding)
}

// TestDeriveCodeMatchesReferenceLibrary cross-checks our derivation against
// pquerna/otp so a drift from the standard algorithm cannot slip in
// unnoticed.
func TestDeriveCodeMatchesReferenceLibrary(t *testing.T) {
	t.Parallel()

	e := &Engine{Rand: bytes.NewReader(bytes.Repeat([]byte{0xA7, 0x13, 0x42, 0x9C}, 5))}
	secret, err := e.GenerateSecret()
	require.NoError(t, err)

	for _, at := range []time.Time{
		time.Unix(59, 0),
		time.Unix(1111111109, 0),
		time.Unix(1700000000, 0),
	} {
		expected, err := totp.GenerateCodeCustom(secret, at, totp.ValidateOpts{
			Period:    Period,
			Digits:    otp.DigitsSix,
			Algorithm: otp.AlgorithmSHA1,
		})
		require.NoError(t, err)

		got, err := deriveCode(secret, at.Unix()/Period)
		require.NoError(t, err)
		require.Equal(t, expected, got, "at %v", at)
	}
}

func TestVerifyCodeSkewWindow(t *testing.T) {
	t.Parallel()

	now := time.Unix(1700000000, 0)
	e := &Engine{Now: func() time.Time { return now }}
	step := now.Unix() / Period

	for offset := int64(-3); offset <= 3; offset++ {
		code, err := deriveCode(rfc4226Secret, step+offset)
		require.NoError(t, err)

		valid := e.VerifyCode(rfc4226Secret, code)
		if offset >= -1 && offset <= 1 {
			require.True(t, valid, "offset %d should be accepted", offset)
		} else {
			require.False(t, valid, "offset %d should be rejected", offset)
		}
	}
}

func TestVerifyCodeRejectsMalformedCandidates(t *testing.T) {
	t.Parallel()

	e := &Engine{}
	for _, code := range []string{"", "12345", "1234567", "12345678901"} {
		require.False(t, e.VerifyCode(rfc4226Secret, code), "code %q", code)
	}
}

func TestGenerateSecret(t *testing.T) {
	t.Parallel()

	raw := make([]byte, SecretSize)
	for i := range raw {
		raw[i] = byte(i)
	}

	e := &Engine{Rand: bytes.NewReader(raw)}
	secret, err := e.GenerateSecret()
	require.NoError(t, err)
	require.Equal(t, EncodeBase32(raw), secret)

	decoded, err := DecodeBase32(secret)
	require.NoError(t, err)
	require.Len(t, decoded, SecretSize)
}

func TestGenerateSecretExhaustedSource(t *testing.T) {
	t.Parallel()

	e := &Engine{Rand: bytes.NewReader([]byte{1, 2, 3})}
	_, err := e.GenerateSecret()
	require.Error(t, err)
}

func TestProvisioningURI(t *testing.T) {
	t.Parallel()

	e := &Engine{Issuer: "Acme Corp"}
	uri := e.ProvisioningURI("JBSWY3DPEHPK3PXP", "alice@example.com")

	require.Equal(t,
		"otpauth://totp/Acme+Corp:alice%40example.com?secret=JBSWY3DPEHPK3PXP&issuer=Acme+Corp&algorithm=SHA1&digits=6&period=30",
		uri)

	// The URI must round-trip through a standard otpauth parser.
	key, err := otp.NewKeyFromURL(uri)
	require.NoError(t, err)
	require.Equal(t, "JBSWY3DPEHPK3PXP", key.Secret())
	require.Equal(t, "Acme Corp", key.Issuer())
}
