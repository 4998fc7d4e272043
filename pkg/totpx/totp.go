// Package totpx implements RFC 6238 time-based one-time passwords with the
// parameters every mainstream authenticator app ships with: HMAC-SHA1,
// 6 digits, 30-second period.
package totpx

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha1"
	"crypto/subtle"
	"encoding/binary"
	"fmt"
	"io"
	"net/url"
	"time"
)

const (
	// Period is the TOTP time-step in seconds.
	Period = 30

	// Digits is the code length.
	Digits = 6

	// SecretSize is the raw secret length in bytes before base32 encoding.
	SecretSize = 20

	// skew is the number of time-steps accepted either side of now. One
	// step each way tolerates ±30s of clock drift; anything wider grows
	// the guessing window for no real usability gain.
	skew = 1
)

// Engine generates secrets and verifies codes. Issuer names the service in
// provisioning URIs. Now and Rand default to the wall clock and crypto/rand;
// tests pin them for deterministic output.
type Engine struct {
	Issuer string
	Now    func() time.Time
	Rand   io.Reader
}

func (e *Engine) clock() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e *Engine) reader() io.Reader {
	if e.Rand != nil {
		return e.Rand
	}
	return rand.Reader
}

// GenerateSecret draws SecretSize cryptographically random bytes and
// returns them base32-encoded, ready to store or show to the user.
func (e *Engine) GenerateSecret() (string, error) {
	raw := make([]byte, SecretSize)
	if _, err := io.ReadFull(e.reader(), raw); err != nil {
		return "", fmt.Errorf("totpx: generate secret: %w", err)
	}
	return EncodeBase32(raw), nil
}

// ProvisioningURI builds the otpauth URI an authenticator app imports via
// QR code or manual entry. The field set and ordering are a fixed external
// contract; scanners are not forgiving about it.
func (e *Engine) ProvisioningURI(secret, account string) string {
	issuer := url.QueryEscape(e.Issuer)
	return fmt.Sprintf("otpauth://totp/%s:%s?secret=%s&issuer=%s&algorithm=SHA1&digits=%d&period=%d",
		issuer, url.QueryEscape(account), secret, issuer, Digits, Period)
}

// VerifyCode reports whether code matches secret at the current time-step
// or one step either side. Candidates that are not exactly Digits
// characters long are rejected before any HMAC is computed.
func (e *Engine) VerifyCode(secret, code string) bool {
	if len(code) != Digits {
		return false
	}

	step := e.clock().Unix() / Period
	for offset := int64(-skew); offset <= skew; offset++ {
		derived, err := deriveCode(secret, step+offset)
		if err != nil {
			return false
		}
		if subtle.ConstantTimeCompare([]byte(derived), []byte(code)) == 1 {
			return true
		}
	}

	return false
}

// deriveCode computes the code for a secret at a specific time-step:
// HMAC-SHA1 over the 8-byte big-endian step, then RFC 4226 §5.3 dynamic
// truncation reduced modulo 10^Digits and zero-padded.
func deriveCode(secret string, timeStep int64) (string, error) {
	key, err := DecodeBase32(secret)
	if err != nil {
		return "", err
	}

	var msg [8]byte
	binary.BigEndian.PutUint64(msg[:], uint64(timeStep))

	mac := hmac.New(sha1.New, key)
	_, _ = mac.Write(msg[:])
	sum := mac.Sum(nil)

	offset := sum[len(sum)-1] & 0x0f
	bin := int(sum[offset]&0x7f)<<24 |
		int(sum[offset+1])<<16 |
		int(sum[offset+2])<<8 |
		int(sum[offset+3])

	return fmt.Sprintf("%0*d", Digits, bin%1_000_000), nil
}
