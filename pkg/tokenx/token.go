// Package tokenx signs and validates the compact tokens that carry keygate
// authentication state. Tokens are stateless: validity is fully determined
// by the HMAC signature and the embedded timestamps, so any number of
// instances can validate them without shared storage.
package tokenx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/keygateio/keygate/pkg/idx"
)

// Purpose scopes a token to one class of operation. A pending token must
// never be accepted where a session token is required, and vice versa.
type Purpose string

const (
	// PurposeSession marks a full login session.
	PurposeSession Purpose = "session"

	// PurposeSecondFactor marks the intermediate state between a verified
	// password and a verified TOTP code.
	PurposeSecondFactor Purpose = "second-factor-pending"
)

// PendingTTL is the fixed lifetime of second-factor-pending tokens. Kept
// deliberately short: it is the window between a verified password and a
// verified code.
const PendingTTL = 5 * time.Minute

// MinKeySize is the minimum accepted signing key length in bytes.
const MinKeySize = 32

var (
	// ErrTokenInvalid reports a token whose signature does not verify or
	// whose structure is malformed. Expiry alone does not produce it;
	// IsValid checks expiry as a predicate.
	ErrTokenInvalid = errors.New("tokenx: invalid token")

	// ErrKeyTooShort reports a signing key below MinKeySize.
	ErrKeyTooShort = fmt.Errorf("tokenx: signing key shorter than %d bytes", MinKeySize)
)

// Claims carried by every keygate token.
type Claims struct {
	jwt.RegisteredClaims

	// Purpose gates which operations may consume the token.
	Purpose Purpose `json:"purpose"`

	// UserID is the numeric user identifier, set on session tokens only.
	UserID int64 `json:"uid,omitempty"`
}

// Service signs and parses tokens with a single symmetric key held as
// process-wide configuration. The key is loaded once at startup and never
// rotated at runtime. Now defaults to the wall clock; tests pin it.
type Service struct {
	Key        []byte
	Issuer     string
	SessionTTL time.Duration
	Now        func() time.Time
}

func (s *Service) clock() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Validate reports whether the service is configured with a usable key.
func (s *Service) Validate() error {
	if len(s.Key) < MinKeySize {
		return ErrKeyTooShort
	}
	return nil
}

// IssueSession mints a session token for username embedding the numeric
// user identifier alongside the subject.
func (s *Service) IssueSession(username string, userID int64) (string, error) {
	return s.issue(username, PurposeSession, s.SessionTTL, userID)
}

// IssuePending mints a short-lived second-factor challenge token.
func (s *Service) IssuePending(username string) (string, error) {
	return s.issue(username, PurposeSecondFactor, PendingTTL, 0)
}

// Issue mints a token with an explicit purpose and lifetime. The
// convenience wrappers above cover the two purposes the service defines.
func (s *Service) Issue(subject string, purpose Purpose, ttl time.Duration, userID int64) (string, error) {
	return s.issue(subject, purpose, ttl, userID)
}

func (s *Service) issue(subject string, purpose Purpose, ttl time.Duration, userID int64) (string, error) {
	now := s.clock()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.Issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        idx.New().String(),
		},
		Purpose: purpose,
		UserID:  userID,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Key)
	if err != nil {
		return "", fmt.Errorf("tokenx: sign: %w", err)
	}
	return signed, nil
}

// Parse verifies signature and structure and returns the claims. Expiry is
// deliberately not enforced here so callers can distinguish "forged" from
// "merely expired"; use IsValid for the boolean check.
func (s *Service) Parse(token string) (Claims, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims,
		func(t *jwt.Token) (any, error) { return s.Key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil || !parsed.Valid {
		return Claims{}, ErrTokenInvalid
	}
	return claims, nil
}

// IsValid reports whether the token parses and has not expired. Any parse
// failure yields false; this never returns an error to the caller.
func (s *Service) IsValid(token string) bool {
	claims, err := s.Parse(token)
	if err != nil {
		return false
	}
	return claims.ExpiresAt != nil && s.clock().Before(claims.ExpiresAt.Time)
}

// IsPurpose reports whether the token parses and carries the given purpose
// claim. It gates second-factor-only operations so a session token can
// never be replayed as a pending-challenge token.
func (s *Service) IsPurpose(token string, purpose Purpose) bool {
	claims, err := s.Parse(token)
	return err == nil && claims.Purpose == purpose
}

// Subject returns the username a token was issued to. Callers must have
// checked IsValid first; for a token that does not parse it returns "".
func (s *Service) Subject(token string) string {
	claims, err := s.Parse(token)
	if err != nil {
		return ""
	}
	return claims.Subject
}
