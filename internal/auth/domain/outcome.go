package domain

// Outcome is the discriminated result of an authentication attempt: either
// a full session or a pending second-factor challenge. Exactly one of
// SessionToken and PendingToken is set.
type Outcome struct {
	SessionToken      string
	ChallengeRequired bool
	PendingToken      string
}

// SessionOutcome wraps a minted session token.
func SessionOutcome(token string) Outcome {
	return Outcome{SessionToken: token}
}

// ChallengeOutcome wraps a pending second-factor token. This is an expected
// branch of login, not an error.
func ChallengeOutcome(pendingToken string) Outcome {
	return Outcome{ChallengeRequired: true, PendingToken: pendingToken}
}

// TwoFactorSetup is returned by second-factor enrollment: the fresh secret,
// its otpauth provisioning URI, and a QR rendering of that URI.
type TwoFactorSetup struct {
	Secret          string
	ProvisioningURI string
	QRCode          string // data URI PNG
}
