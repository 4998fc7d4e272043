package http

import "github.com/keygateio/keygate/internal/auth/domain"

type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	TOTPCode string `json:"totp_code,omitempty"`
}

type TwoFactorVerifyRequest struct {
	Code string `json:"code"`
}

// AuthResponse is the shared shape for every operation that can end in a
// session or a pending challenge.
type AuthResponse struct {
	AccessToken       string `json:"access_token,omitempty"`
	TokenType         string `json:"token_type,omitempty"`
	TwoFactorRequired bool   `json:"two_factor_required,omitempty"`
	TwoFactorToken    string `json:"two_factor_token,omitempty"`
	Message           string `json:"message,omitempty"`
}

type TwoFactorSetupResponse struct {
	Secret          string `json:"secret"`
	ProvisioningURI string `json:"provisioning_uri"`
	QRCode          string `json:"qr_code"`
	Message         string `json:"message"`
}

type UserResponse = domain.Profile

func sessionResponse(token, message string) AuthResponse {
	return AuthResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		Message:     message,
	}
}

func outcomeResponse(out domain.Outcome, message string) AuthResponse {
	if out.ChallengeRequired {
		return AuthResponse{
			TwoFactorRequired: true,
			TwoFactorToken:    out.PendingToken,
			Message:           "Two-factor authentication code required",
		}
	}
	return sessionResponse(out.SessionToken, message)
}
