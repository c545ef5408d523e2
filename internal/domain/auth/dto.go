package auth

import "github.com/driverwallet/shift-backend-go/internal/pkg/validator"

type LoginRequest struct {
	PIN string `json:"pin" validate:"required,min=4,max=12,numeric"`
}

func (r *LoginRequest) Validate() error {
	return validator.Struct(r)
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresAt   int64  `json:"expires_at"`
}

type SSETokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}
