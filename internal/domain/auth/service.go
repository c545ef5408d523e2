package auth

import (
	"context"
)

type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (TokenResponse, error)
	Logout(ctx context.Context, accessToken string) error
	IssueSSEToken(ctx context.Context, subject string) (SSETokenResponse, error)
}
