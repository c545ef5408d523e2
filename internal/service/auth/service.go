package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/driverwallet/shift-backend-go/internal/domain/auth"
	"github.com/driverwallet/shift-backend-go/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceImpl struct {
	jwt.Service
	pinHash []byte
}

// NewAuthService checks PINs against a bcrypt hash; the app has a single
// driver account, so there is no user table.
func NewAuthService(jwtService jwt.Service, pinHash string) auth.AuthService {
	return &AuthServiceImpl{
		Service: jwtService,
		pinHash: []byte(pinHash),
	}
}

// HashPIN returns the bcrypt hash to configure as AUTH_PIN_HASH.
func HashPIN(pin string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword(a.pinHash, []byte(req.PIN)); err != nil {
		slog.Warn("login rejected", "reason", "pin mismatch")
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	token, expiresAt, err := a.Service.GenerateAccessToken(jwt.DriverSubject)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}

	return auth.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
	}, nil
}

// Logout implements auth.AuthService.
func (a *AuthServiceImpl) Logout(ctx context.Context, accessToken string) error {
	if accessToken == "" {
		return auth.ErrInvalidToken
	}
	a.Service.RevokeToken(accessToken)
	return nil
}

// IssueSSEToken implements auth.AuthService.
func (a *AuthServiceImpl) IssueSSEToken(ctx context.Context, subject string) (auth.SSETokenResponse, error) {
	if subject == "" {
		return auth.SSETokenResponse{}, auth.ErrInvalidToken
	}

	token, expiresIn, err := a.Service.GenerateSSEToken(subject)
	if err != nil {
		return auth.SSETokenResponse{}, fmt.Errorf("failed to create sse token: %w", err)
	}
	return auth.SSETokenResponse{Token: token, ExpiresIn: expiresIn}, nil
}
