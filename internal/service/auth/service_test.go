package auth

import (
	"context"
	"testing"
	"time"

	"github.com/driverwallet/shift-backend-go/internal/domain/auth"
	"github.com/driverwallet/shift-backend-go/internal/pkg/jwt"
	"github.com/driverwallet/shift-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret-key-for-jwt"

func newTestAuthService(t *testing.T) (auth.AuthService, jwt.Service) {
	t.Helper()
	// MinCost keeps the tests fast.
	hash, err := bcrypt.GenerateFromPassword([]byte("4321"), bcrypt.MinCost)
	require.NoError(t, err)

	jwtService := jwt.NewJWTService(testSecret, time.Hour)
	return NewAuthService(jwtService, string(hash)), jwtService
}

func TestAuthService_Login_Success(t *testing.T) {
	svc, jwtService := newTestAuthService(t)

	resp, err := svc.Login(context.Background(), auth.LoginRequest{PIN: "4321"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Greater(t, resp.ExpiresAt, time.Now().Unix())
	assert.False(t, jwtService.IsTokenRevoked(resp.AccessToken))
}

func TestAuthService_Login_InvalidPIN(t *testing.T) {
	svc, _ := newTestAuthService(t)

	_, err := svc.Login(context.Background(), auth.LoginRequest{PIN: "9999"})
	assert.Equal(t, auth.ErrInvalidCredentials, err)
}

func TestAuthService_Login_ValidationError(t *testing.T) {
	svc, _ := newTestAuthService(t)

	_, err := svc.Login(context.Background(), auth.LoginRequest{PIN: "12ab"})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "pin")
}

func TestAuthService_Logout(t *testing.T) {
	svc, jwtService := newTestAuthService(t)
	ctx := context.Background()

	resp, err := svc.Login(ctx, auth.LoginRequest{PIN: "4321"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, resp.AccessToken))
	assert.True(t, jwtService.IsTokenRevoked(resp.AccessToken))

	assert.Equal(t, auth.ErrInvalidToken, svc.Logout(ctx, ""))
}

func TestAuthService_IssueSSEToken(t *testing.T) {
	svc, jwtService := newTestAuthService(t)

	resp, err := svc.IssueSSEToken(context.Background(), jwt.DriverSubject)
	require.NoError(t, err)
	assert.Equal(t, 300, resp.ExpiresIn)

	subject, err := jwtService.ValidateSSEToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, jwt.DriverSubject, subject)

	_, err = svc.IssueSSEToken(context.Background(), "")
	assert.Equal(t, auth.ErrInvalidToken, err)
}

func TestHashPIN(t *testing.T) {
	hash, err := HashPIN("2468")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("2468")))
}
