package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestAuthService(t *testing.T, password string) *AuthService {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return NewAuthService("test-secret", string(hash))
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	svc := newTestAuthService(t, "correct horse")

	token, err := svc.Login("correct horse")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "organizer", claims["role"])
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc := newTestAuthService(t, "correct horse")

	_, err := svc.Login("battery staple")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestVerifyTokenRejectsForeignSignature(t *testing.T) {
	svc := newTestAuthService(t, "pw")
	other := newTestAuthService(t, "pw")
	other.jwtSecret = []byte("different-secret")

	token, err := other.Login("pw")
	require.NoError(t, err)

	_, err = svc.VerifyToken(token)
	assert.Error(t, err)
}

func TestVerifyTokenRejectsGarbage(t *testing.T) {
	svc := newTestAuthService(t, "pw")
	_, err := svc.VerifyToken("not.a.token")
	assert.Error(t, err)
}
