package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_TokenRoundTrip(t *testing.T) {
	svc := NewAuthService("test-secret")
	sessionID := uuid.New()

	token, err := svc.IssueSessionToken(sessionID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, sessionID, claims.SessionID)
}

func TestAuthService_ValidateToken_WrongSecret(t *testing.T) {
	token, err := NewAuthService("secret-a").IssueSessionToken(uuid.New())
	require.NoError(t, err)

	_, err = NewAuthService("secret-b").ValidateToken(token)
	assert.Error(t, err)
}

func TestAuthService_ValidateToken_Garbage(t *testing.T) {
	svc := NewAuthService("test-secret")

	_, err := svc.ValidateToken("not-a-token")
	assert.Error(t, err)

	_, err = svc.ValidateToken("")
	assert.Error(t, err)
}

func TestAuthService_TokensDifferPerSession(t *testing.T) {
	svc := NewAuthService("test-secret")

	a, err := svc.IssueSessionToken(uuid.New())
	require.NoError(t, err)
	b, err := svc.IssueSessionToken(uuid.New())
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}
