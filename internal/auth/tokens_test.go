package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emiliohtp1/tienda-backend/internal/domain"
)

func TestIssueAndVerify(t *testing.T) {
	sut := NewTokenManager("test-secret", time.Hour)

	signed, err := sut.Issue("ana@tienda.com", domain.RoleEditor)
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	username, role, err := sut.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, "ana@tienda.com", username)
	assert.Equal(t, domain.RoleEditor, role)
}

func TestVerify_WrongSecret(t *testing.T) {
	signed, err := NewTokenManager("secret-a", time.Hour).Issue("ana@tienda.com", domain.RoleBasic)
	require.NoError(t, err)

	_, _, err = NewTokenManager("secret-b", time.Hour).Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_Expired(t *testing.T) {
	sut := NewTokenManager("test-secret", -time.Minute)

	signed, err := sut.Issue("ana@tienda.com", domain.RoleBasic)
	require.NoError(t, err)

	_, _, err = sut.Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_Garbage(t *testing.T) {
	sut := NewTokenManager("test-secret", time.Hour)

	_, _, err := sut.Verify("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_UnexpectedSigningMethod(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub":  "ana@tienda.com",
		"role": string(domain.RoleAdmin),
	})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, _, err = NewTokenManager("test-secret", time.Hour).Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_UnknownRole(t *testing.T) {
	secret := []byte("test-secret")
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "ana@tienda.com",
		"role": "superuser",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString(secret)
	require.NoError(t, err)

	_, _, err = NewTokenManager("test-secret", time.Hour).Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_MissingSubject(t *testing.T) {
	secret := []byte("test-secret")
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"role": string(domain.RoleBasic),
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString(secret)
	require.NoError(t, err)

	_, _, err = NewTokenManager("test-secret", time.Hour).Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
