package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParse_Success(t *testing.T) {
	t.Parallel()

	secret := []byte("super-secret")

	tok, err := GenerateToken("a@x.com", secret)
	require.NoError(t, err)

	sub, err := SubjectFromToken(tok, secret)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", sub)
}

func TestSubjectFromToken_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := GenerateToken("a@x.com", []byte("right-secret"))
	require.NoError(t, err)

	_, err = SubjectFromToken(tok, []byte("wrong-secret"))
	require.Error(t, err)
}

func TestSubjectFromToken_Malformed(t *testing.T) {
	t.Parallel()

	_, err := SubjectFromToken("not-a-jwt", []byte("secret"))
	require.Error(t, err)
}

func TestSubjectFromToken_MissingSubject(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		IssuedAt: jwt.NewNumericDate(time.Now()),
	}).SignedString(secret)
	require.NoError(t, err)

	_, err = SubjectFromToken(tok, secret)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestSubjectFromToken_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{Subject: "a@x.com"}).SignedString(secret)
	require.NoError(t, err)

	_, err = SubjectFromToken(tok, secret)
	require.Error(t, err)
}
