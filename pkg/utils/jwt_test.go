package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flpflJ/crypto-chat/config"
	appErrors "github.com/flpflJ/crypto-chat/pkg/errors"
)

func testConfig() config.Config {
	return config.Config{JWT: config.JWT{Secret: "test-secret", ExpiredIn: 60}}
}

func TestGenerateAndParseJWTToken(t *testing.T) {
	cfg := testConfig()

	token, err := GenerateJWTToken("alice", cfg)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	username, err := ParseJWTToken(token, cfg)
	require.NoError(t, err)
	assert.Equal(t, "alice", username)
}

func TestParseJWTToken_WrongSecret(t *testing.T) {
	cfg := testConfig()

	token, err := GenerateJWTToken("alice", config.Config{JWT: config.JWT{Secret: "other-secret", ExpiredIn: 60}})
	require.NoError(t, err)

	_, err = ParseJWTToken(token, cfg)
	assert.True(t, errors.Is(err, appErrors.ErrInvalidCredential), "got %v", err)
}

func TestParseJWTToken_Expired(t *testing.T) {
	cfg := testConfig()

	claims := jwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.JWT.Secret))
	require.NoError(t, err)

	_, err = ParseJWTToken(expired, cfg)
	assert.True(t, errors.Is(err, appErrors.ErrInvalidCredential), "got %v", err)
}

func TestParseJWTToken_Malformed(t *testing.T) {
	cfg := testConfig()

	for _, tok := range []string{"", "not-a-token", "a.b.c"} {
		_, err := ParseJWTToken(tok, cfg)
		assert.True(t, errors.Is(err, appErrors.ErrInvalidCredential), "token %q: got %v", tok, err)
	}
}

func TestParseJWTToken_MissingSubject(t *testing.T) {
	cfg := testConfig()

	claims := jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.JWT.Secret))
	require.NoError(t, err)

	_, err = ParseJWTToken(tok, cfg)
	assert.True(t, errors.Is(err, appErrors.ErrInvalidCredential), "got %v", err)
}

func TestCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)

	assert.True(t, CheckPassword(hash, "s3cret"))
	assert.False(t, CheckPassword(hash, "wrong"))
}
