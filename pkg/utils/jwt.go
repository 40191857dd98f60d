package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/flpflJ/crypto-chat/config"
	"github.com/flpflJ/crypto-chat/pkg/errors"
)

// GenerateJWTToken signs an HS256 access token whose subject is the username.
// Expiry comes from config (minutes).
func GenerateJWTToken(username string, cfg config.Config) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(cfg.JWT.ExpiredIn) * time.Minute)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(cfg.JWT.Secret))
	if err != nil {
		return "", errors.Wrap(errors.CodeInternal, "failed to sign token", err)
	}
	return signed, nil
}

// ParseJWTToken resolves a bearer token to the username it was issued for.
// Malformed, forged and expired tokens all come back as ErrInvalidCredential;
// callers must treat the returned identity as authoritative.
func ParseJWTToken(tokenStr string, cfg config.Config) (string, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.ErrInvalidCredential
		}
		return []byte(cfg.JWT.Secret), nil
	})
	if err != nil || !token.Valid {
		return "", errors.ErrInvalidCredential
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", errors.ErrInvalidCredential
	}
	return claims.Subject, nil
}
