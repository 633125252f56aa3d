// Package auth verifies the identity tokens callers present. Issuing accounts
// happens elsewhere; the service only trusts tokens signed with its secret.
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"ticketing-marketplace-backend/model"
	"time"

	"github.com/dgrijalva/jwt-go"
)

// IssueToken signs an HS256 token whose subject is identity.
func IssueToken(identity model.Identity, secret string, ttl time.Duration) (string, error) {
	if err := model.ValidateIdentity(identity); err != nil {
		return "", fmt.Errorf("issueToken: %w", err)
	}
	if secret == "" {
		return "", errors.New("issueToken: empty secret")
	}

	now := time.Now()
	claims := jwt.StandardClaims{
		Subject:   string(identity),
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(ttl).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("issueToken: error signing token: %w", err)
	}
	return signed, nil
}

// VerifyToken returns the subject of a valid token. A token expired less than
// interval ago is still accepted.
func VerifyToken(t, secret string, interval time.Duration) (identity model.Identity, ok bool) {
	parsed, err := jwt.Parse(t, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})

	if err != nil {
		var ve *jwt.ValidationError
		if !errors.As(err, &ve) || ve.Errors != jwt.ValidationErrorExpired || parsed == nil {
			return "", false
		}
		claims, valid := parsed.Claims.(jwt.MapClaims)
		if !valid || !checkInterval(claims, interval) {
			return "", false
		}
		return subject(claims)
	}

	if !parsed.Valid {
		return "", false
	}
	claims, valid := parsed.Claims.(jwt.MapClaims)
	if !valid {
		return "", false
	}
	return subject(claims)
}

func subject(claims jwt.MapClaims) (model.Identity, bool) {
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", false
	}
	return model.Identity(sub), true
}

func checkInterval(claims jwt.MapClaims, interval time.Duration) bool {
	var exp int64
	switch v := claims["exp"].(type) {
	case float64:
		exp = int64(v)
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return false
		}
		exp = n
	default:
		return false
	}
	return time.Now().Add(-interval).Before(time.Unix(exp, 0))
}
