// Package utils provides helper functions for password hashing and for
// issuing and verifying admin session tokens.
package utils

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for every token defect: bad signature,
// wrong signing method, malformed claims or an expired token. Callers
// must not distinguish between these cases in responses.
var ErrInvalidToken = errors.New("invalid token")

// AdminToken is a signed HS256 JWT identifying an admin, along with its
// expiry. Tokens are self-contained; no session state is kept in process
// memory or in the store.
type AdminToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// NewAdminToken builds and signs an HS256 JWT embedding the admin's id
// and email. The token is valid for ttlHours from now. Claims: sub
// (admin id), email, exp and iat.
func NewAdminToken(secret string, adminID int64, email string, ttlHours int) (AdminToken, error) {
	now := time.Now().UTC()
	exp := now.Add(time.Duration(ttlHours) * time.Hour)
	claims := jwt.MapClaims{
		"sub":   adminID,
		"email": email,
		"exp":   exp.Unix(),
		"iat":   now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AdminToken{}, err
	}
	return AdminToken{Token: signed, Exp: exp}, nil
}

// ParseAdminToken verifies the signature and validity of a raw token and
// returns the embedded admin id and email. The signing method is pinned
// to HMAC; tokens signed any other way are rejected. All failures map to
// ErrInvalidToken so that nothing about the defect leaks to the caller.
func ParseAdminToken(secret, raw string) (int64, string, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return 0, "", ErrInvalidToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", ErrInvalidToken
	}

	var id int64
	switch sub := claims["sub"].(type) {
	case float64:
		// Numeric JWT values decode as float64.
		id = int64(sub)
	case string:
		n, err := strconv.ParseInt(sub, 10, 64)
		if err != nil {
			return 0, "", ErrInvalidToken
		}
		id = n
	default:
		return 0, "", ErrInvalidToken
	}

	email, _ := claims["email"].(string)
	if id <= 0 || email == "" {
		return 0, "", ErrInvalidToken
	}
	return id, email, nil
}
