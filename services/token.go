// Package services: services/token.go
// ID-token issuance and verification for the identity provider boundary.
// Tokens are short-lived HS256 JWTs carrying the identity's uid, email and
// role; the session stores only the token string.
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"go-footy-trivia/models"
)

// ErrBadToken is returned for missing, malformed, expired or forged tokens.
var ErrBadToken = errors.New("invalid id token")

// TokenManager issues and verifies signed ID tokens.
type TokenManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewTokenManager creates a manager with the provided secret, issuer and
// token lifetime.
func NewTokenManager(secret, issuer string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), issuer: issuer, ttl: ttl}
}

// Issue signs an ID token for the identity.
func (t *TokenManager) Issue(id models.Identity) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"iss":   t.issuer,
		"sub":   id.ID,
		"email": id.Email,
		"name":  id.Name,
		"role":  id.Role,
		"iat":   now.Unix(),
		"nbf":   now.Unix(),
		"exp":   now.Add(t.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Verify parses the token and reconstructs the identity it was issued for.
// The role claim reflects the role at sign-in time; authorization re-reads
// the stored role rather than trusting this claim.
func (t *TokenManager) Verify(tokenString string) (models.Identity, error) {
	token, err := jwt.Parse(tokenString, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", tok.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithIssuer(t.issuer), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return models.Identity{}, fmt.Errorf("%w: %v", ErrBadToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return models.Identity{}, ErrBadToken
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return models.Identity{}, ErrBadToken
	}
	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)
	role, _ := claims["role"].(string)
	return models.Identity{ID: sub, Email: email, Name: name, Role: role}, nil
}
