// Package auth validates bearer tokens and resolves the acting user per request.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrMissingToken = errors.New("authorization token required")
)

type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Manager signs and verifies HS256 tokens whose subject is the user id.
type Manager struct {
	secret   []byte
	issuer   string
	duration time.Duration
	now      func() time.Time
}

func NewManager(secret, issuer string, duration time.Duration) *Manager {
	return &Manager{secret: []byte(secret), issuer: issuer, duration: duration, now: time.Now}
}

func (m *Manager) Issue(userID uuid.UUID, email string) (string, error) {
	if len(m.secret) == 0 {
		return "", errors.New("signing secret is not configured")
	}

	now := m.now()
	claims := &Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.duration)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}

	return signed, nil
}

// Validate returns the user id carried by a valid token.
func (m *Manager) Validate(token string) (uuid.UUID, error) {
	claims := &Claims{}

	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}

	return id, nil
}
