// Package identity issues bearer tokens and resolves the caller of a request.
package identity

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrMissingCredentials is returned when the request carries no Authorization header.
	ErrMissingCredentials = errors.New("missing credentials")
	// ErrInvalidCredentials wraps token parsing and password check failures.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Principal is the authenticated caller.
type Principal struct {
	UserID   string
	Username string
}

type TokenConfig struct {
	Secret string
	Issuer string
	TTL    time.Duration
}

// Tokens signs and verifies HS256 tokens.
type Tokens struct {
	cfg TokenConfig
	now func() time.Time
}

func NewTokens(cfg TokenConfig) *Tokens {
	return &Tokens{cfg: cfg, now: time.Now}
}

func (t *Tokens) Issue(p Principal) (string, error) {
	now := t.now()
	claims := jwt.MapClaims{
		"sub":  p.UserID,
		"name": p.Username,
		"iss":  t.cfg.Issuer,
		"iat":  now.Unix(),
		"exp":  now.Add(t.cfg.TTL).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(t.cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse validates token and returns the principal it was issued for.
func (t *Tokens) Parse(token string) (Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Principal{}, ErrMissingCredentials
	}

	parsed, err := jwt.Parse(token, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", tok.Header["alg"])
		}
		return []byte(t.cfg.Secret), nil
	},
		jwt.WithIssuer(t.cfg.Issuer),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return Principal{}, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return Principal{}, ErrInvalidCredentials
	}

	subject, _ := claims["sub"].(string)
	name, _ := claims["name"].(string)
	if subject == "" {
		return Principal{}, ErrInvalidCredentials
	}
	return Principal{UserID: subject, Username: name}, nil
}
