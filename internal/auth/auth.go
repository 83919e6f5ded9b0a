// Package auth issues and verifies the admin access tokens.
package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// RoleAdmin is the only role the service issues.
const RoleAdmin = "admin"

var (
	// ErrInvalidCredentials is returned for a wrong username or password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken is returned for tokens that fail verification.
	ErrInvalidToken = errors.New("invalid token")
	// ErrDisabled is returned when no signing secret is configured.
	ErrDisabled = errors.New("admin authentication disabled")
)

// Claims are the JWT claims of an admin token.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Authenticator checks admin credentials and signs HS256 tokens.
type Authenticator struct {
	secret       []byte
	ttl          time.Duration
	username     string
	passwordHash []byte
	now          func() time.Time
}

// NewAuthenticator returns an Authenticator. passwordHash is a bcrypt hash.
// With an empty secret or hash the Authenticator is disabled: no login
// succeeds and no token verifies.
func NewAuthenticator(secret string, ttl time.Duration, username, passwordHash string) *Authenticator {
	return &Authenticator{
		secret:       []byte(secret),
		ttl:          ttl,
		username:     username,
		passwordHash: []byte(passwordHash),
		now:          time.Now,
	}
}

// Enabled reports whether both a signing secret and a password hash are
// configured.
func (a *Authenticator) Enabled() bool {
	return len(a.secret) > 0 && len(a.passwordHash) > 0
}

// HashPassword returns a bcrypt hash suitable for ADMIN_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

// Login verifies the credentials and returns a signed token and its expiry.
func (a *Authenticator) Login(username, password string) (string, time.Time, error) {
	if !a.Enabled() {
		return "", time.Time{}, ErrInvalidCredentials
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	if err := bcrypt.CompareHashAndPassword(a.passwordHash, []byte(password)); err != nil || !userOK {
		return "", time.Time{}, ErrInvalidCredentials
	}
	return a.Issue(username)
}

// Issue signs a token for subject.
func (a *Authenticator) Issue(subject string) (string, time.Time, error) {
	if len(a.secret) == 0 {
		return "", time.Time{}, ErrDisabled
	}
	now := a.now().UTC()
	exp := now.Add(a.ttl)
	claims := Claims{
		Role: RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

// Verify parses raw and returns its claims when the signature, expiry and
// role are valid.
func (a *Authenticator) Verify(raw string) (*Claims, error) {
	if !a.Enabled() {
		return nil, ErrInvalidToken
	}
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return a.secret, nil
	}, jwt.WithTimeFunc(a.now))
	if err != nil || !tok.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Role != RoleAdmin {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
