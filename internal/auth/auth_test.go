package auth

import (
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

func newTestAuthenticator(t *testing.T) *Authenticator {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	return NewAuthenticator("test-secret", time.Hour, "admin", string(h))
}

func TestLogin(t *testing.T) {
	a := newTestAuthenticator(t)
	tt := []struct {
		name     string
		user     string
		password string
		wantErr  error
	}{
		{name: "ok", user: "admin", password: "s3cret"},
		{name: "wrong password", user: "admin", password: "nope", wantErr: ErrInvalidCredentials},
		{name: "wrong user", user: "root", password: "s3cret", wantErr: ErrInvalidCredentials},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			tok, exp, err := a.Login(tc.user, tc.password)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("err = %v, want %v", err, tc.wantErr)
			}
			if tc.wantErr != nil {
				return
			}
			if tok == "" || exp.IsZero() {
				t.Fatal("empty token")
			}
			claims, err := a.Verify(tok)
			if err != nil {
				t.Fatal(err)
			}
			if claims.Subject != "admin" || claims.Role != RoleAdmin {
				t.Fatalf("claims = %+v", claims)
			}
		})
	}
}

func TestLogin_NoHashConfigured(t *testing.T) {
	a := NewAuthenticator("x", time.Hour, "admin", "")
	if _, _, err := a.Login("admin", ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v", err)
	}
}

func TestVerify_Rejects(t *testing.T) {
	a := newTestAuthenticator(t)
	tok, _, err := a.Issue("admin")
	if err != nil {
		t.Fatal(err)
	}

	other := NewAuthenticator("other-secret", time.Hour, "admin", "$2a$04$unused")
	if _, err := other.Verify(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("foreign secret err = %v", err)
	}

	a.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := a.Verify(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expired token err = %v", err)
	}

	if _, err := a.Verify("garbage"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("garbage err = %v", err)
	}
}

func TestHashPassword(t *testing.T) {
	h, err := HashPassword("pw")
	if err != nil {
		t.Fatal(err)
	}
	if bcrypt.CompareHashAndPassword([]byte(h), []byte("pw")) != nil {
		t.Fatal("hash does not verify")
	}
}

func TestDisabledAuthenticator(t *testing.T) {
	h, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	// a token signed with a guessable key must not open an unconfigured service
	forged, _, err := NewAuthenticator("change-me", time.Hour, "admin", string(h)).Issue("admin")
	if err != nil {
		t.Fatal(err)
	}

	tt := []struct {
		name   string
		secret string
		hash   string
	}{
		{name: "no secret", secret: "", hash: string(h)},
		{name: "no hash", secret: "change-me", hash: ""},
		{name: "nothing", secret: "", hash: ""},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			a := NewAuthenticator(tc.secret, time.Hour, "admin", tc.hash)
			if a.Enabled() {
				t.Fatal("authenticator reported enabled")
			}
			if _, err := a.Verify(forged); !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("Verify err = %v", err)
			}
			if _, _, err := a.Login("admin", "s3cret"); !errors.Is(err, ErrInvalidCredentials) {
				t.Fatalf("Login err = %v", err)
			}
		})
	}

	if _, _, err := NewAuthenticator("", time.Hour, "admin", string(h)).Issue("admin"); !errors.Is(err, ErrDisabled) {
		t.Fatalf("Issue err = %v", err)
	}
}
