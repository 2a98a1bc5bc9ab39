package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/kharelpawan/uaebackend/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open("sqlite", "") // in-memory
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func newTestService(t *testing.T, st *store.Store) *Service {
	t.Helper()
	svc, err := NewService(st, Config{Secret: "test-secret"})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestNewServiceRequiresSecret(t *testing.T) {
	st := newTestStore(t)

	_, err := NewService(st, Config{})
	if !errors.Is(err, ErrMissingSecret) {
		t.Fatalf("expected ErrMissingSecret, got %v", err)
	}
}

func TestNewServiceDefaults(t *testing.T) {
	st := newTestStore(t)

	svc, err := NewService(st, Config{Secret: "s"})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	if svc.TokenTTL() != DefaultTokenTTL {
		t.Errorf("TokenTTL = %v, want %v", svc.TokenTTL(), DefaultTokenTTL)
	}
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"admin@alruyah.ae", "admin@alruyah.ae", false},
		{"  Admin@Alruyah.AE  ", "admin@alruyah.ae", false},
		{"not-an-email", "", true},
		{"", "", true},
		{"two@at@signs", "", true},
	}
	for _, tt := range tests {
		got, err := NormalizeEmail(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("NormalizeEmail(%q): expected error, got %q", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("NormalizeEmail(%q): %v", tt.in, err)
		} else if got != tt.want {
			t.Errorf("NormalizeEmail(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBootstrapThenLogin(t *testing.T) {
	st := newTestStore(t)
	svc := newTestService(t, st)
	ctx := context.Background()

	email, err := svc.Bootstrap(ctx)
	if err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	if email != DefaultBootstrapEmail {
		t.Errorf("bootstrap email = %q, want %q", email, DefaultBootstrapEmail)
	}

	token, admin, err := svc.Login(ctx, DefaultBootstrapEmail, DefaultBootstrapPassword)
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}
	if admin.Email != DefaultBootstrapEmail {
		t.Errorf("admin email = %q, want %q", admin.Email, DefaultBootstrapEmail)
	}

	claims, err := svc.VerifyToken(token)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if claims.AdminID != admin.ID {
		t.Errorf("claims.AdminID = %d, want %d", claims.AdminID, admin.ID)
	}
	if claims.Email != admin.Email {
		t.Errorf("claims.Email = %q, want %q", claims.Email, admin.Email)
	}
}

func TestBootstrapOnlyOnce(t *testing.T) {
	st := newTestStore(t)
	svc := newTestService(t, st)
	ctx := context.Background()

	if _, err := svc.Bootstrap(ctx); err != nil {
		t.Fatalf("first Bootstrap: %v", err)
	}

	_, err := svc.Bootstrap(ctx)
	if !errors.Is(err, ErrAdminExists) {
		t.Fatalf("second Bootstrap: expected ErrAdminExists, got %v", err)
	}

	count, err := st.CountAdmins(ctx)
	if err != nil {
		t.Fatalf("CountAdmins: %v", err)
	}
	if count != 1 {
		t.Errorf("admin count = %d, want 1", count)
	}
}

// Wrong password and unknown email must be indistinguishable to the caller.
func TestLoginFailuresIndistinguishable(t *testing.T) {
	st := newTestStore(t)
	svc := newTestService(t, st)
	ctx := context.Background()

	if _, err := svc.Bootstrap(ctx); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}

	_, _, errWrongPassword := svc.Login(ctx, DefaultBootstrapEmail, "wrong-password")
	_, _, errUnknownEmail := svc.Login(ctx, "nobody@alruyah.ae", "whatever")

	if !errors.Is(errWrongPassword, ErrInvalidCredentials) {
		t.Errorf("wrong password: expected ErrInvalidCredentials, got %v", errWrongPassword)
	}
	if !errors.Is(errUnknownEmail, ErrInvalidCredentials) {
		t.Errorf("unknown email: expected ErrInvalidCredentials, got %v", errUnknownEmail)
	}
	if errWrongPassword != errUnknownEmail {
		t.Error("wrong password and unknown email must return the identical error value")
	}
}

func TestLoginEmailCaseInsensitive(t *testing.T) {
	st := newTestStore(t)
	svc := newTestService(t, st)
	ctx := context.Background()

	if _, err := svc.Bootstrap(ctx); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}

	_, _, err := svc.Login(ctx, "  ADMIN@Alruyah.AE ", DefaultBootstrapPassword)
	if err != nil {
		t.Fatalf("Login with differently-cased email: %v", err)
	}
}

// The issued token's registered claims must place expiry exactly one
// configured TTL after issuance.
func TestIssueTokenLifetimeMatchesTTL(t *testing.T) {
	st := newTestStore(t)
	ttl := 2 * time.Hour
	svc, err := NewService(st, Config{Secret: "test-secret", TokenTTL: ttl})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	token, err := svc.IssueToken(1, "admin@alruyah.ae")
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	var claims jwt.RegisteredClaims
	_, err = jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil {
		t.Fatalf("ParseWithClaims: %v", err)
	}
	if claims.IssuedAt == nil || claims.ExpiresAt == nil {
		t.Fatal("expected both iat and exp to be set")
	}
	if got := claims.ExpiresAt.Time.Sub(claims.IssuedAt.Time); got != ttl {
		t.Errorf("token lifetime = %v, want %v", got, ttl)
	}
	if claims.Issuer != tokenIssuer {
		t.Errorf("issuer = %q, want %q", claims.Issuer, tokenIssuer)
	}
}

func TestVerifyTokenRejectsEmpty(t *testing.T) {
	st := newTestStore(t)
	svc := newTestService(t, st)

	_, err := svc.VerifyToken("")
	if !errors.Is(err, ErrTokenMissing) {
		t.Fatalf("expected ErrTokenMissing, got %v", err)
	}
}

func TestVerifyTokenRejectsTampered(t *testing.T) {
	st := newTestStore(t)
	svc := newTestService(t, st)

	token, err := svc.IssueToken(1, "admin@alruyah.ae")
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	// Flip a character in the signature segment.
	last := token[len(token)-1]
	flipped := byte('A')
	if last == 'A' {
		flipped = 'B'
	}
	tampered := token[:len(token)-1] + string(flipped)

	_, err = svc.VerifyToken(tampered)
	if !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestVerifyTokenRejectsWrongSecret(t *testing.T) {
	st := newTestStore(t)
	svcA := newTestService(t, st)
	svcB, err := NewService(st, Config{Secret: "a-different-secret"})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	token, err := svcA.IssueToken(1, "admin@alruyah.ae")
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	if _, err := svcB.VerifyToken(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestVerifyTokenRejectsGarbage(t *testing.T) {
	st := newTestStore(t)
	svc := newTestService(t, st)

	for _, tok := range []string{"garbage", "a.b.c", strings.Repeat("x", 512)} {
		if _, err := svc.VerifyToken(tok); !errors.Is(err, ErrTokenInvalid) {
			t.Errorf("VerifyToken(%q): expected ErrTokenInvalid, got %v", tok, err)
		}
	}
}

func TestVerifyTokenRejectsExpired(t *testing.T) {
	st := newTestStore(t)
	svc, err := NewService(st, Config{Secret: "test-secret", TokenTTL: time.Millisecond})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	token, err := svc.IssueToken(1, "admin@alruyah.ae")
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	// Expiry claims carry second precision, so wait past the boundary.
	deadline := time.Now().Add(3 * time.Second)
	for {
		_, err = svc.VerifyToken(token)
		if err != nil || time.Now().After(deadline) {
			break
		}
		time.Sleep(50 * time.Millisecond)
	}
	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestHashPasswordVerifies(t *testing.T) {
	hash, err := HashPassword("hunter22")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "hunter22" {
		t.Fatal("hash must not equal the plaintext")
	}
	if !strings.HasPrefix(hash, "$2") {
		t.Errorf("expected a bcrypt hash, got %q", hash)
	}
}
