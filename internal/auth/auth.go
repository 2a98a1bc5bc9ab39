// Package auth implements the backend's authentication core: credential
// verification, JWT issuance and verification, and one-time bootstrap of
// the first admin account.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/kharelpawan/uaebackend/internal/model"
	"github.com/kharelpawan/uaebackend/internal/store"
)

// Sentinel errors. The three token errors all surface as 401 to clients
// but stay distinct internally so the gate can log which check failed.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenMissing       = errors.New("token missing")
	ErrTokenInvalid       = errors.New("token invalid")
	ErrTokenExpired       = errors.New("token expired")
	ErrAdminExists        = errors.New("admin already exists")
	ErrMissingSecret      = errors.New("auth: jwt secret is not configured")
)

// Defaults applied by NewService when the corresponding Config field is
// zero. The bootstrap credentials match the original deployment and are
// meant to be changed immediately after first login.
const (
	DefaultTokenTTL          = 168 * time.Hour // 7 days
	DefaultBootstrapEmail    = "admin@alruyah.ae"
	DefaultBootstrapPassword = "admin123"

	bootstrapAdminName = "Administrator"
	bcryptCost         = 12
	tokenIssuer        = "uaebackend"
)

// Config holds the immutable auth settings read once at startup.
type Config struct {
	Secret            string
	TokenTTL          time.Duration
	BootstrapEmail    string
	BootstrapPassword string
}

// Service orchestrates login, token verification, and bootstrap against
// the admin store.
type Service struct {
	store  *store.Store
	cfg    Config
	secret []byte
}

// NewService creates the auth service. An empty signing secret is a fatal
// configuration error: without it every issued token would be trivially
// forgeable, so the process must not come up.
func NewService(st *store.Store, cfg Config) (*Service, error) {
	if cfg.Secret == "" {
		return nil, ErrMissingSecret
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = DefaultTokenTTL
	}
	if cfg.BootstrapEmail == "" {
		cfg.BootstrapEmail = DefaultBootstrapEmail
	}
	if cfg.BootstrapPassword == "" {
		cfg.BootstrapPassword = DefaultBootstrapPassword
	}
	return &Service{
		store:  st,
		cfg:    cfg,
		secret: []byte(cfg.Secret),
	}, nil
}

// TokenTTL returns the configured token lifetime.
func (s *Service) TokenTTL() time.Duration {
	return s.cfg.TokenTTL
}

// NormalizeEmail lowercases and trims an email address and validates its
// syntax. Lookups always use the normalized form so the same mailbox
// written with different casing maps to one admin row.
func NormalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", fmt.Errorf("invalid email address: %q", email)
	}
	return email, nil
}

// Claims is the identity carried by a verified token. Handlers needing
// richer admin data must do a fresh store lookup by ID; the claim is not
// a cache of the full record.
type Claims struct {
	AdminID int64
	Email   string
}

type jwtClaims struct {
	AdminID int64  `json:"admin_id"`
	Email   string `json:"email"`
	jwt.RegisteredClaims
}

// Login verifies an email/password pair and returns a signed token plus
// the matching admin on success. Unknown email and wrong password both
// yield ErrInvalidCredentials so the response never reveals which part
// was wrong.
func (s *Service) Login(ctx context.Context, email, password string) (string, *model.Admin, error) {
	normalized, err := NormalizeEmail(email)
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}
	if password == "" {
		return "", nil, ErrInvalidCredentials
	}

	admin, err := s.store.GetAdminByEmail(ctx, normalized)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.IssueToken(admin.ID, admin.Email)
	if err != nil {
		return "", nil, err
	}
	return token, admin, nil
}

// IssueToken creates a signed JWT carrying the admin's id and email,
// expiring after the configured TTL.
func (s *Service) IssueToken(adminID int64, email string) (string, error) {
	now := time.Now()
	claims := jwtClaims{
		AdminID: adminID,
		Email:   email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TokenTTL)),
			Issuer:    tokenIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// VerifyToken checks a bearer token's signature, structure, and expiry,
// and returns the embedded claims. It performs no store access, so a
// tampered token is rejected before any database round-trip.
func (s *Service) VerifyToken(tokenStr string) (*Claims, error) {
	if tokenStr == "" {
		return nil, ErrTokenMissing
	}

	claims := &jwtClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}

	return &Claims{AdminID: claims.AdminID, Email: claims.Email}, nil
}

// Bootstrap creates the first admin account from the configured
// credentials and returns its email. If any admin already exists the call
// fails with ErrAdminExists and no row is created.
//
// The count check races with concurrent bootstrap calls; the UNIQUE
// constraint on admins.email closes the window by turning the losing
// insert into a duplicate error, reported the same way.
func (s *Service) Bootstrap(ctx context.Context) (string, error) {
	count, err := s.store.CountAdmins(ctx)
	if err != nil {
		return "", err
	}
	if count > 0 {
		return "", ErrAdminExists
	}

	email, err := NormalizeEmail(s.cfg.BootstrapEmail)
	if err != nil {
		return "", fmt.Errorf("bootstrap email: %w", err)
	}

	hash, err := HashPassword(s.cfg.BootstrapPassword)
	if err != nil {
		return "", fmt.Errorf("hash bootstrap password: %w", err)
	}

	admin := &model.Admin{
		Email:        email,
		PasswordHash: hash,
		Name:         bootstrapAdminName,
	}
	if err := s.store.CreateAdmin(ctx, admin); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return "", ErrAdminExists
		}
		return "", err
	}
	return admin.Email, nil
}

// HashPassword hashes a plaintext password with bcrypt. The cost matches
// the original deployment's hashes so existing rows keep verifying.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
