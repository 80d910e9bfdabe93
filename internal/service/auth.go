package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/movietrack/backend/internal/config"
	"github.com/movietrack/backend/internal/db"
	"github.com/movietrack/backend/internal/model"
	"golang.org/x/crypto/bcrypt"
)

const (
	// Both the bearer token and the reset secret live for exactly one hour.
	tokenTTL = time.Hour
	resetTTL = time.Hour
)

var (
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidCredentials covers both "no such account" and "wrong password"
	// so callers cannot enumerate registered emails.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrConflict           = errors.New("email already registered")
	// ErrInvalidOrExpiredToken covers both a wrong reset secret and an expired
	// one; the two are indistinguishable to the caller.
	ErrInvalidOrExpiredToken = errors.New("reset token invalid or expired")
	// ErrInvalidToken covers malformed, badly signed and expired bearer
	// tokens alike.
	ErrInvalidToken  = errors.New("invalid token")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrNotFound      = errors.New("not found")
	ErrMisconfigured = errors.New("auth config invalid")
)

// userStore is the slice of the credential store the auth service needs.
type userStore interface {
	CreateUser(ctx context.Context, name, email, passwordHash string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, userID int64) (*model.User, error)
	GetUserByValidResetHash(ctx context.Context, tokenHash string, now time.Time) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.UserProfile, error)
	UpdateUser(ctx context.Context, userID int64, name, email string) (*model.UserProfile, error)
	SetPasswordResetToken(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) error
	UpdatePasswordAndClearReset(ctx context.Context, userID int64, passwordHash string) error
	DeleteUser(ctx context.Context, userID int64) error
}

// Mailer is the outbound email collaborator. Delivery is best-effort from the
// auth service's point of view.
type Mailer interface {
	SendWelcome(name, email string) error
	SendPasswordReset(email, secret string) error
}

type AuthService struct {
	store     userStore
	mailer    Mailer
	jwtSecret []byte
	tokenTTL  time.Duration
	resetTTL  time.Duration
}

type authClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func NewAuthService(store userStore, mailer Mailer, cfg config.AuthConfig) (*AuthService, error) {
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("%w: JWT_SECRET is required", ErrMisconfigured)
	}

	return &AuthService{
		store:     store,
		mailer:    mailer,
		jwtSecret: []byte(cfg.JWTSecret),
		tokenTTL:  tokenTTL,
		resetTTL:  resetTTL,
	}, nil
}

func (s *AuthService) Register(ctx context.Context, name, email, password string) (*model.UserProfile, error) {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(email) == "" || password == "" {
		return nil, ErrInvalidInput
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user, err := s.store.CreateUser(ctx, name, email, string(hash))
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, err
	}

	// Welcome email is dispatched off the request path; a delivery failure
	// must never fail the registration that already committed.
	go func(name, email string) {
		if err := s.mailer.SendWelcome(name, email); err != nil {
			log.Printf("[Auth] welcome email to %s failed: %v", email, err)
		}
	}(user.Name, user.Email)

	return profileOf(user), nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, int64, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return "", 0, ErrInvalidCredentials
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if db.IsNoRows(err) {
			return "", 0, ErrInvalidCredentials
		}
		return "", 0, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", 0, ErrInvalidCredentials
	}

	return s.generateAccessToken(user)
}

// RequestPasswordReset never signals whether the email was found. When it is,
// a fresh secret is persisted (hashed) and the plaintext handed to the mailer;
// a delivery failure is logged and the reset fields stay set so the request
// can be re-triggered.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if db.IsNoRows(err) {
			return nil
		}
		return err
	}

	secret, secretHash, err := newResetSecret()
	if err != nil {
		return err
	}

	if err := s.store.SetPasswordResetToken(ctx, user.ID, secretHash, time.Now().Add(s.resetTTL)); err != nil {
		return err
	}

	if err := s.mailer.SendPasswordReset(user.Email, secret); err != nil {
		log.Printf("[Auth] password reset email to %s failed: %v", user.Email, err)
	}
	return nil
}

func (s *AuthService) CompletePasswordReset(ctx context.Context, secret, newPassword string) error {
	if secret == "" || newPassword == "" {
		return ErrInvalidInput
	}

	user, err := s.store.GetUserByValidResetHash(ctx, hashResetSecret(secret), time.Now())
	if err != nil {
		if db.IsNoRows(err) {
			return ErrInvalidOrExpiredToken
		}
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	// Replaces the hash and clears both reset columns in one statement, so a
	// secret can never be replayed.
	return s.store.UpdatePasswordAndClearReset(ctx, user.ID, string(hash))
}

func (s *AuthService) GetProfile(ctx context.Context, userID int64) (*model.UserProfile, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return profileOf(user), nil
}

// UpdateProfile only ever touches name and email. The request type has no
// password field, so password changes cannot sneak in through this path.
func (s *AuthService) UpdateProfile(ctx context.Context, userID int64, name, email string) (*model.UserProfile, error) {
	profile, err := s.store.UpdateUser(ctx, userID, strings.TrimSpace(name), strings.TrimSpace(email))
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		if db.IsUniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, err
	}
	return profile, nil
}

func (s *AuthService) DeleteAccount(ctx context.Context, userID int64) error {
	return s.store.DeleteUser(ctx, userID)
}

func (s *AuthService) ListUsers(ctx context.Context) ([]model.UserProfile, error) {
	return s.store.ListUsers(ctx)
}

// ParseAccessToken verifies signature and expiry. Malformed structure, bad
// signature and elapsed expiry all surface as the same ErrInvalidToken.
func (s *AuthService) ParseAccessToken(tokenStr string) (*model.AuthUser, error) {
	claims := &authClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, ErrInvalidToken
	}

	return &model.AuthUser{
		ID:    userID,
		Email: claims.Email,
	}, nil
}

func (s *AuthService) generateAccessToken(user *model.User) (string, int64, error) {
	now := time.Now()
	claims := authClaims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", 0, err
	}

	return signed, int64(s.tokenTTL.Seconds()), nil
}

func profileOf(user *model.User) *model.UserProfile {
	return &model.UserProfile{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}
}

// newResetSecret returns a fresh 256-bit secret in URL-safe encoding together
// with the hash that gets persisted. Only the hash ever touches the store.
func newResetSecret() (string, string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", "", err
	}
	secret := base64.RawURLEncoding.EncodeToString(raw)
	return secret, hashResetSecret(secret), nil
}

// hashResetSecret is a fast digest on purpose: the stored value is looked up
// by equality against a 256-bit random secret, not guessed interactively like
// a password.
func hashResetSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
