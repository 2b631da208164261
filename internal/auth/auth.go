// Package auth is the identity provider: it owns sign-up, sign-in and the
// bearer tokens that name the current user. Passwords are stored as bcrypt
// hashes; tokens are HS256 JWTs.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"invoiceflow/internal/core"
	"invoiceflow/internal/store"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// Claims is what a signed token carries about the current user.
type Claims struct {
	UserID string `json:"uid"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

type Manager struct {
	users  store.UserStore
	secret []byte
	ttl    time.Duration
}

func NewManager(users store.UserStore, secret string, ttl time.Duration) *Manager {
	return &Manager{users: users, secret: []byte(secret), ttl: ttl}
}

// SignUp registers a new user and returns it together with a fresh token.
func (m *Manager) SignUp(ctx context.Context, email, password, displayName string) (core.User, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if !strings.Contains(email, "@") {
		return core.User{}, "", core.ErrInvalidEmail
	}
	if len(password) < 8 {
		return core.User{}, "", ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return core.User{}, "", fmt.Errorf("hash password: %w", err)
	}

	u := core.User{
		Email:        email,
		DisplayName:  strings.TrimSpace(displayName),
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	id, err := m.users.CreateUser(ctx, u)
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			return core.User{}, "", ErrEmailTaken
		}
		return core.User{}, "", fmt.Errorf("create user: %w", err)
	}
	u.ID = id

	token, err := m.issueToken(u)
	if err != nil {
		return core.User{}, "", err
	}
	return u, token, nil
}

// SignIn verifies the credentials and returns the user with a fresh token.
// Unknown email and wrong password are indistinguishable to the caller.
func (m *Manager) SignIn(ctx context.Context, email, password string) (core.User, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	u, err := m.users.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return core.User{}, "", ErrInvalidCredentials
		}
		return core.User{}, "", fmt.Errorf("look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return core.User{}, "", ErrInvalidCredentials
	}

	token, err := m.issueToken(u)
	if err != nil {
		return core.User{}, "", err
	}
	return u, token, nil
}

// Verify parses a bearer token and returns its claims.
func (m *Manager) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// CurrentUser resolves the user named by a token.
func (m *Manager) CurrentUser(ctx context.Context, tokenString string) (core.User, error) {
	claims, err := m.Verify(tokenString)
	if err != nil {
		return core.User{}, err
	}
	u, err := m.users.UserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return core.User{}, ErrInvalidToken
		}
		return core.User{}, fmt.Errorf("look up user: %w", err)
	}
	return u, nil
}

func (m *Manager) issueToken(u core.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: u.ID,
		Email:  u.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
