package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"invoiceflow/internal/store/memory"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	return NewManager(memory.New(), "test-secret", time.Hour)
}

func TestSignUpAndSignIn(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	u, token, err := m.SignUp(ctx, "Ada@Example.com", "correct horse", "Ada")
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if u.ID == "" {
		t.Fatal("expected user id to be assigned")
	}
	if u.Email != "ada@example.com" {
		t.Errorf("email not normalized: %q", u.Email)
	}
	if token == "" {
		t.Fatal("expected a token")
	}

	// Sign-in with the original (un-normalized) email must work too.
	got, token2, err := m.SignIn(ctx, "ADA@example.com", "correct horse")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if got.ID != u.ID {
		t.Errorf("SignIn returned user %q, want %q", got.ID, u.ID)
	}
	if token2 == "" {
		t.Fatal("expected a token on sign-in")
	}
}

func TestSignUpRejectsBadInput(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	if _, _, err := m.SignUp(ctx, "not-an-email", "longenough", "X"); err == nil {
		t.Error("expected error for invalid email")
	}
	if _, _, err := m.SignUp(ctx, "a@b.com", "short", "X"); !errors.Is(err, ErrWeakPassword) {
		t.Errorf("expected ErrWeakPassword, got %v", err)
	}
}

func TestSignUpDuplicateEmail(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	if _, _, err := m.SignUp(ctx, "dup@example.com", "password1", ""); err != nil {
		t.Fatalf("first SignUp: %v", err)
	}
	if _, _, err := m.SignUp(ctx, "DUP@example.com", "password2", ""); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("expected ErrEmailTaken, got %v", err)
	}
}

func TestSignInWrongPassword(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	if _, _, err := m.SignUp(ctx, "u@example.com", "password1", ""); err != nil {
		t.Fatalf("SignUp: %v", err)
	}

	if _, _, err := m.SignIn(ctx, "u@example.com", "wrong password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := m.SignIn(ctx, "nobody@example.com", "password1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestVerifyRoundTrip(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	u, token, err := m.SignUp(ctx, "v@example.com", "password1", "V")
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}

	claims, err := m.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.UserID != u.ID {
		t.Errorf("claims.UserID = %q, want %q", claims.UserID, u.ID)
	}
	if claims.Email != u.Email {
		t.Errorf("claims.Email = %q, want %q", claims.Email, u.Email)
	}

	got, err := m.CurrentUser(ctx, token)
	if err != nil {
		t.Fatalf("CurrentUser: %v", err)
	}
	if got.ID != u.ID {
		t.Errorf("CurrentUser = %q, want %q", got.ID, u.ID)
	}
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	m := newTestManager(t)
	other := NewManager(memory.New(), "different-secret", time.Hour)
	ctx := context.Background()

	_, token, err := other.SignUp(ctx, "x@example.com", "password1", "")
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}

	if _, err := m.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for foreign token, got %v", err)
	}
	if _, err := m.Verify("garbage"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for garbage, got %v", err)
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	users := memory.New()
	shortLived := NewManager(users, "test-secret", -time.Minute)
	ctx := context.Background()

	_, token, err := shortLived.SignUp(ctx, "e@example.com", "password1", "")
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if _, err := shortLived.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for expired token, got %v", err)
	}
}
