package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/edushare/backend/internal/dto"
	"github.com/edushare/backend/pkg/apperror"
	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func newTestAuthService(repo *fakeUserRepo) AuthService {
	return NewAuthService(repo, testSecret, time.Hour)
}

func TestRegisterIssuesToken(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(repo)

	res, err := svc.Register(context.Background(), dto.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(res.Token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	if err != nil || !token.Valid {
		t.Fatalf("token did not parse: %v", err)
	}

	user, err := repo.FindByUsername(context.Background(), "alice")
	if err != nil {
		t.Fatalf("registered user not stored: %v", err)
	}
	if claims.Subject != user.ID.String() {
		t.Errorf("token subject = %q, want %q", claims.Subject, user.ID)
	}
	if user.PasswordHash == "secret123" {
		t.Error("password stored in plain text")
	}
}

func TestTokenCarriesRoleClaim(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(repo)

	res, err := svc.Register(context.Background(), dto.RegisterRequest{
		Username: "ms-frizzle",
		Email:    "frizzle@example.com",
		Password: "secret123",
		Role:     "teacher",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(res.Token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	if err != nil || !token.Valid {
		t.Fatalf("token did not parse: %v", err)
	}
	if claims["role"] != "teacher" {
		t.Errorf("role claim = %v, want %q", claims["role"], "teacher")
	}
	if claims["sub"] == "" || claims["sub"] == nil {
		t.Error("token has no subject")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	repo.addUser("alice", "alice@example.com")
	svc := newTestAuthService(repo)

	_, err := svc.Register(context.Background(), dto.RegisterRequest{
		Username: "other",
		Email:    "alice@example.com",
		Password: "secret123",
	})
	if !errors.Is(err, apperror.ErrBadRequest) {
		t.Errorf("Register error = %v, want ErrBadRequest", err)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	repo := newFakeUserRepo()
	repo.addUser("alice", "alice@example.com")
	svc := newTestAuthService(repo)

	_, err := svc.Register(context.Background(), dto.RegisterRequest{
		Username: "alice",
		Email:    "other@example.com",
		Password: "secret123",
	})
	if !errors.Is(err, apperror.ErrBadRequest) {
		t.Errorf("Register error = %v, want ErrBadRequest", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(repo)

	if _, err := svc.Register(context.Background(), dto.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "secret123",
	}); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	_, err := svc.Login(context.Background(), dto.LoginRequest{
		Email:    "alice@example.com",
		Password: "wrong",
	})
	if !errors.Is(err, apperror.ErrBadRequest) {
		t.Errorf("Login error = %v, want ErrBadRequest", err)
	}
}

func TestLoginRoundTrip(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(repo)

	if _, err := svc.Register(context.Background(), dto.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "secret123",
	}); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	res, err := svc.Login(context.Background(), dto.LoginRequest{
		Email:    "alice@example.com",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if res.Token == "" {
		t.Error("Login returned an empty token")
	}
}
