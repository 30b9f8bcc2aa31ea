package main

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/imoveis/catalog/config"
	"github.com/imoveis/catalog/internal/core/auth"
)

func newMemoryAuth() *auth.Service {
	return auth.NewService(auth.NewMemoryStore(),
		&config.JWTConfig{Secret: "test-secret", ExpirationHours: 1},
		&config.AuthConfig{})
}

func TestSeedAdmin_MemoryStoreAcceptsLogin(t *testing.T) {
	svc := newMemoryAuth()
	ctx := context.Background()
	admin := config.AdminConfig{Email: "admin@imoveis.test", Password: "senha-forte", Name: "Administrador"}

	if err := seedAdmin(ctx, svc, admin, zap.NewNop()); err != nil {
		t.Fatalf("seedAdmin() unexpected error: %v", err)
	}
	// A second boot with the same settings resets the password instead of failing.
	if err := seedAdmin(ctx, svc, admin, zap.NewNop()); err != nil {
		t.Fatalf("seedAdmin() second run unexpected error: %v", err)
	}

	resp, err := svc.Login(ctx, &auth.LoginRequest{Email: admin.Email, Password: admin.Password})
	if err != nil {
		t.Fatalf("Login() unexpected error: %v", err)
	}
	if _, err := svc.SessionFromToken(resp.Token); err != nil {
		t.Errorf("SessionFromToken() unexpected error: %v", err)
	}
}

func TestSeedAdmin_SkipsWithoutCredentials(t *testing.T) {
	svc := newMemoryAuth()
	ctx := context.Background()

	if err := seedAdmin(ctx, svc, config.AdminConfig{Email: "admin@imoveis.test"}, zap.NewNop()); err != nil {
		t.Fatalf("seedAdmin() unexpected error: %v", err)
	}
	if _, err := svc.Login(ctx, &auth.LoginRequest{Email: "admin@imoveis.test", Password: "qualquer"}); err == nil {
		t.Error("Login() succeeded without a seeded account")
	}
}

func TestSeedAdmin_WeakPassword(t *testing.T) {
	err := seedAdmin(context.Background(), newMemoryAuth(),
		config.AdminConfig{Email: "admin@imoveis.test", Password: "curta"}, zap.NewNop())
	if err == nil {
		t.Error("seedAdmin() accepted a password shorter than 8 characters")
	}
}
