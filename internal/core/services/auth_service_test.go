package services

import (
	"context"
	"errors"
	"testing"

	"savingsfund/internal/adapters/persistence/models"
	"savingsfund/internal/core/domain"
	"savingsfund/internal/pkg/password"
)

func TestRegister_FirstUserIsAdmin(t *testing.T) {
	ctx := context.Background()
	auth := NewAuthService(newStore(t), testConfig())

	first, err := auth.Register(ctx, &RegisterInput{Name: "Ana", Email: "Ana@Fund.test", Password: "secret1"})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if first.User.Role != string(domain.RoleAdmin) {
		t.Errorf("first user role = %q, want admin", first.User.Role)
	}
	if first.User.Email != "ana@fund.test" {
		t.Errorf("email = %q, want normalized ana@fund.test", first.User.Email)
	}
	if first.AccessToken == "" || first.RefreshToken == "" {
		t.Error("Register() returned empty tokens")
	}

	second, err := auth.Register(ctx, &RegisterInput{Name: "Luis", Email: "luis@fund.test", Password: "secret2"})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if second.User.Role != string(domain.RoleMember) {
		t.Errorf("second user role = %q, want member", second.User.Role)
	}
}

func TestRegister_Validation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	auth := NewAuthService(f.store, f.cfg)

	tests := []struct {
		name   string
		input  RegisterInput
		reason error
	}{
		{"malformed email", RegisterInput{Name: "X", Email: "not-an-email", Password: "secret1"}, domain.ErrMalformedEmail},
		{"short password", RegisterInput{Name: "X", Email: "x@fund.test", Password: "12345"}, domain.ErrPasswordTooShort},
		{"duplicate email", RegisterInput{Name: "X", Email: "MEMBER@fund.test", Password: "secret1"}, domain.ErrDuplicateEmail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := auth.Register(ctx, &tt.input)
			if !errors.Is(err, domain.ErrValidation) || !errors.Is(err, tt.reason) {
				t.Errorf("Register() error = %v, want %v", err, tt.reason)
			}
		})
	}
}

func TestLogin_UpgradesLegacyHash(t *testing.T) {
	f := newFixture(t)
	auth := NewAuthService(f.store, f.cfg)

	legacy := &models.User{
		Name:         "Old Timer",
		Email:        "old@fund.test",
		PasswordHash: password.LegacyPrefix + password.LegacyHash("123456"),
		Role:         string(domain.RoleMember),
		IsActive:     true,
	}
	if err := f.store.Users.Create(f.ctx, legacy); err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := auth.Login(f.ctx, &LoginInput{Email: "old@fund.test", Password: "wrong1"}); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("Login(wrong) error = %v, want ErrInvalidCredentials", err)
	}
	if _, err := auth.Login(f.ctx, &LoginInput{Email: "old@fund.test", Password: "123456"}); err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	stored, err := f.store.Users.GetByID(f.ctx, legacy.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if password.NeedsUpgrade(stored.PasswordHash) {
		t.Errorf("hash still legacy after login: %q", stored.PasswordHash)
	}
	if !password.Verify("123456", stored.PasswordHash) {
		t.Error("upgraded hash does not verify the original password")
	}
}

func TestLogin_Rejections(t *testing.T) {
	f := newFixture(t)
	auth := NewAuthService(f.store, f.cfg)

	if _, err := auth.Login(f.ctx, &LoginInput{Email: "nobody@fund.test", Password: "secret1"}); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("unknown email error = %v, want ErrInvalidCredentials", err)
	}

	f.deactivate(t, f.member)
	if _, err := auth.Login(f.ctx, &LoginInput{Email: f.member.Email, Password: "whatever"}); !errors.Is(err, domain.ErrUserInactive) {
		t.Errorf("inactive user error = %v, want ErrUserInactive", err)
	}
}

func TestRefreshToken_Rotates(t *testing.T) {
	ctx := context.Background()
	auth := NewAuthService(newStore(t), testConfig())

	reg, err := auth.Register(ctx, &RegisterInput{Name: "Ana", Email: "ana@fund.test", Password: "secret1"})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	next, err := auth.RefreshToken(ctx, reg.RefreshToken)
	if err != nil {
		t.Fatalf("RefreshToken() error = %v", err)
	}
	if next.RefreshToken == reg.RefreshToken {
		t.Error("RefreshToken() reused the old refresh token")
	}

	if _, err := auth.RefreshToken(ctx, reg.RefreshToken); !errors.Is(err, domain.ErrTokenRevoked) {
		t.Errorf("reusing a rotated token error = %v, want ErrTokenRevoked", err)
	}

	if err := auth.Logout(ctx, next.RefreshToken); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if _, err := auth.RefreshToken(ctx, next.RefreshToken); !errors.Is(err, domain.ErrTokenRevoked) {
		t.Errorf("refresh after logout error = %v, want ErrTokenRevoked", err)
	}
}

func TestValidateAccessToken(t *testing.T) {
	ctx := context.Background()
	auth := NewAuthService(newStore(t), testConfig())

	reg, err := auth.Register(ctx, &RegisterInput{Name: "Ana", Email: "ana@fund.test", Password: "secret1"})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	claims, err := auth.ValidateAccessToken(reg.AccessToken)
	if err != nil {
		t.Fatalf("ValidateAccessToken() error = %v", err)
	}
	if claims.UserID != reg.User.ID || claims.Role != string(domain.RoleAdmin) {
		t.Errorf("claims = %+v, want subject %s with admin role", claims, reg.User.ID)
	}
	if !auth.IsAdmin(ctx, claims.UserID) {
		t.Error("IsAdmin() = false for the first user")
	}

	if _, err := auth.ValidateAccessToken(reg.RefreshToken); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("refresh token as access token error = %v, want ErrTokenInvalid", err)
	}
}
