package usecase

import (
	"context"
	"errors"
	"testing"

	domainErrors "github.com/polkiloo/ordertrack/internal/domain/errors"
	"github.com/polkiloo/ordertrack/internal/domain/model"
	pkgAuth "github.com/polkiloo/ordertrack/internal/pkg/auth"
	testhelpers "github.com/polkiloo/ordertrack/internal/test"
)

func newAuthUseCase() (*AuthUseCase, *testhelpers.UserRepositoryStub) {
	repo := testhelpers.NewUserRepositoryStub()
	return NewAuthUseCase(repo, testhelpers.HasherStub{}, testhelpers.StrategyStub{}), repo
}

func registration(email string, role model.Role) Registration {
	return Registration{Name: "Alice", Email: email, Password: "password", Role: role}
}

func TestAuthUseCaseRegisterSuccess(t *testing.T) {
	uc, repo := newAuthUseCase()

	ctx := context.Background()
	user, token, err := uc.Register(ctx, registration("  Alice@Example.com ", model.RoleSeller))
	if err != nil {
		t.Fatalf("register returned error: %v", err)
	}
	if user.ID == 0 {
		t.Fatalf("expected user to have ID assigned")
	}
	if token != "token-1-seller" {
		t.Fatalf("unexpected token %q", token)
	}
	stored, err := repo.GetByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("expected user in repository: %v", err)
	}
	if stored.PasswordHash != "hash:password" {
		t.Fatalf("password hash not stored: %v", stored.PasswordHash)
	}
	if stored.Email != "alice@example.com" || stored.Role != model.RoleSeller {
		t.Fatalf("unexpected stored user: %+v", stored)
	}
}

func TestAuthUseCaseRegisterValidation(t *testing.T) {
	uc, _ := newAuthUseCase()
	ctx := context.Background()

	cases := map[string]Registration{
		"missing name":   {Name: " ", Email: "a@example.com", Password: "password", Role: model.RoleBuyer},
		"bad email":      {Name: "A", Email: "not-an-email", Password: "password", Role: model.RoleBuyer},
		"short password": {Name: "A", Email: "a@example.com", Password: "123", Role: model.RoleBuyer},
		"unknown role":   {Name: "A", Email: "a@example.com", Password: "password", Role: "guest"},
	}
	for name, reg := range cases {
		t.Run(name, func(t *testing.T) {
			if _, _, err := uc.Register(ctx, reg); !errors.Is(err, domainErrors.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestAuthUseCaseRegisterDuplicate(t *testing.T) {
	uc, _ := newAuthUseCase()

	ctx := context.Background()
	if _, _, err := uc.Register(ctx, registration("bob@example.com", model.RoleBuyer)); err != nil {
		t.Fatalf("unexpected error on first register: %v", err)
	}
	if _, _, err := uc.Register(ctx, registration("BOB@example.com", model.RoleBuyer)); !errors.Is(err, domainErrors.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestAuthUseCaseRegisterHashFailure(t *testing.T) {
	repo := testhelpers.NewUserRepositoryStub()
	hasher := testhelpers.HasherStub{HashFn: func(string) (string, error) { return "", testhelpers.ErrBoom }}
	uc := NewAuthUseCase(repo, hasher, testhelpers.StrategyStub{})

	if _, _, err := uc.Register(context.Background(), registration("c@example.com", model.RoleBuyer)); !errors.Is(err, testhelpers.ErrBoom) {
		t.Fatalf("expected hash error, got %v", err)
	}
}

func TestAuthUseCaseAuthenticate(t *testing.T) {
	uc, _ := newAuthUseCase()

	ctx := context.Background()
	if _, _, err := uc.Register(ctx, registration("carol@example.com", model.RoleAdmin)); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if _, _, err := uc.Authenticate(ctx, "carol@example.com", "bad"); err != domainErrors.ErrInvalidCredentials {
		t.Fatalf("expected invalid credentials error, got %v", err)
	}
	if _, _, err := uc.Authenticate(ctx, "nobody@example.com", "password"); err != domainErrors.ErrInvalidCredentials {
		t.Fatalf("expected invalid credentials for unknown email, got %v", err)
	}
	if _, _, err := uc.Authenticate(ctx, "", ""); err != domainErrors.ErrInvalidCredentials {
		t.Fatalf("expected invalid credentials for empty input, got %v", err)
	}

	user, token, err := uc.Authenticate(ctx, "Carol@Example.com", "password")
	if err != nil {
		t.Fatalf("authenticate returned error: %v", err)
	}
	if user.Role != model.RoleAdmin || token != "token-1-admin" {
		t.Fatalf("unexpected result: user=%+v token=%q", user, token)
	}
}

func TestAuthUseCaseAuthenticateRepositoryError(t *testing.T) {
	uc, repo := newAuthUseCase()
	repo.Err = testhelpers.ErrBoom
	if _, _, err := uc.Authenticate(context.Background(), "a@example.com", "password"); !errors.Is(err, testhelpers.ErrBoom) {
		t.Fatalf("expected repository error, got %v", err)
	}
}

func TestAuthUseCaseIdentify(t *testing.T) {
	uc, _ := newAuthUseCase()
	ctx := context.Background()

	user, token, err := uc.Register(ctx, registration("dave@example.com", model.RoleBuyer))
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	identity, err := uc.Identify(ctx, token)
	if err != nil {
		t.Fatalf("identify returned error: %v", err)
	}
	if identity != user.Identity() {
		t.Fatalf("unexpected identity: %+v", identity)
	}

	for _, bad := range []string{"", "garbage", "token-99-buyer", "token-1-admin"} {
		if _, err := uc.Identify(ctx, bad); !errors.Is(err, domainErrors.ErrUnauthenticated) {
			t.Fatalf("token %q: expected unauthenticated, got %v", bad, err)
		}
	}
}

func TestAuthUseCaseIdentifyRepositoryError(t *testing.T) {
	repo := testhelpers.NewUserRepositoryStub()
	repo.Err = testhelpers.ErrBoom
	strategy := testhelpers.StrategyStub{ParseFn: func(string) (pkgAuth.Claims, error) {
		return pkgAuth.Claims{UserID: 1, Role: model.RoleBuyer}, nil
	}}
	uc := NewAuthUseCase(repo, testhelpers.HasherStub{}, strategy)

	if _, err := uc.Identify(context.Background(), "anything"); !errors.Is(err, testhelpers.ErrBoom) {
		t.Fatalf("expected repository error, got %v", err)
	}
}
