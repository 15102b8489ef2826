package usecase

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	domainErrors "github.com/polkiloo/ordertrack/internal/domain/errors"
	"github.com/polkiloo/ordertrack/internal/domain/model"
	"github.com/polkiloo/ordertrack/internal/domain/repository"
	pkgAuth "github.com/polkiloo/ordertrack/internal/pkg/auth"
)

const minPasswordLength = 6

// Registration carries the fields of a sign-up request.
type Registration struct {
	Name     string
	Email    string
	Password string
	Role     model.Role
}

// AuthUseCase handles user lifecycle and token management.
type AuthUseCase struct {
	users  repository.UserRepository
	hasher pkgAuth.PasswordHasher
	tokens pkgAuth.Strategy
}

// NewAuthUseCase constructs AuthUseCase.
func NewAuthUseCase(users repository.UserRepository, hasher pkgAuth.PasswordHasher, strategy pkgAuth.Strategy) *AuthUseCase {
	return &AuthUseCase{users: users, hasher: hasher, tokens: strategy}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r Registration) validate() error {
	if r.Name == "" {
		return domainErrors.Validation("name is required")
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return domainErrors.Validation("email %q is not valid", r.Email)
	}
	if len(r.Password) < minPasswordLength {
		return domainErrors.Validation("password must be at least %d characters", minPasswordLength)
	}
	if !r.Role.Valid() {
		return domainErrors.Validation("role must be one of buyer, seller, admin")
	}
	return nil
}

// Register creates a new user and returns it with an auth token.
func (u *AuthUseCase) Register(ctx context.Context, reg Registration) (*model.User, string, error) {
	reg.Name = strings.TrimSpace(reg.Name)
	reg.Email = normalizeEmail(reg.Email)
	if err := reg.validate(); err != nil {
		return nil, "", err
	}

	hash, err := u.hasher.Hash(reg.Password)
	if err != nil {
		return nil, "", err
	}

	usr, err := u.users.Create(ctx, model.User{Name: reg.Name, Email: reg.Email, PasswordHash: hash, Role: reg.Role})
	if err != nil {
		return nil, "", err
	}

	token, err := u.tokens.IssueToken(usr.Identity())
	if err != nil {
		return nil, "", err
	}

	return usr, token, nil
}

// Authenticate validates credentials and returns the user with an auth token.
func (u *AuthUseCase) Authenticate(ctx context.Context, email, password string) (*model.User, string, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	usr, err := u.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, "", domainErrors.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := u.hasher.Compare(usr.PasswordHash, password); err != nil {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	token, err := u.tokens.IssueToken(usr.Identity())
	if err != nil {
		return nil, "", err
	}

	return usr, token, nil
}

// Identify resolves a bearer token to the identity it was issued for.
func (u *AuthUseCase) Identify(ctx context.Context, token string) (model.Identity, error) {
	if token == "" {
		return model.Identity{}, domainErrors.ErrUnauthenticated
	}
	claims, err := u.tokens.ParseToken(token)
	if err != nil {
		return model.Identity{}, domainErrors.ErrUnauthenticated
	}

	usr, err := u.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return model.Identity{}, domainErrors.ErrUnauthenticated
		}
		return model.Identity{}, err
	}
	if usr.Role != claims.Role {
		return model.Identity{}, domainErrors.ErrUnauthenticated
	}

	return usr.Identity(), nil
}

// GetByID fetches user by identifier.
func (u *AuthUseCase) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return u.users.GetByID(ctx, id)
}
