package test

import (
	"errors"
	"fmt"

	"github.com/polkiloo/ordertrack/internal/domain/model"
	pkgAuth "github.com/polkiloo/ordertrack/internal/pkg/auth"
)

// HasherStub provides deterministic hashing for tests.
type HasherStub struct {
	HashFn    func(string) (string, error)
	CompareFn func(string, string) error
}

// Hash returns a predictable hash for the supplied password.
func (h HasherStub) Hash(password string) (string, error) {
	if h.HashFn != nil {
		return h.HashFn(password)
	}
	return "hash:" + password, nil
}

// Compare validates password against stored hash.
func (h HasherStub) Compare(hash string, password string) error {
	if h.CompareFn != nil {
		return h.CompareFn(hash, password)
	}
	if hash != "hash:"+password {
		return errors.New("mismatch")
	}
	return nil
}

// StrategyStub issues "token-<id>-<role>" tokens unless overridden.
type StrategyStub struct {
	IssueFn func(model.Identity) (string, error)
	ParseFn func(string) (pkgAuth.Claims, error)
}

// IssueToken returns deterministic tokens for tests.
func (s StrategyStub) IssueToken(identity model.Identity) (string, error) {
	if s.IssueFn != nil {
		return s.IssueFn(identity)
	}
	return fmt.Sprintf("token-%d-%s", identity.ID, identity.Role), nil
}

// ParseToken reverses IssueToken.
func (s StrategyStub) ParseToken(token string) (pkgAuth.Claims, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	var (
		id   int64
		role string
	)
	if _, err := fmt.Sscanf(token, "token-%d-%s", &id, &role); err != nil {
		return pkgAuth.Claims{}, pkgAuth.ErrInvalidToken
	}
	return pkgAuth.Claims{UserID: id, Role: model.Role(role)}, nil
}

// Name returns the strategy identifier used in tests.
func (s StrategyStub) Name() string {
	return "stub"
}

var _ pkgAuth.PasswordHasher = HasherStub{}
var _ pkgAuth.Strategy = StrategyStub{}
