// Package auth issues and verifies bearer tokens and hashes passwords.
package auth

import (
	"errors"
	"time"

	"github.com/polkiloo/ordertrack/internal/domain/model"
)

var ErrInvalidToken = errors.New("invalid auth token")

// Claims is what a token asserts about its holder.
type Claims struct {
	UserID    int64
	Role      model.Role
	ExpiresAt time.Time
}

type Strategy interface {
	IssueToken(identity model.Identity) (string, error)
	ParseToken(token string) (Claims, error)
	Name() string
}

type Options struct {
	TTL time.Duration
	Now func() time.Time
}
