package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/polkiloo/ordertrack/internal/domain/model"
)

const defaultTokenTTL = 24 * time.Hour

// HMACStrategy signs "<id>.<role>.<expiry>" with HMAC-SHA256.
// Tokens are URL-safe so they can travel in a query string.
type HMACStrategy struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewHMACStrategy builds HMACStrategy with provided secret and options.
func NewHMACStrategy(secret string, opts Options) *HMACStrategy {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &HMACStrategy{secret: []byte(secret), ttl: ttl, now: now}
}

// IssueToken generates a signed token for the identity.
func (s *HMACStrategy) IssueToken(identity model.Identity) (string, error) {
	if !identity.Role.Valid() {
		return "", fmt.Errorf("issue token: unknown role %q", identity.Role)
	}
	expires := s.now().Add(s.ttl).Unix()
	payload := fmt.Sprintf("%d.%s.%d", identity.ID, identity.Role, expires)
	return encode(payload) + "." + s.sign(payload), nil
}

// ParseToken validates token signature and expiry.
func (s *HMACStrategy) ParseToken(token string) (Claims, error) {
	encoded, sig, ok := strings.Cut(token, ".")
	if !ok {
		return Claims{}, ErrInvalidToken
	}
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return Claims{}, ErrInvalidToken
	}
	payload := string(raw)
	if !hmac.Equal([]byte(s.sign(payload)), []byte(sig)) {
		return Claims{}, ErrInvalidToken
	}

	parts := strings.Split(payload, ".")
	if len(parts) != 3 {
		return Claims{}, ErrInvalidToken
	}

	userID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return Claims{}, ErrInvalidToken
	}

	role := model.Role(parts[1])
	if !role.Valid() {
		return Claims{}, ErrInvalidToken
	}

	expires, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return Claims{}, ErrInvalidToken
	}

	expiresAt := time.Unix(expires, 0)
	if expiresAt.Before(s.now()) {
		return Claims{}, ErrInvalidToken
	}

	return Claims{UserID: userID, Role: role, ExpiresAt: expiresAt}, nil
}

func (s *HMACStrategy) Name() string {
	return "hmac"
}

func (s *HMACStrategy) sign(payload string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func encode(payload string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(payload))
}
