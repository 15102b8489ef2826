package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/ordertrack/internal/domain/errors"
	"github.com/polkiloo/ordertrack/internal/domain/model"
)

const (
	// IdentityContextKey is a gin context key for the authenticated identity.
	IdentityContextKey = "identity"
	authCookieName     = "ordertrack_token"
	// accessTokenParam carries the token for clients that cannot set headers, such as EventSource.
	accessTokenParam = "access_token"
)

// IdentityResolver maps a bearer token to the identity it was issued for.
type IdentityResolver interface {
	Identify(ctx context.Context, token string) (model.Identity, error)
}

// AuthRequired ensures user is authenticated before accessing handler.
func AuthRequired(resolver IdentityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "authentication required"})
			return
		}

		identity, err := resolver.Identify(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, domainErrors.ErrUnauthenticated) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid or expired token"})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
			return
		}

		c.Set(IdentityContextKey, identity)
		c.Next()
	}
}

// CurrentIdentity returns the identity stored by AuthRequired.
func CurrentIdentity(c *gin.Context) (model.Identity, bool) {
	val, ok := c.Get(IdentityContextKey)
	if !ok {
		return model.Identity{}, false
	}
	identity, ok := val.(model.Identity)
	return identity, ok
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	if cookie, err := c.Cookie(authCookieName); err == nil {
		return cookie
	}
	return c.Query(accessTokenParam)
}

// SetAuthCookie writes auth token cookie to response.
func SetAuthCookie(c *gin.Context, token string) {
	c.SetCookie(authCookieName, token, 0, "/", "", false, true)
	c.Header("Authorization", "Bearer "+token)
}
