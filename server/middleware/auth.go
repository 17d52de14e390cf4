// Package middleware provides the Gin middleware chain for the auth API:
// the bearer-token request guard plus the ambient CORS, recovery,
// request-id, and logging layers.
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gastoncarriquiry/menu-maker/auth"
	"github.com/gastoncarriquiry/menu-maker/authctx"
	"github.com/gastoncarriquiry/menu-maker/errors"
	"github.com/gastoncarriquiry/menu-maker/server"
)

// RequireAuth returns a middleware that extracts and verifies the bearer
// token, attaching the identity to the request context. A missing token is
// a 401; a token that fails verification is a 403.
func RequireAuth(codec *auth.Codec) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			server.AbortWithError(c, errors.MissingToken())
			return
		}

		user, err := codec.VerifyAccess(token)
		if err != nil {
			server.AbortWithError(c, errors.InvalidAccessToken().WithCause(err))
			return
		}

		attach(c, user)
		c.Next()
	}
}

// OptionalAuth verifies a bearer token when one is present but never
// rejects the request. Downstream handlers branch on identity presence.
func OptionalAuth(codec *auth.Codec) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c); ok {
			if user, err := codec.VerifyAccess(token); err == nil {
				attach(c, user)
			}
		}
		c.Next()
	}
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func attach(c *gin.Context, user auth.AuthUser) {
	identity := authctx.Identity{ID: user.ID, Email: user.Email}
	c.Request = c.Request.WithContext(authctx.Set(c.Request.Context(), identity))
}
