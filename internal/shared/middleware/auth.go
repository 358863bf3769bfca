package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"stayhub-backend/internal/shared/apperror"
	"stayhub-backend/internal/shared/auth"
	"stayhub-backend/internal/shared/response"
	"stayhub-backend/pkg/jwt"
	"stayhub-backend/pkg/logger"
)

const actorKey = "actor"

// Blacklist reports whether a token id has been revoked (logout).
type Blacklist interface {
	IsBlacklisted(ctx context.Context, tokenID string) (bool, error)
}

// Auth validates the bearer token, rejects blacklisted credentials and
// stores the authenticated actor in the request context.
func Auth(manager *jwt.Manager, blacklist Blacklist) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			response.Fail(c, apperror.Unauthorized("missing or malformed authorization header"))
			c.Abort()
			return
		}

		claims, err := manager.ValidateAccessToken(token)
		if err != nil {
			response.Fail(c, apperror.Unauthorized("invalid token"))
			c.Abort()
			return
		}

		if blacklist != nil && claims.ID != "" {
			revoked, err := blacklist.IsBlacklisted(c.Request.Context(), claims.ID)
			if err != nil {
				// Fail open: a cache outage must not lock every user out.
				logger.Error("token blacklist lookup failed", err)
			}
			if revoked {
				response.Fail(c, apperror.Unauthorized("token has been revoked"))
				c.Abort()
				return
			}
		}

		c.Set(actorKey, &auth.Actor{
			ID:    claims.UserID,
			Email: claims.Email,
			Role:  claims.Role,
		})
		c.Next()
	}
}

// OptionalAuth resolves an actor when a valid token is present but lets
// anonymous requests through (public list endpoints).
func OptionalAuth(manager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c); ok {
			if claims, err := manager.ValidateAccessToken(token); err == nil {
				c.Set(actorKey, &auth.Actor{
					ID:    claims.UserID,
					Email: claims.Email,
					Role:  claims.Role,
				})
			}
		}
		c.Next()
	}
}

// RequireRoles gates an endpoint on a role allow-list. Must run after Auth.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := Actor(c)
		if actor == nil {
			response.Fail(c, apperror.Unauthorized("authentication required"))
			c.Abort()
			return
		}
		for _, role := range roles {
			if actor.Role == role {
				c.Next()
				return
			}
		}
		response.Fail(c, apperror.Forbidden("insufficient role"))
		c.Abort()
	}
}

// Actor returns the authenticated actor, or nil for anonymous requests.
func Actor(c *gin.Context) *auth.Actor {
	if v, exists := c.Get(actorKey); exists {
		if actor, ok := v.(*auth.Actor); ok {
			return actor
		}
	}
	return nil
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
