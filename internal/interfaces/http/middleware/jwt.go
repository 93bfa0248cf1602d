package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/showring/backend/internal/infrastructure/auth"
	"github.com/showring/backend/internal/infrastructure/logger"
	"github.com/showring/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// JWT context keys
const (
	IdentityKey   = "identity"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// Identifier resolves a bearer token to a caller
type Identifier interface {
	Identify(token string) (auth.Identity, error)
}

// JWTMiddlewareConfig holds configuration for JWT middleware
type JWTMiddlewareConfig struct {
	Identifier Identifier
	Logger     *zap.Logger
}

// JWTAuth requires a valid bearer token and stores the caller's identity
// on both the gin context and the request context logger.
func JWTAuth(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		header := c.GetHeader(AuthHeaderKey)
		token, ok := strings.CutPrefix(header, BearerPrefix)
		if !ok || token == "" {
			abortWithError(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Authentication required")
			return
		}

		id, err := cfg.Identifier.Identify(token)
		if err != nil {
			logger.Enrich(c.Request.Context(), log).Debug("JWT authentication failed",
				zap.Error(err),
				zap.String("path", c.Request.URL.Path))
			if errors.Is(err, auth.ErrExpiredToken) {
				abortWithError(c, http.StatusUnauthorized, dto.ErrCodeSessionExpired, "Session has expired")
				return
			}
			abortWithError(c, http.StatusUnauthorized, dto.ErrCodeInvalidToken, "Invalid token")
			return
		}

		c.Set(IdentityKey, id)
		orgID := ""
		if id.IsSecretary() {
			orgID = id.OrganisationID.String()
		}
		ctx := logger.WithIdentity(c.Request.Context(), id.UserID.String(), orgID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireRole rejects callers whose role is not listed
func RequireRole(roles ...auth.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := GetIdentity(c)
		if !ok {
			abortWithError(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Authentication required")
			return
		}
		for _, r := range roles {
			if id.Role == r {
				c.Next()
				return
			}
		}
		abortWithError(c, http.StatusForbidden, dto.ErrCodeForbidden, "Your role cannot perform this action")
	}
}

// GetIdentity returns the caller stored by JWTAuth
func GetIdentity(c *gin.Context) (auth.Identity, bool) {
	v, exists := c.Get(IdentityKey)
	if !exists {
		return auth.Identity{}, false
	}
	id, ok := v.(auth.Identity)
	return id, ok
}
