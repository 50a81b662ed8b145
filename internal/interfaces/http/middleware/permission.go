package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RoleConfig holds configuration for role middleware
type RoleConfig struct {
	Logger *zap.Logger
}

// RequireRole lets the request through when the caller holds any of the
// roles. Admins pass every check.
func RequireRole(roles ...string) gin.HandlerFunc {
	return RequireRoleWithConfig(RoleConfig{}, roles...)
}

// RequireRoleWithConfig is RequireRole with logging
func RequireRoleWithConfig(cfg RoleConfig, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !HasRole(c, roles...) {
			denyRole(c, cfg, roles)
			return
		}
		c.Next()
	}
}

// RequireRoleByMethod checks read roles for safe methods (GET, HEAD,
// OPTIONS) and write roles for everything else
func RequireRoleByMethod(cfg RoleConfig, read, write []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		roles := write
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			roles = read
		}
		if !HasRole(c, roles...) {
			denyRole(c, cfg, roles)
			return
		}
		c.Next()
	}
}

// HasRole reports whether the authenticated caller holds any of the roles
func HasRole(c *gin.Context, roles ...string) bool {
	claims := GetJWTClaims(c)
	if claims == nil {
		return false
	}
	return claims.HasRole(roles...)
}

func denyRole(c *gin.Context, cfg RoleConfig, required []string) {
	status, code, message := http.StatusForbidden, "FORBIDDEN", "Access denied: insufficient role"
	claims := GetJWTClaims(c)
	if claims == nil {
		status, code, message = http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required"
	}

	if cfg.Logger != nil {
		var subject string
		var held []string
		if claims != nil {
			subject, held = claims.Subject, claims.Roles
		}
		cfg.Logger.Warn("Role check failed",
			zap.String("subject", subject),
			zap.Strings("required_roles", required),
			zap.Strings("roles", held),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
		)
	}

	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}
