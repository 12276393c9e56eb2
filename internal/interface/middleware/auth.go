package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kvenegas/tasks-api/internal/domain/entity"
	"github.com/kvenegas/tasks-api/pkg/helpers"
	"github.com/kvenegas/tasks-api/pkg/response"
)

// Context keys populated by Auth for downstream handlers.
const (
	CtxUserIDKey   = "userID"
	CtxUserRoleKey = "userRole"
)

// Auth validates the bearer token from the Authorization header and injects
// the caller's id and role into the Gin context. Missing and invalid tokens
// are both 401; the error never says which verification step failed.
func Auth(jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			response.AbortError(c, http.StatusUnauthorized, "missing bearer token")
			return
		}
		claims, err := jwt.Verify(token)
		if err != nil {
			response.AbortError(c, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		c.Set(CtxUserIDKey, claims.UserID)
		c.Set(CtxUserRoleKey, claims.Role)
		c.Next()
	}
}

// RequireRole restricts an operation to a closed set of roles. It expects
// Auth to have run first; without an identity in context the request is 401,
// with the wrong role it is 403.
func RequireRole(roles ...entity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(CtxUserRoleKey)
		if role == "" {
			response.AbortError(c, http.StatusUnauthorized, "not authenticated")
			return
		}
		for _, r := range roles {
			if entity.Role(role) == r {
				c.Next()
				return
			}
		}
		response.AbortError(c, http.StatusForbidden, "insufficient permissions")
	}
}

// CallerFrom rebuilds the caller identity placed in context by Auth.
func CallerFrom(c *gin.Context) (id string, role entity.Role) {
	return c.GetString(CtxUserIDKey), entity.Role(c.GetString(CtxUserRoleKey))
}

func bearerToken(c *gin.Context) string {
	auth := c.GetHeader("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
}
