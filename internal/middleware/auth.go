package middleware

import (
	"net/http"
	"strings"

	"tachyon_backend/internal/config"
	"tachyon_backend/internal/model"
	"tachyon_backend/internal/repository"
	"tachyon_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware validates the bearer token and stores the claims on the
// request context for downstream handlers.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			util.Error(c, http.StatusUnauthorized, "missing authorization header")
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			util.Error(c, http.StatusUnauthorized, "invalid authorization header")
			c.Abort()
			return
		}

		claims, err := util.ParseJWT(parts[1], cfg.JWT.Secret)
		if err != nil {
			util.Error(c, http.StatusUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set("claims", claims)
		c.Set("user_id", claims.UserID)
		c.Set("role", string(claims.Role))
		c.Next()
	}
}

// RoleMiddleware restricts a route group to the given roles. Admins pass
// every role check.
func RoleMiddleware(roles ...model.UserRole) gin.HandlerFunc {
	allowed := make(map[model.UserRole]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		claims, ok := util.GetUserFromContext(c)
		if !ok {
			util.Error(c, http.StatusUnauthorized, "authentication required")
			c.Abort()
			return
		}
		if claims.Role != model.Admin && !allowed[claims.Role] {
			util.Error(c, http.StatusForbidden, "insufficient permissions")
			c.Abort()
			return
		}
		c.Next()
	}
}

// ActivityMiddleware records the caller's last-seen timestamp after the
// handler runs. Failures are ignored so activity tracking never blocks a
// request.
func ActivityMiddleware(userRepo *repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		claims, ok := util.GetUserFromContext(c)
		if !ok {
			return
		}
		go func(userID uint) {
			_ = userRepo.UpdateLastSeen(userID)
		}(claims.UserID)
	}
}
