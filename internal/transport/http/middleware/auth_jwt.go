package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"go-vending-machine/internal/core/auth"
	"go-vending-machine/internal/domain"
	resp "go-vending-machine/internal/transport/http/response"
)

// AuthJWT validates the bearer token and stores the caller identity in the
// context for the action layer (userId/role). Role gating itself happens in
// the actions through vending.Authorize; requireRole is only for listeners
// that are entirely role-scoped.
func AuthJWT(j *auth.JWTer, requireRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeUnauthorized, "missing token"))
			return
		}
		claims, err := j.Parse(strings.TrimPrefix(ah, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeUnauthorized, "invalid token"))
			return
		}
		if requireRole != "" && claims.Role != requireRole {
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeForbidden, domain.ErrForbidden.Error()))
			return
		}
		c.Set("claims", claims)
		c.Set("userId", claims.UID)
		c.Set("role", claims.Role)
		c.Next()
	}
}
