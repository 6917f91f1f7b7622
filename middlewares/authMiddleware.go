package middlewares

import (
	"net/http"
	"strings"

	"github.com/bizcoresoft/bakery_backend/utils"
	"github.com/gin-gonic/gin"
)

// AuthMiddleware validates the bearer token and moves its claims into the
// request context, where every model and workflow function reads the
// business scope from.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.Request.Header.Get("Authorization")
		if auth == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization header is required"})
			c.Abort()
			return
		}

		token := strings.TrimPrefix(auth, "Bearer ")
		validated, err := utils.JwtValidate(token)
		if err != nil || !validated.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		claims, ok := validated.Claims.(*utils.JwtCustomClaim)
		if !ok || claims.BusinessId == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		ctx := c.Request.Context()
		ctx = utils.SetBusinessIdInContext(ctx, claims.BusinessId)
		ctx = utils.SetUserIdInContext(ctx, claims.ID)
		ctx = utils.SetTokenInContext(ctx, token)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
