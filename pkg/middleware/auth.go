package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"lookout/pkg/api/common"
)

// ServiceAuthMiddleware validates service-to-service bearer tokens.
// Rejections use the same error envelope as the rest of the API.
func ServiceAuthMiddleware(expectedToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		parts := strings.Split(auth, " ")
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] != expectedToken {
			c.AbortWithStatusJSON(http.StatusUnauthorized, common.NewErrorResponse(http.StatusUnauthorized))
			return
		}

		c.Next()
	}
}
