package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mastkeey/cb-cloud-service/pkg/security"
)

const bearerPrefix = "Bearer "

// NewAuthMiddleware validates the Authorization header and stores the
// token's user id under the userID context key. Principal-scoped
// endpoints sit behind it; everything after can trust that userID is a
// well-formed UUID string of an authenticated user.
func NewAuthMiddleware(tokens *security.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.MustGet("requestID").(string)

		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, bearerPrefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "missing bearer token",
				"requestID": requestID,
			})
			return
		}

		tokenStr := header[len(bearerPrefix):]

		userID, err := tokens.UserID(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "token_invalid",
				"requestID": requestID,
			})

			zap.L().Debug("Failed to parse token", zap.Error(err), zap.String("requestID", requestID))
			return
		}

		if tokens.IsExpired(tokenStr) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "token_expired",
				"requestID": requestID,
			})
			return
		}

		c.Set("userID", userID.String())
		c.Next()
	}
}
