package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	userSvc "fixhub/services/user"
	"fixhub/utils"
)

// JWTAuthUserMiddleware validates the bearer token and resolves the user
// it names on every protected route. On success it stores "userID" and the
// full "user" in the gin context; any failure is a 401.
func JWTAuthUserMiddleware(users userSvc.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: No token provided"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		userID, err := utils.ExtractUserIDFromToken(tokenString)
		if err != nil || userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Invalid token"})
			return
		}

		usr, err := users.GetByID(userID)
		if err != nil || usr == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: User not found"})
			return
		}

		c.Set("userID", usr.ID)
		c.Set("user", *usr)
		c.Next()
	}
}
