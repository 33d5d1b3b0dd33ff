package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/celestia-oracle/celestia/internal/common"
	"github.com/celestia-oracle/celestia/internal/server/auth"
	"github.com/gin-gonic/gin"
)

const ctxUserIDKey = "UserID"

// AuthMiddleware enforces a Bearer token and stores the subject user id in
// the request context. Expired tokens get their own message so clients know
// to log in again.
func AuthMiddleware(jwtSecret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			newErrorResponse(c, http.StatusUnauthorized, "empty authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			newErrorResponse(c, http.StatusUnauthorized, "invalid authorization header")
			return
		}

		userID, err := auth.GetUserIDFromToken(parts[1], jwtSecret)
		if err != nil {
			if errors.Is(err, common.ErrTokenExpired) {
				newErrorResponse(c, http.StatusUnauthorized, "token expired")
				return
			}
			newErrorResponse(c, http.StatusUnauthorized, "invalid token")
			return
		}

		c.Set(ctxUserIDKey, userID)
		c.Next()
	}
}

// subjectID returns the authenticated user id stored by AuthMiddleware.
func subjectID(c *gin.Context) int64 {
	id, _ := c.Get(ctxUserIDKey)
	userID, _ := id.(int64)
	return userID
}
