package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/farellandr/civic-events/internal/helpers"
)

// RequireAdmin must run after JWTAuthMiddleware.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := CallerFrom(c)
		if !caller.IsAuthenticated() {
			helpers.RespondWithError(c, http.StatusUnauthorized, "User not authenticated.")
			return
		}
		if !caller.IsAdmin() {
			helpers.RespondWithError(c, http.StatusForbidden, "Admin access required.")
			return
		}
		c.Next()
	}
}
