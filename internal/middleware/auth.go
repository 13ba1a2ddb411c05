package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/farellandr/civic-events/internal/helpers"
	"github.com/farellandr/civic-events/internal/lib/jwt"
	"github.com/farellandr/civic-events/internal/models"
)

const CallerKey = "caller"

// JWTAuthMiddleware rejects requests without a valid bearer token and stores
// the resulting caller in the context.
func JWTAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			helpers.RespondWithError(c, http.StatusUnauthorized, "Authorization header is required.")
			return
		}

		authenticate(c, header, secret)
	}
}

// OptionalAuthMiddleware authenticates the caller when a token is present and
// lets anonymous requests through otherwise. A present but invalid token is
// still rejected.
func OptionalAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}

		authenticate(c, header, secret)
	}
}

func authenticate(c *gin.Context, header, secret string) {
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || strings.TrimSpace(token) == "" {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Authorization header must be a Bearer token.")
		return
	}

	caller, err := jwt.ParseToken(strings.TrimSpace(token), secret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			helpers.RespondWithError(c, http.StatusUnauthorized, "Token has expired.")
			return
		}
		helpers.RespondWithError(c, http.StatusUnauthorized, "Invalid token.")
		return
	}

	c.Set(CallerKey, caller)
	c.Next()
}

// CallerFrom returns the authenticated caller, or the zero Caller for
// anonymous requests.
func CallerFrom(c *gin.Context) models.Caller {
	value, exists := c.Get(CallerKey)
	if !exists {
		return models.Caller{}
	}
	caller, _ := value.(models.Caller)
	return caller
}
