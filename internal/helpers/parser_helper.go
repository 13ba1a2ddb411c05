package helpers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

func StringToInt(s string) (int, error) {
	return strconv.Atoi(s)
}

// ParseUUIDParam reads a path parameter as a UUID. It responds with 400 and
// returns false when the value is malformed.
func ParseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		RespondWithError(c, http.StatusBadRequest, "Invalid "+name+".")
		return uuid.Nil, false
	}
	return id, true
}

// ParsePagination reads page and limit query parameters. Limits above
// maxPageLimit are clamped.
func ParsePagination(c *gin.Context) (page, limit int, ok bool) {
	page, err := StringToInt(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		RespondWithError(c, http.StatusBadRequest, "Invalid page number.")
		return 0, 0, false
	}

	limit, err = StringToInt(c.DefaultQuery("limit", strconv.Itoa(defaultPageLimit)))
	if err != nil || limit < 1 {
		RespondWithError(c, http.StatusBadRequest, "Invalid limit.")
		return 0, 0, false
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	return page, limit, true
}
