package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/farellandr/civic-events/internal/helpers"
)

// Recovery turns handler panics into 500 responses. panics may be nil.
func Recovery(log *slog.Logger, panics prometheus.Counter) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered any) {
		if panics != nil {
			panics.Inc()
		}
		log.Error("recovered from panic",
			slog.Any("panic", recovered),
			slog.String("path", c.Request.URL.Path),
			slog.String("stack", string(debug.Stack())),
		)
		helpers.RespondWithError(c, http.StatusInternalServerError, "Internal server error.")
	})
}
