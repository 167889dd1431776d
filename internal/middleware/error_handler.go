package middleware

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"groop/internal/errs"
	"groop/internal/sqlerr"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ErrorHandler turns the last error attached with c.Error into the response.
// Client errors keep their message; anything else is a 500 whose body hides
// the cause in production.
func ErrorHandler(isProduction bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err

		var httpErr *errs.HTTPError
		if !errors.As(err, &httpErr) {
			httpErr = sqlerr.HandleError(err)
		}
		if httpErr != nil {
			c.JSON(httpErr.Status, gin.H{"error": httpErr.Message})
			return
		}

		zerolog.Ctx(c.Request.Context()).Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("unhandled error")

		if isProduction {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "server error"}})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error(), "error": err.Error()})
	}
}

// Recovery converts a panic into an error for ErrorHandler.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered any) {
		_ = c.Error(fmt.Errorf("panic: %v", recovered))
		c.Abort()
	})
}
