package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Recovery turns a handler panic into a 500 envelope. The stack is logged,
// never sent to the client.
func Recovery(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			log.Error().
				Str("panic", fmt.Sprint(r)).
				Str("method", c.Request.Method).
				Str("route", c.FullPath()).
				Str("request_id", c.GetString(requestIDHeader)).
				Bytes("stack", debug.Stack()).
				Msg("handler panicked")
			abortWithError(c, http.StatusInternalServerError, "Internal server error")
		}()
		c.Next()
	}
}
