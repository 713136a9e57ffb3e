package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/ekremrn/crypto-excel-export/internal/domain/dto"
	"github.com/ekremrn/crypto-excel-export/internal/logger"
)

// RecoveryMiddleware returns a Gin middleware that recovers from any panic,
// logs the stack trace, and returns a standardized JSON error response.
//
// Behavior:
//   - Uses defer to catch any panic that occurs during request handling.
//   - Logs the recovered panic value and stack trace via the global logger.
//   - Returns a 500 Internal Server Error response using dto.NewErrorResponse.
//
// Returns:
//   - gin.HandlerFunc: A middleware function for use in the Gin router.
func RecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				// Log the panic and stack trace
				logger.L().Error().
					Str("panic", fmt.Sprintf("%v", r)).
					Bytes("stack", debug.Stack()).
					Msg("panic recovered")

				// Respond with standardized error structure
				errResponse := dto.NewErrorResponse("Internal server error", fmt.Errorf("%v", r))
				c.AbortWithStatusJSON(http.StatusInternalServerError, errResponse)
			}
		}()

		c.Next()
	}
}

// ErrorHandler is a catch-all Gin middleware for errors that handlers
// attached via c.Error() without writing a response themselves.
//
// Behavior:
//   - Runs the rest of the chain, then inspects c.Errors.
//   - If errors were attached and no response body was written yet,
//     responds with 500 and the last error wrapped in dto.ErrorResponse.
//
// Handlers that know the right status code should write it directly; this
// middleware only guards against errors that would otherwise vanish.
func ErrorHandler(c *gin.Context) {
	c.Next()

	if len(c.Errors) == 0 || c.Writer.Written() {
		return
	}

	last := c.Errors.Last().Err
	c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("Internal server error", last))
}
