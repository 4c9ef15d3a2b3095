package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turboapi/turbo/pkg/errors"
	"github.com/turboapi/turbo/pkg/logging"
)

// ErrorMiddleware maps classified errors onto HTTP responses. Handlers push
// failures with c.Error and return; nothing downstream re-classifies them.
func ErrorMiddleware(logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		if logger != nil {
			logger.Error(err.Error())
		}

		switch e := err.(type) {
		case *errors.StatusError:
			if e.Code == http.StatusNoContent {
				c.Status(http.StatusNoContent)
				return
			}
			response := gin.H{
				"error": gin.H{
					"code":    e.Code,
					"message": e.Message,
				},
			}
			if e.Reason != "" {
				response["error"].(gin.H)["reason"] = e.Reason
			}
			c.JSON(e.Code, response)
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": gin.H{
					"code":    http.StatusInternalServerError,
					"message": "internal server error",
				},
			})
		}
	}
}
