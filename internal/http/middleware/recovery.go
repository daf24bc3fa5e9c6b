package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/doomlearn/doomfeed-backend/internal/http/response"
	"github.com/doomlearn/doomfeed-backend/internal/platform/logger"
)

// Recovery turns panics into the standard error envelope instead of letting
// gin's default plain-text 500 leak through.
func Recovery(log *logger.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		if log != nil {
			log.Error("Panic recovered", "path", c.Request.URL.Path, "panic", fmt.Sprint(recovered))
		}
		response.RespondError(c, http.StatusInternalServerError, "internal_error",
			fmt.Errorf("internal server error"))
		c.Abort()
	})
}
