package middleware

import (
	"github.com/gin-gonic/gin"

	"mindwell-server/internal/utils"
)

// LogRequest logs every incoming request with its trace id.
func LogRequest() gin.HandlerFunc {
	return func(c *gin.Context) {
		utils.LogMessageWithFields(c, "info", "Request received: "+c.Request.Method+" "+c.Request.URL.Path)
		c.Next()
	}
}
