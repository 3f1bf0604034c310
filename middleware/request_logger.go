package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/isalesbook/system-logger/logger"
)

// RequestLogger records each handled HTTP request as an api-category log
// entry. It relies on DatabaseMiddleware having set the DB in context;
// requests are never failed because of it.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)
		status := c.Writer.Status()

		db := GetDB(c)
		if db == nil {
			return
		}

		context := map[string]interface{}{
			"method":      c.Request.Method,
			"path":        c.FullPath(),
			"raw_path":    c.Request.URL.Path,
			"status":      status,
			"duration_ms": duration.Milliseconds(),
			"query":       c.Request.URL.RawQuery,
		}

		svc := logger.NewService(db)
		_, _ = svc.LogAPIRequest(
			fmt.Sprintf("%s %s -> %d", c.Request.Method, c.Request.URL.Path, status),
			context,
			nil,
			RequestContext(c),
		)
	}
}
