package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/isalesbook/system-logger/logger"
	"github.com/isalesbook/system-logger/util"
)

// Recovery converts panics into error-level log entries and a generic 500
// response. The record is an observation of the failure, not a substitute
// for fixing it; the handler chain is still aborted.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		err, ok := recovered.(error)
		if !ok {
			err = fmt.Errorf("%v", recovered)
		}

		if db := GetDB(c); db != nil {
			svc := logger.NewService(db)
			_, _ = svc.LogException(err, map[string]interface{}{
				"method": c.Request.Method,
				"path":   c.Request.URL.Path,
			}, nil, RequestContext(c))
		}

		util.CallServerError(c, util.APIErrorParams{
			Msg: "Internal server error",
			Err: fmt.Errorf("unexpected error"),
		})
		c.Abort()
	})
}
