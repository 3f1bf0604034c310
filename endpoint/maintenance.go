package endpoint

import (
	"github.com/gin-gonic/gin"
	"github.com/isalesbook/system-logger/logger"
	"github.com/isalesbook/system-logger/util"
)

type cleanLogsRequest struct {
	Days int `json:"days" example:"30"`
}

// CleanLogs godoc
// @Summary      Clean old logs
// @Description  Delete entries older than the given number of days; critical, alert and emergency entries are always retained
// @Tags         Logger
// @Accept       json
// @Produce      json
// @Param        request body cleanLogsRequest false "Retention window in days (default 30)"
// @Success      200 {object} util.APIResponse "Old logs cleaned"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /clean [post]
func CleanLogs(c *gin.Context) {
	req := cleanLogsRequest{Days: 30}
	// An empty body keeps the default retention window.
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			util.CallUserError(c, util.APIErrorParams{
				Msg: "Invalid request body",
				Err: err,
			})
			return
		}
	}
	if req.Days <= 0 {
		req.Days = 30
	}

	db, ok := ensureDB(c)
	if !ok {
		return
	}

	deleted, err := logger.NewService(db).CleanOldLogs(req.Days)
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Failed to clean old logs",
			Err: err,
		})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Old logs cleaned successfully",
		Data: map[string]interface{}{"deleted_count": deleted},
	})
}
