package endpoint

import (
	"github.com/gin-gonic/gin"
	"github.com/isalesbook/system-logger/logger"
	"github.com/isalesbook/system-logger/util"
)

// GetStatistics godoc
// @Summary      Get log statistics
// @Description  Counts by level and category plus the most recent high-severity entries
// @Tags         Logger
// @Accept       json
// @Produce      json
// @Param        start_date query string false "Inclusive start of date range"
// @Param        end_date query string false "Inclusive end of date range"
// @Success      200 {object} util.APIResponse{data=logger.Statistics} "Statistics retrieved"
// @Failure      400 {object} util.APIResponse "Invalid date range"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /statistics [get]
func GetStatistics(c *gin.Context) {
	start, err := parseDateParam(c.Query("start_date"), false)
	if err != nil {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "Invalid start_date",
			Err: err,
		})
		return
	}
	end, err := parseDateParam(c.Query("end_date"), true)
	if err != nil {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "Invalid end_date",
			Err: err,
		})
		return
	}

	db, ok := ensureDB(c)
	if !ok {
		return
	}

	stats, err := logger.NewService(db).GetStatistics(start, end)
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Failed to compute statistics",
			Err: err,
		})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Statistics retrieved",
		Data: stats,
	})
}
