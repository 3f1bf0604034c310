package endpoint

import (
	"github.com/gin-gonic/gin"
	"github.com/isalesbook/system-logger/model"
	"github.com/isalesbook/system-logger/util"
)

// GetLevels godoc
// @Summary      List log levels
// @Description  The closed set of valid log levels, highest severity first
// @Tags         Logger
// @Produce      json
// @Success      200 {object} util.APIResponse{data=[]string} "Levels retrieved"
// @Router       /levels [get]
func GetLevels(c *gin.Context) {
	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Levels retrieved",
		Data: model.LogLevels(),
	})
}

// GetCategories godoc
// @Summary      List log categories
// @Description  The closed set of valid log categories
// @Tags         Logger
// @Produce      json
// @Success      200 {object} util.APIResponse{data=[]string} "Categories retrieved"
// @Router       /categories [get]
func GetCategories(c *gin.Context) {
	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Categories retrieved",
		Data: model.LogCategories(),
	})
}
