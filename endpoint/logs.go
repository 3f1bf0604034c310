package endpoint

import (
	"fmt"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/isalesbook/system-logger/logger"
	"github.com/isalesbook/system-logger/middleware"
	"github.com/isalesbook/system-logger/model"
	"github.com/isalesbook/system-logger/util"
	"gorm.io/gorm"
)

const maxMessageLength = 1000

type createLogRequest struct {
	Level    string                 `json:"level" example:"error"`
	Category string                 `json:"category" example:"api"`
	Message  string                 `json:"message" example:"Database connection failed"`
	Context  map[string]interface{} `json:"context"`
	Metadata map[string]interface{} `json:"metadata"`
}

// helper: ensure DB is available in context or respond with server error
func ensureDB(c *gin.Context) (*gorm.DB, bool) {
	db := middleware.GetDB(c)
	if db == nil {
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Database connection not available",
			Err: fmt.Errorf("db is nil"),
		})
		return nil, false
	}
	return db, true
}

// helper: get and validate numeric id param from path
func getIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		util.CallErrorNotFound(c, util.APIErrorParams{
			Msg: "Log entry not found",
			Err: fmt.Errorf("invalid log id"),
		})
		return 0, false
	}
	return uint(id), true
}

// helper: validate level/category/message against the closed enumerations and
// the message length bound. Returns a field -> message map, empty when valid.
func validateLogRequest(req createLogRequest, requireLevel bool) map[string]string {
	fieldErrors := map[string]string{}
	if requireLevel {
		if req.Level == "" {
			fieldErrors["level"] = "level is required"
		} else if !model.ValidLevel(req.Level) {
			fieldErrors["level"] = fmt.Sprintf("level must be one of: %v", model.LogLevels())
		}
	}
	if req.Category != "" && !model.ValidCategory(req.Category) {
		fieldErrors["category"] = fmt.Sprintf("category must be one of: %v", model.LogCategories())
	}
	if req.Message == "" {
		fieldErrors["message"] = "message is required"
	} else if utf8.RuneCountInString(req.Message) > maxMessageLength {
		// The bound counts characters, not bytes, so multibyte text is
		// not penalized.
		fieldErrors["message"] = fmt.Sprintf("message must not exceed %d characters", maxMessageLength)
	}
	return fieldErrors
}

// helper: route the validated request through the level-specific entry point.
// Dispatch is a compile-time switch over the level enumeration, never a
// method lookup by name.
func recordAtLevel(svc *logger.Service, level string, req createLogRequest, meta logger.RequestMeta) (*model.SystemLog, error) {
	metadata := req.Metadata
	if req.Category != "" {
		if metadata == nil {
			metadata = map[string]interface{}{}
		}
		metadata["category"] = req.Category
	}

	switch level {
	case model.LevelEmergency:
		return svc.Emergency(req.Message, req.Context, metadata, meta)
	case model.LevelAlert:
		return svc.Alert(req.Message, req.Context, metadata, meta)
	case model.LevelCritical:
		return svc.Critical(req.Message, req.Context, metadata, meta)
	case model.LevelError:
		return svc.Error(req.Message, req.Context, metadata, meta)
	case model.LevelWarning:
		return svc.Warning(req.Message, req.Context, metadata, meta)
	case model.LevelNotice:
		return svc.Notice(req.Message, req.Context, metadata, meta)
	case model.LevelInfo:
		return svc.Info(req.Message, req.Context, metadata, meta)
	case model.LevelDebug:
		return svc.Debug(req.Message, req.Context, metadata, meta)
	}
	return nil, fmt.Errorf("unknown level %q", level)
}

// CreateLog godoc
// @Summary      Create a new log entry
// @Description  Record a system log entry at the given level
// @Tags         Logger
// @Accept       json
// @Produce      json
// @Param        request body createLogRequest true "Log entry"
// @Success      201 {object} util.APIResponse{data=model.SystemLog} "Log entry created"
// @Failure      422 {object} util.ValidationResponse "Validation failed"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /log [post]
func CreateLog(c *gin.Context) {
	var req createLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "Invalid request body",
			Err: err,
		})
		return
	}

	if fieldErrors := validateLogRequest(req, true); len(fieldErrors) > 0 {
		util.CallValidationError(c, "Validation failed", fieldErrors)
		return
	}

	db, ok := ensureDB(c)
	if !ok {
		return
	}

	entry, err := recordAtLevel(logger.NewService(db), req.Level, req, middleware.RequestContext(c))
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Failed to create log entry",
			Err: err,
		})
		return
	}

	util.CallCreated(c, util.APISuccessParams{
		Msg:  "Log entry created successfully",
		Data: entry,
	})
}

// CreateLeveledLog returns a handler that records entries at a fixed level,
// backing the POST /{level} routes.
func CreateLeveledLog(level string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createLogRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			util.CallUserError(c, util.APIErrorParams{
				Msg: "Invalid request body",
				Err: err,
			})
			return
		}
		req.Level = level

		if fieldErrors := validateLogRequest(req, false); len(fieldErrors) > 0 {
			util.CallValidationError(c, "Validation failed", fieldErrors)
			return
		}

		db, ok := ensureDB(c)
		if !ok {
			return
		}

		entry, err := recordAtLevel(logger.NewService(db), level, req, middleware.RequestContext(c))
		if err != nil {
			util.CallServerError(c, util.APIErrorParams{
				Msg: "Failed to create log entry",
				Err: err,
			})
			return
		}

		util.CallCreated(c, util.APISuccessParams{
			Msg:  "Log entry created successfully",
			Data: entry,
		})
	}
}

// parseDateParam accepts RFC 3339 timestamps or plain dates. A date-only end
// bound is extended to the last instant of that day so the whole day is
// covered by the inclusive range.
func parseDateParam(value string, endOfDay bool) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, err
	}
	if endOfDay {
		t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return &t, nil
}

// helper: build query filters from the request's query string
func filtersFromQuery(c *gin.Context) (logger.Filters, error) {
	f := logger.Filters{
		Level:    c.Query("level"),
		Category: c.Query("category"),
		Search:   c.Query("search"),
	}

	start, err := parseDateParam(c.Query("start_date"), false)
	if err != nil {
		return f, fmt.Errorf("invalid start_date: %w", err)
	}
	f.StartDate = start

	end, err := parseDateParam(c.Query("end_date"), true)
	if err != nil {
		return f, fmt.Errorf("invalid end_date: %w", err)
	}
	f.EndDate = end

	if v := c.Query("user_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return f, fmt.Errorf("invalid user_id: %w", err)
		}
		uid := uint(id)
		f.UserID = &uid
	}

	f.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	f.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "0"))
	return f, nil
}

// ListLogs godoc
// @Summary      List log entries
// @Description  Get a filtered, paginated list of log entries, newest first
// @Tags         Logger
// @Accept       json
// @Produce      json
// @Param        level query string false "Filter by level"
// @Param        category query string false "Filter by category"
// @Param        search query string false "Substring match on message, context or IP"
// @Param        start_date query string false "Inclusive start of date range"
// @Param        end_date query string false "Inclusive end of date range"
// @Param        user_id query int false "Filter by acting user"
// @Param        page query int false "Page number" default(1)
// @Param        per_page query int false "Page size" default(50)
// @Success      200 {object} util.APIResponse{data=logger.LogPage} "Logs retrieved"
// @Failure      400 {object} util.APIResponse "Invalid filter"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /logs [get]
func ListLogs(c *gin.Context) {
	filters, err := filtersFromQuery(c)
	if err != nil {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "Invalid query parameters",
			Err: err,
		})
		return
	}

	db, ok := ensureDB(c)
	if !ok {
		return
	}

	page, err := logger.NewService(db).GetLogs(filters)
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Failed to retrieve logs",
			Err: err,
		})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Logs retrieved",
		Data: page,
	})
}

// GetLog godoc
// @Summary      Get a log entry
// @Description  Fetch a single log entry by id
// @Tags         Logger
// @Accept       json
// @Produce      json
// @Param        id path int true "Log entry ID"
// @Success      200 {object} util.APIResponse{data=model.SystemLog} "Log entry retrieved"
// @Failure      404 {object} util.APIResponse "Log entry not found"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /logs/{id} [get]
func GetLog(c *gin.Context) {
	id, ok := getIDParam(c)
	if !ok {
		return
	}

	db, ok := ensureDB(c)
	if !ok {
		return
	}

	entry, err := logger.NewService(db).GetLog(id)
	if err == gorm.ErrRecordNotFound {
		util.CallErrorNotFound(c, util.APIErrorParams{
			Msg: "Log entry not found",
			Err: err,
		})
		return
	}
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Failed to retrieve log entry",
			Err: err,
		})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Log entry retrieved",
		Data: entry,
	})
}

// DeleteLog godoc
// @Summary      Delete a log entry
// @Description  Permanently remove a single log entry by id
// @Tags         Logger
// @Accept       json
// @Produce      json
// @Param        id path int true "Log entry ID"
// @Success      200 {object} util.APIResponse "Log entry deleted"
// @Failure      404 {object} util.APIResponse "Log entry not found"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /logs/{id} [delete]
func DeleteLog(c *gin.Context) {
	id, ok := getIDParam(c)
	if !ok {
		return
	}

	db, ok := ensureDB(c)
	if !ok {
		return
	}

	err := logger.NewService(db).DeleteLog(id)
	if err == gorm.ErrRecordNotFound {
		util.CallErrorNotFound(c, util.APIErrorParams{
			Msg: "Log entry not found",
			Err: err,
		})
		return
	}
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Failed to delete log entry",
			Err: err,
		})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Log entry deleted successfully",
		Data: map[string]interface{}{},
	})
}
