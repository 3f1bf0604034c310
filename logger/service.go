package logger

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"runtime"
	"runtime/debug"
	"strings"
	"time"

	"github.com/isalesbook/system-logger/model"
	"github.com/isalesbook/system-logger/util"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Service is the system log engine: ingestion, querying, statistics and
// retention over the system_logs table. All operations are synchronous
// calls against the shared store; the service keeps no state besides the
// DB handle and relies on the store's own transactional guarantees.
type Service struct {
	db *gorm.DB
}

// NewService returns a Service writing to and reading from db.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

var systemLogger *log.Logger

func init() {
	// Echo every persisted entry to stdout - in production this could write to a separate file
	systemLogger = log.New(os.Stdout, "[SYSLOG] ", log.LstdFlags|log.Lmsgprefix)
}

// sanitizeLogValue removes newlines and other characters that could break log parsing.
// It only guards the stdout echo; persisted columns keep the caller's input verbatim.
func sanitizeLogValue(value string) string {
	value = strings.ReplaceAll(value, "\n", " ")
	value = strings.ReplaceAll(value, "\r", " ")
	value = strings.ReplaceAll(value, "\t", " ")
	// Truncate very long values to prevent log flooding
	if len(value) > 200 {
		value = value[:200] + "..."
	}
	return value
}

func toJSON(m map[string]interface{}) datatypes.JSON {
	if len(m) == 0 {
		return nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil
	}
	return datatypes.JSON(b)
}

// Log persists one entry at the given level, enriched with the ambient request
// data in meta. The category comes from metadata["category"] when it names a
// valid category, else "system". Levels error and above get an automatic stack
// trace capture. Persistence failures propagate to the caller unmodified:
// no retry, no buffering, no silent drop.
func (s *Service) Log(level, message string, context, metadata map[string]interface{}, meta RequestMeta) (*model.SystemLog, error) {
	start := time.Now()
	var before runtime.MemStats
	runtime.ReadMemStats(&before)

	category := model.CategorySystem
	if c, ok := metadata["category"].(string); ok && model.ValidCategory(c) {
		category = c
	}

	entry := model.SystemLog{
		Level:     level,
		Category:  category,
		Message:   message,
		Context:   toJSON(context),
		UserID:    meta.UserID,
		IP:        meta.IP,
		UserAgent: meta.UserAgent,
		RequestID: meta.RequestID,
		Metadata:  toJSON(metadata),
	}

	// Best-effort city/country resolution for the source IP (local DB + cache).
	if loc := util.GetIPLocation(meta.IP); loc.Country != "" || loc.City != "" {
		switch {
		case loc.City != "" && loc.Country != "":
			entry.Location = fmt.Sprintf("%s/%s", loc.City, loc.Country)
		case loc.Country != "":
			entry.Location = loc.Country
		default:
			entry.Location = loc.City
		}
	}

	if model.HighSeverity(level) {
		entry.StackTrace = string(debug.Stack())
	}

	var after runtime.MemStats
	runtime.ReadMemStats(&after)
	entry.ExecutionTime = time.Since(start).Seconds()
	// Heap delta around the ingestion call itself; may be <= 0 after a GC cycle.
	entry.MemoryUsage = int64(after.HeapAlloc) - int64(before.HeapAlloc)

	if err := s.db.Create(&entry).Error; err != nil {
		return nil, err
	}

	systemLogger.Printf("level=%s category=%s request_id=%s message=%s",
		entry.Level, entry.Category, sanitizeLogValue(entry.RequestID), sanitizeLogValue(entry.Message))

	return &entry, nil
}

// Emergency logs a message at the emergency level.
func (s *Service) Emergency(message string, context, metadata map[string]interface{}, meta RequestMeta) (*model.SystemLog, error) {
	return s.Log(model.LevelEmergency, message, context, metadata, meta)
}

// Alert logs a message at the alert level.
func (s *Service) Alert(message string, context, metadata map[string]interface{}, meta RequestMeta) (*model.SystemLog, error) {
	return s.Log(model.LevelAlert, message, context, metadata, meta)
}

// Critical logs a message at the critical level.
func (s *Service) Critical(message string, context, metadata map[string]interface{}, meta RequestMeta) (*model.SystemLog, error) {
	return s.Log(model.LevelCritical, message, context, metadata, meta)
}

// Error logs a message at the error level.
func (s *Service) Error(message string, context, metadata map[string]interface{}, meta RequestMeta) (*model.SystemLog, error) {
	return s.Log(model.LevelError, message, context, metadata, meta)
}

// Warning logs a message at the warning level.
func (s *Service) Warning(message string, context, metadata map[string]interface{}, meta RequestMeta) (*model.SystemLog, error) {
	return s.Log(model.LevelWarning, message, context, metadata, meta)
}

// Notice logs a message at the notice level.
func (s *Service) Notice(message string, context, metadata map[string]interface{}, meta RequestMeta) (*model.SystemLog, error) {
	return s.Log(model.LevelNotice, message, context, metadata, meta)
}

// Info logs a message at the info level.
func (s *Service) Info(message string, context, metadata map[string]interface{}, meta RequestMeta) (*model.SystemLog, error) {
	return s.Log(model.LevelInfo, message, context, metadata, meta)
}

// Debug logs a message at the debug level.
func (s *Service) Debug(message string, context, metadata map[string]interface{}, meta RequestMeta) (*model.SystemLog, error) {
	return s.Log(model.LevelDebug, message, context, metadata, meta)
}

func withCategory(metadata map[string]interface{}, category string) map[string]interface{} {
	if metadata == nil {
		metadata = map[string]interface{}{}
	}
	metadata["category"] = category
	return metadata
}

// LogAuth logs an authentication event at info level.
func (s *Service) LogAuth(message string, context, metadata map[string]interface{}, meta RequestMeta) (*model.SystemLog, error) {
	return s.Info(message, context, withCategory(metadata, model.CategoryAuth), meta)
}

// LogAPIRequest logs an API request at info level.
func (s *Service) LogAPIRequest(message string, context, metadata map[string]interface{}, meta RequestMeta) (*model.SystemLog, error) {
	return s.Info(message, context, withCategory(metadata, model.CategoryAPI), meta)
}

// LogDatabase logs a database operation at info level.
func (s *Service) LogDatabase(message string, context, metadata map[string]interface{}, meta RequestMeta) (*model.SystemLog, error) {
	return s.Info(message, context, withCategory(metadata, model.CategoryDatabase), meta)
}

// LogEmail logs an email operation at info level.
func (s *Service) LogEmail(message string, context, metadata map[string]interface{}, meta RequestMeta) (*model.SystemLog, error) {
	return s.Info(message, context, withCategory(metadata, model.CategoryEmail), meta)
}

// LogSecurity logs a security event. Security events are escalated to the
// warning level by default.
func (s *Service) LogSecurity(message string, context, metadata map[string]interface{}, meta RequestMeta) (*model.SystemLog, error) {
	return s.Warning(message, context, withCategory(metadata, model.CategorySecurity), meta)
}

// LogPerformance logs performance metrics at info level. Non-zero
// executionTime and memoryUsage are carried in the entry metadata.
func (s *Service) LogPerformance(message string, executionTime float64, memoryUsage int64, context, metadata map[string]interface{}, meta RequestMeta) (*model.SystemLog, error) {
	metadata = withCategory(metadata, model.CategoryPerformance)
	if executionTime != 0 {
		metadata["execution_time"] = executionTime
	}
	if memoryUsage != 0 {
		metadata["memory_usage"] = memoryUsage
	}
	return s.Info(message, context, metadata, meta)
}

// LogUserAction logs a user action at info level.
func (s *Service) LogUserAction(message string, context, metadata map[string]interface{}, meta RequestMeta) (*model.SystemLog, error) {
	return s.Info(message, context, withCategory(metadata, model.CategoryUserAction), meta)
}

// LogException records err as an error-level entry, capturing the caller's
// file and line into the metadata. It only observes: the caller still owns
// the original error and its propagation.
func (s *Service) LogException(err error, context, metadata map[string]interface{}, meta RequestMeta) (*model.SystemLog, error) {
	if metadata == nil {
		metadata = map[string]interface{}{}
	}
	if _, file, line, ok := runtime.Caller(1); ok {
		metadata["file"] = file
		metadata["line"] = line
	}
	return s.Error(err.Error(), context, metadata, meta)
}
