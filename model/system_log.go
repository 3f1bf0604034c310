package model

import (
	"time"

	"gorm.io/datatypes"
)

// Log levels, highest severity first.
const (
	LevelEmergency = "emergency"
	LevelAlert     = "alert"
	LevelCritical  = "critical"
	LevelError     = "error"
	LevelWarning   = "warning"
	LevelNotice    = "notice"
	LevelInfo      = "info"
	LevelDebug     = "debug"
)

// Log categories.
const (
	CategoryAuth        = "authentication"
	CategoryAPI         = "api"
	CategoryDatabase    = "database"
	CategoryEmail       = "email"
	CategorySystem      = "system"
	CategorySecurity    = "security"
	CategoryPerformance = "performance"
	CategoryUserAction  = "user_action"
)

// SystemLog represents one persisted system log entry. Entries are append-only:
// there is no soft delete and no update path, only hard deletion by id or via
// the retention sweep.
type SystemLog struct {
	ID       uint           `json:"id" gorm:"primaryKey"`
	Level    string         `json:"level" gorm:"column:level;type:varchar(16);index"`
	Category string         `json:"category" gorm:"column:category;type:varchar(32);default:system;index"`
	Message  string         `json:"message" gorm:"column:message;type:text"`
	Context  datatypes.JSON `json:"context" gorm:"column:context;type:json"`
	UserID   *uint          `json:"user_id" gorm:"column:user_id;index"`
	User     *User          `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL"`
	IP       string         `json:"ip_address" gorm:"column:ip_address;type:varchar(45);index"`
	// Location stores city and country in the format "City/Country" when available.
	Location      string         `json:"location" gorm:"column:location;type:varchar(255)"`
	UserAgent     string         `json:"user_agent" gorm:"column:user_agent;type:varchar(512)"`
	RequestID     string         `json:"request_id" gorm:"column:request_id;type:varchar(36);index"`
	ExecutionTime float64        `json:"execution_time" gorm:"column:execution_time"`
	MemoryUsage   int64          `json:"memory_usage" gorm:"column:memory_usage"`
	StackTrace    string         `json:"stack_trace,omitempty" gorm:"column:stack_trace;type:longtext"`
	Metadata      datatypes.JSON `json:"metadata" gorm:"column:metadata;type:json"`
	CreatedAt     time.Time      `json:"created_at" gorm:"column:created_at;autoCreateTime;index"`
}

func (SystemLog) TableName() string { return "system_logs" }

// LogLevels returns the closed set of valid levels ordered by decreasing severity.
func LogLevels() []string {
	return []string{
		LevelEmergency,
		LevelAlert,
		LevelCritical,
		LevelError,
		LevelWarning,
		LevelNotice,
		LevelInfo,
		LevelDebug,
	}
}

// LogCategories returns the closed set of valid categories.
func LogCategories() []string {
	return []string{
		CategoryAuth,
		CategoryAPI,
		CategoryDatabase,
		CategoryEmail,
		CategorySystem,
		CategorySecurity,
		CategoryPerformance,
		CategoryUserAction,
	}
}

// HighSeverityLevels are the levels that get an automatic stack trace capture.
func HighSeverityLevels() []string {
	return []string{LevelError, LevelCritical, LevelAlert, LevelEmergency}
}

// RetainedLevels are the levels the retention sweep never deletes.
func RetainedLevels() []string {
	return []string{LevelCritical, LevelAlert, LevelEmergency}
}

// ValidLevel reports whether level is a member of the level enumeration.
func ValidLevel(level string) bool {
	for _, l := range LogLevels() {
		if l == level {
			return true
		}
	}
	return false
}

// ValidCategory reports whether category is a member of the category enumeration.
func ValidCategory(category string) bool {
	for _, c := range LogCategories() {
		if c == category {
			return true
		}
	}
	return false
}

// HighSeverity reports whether level triggers stack trace capture.
func HighSeverity(level string) bool {
	for _, l := range HighSeverityLevels() {
		if l == level {
			return true
		}
	}
	return false
}
