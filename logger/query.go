package logger

import (
	"strings"
	"time"

	"github.com/isalesbook/system-logger/model"
	"gorm.io/gorm"
)

// DefaultPerPage is the page size used when the caller does not set one.
const DefaultPerPage = 50

// Filters narrows GetLogs results. Zero-valued fields are ignored; set fields
// combine with AND semantics. No combination is invalid.
type Filters struct {
	Level     string
	Category  string
	Search    string
	StartDate *time.Time
	EndDate   *time.Time
	UserID    *uint
	Page      int
	PerPage   int
}

// LogPage is one page of query results, newest entries first.
type LogPage struct {
	Logs       []model.SystemLog `json:"logs"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	PerPage    int               `json:"per_page"`
	TotalPages int               `json:"total_pages"`
}

// Statistics summarizes the store over an optional date window.
type Statistics struct {
	TotalLogs    int64             `json:"total_logs"`
	Levels       map[string]int64  `json:"levels"`
	Categories   map[string]int64  `json:"categories"`
	RecentErrors []model.SystemLog `json:"recent_errors"`
}

func applyDateRange(q *gorm.DB, start, end *time.Time) *gorm.DB {
	if start != nil {
		q = q.Where("created_at >= ?", *start)
	}
	if end != nil {
		q = q.Where("created_at <= ?", *end)
	}
	return q
}

func (f Filters) apply(q *gorm.DB) *gorm.DB {
	if f.Level != "" {
		q = q.Where("level = ?", f.Level)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Search != "" {
		like := "%" + strings.ToLower(f.Search) + "%"
		q = q.Where("LOWER(message) LIKE ? OR LOWER(CAST(context AS CHAR)) LIKE ? OR LOWER(ip_address) LIKE ?",
			like, like, like)
	}
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	return applyDateRange(q, f.StartDate, f.EndDate)
}

// GetLogs returns a filtered page of entries ordered by created_at descending,
// ties broken by descending id so pagination stays stable across identical
// timestamps.
func (s *Service) GetLogs(f Filters) (*LogPage, error) {
	page := f.Page
	if page < 1 {
		page = 1
	}
	perPage := f.PerPage
	if perPage < 1 {
		perPage = DefaultPerPage
	}

	var total int64
	if err := f.apply(s.db.Model(&model.SystemLog{})).Count(&total).Error; err != nil {
		return nil, err
	}

	var logs []model.SystemLog
	err := f.apply(s.db.Model(&model.SystemLog{})).
		Order("created_at DESC").
		Order("id DESC").
		Limit(perPage).
		Offset((page - 1) * perPage).
		Find(&logs).Error
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(perPage) - 1) / int64(perPage))
	return &LogPage{
		Logs:       logs,
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
	}, nil
}

// GetLog fetches a single entry by id. Returns gorm.ErrRecordNotFound when
// no entry matches.
func (s *Service) GetLog(id uint) (*model.SystemLog, error) {
	var entry model.SystemLog
	if err := s.db.First(&entry, id).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// DeleteLog removes a single entry by id. Returns gorm.ErrRecordNotFound when
// the id does not exist, so a repeated delete reports not-found rather than
// succeeding silently.
func (s *Service) DeleteLog(id uint) error {
	res := s.db.Delete(&model.SystemLog{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// GetStatistics computes counts by level and category plus the ten most
// recent high-severity entries, all within the optional date window.
// Results are computed fresh on every call.
func (s *Service) GetStatistics(start, end *time.Time) (*Statistics, error) {
	base := func() *gorm.DB {
		return applyDateRange(s.db.Model(&model.SystemLog{}), start, end)
	}

	stats := &Statistics{
		Levels:     map[string]int64{},
		Categories: map[string]int64{},
	}

	if err := base().Count(&stats.TotalLogs).Error; err != nil {
		return nil, err
	}

	type bucket struct {
		Name  string
		Count int64
	}

	var levelRows []bucket
	if err := base().Select("level AS name, COUNT(*) AS count").Group("level").Scan(&levelRows).Error; err != nil {
		return nil, err
	}
	for _, row := range levelRows {
		stats.Levels[row.Name] = row.Count
	}

	var categoryRows []bucket
	if err := base().Select("category AS name, COUNT(*) AS count").Group("category").Scan(&categoryRows).Error; err != nil {
		return nil, err
	}
	for _, row := range categoryRows {
		stats.Categories[row.Name] = row.Count
	}

	err := base().
		Where("level IN ?", model.HighSeverityLevels()).
		Order("created_at DESC").
		Order("id DESC").
		Limit(10).
		Find(&stats.RecentErrors).Error
	if err != nil {
		return nil, err
	}

	return stats, nil
}

// CleanOldLogs deletes entries older than the given number of days, keeping
// critical, alert and emergency entries forever. Returns the number of rows
// deleted. Running it twice with the same cutoff is safe; the second pass
// deletes only newly qualifying rows.
func (s *Service) CleanOldLogs(days int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -days)
	res := s.db.
		Where("created_at < ?", cutoff).
		Where("level NOT IN ?", model.RetainedLevels()).
		Delete(&model.SystemLog{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
