package endpoint

import (
	"net/http"
	"testing"
	"time"

	"github.com/isalesbook/system-logger/logger"
	"github.com/isalesbook/system-logger/model"
	"github.com/stretchr/testify/assert"
)

func TestGetStatistics(t *testing.T) {
	router, db := setupEndpointTest(t)
	svc := logger.NewService(db)
	meta := logger.RequestMeta{}

	if _, err := svc.Info("routine", nil, nil, meta); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := svc.Info("routine", nil, nil, meta); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := svc.Critical("disk full", nil, nil, meta); err != nil {
		t.Fatalf("seed: %v", err)
	}

	w := performRequest(router, "GET", "/api/logger/statistics", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	resp := decodeEnvelope(t, w)
	assert.True(t, resp.Success)

	var stats logger.Statistics
	remarshal(t, resp.Data, &stats)
	assert.Equal(t, int64(3), stats.TotalLogs)
	assert.Equal(t, int64(2), stats.Levels[model.LevelInfo])
	assert.Equal(t, int64(1), stats.Levels[model.LevelCritical])
	assert.Equal(t, int64(3), stats.Categories[model.CategorySystem])
	if assert.Len(t, stats.RecentErrors, 1) {
		assert.Equal(t, "disk full", stats.RecentErrors[0].Message)
	}
}

func TestGetStatisticsDateRange(t *testing.T) {
	router, db := setupEndpointTest(t)
	svc := logger.NewService(db)
	meta := logger.RequestMeta{}

	old, err := svc.Warning("stale", nil, nil, meta)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	backdateEntry(t, db, old.ID, time.Now().AddDate(0, 0, -10))

	if _, err := svc.Warning("fresh", nil, nil, meta); err != nil {
		t.Fatalf("seed: %v", err)
	}

	start := time.Now().AddDate(0, 0, -1).Format("2006-01-02")
	w := performRequest(router, "GET", "/api/logger/statistics?start_date="+start, nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var stats logger.Statistics
	remarshal(t, decodeEnvelope(t, w).Data, &stats)
	assert.Equal(t, int64(1), stats.TotalLogs)
}

func TestGetStatisticsInvalidDate(t *testing.T) {
	router, _ := setupEndpointTest(t)

	w := performRequest(router, "GET", "/api/logger/statistics?end_date=notadate", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid end_date", decodeEnvelope(t, w).Msg)
}
