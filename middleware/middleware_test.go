package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/isalesbook/system-logger/config"
	"github.com/isalesbook/system-logger/logger"
	"github.com/isalesbook/system-logger/model"
	"github.com/isalesbook/system-logger/util"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupMiddlewareTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:testdb_middleware_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&model.User{}, &model.SystemLog{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return db
}

func TestCORSMiddlewarePreflight(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORSMiddleware())
	r.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest("OPTIONS", "/test", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestDatabaseMiddlewareAndGetDB(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := setupMiddlewareTestDB(t)

	r := gin.New()
	r.Use(DatabaseMiddleware(db))
	r.GET("/test", func(c *gin.Context) {
		if GetDB(c) == nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/test", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetDBWithoutMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/test", nil)
	assert.Nil(t, GetDB(c))
}

func TestRequestIDMintsWhenAbsent(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())

	var seen string
	r.GET("/test", func(c *gin.Context) {
		seen = c.GetString(requestIDContextKey)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/test", nil))

	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, w.Header().Get(logger.RequestIDHeader))
}

func TestRequestIDReusesInboundHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())

	var seen string
	r.GET("/test", func(c *gin.Context) {
		seen = c.GetString(requestIDContextKey)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set(logger.RequestIDHeader, "corr-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "corr-123", seen)
	assert.Equal(t, "corr-123", w.Header().Get(logger.RequestIDHeader))
}

func TestOptionalAuthWithBearerToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	util.SetJWTSecret("test-secret-123")
	t.Cleanup(func() { util.SetJWTSecret("") })

	token, err := util.CreateUserToken(42, time.Hour)
	if err != nil {
		t.Fatalf("create token: %v", err)
	}

	r := gin.New()
	r.Use(OptionalAuth())

	var userID uint
	var authed bool
	r.GET("/test", func(c *gin.Context) {
		userID, authed = GetUserID(c)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, authed)
	assert.Equal(t, uint(42), userID)
}

func TestOptionalAuthNeverRejects(t *testing.T) {
	gin.SetMode(gin.TestMode)
	util.SetJWTSecret("test-secret-123")
	t.Cleanup(func() { util.SetJWTSecret("") })

	r := gin.New()
	r.Use(OptionalAuth())
	r.GET("/test", func(c *gin.Context) {
		if _, ok := GetUserID(c); ok {
			c.Status(http.StatusTeapot)
			return
		}
		c.Status(http.StatusOK)
	})

	// garbage bearer token: request still served, just anonymous
	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// no credentials at all
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/test", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestOptionalAuthWithSessionToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	client, mock := redismock.NewClientMock()
	config.SetRedisClientForTest(client)
	t.Cleanup(func() { config.SetRedisClientForTest(nil) })

	mock.ExpectGet("session:sess-1").SetVal("9")

	r := gin.New()
	r.Use(OptionalAuth())

	var userID uint
	r.GET("/test", func(c *gin.Context) {
		userID, _ = GetUserID(c)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("session-token", "sess-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, uint(9), userID)
}

func TestRequestContextCarriesRequestData(t *testing.T) {
	gin.SetMode(gin.TestMode)
	util.SetJWTSecret("test-secret-123")
	t.Cleanup(func() { util.SetJWTSecret("") })

	token, err := util.CreateUserToken(7, time.Hour)
	if err != nil {
		t.Fatalf("create token: %v", err)
	}

	r := gin.New()
	r.Use(RequestID(), OptionalAuth())

	var meta logger.RequestMeta
	r.GET("/test", func(c *gin.Context) {
		meta = RequestContext(c)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("User-Agent", "go-test/1.0")
	req.Header.Set(logger.RequestIDHeader, "corr-7")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "corr-7", meta.RequestID)
	assert.Equal(t, "go-test/1.0", meta.UserAgent)
	assert.NotEmpty(t, meta.IP)
	if assert.NotNil(t, meta.UserID) {
		assert.Equal(t, uint(7), *meta.UserID)
	}
}

func TestRecoveryRecordsPanic(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := setupMiddlewareTestDB(t)

	r := gin.New()
	r.Use(DatabaseMiddleware(db), Recovery())
	r.GET("/boom", func(c *gin.Context) {
		panic(fmt.Errorf("unexpected failure"))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var entry model.SystemLog
	if err := db.Where("level = ?", model.LevelError).First(&entry).Error; err != nil {
		t.Fatalf("expected a persisted error entry: %v", err)
	}
	assert.Equal(t, "unexpected failure", entry.Message)
	assert.NotEmpty(t, entry.StackTrace)
}
