package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/isalesbook/system-logger/logger"
	"github.com/isalesbook/system-logger/util"
)

// RequestID ensures every request carries a correlation id: an inbound
// X-Request-ID header is reused, otherwise a fresh id is minted. The id is
// stored in the request context and echoed on the response so all log entries
// produced while handling the request share it.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(logger.RequestIDHeader)
		if id == "" {
			id = logger.NewRequestID()
		}
		c.Set(requestIDContextKey, id)
		c.Writer.Header().Set(logger.RequestIDHeader, id)
		c.Next()
	}
}

// OptionalAuth resolves the acting principal without ever rejecting the
// request. A Bearer JWT with a user_id claim wins; a session-token header
// resolved through Redis is the fallback. Unauthenticated requests simply
// carry no user id.
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
			token := strings.TrimPrefix(auth, "Bearer ")
			if id, err := util.ParseUserToken(token); err == nil {
				c.Set(userIDContextKey, id)
				c.Next()
				return
			}
		}
		if token := c.GetHeader("session-token"); token != "" {
			if id, ok := util.GetSessionUserID(token); ok {
				c.Set(userIDContextKey, id)
			}
		}
		c.Next()
	}
}

// RequestContext assembles the explicit request metadata passed into every
// logger call: client IP, user agent, correlation id and the authenticated
// user when one was resolved.
func RequestContext(c *gin.Context) logger.RequestMeta {
	meta := logger.RequestMeta{
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		RequestID: c.GetString(requestIDContextKey),
	}
	if id, ok := GetUserID(c); ok {
		meta.UserID = &id
	}
	return meta
}
