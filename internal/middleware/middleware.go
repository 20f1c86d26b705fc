// Package middleware holds the HTTP middleware shared by every route.
package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/meganfung38/SFDC-Shell-Account-Assessment/internal/logger"
	"github.com/meganfung38/SFDC-Shell-Account-Assessment/pkg/config"
)

// RequestIDKey is the context key carrying the per-request identifier.
const RequestIDKey = "request_id"

// maxBodyBytes caps uploads; workbook files land well under this.
const maxBodyBytes = 10 * 1024 * 1024

// RequestLogging tags each request with an ID and logs its outcome.
func RequestLogging(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.New().String()
		c.Set(RequestIDKey, requestID)
		c.Header("X-Request-ID", requestID)

		start := time.Now()
		c.Next()

		log.Info("request handled",
			"request_id", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
			"client_ip", c.ClientIP(),
		)
	}
}

// SecurityHeaders adds the standard security headers to every response.
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Cache-Control", "no-store, no-cache, must-revalidate")
		c.Next()
	}
}

// CORS handles cross-origin requests using the configured origin list. In
// development any localhost origin is accepted.
func CORS(cfg *config.Config) gin.HandlerFunc {
	devOrigins := []string{
		"http://localhost:3000",
		"http://localhost:8080",
		"http://127.0.0.1:3000",
		"http://127.0.0.1:8080",
	}

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		allowed := cfg.GetAllowedOrigins()
		if cfg.IsDevelopment() {
			allowed = append(allowed, devOrigins...)
		}
		for _, candidate := range allowed {
			if origin == candidate {
				c.Header("Access-Control-Allow-Origin", origin)
				break
			}
		}

		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, X-Requested-With")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// BodyLimit rejects oversized request bodies before handlers read them.
func BodyLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
		c.Next()
	}
}

// RateLimit applies a fixed per-IP request budget per minute.
func RateLimit(perMinute int) gin.HandlerFunc {
	var mu sync.Mutex
	clients := make(map[string][]time.Time)

	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		now := time.Now()

		mu.Lock()
		recent := clients[clientIP][:0]
		for _, ts := range clients[clientIP] {
			if now.Sub(ts) <= time.Minute {
				recent = append(recent, ts)
			}
		}
		clients[clientIP] = recent

		if len(recent) >= perMinute {
			mu.Unlock()
			c.Header("Retry-After", "60")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"status":  "error",
				"message": "Rate limit exceeded",
			})
			return
		}

		clients[clientIP] = append(clients[clientIP], now)
		mu.Unlock()

		c.Next()
	}
}
