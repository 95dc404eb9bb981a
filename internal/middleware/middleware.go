package middleware

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"sawari/internal/auth"
	"sawari/internal/cache"
	"sawari/internal/logger"
	"sawari/internal/repository"

	"github.com/gin-gonic/gin"
)

// Ctx keys and helpers for the authenticated caller identity. Unexported
// type avoids collisions.

type ctxKey string

const (
	userIDKey  ctxKey = "user_id"
	isAdminKey ctxKey = "is_admin"
)

func ContextWithUser(ctx context.Context, userID int64, isAdmin bool) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, isAdminKey, isAdmin)
}

func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}

// CORS handles cross-origin requests.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(200)
			return
		}

		c.Next()
	}
}

// RequestID assigns a request ID and threads it through the context for
// log correlation.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = logger.NewRequestID()
		}
		c.Header("X-Request-ID", requestID)
		c.Request = c.Request.WithContext(
			logger.ContextWithRequestID(c.Request.Context(), requestID))
		c.Next()
	}
}

// Logger logs each request with structured fields.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start)
		logFields := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status_code", c.Writer.Status(),
			"latency_ms", latency.Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if userID, exists := c.Get("user_id"); exists {
			logFields = append(logFields, "user_id", userID)
		}

		if c.Writer.Status() >= 400 {
			if len(c.Errors) > 0 {
				logFields = append(logFields, "error", c.Errors.String())
			}
			slog.Error("Request completed with error", logFields...)
		} else {
			slog.Debug("Request completed", logFields...)
		}
	}
}

// Recovery recovers from panics with detailed logging.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		slog.Error("PANIC recovered",
			"panic", recovered,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"client_ip", c.ClientIP(),
		)

		if !c.Writer.Written() {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
	})
}

// BasicAuth authenticates the caller via HTTP Basic Auth against the
// users table, consulting the Valkey cache first. The engines trust the
// identity this middleware supplies and never re-verify credentials.
func BasicAuth(userRepo *repository.UserRepository, valkeyClient *cache.ValkeyClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		username, password, ok := c.Request.BasicAuth()
		if !ok {
			c.Header("WWW-Authenticate", `Basic realm="Restricted"`)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		ctx := c.Request.Context()

		// Cache key uses a digest of the raw password so the cache never
		// stores the password itself.
		digest := sha256.Sum256([]byte(password))
		passwordDigest := fmt.Sprintf("%x", digest)

		if valkeyClient != nil {
			if userID, err := valkeyClient.GetUserIDByAuth(ctx, username, passwordDigest); err == nil {
				user, err := userRepo.GetByID(ctx, userID)
				if err == nil && user != nil {
					setIdentity(c, user.ID, user.IsAdmin)
					c.Next()
					return
				}
			}
		}

		user, err := userRepo.GetByUsername(ctx, username)
		if err != nil || user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}

		if !auth.VerifyPassword(user.PasswordHash, user.Salt, password) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}

		if valkeyClient != nil {
			if err := valkeyClient.SetUserIDByAuth(ctx, username, passwordDigest, user.ID); err != nil {
				slog.Debug("Failed to cache auth verification", "error", err)
			}
		}

		setIdentity(c, user.ID, user.IsAdmin)
		c.Next()
	}
}

func setIdentity(c *gin.Context, userID int64, isAdmin bool) {
	c.Set("user_id", userID)
	c.Set("is_admin", isAdmin)
	c.Request = c.Request.WithContext(
		ContextWithUser(c.Request.Context(), userID, isAdmin))
}

// AdminOnly rejects callers whose identity lacks the admin role. Must be
// applied after BasicAuth.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		isAdmin, exists := c.Get("is_admin")
		if !exists || isAdmin != true {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}
		c.Next()
	}
}
