package api

import (
	"alcyxob/trainer-planner/internal/domain"
	"alcyxob/trainer-planner/internal/logger"
	"alcyxob/trainer-planner/internal/service"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Constants for context keys
const (
	ContextTrainerKey = "trainer"
)

// AuthMiddleware resolves the bearer token into a trainer and stores it on the context.
// Handlers only ever read the owner from here, never from the request.
func AuthMiddleware(auth service.AuthService, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithError(c, http.StatusUnauthorized, "Authorization header is missing")
			return
		}

		// Expecting "Bearer <token>"
		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			abortWithError(c, http.StatusUnauthorized, "Authorization header format must be Bearer {token}")
			return
		}

		trainer, err := auth.Authenticate(c.Request.Context(), parts[1])
		if err != nil {
			if errors.Is(err, service.ErrUnauthenticated) {
				log.Debug("Rejected token", "path", c.FullPath(), "error", err)
				abortWithError(c, http.StatusUnauthorized, "Invalid or expired token")
				return
			}
			log.Error("Failed to authenticate request", "error", err)
			abortWithError(c, http.StatusInternalServerError, "Failed to authenticate request")
			return
		}

		c.Set(ContextTrainerKey, trainer)
		c.Next()
	}
}

// RequestLogger logs one line per request, at a level picked by status class.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		kv := []interface{}{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"duration", time.Since(start),
			"clientIP", c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			kv = append(kv, "errors", c.Errors.String())
		}
		switch {
		case status >= http.StatusInternalServerError:
			log.Error("HTTP request", kv...)
		case status >= http.StatusBadRequest:
			log.Warn("HTTP request", kv...)
		default:
			log.Info("HTTP request", kv...)
		}
	}
}

// CORS allows the configured browser origins to call the API with a bearer token.
func CORS(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}

// Helper to return JSON error response and abort request
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}

// Helper function to get the authenticated trainer from context (used by handlers)
func getTrainerFromContext(c *gin.Context) (*domain.Trainer, error) {
	raw, exists := c.Get(ContextTrainerKey)
	if !exists {
		return nil, errors.New("trainer not found in context")
	}
	trainer, ok := raw.(*domain.Trainer)
	if !ok || trainer == nil {
		return nil, errors.New("invalid trainer type in context")
	}
	return trainer, nil
}

// requireTrainerID returns the caller's id, aborting with 401 when the context has none.
func requireTrainerID(c *gin.Context) (uuid.UUID, bool) {
	trainer, err := getTrainerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify trainer from token.")
		return uuid.Nil, false
	}
	return trainer.ID, true
}

// pathID parses the named uuid path parameter. A malformed id is reported
// as 404 so it reads the same as an unknown one.
func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		abortWithError(c, http.StatusNotFound, "Resource not found")
		return uuid.Nil, false
	}
	return id, true
}
