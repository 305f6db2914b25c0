package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/krishisahayak/internal/common"
	"github.com/dmitrijs2005/krishisahayak/internal/server/auth"
	"github.com/dmitrijs2005/krishisahayak/internal/server/models"
	"github.com/gin-gonic/gin"
)

// cors allows every origin. Preflight requests are answered directly with
// 200 and an empty JSON object.
func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Headers", "Origin, X-Requested-With, Content-Type, Accept, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.Header("Access-Control-Allow-Methods", "PUT, POST, PATCH, DELETE, GET")
			c.AbortWithStatusJSON(http.StatusOK, gin.H{})
			return
		}
		c.Next()
	}
}

// requestLogger logs each request once, at a level derived from its status.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		args := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"duration", time.Since(start),
			"remote", c.ClientIP(),
		}

		ctx := c.Request.Context()
		switch {
		case status >= 500:
			s.log.Error(ctx, "request", args...)
		case status >= 400:
			s.log.Warn(ctx, "request", args...)
		default:
			s.log.Info(ctx, "request", args...)
		}
	}
}

func (s *Server) recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, err any) {
		s.log.Error(c.Request.Context(), "panic in handler", "error", err, "path", c.Request.URL.Path)
		c.AbortWithStatusJSON(http.StatusInternalServerError, errorBody{Message: "Server error."})
	})
}

// sessionGuard resolves the bearer token into an identity and stores it in
// the request context. Requests without a usable token stop here with 401.
func (s *Server) sessionGuard() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(common.AuthorizationHeader)
		if !strings.HasPrefix(header, common.BearerScheme) {
			abortUnauthorized(c, "No token provided.")
			return
		}

		var token string
		if parts := strings.Fields(header); len(parts) > 1 {
			token = parts[1]
		}

		id, err := auth.ParseToken(token, s.opts.JWTSecret)
		if err != nil {
			if errors.Is(err, common.ErrNoUserID) {
				abortUnauthorized(c, "Token missing user identification.")
				return
			}
			abortUnauthorized(c, "Invalid or expired token.")
			return
		}

		c.Request = c.Request.WithContext(auth.WithIdentity(c.Request.Context(), id))
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody{Message: msg})
}

// identity returns the caller resolved by sessionGuard. Handlers behind the
// guard always have one; the zero Identity fails the services' id check.
func identity(c *gin.Context) models.Identity {
	id, _ := auth.IdentityFromContext(c.Request.Context())
	return id
}
