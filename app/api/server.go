package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// NewServer creates the HTTP server with all routes configured
func NewServer(handler *Handler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: func(param gin.LogFormatterParams) string {
			return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
				param.ClientIP,
				param.TimeStamp.Format(time.RFC3339),
				param.Method,
				param.Path,
				param.Request.Proto,
				param.StatusCode,
				param.Latency,
				param.Request.UserAgent(),
				param.ErrorMessage,
			)
		},
	}))

	r.Use(gin.Recovery())

	setupRoutes(r, handler)

	return r
}

func setupRoutes(r *gin.Engine, handler *Handler) {
	// OAuth flow, open to unregistered users
	r.GET("/auth/url", handler.GetAuthURL)
	r.GET("/auth/callback", handler.AuthCallback)

	// Manual shredder: registered users select an account, unregistered
	// users rely on a transient session credential set by the callback.
	r.POST("/shred", handler.RunShredder)

	// Everything below requires the fronting proxy's authenticated user id.
	authed := r.Group("/", userMiddleware())
	{
		authed.GET("/items", handler.ListItems)

		authed.GET("/accounts", handler.ListAccounts)
		authed.PUT("/accounts/:id/schedule", handler.ChangeSchedule)
		authed.DELETE("/accounts/:id", handler.DeleteAccount)

		authed.POST("/exclusions", handler.AddExclusion)
		authed.DELETE("/exclusions/:itemID", handler.RemoveExclusion)

		authed.GET("/records", handler.ListRecords)

		authed.GET("/profile", handler.GetProfile)
		authed.PUT("/profile", handler.UpdateProfile)
	}

	r.GET("/health", handler.GetHealth)

	r.GET("/favicon.ico", func(c *gin.Context) {
		c.Status(204)
	})
}

const userIDKey = "userID"

// userMiddleware extracts the authenticated user id injected by the
// fronting proxy. Session handling itself is an external collaborator.
func userMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			c.Abort()
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

// currentUser reads the X-User-ID header. Returns false for unregistered
// visitors.
func currentUser(c *gin.Context) (int, bool) {
	raw := c.GetHeader("X-User-ID")
	if raw == "" {
		return 0, false
	}

	userID, err := strconv.Atoi(raw)
	if err != nil || userID <= 0 {
		return 0, false
	}

	return userID, true
}
