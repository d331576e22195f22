package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"talent-nest/backend/internal/social"
	"talent-nest/backend/internal/store"
)

// Services bundles the core services the HTTP layer delegates to.
type Services struct {
	Users         store.UserDirectory
	Connections   *social.ConnectionService
	Matching      *social.MatchingService
	Feed          *social.FeedService
	Notifications *social.NotificationService
}

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) error

// Handler serves the social API.
type Handler struct {
	svc    Services
	logger *zap.Logger
}

// NewHandler creates a handler over svc.
func NewHandler(svc Services, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, logger: logger.Named("api")}
}

// NewRouter builds the gin engine with the access log, recovery, CORS and every route.
func NewRouter(h *Handler, checks map[string]HealthCheck) *gin.Engine {
	router := gin.New()
	router.Use(ginLogger(h.logger))
	router.Use(gin.Recovery())
	router.Use(cors())

	router.GET("/health", health(checks))

	api := router.Group("/api")
	api.Use(requireUser())
	{
		api.POST("/connections/:userId", h.sendRequest)
		api.PUT("/connections/requests/:requestId", h.respondRequest)
		api.GET("/connections/requests", h.receivedRequests)
		api.GET("/connections", h.acceptedConnections)
		api.GET("/connections/status/:userId", h.connectionStatus)

		api.GET("/matches", h.matchingPeers)

		api.GET("/feed", h.feed)
		api.GET("/users/:userId/posts", h.userPosts)
		api.POST("/posts", h.publishPost)
		api.DELETE("/posts/:postId", h.removePost)

		api.GET("/notifications", h.listNotifications)
		api.GET("/notifications/unread-count", h.unreadCount)
		api.PUT("/notifications/read-all", h.markAllRead)
		api.PUT("/notifications/:id/read", h.markRead)
		api.DELETE("/notifications/:id", h.deleteNotification)
	}

	return router
}

func health(checks map[string]HealthCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		code := http.StatusOK
		deps := make(gin.H, len(checks))
		for name, check := range checks {
			if err := check(ctx); err != nil {
				deps[name] = err.Error()
				code = http.StatusServiceUnavailable
				continue
			}
			deps[name] = "ok"
		}

		status := "ok"
		if code != http.StatusOK {
			status = "degraded"
		}
		c.JSON(code, gin.H{"status": status, "dependencies": deps})
	}
}
