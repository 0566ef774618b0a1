package routes

import (
	"net/http"
	"time"

	"campusjobs_backend/internal/handlers"
	"campusjobs_backend/internal/logger"
	"campusjobs_backend/internal/middleware"
	"campusjobs_backend/ws"

	"github.com/gin-gonic/gin"
)

// AuthRateLimit - лимит на /auth/* по IP
type AuthRateLimit struct {
	Limiter  middleware.Limiter
	Requests int
	Window   time.Duration
}

// RegisterRoutes регистрирует все HTTP и WebSocket маршруты.
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers,
	wsHandler *ws.WebSocketHandler,
	wsAuth gin.HandlerFunc,
	rateLimit AuthRateLimit,
) {
	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":     "ok",
			"ws_clients": wsHandler.Manager.GetClientCount(),
		})
	})

	// Регистрация HTTP API v1
	api := ginRouter.Group("/api/v1")
	{
		limited := api.Group("")
		if rateLimit.Limiter != nil {
			limited.Use(middleware.RateLimitMiddleware(rateLimit.Limiter, "auth", rateLimit.Requests, rateLimit.Window))
		}
		appHandlers.AuthHandler.RegisterRoutes(limited)

		appHandlers.FileHandler.RegisterRoutes(api)
		appHandlers.UserHandler.RegisterRoutes(api)
		appHandlers.ProfileHandler.RegisterRoutes(api)
		appHandlers.JobHandler.RegisterRoutes(api)
		appHandlers.ApplicationHandler.RegisterRoutes(api)
		appHandlers.PostHandler.RegisterRoutes(api)
		appHandlers.NotificationHandler.RegisterRoutes(api)
	}

	// Регистрация WebSocket, токен передается в ?token=
	wsGroup := ginRouter.Group("/ws")
	wsGroup.Use(wsAuth)
	{
		wsGroup.GET("/feed", wsHandler.ServeWS)
	}
	logger.Info("WebSocket route /ws/feed registered")
}
