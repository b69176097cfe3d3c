package app

import (
	"github.com/gin-gonic/gin"

	"github.com/focusup-app/focusup-backend/internal/server"
)

func wireRouter(cfg Config, handlers Handlers, middleware Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		AllowedOrigins:      cfg.AllowedOrigins,
		AuthHandler:         handlers.Auth,
		AuthMiddleware:      middleware.Auth,
		UserHandler:         handlers.User,
		MethodHandler:       handlers.Method,
		ActiveMethodHandler: handlers.ActiveMethod,
		EventHandler:        handlers.Event,
		SessionHandler:      handlers.Session,
		AlbumHandler:        handlers.Album,
		NotificationHandler: handlers.Notification,
	})
}
