package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/focusup-app/focusup-backend/internal/handlers"
	"github.com/focusup-app/focusup-backend/internal/middleware"
)

type RouterConfig struct {
	AllowedOrigins      []string
	AuthHandler         *handlers.AuthHandler
	AuthMiddleware      *middleware.AuthMiddleware
	UserHandler         *handlers.UserHandler
	MethodHandler       *handlers.MethodHandler
	ActiveMethodHandler *handlers.ActiveMethodHandler
	EventHandler        *handlers.EventHandler
	SessionHandler      *handlers.SessionHandler
	AlbumHandler        *handlers.AlbumHandler
	NotificationHandler *handlers.NotificationHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)
	if cfg.AuthHandler != nil {
		router.POST("/register", cfg.AuthHandler.Register)
		router.POST("/login", cfg.AuthHandler.Login)
		router.GET("/verify-email", cfg.AuthHandler.VerifyEmail)
		router.POST("/verify-email", cfg.AuthHandler.VerifyEmail)
		router.POST("/password-reset/request", cfg.AuthHandler.RequestPasswordReset)
		router.POST("/password-reset/confirm", cfg.AuthHandler.ResetPassword)
	}

	// ===============
	// || Protected ||
	// ===============
	if cfg.AuthMiddleware == nil {
		return router
	}
	protected := router.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())

	if cfg.AuthHandler != nil {
		protected.POST("/refresh", cfg.AuthHandler.Refresh)
		protected.POST("/logout", cfg.AuthHandler.Logout)
	}
	if cfg.UserHandler != nil {
		protected.GET("/user", cfg.UserHandler.GetMe)
		protected.PATCH("/user/name", cfg.UserHandler.UpdateName)
		protected.PATCH("/user/motivation", cfg.UserHandler.SetMotivationOptIn)
	}
	if cfg.MethodHandler != nil {
		protected.GET("/methods", cfg.MethodHandler.List)
		protected.GET("/methods/:id", cfg.MethodHandler.Get)
		protected.POST("/methods", cfg.MethodHandler.Create)
	}
	if cfg.ActiveMethodHandler != nil {
		protected.POST("/methods/active", cfg.ActiveMethodHandler.Start)
		protected.GET("/methods/active", cfg.ActiveMethodHandler.List)
		protected.PATCH("/methods/active/by-method/:methodId", cfg.ActiveMethodHandler.UpdateProgress)
		protected.GET("/methods/active/by-method/:methodId/resume", cfg.ActiveMethodHandler.Resume)
		protected.DELETE("/methods/active/:id", cfg.ActiveMethodHandler.Delete)
	}
	if cfg.EventHandler != nil {
		protected.POST("/events", cfg.EventHandler.Create)
		protected.GET("/events", cfg.EventHandler.List)
		protected.GET("/events/:id", cfg.EventHandler.Get)
		protected.PATCH("/events/:id", cfg.EventHandler.Update)
		protected.POST("/events/:id/complete", cfg.EventHandler.Complete)
		protected.DELETE("/events/:id", cfg.EventHandler.Delete)
	}
	if cfg.SessionHandler != nil {
		protected.POST("/sessions", cfg.SessionHandler.Create)
		protected.POST("/sessions/from-event/:eventId", cfg.SessionHandler.CreateFromEvent)
		protected.GET("/sessions", cfg.SessionHandler.List)
		protected.GET("/sessions/:id", cfg.SessionHandler.Get)
		protected.PATCH("/sessions/:id", cfg.SessionHandler.Update)
		protected.DELETE("/sessions/:id", cfg.SessionHandler.Delete)
	}
	if cfg.AlbumHandler != nil {
		protected.POST("/albums", cfg.AlbumHandler.Create)
		protected.GET("/albums", cfg.AlbumHandler.List)
		protected.GET("/albums/:id", cfg.AlbumHandler.Get)
		protected.PATCH("/albums/:id", cfg.AlbumHandler.Update)
		protected.DELETE("/albums/:id", cfg.AlbumHandler.Delete)
		protected.POST("/albums/:id/tracks", cfg.AlbumHandler.AddTracks)
		protected.DELETE("/albums/:id/tracks/:trackId", cfg.AlbumHandler.RemoveTrack)
	}
	if cfg.NotificationHandler != nil {
		protected.GET("/notifications/upcoming", cfg.NotificationHandler.Upcoming)
		protected.POST("/notifications", cfg.NotificationHandler.Create)
	}

	return router
}
