package app

import (
	"github.com/focusup-app/focusup-backend/internal/handlers"
	"github.com/focusup-app/focusup-backend/internal/logger"
)

type Handlers struct {
	Auth         *handlers.AuthHandler
	User         *handlers.UserHandler
	Method       *handlers.MethodHandler
	ActiveMethod *handlers.ActiveMethodHandler
	Event        *handlers.EventHandler
	Session      *handlers.SessionHandler
	Album        *handlers.AlbumHandler
	Notification *handlers.NotificationHandler
}

func wireHandlers(log *logger.Logger, s Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Auth:         handlers.NewAuthHandler(s.Auth),
		User:         handlers.NewUserHandler(s.User),
		Method:       handlers.NewMethodHandler(s.StudyMethod),
		ActiveMethod: handlers.NewActiveMethodHandler(s.ActiveMethod),
		Event:        handlers.NewEventHandler(s.Event),
		Session:      handlers.NewSessionHandler(s.Session),
		Album:        handlers.NewAlbumHandler(s.Album),
		Notification: handlers.NewNotificationHandler(s.Notification),
	}
}
