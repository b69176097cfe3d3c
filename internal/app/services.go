package app

import (
	"gorm.io/gorm"

	"github.com/focusup-app/focusup-backend/internal/logger"
	"github.com/focusup-app/focusup-backend/internal/services"
)

type Services struct {
	Mail         services.MailService
	Auth         services.AuthService
	User         services.UserService
	StudyMethod  services.StudyMethodService
	ActiveMethod services.ActiveMethodService
	Event        services.EventService
	Session      services.SessionService
	Album        services.AlbumService
	Notification services.NotificationService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos) Services {
	log.Info("Wiring services...")

	var mail services.MailService
	if cfg.SendgridAPIKey != "" {
		sg, err := services.NewSendgridMailService(log, cfg.SendgridAPIKey, cfg.AppName, cfg.MailFromAddress)
		if err != nil {
			log.Warn("Sendgrid init failed, falling back to console mail", "error", err)
			mail = services.NewConsoleMailService(log)
		} else {
			mail = sg
		}
	} else {
		log.Info("No SENDGRID_API_KEY set, using console mail transport")
		mail = services.NewConsoleMailService(log)
	}

	notification := services.NewNotificationService(db, log, r.User, r.Event, r.Session, r.ActiveMethod, r.Notification)

	return Services{
		Mail: mail,
		Auth: services.NewAuthService(db, log, r.User, r.UserToken, r.VerificationToken, mail,
			cfg.FrontendBaseURL, cfg.JWTSecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL),
		User:         services.NewUserService(db, log, r.User),
		StudyMethod:  services.NewStudyMethodService(db, log, r.StudyMethod),
		ActiveMethod: services.NewActiveMethodService(db, log, r.User, r.StudyMethod, r.ActiveMethod, notification),
		Event:        services.NewEventService(db, log, r.Event, r.StudyMethod, r.Album, notification),
		Session:      services.NewSessionService(db, log, r.Session, r.Event, r.StudyMethod, r.Album, r.User),
		Album:        services.NewAlbumService(db, log, r.Album),
		Notification: notification,
	}
}
