package app

import (
	"gorm.io/gorm"

	"github.com/focusup-app/focusup-backend/internal/logger"
	"github.com/focusup-app/focusup-backend/internal/repos"
)

type Repos struct {
	User              repos.UserRepo
	UserToken         repos.UserTokenRepo
	VerificationToken repos.VerificationTokenRepo
	StudyMethod       repos.StudyMethodRepo
	ActiveMethod      repos.ActiveMethodRepo
	Event             repos.EventRepo
	Session           repos.SessionRepo
	Album             repos.AlbumRepo
	Notification      repos.NotificationRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:              repos.NewUserRepo(db, log),
		UserToken:         repos.NewUserTokenRepo(db, log),
		VerificationToken: repos.NewVerificationTokenRepo(db, log),
		StudyMethod:       repos.NewStudyMethodRepo(db, log),
		ActiveMethod:      repos.NewActiveMethodRepo(db, log),
		Event:             repos.NewEventRepo(db, log),
		Session:           repos.NewSessionRepo(db, log),
		Album:             repos.NewAlbumRepo(db, log),
		Notification:      repos.NewNotificationRepo(db, log),
	}
}
