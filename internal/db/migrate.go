package db

import (
	"github.com/focusup-app/focusup-backend/internal/types"
)

func (s *PostgresService) AutoMigrateAll() error {
	return s.db.AutoMigrate(

		// =========================
		// Identity + auth
		// =========================
		&types.User{},
		&types.UserToken{},
		&types.VerificationToken{},

		// =========================
		// Study methods
		// =========================
		&types.StudyMethod{},
		&types.ActiveMethod{},

		// =========================
		// Calendar + focus sessions
		// =========================
		&types.Event{},
		&types.Session{},

		// =========================
		// Music
		// =========================
		&types.Album{},
		&types.Track{},

		// =========================
		// Notifications
		// =========================
		&types.ScheduledNotification{},
	)
}
