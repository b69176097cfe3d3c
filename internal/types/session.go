package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	SessionStatusPending   = "pendiente"
	SessionStatusCompleted = "completada"

	SessionTypeRapid     = "rapida"
	SessionTypeScheduled = "programada"
)

// Session is a tracked focus block. Elapsed is stored as "HH:MM:SS"; the
// service layer converts to and from milliseconds at the API boundary.
type Session struct {
	gorm.Model
	ID                uuid.UUID    `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID            uuid.UUID    `gorm:"index;not null"`
	User              *User        `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID"`
	Title             string       `gorm:"column:title" json:"title"`
	Description       string       `gorm:"column:description" json:"description"`
	Status            string       `gorm:"not null;default:pendiente;column:status" json:"status"`
	Type              string       `gorm:"not null;default:rapida;column:type" json:"type"`
	EventID           *uuid.UUID   `gorm:"column:event_id" json:"event_id,omitempty"`
	Event             *Event       `gorm:"foreignKey:EventID;references:ID"`
	MethodID          *uuid.UUID   `gorm:"column:method_id" json:"method_id,omitempty"`
	Method            *StudyMethod `gorm:"foreignKey:MethodID;references:ID"`
	AlbumID           *uuid.UUID   `gorm:"column:album_id" json:"album_id,omitempty"`
	Album             *Album       `gorm:"foreignKey:AlbumID;references:ID"`
	Elapsed           string       `gorm:"not null;default:00:00:00;column:elapsed" json:"elapsed"`
	Notes             string       `gorm:"column:notes" json:"notes"`
	LastInteractionAt *time.Time   `gorm:"column:last_interaction_at" json:"last_interaction_at,omitempty"`
	CreatedAt         time.Time    `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt         time.Time    `gorm:"not null;default:now()" json:"updated_at"`
}

func (Session) TableName() string {
	return "session"
}
