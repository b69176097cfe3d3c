package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	EventTypeConcentration = "concentracion"
	EventTypeStudy         = "estudio"
	EventTypeOther         = "otro"

	EventStatusPending   = "pendiente"
	EventStatusCompleted = "completada"
)

type Event struct {
	gorm.Model
	ID          uuid.UUID    `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID      uuid.UUID    `gorm:"index;not null"`
	User        *User        `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID"`
	Title       string       `gorm:"not null;column:title" json:"title"`
	Description string       `gorm:"column:description" json:"description"`
	Type        string       `gorm:"not null;column:type" json:"type"`
	Status      string       `gorm:"not null;default:pendiente;column:status" json:"status"`
	StartsAt    time.Time    `gorm:"not null;column:starts_at" json:"starts_at"`
	MethodID    *uuid.UUID   `gorm:"column:method_id" json:"method_id,omitempty"`
	Method      *StudyMethod `gorm:"foreignKey:MethodID;references:ID"`
	AlbumID     *uuid.UUID   `gorm:"column:album_id" json:"album_id,omitempty"`
	Album       *Album       `gorm:"foreignKey:AlbumID;references:ID"`
	CreatedAt   time.Time    `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"not null;default:now()" json:"updated_at"`
}

func (Event) TableName() string {
	return "event"
}
