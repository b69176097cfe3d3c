package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ActiveMethod is a user's in-progress (or completed) run of a study method.
// Progress moves through the per-method transition table; progress=100 forces
// the method's completed status and stamps FinishedAt.
type ActiveMethod struct {
	gorm.Model
	ID         uuid.UUID    `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID     uuid.UUID    `gorm:"index;not null"`
	User       *User        `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID"`
	MethodID   uuid.UUID    `gorm:"index;not null;column:method_id"`
	Method     *StudyMethod `gorm:"foreignKey:MethodID;references:ID"`
	Progress   int          `gorm:"not null;default:0;column:progress" json:"progress"`
	Status     string       `gorm:"not null;default:en_progreso;column:status" json:"status"`
	StartedAt  time.Time    `gorm:"column:started_at" json:"started_at"`
	FinishedAt *time.Time   `gorm:"column:finished_at" json:"finished_at,omitempty"`
	CreatedAt  time.Time    `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt  time.Time    `gorm:"not null;default:now()" json:"updated_at"`
}

func (ActiveMethod) TableName() string {
	return "active_method"
}
