package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StudyMethod struct {
	gorm.Model
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;not null;column:name" json:"name"`
	Description string    `gorm:"column:description" json:"description"`
	TotalSteps  int       `gorm:"column:total_steps" json:"total_steps"`
	CreatedAt   time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (StudyMethod) TableName() string {
	return "study_method"
}
