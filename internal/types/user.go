package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	ID               uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Email            string    `gorm:"uniqueIndex;not null;column:email" json:"email"`
	Password         string    `gorm:"not null;column:password" json:"-"`
	FirstName        string    `gorm:"not null;column:first_name" json:"first_name"`
	LastName         string    `gorm:"not null;column:last_name" json:"last_name"`
	EmailVerified    bool      `gorm:"not null;default:false;column:email_verified" json:"email_verified"`
	MotivationOptIn  bool      `gorm:"not null;default:false;column:motivation_opt_in" json:"motivation_opt_in"`
	CreatedAt        time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt        time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (User) TableName() string {
	return "user"
}
