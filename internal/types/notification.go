package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	NotificationTypeEvent          = "event"
	NotificationTypePendingMethod  = "pending_method"
	NotificationTypePendingSession = "pending_session"
	NotificationTypeMotivation     = "motivation"
)

// ScheduledNotification is a persisted future send. The dispatcher polls for
// due rows with sent=false and flips them on success; rows are otherwise
// immutable after creation.
type ScheduledNotification struct {
	gorm.Model
	ID          uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID      uuid.UUID      `gorm:"index;not null"`
	User        *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID"`
	Type        string         `gorm:"not null;index;column:type" json:"type"`
	Title       string         `gorm:"column:title" json:"title"`
	Message     datatypes.JSON `gorm:"column:message" json:"message,omitempty"`
	ScheduledAt time.Time      `gorm:"not null;index;column:scheduled_at" json:"scheduled_at"`
	Sent        bool           `gorm:"not null;default:false;index;column:sent" json:"sent"`
	SentAt      *time.Time     `gorm:"column:sent_at" json:"sent_at,omitempty"`
	CreatedAt   time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (ScheduledNotification) TableName() string {
	return "scheduled_notification"
}
