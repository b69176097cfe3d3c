package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Album struct {
	gorm.Model
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"index;not null"`
	User      *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID"`
	Name      string    `gorm:"not null;column:name" json:"name"`
	CoverURL  string    `gorm:"column:cover_url" json:"cover_url"`
	Tracks    []*Track  `gorm:"foreignKey:AlbumID;references:ID" json:"tracks,omitempty"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Album) TableName() string {
	return "album"
}

type Track struct {
	gorm.Model
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	AlbumID   uuid.UUID `gorm:"index;not null;column:album_id"`
	Title     string    `gorm:"not null;column:title" json:"title"`
	Artist    string    `gorm:"column:artist" json:"artist"`
	URL       string    `gorm:"column:url" json:"url"`
	Position  int       `gorm:"not null;default:0;column:position" json:"position"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Track) TableName() string {
	return "track"
}
