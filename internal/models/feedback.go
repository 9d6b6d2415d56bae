package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Feedback is one submitted rating. Immutable once created; no update or
// delete operation exists anywhere in the API.
type Feedback struct {
	ID         string    `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID     string    `gorm:"type:varchar(64);not null;index" json:"user_id"`
	TemplateID *string   `gorm:"type:varchar(36);index" json:"template_id"`
	Rating     int       `gorm:"not null" json:"rating"`
	Category   string    `gorm:"type:varchar(100);not null" json:"category"`
	Comment    string    `gorm:"type:varchar(500);not null" json:"comment"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`

	// Relations
	User     User      `gorm:"foreignKey:UserID" json:"-"`
	Template *Template `gorm:"foreignKey:TemplateID" json:"-"`
}

func (f *Feedback) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}
