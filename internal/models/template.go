package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Template is a named, ordered set of rating categories a submission form
// presents. Owned exclusively by one user.
type Template struct {
	ID          string                        `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID      string                        `gorm:"type:varchar(64);not null;index" json:"user_id"`
	Name        string                        `gorm:"type:varchar(100);not null" json:"name"`
	Description string                        `gorm:"type:text" json:"description"`
	Categories  datatypes.JSONSlice[Category] `gorm:"not null" json:"categories"`
	IsDefault   int                           `gorm:"not null;default:0" json:"is_default"`
	CreatedAt   time.Time                     `json:"created_at"`
	UpdatedAt   time.Time                     `json:"updated_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"-"`
	// Deleting a template must never delete feedback; references are nulled.
	Feedback []Feedback `gorm:"foreignKey:TemplateID;constraint:OnDelete:SET NULL" json:"-"`
}

func (t *Template) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// HasCategory reports whether id is one of the template's category ids.
func (t *Template) HasCategory(id string) bool {
	for _, c := range t.Categories {
		if c.ID == id {
			return true
		}
	}
	return false
}
