package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID              string  `gorm:"type:varchar(64);primarykey" json:"id"`
	Email           *string `gorm:"type:varchar(255);uniqueIndex" json:"email"`
	FirstName       *string `gorm:"type:varchar(255)" json:"first_name"`
	LastName        *string `gorm:"type:varchar(255)" json:"last_name"`
	ProfileImageURL *string `gorm:"type:varchar(1024)" json:"profile_image_url"`

	// FeedbackLinkID is the opaque public token used to reach this user's
	// submission page. Assigned once at account creation, never regenerated.
	FeedbackLinkID string `gorm:"type:varchar(36);uniqueIndex;not null" json:"feedback_link_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Templates []Template `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Feedback  []Feedback `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.FeedbackLinkID == "" {
		u.FeedbackLinkID = uuid.NewString()
	}
	return nil
}
