package dto

import (
	"time"

	"github.com/ratepulse/feedback-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID              string    `json:"id"`
	Email           *string   `json:"email"`
	FirstName       *string   `json:"first_name"`
	LastName        *string   `json:"last_name"`
	ProfileImageURL *string   `json:"profile_image_url"`
	FeedbackLinkID  string    `json:"feedback_link_id"`
	CreatedAt       time.Time `json:"created_at"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:              user.ID,
		Email:           user.Email,
		FirstName:       user.FirstName,
		LastName:        user.LastName,
		ProfileImageURL: user.ProfileImageURL,
		FeedbackLinkID:  user.FeedbackLinkID,
		CreatedAt:       user.CreatedAt,
	}
}
