package dto

import (
	"time"

	"github.com/ratepulse/feedback-api/internal/models"
	"github.com/ratepulse/feedback-api/internal/utils"
)

// FeedbackDTO represents a feedback record in API responses
type FeedbackDTO struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	TemplateID *string   `json:"template_id"`
	Rating     int       `json:"rating"`
	Category   string    `json:"category"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
}

// FeedbackListResponse represents a paginated list of feedback
type FeedbackListResponse struct {
	Feedback   []FeedbackDTO            `json:"feedback"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// ToFeedbackDTO converts a Feedback model to FeedbackDTO
func ToFeedbackDTO(feedback models.Feedback) FeedbackDTO {
	return FeedbackDTO{
		ID:         feedback.ID,
		UserID:     feedback.UserID,
		TemplateID: feedback.TemplateID,
		Rating:     feedback.Rating,
		Category:   feedback.Category,
		Comment:    feedback.Comment,
		CreatedAt:  feedback.CreatedAt,
	}
}

// ToFeedbackListResponse converts a page of feedback to the list response
func ToFeedbackListResponse(items []models.Feedback, params utils.PaginationParams, total int64) FeedbackListResponse {
	dtos := make([]FeedbackDTO, len(items))
	for i, item := range items {
		dtos[i] = ToFeedbackDTO(item)
	}
	return FeedbackListResponse{
		Feedback: dtos,
		Pagination: utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	}
}
