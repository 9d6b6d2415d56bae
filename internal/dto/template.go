package dto

import (
	"time"

	"github.com/ratepulse/feedback-api/internal/models"
)

// TemplateDTO represents a template in API responses
type TemplateDTO struct {
	ID          string            `json:"id"`
	UserID      string            `json:"user_id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Categories  []models.Category `json:"categories"`
	IsDefault   int               `json:"is_default"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// ToTemplateDTO converts a Template model to TemplateDTO
func ToTemplateDTO(template models.Template) TemplateDTO {
	return TemplateDTO{
		ID:          template.ID,
		UserID:      template.UserID,
		Name:        template.Name,
		Description: template.Description,
		Categories:  template.Categories,
		IsDefault:   template.IsDefault,
		CreatedAt:   template.CreatedAt,
		UpdatedAt:   template.UpdatedAt,
	}
}

// ToTemplateDTOs converts a slice of templates
func ToTemplateDTOs(templates []models.Template) []TemplateDTO {
	dtos := make([]TemplateDTO, len(templates))
	for i, template := range templates {
		dtos[i] = ToTemplateDTO(template)
	}
	return dtos
}
