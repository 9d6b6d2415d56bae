package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ratepulse/feedback-api/internal/constants"
	"github.com/ratepulse/feedback-api/internal/models"
	"github.com/ratepulse/feedback-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTemplateNotFound     = errors.New("template not found")
	ErrInvalidTemplateName  = errors.New("template name must be between 1 and 100 characters")
	ErrInvalidCategoryCount = errors.New("template must have between 1 and 10 categories")
	ErrDuplicateCategoryID  = errors.New("category ids must be unique within a template")
	ErrInvalidCategory      = errors.New("categories require a non-empty id and label")
	ErrInvalidFeedbackLink  = errors.New("invalid feedback link")
)

// TemplateService handles template business logic.
type TemplateService struct {
	templateRepo repository.TemplateRepository
	userRepo     repository.UserRepository
}

// NewTemplateService creates a new TemplateService.
func NewTemplateService(templateRepo repository.TemplateRepository, userRepo repository.UserRepository) *TemplateService {
	return &TemplateService{
		templateRepo: templateRepo,
		userRepo:     userRepo,
	}
}

// TemplateInput carries the full template content; updates replace the
// stored content wholesale with it.
type TemplateInput struct {
	Name        string
	Description string
	Categories  []models.Category
	IsDefault   int
}

// CreateTemplate creates a template for the acting user.
func (s *TemplateService) CreateTemplate(userID string, input TemplateInput) (*models.Template, error) {
	if err := validateTemplateInput(input); err != nil {
		return nil, err
	}

	template := &models.Template{
		UserID:      userID,
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Categories:  input.Categories,
		IsDefault:   input.IsDefault,
	}

	if err := s.templateRepo.Create(template); err != nil {
		return nil, fmt.Errorf("failed to create template: %w", err)
	}
	return template, nil
}

// UpdateTemplate replaces the template's content, scoped to the acting
// user. A template owned by someone else reports not-found.
func (s *TemplateService) UpdateTemplate(id, userID string, input TemplateInput) (*models.Template, error) {
	if err := validateTemplateInput(input); err != nil {
		return nil, err
	}

	template := &models.Template{
		ID:          id,
		UserID:      userID,
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Categories:  input.Categories,
		IsDefault:   input.IsDefault,
	}

	if err := s.templateRepo.Update(template); err != nil {
		if errors.Is(err, repository.ErrTemplateNotOwned) {
			return nil, ErrTemplateNotFound
		}
		return nil, fmt.Errorf("failed to update template: %w", err)
	}

	stored, err := s.templateRepo.FindByIDAndUser(id, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload template: %w", err)
	}
	return stored, nil
}

// DeleteTemplate removes the template, scoped to the acting user. Feedback
// referencing the template survives with its reference nulled.
func (s *TemplateService) DeleteTemplate(id, userID string) error {
	if err := s.templateRepo.Delete(id, userID); err != nil {
		if errors.Is(err, repository.ErrTemplateNotOwned) {
			return ErrTemplateNotFound
		}
		return fmt.Errorf("failed to delete template: %w", err)
	}
	return nil
}

// ListTemplates lists the acting user's templates.
func (s *TemplateService) ListTemplates(userID string) ([]models.Template, error) {
	templates, err := s.templateRepo.ListByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	return templates, nil
}

// ListPublicTemplates resolves a feedback link and returns the recipient's
// templates, possibly empty.
func (s *TemplateService) ListPublicTemplates(linkID string) ([]models.Template, error) {
	user, err := s.userRepo.FindByFeedbackLinkID(linkID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidFeedbackLink
		}
		return nil, fmt.Errorf("failed to resolve feedback link: %w", err)
	}
	return s.ListTemplates(user.ID)
}

func validateTemplateInput(input TemplateInput) error {
	name := strings.TrimSpace(input.Name)
	if name == "" || len(name) > constants.MaxTemplateNameLength {
		return ErrInvalidTemplateName
	}

	if len(input.Categories) < constants.MinTemplateCategories ||
		len(input.Categories) > constants.MaxTemplateCategories {
		return ErrInvalidCategoryCount
	}

	seen := make(map[string]struct{}, len(input.Categories))
	for _, category := range input.Categories {
		if category.ID == "" || category.Label == "" {
			return ErrInvalidCategory
		}
		if _, ok := seen[category.ID]; ok {
			return ErrDuplicateCategoryID
		}
		seen[category.ID] = struct{}{}
	}

	return nil
}
