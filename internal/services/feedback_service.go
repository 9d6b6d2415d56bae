package services

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ratepulse/feedback-api/internal/constants"
	"github.com/ratepulse/feedback-api/internal/form"
	"github.com/ratepulse/feedback-api/internal/models"
	"github.com/ratepulse/feedback-api/internal/repository"
	"github.com/ratepulse/feedback-api/internal/stats"
	"github.com/ratepulse/feedback-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrInvalidRating   = errors.New("rating must be between 1 and 5")
	ErrEmptyComment    = errors.New("comment must not be empty")
	ErrCommentTooLong  = errors.New("comment must be at most 500 characters")
	ErrUnknownCategory = errors.New("category is not valid for this recipient")
)

// FeedbackService handles public submission and owner-side reads.
type FeedbackService struct {
	feedbackRepo repository.FeedbackRepository
	templateRepo repository.TemplateRepository
	userRepo     repository.UserRepository
}

// NewFeedbackService creates a new FeedbackService.
func NewFeedbackService(feedbackRepo repository.FeedbackRepository, templateRepo repository.TemplateRepository, userRepo repository.UserRepository) *FeedbackService {
	return &FeedbackService{
		feedbackRepo: feedbackRepo,
		templateRepo: templateRepo,
		userRepo:     userRepo,
	}
}

// SubmitInput is one candidate feedback record from the public form.
type SubmitInput struct {
	Rating     int
	Category   string
	Comment    string
	TemplateID *string
}

// Submit resolves the public link, validates the candidate record against
// the recipient's active template, and stores it. The client's local
// validation is repeated here in full; nothing is trusted from the form.
func (s *FeedbackService) Submit(linkID string, input SubmitInput) (*models.Feedback, error) {
	user, err := s.userRepo.FindByFeedbackLinkID(linkID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidFeedbackLink
		}
		return nil, fmt.Errorf("failed to resolve feedback link: %w", err)
	}

	if input.Rating < constants.MinRating || input.Rating > constants.MaxRating {
		return nil, ErrInvalidRating
	}

	comment := strings.TrimSpace(input.Comment)
	if comment == "" {
		return nil, ErrEmptyComment
	}
	if utf8.RuneCountInString(comment) > constants.MaxCommentLength {
		return nil, ErrCommentTooLong
	}

	templateID, err := s.validateCategory(user.ID, input.Category, input.TemplateID)
	if err != nil {
		return nil, err
	}

	feedback := &models.Feedback{
		UserID:     user.ID,
		TemplateID: templateID,
		Rating:     input.Rating,
		Category:   input.Category,
		Comment:    comment,
	}

	if err := s.feedbackRepo.Create(feedback); err != nil {
		return nil, fmt.Errorf("failed to create feedback: %w", err)
	}
	return feedback, nil
}

// validateCategory checks the category against the template the submission
// targets: the referenced one when a template id is given, the recipient's
// pre-selected template otherwise, and the legacy fixed set for recipients
// without any templates.
func (s *FeedbackService) validateCategory(userID, category string, templateID *string) (*string, error) {
	if templateID != nil && *templateID != "" {
		template, err := s.templateRepo.FindByIDAndUser(*templateID, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrTemplateNotFound
			}
			return nil, fmt.Errorf("failed to load template: %w", err)
		}
		if !template.HasCategory(category) {
			return nil, ErrUnknownCategory
		}
		return templateID, nil
	}

	templates, err := s.templateRepo.ListByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}

	if active := form.DefaultTemplate(templates); active != nil {
		if !active.HasCategory(category) {
			return nil, ErrUnknownCategory
		}
		id := active.ID
		return &id, nil
	}

	if !models.IsLegacyCategory(category) {
		return nil, ErrUnknownCategory
	}
	return nil, nil
}

// ListFeedback lists a page of the acting user's feedback, newest first.
func (s *FeedbackService) ListFeedback(userID string, params utils.PaginationParams) ([]models.Feedback, int64, error) {
	items, total, err := s.feedbackRepo.ListByUserID(userID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list feedback: %w", err)
	}
	return items, total, nil
}

// GetStats aggregates all of the acting user's feedback into the dashboard
// metrics, labeling categories from the user's own templates first.
func (s *FeedbackService) GetStats(userID string) (stats.Summary, error) {
	items, err := s.feedbackRepo.ListAllByUserID(userID)
	if err != nil {
		return stats.Summary{}, fmt.Errorf("failed to load feedback: %w", err)
	}

	templates, err := s.templateRepo.ListByUserID(userID)
	if err != nil {
		return stats.Summary{}, fmt.Errorf("failed to list templates: %w", err)
	}

	labels := make(map[string]string)
	for _, template := range templates {
		for _, category := range template.Categories {
			if _, ok := labels[category.ID]; !ok {
				labels[category.ID] = category.Label
			}
		}
	}

	return stats.Summarize(items, labels), nil
}
