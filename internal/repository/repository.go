package repository

import (
	"github.com/ratepulse/feedback-api/internal/models"
	"github.com/ratepulse/feedback-api/internal/utils"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Upsert inserts the user or, when the id already exists, updates the
	// profile fields. The feedback link id is preserved across updates.
	Upsert(user *models.User) (*models.User, error)

	// FindByID finds a user by ID
	FindByID(id string) (*models.User, error)

	// FindByFeedbackLinkID resolves a public feedback link token to its owner
	FindByFeedbackLinkID(linkID string) (*models.User, error)
}

// TemplateRepository defines the interface for template data access
type TemplateRepository interface {
	// Create creates a new template. When the template is flagged as the
	// default, the owner's previous default is cleared in the same transaction.
	Create(template *models.Template) error

	// FindByIDAndUser finds a template matching both id and owner.
	// A foreign owner's template behaves exactly like a missing one.
	FindByIDAndUser(id, userID string) (*models.Template, error)

	// ListByUserID lists a user's templates in creation order
	ListByUserID(userID string) ([]models.Template, error)

	// CountByUserID counts a user's templates
	CountByUserID(userID string) (int64, error)

	// Update replaces the template's content wholesale, scoped to the owner.
	// Returns ErrTemplateNotOwned when no (id, owner) row matched.
	Update(template *models.Template) error

	// Delete removes the template scoped to the owner, nulling any feedback
	// references first. Returns ErrTemplateNotOwned when no row matched.
	Delete(id, userID string) error
}

// FeedbackRepository defines the interface for feedback data access
type FeedbackRepository interface {
	// Create creates a new feedback record
	Create(feedback *models.Feedback) error

	// ListByUserID lists a page of a user's feedback, newest first,
	// together with the total count.
	ListByUserID(userID string, params utils.PaginationParams) ([]models.Feedback, int64, error)

	// ListAllByUserID lists all of a user's feedback, newest first
	ListAllByUserID(userID string) ([]models.Feedback, error)

	// CountByUserID counts a user's feedback records
	CountByUserID(userID string) (int64, error)
}
