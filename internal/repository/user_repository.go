package repository

import (
	"time"

	"github.com/ratepulse/feedback-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Upsert inserts or updates the user by primary key. Only profile fields are
// written on conflict; created_at and feedback_link_id stay untouched.
func (r *GormUserRepository) Upsert(user *models.User) (*models.User, error) {
	user.UpdatedAt = time.Now()

	err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"email",
			"first_name",
			"last_name",
			"profile_image_url",
			"updated_at",
		}),
	}).Create(user).Error
	if err != nil {
		return nil, err
	}

	// Re-read so callers see the stored row, including the original
	// feedback link id when the insert hit the conflict path.
	var stored models.User
	if err := r.db.First(&stored, "id = ?", user.ID).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(id string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByFeedbackLinkID resolves a public feedback link token to its owner
func (r *GormUserRepository) FindByFeedbackLinkID(linkID string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("feedback_link_id = ?", linkID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
