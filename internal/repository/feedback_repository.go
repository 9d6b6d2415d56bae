package repository

import (
	"github.com/ratepulse/feedback-api/internal/database"
	"github.com/ratepulse/feedback-api/internal/models"
	"github.com/ratepulse/feedback-api/internal/utils"
	"gorm.io/gorm"
)

// GormFeedbackRepository is a GORM implementation of FeedbackRepository
type GormFeedbackRepository struct {
	db *gorm.DB
}

// NewFeedbackRepository creates a new FeedbackRepository
func NewFeedbackRepository(db *gorm.DB) FeedbackRepository {
	return &GormFeedbackRepository{db: db}
}

// Create creates a new feedback record
func (r *GormFeedbackRepository) Create(feedback *models.Feedback) error {
	return r.db.Create(feedback).Error
}

// ListByUserID lists a page of a user's feedback, newest first
func (r *GormFeedbackRepository) ListByUserID(userID string, params utils.PaginationParams) ([]models.Feedback, int64, error) {
	var total int64
	err := r.db.Model(&models.Feedback{}).Where("user_id = ?", userID).Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	var items []models.Feedback
	err = r.db.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Scopes(database.Paginate(params)).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

// ListAllByUserID lists all of a user's feedback, newest first
func (r *GormFeedbackRepository) ListAllByUserID(userID string) ([]models.Feedback, error) {
	var items []models.Feedback
	err := r.db.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// CountByUserID counts a user's feedback records
func (r *GormFeedbackRepository) CountByUserID(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Feedback{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
