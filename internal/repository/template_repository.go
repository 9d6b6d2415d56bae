package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/ratepulse/feedback-api/internal/models"
	"gorm.io/gorm"
)

// ErrTemplateNotOwned is returned when an update or delete matched no row
// for the (id, owner) pair. A template owned by someone else is
// indistinguishable from a missing one.
var ErrTemplateNotOwned = errors.New("template repository: no template for id and owner")

// GormTemplateRepository is a GORM implementation of TemplateRepository
type GormTemplateRepository struct {
	db *gorm.DB
}

// NewTemplateRepository creates a new TemplateRepository
func NewTemplateRepository(db *gorm.DB) TemplateRepository {
	return &GormTemplateRepository{db: db}
}

// Create creates a template, clearing the owner's previous default first
// when the new one claims the flag.
func (r *GormTemplateRepository) Create(template *models.Template) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if template.IsDefault == 1 {
			if err := clearDefault(tx, template.UserID, ""); err != nil {
				return err
			}
		}
		return tx.Create(template).Error
	})
}

// FindByIDAndUser finds a template matching both id and owner
func (r *GormTemplateRepository) FindByIDAndUser(id, userID string) (*models.Template, error) {
	var template models.Template
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&template).Error
	if err != nil {
		return nil, err
	}
	return &template, nil
}

// ListByUserID lists a user's templates in creation order
func (r *GormTemplateRepository) ListByUserID(userID string) ([]models.Template, error) {
	var templates []models.Template
	err := r.db.Where("user_id = ?", userID).Order("created_at").Find(&templates).Error
	if err != nil {
		return nil, err
	}
	return templates, nil
}

// CountByUserID counts a user's templates
func (r *GormTemplateRepository) CountByUserID(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Template{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// Update replaces name/description/categories/default-flag wholesale,
// scoped to (id, owner) in a single statement.
func (r *GormTemplateRepository) Update(template *models.Template) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if template.IsDefault == 1 {
			if err := clearDefault(tx, template.UserID, template.ID); err != nil {
				return err
			}
		}

		result := tx.Model(&models.Template{}).
			Where("id = ? AND user_id = ?", template.ID, template.UserID).
			Updates(map[string]interface{}{
				"name":        template.Name,
				"description": template.Description,
				"categories":  template.Categories,
				"is_default":  template.IsDefault,
				"updated_at":  time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrTemplateNotOwned
		}
		return nil
	})
}

// Delete removes the template scoped to (id, owner). Feedback referencing it
// keeps its rows; the reference column is nulled inside the same transaction
// so the database-level SET NULL is not relied upon.
func (r *GormTemplateRepository) Delete(id, userID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.Feedback{}).
			Where("template_id = ?", id).
			Update("template_id", nil).Error
		if err != nil {
			return fmt.Errorf("failed to detach feedback: %w", err)
		}

		result := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Template{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrTemplateNotOwned
		}
		return nil
	})
}

func clearDefault(tx *gorm.DB, userID, exceptID string) error {
	query := tx.Model(&models.Template{}).Where("user_id = ? AND is_default = 1", userID)
	if exceptID != "" {
		query = query.Where("id <> ?", exceptID)
	}
	return query.Update("is_default", 0).Error
}
