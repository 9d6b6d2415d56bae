package services

import (
	"testing"

	"github.com/ratepulse/feedback-api/internal/models"
	"github.com/ratepulse/feedback-api/internal/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupAuthService(t *testing.T) (*AuthService, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Template{},
		&models.Feedback{},
	)
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(db)
	templateRepo := repository.NewTemplateRepository(db)
	service := NewAuthServiceWithParts(nil, nil, userRepo, templateRepo)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return service, db
}

func TestAuthService_CompleteLogin_FirstLogin(t *testing.T) {
	service, db := setupAuthService(t)

	user, err := service.CompleteLogin(&IdentityClaims{
		Subject:    "sub-1",
		Email:      "owner@example.com",
		GivenName:  "Pat",
		FamilyName: "Owner",
	})
	require.NoError(t, err)

	require.Equal(t, "sub-1", user.ID)
	require.NotNil(t, user.Email)
	require.Equal(t, "owner@example.com", *user.Email)
	require.NotEmpty(t, user.FeedbackLinkID)

	// First login seeds the starter templates, with Customer Service as
	// the default.
	var templates []models.Template
	require.NoError(t, db.Where("user_id = ?", user.ID).Order("created_at").Find(&templates).Error)
	require.Len(t, templates, 4)

	defaults := 0
	for _, template := range templates {
		if template.IsDefault == 1 {
			defaults++
			require.Equal(t, "Customer Service", template.Name)
		}
	}
	require.Equal(t, 1, defaults)
}

func TestAuthService_CompleteLogin_RepeatLoginPreservesLink(t *testing.T) {
	service, db := setupAuthService(t)

	first, err := service.CompleteLogin(&IdentityClaims{
		Subject: "sub-2",
		Email:   "old@example.com",
	})
	require.NoError(t, err)

	second, err := service.CompleteLogin(&IdentityClaims{
		Subject: "sub-2",
		Email:   "new@example.com",
	})
	require.NoError(t, err)

	// Same account, updated profile, stable public link.
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, first.FeedbackLinkID, second.FeedbackLinkID)
	require.NotNil(t, second.Email)
	require.Equal(t, "new@example.com", *second.Email)

	// No duplicate user rows and no re-seeded templates.
	var userCount int64
	require.NoError(t, db.Model(&models.User{}).Count(&userCount).Error)
	require.Equal(t, int64(1), userCount)

	var templateCount int64
	require.NoError(t, db.Model(&models.Template{}).Where("user_id = ?", second.ID).Count(&templateCount).Error)
	require.Equal(t, int64(4), templateCount)
}

func TestAuthService_CompleteLogin_MissingSubject(t *testing.T) {
	service, _ := setupAuthService(t)

	_, err := service.CompleteLogin(&IdentityClaims{Email: "nobody@example.com"})
	require.ErrorIs(t, err, ErrMissingSubject)
}

func TestAuthService_CompleteLogin_DoesNotReseedDeletedTemplates(t *testing.T) {
	service, db := setupAuthService(t)

	user, err := service.CompleteLogin(&IdentityClaims{Subject: "sub-3"})
	require.NoError(t, err)

	// The owner trims down to a single custom template.
	require.NoError(t, db.Where("user_id = ?", user.ID).Delete(&models.Template{}).Error)
	custom := &models.Template{
		UserID: user.ID,
		Name:   "Custom",
		Categories: []models.Category{
			{ID: "vibe", Label: "Vibe"},
		},
	}
	require.NoError(t, db.Create(custom).Error)

	_, err = service.CompleteLogin(&IdentityClaims{Subject: "sub-3"})
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Template{}).Where("user_id = ?", user.ID).Count(&count).Error)
	require.Equal(t, int64(1), count)
}
