package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ratepulse/feedback-api/internal/dto"
	apierrors "github.com/ratepulse/feedback-api/internal/errors"
	"github.com/ratepulse/feedback-api/internal/middleware"
	"github.com/ratepulse/feedback-api/internal/models"
	"github.com/ratepulse/feedback-api/internal/services"
)

// TemplateHandler serves template CRUD for owners and the public template
// listing behind a feedback link.
type TemplateHandler struct {
	templateService *services.TemplateService
}

// NewTemplateHandler creates a new TemplateHandler.
func NewTemplateHandler(templateService *services.TemplateService) *TemplateHandler {
	return &TemplateHandler{
		templateService: templateService,
	}
}

// TemplateRequest is the full template content; PUT replaces the stored
// content with it wholesale.
type TemplateRequest struct {
	Name        string            `json:"name" binding:"required,min=1,max=100"`
	Description string            `json:"description"`
	Categories  []CategoryRequest `json:"categories" binding:"required,min=1,max=10,dive"`
	IsDefault   int               `json:"is_default" binding:"omitempty,oneof=0 1"`
}

// CategoryRequest is one category entry within a template request.
type CategoryRequest struct {
	ID    string `json:"id" binding:"required"`
	Label string `json:"label" binding:"required"`
}

func (r TemplateRequest) toInput() services.TemplateInput {
	categories := make([]models.Category, len(r.Categories))
	for i, category := range r.Categories {
		categories[i] = models.Category{ID: category.ID, Label: category.Label}
	}
	return services.TemplateInput{
		Name:        r.Name,
		Description: r.Description,
		Categories:  categories,
		IsDefault:   r.IsDefault,
	}
}

// List returns the authenticated user's templates.
func (h *TemplateHandler) List(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	templates, err := h.templateService.ListTemplates(userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to retrieve templates")
		return
	}

	c.JSON(http.StatusOK, dto.ToTemplateDTOs(templates))
}

// ListPublic returns the templates offered behind a public feedback link.
func (h *TemplateHandler) ListPublic(c *gin.Context) {
	templates, err := h.templateService.ListPublicTemplates(c.Param("linkId"))
	if err != nil {
		if errors.Is(err, services.ErrInvalidFeedbackLink) {
			apierrors.NotFound(c, "Invalid feedback link")
			return
		}
		apierrors.InternalError(c, "Failed to retrieve templates")
		return
	}

	c.JSON(http.StatusOK, dto.ToTemplateDTOs(templates))
}

// Create creates a template owned by the authenticated user.
func (h *TemplateHandler) Create(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var req TemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequestWithDetails(c, "Invalid template data", bindingDetails(err))
		return
	}

	template, err := h.templateService.CreateTemplate(userID, req.toInput())
	if err != nil {
		respondTemplateError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTemplateDTO(*template))
}

// Update replaces a template's content. Targeting another user's template
// reports not-found.
func (h *TemplateHandler) Update(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var req TemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequestWithDetails(c, "Invalid template data", bindingDetails(err))
		return
	}

	template, err := h.templateService.UpdateTemplate(c.Param("id"), userID, req.toInput())
	if err != nil {
		respondTemplateError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTemplateDTO(*template))
}

// Delete removes a template. Feedback referencing it survives with the
// reference nulled.
func (h *TemplateHandler) Delete(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	if err := h.templateService.DeleteTemplate(c.Param("id"), userID); err != nil {
		respondTemplateError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Template deleted successfully",
	})
}

func respondTemplateError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTemplateNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrInvalidTemplateName),
		errors.Is(err, services.ErrInvalidCategoryCount),
		errors.Is(err, services.ErrDuplicateCategoryID),
		errors.Is(err, services.ErrInvalidCategory):
		apierrors.BadRequestWithDetails(c, "Invalid template data", []gin.H{{"message": err.Error()}})
	default:
		apierrors.InternalError(c, "Failed to save template")
	}
}
