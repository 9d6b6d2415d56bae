package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ratepulse/feedback-api/internal/dto"
	apierrors "github.com/ratepulse/feedback-api/internal/errors"
	"github.com/ratepulse/feedback-api/internal/middleware"
	"github.com/ratepulse/feedback-api/internal/services"
	"github.com/ratepulse/feedback-api/internal/utils"
)

// FeedbackHandler serves the public submission endpoint and the owner-side
// feedback reads.
type FeedbackHandler struct {
	feedbackService *services.FeedbackService
}

// NewFeedbackHandler creates a new FeedbackHandler.
func NewFeedbackHandler(feedbackService *services.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{
		feedbackService: feedbackService,
	}
}

// Submit accepts one feedback record through a public feedback link.
// No session is involved; the link token alone identifies the recipient.
func (h *FeedbackHandler) Submit(c *gin.Context) {
	type SubmitRequest struct {
		Rating     int     `json:"rating" binding:"required,min=1,max=5"`
		Category   string  `json:"category" binding:"required"`
		Comment    string  `json:"comment" binding:"required,max=500"`
		TemplateID *string `json:"template_id"`
	}

	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequestWithDetails(c, "Invalid feedback data", bindingDetails(err))
		return
	}

	feedback, err := h.feedbackService.Submit(c.Param("linkId"), services.SubmitInput{
		Rating:     req.Rating,
		Category:   req.Category,
		Comment:    req.Comment,
		TemplateID: req.TemplateID,
	})
	if err != nil {
		respondFeedbackError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToFeedbackDTO(*feedback))
}

// List returns the authenticated user's own feedback, newest first.
func (h *FeedbackHandler) List(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	params := utils.GetPaginationParams(c)

	items, total, err := h.feedbackService.ListFeedback(userID, params)
	if err != nil {
		apierrors.InternalError(c, "Failed to retrieve feedback")
		return
	}

	c.JSON(http.StatusOK, dto.ToFeedbackListResponse(items, params, total))
}

// Stats returns the aggregated dashboard metrics for the authenticated
// user's feedback.
func (h *FeedbackHandler) Stats(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	summary, err := h.feedbackService.GetStats(userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to compute stats")
		return
	}

	c.JSON(http.StatusOK, summary)
}

func respondFeedbackError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidFeedbackLink):
		apierrors.NotFound(c, "Invalid feedback link")
	case errors.Is(err, services.ErrTemplateNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrInvalidRating),
		errors.Is(err, services.ErrEmptyComment),
		errors.Is(err, services.ErrCommentTooLong),
		errors.Is(err, services.ErrUnknownCategory):
		apierrors.BadRequestWithDetails(c, "Invalid feedback data", []gin.H{{"message": err.Error()}})
	default:
		apierrors.InternalError(c, "Failed to create feedback")
	}
}
