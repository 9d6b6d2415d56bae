package form

import (
	"strings"
	"testing"
	"time"

	"github.com/ratepulse/feedback-api/internal/models"
	"github.com/stretchr/testify/require"
)

func testTemplates() []models.Template {
	return []models.Template{
		{
			ID:   "tpl-product",
			Name: "Product Feedback",
			Categories: []models.Category{
				{ID: "product_quality", Label: "Product Quality"},
				{ID: "usability", Label: "Usability"},
			},
		},
		{
			ID:        "tpl-service",
			Name:      "Customer Service",
			IsDefault: 1,
			Categories: []models.Category{
				{ID: "service_quality", Label: "Service Quality"},
				{ID: "response_time", Label: "Response Time"},
			},
		},
	}
}

func TestDefaultTemplate_PrefersDefaultFlagRegardlessOfOrder(t *testing.T) {
	templates := testTemplates()
	require.Equal(t, "tpl-service", DefaultTemplate(templates).ID)

	// Same list with the default first behaves identically.
	reversed := []models.Template{templates[1], templates[0]}
	require.Equal(t, "tpl-service", DefaultTemplate(reversed).ID)
}

func TestDefaultTemplate_FallsBackToListOrder(t *testing.T) {
	templates := testTemplates()
	templates[1].IsDefault = 0
	require.Equal(t, "tpl-product", DefaultTemplate(templates).ID)

	require.Nil(t, DefaultTemplate(nil))
}

func TestForm_StartsSelectingWithMultipleTemplates(t *testing.T) {
	f := New(testTemplates())
	require.Equal(t, StateSelectingTemplate, f.State())

	// The default template is still pre-selected for validation purposes.
	require.Equal(t, "tpl-service", f.ActiveTemplate().ID)
}

func TestForm_SkipsSelectionWithOneTemplate(t *testing.T) {
	f := New(testTemplates()[:1])
	require.Equal(t, StateRating, f.State())
}

func TestForm_ProgressesThroughStates(t *testing.T) {
	f := New(testTemplates())

	require.NoError(t, f.SetRating(4))
	require.Equal(t, StateCategorizing, f.State())

	require.NoError(t, f.SelectCategory("service_quality"))
	require.Equal(t, StateCommenting, f.State())

	require.NoError(t, f.SetComment("Great support, fast answers."))
	candidate, err := f.Submit()
	require.NoError(t, err)
	require.Equal(t, StateSubmitted, f.State())

	require.Equal(t, 4, candidate.Rating)
	require.Equal(t, "service_quality", candidate.Category)
	require.NotNil(t, candidate.TemplateID)
	require.Equal(t, "tpl-service", *candidate.TemplateID)
}

func TestForm_SelectingTemplateResetsCategory(t *testing.T) {
	f := New(testTemplates())

	require.NoError(t, f.SetRating(5))
	require.NoError(t, f.SelectCategory("service_quality"))
	require.Equal(t, StateCommenting, f.State())

	// Categories are template-scoped; switching invalidates the choice.
	require.NoError(t, f.SelectTemplate("tpl-product"))
	require.Equal(t, StateCategorizing, f.State())

	// The old template's category is no longer accepted.
	require.ErrorIs(t, f.SelectCategory("service_quality"), ErrUnknownCategory)
	require.NoError(t, f.SelectCategory("usability"))
}

func TestForm_RejectsUnknownTemplate(t *testing.T) {
	f := New(testTemplates())
	require.ErrorIs(t, f.SelectTemplate("tpl-missing"), ErrUnknownTemplate)
}

func TestForm_RatingBounds(t *testing.T) {
	f := New(nil)
	require.ErrorIs(t, f.SetRating(0), ErrRatingOutOfRange)
	require.ErrorIs(t, f.SetRating(6), ErrRatingOutOfRange)
	require.NoError(t, f.SetRating(1))
	require.NoError(t, f.SetRating(5))
}

func TestForm_LegacyCategoriesApplyWithoutTemplates(t *testing.T) {
	f := New(nil)
	require.NoError(t, f.SetRating(3))
	require.NoError(t, f.SelectCategory("overall_experience"))
	require.ErrorIs(t, f.SelectCategory("usability"), ErrUnknownCategory)

	require.NoError(t, f.SetComment("Fine."))
	candidate, err := f.Submit()
	require.NoError(t, err)
	require.Nil(t, candidate.TemplateID)
}

func TestForm_SubmitGuards(t *testing.T) {
	f := New(testTemplates())

	_, err := f.Submit()
	require.ErrorIs(t, err, ErrRatingRequired)

	require.NoError(t, f.SetRating(4))
	_, err = f.Submit()
	require.ErrorIs(t, err, ErrCategoryRequired)

	require.NoError(t, f.SelectCategory("response_time"))
	_, err = f.Submit()
	require.ErrorIs(t, err, ErrCommentRequired)

	// Whitespace-only comments trim down to empty.
	require.NoError(t, f.SetComment("   \n\t  "))
	_, err = f.Submit()
	require.ErrorIs(t, err, ErrCommentRequired)
}

func TestForm_CommentBoundary(t *testing.T) {
	f := New(testTemplates())
	require.NoError(t, f.SetRating(5))
	require.NoError(t, f.SelectCategory("service_quality"))

	require.NoError(t, f.SetComment(strings.Repeat("a", 500)))
	candidate, err := f.Submit()
	require.NoError(t, err)
	require.Len(t, candidate.Comment, 500)

	f.Reset()
	require.NoError(t, f.SetRating(5))
	require.NoError(t, f.SelectCategory("service_quality"))
	require.NoError(t, f.SetComment(strings.Repeat("a", 501)))
	_, err = f.Submit()
	require.ErrorIs(t, err, ErrCommentTooLong)
}

func TestForm_SubmittedIsTerminalUntilDelayElapses(t *testing.T) {
	f := New(testTemplates())
	now := time.Date(2025, time.June, 1, 10, 0, 0, 0, time.UTC)
	f.now = func() time.Time { return now }

	require.NoError(t, f.SetRating(5))
	require.NoError(t, f.SelectCategory("service_quality"))
	require.NoError(t, f.SetComment("Great!"))
	_, err := f.Submit()
	require.NoError(t, err)

	require.Equal(t, StateSubmitted, f.State())
	require.ErrorIs(t, f.SetRating(3), ErrAlreadySubmitted)
	_, err = f.Submit()
	require.ErrorIs(t, err, ErrAlreadySubmitted)

	// After the reset delay the form accepts a second submission.
	now = now.Add(ResetDelay)
	require.Equal(t, StateSelectingTemplate, f.State())
	require.NoError(t, f.SetRating(2))
}
