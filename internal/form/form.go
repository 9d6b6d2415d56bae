// Package form models the public submission form as an explicit finite
// state machine. The machine validates locally and, on a successful submit,
// emits one candidate feedback record; it never persists anything itself.
package form

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ratepulse/feedback-api/internal/constants"
	"github.com/ratepulse/feedback-api/internal/models"
)

// State identifies the step the form is currently on.
type State string

const (
	StateSelectingTemplate State = "selecting-template"
	StateRating            State = "rating"
	StateCategorizing      State = "categorizing"
	StateCommenting        State = "commenting"
	StateSubmitted         State = "submitted"
)

// ResetDelay is how long the form stays in the submitted state before it
// resets itself to allow a second submission.
const ResetDelay = 2 * time.Second

var (
	ErrUnknownTemplate  = errors.New("form: template is not in the offered list")
	ErrRatingOutOfRange = errors.New("form: rating must be between 1 and 5")
	ErrUnknownCategory  = errors.New("form: category is not part of the active template")
	ErrRatingRequired   = errors.New("form: a rating must be set before submitting")
	ErrCategoryRequired = errors.New("form: a category must be chosen before submitting")
	ErrCommentRequired  = errors.New("form: comment must not be empty")
	ErrCommentTooLong   = errors.New("form: comment exceeds the maximum length")
	ErrAlreadySubmitted = errors.New("form: already submitted")
)

// Candidate is the validated record a successful submit emits.
type Candidate struct {
	Rating     int
	Category   string
	Comment    string
	TemplateID *string
}

// Form is one visitor's submission in progress.
type Form struct {
	templates []models.Template
	explicit  *models.Template

	rating   int
	category string
	comment  string

	submitted   bool
	submittedAt time.Time

	now func() time.Time
}

// New creates a form over the templates offered to the visitor (possibly
// none, for recipients that still use the legacy category set).
func New(templates []models.Template) *Form {
	return &Form{
		templates: templates,
		now:       time.Now,
	}
}

// DefaultTemplate applies the pre-selection policy: the template flagged as
// default wins, otherwise the first in list order, otherwise nil.
func DefaultTemplate(templates []models.Template) *models.Template {
	for i := range templates {
		if templates[i].IsDefault == 1 {
			return &templates[i]
		}
	}
	if len(templates) > 0 {
		return &templates[0]
	}
	return nil
}

// State derives the current step. A submitted form resets itself once the
// reset delay has elapsed.
func (f *Form) State() State {
	if f.submitted {
		if f.now().Sub(f.submittedAt) >= ResetDelay {
			f.Reset()
		} else {
			return StateSubmitted
		}
	}

	if len(f.templates) > 1 && f.explicit == nil && f.rating == 0 && f.category == "" && f.comment == "" {
		return StateSelectingTemplate
	}
	if f.rating == 0 {
		return StateRating
	}
	if f.category == "" {
		return StateCategorizing
	}
	return StateCommenting
}

// ActiveTemplate is the template whose categories currently apply: the
// explicitly selected one, or the pre-selection default.
func (f *Form) ActiveTemplate() *models.Template {
	if f.explicit != nil {
		return f.explicit
	}
	return DefaultTemplate(f.templates)
}

// SelectTemplate chooses a template by id. Categories are template-scoped,
// so any previously chosen category is discarded.
func (f *Form) SelectTemplate(id string) error {
	if f.State() == StateSubmitted {
		return ErrAlreadySubmitted
	}
	for i := range f.templates {
		if f.templates[i].ID == id {
			f.explicit = &f.templates[i]
			f.category = ""
			return nil
		}
	}
	return ErrUnknownTemplate
}

// SetRating records the star rating.
func (f *Form) SetRating(rating int) error {
	if f.State() == StateSubmitted {
		return ErrAlreadySubmitted
	}
	if rating < constants.MinRating || rating > constants.MaxRating {
		return ErrRatingOutOfRange
	}
	f.rating = rating
	return nil
}

// SelectCategory chooses a category from the active template's set, or from
// the legacy set when no template applies.
func (f *Form) SelectCategory(id string) error {
	if f.State() == StateSubmitted {
		return ErrAlreadySubmitted
	}
	if active := f.ActiveTemplate(); active != nil {
		if !active.HasCategory(id) {
			return ErrUnknownCategory
		}
	} else if !models.IsLegacyCategory(id) {
		return ErrUnknownCategory
	}
	f.category = id
	return nil
}

// SetComment records the free-text comment as typed; validation happens on
// submit against the trimmed value.
func (f *Form) SetComment(comment string) error {
	if f.State() == StateSubmitted {
		return ErrAlreadySubmitted
	}
	f.comment = comment
	return nil
}

// Submit validates the collected fields and emits the candidate record,
// moving the form to its terminal state.
func (f *Form) Submit() (Candidate, error) {
	if f.State() == StateSubmitted {
		return Candidate{}, ErrAlreadySubmitted
	}
	if f.rating == 0 {
		return Candidate{}, ErrRatingRequired
	}
	if f.category == "" {
		return Candidate{}, ErrCategoryRequired
	}

	comment := strings.TrimSpace(f.comment)
	if comment == "" {
		return Candidate{}, ErrCommentRequired
	}
	if utf8.RuneCountInString(comment) > constants.MaxCommentLength {
		return Candidate{}, ErrCommentTooLong
	}

	candidate := Candidate{
		Rating:   f.rating,
		Category: f.category,
		Comment:  comment,
	}
	if active := f.ActiveTemplate(); active != nil {
		id := active.ID
		candidate.TemplateID = &id
	}

	f.submitted = true
	f.submittedAt = f.now()
	return candidate, nil
}

// Reset returns the form to its initial state.
func (f *Form) Reset() {
	f.explicit = nil
	f.rating = 0
	f.category = ""
	f.comment = ""
	f.submitted = false
	f.submittedAt = time.Time{}
}
