package cards

import (
	"github.com/heartmarshall/studyhall-backend/internal/domain"
	"github.com/heartmarshall/studyhall-backend/internal/service/cards/sm2"
)

// CreateSetInput holds the parameters for creating a flashcard set.
type CreateSetInput struct {
	Name        string
	Subject     string
	Description string
}

// Validate checks all fields and collects all errors.
func (i *CreateSetInput) Validate() error {
	var errs []domain.FieldError

	if i.Name == "" {
		errs = append(errs, domain.FieldError{Field: "name", Message: "required"})
	}
	if len(i.Name) > 200 {
		errs = append(errs, domain.FieldError{Field: "name", Message: "max 200 characters"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// UpdateSetInput holds the parameters for updating set metadata.
// Nil fields are left unchanged.
type UpdateSetInput struct {
	SetID       string
	Name        *string
	Subject     *string
	Description *string
}

// Validate checks all fields and collects all errors.
func (i *UpdateSetInput) Validate() error {
	var errs []domain.FieldError

	if i.SetID == "" {
		errs = append(errs, domain.FieldError{Field: "set_id", Message: "required"})
	}
	if i.Name != nil && *i.Name == "" {
		errs = append(errs, domain.FieldError{Field: "name", Message: "must not be empty"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// AddCardInput holds the parameters for adding a card to a set.
type AddCardInput struct {
	SetID    string
	Question string
	Answer   string
	Tags     []string
	ImageURL string
	AudioURL string
}

// Validate checks all fields and collects all errors.
func (i *AddCardInput) Validate() error {
	var errs []domain.FieldError

	if i.SetID == "" {
		errs = append(errs, domain.FieldError{Field: "set_id", Message: "required"})
	}
	if i.Question == "" {
		errs = append(errs, domain.FieldError{Field: "question", Message: "required"})
	}
	if i.Answer == "" {
		errs = append(errs, domain.FieldError{Field: "answer", Message: "required"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// UpdateCardInput holds the parameters for editing a card.
// Nil fields are left unchanged; learning state is never touched here.
type UpdateCardInput struct {
	SetID    string
	CardID   string
	Question *string
	Answer   *string
	Tags     *[]string
	ImageURL *string
	AudioURL *string
}

// Validate checks all fields and collects all errors.
func (i *UpdateCardInput) Validate() error {
	var errs []domain.FieldError

	if i.SetID == "" {
		errs = append(errs, domain.FieldError{Field: "set_id", Message: "required"})
	}
	if i.CardID == "" {
		errs = append(errs, domain.FieldError{Field: "card_id", Message: "required"})
	}
	if i.Question != nil && *i.Question == "" {
		errs = append(errs, domain.FieldError{Field: "question", Message: "must not be empty"})
	}
	if i.Answer != nil && *i.Answer == "" {
		errs = append(errs, domain.FieldError{Field: "answer", Message: "must not be empty"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// RecordReviewInput holds the parameters for grading a card review.
type RecordReviewInput struct {
	SetID   string
	CardID  string
	Quality int
}

// Validate checks all fields and collects all errors.
func (i *RecordReviewInput) Validate() error {
	var errs []domain.FieldError

	if i.SetID == "" {
		errs = append(errs, domain.FieldError{Field: "set_id", Message: "required"})
	}
	if i.CardID == "" {
		errs = append(errs, domain.FieldError{Field: "card_id", Message: "required"})
	}
	if i.Quality < sm2.MinQuality || i.Quality > sm2.MaxQuality {
		errs = append(errs, domain.FieldError{Field: "quality", Message: "must be between 0 and 5"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// ImportCardsInput holds the parameters for bulk-importing cards into a set.
type ImportCardsInput struct {
	SetID string
	Cards []ImportCard
}

// ImportCard is one incoming card; entries without both question and answer
// are skipped rather than rejected.
type ImportCard struct {
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Tags     []string `json:"tags,omitempty"`
	ImageURL string   `json:"image_url,omitempty"`
	AudioURL string   `json:"audio_url,omitempty"`
}

// Validate checks all fields and collects all errors.
func (i *ImportCardsInput) Validate() error {
	var errs []domain.FieldError

	if i.SetID == "" {
		errs = append(errs, domain.FieldError{Field: "set_id", Message: "required"})
	}
	if len(i.Cards) == 0 {
		errs = append(errs, domain.FieldError{Field: "cards", Message: "required"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}
