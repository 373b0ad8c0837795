package domain

import (
	"time"
)

// DefaultEaseFactor is the SM-2 ease assigned to cards that have never been reviewed.
const DefaultEaseFactor = 2.5

// FlashcardSet is a user-owned collection of cards with aggregate review stats.
type FlashcardSet struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Subject     string    `json:"subject"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Cards       []Card    `json:"cards"`
	Stats       SetStats  `json:"stats"`
}

// SetStats holds set-level review counters, recomputed on every recorded review.
type SetStats struct {
	TotalReviews     int     `json:"total_reviews"`
	CorrectReviews   int     `json:"correct_reviews"`
	IncorrectReviews int     `json:"incorrect_reviews"`
	AverageEase      float64 `json:"average_ease"`
}

// Card is a single question/answer pair with optional media and SM-2 learning state.
type Card struct {
	ID        string        `json:"id"`
	Question  string        `json:"question"`
	Answer    string        `json:"answer"`
	Tags      []string      `json:"tags"`
	ImageURL  string        `json:"image_url,omitempty"`
	AudioURL  string        `json:"audio_url,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	Learning  *LearningData `json:"learning_data,omitempty"`
}

// IsDue returns true if the card needs review at the given time.
// Cards without learning data are always due.
func (c *Card) IsDue(now time.Time) bool {
	if c.Learning == nil {
		return true
	}
	return !c.Learning.NextReview.After(now)
}

// LearningData holds the SM-2 scheduling state of a card.
//
// Invariants: EaseFactor stays within [1.3, 2.5]; Interval >= 0;
// NextReview = LastReview + Interval days after each review.
type LearningData struct {
	EaseFactor float64       `json:"ease_factor"`
	Interval   int           `json:"interval"`
	Reviews    int           `json:"reviews"`
	LastReview *time.Time    `json:"last_review,omitempty"`
	NextReview time.Time     `json:"next_review"`
	History    []ReviewEvent `json:"history"`
}

// NewLearningData returns fresh learning state: default ease, zero interval,
// immediately due.
func NewLearningData(now time.Time) *LearningData {
	return &LearningData{
		EaseFactor: DefaultEaseFactor,
		Interval:   0,
		NextReview: now,
		History:    []ReviewEvent{},
	}
}

// ReviewEvent records one review of a card. Append-only, immutable once created.
type ReviewEvent struct {
	Date       time.Time `json:"date"`
	Quality    int       `json:"quality"`
	EaseFactor float64   `json:"ease_factor"`
	Interval   int       `json:"interval"`
}

// MaxReviewHistory caps the per-card review history; the oldest events are
// dropped first.
const MaxReviewHistory = 100

// FlashcardDoc is the persisted flashcards document for one user.
type FlashcardDoc struct {
	Sets map[string]*FlashcardSet `json:"sets"`
}

// NewFlashcardDoc returns the empty flashcards document.
func NewFlashcardDoc() *FlashcardDoc {
	return &FlashcardDoc{Sets: map[string]*FlashcardSet{}}
}
