package cards

import (
	"context"
	"fmt"
	"sort"

	"github.com/heartmarshall/studyhall-backend/internal/domain"
)

// CreateSet creates an empty flashcard set.
func (s *Service) CreateSet(ctx context.Context, input CreateSetInput) (*domain.FlashcardSet, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	now := s.now()
	set := &domain.FlashcardSet{
		ID:          s.newID(),
		Name:        input.Name,
		Subject:     input.Subject,
		Description: input.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
		Cards:       []domain.Card{},
	}

	err := s.update(ctx, func(doc *domain.FlashcardDoc) error {
		doc.Sets[set.ID] = set
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("set created", "set_id", set.ID, "name", set.Name)
	return set, nil
}

// GetSet returns one set by ID.
func (s *Service) GetSet(ctx context.Context, setID string) (*domain.FlashcardSet, error) {
	var set *domain.FlashcardSet
	err := s.view(ctx, func(doc *domain.FlashcardDoc) error {
		var ok bool
		set, ok = doc.Sets[setID]
		if !ok {
			return fmt.Errorf("set %s: %w", setID, domain.ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return set, nil
}

// ListSets returns all of the user's sets ordered by last update,
// newest first.
func (s *Service) ListSets(ctx context.Context) ([]*domain.FlashcardSet, error) {
	var sets []*domain.FlashcardSet
	err := s.view(ctx, func(doc *domain.FlashcardDoc) error {
		for _, set := range doc.Sets {
			sets = append(sets, set)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(sets, func(i, j int) bool {
		if !sets[i].UpdatedAt.Equal(sets[j].UpdatedAt) {
			return sets[i].UpdatedAt.After(sets[j].UpdatedAt)
		}
		return sets[i].ID < sets[j].ID
	})
	return sets, nil
}

// UpdateSet changes set metadata; nil input fields are left untouched.
func (s *Service) UpdateSet(ctx context.Context, input UpdateSetInput) (*domain.FlashcardSet, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	var set *domain.FlashcardSet
	err := s.update(ctx, func(doc *domain.FlashcardDoc) error {
		var ok bool
		set, ok = doc.Sets[input.SetID]
		if !ok {
			return fmt.Errorf("set %s: %w", input.SetID, domain.ErrNotFound)
		}
		if input.Name != nil {
			set.Name = *input.Name
		}
		if input.Subject != nil {
			set.Subject = *input.Subject
		}
		if input.Description != nil {
			set.Description = *input.Description
		}
		set.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return set, nil
}

// DeleteSet removes a set and all its cards.
func (s *Service) DeleteSet(ctx context.Context, setID string) error {
	if setID == "" {
		return domain.NewValidationError("set_id", "required")
	}

	err := s.update(ctx, func(doc *domain.FlashcardDoc) error {
		if _, ok := doc.Sets[setID]; !ok {
			return fmt.Errorf("set %s: %w", setID, domain.ErrNotFound)
		}
		delete(doc.Sets, setID)
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("set deleted", "set_id", setID)
	return nil
}

// Subjects returns the distinct subjects across the user's sets, sorted.
func (s *Service) Subjects(ctx context.Context) ([]string, error) {
	seen := map[string]bool{}
	err := s.view(ctx, func(doc *domain.FlashcardDoc) error {
		for _, set := range doc.Sets {
			if set.Subject != "" {
				seen[set.Subject] = true
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	subjects := make([]string, 0, len(seen))
	for subj := range seen {
		subjects = append(subjects, subj)
	}
	sort.Strings(subjects)
	return subjects, nil
}
