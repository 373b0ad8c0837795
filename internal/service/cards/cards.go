package cards

import (
	"context"
	"fmt"

	"github.com/heartmarshall/studyhall-backend/internal/domain"
)

// AddCard appends a new card to a set. The card starts without learning
// data and is therefore immediately due.
func (s *Service) AddCard(ctx context.Context, input AddCardInput) (*domain.Card, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	card := domain.Card{
		ID:        s.newID(),
		Question:  input.Question,
		Answer:    input.Answer,
		Tags:      input.Tags,
		ImageURL:  input.ImageURL,
		AudioURL:  input.AudioURL,
		CreatedAt: s.now(),
	}
	if card.Tags == nil {
		card.Tags = []string{}
	}

	err := s.update(ctx, func(doc *domain.FlashcardDoc) error {
		set, ok := doc.Sets[input.SetID]
		if !ok {
			return fmt.Errorf("set %s: %w", input.SetID, domain.ErrNotFound)
		}
		set.Cards = append(set.Cards, card)
		set.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &card, nil
}

// UpdateCard edits card content; nil input fields are left untouched.
func (s *Service) UpdateCard(ctx context.Context, input UpdateCardInput) (*domain.Card, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	var updated *domain.Card
	err := s.update(ctx, func(doc *domain.FlashcardDoc) error {
		set, ok := doc.Sets[input.SetID]
		if !ok {
			return fmt.Errorf("set %s: %w", input.SetID, domain.ErrNotFound)
		}
		card := findCard(set, input.CardID)
		if card == nil {
			return fmt.Errorf("card %s: %w", input.CardID, domain.ErrNotFound)
		}

		if input.Question != nil {
			card.Question = *input.Question
		}
		if input.Answer != nil {
			card.Answer = *input.Answer
		}
		if input.Tags != nil {
			card.Tags = *input.Tags
		}
		if input.ImageURL != nil {
			card.ImageURL = *input.ImageURL
		}
		if input.AudioURL != nil {
			card.AudioURL = *input.AudioURL
		}
		set.UpdatedAt = s.now()
		updated = card
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteCard removes a card from a set.
func (s *Service) DeleteCard(ctx context.Context, setID, cardID string) error {
	if setID == "" || cardID == "" {
		return domain.NewValidationError("set_id/card_id", "required")
	}

	return s.update(ctx, func(doc *domain.FlashcardDoc) error {
		set, ok := doc.Sets[setID]
		if !ok {
			return fmt.Errorf("set %s: %w", setID, domain.ErrNotFound)
		}
		for i := range set.Cards {
			if set.Cards[i].ID == cardID {
				set.Cards = append(set.Cards[:i], set.Cards[i+1:]...)
				set.UpdatedAt = s.now()
				return nil
			}
		}
		return fmt.Errorf("card %s: %w", cardID, domain.ErrNotFound)
	})
}

// GetCard returns one card by set and card ID.
func (s *Service) GetCard(ctx context.Context, setID, cardID string) (*domain.Card, error) {
	var card *domain.Card
	err := s.view(ctx, func(doc *domain.FlashcardDoc) error {
		set, ok := doc.Sets[setID]
		if !ok {
			return fmt.Errorf("set %s: %w", setID, domain.ErrNotFound)
		}
		card = findCard(set, cardID)
		if card == nil {
			return fmt.Errorf("card %s: %w", cardID, domain.ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return card, nil
}

func findCard(set *domain.FlashcardSet, cardID string) *domain.Card {
	for i := range set.Cards {
		if set.Cards[i].ID == cardID {
			return &set.Cards[i]
		}
	}
	return nil
}
