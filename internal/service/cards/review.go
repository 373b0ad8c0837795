package cards

import (
	"context"
	"fmt"

	"github.com/heartmarshall/studyhall-backend/internal/domain"
	"github.com/heartmarshall/studyhall-backend/internal/service/cards/sm2"
)

// DueCards returns the cards in a set that are due for review at the
// current time, in set order. Cards never reviewed are always due.
// A positive limit truncates the result; limit <= 0 returns all due cards.
func (s *Service) DueCards(ctx context.Context, setID string, limit int) ([]domain.Card, error) {
	if setID == "" {
		return nil, domain.NewValidationError("set_id", "required")
	}

	now := s.now()
	var due []domain.Card
	err := s.view(ctx, func(doc *domain.FlashcardDoc) error {
		set, ok := doc.Sets[setID]
		if !ok {
			return fmt.Errorf("set %s: %w", setID, domain.ErrNotFound)
		}
		for i := range set.Cards {
			if set.Cards[i].IsDue(now) {
				due = append(due, set.Cards[i])
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(due) > limit {
		due = due[:limit]
	}
	return due, nil
}

// DueCounts returns the number of due cards per set ID.
func (s *Service) DueCounts(ctx context.Context) (map[string]int, error) {
	now := s.now()
	counts := map[string]int{}
	err := s.view(ctx, func(doc *domain.FlashcardDoc) error {
		for id, set := range doc.Sets {
			n := 0
			for i := range set.Cards {
				if set.Cards[i].IsDue(now) {
					n++
				}
			}
			counts[id] = n
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return counts, nil
}

// RecordReview grades one card with SM-2 and persists the new learning
// state, review history, and set statistics.
func (s *Service) RecordReview(ctx context.Context, input RecordReviewInput) (*domain.Card, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	now := s.now()
	var reviewed *domain.Card
	err := s.update(ctx, func(doc *domain.FlashcardDoc) error {
		set, ok := doc.Sets[input.SetID]
		if !ok {
			return fmt.Errorf("set %s: %w", input.SetID, domain.ErrNotFound)
		}
		card := findCard(set, input.CardID)
		if card == nil {
			return fmt.Errorf("card %s: %w", input.CardID, domain.ErrNotFound)
		}

		if card.Learning == nil {
			card.Learning = domain.NewLearningData(now)
		}
		ld := card.Learning

		res, err := sm2.Review(s.params, ld.EaseFactor, ld.Interval, input.Quality)
		if err != nil {
			return domain.NewValidationError("quality", err.Error())
		}

		ld.EaseFactor = res.EaseFactor
		ld.Interval = res.Interval
		ld.Reviews++
		last := now
		ld.LastReview = &last
		ld.NextReview = now.AddDate(0, 0, res.Interval)

		ld.History = append(ld.History, domain.ReviewEvent{
			Date:       now,
			Quality:    input.Quality,
			EaseFactor: res.EaseFactor,
			Interval:   res.Interval,
		})
		if len(ld.History) > s.maxHistory {
			ld.History = ld.History[len(ld.History)-s.maxHistory:]
		}

		set.Stats.TotalReviews++
		if input.Quality >= 3 {
			set.Stats.CorrectReviews++
		} else {
			set.Stats.IncorrectReviews++
		}
		set.Stats.AverageEase = averageEase(set)
		set.UpdatedAt = now

		reviewed = card
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Debug("review recorded",
		"set_id", input.SetID, "card_id", input.CardID,
		"quality", input.Quality, "interval", reviewed.Learning.Interval)
	return reviewed, nil
}

// averageEase is the mean ease factor across reviewed cards; cards without
// learning data count at the default ease.
func averageEase(set *domain.FlashcardSet) float64 {
	if len(set.Cards) == 0 {
		return 0
	}
	var sum float64
	for i := range set.Cards {
		if ld := set.Cards[i].Learning; ld != nil {
			sum += ld.EaseFactor
		} else {
			sum += domain.DefaultEaseFactor
		}
	}
	return sum / float64(len(set.Cards))
}
