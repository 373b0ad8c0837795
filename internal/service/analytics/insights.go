package analytics

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/heartmarshall/studyhall-backend/internal/domain"
)

const masteredIntervalDays = 7

// SetProgress summarizes every flashcard set for the dashboard: card and
// due counts, mastery (share of cards with a week-or-longer interval), and
// the last recorded study session. Sets with the most due cards come first;
// ties sort by ascending mastery.
func (s *Service) SetProgress(ctx context.Context) ([]domain.SetProgress, error) {
	sets, err := s.sets.ListSets(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sets: %w", err)
	}

	now := s.now().UTC()
	var lastStudied map[string]string
	err = s.view(ctx, func(doc *domain.AnalyticsDoc) error {
		lastStudied = map[string]string{}
		for _, sess := range doc.Sessions {
			lastStudied[sess.SetID] = sess.Date.Format(domain.DateLayout)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := make([]domain.SetProgress, 0, len(sets))
	for _, set := range sets {
		mastered, due := 0, 0
		for i := range set.Cards {
			card := &set.Cards[i]
			if card.Learning != nil && card.Learning.Interval >= masteredIntervalDays {
				mastered++
			}
			if card.IsDue(now) {
				due++
			}
		}
		mastery := 0
		if len(set.Cards) > 0 {
			mastery = int(math.Round(float64(mastered) / float64(len(set.Cards)) * 100))
		}

		result = append(result, domain.SetProgress{
			ID:          set.ID,
			Name:        set.Name,
			Subject:     set.Subject,
			CardCount:   len(set.Cards),
			Mastery:     mastery,
			LastStudied: lastStudied[set.ID],
			DueCards:    due,
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].DueCards != result[j].DueCards {
			return result[i].DueCards > result[j].DueCards
		}
		return result[i].Mastery < result[j].Mastery
	})
	return result, nil
}

// DifficultCards ranks cards by a 1-10 difficulty derived from ease factor
// and review count, keeping only those above 5. A low ease factor that has
// persisted across many reviews scores highest.
func (s *Service) DifficultCards(ctx context.Context, limit int) ([]domain.DifficultCard, error) {
	if limit <= 0 {
		limit = 5
	}

	sets, err := s.sets.ListSets(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sets: %w", err)
	}

	var difficult []domain.DifficultCard
	for _, set := range sets {
		for i := range set.Cards {
			card := &set.Cards[i]
			d := cardDifficulty(card)
			if d > 5 {
				difficult = append(difficult, domain.DifficultCard{
					ID:         card.ID,
					SetID:      set.ID,
					Question:   card.Question,
					Answer:     card.Answer,
					Subject:    set.Subject,
					Difficulty: d,
				})
			}
		}
	}

	sort.SliceStable(difficult, func(i, j int) bool {
		return difficult[i].Difficulty > difficult[j].Difficulty
	})
	if len(difficult) > limit {
		difficult = difficult[:limit]
	}
	return difficult, nil
}

func cardDifficulty(card *domain.Card) int {
	ld := card.Learning
	if ld == nil || ld.Reviews == 0 {
		return 5
	}
	easeDifficulty := math.Max(0, math.Min(10, (2.5-ld.EaseFactor)*10))
	reviewFactor := math.Min(1, float64(ld.Reviews)/10)
	return int(math.Round(easeDifficulty * (0.5 + 0.5*reviewFactor)))
}

// Recommendations produces up to five rule-based study nudges: the set with
// the most due cards, the weakest set, the user's optimal study hour, an
// at-risk streak, and an untouched set.
func (s *Service) Recommendations(ctx context.Context) ([]domain.Recommendation, error) {
	progress, err := s.SetProgress(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	var recs []domain.Recommendation

	err = s.view(ctx, func(doc *domain.AnalyticsDoc) error {
		if len(progress) > 0 && progress[0].DueCards > 0 {
			top := progress[0]
			recs = append(recs, domain.Recommendation{
				Type:        "review",
				Title:       fmt.Sprintf("Review %s", top.Name),
				Description: fmt.Sprintf("You have %d cards due in this set.", top.DueCards),
				Priority:    "high",
			})
		}

		var weakest *domain.SetProgress
		for i := range progress {
			p := &progress[i]
			if p.CardCount > 0 && p.Mastery < 50 && (weakest == nil || p.Mastery < weakest.Mastery) {
				weakest = p
			}
		}
		if weakest != nil {
			recs = append(recs, domain.Recommendation{
				Type:        "focus",
				Title:       fmt.Sprintf("Improve your mastery of %s", weakest.Name),
				Description: fmt.Sprintf("Your mastery is at %d%%. Keep studying to raise it.", weakest.Mastery),
				Priority:    "high",
			})
		}

		if doc.Habits.BestStudyHour != nil {
			best := *doc.Habits.BestStudyHour
			if diff := (best - now.Hour() + 24) % 24; diff <= 3 {
				recs = append(recs, domain.Recommendation{
					Type:        "schedule",
					Title:       "Optimal study time",
					Description: fmt.Sprintf("It is almost your best study hour (%02d:00). Make the most of it.", best),
					Priority:    "low",
				})
			}
		}

		if doc.StudyStreak >= 2 && doc.LastStudyDate != "" {
			if last, err := time.Parse(domain.DateLayout, doc.LastStudyDate); err == nil && last.Before(civilDate(now)) {
				recs = append(recs, domain.Recommendation{
					Type:        "schedule",
					Title:       fmt.Sprintf("Keep your %d-day streak alive", doc.StudyStreak),
					Description: "Study today so you do not lose your streak.",
					Priority:    "medium",
				})
			}
		}

		studied := map[string]bool{}
		for _, sess := range doc.Sessions {
			studied[sess.SetID] = true
		}
		for _, p := range progress {
			if !studied[p.ID] && p.CardCount > 0 {
				recs = append(recs, domain.Recommendation{
					Type:        "explore",
					Title:       fmt.Sprintf("Try a new set: %s", p.Name),
					Description: fmt.Sprintf("You have not studied this set of %d cards yet.", p.CardCount),
					Priority:    "low",
				})
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return recs, nil
}
