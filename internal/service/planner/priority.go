package planner

import (
	"context"
	"sort"
	"time"

	"github.com/heartmarshall/studyhall-backend/internal/domain"
)

const defaultEstimatedMinutes = 60

// PrioritizeHomework scores open homework and persists the ranked list.
// Done items and items with unparsable due dates are skipped.
func (s *Service) PrioritizeHomework(ctx context.Context, items []domain.HomeworkItem) ([]domain.PrioritizedHomework, error) {
	ranked := s.rankHomework(items)

	err := s.update(ctx, func(doc *domain.PlannerDoc) error {
		doc.HomeworkPriorities = ranked
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ranked, nil
}

// rankHomework computes priority scores without touching storage.
// Lower score means higher priority; the sort is stable so feed order
// breaks ties.
func (s *Service) rankHomework(items []domain.HomeworkItem) []domain.PrioritizedHomework {
	today := s.today()

	ranked := make([]domain.PrioritizedHomework, 0, len(items))
	for _, hw := range items {
		if hw.Done {
			continue
		}
		due, err := time.Parse(domain.DateLayout, hw.DueDate)
		if err != nil {
			continue
		}

		daysUntilDue := int(due.Sub(today).Hours() / 24)

		estimated := hw.EstimatedMinutes
		if estimated == 0 {
			estimated = defaultEstimatedMinutes
		}

		// Due soon and quick to finish sorts first; overdue beats everything.
		var score float64
		if daysUntilDue <= 0 {
			score = -100 + float64(estimated)/10
		} else {
			score = float64(daysUntilDue)*10 + float64(estimated)/10
		}

		level := domain.PriorityLow
		switch {
		case daysUntilDue <= 1:
			level = domain.PriorityHigh
		case daysUntilDue <= 3:
			level = domain.PriorityMedium
		}

		ranked = append(ranked, domain.PrioritizedHomework{
			HomeworkItem:  hw,
			PriorityScore: score,
			DaysUntilDue:  daysUntilDue,
			PriorityLevel: level,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].PriorityScore < ranked[j].PriorityScore
	})
	return ranked
}

// HomeworkPriorities returns the last persisted ranking.
func (s *Service) HomeworkPriorities(ctx context.Context) ([]domain.PrioritizedHomework, error) {
	var ranked []domain.PrioritizedHomework
	err := s.view(ctx, func(doc *domain.PlannerDoc) error {
		ranked = doc.HomeworkPriorities
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ranked, nil
}
