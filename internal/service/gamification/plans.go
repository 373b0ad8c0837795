package gamification

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/heartmarshall/studyhall-backend/internal/domain"
)

// CreatePlanInput holds the parameters for a new study plan.
type CreatePlanInput struct {
	TestName     string
	TestDate     string // "2006-01-02"
	Subject      string
	NumExercises int
}

// Validate checks all fields and collects all errors.
func (i *CreatePlanInput) Validate() error {
	var errs []domain.FieldError

	if i.TestName == "" {
		errs = append(errs, domain.FieldError{Field: "test_name", Message: "is required"})
	}
	if _, err := time.Parse(domain.DateLayout, i.TestDate); err != nil {
		errs = append(errs, domain.FieldError{Field: "test_date", Message: "must be YYYY-MM-DD"})
	}
	if i.NumExercises <= 0 {
		errs = append(errs, domain.FieldError{Field: "num_exercises", Message: "must be positive"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// CreatePlan registers a study plan for an upcoming test and grants the
// creation bonus.
func (s *Service) CreatePlan(ctx context.Context, input CreatePlanInput) (*domain.StudyPlan, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	var plan *domain.StudyPlan
	err := s.update(ctx, func(doc *domain.GamificationDoc) error {
		plan = &domain.StudyPlan{
			ID:           s.newID(),
			TestName:     input.TestName,
			TestDate:     input.TestDate,
			Subject:      input.Subject,
			NumExercises: input.NumExercises,
			CreatedAt:    s.now().UTC(),
		}
		doc.Plans = append(doc.Plans, plan)
		doc.Stats.PlansCreated++

		s.applyPoints(doc, 10, "Study plan created for "+input.TestName)
		s.checkPlanAchievements(doc)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return plan, nil
}

// Plans returns all study plans sorted by test date, soonest first.
func (s *Service) Plans(ctx context.Context) ([]*domain.StudyPlan, error) {
	var out []*domain.StudyPlan
	err := s.view(ctx, func(doc *domain.GamificationDoc) error {
		out = append([]*domain.StudyPlan{}, doc.Plans...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TestDate < out[j].TestDate })
	return out, nil
}

// DeletePlan removes a study plan.
func (s *Service) DeletePlan(ctx context.Context, planID string) error {
	return s.update(ctx, func(doc *domain.GamificationDoc) error {
		for i, plan := range doc.Plans {
			if plan.ID == planID {
				doc.Plans = append(doc.Plans[:i], doc.Plans[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("plan %q: %w", planID, domain.ErrNotFound)
	})
}

// ExerciseResult reports the outcome of logging one plan exercise.
type ExerciseResult struct {
	Plan        *domain.StudyPlan `json:"study_plan"`
	Points      int               `json:"points_earned"`
	AlreadyDone bool              `json:"already_done_today,omitempty"`
}

// CompleteExercise logs one exercise toward the plan. Only one exercise
// counts per calendar day; finishing the plan pays a 25-point bonus.
func (s *Service) CompleteExercise(ctx context.Context, planID string) (*ExerciseResult, error) {
	var result *ExerciseResult
	err := s.update(ctx, func(doc *domain.GamificationDoc) error {
		var plan *domain.StudyPlan
		for _, p := range doc.Plans {
			if p.ID == planID {
				plan = p
				break
			}
		}
		if plan == nil {
			return fmt.Errorf("plan %q: %w", planID, domain.ErrNotFound)
		}

		today := s.today()
		if plan.LastExerciseDate == today {
			result = &ExerciseResult{Plan: plan, AlreadyDone: true}
			return nil
		}

		plan.ExercisesCompleted++
		plan.LastExerciseDate = today
		doc.Stats.ExercisesDone++

		points := 15
		if plan.ExercisesCompleted >= plan.NumExercises && !plan.Completed {
			plan.Completed = true
			doc.Stats.PlansCompleted++
			points += 25
		}

		award := s.applyPoints(doc, points, "Exercise completed for "+plan.TestName)
		if plan.Completed {
			s.checkPlanAchievements(doc)
		}
		result = &ExerciseResult{Plan: plan, Points: award.Points}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
