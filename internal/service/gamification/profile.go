package gamification

import (
	"context"
	"sort"

	"github.com/heartmarshall/studyhall-backend/internal/domain"
)

// Profile is the dashboard snapshot of a user's gamification state.
type Profile struct {
	Points      int                      `json:"points"`
	XP          int                      `json:"xp"`
	Level       int                      `json:"level"`
	NextLevelXP int                      `json:"next_level_xp"`
	XPProgress  int                      `json:"xp_progress"` // percent toward next level, capped at 100
	Streak      domain.LoginStreak       `json:"streak"`
	Recent      []domain.Achievement     `json:"recent_achievements"`
	Badges      []domain.Badge           `json:"badges"`
	Boosters    []domain.Booster         `json:"active_boosters"`
	Quests      []domain.Quest           `json:"quests"`
	Inventory   domain.Inventory         `json:"inventory"`
	Activity    []domain.ActivityEntry   `json:"recent_activity"`
	Stats       domain.GamificationStats `json:"stats"`
	Plans       PlanSummary              `json:"study_plans"`
}

// PlanSummary condenses study-plan state for the dashboard.
type PlanSummary struct {
	Total     int                 `json:"total"`
	Active    int                 `json:"active"`
	Completed int                 `json:"completed"`
	Upcoming  []*domain.StudyPlan `json:"upcoming_tests"` // next 3 open plans by test date
}

// GetProfile assembles the dashboard snapshot, refreshing quests first.
func (s *Service) GetProfile(ctx context.Context) (*Profile, error) {
	var profile *Profile
	err := s.update(ctx, func(doc *domain.GamificationDoc) error {
		s.refreshQuests(doc)
		profile = s.buildProfile(doc)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *Service) buildProfile(doc *domain.GamificationDoc) *Profile {
	progress := 0
	if doc.NextLevelXP > 0 {
		progress = doc.XP * 100 / doc.NextLevelXP
		if progress > 100 {
			progress = 100
		}
	}

	now := s.now().UTC()
	active := []domain.Booster{}
	for _, b := range doc.Inventory.Boosters {
		if b.Active(now) {
			active = append(active, b)
		}
	}

	return &Profile{
		Points:      doc.Points,
		XP:          doc.XP,
		Level:       doc.Level,
		NextLevelXP: doc.NextLevelXP,
		XPProgress:  progress,
		Streak:      doc.Streak,
		Recent:      tail(doc.Achievements, 3),
		Badges:      doc.Badges,
		Boosters:    active,
		Quests:      doc.Quests,
		Inventory:   doc.Inventory,
		Activity:    tail(doc.Activity, 5),
		Stats:       doc.Stats,
		Plans:       s.planSummary(doc),
	}
}

func (s *Service) planSummary(doc *domain.GamificationDoc) PlanSummary {
	summary := PlanSummary{Total: len(doc.Plans), Upcoming: []*domain.StudyPlan{}}
	today := s.today()

	var upcoming []*domain.StudyPlan
	for _, plan := range doc.Plans {
		if plan.Completed {
			summary.Completed++
			continue
		}
		summary.Active++
		if plan.TestDate >= today {
			upcoming = append(upcoming, plan)
		}
	}

	sort.SliceStable(upcoming, func(i, j int) bool { return upcoming[i].TestDate < upcoming[j].TestDate })
	if len(upcoming) > 3 {
		upcoming = upcoming[:3]
	}
	summary.Upcoming = append(summary.Upcoming, upcoming...)
	return summary
}

func tail[T any](list []T, n int) []T {
	if len(list) > n {
		list = list[len(list)-n:]
	}
	return append([]T{}, list...)
}
