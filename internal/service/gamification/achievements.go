package gamification

import (
	"context"
	"time"

	"github.com/heartmarshall/studyhall-backend/internal/domain"
)

// badgeXP is granted alongside every badge.
const badgeXP = 50

type achievementDef struct {
	ID          string
	Name        string
	Description string
	Icon        string
	Threshold   int
	Points      int
	Badge       bool
}

var streakAchievements = []achievementDef{
	{"streak_3", "Three-Day Streak", "Log in 3 days in a row", "🔥", 3, 20, false},
	{"streak_7", "Week Warrior", "Log in 7 days in a row", "🔥", 7, 50, false},
	{"streak_14", "Fortnight Fighter", "Log in 14 days in a row", "🔥", 14, 100, false},
	{"streak_30", "Month Master", "Log in 30 days in a row", "🔥", 30, 200, true},
	{"streak_60", "Season Warrior", "Log in 60 days in a row", "🔥", 60, 300, true},
	{"streak_100", "Legend of Consistency", "Log in 100 days in a row", "🔥", 100, 500, true},
}

var homeworkAchievements = []achievementDef{
	{"hw_5", "Homework Beginner", "Complete 5 assignments", "📚", 5, 25, false},
	{"hw_20", "Homework Hero", "Complete 20 assignments", "📚", 20, 75, false},
	{"hw_50", "Homework Master", "Complete 50 assignments", "📚", 50, 150, true},
	{"hw_100", "Homework Legend", "Complete 100 assignments", "📚", 100, 300, true},
	{"hw_200", "Homework Scholar", "Complete 200 assignments", "📚", 200, 500, true},
}

var gradeAchievements = []achievementDef{
	{"grades_5", "Grade Watcher", "Check your grades 5 times", "🏆", 5, 20, false},
	{"grades_15", "Grade Analyst", "Check your grades 15 times", "🏆", 15, 50, false},
	{"grades_30", "Grade Expert", "Check your grades 30 times", "🏆", 30, 100, false},
	{"grades_50", "Grade Master", "Check your grades 50 times", "🏆", 50, 150, false},
}

var timetableAchievements = []achievementDef{
	{"timetable_5", "Novice Planner", "Check your timetable 5 times", "🏆", 5, 20, false},
	{"timetable_15", "Organizer", "Check your timetable 15 times", "🏆", 15, 50, false},
	{"timetable_30", "Time Master", "Check your timetable 30 times", "🏆", 30, 100, false},
	{"timetable_50", "Supreme Timekeeper", "Check your timetable 50 times", "🏆", 50, 150, false},
}

var messageAchievements = []achievementDef{
	{"msg_5", "New Communicator", "Send 5 messages", "💬", 5, 25, false},
	{"msg_15", "Active Communicator", "Send 15 messages", "💬", 15, 50, false},
	{"msg_30", "Expert Communicator", "Send 30 messages", "💬", 30, 100, true},
	{"msg_50", "Master of Communication", "Send 50 messages", "💬", 50, 150, true},
}

var planCreateAchievements = []achievementDef{
	{"plan_create_3", "Plan Starter", "Create 3 study plans", "📝", 3, 30, false},
	{"plan_create_10", "Plan Expert", "Create 10 study plans", "📝", 10, 75, false},
}

var planCompleteAchievements = []achievementDef{
	{"plan_complete_3", "Disciplined Student", "Complete 3 study plans", "📝", 3, 50, false},
	{"plan_complete_10", "Master of Study", "Complete 10 study plans", "📝", 10, 150, true},
}

var sessionAchievements = []achievementDef{
	{"fc_5", "Flashcard Apprentice", "Finish 5 study sessions", "🏆", 5, 30, false},
	{"fc_20", "Diligent Student", "Finish 20 study sessions", "🏆", 20, 80, false},
	{"fc_50", "Memorization Master", "Finish 50 study sessions", "🏆", 50, 200, true},
	{"fc_100", "Flashcard Genius", "Finish 100 study sessions", "🏆", 100, 350, true},
	{"fc_200", "Sage of Knowledge", "Finish 200 study sessions", "🏆", 200, 600, true},
}

var perfectSessionAchievements = []achievementDef{
	{"fc_perfect_5", "Photographic Memory", "Score 5 perfect sessions", "🏆", 5, 50, true},
	{"fc_perfect_25", "Elephant Memory", "Score 25 perfect sessions", "🏆", 25, 150, true},
}

var reviewAchievements = []achievementDef{
	{"fc_reviews_100", "Centurion", "Review 100 cards", "🏆", 100, 40, false},
	{"fc_reviews_500", "Steady Reviewer", "Review 500 cards", "🏆", 500, 100, false},
	{"fc_reviews_1000", "Review Master", "Review 1000 cards", "🏆", 1000, 250, true},
}

var studyStreakAchievements = []achievementDef{
	{"fc_streak_3", "Budding Habit", "Keep a 3-day study streak", "🔥", 3, 25, true},
	{"fc_streak_7", "Weekly Habit", "Keep a 7-day study streak", "🔥", 7, 60, true},
	{"fc_streak_30", "Monthly Habit", "Keep a 30-day study streak", "🔥", 30, 200, true},
}

var setsStudiedAchievements = []achievementDef{
	{"fc_sets_3", "Explorer", "Study 3 different card sets", "🏆", 3, 30, false},
	{"fc_sets_10", "Polymath", "Study 10 different card sets", "🏆", 10, 80, true},
}

// unlock awards every achievement in defs whose threshold the value meets,
// once per achievement id.
func (s *Service) unlock(doc *domain.GamificationDoc, defs []achievementDef, value int) {
	for _, def := range defs {
		if value < def.Threshold || doc.HasAchievement(def.ID) {
			continue
		}
		doc.Achievements = append(doc.Achievements, domain.Achievement{
			ID:          def.ID,
			Name:        def.Name,
			Description: def.Description,
			Icon:        def.Icon,
			Points:      def.Points,
			UnlockedAt:  s.now().UTC(),
		})
		s.applyPoints(doc, def.Points, "Achievement: "+def.Name)
		s.log.Info("achievement unlocked", "id", def.ID)

		if def.Badge {
			s.awardBadge(doc, def)
		}
	}
}

func (s *Service) checkStreakAchievements(doc *domain.GamificationDoc) {
	s.unlock(doc, streakAchievements, doc.Streak.Current)
}

func (s *Service) checkHomeworkAchievements(doc *domain.GamificationDoc) {
	s.unlock(doc, homeworkAchievements, doc.Stats.HomeworkDone)
}

func (s *Service) checkSessionAchievements(doc *domain.GamificationDoc) {
	s.unlock(doc, sessionAchievements, doc.Stats.SessionsCompleted)
	s.unlock(doc, perfectSessionAchievements, doc.Stats.PerfectSessions)
	s.unlock(doc, reviewAchievements, doc.Stats.CardsReviewed)
	s.unlock(doc, studyStreakAchievements, doc.Stats.StudyStreak)
	s.unlock(doc, setsStudiedAchievements, len(doc.Stats.SetsStudied))
}

func (s *Service) checkGradeAchievements(doc *domain.GamificationDoc) {
	s.unlock(doc, gradeAchievements, doc.Stats.GradesViewed)
}

func (s *Service) checkTimetableAchievements(doc *domain.GamificationDoc) {
	s.unlock(doc, timetableAchievements, doc.Stats.TimetableChecks)
}

func (s *Service) checkMessageAchievements(doc *domain.GamificationDoc) {
	s.unlock(doc, messageAchievements, doc.Stats.MessagesSent)
}

func (s *Service) checkPlanAchievements(doc *domain.GamificationDoc) {
	s.unlock(doc, planCreateAchievements, doc.Stats.PlansCreated)
	s.unlock(doc, planCompleteAchievements, doc.Stats.PlansCompleted)
}

// awardBadge records the badge once, grants its XP, and hands out any
// special reward bound to the badge id.
func (s *Service) awardBadge(doc *domain.GamificationDoc, def achievementDef) {
	if doc.HasBadge(def.ID) {
		return
	}
	doc.Badges = append(doc.Badges, domain.Badge{
		ID:          def.ID,
		Name:        def.Name,
		Description: def.Description,
		Icon:        def.Icon,
		Rarity:      badgeRarity(def.ID),
		EarnedAt:    s.now().UTC(),
	})
	s.grantXP(doc, badgeXP, "Badge earned: "+def.Name)
	s.awardBadgeReward(doc, def.ID)
}

func badgeRarity(badgeID string) domain.BadgeRarity {
	switch badgeID {
	case "streak_100", "hw_200", "plan_complete_10", "fc_200":
		return domain.RarityLegendary
	case "streak_60", "hw_100", "msg_50", "fc_100", "fc_streak_30":
		return domain.RarityEpic
	case "streak_30", "hw_50", "msg_30", "fc_50", "fc_streak_7":
		return domain.RarityRare
	default:
		return domain.RarityCommon
	}
}

type badgeReward struct {
	kind string // avatar, theme, booster
	id   string
	name string
	days int // booster lifetime
}

var badgeRewards = map[string]badgeReward{
	"streak_30":        {kind: "avatar", id: "flame_master", name: "Flame Master"},
	"streak_60":        {kind: "theme", id: "dark_flame", name: "Dark Flame"},
	"streak_100":       {kind: "booster", id: "permanent_shield", name: "Permanent Shield", days: 365},
	"hw_50":            {kind: "avatar", id: "homework_master", name: "Homework Master"},
	"hw_100":           {kind: "theme", id: "scholar", name: "Scholar"},
	"hw_200":           {kind: "booster", id: "double_points", name: "Double Points", days: 7},
	"msg_30":           {kind: "avatar", id: "communicator", name: "Communicator"},
	"msg_50":           {kind: "theme", id: "social", name: "Social"},
	"plan_complete_10": {kind: "booster", id: "study_master", name: "Study Master", days: 7},
}

func (s *Service) awardBadgeReward(doc *domain.GamificationDoc, badgeID string) {
	reward, ok := badgeRewards[badgeID]
	if !ok {
		return
	}

	switch reward.kind {
	case "avatar":
		if !contains(doc.Inventory.Avatars, reward.id) {
			doc.Inventory.Avatars = append(doc.Inventory.Avatars, reward.id)
			s.logActivity(doc, "Avatar unlocked: "+reward.name, 0, 0)
		}
	case "theme":
		if !contains(doc.Inventory.Themes, reward.id) {
			doc.Inventory.Themes = append(doc.Inventory.Themes, reward.id)
			s.logActivity(doc, "Theme unlocked: "+reward.name, 0, 0)
		}
	case "booster":
		now := s.now().UTC()
		doc.Inventory.Boosters = append(doc.Inventory.Boosters, domain.Booster{
			ID:        s.newID(),
			Type:      reward.id,
			Name:      reward.name,
			EarnedAt:  now,
			ExpiresAt: now.Add(time.Duration(reward.days) * 24 * time.Hour),
		})
		s.logActivity(doc, "Booster unlocked: "+reward.name, 0, 0)
	}
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// Achievements returns the unlocked achievements in unlock order.
func (s *Service) Achievements(ctx context.Context) ([]domain.Achievement, error) {
	var out []domain.Achievement
	err := s.view(ctx, func(doc *domain.GamificationDoc) error {
		out = doc.Achievements
		return nil
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Achievement{}
	}
	return out, nil
}

// Badges returns the earned badges in earn order.
func (s *Service) Badges(ctx context.Context) ([]domain.Badge, error) {
	var out []domain.Badge
	err := s.view(ctx, func(doc *domain.GamificationDoc) error {
		out = doc.Badges
		return nil
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Badge{}
	}
	return out, nil
}
