package gamification

import (
	"context"

	"github.com/heartmarshall/studyhall-backend/internal/domain"
)

// TrackHomeworkDone awards points for a completed assignment, with a bonus
// at the 5/10/25/50/100 milestones.
func (s *Service) TrackHomeworkDone(ctx context.Context) (*Award, error) {
	var award *Award
	err := s.update(ctx, func(doc *domain.GamificationDoc) error {
		doc.Stats.HomeworkDone++

		points := 15
		if milestone(doc.Stats.HomeworkDone, 5, 10, 25, 50, 100) {
			points += doc.Stats.HomeworkDone * 2
		}
		award = s.applyPoints(doc, points, "Homework completed")
		s.checkHomeworkAchievements(doc)
		s.questAction(doc, actionHomework)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return award, nil
}

// TrackStudySession awards points for a finished flashcard session. The
// grant scales with accuracy, the study streak, and session milestones.
func (s *Service) TrackStudySession(ctx context.Context, setID string, stats domain.SessionStats) (*Award, error) {
	if stats.Total <= 0 {
		return nil, domain.NewValidationErrors([]domain.FieldError{
			{Field: "stats.total", Message: "must be positive"},
		})
	}

	var award *Award
	err := s.update(ctx, func(doc *domain.GamificationDoc) error {
		doc.Stats.SessionsCompleted++
		doc.Stats.CardsReviewed += stats.Total
		doc.Stats.CorrectReviews += stats.Correct()
		if stats.Failed == 0 && stats.Hard == 0 {
			doc.Stats.PerfectSessions++
		}
		if setID != "" && !doc.Stats.HasStudiedSet(setID) {
			doc.Stats.SetsStudied = append(doc.Stats.SetsStudied, setID)
		}
		s.bumpStudyStreak(doc)

		points := 10
		switch ratio := float64(stats.Correct()) / float64(stats.Total); {
		case ratio >= 0.9:
			points += 15
		case ratio >= 0.7:
			points += 10
		case ratio >= 0.5:
			points += 5
		}
		if doc.Stats.StudyStreak >= 5 {
			points += doc.Stats.StudyStreak
		}
		if milestone(doc.Stats.SessionsCompleted, 5, 10, 25, 50, 100) {
			points += doc.Stats.SessionsCompleted * 2
		}

		award = s.applyPoints(doc, points, "Study session finished")
		s.checkSessionAchievements(doc)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return award, nil
}

func (s *Service) bumpStudyStreak(doc *domain.GamificationDoc) {
	today := s.today()
	switch {
	case doc.Stats.LastStudyDate == "":
		doc.Stats.StudyStreak = 1
	case doc.Stats.LastStudyDate == today:
		// Already studied today.
	case daysBetween(doc.Stats.LastStudyDate, today) == 1:
		doc.Stats.StudyStreak++
	default:
		doc.Stats.StudyStreak = 1
	}
	doc.Stats.LastStudyDate = today
}

// TrackGradeView awards points for checking grades, at most once per day.
func (s *Service) TrackGradeView(ctx context.Context) (*Award, error) {
	return s.trackDaily(ctx, "viewed_grades", "Checked grades", func(doc *domain.GamificationDoc) {
		doc.Stats.GradesViewed++
		s.checkGradeAchievements(doc)
		s.questAction(doc, actionCheckGrades)
	})
}

// TrackTimetableView awards points for checking the timetable, at most
// once per day.
func (s *Service) TrackTimetableView(ctx context.Context) (*Award, error) {
	return s.trackDaily(ctx, "checked_timetable", "Checked timetable", func(doc *domain.GamificationDoc) {
		doc.Stats.TimetableChecks++
		s.checkTimetableAchievements(doc)
		s.questAction(doc, actionCheckTimetable)
	})
}

// trackDaily runs the counter update and a 5-point grant unless the action
// was already rewarded today.
func (s *Service) trackDaily(ctx context.Context, key, reason string, bump func(doc *domain.GamificationDoc)) (*Award, error) {
	var award *Award
	err := s.update(ctx, func(doc *domain.GamificationDoc) error {
		today := s.today()
		if doc.LastAwarded[key] == today {
			award = &Award{Multiplier: doc.Streak.Multiplier}
			return nil
		}
		if doc.LastAwarded == nil {
			doc.LastAwarded = map[string]string{}
		}
		doc.LastAwarded[key] = today

		bump(doc)
		award = s.applyPoints(doc, 5, reason)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return award, nil
}

// TrackMessageSent awards points for a sent message, with a bonus at the
// 5/10/25/50 milestones.
func (s *Service) TrackMessageSent(ctx context.Context) (*Award, error) {
	var award *Award
	err := s.update(ctx, func(doc *domain.GamificationDoc) error {
		doc.Stats.MessagesSent++

		points := 10
		if milestone(doc.Stats.MessagesSent, 5, 10, 25, 50) {
			points += doc.Stats.MessagesSent
		}
		award = s.applyPoints(doc, points, "Message sent")
		s.checkMessageAchievements(doc)
		s.questAction(doc, actionSendMessage)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return award, nil
}

// ActivityHistory returns the newest entries of the activity log, up to
// limit (default 20).
func (s *Service) ActivityHistory(ctx context.Context, limit int) ([]domain.ActivityEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	var out []domain.ActivityEntry
	err := s.view(ctx, func(doc *domain.GamificationDoc) error {
		entries := doc.Activity
		if len(entries) > limit {
			entries = entries[len(entries)-limit:]
		}
		out = append([]domain.ActivityEntry{}, entries...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func milestone(n int, marks ...int) bool {
	for _, m := range marks {
		if n == m {
			return true
		}
	}
	return false
}
