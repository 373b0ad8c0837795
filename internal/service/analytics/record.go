package analytics

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/heartmarshall/studyhall-backend/internal/domain"
)

// RecordSessionInput holds the parameters for tracking one completed
// flashcard study session.
type RecordSessionInput struct {
	SetID           string
	Stats           domain.SessionStats
	DurationSeconds int
}

// Validate checks all fields and collects all errors.
func (i *RecordSessionInput) Validate() error {
	var errs []domain.FieldError

	if i.SetID == "" {
		errs = append(errs, domain.FieldError{Field: "set_id", Message: "required"})
	}
	if i.DurationSeconds < 0 {
		errs = append(errs, domain.FieldError{Field: "duration", Message: "must be non-negative"})
	}
	if i.Stats.Failed < 0 || i.Stats.Hard < 0 || i.Stats.Good < 0 || i.Stats.Easy < 0 || i.Stats.Total < 0 {
		errs = append(errs, domain.FieldError{Field: "stats", Message: "counters must be non-negative"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// RecordSession appends a study session and rolls it into every aggregate:
// subject performance, daily/weekly/monthly buckets, the study streak,
// total study time, and derived habits.
func (s *Service) RecordSession(ctx context.Context, input RecordSessionInput) (*domain.StudySessionRecord, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	set, err := s.sets.GetSet(ctx, input.SetID)
	if err != nil {
		return nil, fmt.Errorf("resolve set: %w", err)
	}

	now := s.now().UTC()
	record := domain.StudySessionRecord{
		ID:              s.newID(),
		Type:            "flashcard",
		SetID:           set.ID,
		SetName:         set.Name,
		Subject:         set.Subject,
		Date:            now,
		DayOfWeek:       (int(now.Weekday()) + 6) % 7,
		HourOfDay:       now.Hour(),
		DurationSeconds: input.DurationSeconds,
		Stats:           input.Stats,
		Performance:     performance(input.Stats),
	}

	err = s.update(ctx, func(doc *domain.AnalyticsDoc) error {
		doc.Sessions = append(doc.Sessions, record)

		applySubjectPerformance(doc, record)
		applyBuckets(doc, record, now)
		applyStreak(doc, civilDate(now))
		doc.TotalStudySeconds += record.DurationSeconds
		doc.Habits = deriveHabits(doc.Sessions)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("session recorded",
		"set_id", record.SetID, "cards", record.Stats.Total, "duration_s", record.DurationSeconds)
	return &record, nil
}

// performance weights grades into a 0-100 score, rounded to one decimal.
func performance(stats domain.SessionStats) float64 {
	if stats.Total == 0 {
		return 0
	}
	weighted := float64(stats.Easy)*1.0 + float64(stats.Good)*0.8 + float64(stats.Hard)*0.4
	return math.Round(weighted/float64(stats.Total)*1000) / 10
}

func civilDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func applySubjectPerformance(doc *domain.AnalyticsDoc, rec domain.StudySessionRecord) {
	subject := rec.Subject
	if subject == "" {
		subject = "Unknown"
	}
	perf, ok := doc.SubjectPerformance[subject]
	if !ok {
		perf = &domain.SubjectPerformance{}
		doc.SubjectPerformance[subject] = perf
	}

	perf.Sessions++
	perf.TotalCards += rec.Stats.Total
	perf.CorrectCards += rec.Stats.Correct()
	perf.TotalTimeSeconds += rec.DurationSeconds
	if perf.TotalCards > 0 {
		perf.Mastery = math.Round(float64(perf.CorrectCards)/float64(perf.TotalCards)*1000) / 10
	}
}

func applyBuckets(doc *domain.AnalyticsDoc, rec domain.StudySessionRecord, now time.Time) {
	dateKey := now.Format(domain.DateLayout)
	year, week := now.ISOWeek()
	weekKey := fmt.Sprintf("%d-W%02d", year, week)
	monthKey := fmt.Sprintf("%d-%02d", now.Year(), int(now.Month()))

	bump := func(m map[string]*domain.BucketStats, key string, trackDays bool) {
		b, ok := m[key]
		if !ok {
			b = &domain.BucketStats{}
			if trackDays {
				b.DaysStudied = []string{}
			}
			m[key] = b
		}
		b.StudyTimeSeconds += rec.DurationSeconds
		b.CardsReviewed += rec.Stats.Total
		b.CorrectCards += rec.Stats.Correct()
		b.Sessions++
		if trackDays && !contains(b.DaysStudied, dateKey) {
			b.DaysStudied = append(b.DaysStudied, dateKey)
		}
	}

	bump(doc.DailyStats, dateKey, false)
	bump(doc.WeeklyStats, weekKey, true)
	bump(doc.MonthlyStats, monthKey, true)
}

func contains(s []string, v string) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}

// applyStreak updates the consecutive-day counter: studying again on the
// same day is a no-op, the next day extends the streak, a gap resets it.
func applyStreak(doc *domain.AnalyticsDoc, studyDate time.Time) {
	dateKey := studyDate.Format(domain.DateLayout)

	if doc.LastStudyDate == "" {
		doc.StudyStreak = 1
		doc.LastStudyDate = dateKey
		return
	}

	last, err := time.Parse(domain.DateLayout, doc.LastStudyDate)
	if err != nil {
		doc.StudyStreak = 1
		doc.LastStudyDate = dateKey
		return
	}

	gap := int(studyDate.Sub(last).Hours() / 24)
	switch {
	case gap == 0:
		return
	case gap == 1:
		doc.StudyStreak++
	case gap > 1:
		doc.StudyStreak = 1
	}
	doc.LastStudyDate = dateKey
}

// deriveHabits recomputes the modal study hour, top three study days, and
// top three subjects from the full session history. Ties resolve to the
// smaller hour/day and to lexicographic subject order.
func deriveHabits(sessions []domain.StudySessionRecord) domain.StudyHabits {
	hourCounts := map[int]int{}
	dayCounts := map[int]int{}
	subjectCounts := map[string]int{}

	for _, sess := range sessions {
		hourCounts[sess.HourOfDay]++
		dayCounts[sess.DayOfWeek]++
		if sess.Subject != "" && sess.Subject != "Unknown" {
			subjectCounts[sess.Subject]++
		}
	}

	habits := domain.StudyHabits{}

	if len(hourCounts) > 0 {
		best, bestCount := 0, -1
		for hour := 0; hour < 24; hour++ {
			if c := hourCounts[hour]; c > bestCount {
				best, bestCount = hour, c
			}
		}
		habits.BestStudyHour = &best
	}

	if len(dayCounts) > 0 {
		days := make([]int, 0, len(dayCounts))
		for d := range dayCounts {
			days = append(days, d)
		}
		sort.Slice(days, func(i, j int) bool {
			if dayCounts[days[i]] != dayCounts[days[j]] {
				return dayCounts[days[i]] > dayCounts[days[j]]
			}
			return days[i] < days[j]
		})
		if len(days) > 3 {
			days = days[:3]
		}
		habits.BestStudyDays = days
	}

	if len(subjectCounts) > 0 {
		subjects := make([]string, 0, len(subjectCounts))
		for subj := range subjectCounts {
			subjects = append(subjects, subj)
		}
		sort.Slice(subjects, func(i, j int) bool {
			if subjectCounts[subjects[i]] != subjectCounts[subjects[j]] {
				return subjectCounts[subjects[i]] > subjectCounts[subjects[j]]
			}
			return subjects[i] < subjects[j]
		})
		if len(subjects) > 3 {
			subjects = subjects[:3]
		}
		habits.FavoriteSubjects = subjects
	}

	return habits
}
