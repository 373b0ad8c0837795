package planner

import (
	"context"
	"time"

	"github.com/heartmarshall/studyhall-backend/internal/domain"
)

// GeneralStudySubject is assigned when nothing upcoming suggests a subject.
const GeneralStudySubject = "General Study"

// mondayWeekday converts Go's Sunday-first weekday to the 0=Monday
// convention used by study blocks.
func mondayWeekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// BuildSchedule packs study sessions into the user's weekly blocks over the
// requested horizon and replaces the persisted schedule with the result.
// Homework, when provided, is re-prioritized and persisted as a side effect.
func (s *Service) BuildSchedule(ctx context.Context, input BuildScheduleInput) ([]domain.ScheduledSession, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	start := s.today()
	if input.StartDate != "" {
		start, _ = time.Parse(domain.DateLayout, input.StartDate)
	}
	days := input.DaysAhead
	if days == 0 {
		days = s.defaults.HorizonDays
	}

	var schedule []domain.ScheduledSession
	err := s.update(ctx, func(doc *domain.PlannerDoc) error {
		ranked := s.rankHomework(input.Homework)
		if len(input.Homework) > 0 {
			doc.HomeworkPriorities = ranked
		}

		schedule = s.pack(doc, start, days, ranked, input.Tests)
		doc.ScheduledSessions = schedule
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("schedule rebuilt", "sessions", len(schedule), "days", days)
	return schedule, nil
}

// pack walks each day of the horizon, fitting session+break pairs into the
// day's blocks until the daily study cap is reached. A truncated session at
// the end of a block is kept only if it reaches MinSessionMinutes.
func (s *Service) pack(doc *domain.PlannerDoc, start time.Time, days int, ranked []domain.PrioritizedHomework, tests []domain.Test) []domain.ScheduledSession {
	prefs := doc.Preferences
	sessionLen := time.Duration(prefs.SessionLengthMinutes) * time.Minute
	breakLen := time.Duration(prefs.BreakLengthMinutes) * time.Minute

	schedule := []domain.ScheduledSession{}
	for offset := 0; offset < days; offset++ {
		date := start.AddDate(0, 0, offset)
		dow := mondayWeekday(date)

		var dayBlocks []domain.StudyBlock
		for _, b := range doc.StudyBlocks {
			if b.DayOfWeek == dow {
				dayBlocks = append(dayBlocks, b)
			}
		}
		if len(dayBlocks) == 0 {
			continue
		}

		dailyMinutes := 0
		for _, block := range dayBlocks {
			if dailyMinutes >= prefs.MaxDailyStudyMinutes {
				break
			}

			blockStart, err1 := time.Parse(domain.ClockLayout, block.StartTime)
			blockEnd, err2 := time.Parse(domain.ClockLayout, block.EndTime)
			if err1 != nil || err2 != nil {
				continue
			}
			startDt := time.Date(date.Year(), date.Month(), date.Day(),
				blockStart.Hour(), blockStart.Minute(), 0, 0, time.UTC)
			endDt := time.Date(date.Year(), date.Month(), date.Day(),
				blockEnd.Hour(), blockEnd.Minute(), 0, 0, time.UTC)

			blockMinutes := int(endDt.Sub(startDt).Minutes())
			if blockMinutes < prefs.SessionLengthMinutes {
				continue
			}

			// Sessions that fit with their trailing break, plus one more if
			// the leftover can hold a session without a break.
			withBreak := prefs.SessionLengthMinutes + prefs.BreakLengthMinutes
			maxSessions := blockMinutes / withBreak
			if blockMinutes%withBreak >= prefs.SessionLengthMinutes {
				maxSessions++
			}
			if byTime := (prefs.MaxDailyStudyMinutes - dailyMinutes) / prefs.SessionLengthMinutes; byTime < maxSessions {
				maxSessions = byTime
			}

			cur := startDt
			for i := 0; i < maxSessions; i++ {
				if dailyMinutes >= prefs.MaxDailyStudyMinutes {
					break
				}

				sessionEnd := cur.Add(sessionLen)
				if sessionEnd.After(endDt) {
					sessionEnd = endDt
				}
				actual := int(sessionEnd.Sub(cur).Minutes())
				if actual < MinSessionMinutes {
					break
				}

				schedule = append(schedule, domain.ScheduledSession{
					ID:              s.newID(),
					Date:            date.Format(domain.DateLayout),
					StartTime:       cur.Format(domain.ClockLayout),
					EndTime:         sessionEnd.Format(domain.ClockLayout),
					DurationMinutes: actual,
					Subject:         s.selectSubject(date, ranked, tests),
					Type:            domain.SessionTypeStudy,
					CreatedAt:       s.now(),
				})

				dailyMinutes += actual
				cur = sessionEnd.Add(breakLen)
				if !cur.Before(endDt) {
					break
				}
			}
		}
	}
	return schedule
}

// selectSubject picks the subject for one session: a randomly chosen test
// happening within three days wins, then the top high-priority homework,
// then medium, then any homework, then general study.
func (s *Service) selectSubject(date time.Time, ranked []domain.PrioritizedHomework, tests []domain.Test) string {
	var upcoming []domain.Test
	for _, test := range tests {
		testDate, err := time.Parse(domain.DateLayout, test.Date)
		if err != nil {
			continue
		}
		daysUntil := int(testDate.Sub(date).Hours() / 24)
		if daysUntil >= 0 && daysUntil <= 3 {
			upcoming = append(upcoming, test)
		}
	}
	if len(upcoming) > 0 {
		chosen := upcoming[s.rng.Intn(len(upcoming))]
		if chosen.Subject != "" {
			return chosen.Subject
		}
		return GeneralStudySubject
	}

	for _, level := range []domain.PriorityLevel{domain.PriorityHigh, domain.PriorityMedium} {
		for _, hw := range ranked {
			if hw.PriorityLevel == level {
				if hw.Subject != "" {
					return hw.Subject
				}
				return GeneralStudySubject
			}
		}
	}
	if len(ranked) > 0 {
		if ranked[0].Subject != "" {
			return ranked[0].Subject
		}
	}
	return GeneralStudySubject
}

// Sessions returns persisted sessions within [from, to] inclusive; empty
// bounds are open-ended.
func (s *Service) Sessions(ctx context.Context, from, to string) ([]domain.ScheduledSession, error) {
	if from != "" {
		if _, err := time.Parse(domain.DateLayout, from); err != nil {
			return nil, domain.NewValidationError("from", "must be YYYY-MM-DD")
		}
	}
	if to != "" {
		if _, err := time.Parse(domain.DateLayout, to); err != nil {
			return nil, domain.NewValidationError("to", "must be YYYY-MM-DD")
		}
	}

	var sessions []domain.ScheduledSession
	err := s.view(ctx, func(doc *domain.PlannerDoc) error {
		for _, sess := range doc.ScheduledSessions {
			if from != "" && sess.Date < from {
				continue
			}
			if to != "" && sess.Date > to {
				continue
			}
			sessions = append(sessions, sess)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sessions, nil
}
