package gamification

import (
	"context"
	"fmt"

	"github.com/heartmarshall/studyhall-backend/internal/domain"
)

// Quest action identifiers, matched against tracked events.
const (
	actionLogin          = "login"
	actionCheckGrades    = "check_grades"
	actionCheckTimetable = "check_timetable"
	actionHomework       = "complete_homework"
	actionSendMessage    = "send_message"
)

type questDef struct {
	ID          string
	Name        string
	Description string
	Action      string
	Target      int
	XP          int
}

// The login quest is always assigned; two more are drawn from the rest.
var dailyQuestPool = []questDef{
	{"login", "Daily Login", "Log in today", actionLogin, 1, 20},
	{"check_grades", "Check Grades", "Look at your grades today", actionCheckGrades, 1, 30},
	{"check_timetable", "Check Timetable", "Look at your timetable today", actionCheckTimetable, 1, 30},
	{"complete_homework", "Finish an Assignment", "Mark one assignment as done", actionHomework, 1, 50},
	{"send_message", "Send a Message", "Send a message to a teacher or classmate", actionSendMessage, 1, 40},
}

var weeklyQuestPool = []questDef{
	{"login_streak_5", "Five-Day Streak", "Log in 5 days this week", actionLogin, 5, 100},
	{"complete_5_homework", "Five Assignments", "Finish 5 assignments this week", actionHomework, 5, 150},
	{"check_grades_3", "Grades Three Times", "Check your grades on 3 different days", actionCheckGrades, 3, 80},
	{"send_3_messages", "Three Messages", "Send 3 messages this week", actionSendMessage, 3, 120},
}

// refreshQuests regenerates daily quests when none are assigned for today
// and weekly quests when none are assigned for the current ISO week.
// Stale assignments are dropped.
func (s *Service) refreshQuests(doc *domain.GamificationDoc) {
	today := s.today()
	week := s.weekKey()

	var kept []domain.Quest
	haveDaily, haveWeekly := false, false
	for _, q := range doc.Quests {
		switch q.Period {
		case domain.QuestDaily:
			if q.AssignedFor == today {
				kept = append(kept, q)
				haveDaily = true
			}
		case domain.QuestWeekly:
			if q.AssignedFor == week {
				kept = append(kept, q)
				haveWeekly = true
			}
		}
	}
	doc.Quests = kept

	if !haveDaily {
		picks := []questDef{dailyQuestPool[0]}
		picks = append(picks, s.sample(dailyQuestPool[1:], 2)...)
		for _, def := range picks {
			doc.Quests = append(doc.Quests, newQuest(def, domain.QuestDaily, today))
		}
	}
	if !haveWeekly {
		for _, def := range s.sample(weeklyQuestPool, 3) {
			doc.Quests = append(doc.Quests, newQuest(def, domain.QuestWeekly, week))
		}
	}
}

func newQuest(def questDef, period domain.QuestPeriod, assignedFor string) domain.Quest {
	return domain.Quest{
		ID:          def.ID,
		Period:      period,
		Name:        def.Name,
		Description: def.Description,
		Action:      def.Action,
		Target:      def.Target,
		XP:          def.XP,
		AssignedFor: assignedFor,
	}
}

// sample draws n distinct quest definitions without replacement.
func (s *Service) sample(pool []questDef, n int) []questDef {
	idx := s.rng.Perm(len(pool))
	if n > len(idx) {
		n = len(idx)
	}
	out := make([]questDef, 0, n)
	for _, i := range idx[:n] {
		out = append(out, pool[i])
	}
	return out
}

// questAction advances every current quest bound to the action and pays
// out the XP reward on completion.
func (s *Service) questAction(doc *domain.GamificationDoc, action string) {
	today := s.today()
	week := s.weekKey()

	for i := range doc.Quests {
		q := &doc.Quests[i]
		if q.Completed || q.Action != action {
			continue
		}
		if q.Period == domain.QuestDaily && q.AssignedFor != today {
			continue
		}
		if q.Period == domain.QuestWeekly && q.AssignedFor != week {
			continue
		}

		q.Progress++
		if q.Progress >= q.Target {
			q.Completed = true
			s.grantXP(doc, q.XP, "Quest completed: "+q.Name)
		}
	}
}

// weekKey returns the current ISO week in YYYY-Wnn form.
func (s *Service) weekKey() string {
	year, week := s.now().UTC().ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// Quests returns the quests assigned for today and the current week,
// refreshing them first.
func (s *Service) Quests(ctx context.Context) ([]domain.Quest, error) {
	var out []domain.Quest
	err := s.update(ctx, func(doc *domain.GamificationDoc) error {
		s.refreshQuests(doc)
		out = append([]domain.Quest{}, doc.Quests...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
