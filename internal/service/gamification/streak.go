package gamification

import (
	"context"
	"time"

	"github.com/heartmarshall/studyhall-backend/internal/domain"
)

// LoginResult describes the streak outcome of a daily login.
type LoginResult struct {
	Current    int     `json:"current"`
	Max        int     `json:"max"`
	FlameLevel int     `json:"flame_level"`
	Multiplier float64 `json:"multiplier"`
	Points     int     `json:"points_earned"`
	XP         int     `json:"xp_gained"`
	ShieldUsed bool    `json:"shield_used,omitempty"`
}

// RecordLogin updates the login streak for today. Repeat calls on the same
// day are no-ops. A missed day consumes a streak shield if one is active,
// otherwise the streak resets.
func (s *Service) RecordLogin(ctx context.Context) (*LoginResult, error) {
	var result *LoginResult
	err := s.update(ctx, func(doc *domain.GamificationDoc) error {
		result = s.applyLogin(doc)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Service) applyLogin(doc *domain.GamificationDoc) *LoginResult {
	today := s.today()

	if doc.Streak.LastLogin == "" {
		doc.Streak.Current = 1
		doc.Streak.Max = 1
		doc.Streak.LastLogin = today
		award := s.applyPoints(doc, 10, "First login")
		s.countLogin(doc)
		s.refreshQuests(doc)
		s.questAction(doc, actionLogin)
		return s.loginResult(doc, award, false)
	}

	if doc.Streak.LastLogin == today {
		return s.loginResult(doc, &Award{Multiplier: doc.Streak.Multiplier}, false)
	}

	gap := daysBetween(doc.Streak.LastLogin, today)
	switch {
	case gap == 1:
		doc.Streak.Current++
		if doc.Streak.Current > doc.Streak.Max {
			doc.Streak.Max = doc.Streak.Current
		}
		updateFlame(&doc.Streak)

		points := 5 + doc.Streak.Current*2
		if points > 50 {
			points = 50
		}
		award := s.applyPoints(doc, points, "Login streak")
		s.checkStreakAchievements(doc)
		doc.Streak.LastLogin = today
		s.countLogin(doc)
		s.refreshQuests(doc)
		s.questAction(doc, actionLogin)
		return s.loginResult(doc, award, false)

	default:
		if _, ok := doc.TakeBooster(domain.BoosterStreakShield, s.now().UTC()); ok {
			// Shield preserves the streak across the gap.
			doc.Streak.LastLogin = today
			updateFlame(&doc.Streak)
			s.logActivity(doc, "Streak shield used", 0, 0)
			award := s.applyPoints(doc, 10, "Login protected by streak shield")
			s.countLogin(doc)
			s.refreshQuests(doc)
			s.questAction(doc, actionLogin)
			return s.loginResult(doc, award, true)
		}

		doc.Streak.Current = 1
		doc.Streak.LastLogin = today
		doc.Streak.FlameLevel = 0
		doc.Streak.Multiplier = 1.0
		award := s.applyPoints(doc, 5, "Login after a break")
		s.countLogin(doc)
		s.refreshQuests(doc)
		s.questAction(doc, actionLogin)
		return s.loginResult(doc, award, false)
	}
}

func (s *Service) loginResult(doc *domain.GamificationDoc, award *Award, shieldUsed bool) *LoginResult {
	return &LoginResult{
		Current:    doc.Streak.Current,
		Max:        doc.Streak.Max,
		FlameLevel: doc.Streak.FlameLevel,
		Multiplier: doc.Streak.Multiplier,
		Points:     award.Points,
		XP:         award.XP,
		ShieldUsed: shieldUsed,
	}
}

// countLogin bumps the lifetime login counters, including the early-bird
// (before 08:00) and night-owl (22:00 or later) tallies.
func (s *Service) countLogin(doc *domain.GamificationDoc) {
	doc.Stats.LoginDays++
	switch hour := s.now().UTC().Hour(); {
	case hour < 8:
		doc.Stats.EarlyBirdLogins++
	case hour >= 22:
		doc.Stats.NightOwlLogins++
	}
}

// updateFlame maps the current streak onto a flame level and the point
// multiplier: 3/7/14/21/30 days give levels 1-5.
func updateFlame(streak *domain.LoginStreak) {
	switch {
	case streak.Current >= 30:
		streak.FlameLevel, streak.Multiplier = 5, 2.0
	case streak.Current >= 21:
		streak.FlameLevel, streak.Multiplier = 4, 1.8
	case streak.Current >= 14:
		streak.FlameLevel, streak.Multiplier = 3, 1.5
	case streak.Current >= 7:
		streak.FlameLevel, streak.Multiplier = 2, 1.3
	case streak.Current >= 3:
		streak.FlameLevel, streak.Multiplier = 1, 1.1
	default:
		streak.FlameLevel, streak.Multiplier = 0, 1.0
	}
}

// daysBetween returns the whole days from one civil date to another.
// Unparsable dates count as a long gap so the streak resets.
func daysBetween(from, to string) int {
	a, err1 := time.Parse(domain.DateLayout, from)
	b, err2 := time.Parse(domain.DateLayout, to)
	if err1 != nil || err2 != nil {
		return 1 << 20
	}
	return int(b.Sub(a).Hours() / 24)
}
