package gamification

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/heartmarshall/studyhall-backend/internal/domain"
)

// xpPerPoint converts awarded points to experience.
const xpPerPoint = 5

// Award reports the outcome of a single point grant.
type Award struct {
	Points     int             `json:"points_earned"`
	XP         int             `json:"xp_gained"`
	Multiplier float64         `json:"multiplier"`
	LeveledUp  bool            `json:"leveled_up"`
	OldLevel   int             `json:"old_level,omitempty"`
	NewLevel   int             `json:"new_level,omitempty"`
	Booster    *domain.Booster `json:"booster,omitempty"`
}

// AddPoints grants points for the given reason, applying the streak
// multiplier and any resulting level-ups.
func (s *Service) AddPoints(ctx context.Context, points int, reason string) (*Award, error) {
	var errs []domain.FieldError
	if points <= 0 {
		errs = append(errs, domain.FieldError{Field: "points", Message: "must be positive"})
	}
	if reason == "" {
		errs = append(errs, domain.FieldError{Field: "reason", Message: "is required"})
	}
	if len(errs) > 0 {
		return nil, domain.NewValidationErrors(errs)
	}

	var award *Award
	err := s.update(ctx, func(doc *domain.GamificationDoc) error {
		award = s.applyPoints(doc, points, reason)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return award, nil
}

// applyPoints mutates doc in place: multiplied points, XP, the capped
// activity log, and the level-up loop. Callers hold the document lock.
func (s *Service) applyPoints(doc *domain.GamificationDoc, points int, reason string) *Award {
	multiplier := doc.Streak.Multiplier
	if multiplier <= 0 {
		multiplier = 1.0
	}
	adjusted := int(float64(points) * multiplier)
	xp := adjusted * xpPerPoint

	doc.Points += adjusted
	doc.XP += xp
	s.logActivity(doc, reason, adjusted, xp)

	award := &Award{Points: adjusted, XP: xp, Multiplier: multiplier}
	s.applyLevelUps(doc, award)
	return award
}

// applyLevelUps advances the level while XP covers the next threshold.
// Each level grants a random booster; XP thresholds follow 100*level^1.5.
func (s *Service) applyLevelUps(doc *domain.GamificationDoc, award *Award) {
	oldLevel := doc.Level
	for doc.XP >= doc.NextLevelXP {
		doc.Level++
		doc.NextLevelXP = nextLevelXP(doc.Level)

		booster := s.awardRandomBooster(doc)
		award.Booster = &booster
		s.logActivity(doc, fmt.Sprintf("Level up! %d -> %d", doc.Level-1, doc.Level), 0, 0)
	}
	if doc.Level > oldLevel {
		award.LeveledUp = true
		award.OldLevel = oldLevel
		award.NewLevel = doc.Level
		s.log.Info("level up", "old", oldLevel, "new", doc.Level)
	}
}

func nextLevelXP(level int) int {
	return int(100 * math.Pow(float64(level), 1.5))
}

// grantXP adds raw XP without a point grant (badges, quest rewards).
func (s *Service) grantXP(doc *domain.GamificationDoc, xp int, reason string) {
	doc.XP += xp
	s.logActivity(doc, reason, 0, xp)

	var award Award
	s.applyLevelUps(doc, &award)
}

func (s *Service) logActivity(doc *domain.GamificationDoc, action string, points, xp int) {
	doc.Activity = append(doc.Activity, domain.ActivityEntry{
		Action: action,
		Points: points,
		XP:     xp,
		Date:   s.now().UTC(),
	})
	if n := len(doc.Activity); n > domain.MaxActivityHistory {
		doc.Activity = doc.Activity[n-domain.MaxActivityHistory:]
	}
}

var boosterPool = []struct {
	typ, name string
}{
	{"double_xp", "Double XP"},
	{"triple_points", "Triple Points"},
	{domain.BoosterStreakShield, "Streak Shield"},
	{"lucky_charm", "Lucky Charm"},
}

// awardRandomBooster drops a one-day booster into the inventory.
func (s *Service) awardRandomBooster(doc *domain.GamificationDoc) domain.Booster {
	pick := boosterPool[s.rng.Intn(len(boosterPool))]
	now := s.now().UTC()
	booster := domain.Booster{
		ID:        s.newID(),
		Type:      pick.typ,
		Name:      pick.name,
		EarnedAt:  now,
		ExpiresAt: now.Add(24 * time.Hour),
	}
	doc.Inventory.Boosters = append(doc.Inventory.Boosters, booster)
	return booster
}
