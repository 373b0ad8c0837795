package gamification

import (
	"context"
	"fmt"
	"sort"

	"github.com/heartmarshall/studyhall-backend/internal/domain"
	"github.com/heartmarshall/studyhall-backend/internal/store"
)

// Leaderboard ranks all users by level, then XP, descending. Users whose
// documents fail to load are skipped with a warning.
func (s *Service) Leaderboard(ctx context.Context, topN int) ([]domain.LeaderboardEntry, error) {
	if topN <= 0 {
		topN = 10
	}

	usernames, err := s.docs.Users(ctx, store.SubsystemGamification)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	entries := make([]domain.LeaderboardEntry, 0, len(usernames))
	for _, username := range usernames {
		doc := domain.NewGamificationDoc()
		if err := s.docs.Load(ctx, username, store.SubsystemGamification, doc); err != nil {
			s.log.Warn("skipping leaderboard entry", "username", username, "error", err)
			continue
		}
		entries = append(entries, domain.LeaderboardEntry{
			Username:   username,
			Level:      doc.Level,
			XP:         doc.XP,
			Points:     doc.Points,
			FlameLevel: doc.Streak.FlameLevel,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Level != entries[j].Level {
			return entries[i].Level > entries[j].Level
		}
		return entries[i].XP > entries[j].XP
	})

	if len(entries) > topN {
		entries = entries[:topN]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}
