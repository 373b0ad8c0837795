package planner

import (
	"context"
	"fmt"

	"github.com/heartmarshall/studyhall-backend/internal/domain"
)

// AddBlock registers a weekly availability window.
func (s *Service) AddBlock(ctx context.Context, input AddBlockInput) (*domain.StudyBlock, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	block := domain.StudyBlock{
		ID:        s.newID(),
		DayOfWeek: input.DayOfWeek,
		StartTime: input.StartTime,
		EndTime:   input.EndTime,
		CreatedAt: s.now(),
	}

	err := s.update(ctx, func(doc *domain.PlannerDoc) error {
		doc.StudyBlocks = append(doc.StudyBlocks, block)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("study block added", "block_id", block.ID, "day", block.DayOfWeek)
	return &block, nil
}

// RemoveBlock deletes a study block by ID.
func (s *Service) RemoveBlock(ctx context.Context, blockID string) error {
	if blockID == "" {
		return domain.NewValidationError("block_id", "required")
	}

	return s.update(ctx, func(doc *domain.PlannerDoc) error {
		for i := range doc.StudyBlocks {
			if doc.StudyBlocks[i].ID == blockID {
				doc.StudyBlocks = append(doc.StudyBlocks[:i], doc.StudyBlocks[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("block %s: %w", blockID, domain.ErrNotFound)
	})
}

// ListBlocks returns the user's study blocks in registration order.
func (s *Service) ListBlocks(ctx context.Context) ([]domain.StudyBlock, error) {
	var blocks []domain.StudyBlock
	err := s.view(ctx, func(doc *domain.PlannerDoc) error {
		blocks = doc.StudyBlocks
		return nil
	})
	if err != nil {
		return nil, err
	}
	return blocks, nil
}

// GetPreferences returns the user's scheduling preferences.
func (s *Service) GetPreferences(ctx context.Context) (domain.StudyPreferences, error) {
	var prefs domain.StudyPreferences
	err := s.view(ctx, func(doc *domain.PlannerDoc) error {
		prefs = doc.Preferences
		return nil
	})
	if err != nil {
		return domain.StudyPreferences{}, err
	}
	return prefs, nil
}

// UpdatePreferences applies partial preference changes.
func (s *Service) UpdatePreferences(ctx context.Context, input UpdatePreferencesInput) (domain.StudyPreferences, error) {
	if err := input.Validate(); err != nil {
		return domain.StudyPreferences{}, err
	}

	var prefs domain.StudyPreferences
	err := s.update(ctx, func(doc *domain.PlannerDoc) error {
		if input.SessionLengthMinutes != nil {
			doc.Preferences.SessionLengthMinutes = *input.SessionLengthMinutes
		}
		if input.BreakLengthMinutes != nil {
			doc.Preferences.BreakLengthMinutes = *input.BreakLengthMinutes
		}
		if input.MaxDailyStudyMinutes != nil {
			doc.Preferences.MaxDailyStudyMinutes = *input.MaxDailyStudyMinutes
		}
		if input.CalendarSyncEnabled != nil {
			doc.Preferences.CalendarSyncEnabled = *input.CalendarSyncEnabled
		}
		prefs = doc.Preferences
		return nil
	})
	if err != nil {
		return domain.StudyPreferences{}, err
	}
	return prefs, nil
}
