// Package planner implements study-time management: weekly availability
// blocks, homework prioritization, schedule packing, and calendar export.
package planner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/studyhall-backend/internal/config"
	"github.com/heartmarshall/studyhall-backend/internal/domain"
	"github.com/heartmarshall/studyhall-backend/internal/store"
	"github.com/heartmarshall/studyhall-backend/pkg/ctxutil"
)

// MinSessionMinutes is the shortest session the packer will emit; anything
// shorter at the tail of a block is discarded.
const MinSessionMinutes = 15

type docStore interface {
	Load(ctx context.Context, username string, sub store.Subsystem, v any) error
	Save(ctx context.Context, username string, sub store.Subsystem, v any) error
}

// Service manages the per-user planner document.
type Service struct {
	docs     docStore
	locks    *store.KeyedMutex
	log      *slog.Logger
	defaults config.PlannerConfig

	// Overridable in tests.
	now   func() time.Time
	newID func() string
	rng   *rand.Rand
}

// New creates the planner service.
func New(docs docStore, locks *store.KeyedMutex, cfg config.PlannerConfig, log *slog.Logger) *Service {
	return &Service{
		docs:     docs,
		locks:    locks,
		log:      log.With("service", "planner"),
		defaults: cfg,
		now:      time.Now,
		newID:    func() string { return uuid.NewString() },
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (s *Service) username(ctx context.Context) (string, error) {
	u, ok := ctxutil.UsernameFromCtx(ctx)
	if !ok {
		return "", domain.ErrUnauthorized
	}
	return u, nil
}

// today returns the current civil date at UTC midnight.
func (s *Service) today() time.Time {
	now := s.now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func (s *Service) loadDoc(ctx context.Context, username string) (*domain.PlannerDoc, error) {
	// Decode over configured defaults so a stored document missing the
	// preferences key keeps them.
	doc := s.defaultDoc()
	if err := s.docs.Load(ctx, username, store.SubsystemPlanner, doc); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return s.defaultDoc(), nil
		}
		return nil, fmt.Errorf("load planner: %w", err)
	}
	return doc, nil
}

func (s *Service) defaultDoc() *domain.PlannerDoc {
	doc := domain.NewPlannerDoc()
	doc.Preferences = domain.StudyPreferences{
		SessionLengthMinutes: s.defaults.SessionLengthMinutes,
		BreakLengthMinutes:   s.defaults.BreakLengthMinutes,
		MaxDailyStudyMinutes: s.defaults.MaxDailyMinutes,
	}
	return doc
}

func (s *Service) update(ctx context.Context, fn func(doc *domain.PlannerDoc) error) error {
	username, err := s.username(ctx)
	if err != nil {
		return err
	}

	unlock := s.locks.Lock(username, store.SubsystemPlanner)
	defer unlock()

	doc, err := s.loadDoc(ctx, username)
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}
	if err := s.docs.Save(ctx, username, store.SubsystemPlanner, doc); err != nil {
		return fmt.Errorf("save planner: %w", err)
	}
	return nil
}

func (s *Service) view(ctx context.Context, fn func(doc *domain.PlannerDoc) error) error {
	username, err := s.username(ctx)
	if err != nil {
		return err
	}
	doc, err := s.loadDoc(ctx, username)
	if err != nil {
		return err
	}
	return fn(doc)
}
