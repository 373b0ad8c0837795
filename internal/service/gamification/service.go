// Package gamification implements the points and XP ledger: login streaks
// with flame multipliers, achievements and badges, daily and weekly quests,
// study plans, and the cross-user leaderboard.
package gamification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/studyhall-backend/internal/domain"
	"github.com/heartmarshall/studyhall-backend/internal/store"
	"github.com/heartmarshall/studyhall-backend/pkg/ctxutil"
)

type docStore interface {
	Load(ctx context.Context, username string, sub store.Subsystem, v any) error
	Save(ctx context.Context, username string, sub store.Subsystem, v any) error
	Users(ctx context.Context, sub store.Subsystem) ([]string, error)
}

// Service manages the per-user gamification profile.
type Service struct {
	docs  docStore
	locks *store.KeyedMutex
	log   *slog.Logger

	// Overridable in tests.
	now   func() time.Time
	newID func() string
	rng   *rand.Rand
}

// New creates the gamification service.
func New(docs docStore, locks *store.KeyedMutex, log *slog.Logger) *Service {
	return &Service{
		docs:  docs,
		locks: locks,
		log:   log.With("service", "gamification"),
		now:   time.Now,
		newID: func() string { return uuid.NewString() },
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (s *Service) username(ctx context.Context) (string, error) {
	u, ok := ctxutil.UsernameFromCtx(ctx)
	if !ok {
		return "", domain.ErrUnauthorized
	}
	return u, nil
}

// today returns the current civil date in YYYY-MM-DD form.
func (s *Service) today() string {
	return s.now().UTC().Format(domain.DateLayout)
}

func (s *Service) loadDoc(ctx context.Context, username string) (*domain.GamificationDoc, error) {
	doc := domain.NewGamificationDoc()
	if err := s.docs.Load(ctx, username, store.SubsystemGamification, doc); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NewGamificationDoc(), nil
		}
		return nil, fmt.Errorf("load gamification: %w", err)
	}
	return doc, nil
}

func (s *Service) update(ctx context.Context, fn func(doc *domain.GamificationDoc) error) error {
	username, err := s.username(ctx)
	if err != nil {
		return err
	}

	unlock := s.locks.Lock(username, store.SubsystemGamification)
	defer unlock()

	doc, err := s.loadDoc(ctx, username)
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}
	if err := s.docs.Save(ctx, username, store.SubsystemGamification, doc); err != nil {
		return fmt.Errorf("save gamification: %w", err)
	}
	return nil
}

func (s *Service) view(ctx context.Context, fn func(doc *domain.GamificationDoc) error) error {
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
