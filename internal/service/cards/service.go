// Package cards implements flashcard set management and SM-2 spaced
// repetition over the per-user flashcards document.
package cards

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/studyhall-backend/internal/config"
	"github.com/heartmarshall/studyhall-backend/internal/domain"
	"github.com/heartmarshall/studyhall-backend/internal/service/cards/sm2"
	"github.com/heartmarshall/studyhall-backend/internal/store"
	"github.com/heartmarshall/studyhall-backend/pkg/ctxutil"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type docStore interface {
	Load(ctx context.Context, username string, sub store.Subsystem, v any) error
	Save(ctx context.Context, username string, sub store.Subsystem, v any) error
}

// Service manages flashcard sets, cards, reviews, and import/export.
type Service struct {
	docs       docStore
	locks      *store.KeyedMutex
	log        *slog.Logger
	params     sm2.Params
	maxHistory int

	// Overridable in tests.
	now   func() time.Time
	newID func() string
}

// New creates the flashcards service.
func New(docs docStore, locks *store.KeyedMutex, cfg config.SRSConfig, log *slog.Logger) *Service {
	return &Service{
		docs:       docs,
		locks:      locks,
		log:        log.With("service", "cards"),
		params:     sm2.Params{MinEase: cfg.MinEaseFactor, MaxEase: cfg.MaxEaseFactor},
		maxHistory: cfg.MaxReviewHistory,
		now:        time.Now,
		newID:      func() string { return uuid.NewString() },
	}
}

func (s *Service) username(ctx context.Context) (string, error) {
	u, ok := ctxutil.UsernameFromCtx(ctx)
	if !ok {
		return "", domain.ErrUnauthorized
	}
	return u, nil
}

// loadDoc reads the user's flashcards document, returning an empty one when
// nothing is stored yet.
func (s *Service) loadDoc(ctx context.Context, username string) (*domain.FlashcardDoc, error) {
	doc := domain.NewFlashcardDoc()
	if err := s.docs.Load(ctx, username, store.SubsystemFlashcards, doc); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NewFlashcardDoc(), nil
		}
		return nil, fmt.Errorf("load flashcards: %w", err)
	}
	if doc.Sets == nil {
		doc.Sets = map[string]*domain.FlashcardSet{}
	}
	return doc, nil
}

// update runs fn over the user's document under the per-user lock and
// persists the result when fn succeeds.
func (s *Service) update(ctx context.Context, fn func(doc *domain.FlashcardDoc) error) error {
	username, err := s.username(ctx)
	if err != nil {
		return err
	}

	unlock := s.locks.Lock(username, store.SubsystemFlashcards)
	defer unlock()

	doc, err := s.loadDoc(ctx, username)
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}
	if err := s.docs.Save(ctx, username, store.SubsystemFlashcards, doc); err != nil {
		return fmt.Errorf("save flashcards: %w", err)
	}
	return nil
}

// view runs fn over a read-only snapshot of the user's document.
func (s *Service) view(ctx context.Context, fn func(doc *domain.FlashcardDoc) error) error {
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
