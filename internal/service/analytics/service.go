// Package analytics tracks study sessions and derives reports, habits,
// insights, and recommendations from the per-user analytics document.
package analytics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/studyhall-backend/internal/domain"
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

// setProvider exposes the flashcard data the insight queries read.
type setProvider interface {
	GetSet(ctx context.Context, setID string) (*domain.FlashcardSet, error)
	ListSets(ctx context.Context) ([]*domain.FlashcardSet, error)
}

// Service records sessions and computes analytics.
type Service struct {
	docs  docStore
	sets  setProvider
	locks *store.KeyedMutex
	log   *slog.Logger

	// Overridable in tests.
	now   func() time.Time
	newID func() string
}

// New creates the analytics service.
func New(docs docStore, sets setProvider, locks *store.KeyedMutex, log *slog.Logger) *Service {
	return &Service{
		docs:  docs,
		sets:  sets,
		locks: locks,
		log:   log.With("service", "analytics"),
		now:   time.Now,
		newID: func() string { return uuid.NewString() },
	}
}

func (s *Service) username(ctx context.Context) (string, error) {
	u, ok := ctxutil.UsernameFromCtx(ctx)
	if !ok {
		return "", domain.ErrUnauthorized
	}
	return u, nil
}

func (s *Service) loadDoc(ctx context.Context, username string) (*domain.AnalyticsDoc, error) {
	doc := domain.NewAnalyticsDoc()
	if err := s.docs.Load(ctx, username, store.SubsystemAnalytics, doc); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NewAnalyticsDoc(), nil
		}
		return nil, fmt.Errorf("load analytics: %w", err)
	}
	if doc.SubjectPerformance == nil {
		doc.SubjectPerformance = map[string]*domain.SubjectPerformance{}
	}
	if doc.DailyStats == nil {
		doc.DailyStats = map[string]*domain.BucketStats{}
	}
	if doc.WeeklyStats == nil {
		doc.WeeklyStats = map[string]*domain.BucketStats{}
	}
	if doc.MonthlyStats == nil {
		doc.MonthlyStats = map[string]*domain.BucketStats{}
	}
	return doc, nil
}

func (s *Service) update(ctx context.Context, fn func(doc *domain.AnalyticsDoc) error) error {
	username, err := s.username(ctx)
	if err != nil {
		return err
	}

	unlock := s.locks.Lock(username, store.SubsystemAnalytics)
	defer unlock()

	doc, err := s.loadDoc(ctx, username)
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}
	if err := s.docs.Save(ctx, username, store.SubsystemAnalytics, doc); err != nil {
		return fmt.Errorf("save analytics: %w", err)
	}
	return nil
}

func (s *Service) view(ctx context.Context, fn func(doc *domain.AnalyticsDoc) error) error {
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
