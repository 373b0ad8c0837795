package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/studyhall-backend/internal/domain"
	"github.com/heartmarshall/studyhall-backend/internal/store"
	"github.com/heartmarshall/studyhall-backend/pkg/ctxutil"
)

type memStore struct {
	docs map[string][]byte
}

func newMemStore() *memStore { return &memStore{docs: map[string][]byte{}} }

func (m *memStore) Load(_ context.Context, username string, sub store.Subsystem, v any) error {
	data, ok := m.docs[username+"/"+string(sub)]
	if !ok {
		return fmt.Errorf("%s/%s: %w", username, sub, domain.ErrNotFound)
	}
	return json.Unmarshal(data, v)
}

func (m *memStore) Save(_ context.Context, username string, sub store.Subsystem, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.docs[username+"/"+string(sub)] = data
	return nil
}

// fakeSets serves a fixed collection of flashcard sets.
type fakeSets struct {
	sets map[string]*domain.FlashcardSet
}

func (f *fakeSets) GetSet(_ context.Context, setID string) (*domain.FlashcardSet, error) {
	set, ok := f.sets[setID]
	if !ok {
		return nil, fmt.Errorf("set %s: %w", setID, domain.ErrNotFound)
	}
	return set, nil
}

func (f *fakeSets) ListSets(_ context.Context) ([]*domain.FlashcardSet, error) {
	var out []*domain.FlashcardSet
	for _, set := range f.sets {
		out = append(out, set)
	}
	return out, nil
}

// 2024-03-18 is a Monday.
var testTime = time.Date(2024, 3, 18, 15, 30, 0, 0, time.UTC)

func newTestService(t *testing.T, sets *fakeSets) (*Service, context.Context) {
	t.Helper()

	if sets == nil {
		sets = &fakeSets{sets: map[string]*domain.FlashcardSet{
			"set-1": {ID: "set-1", Name: "Algebra", Subject: "Math"},
		}}
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	svc := New(newMemStore(), sets, store.NewKeyedMutex(), log)
	svc.now = func() time.Time { return testTime }

	seq := 0
	svc.newID = func() string {
		seq++
		return fmt.Sprintf("id-%d", seq)
	}

	return svc, ctxutil.WithUsername(context.Background(), "alice")
}

func record(t *testing.T, svc *Service, ctx context.Context, stats domain.SessionStats, seconds int) *domain.StudySessionRecord {
	t.Helper()
	rec, err := svc.RecordSession(ctx, RecordSessionInput{
		SetID:           "set-1",
		Stats:           stats,
		DurationSeconds: seconds,
	})
	require.NoError(t, err)
	return rec
}

func TestRecordSession_Aggregates(t *testing.T) {
	svc, ctx := newTestService(t, nil)

	rec := record(t, svc, ctx, domain.SessionStats{Failed: 1, Hard: 1, Good: 2, Easy: 1, Total: 5}, 600)

	// (1*1.0 + 2*0.8 + 1*0.4 + 1*0) / 5 * 100 = 60.0
	assert.InDelta(t, 60.0, rec.Performance, 1e-9)
	assert.Equal(t, "Math", rec.Subject)
	assert.Equal(t, 0, rec.DayOfWeek, "Monday maps to 0")
	assert.Equal(t, 15, rec.HourOfDay)

	var doc *domain.AnalyticsDoc
	require.NoError(t, svc.view(ctx, func(d *domain.AnalyticsDoc) error { doc = d; return nil }))

	perf := doc.SubjectPerformance["Math"]
	require.NotNil(t, perf)
	assert.Equal(t, 1, perf.Sessions)
	assert.Equal(t, 5, perf.TotalCards)
	assert.Equal(t, 3, perf.CorrectCards)
	assert.InDelta(t, 60.0, perf.Mastery, 1e-9)

	daily := doc.DailyStats["2024-03-18"]
	require.NotNil(t, daily)
	assert.Equal(t, 600, daily.StudyTimeSeconds)
	assert.Equal(t, 5, daily.CardsReviewed)

	weekly := doc.WeeklyStats["2024-W12"]
	require.NotNil(t, weekly)
	assert.Equal(t, []string{"2024-03-18"}, weekly.DaysStudied)

	monthly := doc.MonthlyStats["2024-03"]
	require.NotNil(t, monthly)
	assert.Equal(t, 1, monthly.Sessions)

	assert.Equal(t, 1, doc.StudyStreak)
	assert.Equal(t, 600, doc.TotalStudySeconds)
	require.NotNil(t, doc.Habits.BestStudyHour)
	assert.Equal(t, 15, *doc.Habits.BestStudyHour)
}

func TestRecordSession_UnknownSet(t *testing.T) {
	svc, ctx := newTestService(t, nil)

	_, err := svc.RecordSession(ctx, RecordSessionInput{SetID: "missing", Stats: domain.SessionStats{Total: 1}})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStreak(t *testing.T) {
	svc, ctx := newTestService(t, nil)
	stats := domain.SessionStats{Good: 1, Total: 1}

	record(t, svc, ctx, stats, 60)

	// Same day: no change.
	record(t, svc, ctx, stats, 60)
	streak := func() int {
		var n int
		require.NoError(t, svc.view(ctx, func(d *domain.AnalyticsDoc) error { n = d.StudyStreak; return nil }))
		return n
	}
	assert.Equal(t, 1, streak())

	// Next day: +1.
	svc.now = func() time.Time { return testTime.AddDate(0, 0, 1) }
	record(t, svc, ctx, stats, 60)
	assert.Equal(t, 2, streak())

	// Two-day gap: reset to 1.
	svc.now = func() time.Time { return testTime.AddDate(0, 0, 4) }
	record(t, svc, ctx, stats, 60)
	assert.Equal(t, 1, streak())
}

func TestStudyData_WeekReport(t *testing.T) {
	svc, ctx := newTestService(t, nil)

	record(t, svc, ctx, domain.SessionStats{Good: 3, Easy: 1, Failed: 1, Total: 5}, 1800)

	svc.now = func() time.Time { return testTime.AddDate(0, 0, 1) }
	record(t, svc, ctx, domain.SessionStats{Good: 5, Total: 5}, 1800)

	report, err := svc.StudyData(ctx, domain.PeriodWeek)
	require.NoError(t, err)

	assert.Equal(t, "1h 0m", report.TotalTime)
	assert.Equal(t, 10, report.CardsReviewed)
	assert.Equal(t, 90, report.Accuracy)
	assert.Equal(t, 2, report.Streak)

	require.Len(t, report.Activity.Labels, 7)
	assert.Equal(t, "Tue", report.Activity.Labels[6], "last label is today")
	assert.Equal(t, 30, report.Activity.Minutes[6])
	assert.Equal(t, 30, report.Activity.Minutes[5], "yesterday's session lands one bucket earlier")

	assert.Equal(t, []string{"Math"}, report.Subjects.Labels)

	assert.Len(t, report.Heatmap, 7*24)
	var cell domain.HeatmapCell
	for _, c := range report.Heatmap {
		if c.Day == 0 && c.Hour == 15 {
			cell = c
		}
	}
	assert.Equal(t, 30, cell.Value)
}

func TestStudyData_Empty(t *testing.T) {
	svc, ctx := newTestService(t, nil)

	report, err := svc.StudyData(ctx, domain.PeriodWeek)
	require.NoError(t, err)

	assert.Equal(t, "0h 0m", report.TotalTime)
	assert.Equal(t, 0, report.Accuracy)
	assert.Equal(t, []string{"No data yet"}, report.Subjects.Labels)
	assert.Len(t, report.Heatmap, 7*24)
	assert.Len(t, report.Progress.Labels, 8, "seven days back through today")
}

func TestHabits_TopDaysAndSubjects(t *testing.T) {
	sets := &fakeSets{sets: map[string]*domain.FlashcardSet{
		"set-1": {ID: "set-1", Name: "Algebra", Subject: "Math"},
		"set-2": {ID: "set-2", Name: "Verbs", Subject: "French"},
	}}
	svc, ctx := newTestService(t, sets)
	stats := domain.SessionStats{Good: 1, Total: 1}

	// Two Monday sessions on Math, one Tuesday session on French.
	record(t, svc, ctx, stats, 60)
	record(t, svc, ctx, stats, 60)
	svc.now = func() time.Time { return testTime.AddDate(0, 0, 1) }
	_, err := svc.RecordSession(ctx, RecordSessionInput{SetID: "set-2", Stats: stats, DurationSeconds: 60})
	require.NoError(t, err)

	var doc *domain.AnalyticsDoc
	require.NoError(t, svc.view(ctx, func(d *domain.AnalyticsDoc) error { doc = d; return nil }))

	assert.Equal(t, []int{0, 1}, doc.Habits.BestStudyDays)
	assert.Equal(t, []string{"Math", "French"}, doc.Habits.FavoriteSubjects)
}
