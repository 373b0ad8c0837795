package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/studyhall-backend/internal/config"
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

// 2024-03-18 is a Monday.
var testTime = time.Date(2024, 3, 18, 8, 0, 0, 0, time.UTC)

func testPlannerConfig() config.PlannerConfig {
	return config.PlannerConfig{
		SessionLengthMinutes: 45,
		BreakLengthMinutes:   15,
		MaxDailyMinutes:      180,
		HorizonDays:          7,
	}
}

func newTestService(t *testing.T) (*Service, context.Context) {
	t.Helper()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	svc := New(newMemStore(), store.NewKeyedMutex(), testPlannerConfig(), log)
	svc.now = func() time.Time { return testTime }
	svc.rng = rand.New(rand.NewSource(1))

	seq := 0
	svc.newID = func() string {
		seq++
		return fmt.Sprintf("id-%d", seq)
	}

	return svc, ctxutil.WithUsername(context.Background(), "alice")
}

func TestPrioritizeHomework(t *testing.T) {
	svc, ctx := newTestService(t)

	items := []domain.HomeworkItem{
		{ID: "relaxed", Subject: "Art", DueDate: "2024-03-28", EstimatedMinutes: 30},
		{ID: "done", Subject: "Math", DueDate: "2024-03-19", Done: true},
		{ID: "tomorrow", Subject: "Math", DueDate: "2024-03-19", EstimatedMinutes: 60},
		{ID: "overdue", Subject: "French", DueDate: "2024-03-15", EstimatedMinutes: 120},
		{ID: "baddate", Subject: "History", DueDate: "someday"},
		{ID: "soon", Subject: "Physics", DueDate: "2024-03-21", EstimatedMinutes: 90},
	}

	ranked, err := svc.PrioritizeHomework(ctx, items)
	require.NoError(t, err)
	require.Len(t, ranked, 4, "done and unparsable items are dropped")

	assert.Equal(t, "overdue", ranked[0].ID)
	assert.Equal(t, domain.PriorityHigh, ranked[0].PriorityLevel)
	assert.InDelta(t, -88.0, ranked[0].PriorityScore, 1e-9)
	assert.Equal(t, -3, ranked[0].DaysUntilDue)

	assert.Equal(t, "tomorrow", ranked[1].ID)
	assert.Equal(t, domain.PriorityHigh, ranked[1].PriorityLevel)
	assert.InDelta(t, 16.0, ranked[1].PriorityScore, 1e-9)

	assert.Equal(t, "soon", ranked[2].ID)
	assert.Equal(t, domain.PriorityMedium, ranked[2].PriorityLevel)

	assert.Equal(t, "relaxed", ranked[3].ID)
	assert.Equal(t, domain.PriorityLow, ranked[3].PriorityLevel)

	// The ranking is persisted.
	stored, err := svc.HomeworkPriorities(ctx)
	require.NoError(t, err)
	assert.Equal(t, ranked, stored)
}

func TestPrioritizeHomework_DefaultEstimate(t *testing.T) {
	svc, ctx := newTestService(t)

	ranked, err := svc.PrioritizeHomework(ctx, []domain.HomeworkItem{
		{ID: "a", Subject: "Math", DueDate: "2024-03-23"},
	})
	require.NoError(t, err)
	require.Len(t, ranked, 1)
	// 5 days out with the 60-minute default estimate.
	assert.InDelta(t, 56.0, ranked[0].PriorityScore, 1e-9)
}

func TestPrioritizeHomework_StableTieOrder(t *testing.T) {
	svc, ctx := newTestService(t)

	ranked, err := svc.PrioritizeHomework(ctx, []domain.HomeworkItem{
		{ID: "first", Subject: "Math", DueDate: "2024-03-20", EstimatedMinutes: 30},
		{ID: "second", Subject: "French", DueDate: "2024-03-20", EstimatedMinutes: 30},
	})
	require.NoError(t, err)
	require.Len(t, ranked, 2)
	assert.Equal(t, "first", ranked[0].ID, "equal scores keep feed order")
	assert.Equal(t, "second", ranked[1].ID)
}
