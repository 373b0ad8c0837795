package planner

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/studyhall-backend/internal/config"
	"github.com/heartmarshall/studyhall-backend/internal/domain"
	"github.com/heartmarshall/studyhall-backend/internal/store"
	"github.com/heartmarshall/studyhall-backend/pkg/ctxutil"
)

func TestBuildSchedule_PacksBlock(t *testing.T) {
	svc, ctx := newTestService(t)

	// Monday 17:00-19:00 with 45-minute sessions and 15-minute breaks
	// fits exactly two sessions.
	_, err := svc.AddBlock(ctx, AddBlockInput{DayOfWeek: 0, StartTime: "17:00", EndTime: "19:00"})
	require.NoError(t, err)

	sessions, err := svc.BuildSchedule(ctx, BuildScheduleInput{StartDate: "2024-03-18", DaysAhead: 1})
	require.NoError(t, err)
	require.Len(t, sessions, 2)

	assert.Equal(t, "2024-03-18", sessions[0].Date)
	assert.Equal(t, "17:00", sessions[0].StartTime)
	assert.Equal(t, "17:45", sessions[0].EndTime)
	assert.Equal(t, 45, sessions[0].DurationMinutes)
	assert.Equal(t, domain.SessionTypeStudy, sessions[0].Type)

	assert.Equal(t, "18:00", sessions[1].StartTime)
	assert.Equal(t, "18:45", sessions[1].EndTime)

	assert.Equal(t, GeneralStudySubject, sessions[0].Subject)
}

func TestBuildSchedule_SkipsDaysWithoutBlocks(t *testing.T) {
	svc, ctx := newTestService(t)

	// Only Wednesday (day 2) has availability.
	_, err := svc.AddBlock(ctx, AddBlockInput{DayOfWeek: 2, StartTime: "10:00", EndTime: "11:00"})
	require.NoError(t, err)

	sessions, err := svc.BuildSchedule(ctx, BuildScheduleInput{StartDate: "2024-03-18", DaysAhead: 7})
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "2024-03-20", sessions[0].Date)
}

func TestBuildSchedule_BlockShorterThanSession(t *testing.T) {
	svc, ctx := newTestService(t)

	_, err := svc.AddBlock(ctx, AddBlockInput{DayOfWeek: 0, StartTime: "17:00", EndTime: "17:30"})
	require.NoError(t, err)

	sessions, err := svc.BuildSchedule(ctx, BuildScheduleInput{StartDate: "2024-03-18", DaysAhead: 1})
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestBuildSchedule_DailyCap(t *testing.T) {
	svc, ctx := newTestService(t)

	maxDaily := 60
	_, err := svc.UpdatePreferences(ctx, UpdatePreferencesInput{MaxDailyStudyMinutes: &maxDaily})
	require.NoError(t, err)

	_, err = svc.AddBlock(ctx, AddBlockInput{DayOfWeek: 0, StartTime: "09:00", EndTime: "13:00"})
	require.NoError(t, err)

	sessions, err := svc.BuildSchedule(ctx, BuildScheduleInput{StartDate: "2024-03-18", DaysAhead: 1})
	require.NoError(t, err)

	total := 0
	for _, sess := range sessions {
		total += sess.DurationMinutes
	}
	assert.LessOrEqual(t, total, maxDaily)
	require.Len(t, sessions, 1, "a second 45-minute session would exceed the cap")
}

func TestBuildSchedule_TailSessionWithoutBreak(t *testing.T) {
	svc, ctx := newTestService(t)

	// 105 minutes: one session+break pair (60) plus a 45-minute remainder
	// that fits a final session with no break after it.
	_, err := svc.AddBlock(ctx, AddBlockInput{DayOfWeek: 0, StartTime: "17:00", EndTime: "18:45"})
	require.NoError(t, err)

	sessions, err := svc.BuildSchedule(ctx, BuildScheduleInput{StartDate: "2024-03-18", DaysAhead: 1})
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, "18:00", sessions[1].StartTime)
	assert.Equal(t, "18:45", sessions[1].EndTime)
}

func TestBuildSchedule_ReplacesPreviousSchedule(t *testing.T) {
	svc, ctx := newTestService(t)

	_, err := svc.AddBlock(ctx, AddBlockInput{DayOfWeek: 0, StartTime: "17:00", EndTime: "18:00"})
	require.NoError(t, err)

	first, err := svc.BuildSchedule(ctx, BuildScheduleInput{StartDate: "2024-03-18", DaysAhead: 1})
	require.NoError(t, err)
	require.Len(t, first, 1)

	// Rebuilding for a day without blocks wipes the old sessions.
	second, err := svc.BuildSchedule(ctx, BuildScheduleInput{StartDate: "2024-03-19", DaysAhead: 1})
	require.NoError(t, err)
	assert.Empty(t, second)

	stored, err := svc.Sessions(ctx, "", "")
	require.NoError(t, err)
	assert.Empty(t, stored, "persisted schedule is fully replaced")
}

func TestBuildSchedule_SubjectFromUpcomingTest(t *testing.T) {
	svc, ctx := newTestService(t)

	_, err := svc.AddBlock(ctx, AddBlockInput{DayOfWeek: 0, StartTime: "17:00", EndTime: "18:00"})
	require.NoError(t, err)

	sessions, err := svc.BuildSchedule(ctx, BuildScheduleInput{
		StartDate: "2024-03-18",
		DaysAhead: 1,
		Homework: []domain.HomeworkItem{
			{ID: "hw", Subject: "French", DueDate: "2024-03-19", EstimatedMinutes: 30},
		},
		Tests: []domain.Test{
			{ID: "past", Subject: "History", Date: "2024-03-10"},
			{ID: "soon", Subject: "Physics", Date: "2024-03-20"},
			{ID: "far", Subject: "Biology", Date: "2024-04-10"},
		},
	})
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "Physics", sessions[0].Subject, "a test within 3 days wins over homework")
}

func TestBuildSchedule_SubjectFromHomeworkPriority(t *testing.T) {
	svc, ctx := newTestService(t)

	_, err := svc.AddBlock(ctx, AddBlockInput{DayOfWeek: 0, StartTime: "17:00", EndTime: "18:00"})
	require.NoError(t, err)

	sessions, err := svc.BuildSchedule(ctx, BuildScheduleInput{
		StartDate: "2024-03-18",
		DaysAhead: 1,
		Homework: []domain.HomeworkItem{
			{ID: "low", Subject: "Art", DueDate: "2024-03-30", EstimatedMinutes: 30},
			{ID: "high", Subject: "Math", DueDate: "2024-03-19", EstimatedMinutes: 60},
		},
	})
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "Math", sessions[0].Subject)
}

func TestSessions_DateRange(t *testing.T) {
	svc, ctx := newTestService(t)

	_, err := svc.AddBlock(ctx, AddBlockInput{DayOfWeek: 0, StartTime: "17:00", EndTime: "18:00"})
	require.NoError(t, err)
	_, err = svc.AddBlock(ctx, AddBlockInput{DayOfWeek: 1, StartTime: "17:00", EndTime: "18:00"})
	require.NoError(t, err)

	_, err = svc.BuildSchedule(ctx, BuildScheduleInput{StartDate: "2024-03-18", DaysAhead: 7})
	require.NoError(t, err)

	monday, err := svc.Sessions(ctx, "2024-03-18", "2024-03-18")
	require.NoError(t, err)
	require.Len(t, monday, 1)
	assert.Equal(t, "2024-03-18", monday[0].Date)

	all, err := svc.Sessions(ctx, "", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestAddBlock_Validation(t *testing.T) {
	svc, ctx := newTestService(t)

	tests := []struct {
		name  string
		input AddBlockInput
	}{
		{"bad day", AddBlockInput{DayOfWeek: 7, StartTime: "10:00", EndTime: "11:00"}},
		{"bad start", AddBlockInput{DayOfWeek: 0, StartTime: "25:00", EndTime: "11:00"}},
		{"end before start", AddBlockInput{DayOfWeek: 0, StartTime: "11:00", EndTime: "10:00"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddBlock(ctx, tt.input)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestGetPreferences_StoredDocWithoutPreferences(t *testing.T) {
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	cfg := config.PlannerConfig{
		SessionLengthMinutes: 50,
		BreakLengthMinutes:   10,
		MaxDailyMinutes:      120,
		HorizonDays:          7,
	}
	mem := newMemStore()
	svc := New(mem, store.NewKeyedMutex(), cfg, log)
	ctx := ctxutil.WithUsername(context.Background(), "alice")

	// Documents written before preferences existed have no such key;
	// decoding must keep the configured values, not the built-in ones.
	mem.docs["alice/"+string(store.SubsystemPlanner)] = []byte(`{"study_blocks":[]}`)

	prefs, err := svc.GetPreferences(ctx)
	require.NoError(t, err)
	assert.Equal(t, 50, prefs.SessionLengthMinutes)
	assert.Equal(t, 10, prefs.BreakLengthMinutes)
	assert.Equal(t, 120, prefs.MaxDailyStudyMinutes)
}
