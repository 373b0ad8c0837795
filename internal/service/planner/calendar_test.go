package planner

import (
	"strings"
	"testing"

	ics "github.com/arran4/golang-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/studyhall-backend/internal/domain"
)

func TestExportICal(t *testing.T) {
	svc, ctx := newTestService(t)

	_, err := svc.AddBlock(ctx, AddBlockInput{DayOfWeek: 0, StartTime: "17:00", EndTime: "19:00"})
	require.NoError(t, err)
	_, err = svc.BuildSchedule(ctx, BuildScheduleInput{StartDate: "2024-03-18", DaysAhead: 1})
	require.NoError(t, err)

	out, err := svc.ExportICal(ctx, "", "")
	require.NoError(t, err)

	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.Contains(t, out, "SUMMARY:Study: General Study")
	assert.Contains(t, out, "X-WR-CALNAME:StudyHall Schedule - alice")

	// The output must parse back as a calendar with both sessions.
	parsed, err := ics.ParseCalendar(strings.NewReader(out))
	require.NoError(t, err)
	assert.Len(t, parsed.Events(), 2)
}

func TestExportICal_EmptySchedule(t *testing.T) {
	svc, ctx := newTestService(t)

	out, err := svc.ExportICal(ctx, "", "")
	require.NoError(t, err)
	assert.Contains(t, out, "BEGIN:VCALENDAR")

	parsed, err := ics.ParseCalendar(strings.NewReader(out))
	require.NoError(t, err)
	assert.Empty(t, parsed.Events())
}

func TestCalendars_AddListRemove(t *testing.T) {
	svc, ctx := newTestService(t)

	cal, err := svc.AddCalendar(ctx, AddCalendarInput{Type: domain.CalendarGoogle, CalendarID: "primary"})
	require.NoError(t, err)

	_, err = svc.AddCalendar(ctx, AddCalendarInput{Type: "outlook", CalendarID: "x"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	cals, err := svc.ListCalendars(ctx)
	require.NoError(t, err)
	require.Len(t, cals, 1)
	assert.Equal(t, domain.CalendarGoogle, cals[0].Type)

	require.NoError(t, svc.RemoveCalendar(ctx, cal.ID))
	assert.ErrorIs(t, svc.RemoveCalendar(ctx, cal.ID), domain.ErrNotFound)
}

func TestSyncCalendars(t *testing.T) {
	svc, ctx := newTestService(t)

	_, err := svc.AddCalendar(ctx, AddCalendarInput{Type: domain.CalendarICal, CalendarID: "https://example.com/cal.ics"})
	require.NoError(t, err)

	results, err := svc.SyncCalendars(ctx)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, domain.CalendarICal, results[0].Type)
	assert.Empty(t, results[0].Err)

	cals, err := svc.ListCalendars(ctx)
	require.NoError(t, err)
	require.NotNil(t, cals[0].LastSynced)
	assert.Equal(t, testTime, cals[0].LastSynced.UTC())
}
