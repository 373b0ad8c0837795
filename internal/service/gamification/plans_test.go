package gamification

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/studyhall-backend/internal/domain"
	"github.com/heartmarshall/studyhall-backend/internal/store"
	"github.com/heartmarshall/studyhall-backend/pkg/ctxutil"
)

func TestCreatePlan_Validation(t *testing.T) {
	svc, ctx := newTestService(t)

	_, err := svc.CreatePlan(ctx, CreatePlanInput{TestDate: "not-a-date"})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestCompleteExercise_OnePerDay(t *testing.T) {
	svc, ctx := newTestService(t)

	plan, err := svc.CreatePlan(ctx, CreatePlanInput{
		TestName:     "Algebra Midterm",
		TestDate:     "2024-03-25",
		Subject:      "Math",
		NumExercises: 2,
	})
	require.NoError(t, err)

	first, err := svc.CompleteExercise(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, 15, first.Points)
	assert.Equal(t, 1, first.Plan.ExercisesCompleted)

	again, err := svc.CompleteExercise(ctx, plan.ID)
	require.NoError(t, err)
	assert.True(t, again.AlreadyDone)
	assert.Equal(t, 0, again.Points)
	assert.Equal(t, 1, again.Plan.ExercisesCompleted)

	advanceDays(svc, 1)
	final, err := svc.CompleteExercise(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, 40, final.Points, "15 for the exercise plus 25 completion bonus")
	assert.True(t, final.Plan.Completed)
}

func TestCompleteExercise_UnknownPlan(t *testing.T) {
	svc, ctx := newTestService(t)

	_, err := svc.CompleteExercise(ctx, "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPlans_SortedByTestDate(t *testing.T) {
	svc, ctx := newTestService(t)

	for _, date := range []string{"2024-04-10", "2024-03-20", "2024-03-30"} {
		_, err := svc.CreatePlan(ctx, CreatePlanInput{
			TestName: "Test " + date, TestDate: date, NumExercises: 1,
		})
		require.NoError(t, err)
	}

	plans, err := svc.Plans(ctx)
	require.NoError(t, err)
	require.Len(t, plans, 3)
	assert.Equal(t, "2024-03-20", plans[0].TestDate)
	assert.Equal(t, "2024-04-10", plans[2].TestDate)
}

func TestDeletePlan(t *testing.T) {
	svc, ctx := newTestService(t)

	plan, err := svc.CreatePlan(ctx, CreatePlanInput{
		TestName: "History Quiz", TestDate: "2024-03-22", NumExercises: 3,
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeletePlan(ctx, plan.ID))
	require.ErrorIs(t, svc.DeletePlan(ctx, plan.ID), domain.ErrNotFound)
}

func TestQuests_RefreshOncePerDay(t *testing.T) {
	svc, ctx := newTestService(t)

	quests, err := svc.Quests(ctx)
	require.NoError(t, err)
	require.Len(t, quests, 6)
	assert.Equal(t, "login", quests[0].ID, "login quest is always assigned")

	// Same day: the assignment is stable.
	again, err := svc.Quests(ctx)
	require.NoError(t, err)
	require.Len(t, again, 6)
	for i := range quests {
		assert.Equal(t, quests[i].ID, again[i].ID)
	}

	// Next day: daily quests roll over, weekly quests stay.
	advanceDays(svc, 1)
	next, err := svc.Quests(ctx)
	require.NoError(t, err)

	daily, weekly := 0, 0
	for _, q := range next {
		switch q.Period {
		case domain.QuestDaily:
			daily++
			assert.Equal(t, "2024-03-16", q.AssignedFor)
		case domain.QuestWeekly:
			weekly++
		}
	}
	assert.Equal(t, 3, daily)
	assert.Equal(t, 3, weekly)
}

func TestQuestCompletion_AwardsXP(t *testing.T) {
	svc, ctx := newTestService(t)

	_, err := svc.RecordLogin(ctx)
	require.NoError(t, err)

	quests, err := svc.Quests(ctx)
	require.NoError(t, err)

	for _, q := range quests {
		if q.Period == domain.QuestDaily && q.ID == "login" {
			assert.True(t, q.Completed)
		}
		if q.Period == domain.QuestWeekly && q.Action == actionLogin {
			assert.Equal(t, 1, q.Progress)
		}
	}
}

func TestLeaderboard(t *testing.T) {
	svc, _ := newTestService(t)
	mem := svc.docs.(*memStore)

	save := func(username string, level, xp int) {
		doc := domain.NewGamificationDoc()
		doc.Level = level
		doc.XP = xp
		require.NoError(t, mem.Save(context.Background(), username, store.SubsystemGamification, doc))
	}
	save("alice", 3, 500)
	save("bob", 5, 2000)
	save("carol", 5, 2500)

	ctx := ctxutil.WithUsername(context.Background(), "alice")
	entries, err := svc.Leaderboard(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "carol", entries[0].Username, "higher XP wins within a level")
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, "bob", entries[1].Username)
	assert.Equal(t, "alice", entries[2].Username)
	assert.Equal(t, 3, entries[2].Rank)
}

func TestLeaderboard_TopN(t *testing.T) {
	svc, _ := newTestService(t)
	mem := svc.docs.(*memStore)

	for i, name := range []string{"a", "b", "c", "d"} {
		doc := domain.NewGamificationDoc()
		doc.Level = i + 1
		require.NoError(t, mem.Save(context.Background(), name, store.SubsystemGamification, doc))
	}

	ctx := ctxutil.WithUsername(context.Background(), "a")
	entries, err := svc.Leaderboard(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "d", entries[0].Username)
}
