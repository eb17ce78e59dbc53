package service_test

import (
	"context"
	"testing"

	"planner/internal/model"
	"planner/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuleService_CreateAnchorsToToday(t *testing.T) {
	f := newFixture(t, "2026-10-16")

	rule, err := f.ruleSvc.Create(context.Background(), f.user, model.RuleParams{
		Title:      "Stretch",
		Weekdays:   []string{"wed", "Mon", "Mon"},
		WeekGap:    1,
		DailyQuota: 1,
	})

	require.NoError(t, err)
	assert.Equal(t, "2026-10-16", rule.AnchorDate)
	assert.Equal(t, []string{"Mon", "Wed"}, []string(rule.Weekdays))
	assert.Equal(t, f.user, rule.UserID)
}

func TestRuleService_CreateRejectsInvalidParameters(t *testing.T) {
	f := newFixture(t, "2026-10-16")
	ctx := context.Background()

	cases := map[string]model.RuleParams{
		"zero week gap":  {Title: "x", Weekdays: []string{"Mon"}, WeekGap: 0, DailyQuota: 1},
		"zero quota":     {Title: "x", Weekdays: []string{"Mon"}, WeekGap: 1, DailyQuota: 0},
		"no weekdays":    {Title: "x", Weekdays: nil, WeekGap: 1, DailyQuota: 1},
		"unknown day":    {Title: "x", Weekdays: []string{"Someday"}, WeekGap: 1, DailyQuota: 1},
		"negative quota": {Title: "x", Weekdays: []string{"Mon"}, WeekGap: 1, DailyQuota: -2},
	}

	for name, params := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.ruleSvc.Create(ctx, f.user, params)
			assert.ErrorIs(t, err, service.ErrInvalidRuleParameters)
		})
	}

	rules, err := f.ruleSvc.List(ctx, f.user)
	require.NoError(t, err)
	assert.Empty(t, rules)
}

func TestRuleService_ErrorPrecedence(t *testing.T) {
	f := newFixture(t, "2026-10-16")
	ctx := context.Background()
	rule := f.createRule(t, f.other, mondayWednesday(1))
	invalid := model.RuleParams{Title: "x", WeekGap: 0, DailyQuota: 0}

	// Missing rule: not found, even with bad params.
	_, _, err := f.ruleSvc.Update(ctx, f.user, uuid.New(), invalid)
	assert.ErrorIs(t, err, service.ErrNotFound)

	// Someone else's rule: forbidden, even with bad params.
	_, _, err = f.ruleSvc.Update(ctx, f.user, rule.ID, invalid)
	assert.ErrorIs(t, err, service.ErrForbidden)

	// Own rule with bad params: invalid parameters.
	_, _, err = f.ruleSvc.Update(ctx, f.other, rule.ID, invalid)
	assert.ErrorIs(t, err, service.ErrInvalidRuleParameters)

	_, err = f.ruleSvc.Get(ctx, f.user, rule.ID)
	assert.ErrorIs(t, err, service.ErrForbidden)

	err = f.ruleSvc.Delete(ctx, f.user, rule.ID)
	assert.ErrorIs(t, err, service.ErrForbidden)

	err = f.ruleSvc.Delete(ctx, f.user, uuid.New())
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestRuleService_UpdateReconciliationBoundary(t *testing.T) {
	// Rule anchored on Monday 2026-10-12, daily on weekdays.
	f := newFixture(t, "2026-10-12")
	ctx := context.Background()
	rule := f.createRule(t, f.user, model.RuleParams{
		Title:      "Standup",
		Weekdays:   []string{"Mon", "Tue", "Wed", "Thu", "Fri"},
		WeekGap:    1,
		DailyQuota: 1,
	})

	days := []string{"2026-10-14", "2026-10-15", "2026-10-16", "2026-10-19"}
	for _, day := range days {
		_, err := f.materializer.MaterializeForDate(ctx, f.user, date(t, day))
		require.NoError(t, err)
	}
	adHocFuture := f.createTask(t, f.user, "Hand-made", "2026-10-19")

	// Today is Thursday 2026-10-15.
	f.setToday(t, "2026-10-15")

	updated, removed, err := f.ruleSvc.Update(ctx, f.user, rule.ID, model.RuleParams{
		Title:      "Standup",
		Weekdays:   []string{"Sat"},
		WeekGap:    1,
		DailyQuota: 1,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)
	assert.Equal(t, "2026-10-12", updated.AnchorDate)

	// Past and today survive even though they no longer match.
	assert.Len(t, f.linksFor(t, rule.ID, "2026-10-14"), 1)
	assert.Len(t, f.linksFor(t, rule.ID, "2026-10-15"), 1)

	// Future generated tasks are gone.
	assert.Empty(t, f.linksFor(t, rule.ID, "2026-10-16"))
	assert.Empty(t, f.linksFor(t, rule.ID, "2026-10-19"))
	friday, err := f.tasks.ListByDate(ctx, f.user, "2026-10-16")
	require.NoError(t, err)
	assert.Empty(t, friday)

	// The hand-made future task is untouched.
	monday, err := f.tasks.ListByDate(ctx, f.user, "2026-10-19")
	require.NoError(t, err)
	require.Len(t, monday, 1)
	assert.Equal(t, adHocFuture.ID, monday[0].ID)
}

func TestRuleService_UpdateKeepsGeneratedTaskMovedToToday(t *testing.T) {
	f := newFixture(t, "2026-10-16")
	ctx := context.Background()
	rule := f.createRule(t, f.user, mondayWednesday(1))

	monday, err := f.materializer.MaterializeForDate(ctx, f.user, date(t, "2026-10-19"))
	require.NoError(t, err)
	require.Len(t, monday, 1)

	// The owner pulls Monday's task into today; its link still says Monday.
	moved, err := f.taskSvc.Update(ctx, f.user, monday[0].ID, service.TaskInput{
		Title: monday[0].Title,
		Date:  date(t, "2026-10-16"),
	})
	require.NoError(t, err)
	require.Equal(t, "2026-10-16", moved.Date)

	params := mondayWednesday(1)
	params.Weekdays = []string{"Tue"}
	_, removed, err := f.ruleSvc.Update(ctx, f.user, rule.ID, params)

	require.NoError(t, err)
	assert.Equal(t, int64(0), removed)
	today, err := f.tasks.ListByDate(ctx, f.user, "2026-10-16")
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{moved.ID}, ids(today))
}

func TestRuleService_UpdateDoesNotTouchOtherRules(t *testing.T) {
	f := newFixture(t, "2026-10-16")
	ctx := context.Background()
	changed := f.createRule(t, f.user, mondayWednesday(1))
	kept := f.createRule(t, f.user, mondayWednesday(1))

	_, err := f.materializer.MaterializeForDate(ctx, f.user, date(t, "2026-10-19"))
	require.NoError(t, err)

	_, removed, err := f.ruleSvc.Update(ctx, f.user, changed.ID, mondayWednesday(2))
	require.NoError(t, err)

	assert.Equal(t, int64(1), removed)
	assert.Empty(t, f.linksFor(t, changed.ID, "2026-10-19"))
	assert.Len(t, f.linksFor(t, kept.ID, "2026-10-19"), 1)
}

func TestRuleService_DeleteStopsGenerationKeepsHistory(t *testing.T) {
	f := newFixture(t, "2026-10-16")
	ctx := context.Background()
	rule := f.createRule(t, f.user, mondayWednesday(1))

	_, err := f.materializer.MaterializeForDate(ctx, f.user, date(t, "2026-10-19"))
	require.NoError(t, err)

	require.NoError(t, f.ruleSvc.Delete(ctx, f.user, rule.ID))

	_, err = f.ruleSvc.Get(ctx, f.user, rule.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)

	monday, err := f.materializer.MaterializeForDate(ctx, f.user, date(t, "2026-10-19"))
	require.NoError(t, err)
	assert.Len(t, monday, 1)

	wednesday, err := f.materializer.MaterializeForDate(ctx, f.user, date(t, "2026-10-21"))
	require.NoError(t, err)
	assert.Empty(t, wednesday)
}

func TestScenario_UpdateBeforeMondayRemovesItsTasks(t *testing.T) {
	// Rule created on Friday 2026-10-16: Mon+Wed, every week, two a day.
	f := newFixture(t, "2026-10-16")
	ctx := context.Background()
	rule := f.createRule(t, f.user, mondayWednesday(2))
	monday := date(t, "2026-10-19")

	first, err := f.taskSvc.ForDate(ctx, f.user, monday)
	require.NoError(t, err)
	require.Len(t, first, 2)

	again, err := f.taskSvc.ForDate(ctx, f.user, monday)
	require.NoError(t, err)
	assert.ElementsMatch(t, ids(first), ids(again))

	// Still Friday: Monday is in the future.
	params := mondayWednesday(2)
	params.Weekdays = []string{"Tue", "Thu"}
	_, removed, err := f.ruleSvc.Update(ctx, f.user, rule.ID, params)
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	after, err := f.taskSvc.ForDate(ctx, f.user, monday)
	require.NoError(t, err)
	assert.Empty(t, after)
}

func TestScenario_PastTasksSurviveUpdate(t *testing.T) {
	f := newFixture(t, "2026-10-16")
	ctx := context.Background()
	rule := f.createRule(t, f.user, mondayWednesday(2))

	// Wednesday 2026-10-21 is today; the next Monday is ahead.
	f.setToday(t, "2026-10-21")
	wednesday, err := f.taskSvc.ForDate(ctx, f.user, date(t, "2026-10-21"))
	require.NoError(t, err)
	require.Len(t, wednesday, 2)
	nextMonday, err := f.taskSvc.ForDate(ctx, f.user, date(t, "2026-10-26"))
	require.NoError(t, err)
	require.Len(t, nextMonday, 2)

	params := mondayWednesday(2)
	params.Weekdays = []string{"Tue", "Thu"}
	_, removed, err := f.ruleSvc.Update(ctx, f.user, rule.ID, params)
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	// A day later Wednesday is in the past and unchanged.
	f.setToday(t, "2026-10-22")
	again, err := f.taskSvc.ForDate(ctx, f.user, date(t, "2026-10-21"))
	require.NoError(t, err)
	assert.ElementsMatch(t, ids(wednesday), ids(again))

	gone, err := f.taskSvc.ForDate(ctx, f.user, date(t, "2026-10-26"))
	require.NoError(t, err)
	assert.Empty(t, gone)

	thursday, err := f.taskSvc.ForDate(ctx, f.user, date(t, "2026-10-22"))
	require.NoError(t, err)
	assert.Len(t, thursday, 2)
}
