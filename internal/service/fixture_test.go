package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"planner/internal/calendar"
	"planner/internal/logging"
	"planner/internal/model"
	"planner/internal/repository"
	"planner/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db  *gorm.DB
	now time.Time

	tasks  *repository.TaskRepository
	rules  *repository.RuleRepository
	links  *repository.LinkRepository
	orders *repository.OrderRepository

	materializer *service.Materializer
	ruleSvc      *service.RuleService
	taskSvc      *service.TaskService
	orderSvc     *service.OrderService

	user  uuid.UUID
	other uuid.UUID
}

func newFixture(t *testing.T, today string) *fixture {
	t.Helper()

	db, err := repository.OpenSQLite(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	f := &fixture{db: db, user: uuid.New(), other: uuid.New()}
	f.setToday(t, today)

	clock := service.Clock{Now: func() time.Time { return f.now }, Location: time.UTC}
	logger := logging.Discard()

	f.tasks = repository.NewTaskRepository(db)
	f.rules = repository.NewRuleRepository(db)
	f.links = repository.NewLinkRepository(db)
	f.orders = repository.NewOrderRepository(db)
	tx := repository.NewTransactor(db)

	f.materializer = service.NewMaterializer(tx, f.rules, f.links, f.tasks, logger)
	f.ruleSvc = service.NewRuleService(tx, f.rules, service.NewReconciler(f.links, f.tasks, logger), clock)
	f.orderSvc = service.NewOrderService(f.orders, f.tasks)
	f.taskSvc = service.NewTaskService(f.tasks, f.materializer, f.orderSvc, clock)

	return f
}

// setToday moves the clock to noon of the given day.
func (f *fixture) setToday(t *testing.T, day string) {
	t.Helper()
	d := date(t, day)
	f.now = d.Add(12 * time.Hour)
}

func (f *fixture) createRule(t *testing.T, owner uuid.UUID, params model.RuleParams) *model.RecurrenceRule {
	t.Helper()
	rule, err := f.ruleSvc.Create(context.Background(), owner, params)
	require.NoError(t, err)
	return rule
}

func (f *fixture) createTask(t *testing.T, owner uuid.UUID, title, day string) *model.Task {
	t.Helper()
	task, err := f.taskSvc.Create(context.Background(), owner, service.TaskInput{Title: title, Date: date(t, day)})
	require.NoError(t, err)
	return task
}

func (f *fixture) linksFor(t *testing.T, ruleID uuid.UUID, day string) []model.GenerationLink {
	t.Helper()
	links, err := f.links.ListForRuleDate(context.Background(), ruleID, day)
	require.NoError(t, err)
	return links
}

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := calendar.Parse(s)
	require.NoError(t, err)
	return d
}

func ids(tasks []model.Task) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, task.ID)
	}
	return out
}

func mondayWednesday(quota int) model.RuleParams {
	return model.RuleParams{
		Title:       "Workout",
		Description: "30 minutes",
		Weekdays:    []string{"Mon", "Wed"},
		WeekGap:     1,
		DailyQuota:  quota,
	}
}
