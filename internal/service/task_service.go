package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"planner/internal/calendar"
	"planner/internal/model"
	"planner/internal/repository"
)

// TaskInput represents data required to create or edit a task.
type TaskInput struct {
	Title       string
	Description string
	Date        time.Time
}

// TaskService wraps task-related business logic.
type TaskService struct {
	tasks        *repository.TaskRepository
	materializer *Materializer
	orders       *OrderService
	clock        Clock
}

func NewTaskService(tasks *repository.TaskRepository, materializer *Materializer, orders *OrderService, clock Clock) *TaskService {
	return &TaskService{tasks: tasks, materializer: materializer, orders: orders, clock: clock}
}

func (s *TaskService) Create(ctx context.Context, userID uuid.UUID, input TaskInput) (*model.Task, error) {
	date := input.Date
	if date.IsZero() {
		date = s.clock.Today()
	}

	task := &model.Task{
		UserID:      userID,
		Title:       input.Title,
		Description: input.Description,
		Date:        calendar.Format(date),
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, classify(err)
	}
	return task, nil
}

func (s *TaskService) Get(ctx context.Context, userID, taskID uuid.UUID) (*model.Task, error) {
	return s.getOwned(ctx, userID, taskID)
}

// Update edits title, description and date. Completion has its own calls.
func (s *TaskService) Update(ctx context.Context, userID, taskID uuid.UUID, input TaskInput) (*model.Task, error) {
	task, err := s.getOwned(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	task.Title = input.Title
	task.Description = input.Description
	if !input.Date.IsZero() {
		task.Date = calendar.Format(input.Date)
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, classify(err)
	}
	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, userID, taskID uuid.UUID) error {
	if _, err := s.getOwned(ctx, userID, taskID); err != nil {
		return err
	}
	return classify(s.tasks.Delete(ctx, taskID))
}

func (s *TaskService) Complete(ctx context.Context, userID, taskID uuid.UUID) (*model.Task, error) {
	task, err := s.getOwned(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	task.Complete(s.clock.instant())
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, classify(err)
	}
	return task, nil
}

func (s *TaskService) Uncomplete(ctx context.Context, userID, taskID uuid.UUID) (*model.Task, error) {
	task, err := s.getOwned(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	task.Uncomplete()
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, classify(err)
	}
	return task, nil
}

// Remaining lists incomplete tasks dated today or earlier.
func (s *TaskService) Remaining(ctx context.Context, userID uuid.UUID) ([]model.Task, error) {
	return s.tasks.ListRemaining(ctx, userID, calendar.Format(s.clock.Today()))
}

// ForDate materializes the day and returns its tasks in display order.
func (s *TaskService) ForDate(ctx context.Context, userID uuid.UUID, date time.Time) ([]model.Task, error) {
	tasks, err := s.materializer.MaterializeForDate(ctx, userID, date)
	if err != nil {
		return nil, classify(err)
	}

	order, err := s.orders.GetOrder(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	return ApplyOrder(tasks, order), nil
}

// CleanDay deletes every task of the user on date.
func (s *TaskService) CleanDay(ctx context.Context, userID uuid.UUID, date time.Time) (int64, error) {
	n, err := s.tasks.DeleteByDate(ctx, userID, calendar.Format(date))
	return n, classify(err)
}

func (s *TaskService) getOwned(ctx context.Context, userID, taskID uuid.UUID) (*model.Task, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, classify(err)
	}
	if err := Authorize(task.UserID, userID); err != nil {
		return nil, err
	}
	return task, nil
}
