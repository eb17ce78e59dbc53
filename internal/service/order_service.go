package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"planner/internal/calendar"
	"planner/internal/model"
	"planner/internal/repository"
)

// OrderService keeps the display order of a user's tasks per day.
type OrderService struct {
	orders *repository.OrderRepository
	tasks  *repository.TaskRepository
}

func NewOrderService(orders *repository.OrderRepository, tasks *repository.TaskRepository) *OrderService {
	return &OrderService{orders: orders, tasks: tasks}
}

// GetOrder returns the stored order for the day, or the creation order of the
// day's tasks when none was stored. The fallback is not persisted.
func (s *OrderService) GetOrder(ctx context.Context, userID uuid.UUID, date time.Time) ([]uuid.UUID, error) {
	day := calendar.Format(date)

	order, err := s.orders.Get(ctx, userID, day)
	if err != nil {
		return nil, err
	}
	if order != nil {
		return append([]uuid.UUID{}, order.TaskIDs...), nil
	}

	tasks, err := s.tasks.ListByDate(ctx, userID, day)
	if err != nil {
		return nil, err
	}
	return taskIDs(tasks), nil
}

// SetOrder replaces the day's order. taskIDs must be exactly the ids of the
// user's tasks on that day, each once.
func (s *OrderService) SetOrder(ctx context.Context, userID uuid.UUID, date time.Time, ids []uuid.UUID) error {
	day := calendar.Format(date)

	tasks, err := s.tasks.ListByDate(ctx, userID, day)
	if err != nil {
		return err
	}

	current := make(map[uuid.UUID]bool, len(tasks))
	for _, task := range tasks {
		current[task.ID] = true
	}

	var unknown []uuid.UUID
	for _, id := range ids {
		if !current[id] {
			unknown = append(unknown, id)
		}
	}

	// Ownership comes before payload validity.
	if len(unknown) > 0 {
		others, err := s.tasks.GetByIDs(ctx, unknown)
		if err != nil {
			return err
		}
		for _, task := range others {
			if err := Authorize(task.UserID, userID); err != nil {
				return fmt.Errorf("%w: task %s belongs to another user", err, task.ID)
			}
		}
		return fmt.Errorf("%w: %d id(s) are not tasks of %s", ErrInvalidOrderPayload, len(unknown), day)
	}

	seen := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return fmt.Errorf("%w: task %s listed twice", ErrInvalidOrderPayload, id)
		}
		seen[id] = true
	}
	if len(seen) != len(current) {
		return fmt.Errorf("%w: expected %d task(s), got %d", ErrInvalidOrderPayload, len(current), len(seen))
	}

	return s.orders.Upsert(ctx, &model.DailyOrder{
		UserID:  userID,
		Date:    day,
		TaskIDs: ids,
	})
}

// ApplyOrder sorts tasks by order. Tasks missing from order follow in their
// original sequence; ids in order without a task are skipped.
func ApplyOrder(tasks []model.Task, order []uuid.UUID) []model.Task {
	byID := make(map[uuid.UUID]model.Task, len(tasks))
	for _, task := range tasks {
		byID[task.ID] = task
	}

	sorted := make([]model.Task, 0, len(tasks))
	placed := make(map[uuid.UUID]bool, len(tasks))
	for _, id := range order {
		if task, ok := byID[id]; ok && !placed[id] {
			sorted = append(sorted, task)
			placed[id] = true
		}
	}
	for _, task := range tasks {
		if !placed[task.ID] {
			sorted = append(sorted, task)
		}
	}
	return sorted
}

func taskIDs(tasks []model.Task) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(tasks))
	for _, task := range tasks {
		ids = append(ids, task.ID)
	}
	return ids
}
