package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"planner/internal/model"
)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// WithTx returns a repository bound to an open transaction.
func (r *TaskRepository) WithTx(tx *gorm.DB) *TaskRepository {
	return &TaskRepository{db: tx}
}

// Create adds a new task to the database
func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

// GetByID retrieves a task by its ID
func (r *TaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	var task model.Task
	result := r.db.WithContext(ctx).First(&task, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, result.Error
	}
	return &task, nil
}

// GetByIDs retrieves every existing task among ids, whoever owns it
func (r *TaskRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Task, error) {
	var tasks []model.Task
	if len(ids) == 0 {
		return tasks, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&tasks).Error
	return tasks, err
}

// ListByDate retrieves a user's tasks for one day in creation order
func (r *TaskRepository) ListByDate(ctx context.Context, userID uuid.UUID, date string) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, date).
		Order("created_at").
		Order("id").
		Find(&tasks).Error
	return tasks, err
}

// ListRemaining retrieves incomplete tasks dated on or before today
func (r *TaskRepository) ListRemaining(ctx context.Context, userID uuid.UUID, today string) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND completed = ? AND date <= ?", userID, false, today).
		Order("date").
		Order("created_at").
		Find(&tasks).Error
	return tasks, err
}

// Update updates an existing task
func (r *TaskRepository) Update(ctx context.Context, task *model.Task) error {
	result := r.db.WithContext(ctx).Save(task)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// Delete removes a task and the link to the rule that generated it, if any
func (r *TaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&model.GenerationLink{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&model.Task{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrTaskNotFound
		}
		return nil
	})
}

// DeleteByIDs removes tasks and their generation links. It does not open a
// transaction of its own.
func (r *TaskRepository) DeleteByIDs(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	db := r.db.WithContext(ctx)
	if err := db.Where("task_id IN ?", ids).Delete(&model.GenerationLink{}).Error; err != nil {
		return 0, err
	}
	result := db.Where("id IN ?", ids).Delete(&model.Task{})
	return result.RowsAffected, result.Error
}

// DeleteByDate clears a user's day: its tasks, their links and the stored order
func (r *TaskRepository) DeleteByDate(ctx context.Context, userID uuid.UUID, date string) (int64, error) {
	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []uuid.UUID
		if err := tx.Model(&model.Task{}).
			Where("user_id = ? AND date = ?", userID, date).
			Pluck("id", &ids).Error; err != nil {
			return err
		}

		n, err := r.WithTx(tx).DeleteByIDs(ctx, ids)
		if err != nil {
			return err
		}
		deleted = n

		return tx.Where("user_id = ? AND date = ?", userID, date).Delete(&model.DailyOrder{}).Error
	})
	return deleted, err
}
