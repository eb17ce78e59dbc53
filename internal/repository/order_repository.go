package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"planner/internal/model"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Get returns nil, nil when the user never reordered that day.
func (r *OrderRepository) Get(ctx context.Context, userID uuid.UUID, date string) (*model.DailyOrder, error) {
	var order model.DailyOrder
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, date).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// Upsert replaces the stored order for (user, date) wholesale.
func (r *OrderRepository) Upsert(ctx context.Context, order *model.DailyOrder) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"task_ids", "updated_at"}),
		}).
		Create(order).Error
}
