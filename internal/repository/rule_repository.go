package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"planner/internal/model"
)

type RuleRepository struct {
	db *gorm.DB
}

func NewRuleRepository(db *gorm.DB) *RuleRepository {
	return &RuleRepository{db: db}
}

// WithTx returns a repository bound to an open transaction.
func (r *RuleRepository) WithTx(tx *gorm.DB) *RuleRepository {
	return &RuleRepository{db: tx}
}

func (r *RuleRepository) Create(ctx context.Context, rule *model.RecurrenceRule) error {
	return r.db.WithContext(ctx).Create(rule).Error
}

// GetByID retrieves an active rule. Deleted rules are reported as not found.
func (r *RuleRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.RecurrenceRule, error) {
	var rule model.RecurrenceRule
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&rule).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRuleNotFound
		}
		return nil, err
	}
	return &rule, nil
}

// ListByUser retrieves the user's active rules, oldest first
func (r *RuleRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.RecurrenceRule, error) {
	var rules []model.RecurrenceRule
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at").
		Order("id").
		Find(&rules).Error
	return rules, err
}

// UserIDsWithRules lists every user owning at least one active rule
func (r *RuleRepository) UserIDsWithRules(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&model.RecurrenceRule{}).
		Distinct("user_id").
		Pluck("user_id", &ids).Error
	return ids, err
}

func (r *RuleRepository) Update(ctx context.Context, rule *model.RecurrenceRule) error {
	result := r.db.WithContext(ctx).Save(rule)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRuleNotFound
	}
	return nil
}

// Delete soft-deletes a rule. Links and generated tasks stay as history.
func (r *RuleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.RecurrenceRule{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRuleNotFound
	}
	return nil
}
