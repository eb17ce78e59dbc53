package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"planner/internal/model"
)

type LinkRepository struct {
	db *gorm.DB
}

func NewLinkRepository(db *gorm.DB) *LinkRepository {
	return &LinkRepository{db: db}
}

// WithTx returns a repository bound to an open transaction.
func (r *LinkRepository) WithTx(tx *gorm.DB) *LinkRepository {
	return &LinkRepository{db: tx}
}

func (r *LinkRepository) Create(ctx context.Context, link *model.GenerationLink) error {
	return r.db.WithContext(ctx).Create(link).Error
}

// ListForRuleDate retrieves the links a rule produced for one date
func (r *LinkRepository) ListForRuleDate(ctx context.Context, ruleID uuid.UUID, date string) ([]model.GenerationLink, error) {
	var links []model.GenerationLink
	err := r.db.WithContext(ctx).
		Where("rule_id = ? AND date = ?", ruleID, date).
		Order("ordinal").
		Find(&links).Error
	return links, err
}

// ListAfter retrieves the links a rule produced for dates strictly after date
// whose task is still dated after it. A generated task the user moved to an
// earlier day is left out.
func (r *LinkRepository) ListAfter(ctx context.Context, ruleID uuid.UUID, date string) ([]model.GenerationLink, error) {
	var links []model.GenerationLink
	err := r.db.WithContext(ctx).
		Select("generation_links.*").
		Joins("JOIN tasks ON tasks.id = generation_links.task_id").
		Where("generation_links.rule_id = ? AND generation_links.date > ? AND tasks.date > ?", ruleID, date, date).
		Order("generation_links.date").
		Order("generation_links.ordinal").
		Find(&links).Error
	return links, err
}

// ListByRule retrieves every link of a rule
func (r *LinkRepository) ListByRule(ctx context.Context, ruleID uuid.UUID) ([]model.GenerationLink, error) {
	var links []model.GenerationLink
	err := r.db.WithContext(ctx).
		Where("rule_id = ?", ruleID).
		Order("date").
		Order("ordinal").
		Find(&links).Error
	return links, err
}
