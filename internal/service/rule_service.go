package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"planner/internal/calendar"
	"planner/internal/model"
	"planner/internal/repository"
)

// RuleService manages recurrence rules. Every change to a rule goes through
// the Reconciler in the same transaction.
type RuleService struct {
	tx         *repository.Transactor
	rules      *repository.RuleRepository
	reconciler *Reconciler
	clock      Clock
}

func NewRuleService(tx *repository.Transactor, rules *repository.RuleRepository, reconciler *Reconciler, clock Clock) *RuleService {
	return &RuleService{tx: tx, rules: rules, reconciler: reconciler, clock: clock}
}

func (s *RuleService) Create(ctx context.Context, userID uuid.UUID, params model.RuleParams) (*model.RecurrenceRule, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRuleParameters, err)
	}

	rule := &model.RecurrenceRule{
		UserID:     userID,
		AnchorDate: calendar.Format(s.clock.Today()),
	}
	rule.Apply(params)

	if err := s.rules.Create(ctx, rule); err != nil {
		return nil, classify(err)
	}
	return rule, nil
}

func (s *RuleService) List(ctx context.Context, userID uuid.UUID) ([]model.RecurrenceRule, error) {
	return s.rules.ListByUser(ctx, userID)
}

func (s *RuleService) Get(ctx context.Context, userID, ruleID uuid.UUID) (*model.RecurrenceRule, error) {
	return s.getOwned(ctx, s.rules, userID, ruleID)
}

// Update applies params and drops the rule's generated tasks dated after
// today. It returns the updated rule and how many tasks were removed.
func (s *RuleService) Update(ctx context.Context, userID, ruleID uuid.UUID, params model.RuleParams) (*model.RecurrenceRule, int64, error) {
	var (
		updated *model.RecurrenceRule
		removed int64
	)
	today := calendar.Format(s.clock.Today())

	err := s.tx.WithinTx(ctx, func(tx *gorm.DB) error {
		rules := s.rules.WithTx(tx)

		rule, err := s.getOwned(ctx, rules, userID, ruleID)
		if err != nil {
			return err
		}
		if err := params.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidRuleParameters, err)
		}

		rule.Apply(params)
		if err := rules.Update(ctx, rule); err != nil {
			return err
		}

		removed, err = s.reconciler.Reconcile(ctx, tx, rule.ID, today)
		if err != nil {
			return err
		}
		updated = rule
		return nil
	})
	if err != nil {
		return nil, 0, classify(err)
	}
	return updated, removed, nil
}

// Delete stops the rule from generating. Tasks it already produced are kept.
func (s *RuleService) Delete(ctx context.Context, userID, ruleID uuid.UUID) error {
	if _, err := s.getOwned(ctx, s.rules, userID, ruleID); err != nil {
		return err
	}
	return classify(s.rules.Delete(ctx, ruleID))
}

func (s *RuleService) getOwned(ctx context.Context, rules *repository.RuleRepository, userID, ruleID uuid.UUID) (*model.RecurrenceRule, error) {
	rule, err := rules.GetByID(ctx, ruleID)
	if err != nil {
		return nil, classify(err)
	}
	if err := Authorize(rule.UserID, userID); err != nil {
		return nil, err
	}
	return rule, nil
}
