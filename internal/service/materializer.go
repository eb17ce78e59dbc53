package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	"planner/internal/calendar"
	"planner/internal/model"
	"planner/internal/repository"
)

const (
	maxMaterializeAttempts = 3
	materializeAllWorkers  = 4
)

// Materializer turns the rules of a user into concrete tasks for a date.
type Materializer struct {
	tx     *repository.Transactor
	rules  *repository.RuleRepository
	links  *repository.LinkRepository
	tasks  *repository.TaskRepository
	logger *log.Logger

	// Coalesces concurrent calls for the same (user, date) in this process.
	// The unique slot index on generation_links covers other processes.
	group singleflight.Group
}

func NewMaterializer(
	tx *repository.Transactor,
	rules *repository.RuleRepository,
	links *repository.LinkRepository,
	tasks *repository.TaskRepository,
	logger *log.Logger,
) *Materializer {
	return &Materializer{
		tx:     tx,
		rules:  rules,
		links:  links,
		tasks:  tasks,
		logger: logger,
	}
}

// MaterializeForDate creates every task the user's rules still owe on date and
// returns all of the user's tasks for that date. Repeated calls create nothing
// new.
func (m *Materializer) MaterializeForDate(ctx context.Context, userID uuid.UUID, date time.Time) ([]model.Task, error) {
	day := calendar.Format(date)

	// The flight is shared by every caller waiting on this key, so it must not
	// die with whichever caller happened to start it.
	shared := context.WithoutCancel(ctx)
	_, err, _ := m.group.Do(userID.String()+"/"+day, func() (interface{}, error) {
		return m.materializeWithRetry(shared, userID, calendar.Normalize(date))
	})
	if err != nil {
		return nil, err
	}

	return m.tasks.ListByDate(ctx, userID, day)
}

func (m *Materializer) materializeWithRetry(ctx context.Context, userID uuid.UUID, date time.Time) (int, error) {
	day := calendar.Format(date)

	var err error
	for attempt := 1; attempt <= maxMaterializeAttempts; attempt++ {
		var created int
		created, err = m.materialize(ctx, userID, date)
		if err == nil {
			if created > 0 {
				m.logger.Debug("materialized tasks", "user_id", userID, "date", day, "created", created)
			}
			return created, nil
		}
		if !errors.Is(err, repository.ErrConflict) {
			return 0, fmt.Errorf("materialize %s: %w", day, err)
		}
		m.logger.Warn("materialization conflict, retrying", "user_id", userID, "date", day, "attempt", attempt)
	}

	return 0, fmt.Errorf("%w: materialize %s: %v", ErrStorageConflict, day, err)
}

// materialize runs one attempt in a single transaction.
func (m *Materializer) materialize(ctx context.Context, userID uuid.UUID, date time.Time) (int, error) {
	day := calendar.Format(date)
	created := 0

	err := m.tx.WithinTx(ctx, func(tx *gorm.DB) error {
		rules := m.rules.WithTx(tx)
		links := m.links.WithTx(tx)
		tasks := m.tasks.WithTx(tx)

		active, err := rules.ListByUser(ctx, userID)
		if err != nil {
			return err
		}

		for i := range active {
			rule := &active[i]

			existing, err := links.ListForRuleDate(ctx, rule.ID, day)
			if err != nil {
				return err
			}

			need := rule.NeedCreated(date, len(existing))
			for _, ordinal := range freeOrdinals(existing, need) {
				task := &model.Task{
					UserID:      userID,
					Title:       rule.Title,
					Description: rule.Description,
					Date:        day,
				}
				if err := tasks.Create(ctx, task); err != nil {
					return err
				}

				link := &model.GenerationLink{
					RuleID:  rule.ID,
					TaskID:  task.ID,
					Date:    day,
					Ordinal: ordinal,
				}
				if err := links.Create(ctx, link); err != nil {
					return err
				}
				created++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return created, nil
}

// freeOrdinals picks the n lowest slots not taken by existing links.
func freeOrdinals(existing []model.GenerationLink, n int) []int {
	if n <= 0 {
		return nil
	}

	taken := make(map[int]bool, len(existing))
	for _, link := range existing {
		taken[link.Ordinal] = true
	}

	ordinals := make([]int, 0, n)
	for slot := 1; len(ordinals) < n; slot++ {
		if !taken[slot] {
			ordinals = append(ordinals, slot)
		}
	}
	return ordinals
}

// MaterializeAll materializes date for every user that owns an active rule.
// One user's failure does not stop the others; all failures are returned.
func (m *Materializer) MaterializeAll(ctx context.Context, date time.Time) error {
	userIDs, err := m.rules.UserIDsWithRules(ctx)
	if err != nil {
		return fmt.Errorf("list users with rules: %w", err)
	}

	var (
		mu     sync.Mutex
		result *multierror.Error
		g      errgroup.Group
	)
	g.SetLimit(materializeAllWorkers)

	for _, userID := range userIDs {
		userID := userID
		g.Go(func() error {
			if _, err := m.MaterializeForDate(ctx, userID, date); err != nil {
				m.logger.Error("nightly materialization failed", "user_id", userID, "err", err)
				mu.Lock()
				result = multierror.Append(result, fmt.Errorf("user %s: %w", userID, err))
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	m.logger.Info("nightly materialization done", "date", calendar.Format(date), "users", len(userIDs))
	return result.ErrorOrNil()
}
