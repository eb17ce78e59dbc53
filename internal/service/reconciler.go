package service

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"planner/internal/repository"
)

// Reconciler removes the generated tasks a rule scheduled after today. It
// never touches tasks dated today or earlier, nor tasks created by hand.
type Reconciler struct {
	links  *repository.LinkRepository
	tasks  *repository.TaskRepository
	logger *log.Logger
}

func NewReconciler(links *repository.LinkRepository, tasks *repository.TaskRepository, logger *log.Logger) *Reconciler {
	return &Reconciler{links: links, tasks: tasks, logger: logger}
}

// Reconcile must run inside the caller's transaction tx. It returns the number
// of tasks deleted.
func (r *Reconciler) Reconcile(ctx context.Context, tx *gorm.DB, ruleID uuid.UUID, today string) (int64, error) {
	links, err := r.links.WithTx(tx).ListAfter(ctx, ruleID, today)
	if err != nil {
		return 0, err
	}
	if len(links) == 0 {
		return 0, nil
	}

	ids := make([]uuid.UUID, 0, len(links))
	for _, link := range links {
		ids = append(ids, link.TaskID)
	}

	deleted, err := r.tasks.WithTx(tx).DeleteByIDs(ctx, ids)
	if err != nil {
		return 0, err
	}

	r.logger.Info("reconciled rule", "rule_id", ruleID, "after", today, "deleted", deleted)
	return deleted, nil
}
