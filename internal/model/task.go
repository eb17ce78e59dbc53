package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Task is a concrete to-do item on one calendar day. It is either created
// directly by its owner or generated from a RecurrenceRule.
type Task struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index:idx_tasks_user_date,priority:1"`
	Title       string    `gorm:"not null"`
	Description string
	Date        string `gorm:"type:varchar(10);not null;index:idx_tasks_user_date,priority:2"` // YYYY-MM-DD
	Completed   bool   `gorm:"not null;default:false"`
	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// Complete sets the completion flag and stamps the time. Completing an already
// completed task keeps the original timestamp.
func (t *Task) Complete(at time.Time) {
	if t.Completed && t.CompletedAt != nil {
		return
	}
	t.Completed = true
	t.CompletedAt = &at
}

func (t *Task) Uncomplete() {
	t.Completed = false
	t.CompletedAt = nil
}
