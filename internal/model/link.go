package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GenerationLink records that a rule produced a task for a date. Ordinal is the
// slot (1..DailyQuota) the task fills; the unique index on (rule, date, ordinal)
// stops two concurrent materializations from filling the same slot twice.
type GenerationLink struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	RuleID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_generation_links_slot,priority:1"`
	TaskID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	Date      string    `gorm:"type:varchar(10);not null;uniqueIndex:idx_generation_links_slot,priority:2"`
	Ordinal   int       `gorm:"not null;uniqueIndex:idx_generation_links_slot,priority:3"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (l *GenerationLink) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
