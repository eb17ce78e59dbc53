package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DailyOrder is the display order a user chose for the tasks of one day.
type DailyOrder struct {
	ID        uuid.UUID                      `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID                      `gorm:"type:uuid;not null;uniqueIndex:idx_daily_orders_user_date,priority:1"`
	Date      string                         `gorm:"type:varchar(10);not null;uniqueIndex:idx_daily_orders_user_date,priority:2"`
	TaskIDs   datatypes.JSONSlice[uuid.UUID] `gorm:"not null"`
	UpdatedAt time.Time
}

func (o *DailyOrder) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
