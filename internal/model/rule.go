package model

import (
	"errors"
	"fmt"
	"time"

	"planner/internal/calendar"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// RecurrenceRule generates DailyQuota tasks on every listed weekday of every
// WeekGap-th week, counted from the week of AnchorDate.
type RecurrenceRule struct {
	ID          uuid.UUID                   `gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID                   `gorm:"type:uuid;not null;index"`
	Title       string                      `gorm:"not null"`
	Description string
	Weekdays    datatypes.JSONSlice[string] `gorm:"not null"` // "Mon".."Sun"
	WeekGap     int                         `gorm:"not null;default:1"`
	DailyQuota  int                         `gorm:"not null;default:1"`
	AnchorDate  string                      `gorm:"type:varchar(10);not null"` // YYYY-MM-DD, set once
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

func (r *RecurrenceRule) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// RuleParams are the user-editable fields of a rule.
type RuleParams struct {
	Title       string
	Description string
	Weekdays    []string
	WeekGap     int
	DailyQuota  int
}

// Validate reports every broken parameter at once.
func (p RuleParams) Validate() error {
	var result *multierror.Error

	if p.WeekGap < 1 {
		result = multierror.Append(result, fmt.Errorf("week_gap must be at least 1, got %d", p.WeekGap))
	}
	if p.DailyQuota < 1 {
		result = multierror.Append(result, fmt.Errorf("daily_quota must be at least 1, got %d", p.DailyQuota))
	}
	if len(p.Weekdays) == 0 {
		result = multierror.Append(result, errors.New("weekdays must not be empty"))
	}
	for _, day := range p.Weekdays {
		if _, err := calendar.ParseWeekday(day); err != nil {
			result = multierror.Append(result, err)
		}
	}

	return result.ErrorOrNil()
}

// NormalizedWeekdays returns the weekday names in Mon..Sun order without
// duplicates. Names must already be valid.
func (p RuleParams) NormalizedWeekdays() []string {
	seen := make(map[time.Weekday]bool, len(p.Weekdays))
	for _, day := range p.Weekdays {
		if wd, err := calendar.ParseWeekday(day); err == nil {
			seen[wd] = true
		}
	}

	days := make([]string, 0, len(seen))
	for _, wd := range []time.Weekday{
		time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
		time.Friday, time.Saturday, time.Sunday,
	} {
		if seen[wd] {
			days = append(days, calendar.ShortName(wd))
		}
	}
	return days
}

// Apply copies p onto the rule. The anchor date is left alone.
func (r *RecurrenceRule) Apply(p RuleParams) {
	r.Title = p.Title
	r.Description = p.Description
	r.Weekdays = p.NormalizedWeekdays()
	r.WeekGap = p.WeekGap
	r.DailyQuota = p.DailyQuota
}

// Params returns the editable fields of the rule.
func (r *RecurrenceRule) Params() RuleParams {
	return RuleParams{
		Title:       r.Title,
		Description: r.Description,
		Weekdays:    append([]string(nil), r.Weekdays...),
		WeekGap:     r.WeekGap,
		DailyQuota:  r.DailyQuota,
	}
}

// MatchesWeekday reports whether the rule fires on wd.
func (r *RecurrenceRule) MatchesWeekday(wd time.Weekday) bool {
	for _, day := range r.Weekdays {
		if parsed, err := calendar.ParseWeekday(day); err == nil && parsed == wd {
			return true
		}
	}
	return false
}

// NeedCreated returns how many tasks the rule still owes on date, given the
// number of links it already has there.
func (r *RecurrenceRule) NeedCreated(date time.Time, existing int) int {
	anchor, err := calendar.Parse(r.AnchorDate)
	if err != nil {
		return 0
	}

	gap := calendar.GapWeeks(anchor, date)
	if gap < 0 {
		return 0
	}
	if r.WeekGap < 1 || gap%r.WeekGap != 0 {
		return 0
	}
	if !r.MatchesWeekday(date.Weekday()) {
		return 0
	}
	if existing >= r.DailyQuota {
		return 0
	}
	return r.DailyQuota - existing
}
