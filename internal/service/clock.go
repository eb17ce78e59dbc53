package service

import (
	"time"

	"planner/internal/calendar"
)

// Clock tells the services what "today" is in the configured calendar.
type Clock struct {
	Now      func() time.Time
	Location *time.Location
}

func SystemClock(loc *time.Location) Clock {
	return Clock{Now: time.Now, Location: loc}
}

// Today is the current calendar day, at midnight UTC.
func (c Clock) Today() time.Time {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	return calendar.Today(now(), c.Location)
}

func (c Clock) instant() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}
