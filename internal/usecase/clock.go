package usecase

import (
	"time"

	"hospital-management-backend/pkg/dateutil"
)

// Clock resolves "today" in the hospital's time zone.
type Clock struct {
	now func() time.Time
	loc *time.Location
}

func NewClock(now func() time.Time, loc *time.Location) Clock {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.UTC
	}
	return Clock{now: now, loc: loc}
}

// Today returns the current calendar date.
func (c Clock) Today() time.Time {
	return dateutil.Today(c.now(), c.loc)
}

func (c Clock) Location() *time.Location {
	return c.loc
}
