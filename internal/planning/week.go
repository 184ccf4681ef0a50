// Package planning holds the pure scheduling arithmetic: ISO-week
// date resolution and time-slot duration aggregation. Nothing in this
// package touches the database.
package planning

import (
	"time"

	"go.uber.org/zap"
)

// Advisory input ranges for Resolve. Out-of-range input falls back to
// the current week instead of failing the caller.
const (
	MinYear = 2020
	MaxYear = 2030
	MinWeek = 1
	MaxWeek = 53
)

// WeekResolver converts an (ISO year, week number) pair into the
// concrete Monday–Sunday date range it covers.
type WeekResolver struct {
	logger *zap.Logger
	now    func() time.Time
}

// NewWeekResolver builds a resolver using the wall clock.
func NewWeekResolver(logger *zap.Logger) *WeekResolver {
	return &WeekResolver{logger: logger, now: time.Now}
}

// NewWeekResolverAt builds a resolver with an injected clock for
// deterministic tests of the fallback branch.
func NewWeekResolverAt(logger *zap.Logger, now func() time.Time) *WeekResolver {
	return &WeekResolver{logger: logger, now: now}
}

// Resolve returns the Monday and Sunday of the requested ISO week.
// Invalid input is logged and resolved to the current week; Resolve
// never fails.
func (r *WeekResolver) Resolve(year, week int) (monday, sunday time.Time) {
	if year < MinYear || year > MaxYear || week < MinWeek || week > MaxWeek {
		r.logger.Warn("week resolution out of range, falling back to current week",
			zap.Int("year", year),
			zap.Int("week", week),
		)
		monday = MondayOf(r.now())
		return monday, monday.AddDate(0, 0, 6)
	}

	// Anchor on January 1, advance whole weeks, then snap to the ISO
	// Monday of the week containing that date.
	anchor := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	monday = MondayOf(anchor.AddDate(0, 0, (week-1)*7))
	return monday, monday.AddDate(0, 0, 6)
}

// MondayOf snaps a date back to the Monday of its ISO week, at
// midnight in the date's location.
func MondayOf(d time.Time) time.Time {
	d = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
	offset := (int(d.Weekday()) + 6) % 7 // Monday=0 ... Sunday=6
	return d.AddDate(0, 0, -offset)
}
