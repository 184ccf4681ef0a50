package planning

import (
	"fmt"
	"sort"

	"smartplanning/backend/internal/model"
)

// ValidateScheduleData checks schedule data at the edit-commit
// boundary: day keys must be valid, every slot well-formed and ending
// after it starts, and slots within a day must not overlap. Catching
// this here keeps bad intervals from ever reaching the duration
// totals.
func ValidateScheduleData(data model.ScheduleData) error {
	for key, day := range data {
		if !model.IsDayKey(key) {
			return fmt.Errorf("%w: unknown day key %q", ErrInvalidSlot, key)
		}

		if day.HasSlots() {
			type interval struct{ start, end int }
			intervals := make([]interval, 0, len(day.Slots))
			for _, slot := range day.Slots {
				start, end, err := ParseSlot(slot)
				if err != nil {
					return fmt.Errorf("%s: %w", key, err)
				}
				intervals = append(intervals, interval{start, end})
			}
			sort.Slice(intervals, func(i, j int) bool {
				return intervals[i].start < intervals[j].start
			})
			for i := 1; i < len(intervals); i++ {
				if intervals[i].start < intervals[i-1].end {
					return fmt.Errorf("%w: overlapping slots on %s", ErrInvalidSlot, key)
				}
			}
			continue
		}

		// Legacy form: run it through the calculator so range and
		// pause defects surface with the same error taxonomy.
		if _, err := DayMinutes(day); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}
	return nil
}
