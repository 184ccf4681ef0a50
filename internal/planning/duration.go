package planning

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"smartplanning/backend/internal/model"
)

// ErrInvalidSlot marks schedule data the calculator refuses to count:
// malformed clock strings, missing separators, or intervals that do
// not end after they start. These indicate an upstream generation
// defect and must be reported, never silently zeroed.
var ErrInvalidSlot = errors.New("invalid time slot")

// ParseClock parses "HH:MM" into minutes since midnight.
func ParseClock(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("%w: clock %q is not HH:MM", ErrInvalidSlot, s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("%w: clock %q has non-numeric hour", ErrInvalidSlot, s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("%w: clock %q has non-numeric minute", ErrInvalidSlot, s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("%w: clock %q out of range", ErrInvalidSlot, s)
	}
	return h*60 + m, nil
}

// ParseSlot parses one "HH:MM-HH:MM" interval into start/end minutes
// since midnight. Midnight-spanning intervals (end not after start)
// are rejected.
func ParseSlot(s string) (start, end int, err error) {
	parts := strings.Split(s, "-")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: slot %q is not HH:MM-HH:MM", ErrInvalidSlot, s)
	}
	start, err = ParseClock(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("slot %q: %w", s, err)
	}
	end, err = ParseClock(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("slot %q: %w", s, err)
	}
	if end <= start {
		return 0, 0, fmt.Errorf("%w: slot %q must end after it starts", ErrInvalidSlot, s)
	}
	return start, end, nil
}

// DayMinutes returns one day's worked minutes. The slot list is
// authoritative when present; otherwise the legacy start/end/pause
// triple applies. An empty day (rest day) counts zero.
func DayMinutes(day model.DaySchedule) (int, error) {
	if day.HasSlots() {
		total := 0
		for _, slot := range day.Slots {
			start, end, err := ParseSlot(slot)
			if err != nil {
				return 0, err
			}
			total += end - start
		}
		return total, nil
	}

	if day.Start == "" && day.End == "" {
		return 0, nil
	}

	start, err := ParseClock(day.Start)
	if err != nil {
		return 0, err
	}
	end, err := ParseClock(day.End)
	if err != nil {
		return 0, err
	}
	if end <= start {
		return 0, fmt.Errorf("%w: day range %s-%s must end after it starts", ErrInvalidSlot, day.Start, day.End)
	}

	total := end - start
	if day.Pause != "" {
		pause, err := ParseClock(day.Pause)
		if err != nil {
			return 0, err
		}
		if pause >= total {
			return 0, fmt.Errorf("%w: pause %s exceeds the worked range", ErrInvalidSlot, day.Pause)
		}
		total -= pause
	}
	return total, nil
}

// WeekMinutes sums worked minutes across all seven day keys.
func WeekMinutes(data model.ScheduleData) (int, error) {
	total := 0
	for _, key := range model.DayKeys {
		day, ok := data[key]
		if !ok {
			continue // rest day
		}
		minutes, err := DayMinutes(day)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", key, err)
		}
		total += minutes
	}
	return total, nil
}

// FormatMinutes renders minutes as "7h30" for display.
func FormatMinutes(minutes int) string {
	return fmt.Sprintf("%dh%02d", minutes/60, minutes%60)
}
