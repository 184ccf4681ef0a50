package planning

import (
	"errors"
	"testing"

	"smartplanning/backend/internal/model"
)

func TestValidateScheduleData_Valid(t *testing.T) {
	data := model.ScheduleData{
		"monday":   {Slots: []string{"09:00-12:00", "14:00-18:00"}},
		"tuesday":  {Start: "09:00", End: "17:00", Pause: "01:00"},
		"saturday": {Slots: []string{"08:00-12:00"}},
	}
	if err := ValidateScheduleData(data); err != nil {
		t.Errorf("ValidateScheduleData should accept valid data: %v", err)
	}
}

func TestValidateScheduleData_Empty(t *testing.T) {
	if err := ValidateScheduleData(model.ScheduleData{}); err != nil {
		t.Errorf("an empty week is a valid week: %v", err)
	}
}

func TestValidateScheduleData_Invalid(t *testing.T) {
	cases := []struct {
		name string
		data model.ScheduleData
	}{
		{"unknown day key", model.ScheduleData{"funday": {Slots: []string{"09:00-12:00"}}}},
		{"overlap", model.ScheduleData{"monday": {Slots: []string{"09:00-12:00", "11:00-15:00"}}}},
		{"touching is fine but contained is not", model.ScheduleData{
			"monday": {Slots: []string{"09:00-18:00", "10:00-11:00"}},
		}},
		{"malformed slot", model.ScheduleData{"monday": {Slots: []string{"morning"}}}},
		{"legacy inverted", model.ScheduleData{"monday": {Start: "17:00", End: "09:00"}}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if err := ValidateScheduleData(c.data); !errors.Is(err, ErrInvalidSlot) {
				t.Errorf("expected ErrInvalidSlot, got: %v", err)
			}
		})
	}
}

func TestValidateScheduleData_AdjacentSlots(t *testing.T) {
	// Back-to-back slots share a boundary but do not overlap.
	data := model.ScheduleData{
		"monday": {Slots: []string{"09:00-12:00", "12:00-15:00"}},
	}
	if err := ValidateScheduleData(data); err != nil {
		t.Errorf("adjacent slots must be accepted: %v", err)
	}
}
