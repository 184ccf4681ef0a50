package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Schedule statuses. A generated schedule starts in draft and moves
// exactly once to approved or rejected; both are terminal here.
const (
	StatusDraft    = "draft"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// DayKeys are the seven fixed schedule-data keys, Monday first. A day
// absent from the map is a rest day.
var DayKeys = []string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

// IsDayKey reports whether s is one of the seven fixed day keys.
func IsDayKey(s string) bool {
	for _, k := range DayKeys {
		if k == s {
			return true
		}
	}
	return false
}

// DaySchedule is one day's worth of work in either of two forms: an
// ordered slot list ("HH:MM-HH:MM" intervals, authoritative when
// non-empty) or the legacy start/end/pause triple used only when
// slots are absent.
type DaySchedule struct {
	Start string   `json:"start,omitempty"` // "HH:MM"
	End   string   `json:"end,omitempty"`   // "HH:MM"
	Pause string   `json:"pause,omitempty"` // "HH:MM" duration
	Slots []string `json:"slots,omitempty"` // "HH:MM-HH:MM" each
}

// HasSlots reports whether the slot list is the authoritative form.
func (d DaySchedule) HasSlots() bool { return len(d.Slots) > 0 }

// ScheduleData maps day keys to day schedules, stored as JSONB.
type ScheduleData map[string]DaySchedule

// Scan implements sql.Scanner for the JSONB column.
func (s *ScheduleData) Scan(src interface{}) error {
	if src == nil {
		*s = ScheduleData{}
		return nil
	}
	var b []byte
	switch v := src.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("ScheduleData.Scan: unsupported type %T", src)
	}
	if len(b) == 0 {
		*s = ScheduleData{}
		return nil
	}
	return json.Unmarshal(b, s)
}

// Value implements driver.Valuer for the JSONB column.
func (s ScheduleData) Value() (driver.Value, error) {
	if s == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(s)
}

// GormDataType tells GORM the column type.
func (ScheduleData) GormDataType() string { return "jsonb" }

// Clone deep-copies the map so edit buffers never alias the canonical
// data.
func (s ScheduleData) Clone() ScheduleData {
	out := make(ScheduleData, len(s))
	for k, d := range s {
		if d.Slots != nil {
			slots := make([]string, len(d.Slots))
			copy(slots, d.Slots)
			d.Slots = slots
		}
		out[k] = d
	}
	return out
}

// GeneratedSchedule is one employee-week produced by the upstream
// generation engine, mapped to generated_schedules. The validation
// workflow mutates status/validated_by; the edit workflow mutates
// schedule_data; neither touches the other's columns.
type GeneratedSchedule struct {
	ScheduleID   string       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"schedule_id"`
	EmployeeID   string       `gorm:"type:uuid;not null"                             json:"employee_id"`
	TeamID       string       `gorm:"type:uuid;not null"                             json:"team_id"`
	TeamName     string       `gorm:"type:varchar(100);not null"                     json:"team_name"` // snapshot at generation time
	ScheduleData ScheduleData `gorm:"type:jsonb;not null"                            json:"schedule_data"`
	Status       string       `gorm:"type:varchar(20);not null;default:'draft'"      json:"status"` // draft | approved | rejected
	WeekNumber   int          `gorm:"type:smallint;not null"                         json:"week_number"` // 1-53
	Year         int          `gorm:"type:smallint;not null"                         json:"year"`
	GeneratedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"generated_at"`
	GeneratedBy  string       `gorm:"type:varchar(100);not null"                     json:"generated_by"`
	ValidatedBy  *string      `gorm:"type:uuid"                                      json:"validated_by,omitempty"`
	Constraints  StringArray  `gorm:"type:text[]"                                    json:"constraints,omitempty"`
	Notes        *string      `gorm:"type:text"                                      json:"notes,omitempty"`
	VersionedModel

	Employee *Employee `gorm:"foreignKey:EmployeeID;references:EmployeeID" json:"employee,omitempty"`
	Team     *Team     `gorm:"foreignKey:TeamID;references:TeamID"         json:"team,omitempty"`
}

// TableName sets the table name.
func (GeneratedSchedule) TableName() string { return "generated_schedules" }

// IsDraft reports whether the schedule can still be edited or
// transitioned.
func (s *GeneratedSchedule) IsDraft() bool { return s.Status == StatusDraft }
