package dto

import "smartplanning/backend/internal/model"

// ── requests ──

// ScheduleListRequest filters the generated-schedule list.
type ScheduleListRequest struct {
	Status string `form:"status"  binding:"omitempty,oneof=draft approved rejected"`
	TeamID string `form:"team_id" binding:"omitempty,uuid"`
	Year   int    `form:"year"    binding:"omitempty,min=2020,max=2030"`
	Week   int    `form:"week"    binding:"omitempty,min=1,max=53"`
	PaginationRequest
}

// DayScheduleInput mirrors model.DaySchedule on the wire.
type DayScheduleInput struct {
	Start string   `json:"start,omitempty"`
	End   string   `json:"end,omitempty"`
	Pause string   `json:"pause,omitempty"`
	Slots []string `json:"slots,omitempty"`
}

// ScheduleDataInput is the wire form of a full week of day schedules.
type ScheduleDataInput map[string]DayScheduleInput

// ToModel converts the wire form into the persisted form.
func (in ScheduleDataInput) ToModel() model.ScheduleData {
	out := make(model.ScheduleData, len(in))
	for k, d := range in {
		out[k] = model.DaySchedule{
			Start: d.Start,
			End:   d.End,
			Pause: d.Pause,
			Slots: d.Slots,
		}
	}
	return out
}

// CreateScheduleRequest is the upstream generator's ingest payload.
type CreateScheduleRequest struct {
	EmployeeID   string            `json:"employee_id"   binding:"required,uuid"`
	TeamID       string            `json:"team_id"       binding:"required,uuid"`
	ScheduleData ScheduleDataInput `json:"schedule_data" binding:"required"`
	WeekNumber   int               `json:"week_number"   binding:"required,min=1,max=53"`
	Year         int               `json:"year"          binding:"required,min=2020,max=2030"`
	GeneratedBy  string            `json:"generated_by"  binding:"required"`
	Constraints  []string          `json:"constraints"`
	Notes        *string           `json:"notes"`
}

// UpdateScheduleDataRequest replaces a draft's schedule data in one
// request (the whole-buffer commit shape).
type UpdateScheduleDataRequest struct {
	ScheduleData ScheduleDataInput `json:"schedule_data" binding:"required"`
}

// EditMutationRequest is one buffered edit: either a legacy field
// write (field+value) or a full slot-list replacement for one day.
type EditMutationRequest struct {
	Day   string   `json:"day"   binding:"required,oneof=monday tuesday wednesday thursday friday saturday sunday"`
	Field string   `json:"field" binding:"omitempty,oneof=start end pause"`
	Value string   `json:"value"`
	Slots []string `json:"slots"`
}

// ── responses ──

// EmployeeBrief is the employee snapshot carried by schedule
// responses.
type EmployeeBrief struct {
	ID        string  `json:"id"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	PhotoURL  *string `json:"photo_url,omitempty"`
}

// ScheduleResponse is one generated schedule with its derived display
// context: concrete week dates from the calendar resolver and the
// aggregated duration from the calculator. DataError is set instead
// of TotalMinutes when the stored slots are malformed: the defect is
// reported, not masked as zero hours.
type ScheduleResponse struct {
	ID             string             `json:"id"`
	Employee       *EmployeeBrief     `json:"employee,omitempty"`
	EmployeeID     string             `json:"employee_id"`
	TeamID         string             `json:"team_id"`
	TeamName       string             `json:"team_name"`
	ScheduleData   model.ScheduleData `json:"schedule_data"`
	Status         string             `json:"status"`
	WeekNumber     int                `json:"week_number"`
	Year           int                `json:"year"`
	WeekStartDate  string             `json:"week_start_date"` // YYYY-MM-DD, Monday
	WeekEndDate    string             `json:"week_end_date"`   // YYYY-MM-DD, Sunday
	GeneratedAt    string             `json:"generated_at"`
	GeneratedBy    string             `json:"generated_by"`
	ValidatedBy    *string            `json:"validated_by,omitempty"`
	Constraints    []string           `json:"constraints,omitempty"`
	Notes          *string            `json:"notes,omitempty"`
	TotalMinutes   int                `json:"total_minutes"`
	TotalFormatted string             `json:"total_formatted"`
	DataError      string             `json:"data_error,omitempty"`
	CreatedAt      string             `json:"created_at"`
	UpdatedAt      string             `json:"updated_at"`
}

// EditSessionResponse describes an open edit buffer.
type EditSessionResponse struct {
	ScheduleID string             `json:"schedule_id"`
	EditorID   string             `json:"editor_id"`
	Data       model.ScheduleData `json:"data"`
	StartedAt  string             `json:"started_at"`
}

// TeamResponse is a team listing entry.
type TeamResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// EmployeeResponse is an employee directory entry.
type EmployeeResponse struct {
	ID        string  `json:"id"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	PhotoURL  *string `json:"photo_url,omitempty"`
	TeamID    *string `json:"team_id,omitempty"`
	TeamName  string  `json:"team_name,omitempty"`
}
