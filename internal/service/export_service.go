package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"smartplanning/backend/internal/model"
	"smartplanning/backend/internal/planning"
	"smartplanning/backend/internal/repository"
)

// ── export module business errors ──

var (
	ErrExportNoSchedules   = errors.New("no schedules for this team and week")
	ErrExportGenerateFail  = errors.New("generating export file failed")
	ErrScheduleNotApproved = errors.New("only approved schedules can be exported as a calendar")
)

// ExportService renders schedules as files.
//
// Excel: one sheet per team-week, employees as rows, Monday–Sunday as
// dated columns (concrete dates from the week resolver), slot lists
// in the cells and a weekly total per row.
//
// ICS: one approved employee-week as calendar events, one VEVENT per
// slot, on the concrete dates of the schedule's ISO week.
type ExportService interface {
	ExportWeekExcel(ctx context.Context, teamID string, year, week int, actor Actor) (*bytes.Buffer, string, error)
	ExportScheduleICS(ctx context.Context, scheduleID string, actor Actor) ([]byte, string, error)
}

type exportService struct {
	repo     *repository.Repository
	resolver *planning.WeekResolver
	logger   *zap.Logger
}

// NewExportService builds the ExportService.
func NewExportService(repo *repository.Repository, resolver *planning.WeekResolver, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, resolver: resolver, logger: logger}
}

var dayLabels = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// ════════════════════════════════════════════════════════════
// ExportWeekExcel
// ════════════════════════════════════════════════════════════

// exportPageSize is the repository page size for week exports.
const exportPageSize = 200

func (s *exportService) ExportWeekExcel(ctx context.Context, teamID string, year, week int, actor Actor) (*bytes.Buffer, string, error) {
	if actor.Role == model.RoleManager && actor.TeamID != teamID {
		return nil, "", ErrForbiddenTeamScope
	}

	filter := repository.ScheduleFilter{TeamID: teamID, Year: year, Week: week}
	var schedules []model.GeneratedSchedule
	for offset := 0; ; offset += exportPageSize {
		page, total, err := s.repo.Schedule.List(ctx, filter, offset, exportPageSize)
		if err != nil {
			s.logger.Error("listing schedules for export failed", zap.Error(err))
			return nil, "", err
		}
		schedules = append(schedules, page...)
		if len(page) < exportPageSize || int64(len(schedules)) >= total {
			break
		}
	}
	if len(schedules) == 0 {
		return nil, "", ErrExportNoSchedules
	}

	monday, _ := s.resolver.Resolve(year, week)

	f := excelize.NewFile()
	defer f.Close()

	sheetName := fmt.Sprintf("Week %d", week)
	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, "", ErrExportGenerateFail
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "A", 24)
	for i := 0; i < 7; i++ {
		col := colName(1 + i)
		f.SetColWidth(sheetName, col, col, 18)
	}
	f.SetColWidth(sheetName, colName(8), colName(8), 10)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// title row
	teamName := schedules[0].TeamName
	f.SetCellValue(sheetName, "A1", fmt.Sprintf("%s - week %d of %d", teamName, week, year))
	f.MergeCell(sheetName, "A1", cell(colName(8), 1))
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	// header row: employee + dated weekdays + total
	row := 2
	f.SetCellValue(sheetName, cell("A", row), "Employee")
	for i, label := range dayLabels {
		date := monday.AddDate(0, 0, i)
		f.SetCellValue(sheetName, cell(colName(1+i), row), fmt.Sprintf("%s %s", label, date.Format("02/01")))
	}
	f.SetCellValue(sheetName, cell(colName(8), row), "Total")

	// one row per employee schedule
	row = 3
	for i := range schedules {
		sched := &schedules[i]

		name := sched.EmployeeID
		if sched.Employee != nil {
			name = sched.Employee.FullName()
		}
		f.SetCellValue(sheetName, cell("A", row), name)

		for d, key := range model.DayKeys {
			f.SetCellValue(sheetName, cell(colName(1+d), row), dayCellText(sched.ScheduleData[key]))
		}

		if total, err := planning.WeekMinutes(sched.ScheduleData); err != nil {
			f.SetCellValue(sheetName, cell(colName(8), row), "data error")
		} else {
			f.SetCellValue(sheetName, cell(colName(8), row), planning.FormatMinutes(total))
		}
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("writing Excel file failed", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("schedule_%s_%d_W%02d.xlsx", teamName, year, week)
	return buf, filename, nil
}

// dayCellText renders one day's slots for a grid cell.
func dayCellText(day model.DaySchedule) string {
	if day.HasSlots() {
		text := ""
		for i, slot := range day.Slots {
			if i > 0 {
				text += "\n"
			}
			text += slot
		}
		return text
	}
	if day.Start != "" && day.End != "" {
		text := day.Start + "-" + day.End
		if day.Pause != "" {
			text += " (pause " + day.Pause + ")"
		}
		return text
	}
	return "-"
}

// ════════════════════════════════════════════════════════════
// ExportScheduleICS
// ════════════════════════════════════════════════════════════

func (s *exportService) ExportScheduleICS(ctx context.Context, scheduleID string, actor Actor) ([]byte, string, error) {
	schedule, err := s.repo.Schedule.GetByID(ctx, scheduleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrScheduleNotFound
		}
		s.logger.Error("looking up schedule failed", zap.Error(err))
		return nil, "", err
	}
	if actor.Role == model.RoleManager && actor.TeamID != schedule.TeamID {
		return nil, "", ErrForbiddenTeamScope
	}
	if schedule.Status != model.StatusApproved {
		return nil, "", ErrScheduleNotApproved
	}

	monday, _ := s.resolver.Resolve(schedule.Year, schedule.WeekNumber)

	summary := "Work"
	if schedule.Employee != nil {
		summary = "Work - " + schedule.Employee.FullName()
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//SmartPlanning//Schedule Export//EN")

	now := time.Now().UTC()
	for d, key := range model.DayKeys {
		day, ok := schedule.ScheduleData[key]
		if !ok {
			continue
		}
		date := monday.AddDate(0, 0, d)

		slots := day.Slots
		if !day.HasSlots() && day.Start != "" && day.End != "" {
			// Legacy form: a single block; the pause stays inside it.
			slots = []string{day.Start + "-" + day.End}
		}

		for i, slot := range slots {
			start, end, err := planning.ParseSlot(slot)
			if err != nil {
				// Approved data is validated at commit; a bad slot
				// here means the row predates validation.
				return nil, "", errors.Join(ErrMalformedScheduleData, err)
			}

			uid := fmt.Sprintf("%s-%s-%d@smartplanning", schedule.ScheduleID, key, i)
			event := cal.AddEvent(uid)
			event.SetCreatedTime(now)
			event.SetDtStampTime(now)
			event.SetStartAt(date.Add(time.Duration(start) * time.Minute))
			event.SetEndAt(date.Add(time.Duration(end) * time.Minute))
			event.SetSummary(summary)
			event.SetDescription(fmt.Sprintf("Team %s, generated by %s", schedule.TeamName, schedule.GeneratedBy))
		}
	}

	filename := fmt.Sprintf("schedule_%d_W%02d.ics", schedule.Year, schedule.WeekNumber)
	return []byte(cal.Serialize()), filename, nil
}

// ── helpers ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
