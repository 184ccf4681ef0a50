package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"smartplanning/backend/internal/dto"
	"smartplanning/backend/internal/model"
	"smartplanning/backend/internal/planning"
	"smartplanning/backend/internal/repository"
	pkgerrors "smartplanning/backend/pkg/errors"
)

// ── schedule module business errors ──

var (
	ErrScheduleNotFound      = errors.New("generated schedule not found")
	ErrScheduleNotDraft      = errors.New("schedule is no longer in draft status")
	ErrForbiddenTeamScope    = errors.New("managers may only act on their own team's schedules")
	ErrEmployeeNotFound      = errors.New("employee not found")
	ErrTeamNotFound          = errors.New("team not found")
	ErrEmployeeTeamMismatch  = errors.New("employee does not belong to the given team")
	ErrMalformedScheduleData = errors.New("schedule data is malformed")
)

// ScheduleService owns the generated-schedule store contract and the
// draft → approved/rejected state machine. Validate and Reject touch
// only status/validated_by; UpdateScheduleData touches only the data.
type ScheduleService interface {
	// Ingest creates a draft from the upstream generation engine.
	Ingest(ctx context.Context, req *dto.CreateScheduleRequest, callerID string) (*dto.ScheduleResponse, error)
	List(ctx context.Context, req *dto.ScheduleListRequest, actor Actor) ([]dto.ScheduleResponse, int64, error)
	GetByID(ctx context.Context, id string, actor Actor) (*dto.ScheduleResponse, error)
	// UpdateScheduleData replaces a draft's schedule data in one call.
	UpdateScheduleData(ctx context.Context, id string, data model.ScheduleData, actor Actor) (*dto.ScheduleResponse, error)
	// Validate moves draft → approved and stamps the reviewer.
	Validate(ctx context.Context, id string, actor Actor) (*dto.ScheduleResponse, error)
	// Reject moves draft → rejected and stamps the reviewer.
	Reject(ctx context.Context, id string, actor Actor) (*dto.ScheduleResponse, error)
}

type scheduleService struct {
	repo     *repository.Repository
	resolver *planning.WeekResolver
	logger   *zap.Logger
}

// NewScheduleService builds the ScheduleService.
func NewScheduleService(repo *repository.Repository, resolver *planning.WeekResolver, logger *zap.Logger) ScheduleService {
	return &scheduleService{repo: repo, resolver: resolver, logger: logger}
}

// ────────────────────── Ingest ──────────────────────

func (s *scheduleService) Ingest(ctx context.Context, req *dto.CreateScheduleRequest, callerID string) (*dto.ScheduleResponse, error) {
	employee, err := s.repo.Employee.GetByID(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		s.logger.Error("looking up employee failed", zap.Error(err))
		return nil, err
	}

	team, err := s.repo.Team.GetByID(ctx, req.TeamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamNotFound
		}
		s.logger.Error("looking up team failed", zap.Error(err))
		return nil, err
	}

	if employee.TeamID == nil || *employee.TeamID != team.TeamID {
		return nil, ErrEmployeeTeamMismatch
	}

	data := req.ScheduleData.ToModel()
	if err := planning.ValidateScheduleData(data); err != nil {
		return nil, errors.Join(ErrMalformedScheduleData, err)
	}

	schedule := &model.GeneratedSchedule{
		EmployeeID:   employee.EmployeeID,
		TeamID:       team.TeamID,
		TeamName:     team.Name,
		ScheduleData: data,
		Status:       model.StatusDraft,
		WeekNumber:   req.WeekNumber,
		Year:         req.Year,
		GeneratedBy:  req.GeneratedBy,
		Constraints:  model.StringArray(req.Constraints),
		Notes:        req.Notes,
	}
	schedule.CreatedBy = &callerID
	schedule.UpdatedBy = &callerID

	if err := s.repo.Schedule.Create(ctx, schedule); err != nil {
		s.logger.Error("creating generated schedule failed", zap.Error(err))
		return nil, err
	}

	created, err := s.repo.Schedule.GetByID(ctx, schedule.ScheduleID)
	if err != nil {
		return nil, err
	}

	return s.toScheduleResponse(created), nil
}

// ────────────────────── List ──────────────────────

func (s *scheduleService) List(ctx context.Context, req *dto.ScheduleListRequest, actor Actor) ([]dto.ScheduleResponse, int64, error) {
	req.Normalize()

	filter := repository.ScheduleFilter{
		Status: req.Status,
		TeamID: req.TeamID,
		Year:   req.Year,
		Week:   req.Week,
	}
	// Managers see only their own team regardless of the requested
	// filter.
	if actor.Role == model.RoleManager {
		filter.TeamID = actor.TeamID
	}

	schedules, total, err := s.repo.Schedule.List(ctx, filter, req.Offset(), req.PageSize)
	if err != nil {
		s.logger.Error("listing generated schedules failed", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.ScheduleResponse, 0, len(schedules))
	for i := range schedules {
		result = append(result, *s.toScheduleResponse(&schedules[i]))
	}
	return result, total, nil
}

// ────────────────────── GetByID ──────────────────────

func (s *scheduleService) GetByID(ctx context.Context, id string, actor Actor) (*dto.ScheduleResponse, error) {
	schedule, err := s.fetchScoped(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	return s.toScheduleResponse(schedule), nil
}

// ────────────────────── UpdateScheduleData ──────────────────────

func (s *scheduleService) UpdateScheduleData(ctx context.Context, id string, data model.ScheduleData, actor Actor) (*dto.ScheduleResponse, error) {
	schedule, err := s.fetchScoped(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	if !schedule.IsDraft() {
		return nil, ErrScheduleNotDraft
	}

	if err := planning.ValidateScheduleData(data); err != nil {
		return nil, errors.Join(ErrMalformedScheduleData, err)
	}

	if err := s.repo.Schedule.UpdateScheduleData(ctx, id, data, actor.UserID); err != nil {
		if errors.Is(err, pkgerrors.ErrStaleSchedule) {
			// Lost the race against a concurrent validation.
			return nil, ErrScheduleNotDraft
		}
		s.logger.Error("updating schedule data failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	updated, err := s.repo.Schedule.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toScheduleResponse(updated), nil
}

// ────────────────────── Validate / Reject ──────────────────────

func (s *scheduleService) Validate(ctx context.Context, id string, actor Actor) (*dto.ScheduleResponse, error) {
	return s.transition(ctx, id, model.StatusApproved, actor)
}

func (s *scheduleService) Reject(ctx context.Context, id string, actor Actor) (*dto.ScheduleResponse, error) {
	return s.transition(ctx, id, model.StatusRejected, actor)
}

// transition applies the single defined state-machine edge. The
// conditional UPDATE in the repository is the at-most-once guarantee:
// two concurrent reviewers cannot both win, and the loser gets
// ErrScheduleNotDraft (an expected race, reported as a conflict).
func (s *scheduleService) transition(ctx context.Context, id, toStatus string, actor Actor) (*dto.ScheduleResponse, error) {
	schedule, err := s.fetchScoped(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	if !schedule.IsDraft() {
		return nil, ErrScheduleNotDraft
	}

	if err := s.repo.Schedule.TransitionStatus(ctx, id, toStatus, actor.UserID); err != nil {
		if errors.Is(err, pkgerrors.ErrStaleSchedule) {
			return nil, ErrScheduleNotDraft
		}
		s.logger.Error("transitioning schedule failed",
			zap.String("id", id),
			zap.String("to_status", toStatus),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("schedule transitioned",
		zap.String("id", id),
		zap.String("to_status", toStatus),
		zap.String("validated_by", actor.UserID),
	)

	updated, err := s.repo.Schedule.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toScheduleResponse(updated), nil
}

// ── internal helpers ──

// fetchScoped loads a schedule and enforces the manager team scope.
func (s *scheduleService) fetchScoped(ctx context.Context, id string, actor Actor) (*model.GeneratedSchedule, error) {
	schedule, err := s.repo.Schedule.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScheduleNotFound
		}
		s.logger.Error("looking up schedule failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	if actor.Role == model.RoleManager && actor.TeamID != schedule.TeamID {
		return nil, ErrForbiddenTeamScope
	}
	return schedule, nil
}

func (s *scheduleService) toScheduleResponse(schedule *model.GeneratedSchedule) *dto.ScheduleResponse {
	monday, sunday := s.resolver.Resolve(schedule.Year, schedule.WeekNumber)

	resp := &dto.ScheduleResponse{
		ID:            schedule.ScheduleID,
		EmployeeID:    schedule.EmployeeID,
		TeamID:        schedule.TeamID,
		TeamName:      schedule.TeamName,
		ScheduleData:  schedule.ScheduleData,
		Status:        schedule.Status,
		WeekNumber:    schedule.WeekNumber,
		Year:          schedule.Year,
		WeekStartDate: monday.Format("2006-01-02"),
		WeekEndDate:   sunday.Format("2006-01-02"),
		GeneratedAt:   schedule.GeneratedAt.Format("2006-01-02T15:04:05Z07:00"),
		GeneratedBy:   schedule.GeneratedBy,
		ValidatedBy:   schedule.ValidatedBy,
		Constraints:   schedule.Constraints,
		Notes:         schedule.Notes,
		CreatedAt:     schedule.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:     schedule.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}

	if schedule.Employee != nil {
		resp.Employee = &dto.EmployeeBrief{
			ID:        schedule.Employee.EmployeeID,
			FirstName: schedule.Employee.FirstName,
			LastName:  schedule.Employee.LastName,
			PhotoURL:  schedule.Employee.PhotoURL,
		}
	}

	total, err := planning.WeekMinutes(schedule.ScheduleData)
	if err != nil {
		// Malformed stored data means an upstream generation defect:
		// surface it on the entity rather than pretending zero hours.
		resp.DataError = err.Error()
		s.logger.Warn("schedule has malformed slot data",
			zap.String("id", schedule.ScheduleID),
			zap.Error(err),
		)
	} else {
		resp.TotalMinutes = total
		resp.TotalFormatted = planning.FormatMinutes(total)
	}

	return resp
}
