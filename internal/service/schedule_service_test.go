package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"smartplanning/backend/internal/dto"
	"smartplanning/backend/internal/model"
	"smartplanning/backend/internal/planning"
	"smartplanning/backend/internal/repository"
)

// ── test helpers ──

const (
	teamAlphaID = "11111111-1111-1111-1111-111111111111"
	teamBetaID  = "22222222-2222-2222-2222-222222222222"
	empJeanID   = "33333333-3333-3333-3333-333333333333"
	empMarieID  = "44444444-4444-4444-4444-444444444444"
)

var (
	adminActor    = Actor{UserID: "admin-001", Role: model.RoleAdmin}
	directorActor = Actor{UserID: "dir-001", Role: model.RoleDirector}
	managerAlpha  = Actor{UserID: "mgr-alpha", Role: model.RoleManager, TeamID: teamAlphaID}
	managerBeta   = Actor{UserID: "mgr-beta", Role: model.RoleManager, TeamID: teamBetaID}
)

func newTestRepo() (*repository.Repository, *mockScheduleRepo) {
	scheduleRepo := newMockScheduleRepo()
	teamRepo := newMockTeamRepo()
	employeeRepo := newMockEmployeeRepo()

	teamRepo.teams[teamAlphaID] = &model.Team{TeamID: teamAlphaID, Name: "Boutique Lyon", IsActive: true}
	teamRepo.teams[teamBetaID] = &model.Team{TeamID: teamBetaID, Name: "Boutique Paris", IsActive: true}

	alphaID, betaID := teamAlphaID, teamBetaID
	employeeRepo.employees[empJeanID] = &model.Employee{
		EmployeeID: empJeanID, FirstName: "Jean", LastName: "Dupont", TeamID: &alphaID, IsActive: true,
	}
	employeeRepo.employees[empMarieID] = &model.Employee{
		EmployeeID: empMarieID, FirstName: "Marie", LastName: "Martin", TeamID: &betaID, IsActive: true,
	}

	return &repository.Repository{
		User:     newMockUserRepo(),
		Team:     teamRepo,
		Employee: employeeRepo,
		Schedule: scheduleRepo,
	}, scheduleRepo
}

func setupTestScheduleService() (ScheduleService, *mockScheduleRepo) {
	repo, scheduleRepo := newTestRepo()
	logger := zap.NewNop()
	svc := NewScheduleService(repo, planning.NewWeekResolver(logger), logger)
	return svc, scheduleRepo
}

func seedDraft(scheduleRepo *mockScheduleRepo, id, employeeID, teamID string, data model.ScheduleData) {
	scheduleRepo.schedules[id] = &model.GeneratedSchedule{
		ScheduleID:   id,
		EmployeeID:   employeeID,
		TeamID:       teamID,
		TeamName:     "Boutique Lyon",
		ScheduleData: data,
		Status:       model.StatusDraft,
		WeekNumber:   10,
		Year:         2025,
		GeneratedBy:  "planning-engine-v2",
	}
	scheduleRepo.schedules[id].Version = 1
}

func slotData(slots ...string) model.ScheduleData {
	return model.ScheduleData{"monday": {Slots: slots}}
}

// ── Ingest ──

func TestScheduleService_Ingest_Success(t *testing.T) {
	svc, _ := setupTestScheduleService()

	req := &dto.CreateScheduleRequest{
		EmployeeID: empJeanID,
		TeamID:     teamAlphaID,
		ScheduleData: dto.ScheduleDataInput{
			"monday":  {Slots: []string{"09:00-12:00", "14:00-18:00"}},
			"tuesday": {Start: "09:00", End: "17:00", Pause: "01:00"},
		},
		WeekNumber:  10,
		Year:        2025,
		GeneratedBy: "planning-engine-v2",
		Constraints: []string{"max 35h/week"},
	}

	result, err := svc.Ingest(context.Background(), req, "admin-001")
	if err != nil {
		t.Fatalf("Ingest should succeed: %v", err)
	}
	if result.Status != model.StatusDraft {
		t.Errorf("expected status draft, got %s", result.Status)
	}
	// 3h + 4h Monday, 7h Tuesday after the one hour pause.
	if result.TotalMinutes != 840 {
		t.Errorf("expected 840 total minutes, got %d", result.TotalMinutes)
	}
	if result.WeekStartDate != "2025-03-03" {
		t.Errorf("expected week start 2025-03-03, got %s", result.WeekStartDate)
	}
	if result.WeekEndDate != "2025-03-09" {
		t.Errorf("expected week end 2025-03-09, got %s", result.WeekEndDate)
	}
}

func TestScheduleService_Ingest_UnknownEmployee(t *testing.T) {
	svc, _ := setupTestScheduleService()

	req := &dto.CreateScheduleRequest{
		EmployeeID:   "99999999-9999-9999-9999-999999999999",
		TeamID:       teamAlphaID,
		ScheduleData: dto.ScheduleDataInput{},
		WeekNumber:   10,
		Year:         2025,
		GeneratedBy:  "planning-engine-v2",
	}

	_, err := svc.Ingest(context.Background(), req, "admin-001")
	if !errors.Is(err, ErrEmployeeNotFound) {
		t.Errorf("expected ErrEmployeeNotFound, got: %v", err)
	}
}

func TestScheduleService_Ingest_TeamMismatch(t *testing.T) {
	svc, _ := setupTestScheduleService()

	req := &dto.CreateScheduleRequest{
		EmployeeID:   empMarieID, // belongs to Beta
		TeamID:       teamAlphaID,
		ScheduleData: dto.ScheduleDataInput{},
		WeekNumber:   10,
		Year:         2025,
		GeneratedBy:  "planning-engine-v2",
	}

	_, err := svc.Ingest(context.Background(), req, "admin-001")
	if !errors.Is(err, ErrEmployeeTeamMismatch) {
		t.Errorf("expected ErrEmployeeTeamMismatch, got: %v", err)
	}
}

func TestScheduleService_Ingest_MalformedSlots(t *testing.T) {
	svc, _ := setupTestScheduleService()

	req := &dto.CreateScheduleRequest{
		EmployeeID: empJeanID,
		TeamID:     teamAlphaID,
		ScheduleData: dto.ScheduleDataInput{
			"monday": {Slots: []string{"9h-17h"}},
		},
		WeekNumber:  10,
		Year:        2025,
		GeneratedBy: "planning-engine-v2",
	}

	_, err := svc.Ingest(context.Background(), req, "admin-001")
	if !errors.Is(err, ErrMalformedScheduleData) {
		t.Errorf("expected ErrMalformedScheduleData, got: %v", err)
	}
}

// ── Validate / Reject ──

func TestScheduleService_Validate_Success(t *testing.T) {
	svc, scheduleRepo := setupTestScheduleService()
	seedDraft(scheduleRepo, "sched-001", empJeanID, teamAlphaID, slotData("09:00-12:00"))

	result, err := svc.Validate(context.Background(), "sched-001", directorActor)
	if err != nil {
		t.Fatalf("Validate should succeed: %v", err)
	}
	if result.Status != model.StatusApproved {
		t.Errorf("expected status approved, got %s", result.Status)
	}
	if result.ValidatedBy == nil || *result.ValidatedBy != "dir-001" {
		t.Errorf("expected validated_by dir-001, got %v", result.ValidatedBy)
	}
}

func TestScheduleService_Reject_Success(t *testing.T) {
	svc, scheduleRepo := setupTestScheduleService()
	seedDraft(scheduleRepo, "sched-001", empJeanID, teamAlphaID, slotData("09:00-12:00"))

	result, err := svc.Reject(context.Background(), "sched-001", managerAlpha)
	if err != nil {
		t.Fatalf("Reject should succeed: %v", err)
	}
	if result.Status != model.StatusRejected {
		t.Errorf("expected status rejected, got %s", result.Status)
	}
}

func TestScheduleService_Validate_AlreadyApproved(t *testing.T) {
	svc, scheduleRepo := setupTestScheduleService()
	seedDraft(scheduleRepo, "sched-001", empJeanID, teamAlphaID, slotData("09:00-12:00"))
	scheduleRepo.schedules["sched-001"].Status = model.StatusApproved
	first := "dir-001"
	scheduleRepo.schedules["sched-001"].ValidatedBy = &first

	_, err := svc.Validate(context.Background(), "sched-001", adminActor)
	if !errors.Is(err, ErrScheduleNotDraft) {
		t.Errorf("expected ErrScheduleNotDraft, got: %v", err)
	}
	// The losing reviewer must not overwrite the original stamp.
	if *scheduleRepo.schedules["sched-001"].ValidatedBy != "dir-001" {
		t.Errorf("validated_by was overwritten: %s", *scheduleRepo.schedules["sched-001"].ValidatedBy)
	}
}

func TestScheduleService_Validate_NotFound(t *testing.T) {
	svc, _ := setupTestScheduleService()

	_, err := svc.Validate(context.Background(), "missing", adminActor)
	if !errors.Is(err, ErrScheduleNotFound) {
		t.Errorf("expected ErrScheduleNotFound, got: %v", err)
	}
}

func TestScheduleService_Validate_ManagerWrongTeam(t *testing.T) {
	svc, scheduleRepo := setupTestScheduleService()
	seedDraft(scheduleRepo, "sched-001", empJeanID, teamAlphaID, slotData("09:00-12:00"))

	_, err := svc.Validate(context.Background(), "sched-001", managerBeta)
	if !errors.Is(err, ErrForbiddenTeamScope) {
		t.Errorf("expected ErrForbiddenTeamScope, got: %v", err)
	}
	if scheduleRepo.schedules["sched-001"].Status != model.StatusDraft {
		t.Error("schedule must stay in draft after a forbidden attempt")
	}
}

// ── UpdateScheduleData ──

func TestScheduleService_UpdateScheduleData_Success(t *testing.T) {
	svc, scheduleRepo := setupTestScheduleService()
	seedDraft(scheduleRepo, "sched-001", empJeanID, teamAlphaID, slotData("09:00-13:00"))

	result, err := svc.UpdateScheduleData(context.Background(), "sched-001",
		slotData("09:00-12:00", "14:00-18:00"), managerAlpha)
	if err != nil {
		t.Fatalf("UpdateScheduleData should succeed: %v", err)
	}
	if result.TotalMinutes != 420 {
		t.Errorf("expected 420 total minutes, got %d", result.TotalMinutes)
	}
	if scheduleRepo.schedules["sched-001"].Version != 2 {
		t.Errorf("expected version bump to 2, got %d", scheduleRepo.schedules["sched-001"].Version)
	}
}

func TestScheduleService_UpdateScheduleData_NotDraft(t *testing.T) {
	svc, scheduleRepo := setupTestScheduleService()
	seedDraft(scheduleRepo, "sched-001", empJeanID, teamAlphaID, slotData("09:00-13:00"))
	scheduleRepo.schedules["sched-001"].Status = model.StatusRejected

	_, err := svc.UpdateScheduleData(context.Background(), "sched-001", slotData("09:00-12:00"), adminActor)
	if !errors.Is(err, ErrScheduleNotDraft) {
		t.Errorf("expected ErrScheduleNotDraft, got: %v", err)
	}
}

func TestScheduleService_UpdateScheduleData_OverlappingSlots(t *testing.T) {
	svc, scheduleRepo := setupTestScheduleService()
	seedDraft(scheduleRepo, "sched-001", empJeanID, teamAlphaID, slotData("09:00-13:00"))

	_, err := svc.UpdateScheduleData(context.Background(), "sched-001",
		slotData("09:00-12:00", "11:00-15:00"), adminActor)
	if !errors.Is(err, ErrMalformedScheduleData) {
		t.Errorf("expected ErrMalformedScheduleData, got: %v", err)
	}
}

// ── List ──

func TestScheduleService_List_FilterByStatus(t *testing.T) {
	svc, scheduleRepo := setupTestScheduleService()
	seedDraft(scheduleRepo, "sched-001", empJeanID, teamAlphaID, slotData("09:00-12:00"))
	seedDraft(scheduleRepo, "sched-002", empJeanID, teamAlphaID, slotData("09:00-12:00"))
	scheduleRepo.schedules["sched-002"].Status = model.StatusApproved

	req := &dto.ScheduleListRequest{Status: model.StatusDraft}
	result, total, err := svc.List(context.Background(), req, adminActor)
	if err != nil {
		t.Fatalf("List should succeed: %v", err)
	}
	if total != 1 {
		t.Errorf("expected 1 draft, got %d", total)
	}
	if len(result) != 1 || result[0].ID != "sched-001" {
		t.Errorf("unexpected list result: %+v", result)
	}
}

func TestScheduleService_List_ManagerPinnedToOwnTeam(t *testing.T) {
	svc, scheduleRepo := setupTestScheduleService()
	seedDraft(scheduleRepo, "sched-alpha", empJeanID, teamAlphaID, slotData("09:00-12:00"))
	seedDraft(scheduleRepo, "sched-beta", empMarieID, teamBetaID, slotData("09:00-12:00"))

	// The manager asks for the other team; the filter is overridden.
	req := &dto.ScheduleListRequest{TeamID: teamBetaID}
	result, total, err := svc.List(context.Background(), req, managerAlpha)
	if err != nil {
		t.Fatalf("List should succeed: %v", err)
	}
	if total != 1 || len(result) != 1 {
		t.Fatalf("expected exactly 1 schedule, got total=%d len=%d", total, len(result))
	}
	if result[0].TeamID != teamAlphaID {
		t.Errorf("manager must only see own team, got team %s", result[0].TeamID)
	}
}

// ── malformed stored data is reported, not masked ──

func TestScheduleService_GetByID_ReportsDataError(t *testing.T) {
	svc, scheduleRepo := setupTestScheduleService()
	seedDraft(scheduleRepo, "sched-001", empJeanID, teamAlphaID, slotData("garbage"))

	result, err := svc.GetByID(context.Background(), "sched-001", adminActor)
	if err != nil {
		t.Fatalf("GetByID should succeed even with bad stored data: %v", err)
	}
	if result.DataError == "" {
		t.Error("expected DataError to be set for malformed stored slots")
	}
	if result.TotalMinutes != 0 || result.TotalFormatted != "" {
		t.Errorf("totals must not be reported for malformed data: %d %q",
			result.TotalMinutes, result.TotalFormatted)
	}
}

// ── end to end: ingest, edit, validate ──

func TestScheduleService_Workflow_EndToEnd(t *testing.T) {
	repo, scheduleRepo := newTestRepo()
	logger := zap.NewNop()
	resolver := planning.NewWeekResolver(logger)
	scheduleSvc := NewScheduleService(repo, resolver, logger)
	editSvc := NewEditService(repo, repository.NewMemoryEditBufferStore(time.Hour), logger)

	created, err := scheduleSvc.Ingest(context.Background(), &dto.CreateScheduleRequest{
		EmployeeID: empJeanID,
		TeamID:     teamAlphaID,
		ScheduleData: dto.ScheduleDataInput{
			"monday": {Slots: []string{"09:00-13:00"}},
		},
		WeekNumber:  10,
		Year:        2025,
		GeneratedBy: "planning-engine-v2",
	}, "admin-001")
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if created.TotalMinutes != 240 {
		t.Fatalf("expected 240 minutes after ingest, got %d", created.TotalMinutes)
	}

	if _, err := editSvc.Begin(context.Background(), created.ID, managerAlpha); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if _, err := editSvc.Mutate(context.Background(), created.ID, &dto.EditMutationRequest{
		Day:   "monday",
		Slots: []string{"09:00-13:00", "14:00-18:00"},
	}, managerAlpha); err != nil {
		t.Fatalf("Mutate: %v", err)
	}
	if err := editSvc.Commit(context.Background(), created.ID, managerAlpha); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	approved, err := scheduleSvc.Validate(context.Background(), created.ID, managerAlpha)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if approved.Status != model.StatusApproved {
		t.Errorf("expected approved, got %s", approved.Status)
	}
	if approved.TotalMinutes != 480 {
		t.Errorf("expected 480 minutes after edit, got %d", approved.TotalMinutes)
	}
	if scheduleRepo.schedules[created.ID].Version != 3 {
		t.Errorf("expected version 3 after edit and validation, got %d",
			scheduleRepo.schedules[created.ID].Version)
	}
}
