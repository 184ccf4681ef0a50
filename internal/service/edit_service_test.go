package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"smartplanning/backend/internal/dto"
	"smartplanning/backend/internal/model"
	"smartplanning/backend/internal/repository"
)

func setupTestEditService() (EditService, *mockScheduleRepo) {
	repo, scheduleRepo := newTestRepo()
	logger := zap.NewNop()
	svc := NewEditService(repo, repository.NewMemoryEditBufferStore(time.Hour), logger)
	return svc, scheduleRepo
}

func TestEditService_Begin_Success(t *testing.T) {
	svc, scheduleRepo := setupTestEditService()
	seedDraft(scheduleRepo, "sched-001", empJeanID, teamAlphaID, slotData("09:00-12:00"))

	session, err := svc.Begin(context.Background(), "sched-001", managerAlpha)
	if err != nil {
		t.Fatalf("Begin should succeed: %v", err)
	}
	if session.EditorID != "mgr-alpha" {
		t.Errorf("expected editor mgr-alpha, got %s", session.EditorID)
	}
	if len(session.Data["monday"].Slots) != 1 {
		t.Errorf("buffer should start from the stored data: %+v", session.Data)
	}
}

func TestEditService_Begin_AlreadyOpen(t *testing.T) {
	svc, scheduleRepo := setupTestEditService()
	seedDraft(scheduleRepo, "sched-001", empJeanID, teamAlphaID, slotData("09:00-12:00"))

	if _, err := svc.Begin(context.Background(), "sched-001", managerAlpha); err != nil {
		t.Fatalf("first Begin: %v", err)
	}
	_, err := svc.Begin(context.Background(), "sched-001", directorActor)
	if !errors.Is(err, ErrEditSessionExists) {
		t.Errorf("expected ErrEditSessionExists, got: %v", err)
	}
}

func TestEditService_Begin_NotDraft(t *testing.T) {
	svc, scheduleRepo := setupTestEditService()
	seedDraft(scheduleRepo, "sched-001", empJeanID, teamAlphaID, slotData("09:00-12:00"))
	scheduleRepo.schedules["sched-001"].Status = model.StatusApproved

	_, err := svc.Begin(context.Background(), "sched-001", managerAlpha)
	if !errors.Is(err, ErrScheduleNotDraft) {
		t.Errorf("expected ErrScheduleNotDraft, got: %v", err)
	}
}

func TestEditService_Mutate_OtherEditor(t *testing.T) {
	svc, scheduleRepo := setupTestEditService()
	seedDraft(scheduleRepo, "sched-001", empJeanID, teamAlphaID, slotData("09:00-12:00"))

	if _, err := svc.Begin(context.Background(), "sched-001", managerAlpha); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	_, err := svc.Mutate(context.Background(), "sched-001", &dto.EditMutationRequest{
		Day: "monday", Field: "start", Value: "08:00",
	}, directorActor)
	if !errors.Is(err, ErrEditNotOwner) {
		t.Errorf("expected ErrEditNotOwner, got: %v", err)
	}
}

func TestEditService_Mutate_AdminTakeover(t *testing.T) {
	svc, scheduleRepo := setupTestEditService()
	seedDraft(scheduleRepo, "sched-001", empJeanID, teamAlphaID, slotData("09:00-12:00"))

	if _, err := svc.Begin(context.Background(), "sched-001", managerAlpha); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if _, err := svc.Mutate(context.Background(), "sched-001", &dto.EditMutationRequest{
		Day: "tuesday", Slots: []string{"10:00-14:00"},
	}, adminActor); err != nil {
		t.Errorf("admin should be able to edit any session: %v", err)
	}
}

func TestEditService_Sessions_AreIndependent(t *testing.T) {
	svc, scheduleRepo := setupTestEditService()
	seedDraft(scheduleRepo, "sched-a", empJeanID, teamAlphaID, slotData("09:00-12:00"))
	seedDraft(scheduleRepo, "sched-b", empMarieID, teamBetaID, slotData("09:00-12:00"))

	if _, err := svc.Begin(context.Background(), "sched-a", adminActor); err != nil {
		t.Fatalf("Begin a: %v", err)
	}
	if _, err := svc.Begin(context.Background(), "sched-b", adminActor); err != nil {
		t.Fatalf("Begin b: %v", err)
	}

	if _, err := svc.Mutate(context.Background(), "sched-a", &dto.EditMutationRequest{
		Day: "monday", Slots: []string{"08:00-16:00"},
	}, adminActor); err != nil {
		t.Fatalf("Mutate a: %v", err)
	}

	sessionB, err := svc.Get(context.Background(), "sched-b", adminActor)
	if err != nil {
		t.Fatalf("Get b: %v", err)
	}
	if got := sessionB.Data["monday"].Slots[0]; got != "09:00-12:00" {
		t.Errorf("session b leaked session a's edit: %s", got)
	}
}

func TestEditService_Commit_WritesThrough(t *testing.T) {
	svc, scheduleRepo := setupTestEditService()
	seedDraft(scheduleRepo, "sched-001", empJeanID, teamAlphaID, slotData("09:00-12:00"))

	if _, err := svc.Begin(context.Background(), "sched-001", managerAlpha); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if _, err := svc.Mutate(context.Background(), "sched-001", &dto.EditMutationRequest{
		Day: "monday", Slots: []string{"09:00-12:00", "14:00-18:00"},
	}, managerAlpha); err != nil {
		t.Fatalf("Mutate: %v", err)
	}
	if err := svc.Commit(context.Background(), "sched-001", managerAlpha); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	stored := scheduleRepo.schedules["sched-001"]
	if len(stored.ScheduleData["monday"].Slots) != 2 {
		t.Errorf("commit did not write through: %+v", stored.ScheduleData)
	}

	// The session is gone once committed.
	if _, err := svc.Get(context.Background(), "sched-001", managerAlpha); !errors.Is(err, repository.ErrNoEditSession) {
		t.Errorf("expected ErrNoEditSession after commit, got: %v", err)
	}
}

func TestEditService_Commit_MalformedKeepsBuffer(t *testing.T) {
	svc, scheduleRepo := setupTestEditService()
	seedDraft(scheduleRepo, "sched-001", empJeanID, teamAlphaID, slotData("09:00-12:00"))

	if _, err := svc.Begin(context.Background(), "sched-001", managerAlpha); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if _, err := svc.Mutate(context.Background(), "sched-001", &dto.EditMutationRequest{
		Day: "monday", Slots: []string{"09:00-12:00", "11:00-15:00"},
	}, managerAlpha); err != nil {
		t.Fatalf("Mutate: %v", err)
	}

	err := svc.Commit(context.Background(), "sched-001", managerAlpha)
	if !errors.Is(err, ErrMalformedScheduleData) {
		t.Fatalf("expected ErrMalformedScheduleData, got: %v", err)
	}

	// The canonical row is untouched and the buffer survives for a
	// corrected retry.
	if len(scheduleRepo.schedules["sched-001"].ScheduleData["monday"].Slots) != 1 {
		t.Error("failed commit must not touch the stored row")
	}
	if _, err := svc.Get(context.Background(), "sched-001", managerAlpha); err != nil {
		t.Errorf("buffer should survive a failed commit: %v", err)
	}
}

func TestEditService_Commit_LostRace(t *testing.T) {
	svc, scheduleRepo := setupTestEditService()
	seedDraft(scheduleRepo, "sched-001", empJeanID, teamAlphaID, slotData("09:00-12:00"))

	if _, err := svc.Begin(context.Background(), "sched-001", managerAlpha); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	// Another reviewer approves while the session is open.
	scheduleRepo.schedules["sched-001"].Status = model.StatusApproved

	err := svc.Commit(context.Background(), "sched-001", managerAlpha)
	if !errors.Is(err, ErrScheduleNotDraft) {
		t.Errorf("expected ErrScheduleNotDraft, got: %v", err)
	}
}

func TestEditService_Cancel_DiscardsBuffer(t *testing.T) {
	svc, scheduleRepo := setupTestEditService()
	seedDraft(scheduleRepo, "sched-001", empJeanID, teamAlphaID, slotData("09:00-12:00"))

	if _, err := svc.Begin(context.Background(), "sched-001", managerAlpha); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if _, err := svc.Mutate(context.Background(), "sched-001", &dto.EditMutationRequest{
		Day: "monday", Slots: []string{"07:00-19:00"},
	}, managerAlpha); err != nil {
		t.Fatalf("Mutate: %v", err)
	}
	if err := svc.Cancel(context.Background(), "sched-001", managerAlpha); err != nil {
		t.Fatalf("Cancel: %v", err)
	}

	if len(scheduleRepo.schedules["sched-001"].ScheduleData["monday"].Slots) != 1 {
		t.Error("cancel must not touch the stored row")
	}
	if _, err := svc.Get(context.Background(), "sched-001", managerAlpha); !errors.Is(err, repository.ErrNoEditSession) {
		t.Errorf("expected ErrNoEditSession after cancel, got: %v", err)
	}
}
