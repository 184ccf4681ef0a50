package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"smartplanning/backend/internal/dto"
	"smartplanning/backend/internal/model"
	"smartplanning/backend/internal/planning"
	"smartplanning/backend/internal/repository"
	pkgerrors "smartplanning/backend/pkg/errors"
)

var (
	ErrEditSessionExists = errors.New("an edit session is already open for this schedule")
	ErrEditNotOwner      = errors.New("edit session belongs to another reviewer")
)

// EditService manages per-schedule edit sessions. Mutations go into a
// buffered working copy keyed by schedule id; the canonical row is
// written exactly once at commit, conditionally on the schedule still
// being a draft. Sessions on different schedules are independent.
type EditService interface {
	Begin(ctx context.Context, scheduleID string, actor Actor) (*dto.EditSessionResponse, error)
	Get(ctx context.Context, scheduleID string, actor Actor) (*dto.EditSessionResponse, error)
	// Mutate applies one buffered edit: a legacy field write or a
	// slot-list replacement for one day.
	Mutate(ctx context.Context, scheduleID string, req *dto.EditMutationRequest, actor Actor) (*dto.EditSessionResponse, error)
	// Commit validates the buffer and writes it to the store in one
	// conditional update. On failure the buffer is retained so the
	// reviewer can retry.
	Commit(ctx context.Context, scheduleID string, actor Actor) error
	// Cancel discards the buffer without touching the store.
	Cancel(ctx context.Context, scheduleID string, actor Actor) error
}

type editService struct {
	repo   *repository.Repository
	store  repository.EditBufferStore
	logger *zap.Logger
}

// NewEditService builds the EditService.
func NewEditService(repo *repository.Repository, store repository.EditBufferStore, logger *zap.Logger) EditService {
	return &editService{repo: repo, store: store, logger: logger}
}

func (s *editService) Begin(ctx context.Context, scheduleID string, actor Actor) (*dto.EditSessionResponse, error) {
	schedule, err := s.fetchScoped(ctx, scheduleID, actor)
	if err != nil {
		return nil, err
	}
	if !schedule.IsDraft() {
		return nil, ErrScheduleNotDraft
	}

	if _, err := s.store.Get(ctx, scheduleID); err == nil {
		return nil, ErrEditSessionExists
	} else if !errors.Is(err, repository.ErrNoEditSession) {
		return nil, err
	}

	buf := &repository.EditBuffer{
		ScheduleID: scheduleID,
		EditorID:   actor.UserID,
		Data:       schedule.ScheduleData.Clone(),
		StartedAt:  time.Now(),
	}
	if err := s.store.Put(ctx, buf); err != nil {
		s.logger.Error("storing edit buffer failed", zap.String("id", scheduleID), zap.Error(err))
		return nil, err
	}

	return toEditSessionResponse(buf), nil
}

func (s *editService) Get(ctx context.Context, scheduleID string, actor Actor) (*dto.EditSessionResponse, error) {
	buf, err := s.ownedBuffer(ctx, scheduleID, actor)
	if err != nil {
		return nil, err
	}
	return toEditSessionResponse(buf), nil
}

func (s *editService) Mutate(ctx context.Context, scheduleID string, req *dto.EditMutationRequest, actor Actor) (*dto.EditSessionResponse, error) {
	buf, err := s.ownedBuffer(ctx, scheduleID, actor)
	if err != nil {
		return nil, err
	}

	day := buf.Data[req.Day]
	if req.Slots != nil {
		day.Slots = req.Slots
	} else {
		switch req.Field {
		case "start":
			day.Start = req.Value
		case "end":
			day.End = req.Value
		case "pause":
			day.Pause = req.Value
		default:
			return nil, errors.Join(ErrMalformedScheduleData,
				errors.New("mutation needs either slots or a field name"))
		}
	}
	buf.Data[req.Day] = day

	if err := s.store.Put(ctx, buf); err != nil {
		s.logger.Error("storing edit buffer failed", zap.String("id", scheduleID), zap.Error(err))
		return nil, err
	}

	return toEditSessionResponse(buf), nil
}

func (s *editService) Commit(ctx context.Context, scheduleID string, actor Actor) error {
	buf, err := s.ownedBuffer(ctx, scheduleID, actor)
	if err != nil {
		return err
	}

	// Reject malformed and overlapping slots here, before they can
	// poison the stored totals. The buffer survives a failed commit.
	if err := planning.ValidateScheduleData(buf.Data); err != nil {
		return errors.Join(ErrMalformedScheduleData, err)
	}

	if err := s.repo.Schedule.UpdateScheduleData(ctx, scheduleID, buf.Data, actor.UserID); err != nil {
		if errors.Is(err, pkgerrors.ErrStaleSchedule) {
			return ErrScheduleNotDraft
		}
		s.logger.Error("committing edit buffer failed", zap.String("id", scheduleID), zap.Error(err))
		return err
	}

	if err := s.store.Delete(ctx, scheduleID); err != nil {
		// The commit itself succeeded; a leftover buffer only ages
		// out via TTL.
		s.logger.Warn("clearing edit buffer failed", zap.String("id", scheduleID), zap.Error(err))
	}

	s.logger.Info("edit session committed",
		zap.String("id", scheduleID),
		zap.String("editor", actor.UserID),
	)
	return nil
}

func (s *editService) Cancel(ctx context.Context, scheduleID string, actor Actor) error {
	if _, err := s.ownedBuffer(ctx, scheduleID, actor); err != nil {
		return err
	}
	return s.store.Delete(ctx, scheduleID)
}

// ── internal helpers ──

func (s *editService) fetchScoped(ctx context.Context, id string, actor Actor) (*model.GeneratedSchedule, error) {
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

func (s *editService) ownedBuffer(ctx context.Context, scheduleID string, actor Actor) (*repository.EditBuffer, error) {
	buf, err := s.store.Get(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	// Admins may take over an abandoned session; everyone else only
	// touches their own.
	if buf.EditorID != actor.UserID && actor.Role != model.RoleAdmin {
		return nil, ErrEditNotOwner
	}
	return buf, nil
}

func toEditSessionResponse(buf *repository.EditBuffer) *dto.EditSessionResponse {
	return &dto.EditSessionResponse{
		ScheduleID: buf.ScheduleID,
		EditorID:   buf.EditorID,
		Data:       buf.Data,
		StartedAt:  buf.StartedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
