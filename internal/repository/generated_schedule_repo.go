package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"smartplanning/backend/internal/model"
	pkgerrors "smartplanning/backend/pkg/errors"
)

// ScheduleFilter narrows List queries.
type ScheduleFilter struct {
	Status string // empty = all statuses
	TeamID string // empty = all teams
	Year   int    // 0 = all years
	Week   int    // 0 = all weeks
}

// GeneratedScheduleRepository accesses generated schedules. The two
// Update* methods are conditional on status='draft': they are the
// at-most-once guarantee behind the validation workflow, so a lost
// race surfaces as ErrStaleSchedule instead of a double-applied
// transition.
type GeneratedScheduleRepository interface {
	Create(ctx context.Context, schedule *model.GeneratedSchedule) error
	GetByID(ctx context.Context, id string) (*model.GeneratedSchedule, error)
	List(ctx context.Context, filter ScheduleFilter, offset, limit int) ([]model.GeneratedSchedule, int64, error)
	// UpdateScheduleData replaces schedule_data while the schedule is
	// still in draft.
	UpdateScheduleData(ctx context.Context, id string, data model.ScheduleData, updatedBy string) error
	// TransitionStatus moves draft → approved|rejected and stamps
	// validated_by, only if the row is still in draft.
	TransitionStatus(ctx context.Context, id, toStatus, validatedBy string) error
}

type generatedScheduleRepo struct {
	db *gorm.DB
}

// NewGeneratedScheduleRepo builds the GORM-backed repository.
func NewGeneratedScheduleRepo(db *gorm.DB) GeneratedScheduleRepository {
	return &generatedScheduleRepo{db: db}
}

func (r *generatedScheduleRepo) Create(ctx context.Context, schedule *model.GeneratedSchedule) error {
	return r.db.WithContext(ctx).Create(schedule).Error
}

func (r *generatedScheduleRepo) GetByID(ctx context.Context, id string) (*model.GeneratedSchedule, error) {
	var schedule model.GeneratedSchedule
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Preload("Team").
		Where("schedule_id = ?", id).
		First(&schedule).Error
	if err != nil {
		return nil, err
	}
	return &schedule, nil
}

func (r *generatedScheduleRepo) List(ctx context.Context, filter ScheduleFilter, offset, limit int) ([]model.GeneratedSchedule, int64, error) {
	var schedules []model.GeneratedSchedule
	var total int64

	db := r.db.WithContext(ctx).Model(&model.GeneratedSchedule{})
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.TeamID != "" {
		db = db.Where("team_id = ?", filter.TeamID)
	}
	if filter.Year != 0 {
		db = db.Where("year = ?", filter.Year)
	}
	if filter.Week != 0 {
		db = db.Where("week_number = ?", filter.Week)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Preload("Employee").
		Preload("Team").
		Order("generated_at DESC, schedule_id").
		Offset(offset).Limit(limit).
		Find(&schedules).Error
	return schedules, total, err
}

func (r *generatedScheduleRepo) UpdateScheduleData(ctx context.Context, id string, data model.ScheduleData, updatedBy string) error {
	result := r.db.WithContext(ctx).
		Model(&model.GeneratedSchedule{}).
		Where("schedule_id = ? AND status = ?", id, model.StatusDraft).
		Updates(map[string]interface{}{
			"schedule_data": data,
			"updated_by":    updatedBy,
			"updated_at":    time.Now(),
			"version":       gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrStaleSchedule
	}
	return nil
}

func (r *generatedScheduleRepo) TransitionStatus(ctx context.Context, id, toStatus, validatedBy string) error {
	result := r.db.WithContext(ctx).
		Model(&model.GeneratedSchedule{}).
		Where("schedule_id = ? AND status = ?", id, model.StatusDraft).
		Updates(map[string]interface{}{
			"status":       toStatus,
			"validated_by": validatedBy,
			"updated_by":   validatedBy,
			"updated_at":   time.Now(),
			"version":      gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrStaleSchedule
	}
	return nil
}
