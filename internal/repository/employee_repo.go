package repository

import (
	"context"

	"gorm.io/gorm"

	"smartplanning/backend/internal/model"
)

// EmployeeRepository accesses the employee directory. Read-only from
// this subsystem's perspective.
type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (*model.Employee, error)
	ListByTeam(ctx context.Context, teamID string) ([]model.Employee, error)
}

type employeeRepo struct {
	db *gorm.DB
}

// NewEmployeeRepo builds the GORM-backed EmployeeRepository.
func NewEmployeeRepo(db *gorm.DB) EmployeeRepository {
	return &employeeRepo{db: db}
}

func (r *employeeRepo) GetByID(ctx context.Context, id string) (*model.Employee, error) {
	var employee model.Employee
	err := r.db.WithContext(ctx).
		Preload("Team").
		Where("employee_id = ?", id).
		First(&employee).Error
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *employeeRepo) ListByTeam(ctx context.Context, teamID string) ([]model.Employee, error) {
	var employees []model.Employee
	db := r.db.WithContext(ctx).Where("is_active = ?", true)
	if teamID != "" {
		db = db.Where("team_id = ?", teamID)
	}
	err := db.Preload("Team").
		Order("last_name ASC, first_name ASC").
		Find(&employees).Error
	return employees, err
}
