package repository

import (
	"context"

	"gorm.io/gorm"

	"smartplanning/backend/internal/model"
)

// TeamRepository accesses teams.
type TeamRepository interface {
	GetByID(ctx context.Context, id string) (*model.Team, error)
	List(ctx context.Context) ([]model.Team, error)
}

type teamRepo struct {
	db *gorm.DB
}

// NewTeamRepo builds the GORM-backed TeamRepository.
func NewTeamRepo(db *gorm.DB) TeamRepository {
	return &teamRepo{db: db}
}

func (r *teamRepo) GetByID(ctx context.Context, id string) (*model.Team, error) {
	var team model.Team
	err := r.db.WithContext(ctx).
		Where("team_id = ?", id).
		First(&team).Error
	if err != nil {
		return nil, err
	}
	return &team, nil
}

func (r *teamRepo) List(ctx context.Context) ([]model.Team, error) {
	var teams []model.Team
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&teams).Error
	return teams, err
}
