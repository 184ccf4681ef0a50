package service

import (
	"context"

	"go.uber.org/zap"

	"smartplanning/backend/internal/dto"
	"smartplanning/backend/internal/model"
	"smartplanning/backend/internal/repository"
)

// DirectoryService exposes the read-only employee and team directory
// backing the schedule snapshots.
type DirectoryService interface {
	ListTeams(ctx context.Context) ([]dto.TeamResponse, error)
	ListEmployees(ctx context.Context, teamID string, actor Actor) ([]dto.EmployeeResponse, error)
}

type directoryService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewDirectoryService builds the DirectoryService.
func NewDirectoryService(repo *repository.Repository, logger *zap.Logger) DirectoryService {
	return &directoryService{repo: repo, logger: logger}
}

func (s *directoryService) ListTeams(ctx context.Context) ([]dto.TeamResponse, error) {
	teams, err := s.repo.Team.List(ctx)
	if err != nil {
		s.logger.Error("listing teams failed", zap.Error(err))
		return nil, err
	}

	result := make([]dto.TeamResponse, 0, len(teams))
	for _, t := range teams {
		result = append(result, dto.TeamResponse{ID: t.TeamID, Name: t.Name})
	}
	return result, nil
}

func (s *directoryService) ListEmployees(ctx context.Context, teamID string, actor Actor) ([]dto.EmployeeResponse, error) {
	// Managers are pinned to their own team.
	if actor.Role == model.RoleManager {
		teamID = actor.TeamID
	}

	employees, err := s.repo.Employee.ListByTeam(ctx, teamID)
	if err != nil {
		s.logger.Error("listing employees failed", zap.Error(err))
		return nil, err
	}

	result := make([]dto.EmployeeResponse, 0, len(employees))
	for i := range employees {
		e := &employees[i]
		resp := dto.EmployeeResponse{
			ID:        e.EmployeeID,
			FirstName: e.FirstName,
			LastName:  e.LastName,
			PhotoURL:  e.PhotoURL,
			TeamID:    e.TeamID,
		}
		if e.Team != nil {
			resp.TeamName = e.Team.Name
		}
		result = append(result, resp)
	}
	return result, nil
}
