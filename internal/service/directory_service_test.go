package service

import (
	"context"
	"testing"

	"go.uber.org/zap"
)

func TestDirectoryService_ListTeams(t *testing.T) {
	repo, _ := newTestRepo()
	svc := NewDirectoryService(repo, zap.NewNop())

	teams, err := svc.ListTeams(context.Background())
	if err != nil {
		t.Fatalf("ListTeams: %v", err)
	}
	if len(teams) != 2 {
		t.Errorf("expected 2 teams, got %d", len(teams))
	}
}

func TestDirectoryService_ListEmployees_ManagerPinned(t *testing.T) {
	repo, _ := newTestRepo()
	svc := NewDirectoryService(repo, zap.NewNop())

	// The manager asks for every employee; only the own team comes
	// back.
	employees, err := svc.ListEmployees(context.Background(), "", managerAlpha)
	if err != nil {
		t.Fatalf("ListEmployees: %v", err)
	}
	if len(employees) != 1 {
		t.Fatalf("expected 1 employee, got %d", len(employees))
	}
	if employees[0].FirstName != "Jean" {
		t.Errorf("expected Jean, got %s", employees[0].FirstName)
	}
}

func TestDirectoryService_ListEmployees_AdminSeesAll(t *testing.T) {
	repo, _ := newTestRepo()
	svc := NewDirectoryService(repo, zap.NewNop())

	employees, err := svc.ListEmployees(context.Background(), "", adminActor)
	if err != nil {
		t.Fatalf("ListEmployees: %v", err)
	}
	if len(employees) != 2 {
		t.Errorf("expected 2 employees, got %d", len(employees))
	}
}
