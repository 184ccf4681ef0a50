package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"smartplanning/backend/internal/model"
	"smartplanning/backend/internal/repository"
	pkgerrors "smartplanning/backend/pkg/errors"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		user.UserID = fmt.Sprintf("user-%03d", len(m.users)+1)
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock TeamRepository ──

type mockTeamRepo struct {
	teams map[string]*model.Team
}

func newMockTeamRepo() *mockTeamRepo {
	return &mockTeamRepo{teams: make(map[string]*model.Team)}
}

func (m *mockTeamRepo) GetByID(_ context.Context, id string) (*model.Team, error) {
	if t, ok := m.teams[id]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTeamRepo) List(_ context.Context) ([]model.Team, error) {
	result := make([]model.Team, 0, len(m.teams))
	for _, t := range m.teams {
		result = append(result, *t)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// ── Mock EmployeeRepository ──

type mockEmployeeRepo struct {
	employees map[string]*model.Employee
}

func newMockEmployeeRepo() *mockEmployeeRepo {
	return &mockEmployeeRepo{employees: make(map[string]*model.Employee)}
}

func (m *mockEmployeeRepo) GetByID(_ context.Context, id string) (*model.Employee, error) {
	if e, ok := m.employees[id]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEmployeeRepo) ListByTeam(_ context.Context, teamID string) ([]model.Employee, error) {
	var result []model.Employee
	for _, e := range m.employees {
		if teamID == "" || (e.TeamID != nil && *e.TeamID == teamID) {
			result = append(result, *e)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].LastName < result[j].LastName })
	return result, nil
}

// ── Mock GeneratedScheduleRepository ──

// mockScheduleRepo mirrors the conditional-update semantics of the
// real repository: data writes and status transitions only apply while
// the row is still in draft, otherwise ErrStaleSchedule.
type mockScheduleRepo struct {
	schedules map[string]*model.GeneratedSchedule
	seq       int
}

func newMockScheduleRepo() *mockScheduleRepo {
	return &mockScheduleRepo{schedules: make(map[string]*model.GeneratedSchedule)}
}

func (m *mockScheduleRepo) Create(_ context.Context, schedule *model.GeneratedSchedule) error {
	if schedule.ScheduleID == "" {
		m.seq++
		schedule.ScheduleID = fmt.Sprintf("sched-%03d", m.seq)
	}
	if schedule.GeneratedAt.IsZero() {
		schedule.GeneratedAt = time.Now()
	}
	if schedule.Version == 0 {
		schedule.Version = 1
	}
	m.schedules[schedule.ScheduleID] = schedule
	return nil
}

func (m *mockScheduleRepo) GetByID(_ context.Context, id string) (*model.GeneratedSchedule, error) {
	if s, ok := m.schedules[id]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockScheduleRepo) List(_ context.Context, filter repository.ScheduleFilter, offset, limit int) ([]model.GeneratedSchedule, int64, error) {
	var matched []model.GeneratedSchedule
	for _, s := range m.schedules {
		if filter.Status != "" && s.Status != filter.Status {
			continue
		}
		if filter.TeamID != "" && s.TeamID != filter.TeamID {
			continue
		}
		if filter.Year != 0 && s.Year != filter.Year {
			continue
		}
		if filter.Week != 0 && s.WeekNumber != filter.Week {
			continue
		}
		matched = append(matched, *s)
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].GeneratedAt.Equal(matched[j].GeneratedAt) {
			return matched[i].GeneratedAt.After(matched[j].GeneratedAt)
		}
		return matched[i].ScheduleID < matched[j].ScheduleID
	})

	total := int64(len(matched))
	if offset >= len(matched) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (m *mockScheduleRepo) UpdateScheduleData(_ context.Context, id string, data model.ScheduleData, updatedBy string) error {
	s, ok := m.schedules[id]
	if !ok || s.Status != model.StatusDraft {
		return pkgerrors.ErrStaleSchedule
	}
	s.ScheduleData = data
	s.UpdatedBy = &updatedBy
	s.Version++
	return nil
}

func (m *mockScheduleRepo) TransitionStatus(_ context.Context, id, toStatus, validatedBy string) error {
	s, ok := m.schedules[id]
	if !ok || s.Status != model.StatusDraft {
		return pkgerrors.ErrStaleSchedule
	}
	s.Status = toStatus
	s.ValidatedBy = &validatedBy
	s.UpdatedBy = &validatedBy
	s.Version++
	return nil
}
