package repository

import "gorm.io/gorm"

// Repository aggregates every repository behind one injection point.
type Repository struct {
	User     UserRepository
	Team     TeamRepository
	Employee EmployeeRepository
	Schedule GeneratedScheduleRepository
}

// NewRepository wires the GORM-backed implementations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:     NewUserRepo(db),
		Team:     NewTeamRepo(db),
		Employee: NewEmployeeRepo(db),
		Schedule: NewGeneratedScheduleRepo(db),
	}
}
