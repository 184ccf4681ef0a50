package service

import (
	"go.uber.org/zap"

	"smartplanning/backend/config"
	"smartplanning/backend/internal/planning"
	"smartplanning/backend/internal/repository"
	"smartplanning/backend/pkg/jwt"
	"smartplanning/backend/pkg/redis"
)

// Actor is the authenticated caller's workflow context, extracted
// from JWT claims and passed explicitly into every operation that
// needs authorization. No service reads ambient global state.
type Actor struct {
	UserID string
	Role   string
	TeamID string
}

// Service aggregates every service behind one injection point.
type Service struct {
	Auth      AuthService
	Schedule  ScheduleService
	Edit      EditService
	Export    ExportService
	Directory DirectoryService
}

// NewService wires repositories, the JWT manager, Redis and the pure
// planning helpers into the service layer. rdb may be nil; dependent
// features degrade (token blacklist off, in-memory edit buffers).
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	resolver := planning.NewWeekResolver(logger)

	var editStore repository.EditBufferStore
	if rdb != nil {
		editStore = repository.NewRedisEditBufferStore(rdb, cfg.Edit.SessionTTL)
	} else {
		editStore = repository.NewMemoryEditBufferStore(cfg.Edit.SessionTTL)
	}

	scheduleSvc := NewScheduleService(repo, resolver, logger)

	return &Service{
		Auth:      NewAuthService(cfg, repo, jwtMgr, rdb, logger),
		Schedule:  scheduleSvc,
		Edit:      NewEditService(repo, editStore, logger),
		Export:    NewExportService(repo, resolver, logger),
		Directory: NewDirectoryService(repo, logger),
	}
}
