package handler

import "smartplanning/backend/internal/service"

// Handler aggregates every HTTP handler behind one injection point.
type Handler struct {
	Auth      *AuthHandler
	Schedule  *ScheduleHandler
	Edit      *EditHandler
	Export    *ExportHandler
	Directory *DirectoryHandler
}

// NewHandler wires the service layer into the handlers.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:      NewAuthHandler(svc.Auth),
		Schedule:  NewScheduleHandler(svc.Schedule),
		Edit:      NewEditHandler(svc.Edit),
		Export:    NewExportHandler(svc.Export),
		Directory: NewDirectoryHandler(svc.Directory),
	}
}
