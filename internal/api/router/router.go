package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"smartplanning/backend/config"
	"smartplanning/backend/internal/api/handler"
	"smartplanning/backend/internal/api/middleware"
	"smartplanning/backend/internal/model"
	"smartplanning/backend/pkg/jwt"
	"smartplanning/backend/pkg/redis"
)

// maxBodyBytes caps request bodies. Schedule payloads stay small; a
// bigger body is a client bug.
const maxBodyBytes = 1 << 20

// Setup initializes and returns the Gin engine.
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── global middleware ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(maxBodyBytes))

	// ── health check ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	reviewers := middleware.RoleAuth(model.RoleManager, model.RoleDirector, model.RoleAdmin)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// auth (public)
		auth := v1.Group("/auth")
		auth.Use(middleware.RateLimit(rdb, 10, time.Minute))
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// authenticated routes
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.GetCurrentUser)

			// generated-schedule validation workflow
			schedules := authorized.Group("/generated-schedules")
			{
				schedules.GET("", reviewers, h.Schedule.List)
				schedules.GET("/:id", reviewers, h.Schedule.Get)
				schedules.POST("", middleware.RoleAuth(model.RoleAdmin), h.Schedule.Ingest)
				schedules.PATCH("/:id", reviewers, h.Schedule.UpdateScheduleData)
				schedules.PATCH("/:id/validate", reviewers, h.Schedule.Validate)
				schedules.PATCH("/:id/reject", reviewers, h.Schedule.Reject)

				// edit sessions
				schedules.POST("/:id/edit", reviewers, h.Edit.Begin)
				schedules.GET("/:id/edit", reviewers, h.Edit.Get)
				schedules.PATCH("/:id/edit", reviewers, h.Edit.Mutate)
				schedules.POST("/:id/edit/commit", reviewers, h.Edit.Commit)
				schedules.DELETE("/:id/edit", reviewers, h.Edit.Cancel)

				// calendar feed for one approved schedule
				schedules.GET("/:id/ics", reviewers, h.Export.ExportScheduleICS)
			}

			// exports
			authorized.GET("/export/schedules", reviewers, h.Export.ExportWeekExcel)

			// directory
			authorized.GET("/teams", h.Directory.ListTeams)
			authorized.GET("/employees", h.Directory.ListEmployees)
		}
	}

	return r
}
