package handler

import (
	"github.com/gin-gonic/gin"

	"smartplanning/backend/internal/service"
	"smartplanning/backend/pkg/response"
)

// MustGetUserID extracts user_id from the Gin context. When the JWT
// middleware did not inject it, a 401 is written and ok is false; the
// caller should return immediately.
func MustGetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, 10002, "not authenticated")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "not authenticated")
		return "", false
	}
	return s, true
}

// MustGetActor extracts the full authorization context injected by
// the JWT middleware. The workflow services receive it as an explicit
// parameter.
func MustGetActor(c *gin.Context) (service.Actor, bool) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return service.Actor{}, false
	}

	role, exists := c.Get("role")
	if !exists {
		response.Unauthorized(c, 10002, "not authenticated")
		return service.Actor{}, false
	}
	roleStr, ok := role.(string)
	if !ok || roleStr == "" {
		response.Unauthorized(c, 10002, "not authenticated")
		return service.Actor{}, false
	}

	teamID := c.GetString("team_id")

	return service.Actor{UserID: userID, Role: roleStr, TeamID: teamID}, true
}
