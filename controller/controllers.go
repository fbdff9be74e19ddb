// api/controller/controllers.go
package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dev-mohitbeniwal/fleet/api/client"
	fleet_errors "github.com/dev-mohitbeniwal/fleet/api/errors"
	"github.com/dev-mohitbeniwal/fleet/api/model"
	"github.com/dev-mohitbeniwal/fleet/api/service"
	"github.com/dev-mohitbeniwal/fleet/api/util"
)

type Controllers struct {
	Health   *HealthController
	Token    *TokenController
	ValetKey *ValetKeyController
	User     *UserController
	Project  *ProjectController
	Task     *TaskController
	Gateway  *GatewayController
}

// RouteGuards are the authorization middlewares controllers attach to
// their routes.
type RouteGuards struct {
	// Authenticate resolves the caller's credential.
	Authenticate gin.HandlerFunc
	// Require checks a valet key against a route requirement.
	Require func(route model.RouteRequirement) gin.HandlerFunc
	// IssuersOnly refuses valet keys.
	IssuersOnly gin.HandlerFunc
}

func InitializeControllers(services *service.Services, role string, gateway *GatewayController) *Controllers {
	return &Controllers{
		Health:   NewHealthController(role),
		Token:    NewTokenController(services.Token),
		ValetKey: NewValetKeyController(services.ValetKey),
		User:     NewUserController(services.User),
		Project:  NewProjectController(services.Project),
		Task:     NewTaskController(services.Task),
		Gateway:  gateway,
	}
}

func parseID(c *gin.Context, param string) (int, bool) {
	id, err := strconv.Atoi(c.Param(param))
	if err != nil || id <= 0 {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid "+param, fleet_errors.ErrValidation)
		return 0, false
	}
	return id, true
}

// respondWithServiceError maps service errors onto HTTP statuses.
func respondWithServiceError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, fleet_errors.ErrValidation),
		errors.Is(err, fleet_errors.ErrInvalidUserData),
		errors.Is(err, fleet_errors.ErrInvalidProjectData),
		errors.Is(err, fleet_errors.ErrInvalidTaskData):
		util.RespondWithError(c, http.StatusBadRequest, err.Error(), err)
	case errors.Is(err, fleet_errors.ErrUserNotFound):
		util.RespondWithError(c, http.StatusNotFound, "User not found", err)
	case errors.Is(err, fleet_errors.ErrProjectNotFound):
		util.RespondWithError(c, http.StatusNotFound, "Project not found", err)
	case errors.Is(err, fleet_errors.ErrTaskNotFound):
		util.RespondWithError(c, http.StatusNotFound, "Task not found", err)
	case errors.Is(err, fleet_errors.ErrCircuitOpen):
		util.RespondWithError(c, http.StatusServiceUnavailable, "Circuit open: dependency temporarily unavailable", err)
	case errors.Is(err, fleet_errors.ErrDependencyUnavailable), errors.Is(err, client.ErrNotFound):
		util.RespondWithError(c, http.StatusServiceUnavailable, "Dependency unavailable", err)
	case errors.Is(err, fleet_errors.ErrDrainInProgress):
		util.RespondWithError(c, http.StatusConflict, "Queue drain already in progress", err)
	case errors.Is(err, fleet_errors.ErrDatabaseOperation):
		util.RespondWithError(c, http.StatusInternalServerError, "Database operation failed", err)
	default:
		util.RespondWithError(c, http.StatusInternalServerError, fallback, err)
	}
}
