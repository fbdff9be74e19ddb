// api/router/router.go

package router

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dev-mohitbeniwal/fleet/api/controller"
	"github.com/dev-mohitbeniwal/fleet/api/db"
	"github.com/dev-mohitbeniwal/fleet/api/middleware"
	"github.com/dev-mohitbeniwal/fleet/api/model"
	"github.com/dev-mohitbeniwal/fleet/api/service"
)

// Guards builds the route guards backed by authSvc.
func Guards(authSvc service.IAuthorizationService) controller.RouteGuards {
	return controller.RouteGuards{
		Authenticate: middleware.Gatekeeper(authSvc),
		Require: func(route model.RouteRequirement) gin.HandlerFunc {
			return middleware.RequireValet(authSvc, route)
		},
		IssuersOnly: middleware.RejectValetKeys(authSvc),
	}
}

// SetupRouter mounts the routes served by role. The monolith serves every
// record service; the gateway only proxies.
func SetupRouter(
	role string,
	controllers *controller.Controllers,
	guards controller.RouteGuards,
	limiter db.RateLimiter,
	rateLimitRequests int,
	rateLimitDuration time.Duration,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.RateLimiter(limiter, rateLimitRequests, rateLimitDuration))

	controllers.Health.RegisterRoutes(router)

	if role == service.RoleGateway {
		controllers.Gateway.RegisterRoutes(router)
		return router
	}

	controllers.Token.RegisterRoutes(router)
	controllers.ValetKey.RegisterRoutes(router, guards)

	if serves(role, service.RoleUsuarios) {
		controllers.User.RegisterRoutes(router, guards)
	}
	if serves(role, service.RoleProyectos) {
		controllers.Project.RegisterRoutes(router, guards)
	}
	if serves(role, service.RoleTareas) {
		controllers.Task.RegisterRoutes(router, guards)
	}

	return router
}

func serves(role, name string) bool {
	return role == service.RoleMonolith || role == name
}
