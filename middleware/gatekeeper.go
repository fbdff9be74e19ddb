// api/middleware/gatekeeper.go

package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	fleet_errors "github.com/dev-mohitbeniwal/fleet/api/errors"
	"github.com/dev-mohitbeniwal/fleet/api/model"
	"github.com/dev-mohitbeniwal/fleet/api/service"
	"github.com/dev-mohitbeniwal/fleet/api/util"
)

func authRequest(c *gin.Context) service.AuthRequest {
	return service.AuthRequest{
		Authorization: c.GetHeader("Authorization"),
		APIKey:        c.GetHeader("X-API-Key"),
		Method:        c.Request.Method,
		Path:          c.FullPath(),
	}
}

// Gatekeeper resolves the caller's credential and stores it in the context
// for the route guards and controllers that follow.
func Gatekeeper(authSvc service.IAuthorizationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		req := authRequest(c)
		cred, decision := authSvc.Resolve(c.Request.Context(), req)
		if !decision.Allowed {
			authSvc.RecordDecision(c.Request.Context(), cred, req, "", decision)
			util.RespondWithRejection(c, decision)
			return
		}
		c.Set(util.CredentialContextKey, cred)
		c.Next()
	}
}

// RequireValet applies route's requirement to the resolved credential. It
// must run after Gatekeeper.
func RequireValet(authSvc service.IAuthorizationService, route model.RouteRequirement) gin.HandlerFunc {
	return func(c *gin.Context) {
		req := authRequest(c)
		cred, ok := util.GetCredentialFromContext(c)
		if !ok {
			decision := model.Reject(http.StatusUnauthorized, model.ReasonCredentialRequired, fleet_errors.ErrCredentialRequired.Error())
			util.RespondWithRejection(c, decision)
			return
		}

		params := make(map[string]string, len(c.Params))
		for _, p := range c.Params {
			params[p.Key] = p.Value
		}

		decision := authSvc.Authorize(cred, route, params, c.Request.Method)
		authSvc.RecordDecision(c.Request.Context(), cred, req, params[route.ResourceParam], decision)
		if !decision.Allowed {
			util.RespondWithRejection(c, decision)
			return
		}
		c.Next()
	}
}

// RejectValetKeys admits master and bearer credentials only.
func RejectValetKeys(authSvc service.IAuthorizationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		req := authRequest(c)
		cred, _ := util.GetCredentialFromContext(c)

		decision := model.Admit()
		if cred.Kind == model.CredentialValet {
			decision = model.Reject(http.StatusForbidden, model.ReasonValetCannotIssue, fleet_errors.ErrValetCannotIssue.Error())
		}
		authSvc.RecordDecision(c.Request.Context(), cred, req, "", decision)
		if !decision.Allowed {
			util.RespondWithRejection(c, decision)
			return
		}
		c.Next()
	}
}
