// api/service/authorization_service.go
package service

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	fleet_errors "github.com/dev-mohitbeniwal/fleet/api/errors"
	logger "github.com/dev-mohitbeniwal/fleet/api/logging"
	"github.com/dev-mohitbeniwal/fleet/api/model"
	"github.com/dev-mohitbeniwal/fleet/api/util"
)

// AuthRequest carries the request attributes the gatekeeper looks at.
type AuthRequest struct {
	Authorization string
	APIKey        string
	Method        string
	Path          string
}

// IAuthorizationService defines the interface for gatekeeper operations
type IAuthorizationService interface {
	Resolve(ctx context.Context, req AuthRequest) (model.Credential, model.Decision)
	Authorize(cred model.Credential, route model.RouteRequirement, pathParams map[string]string, method string) model.Decision
	RecordDecision(ctx context.Context, cred model.Credential, req AuthRequest, resourceID string, decision model.Decision)
}

type AuthorizationService struct {
	masterKey     string
	internalToken string
	tokens        ITokenService
	valetKeys     IValetKeyService
	events        util.Publisher
	now           func() time.Time
}

var _ IAuthorizationService = &AuthorizationService{}

func NewAuthorizationService(masterKey, internalToken string, tokens ITokenService, valetKeys IValetKeyService, events util.Publisher) *AuthorizationService {
	return &AuthorizationService{
		masterKey:     masterKey,
		internalToken: internalToken,
		tokens:        tokens,
		valetKeys:     valetKeys,
		events:        events,
		now:           time.Now,
	}
}

// ExtractToken picks the presented credential. Authorization wins over
// X-API-Key; a "Bearer " prefix is stripped case-insensitively.
func ExtractToken(authorization, apiKey string) string {
	authorization = strings.TrimSpace(authorization)
	if authorization == "" {
		return strings.TrimSpace(apiKey)
	}
	parts := strings.Fields(authorization)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return parts[1]
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return authorization
}

func secretEquals(presented, secret string) bool {
	if presented == "" || secret == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(presented), []byte(secret)) == 1
}

func (s *AuthorizationService) IsMasterKey(apiKey string) bool {
	return secretEquals(apiKey, s.masterKey)
}

// Resolve identifies the caller once per request: master key or internal
// secret, then valet key, then bearer token.
func (s *AuthorizationService) Resolve(ctx context.Context, req AuthRequest) (model.Credential, model.Decision) {
	token := ExtractToken(req.Authorization, req.APIKey)

	if s.IsMasterKey(req.APIKey) || secretEquals(token, s.internalToken) {
		return model.Credential{Kind: model.CredentialMaster, Token: token}, model.Admit()
	}

	if token == "" {
		return model.Credential{}, model.Reject(http.StatusUnauthorized,
			model.ReasonCredentialRequired, fleet_errors.ErrCredentialRequired.Error())
	}

	valet, err := s.valetKeys.Lookup(ctx, token)
	if err != nil {
		logger.Error("Valet key lookup failed", zap.Error(err))
		return model.Credential{}, model.Reject(http.StatusServiceUnavailable,
			model.ReasonUnavailable, "authorization backend unavailable")
	}
	if valet != nil {
		if valet.IsExpired(s.now()) {
			return model.Credential{}, model.Reject(http.StatusForbidden,
				model.ReasonExpired, fleet_errors.ErrValetKeyExpired.Error())
		}
		return model.Credential{Kind: model.CredentialValet, Token: token, Valet: valet}, model.Admit()
	}

	ok, err := s.tokens.Exists(ctx, token)
	if err != nil {
		logger.Error("Bearer token lookup failed", zap.Error(err))
		return model.Credential{}, model.Reject(http.StatusServiceUnavailable,
			model.ReasonUnavailable, "authorization backend unavailable")
	}
	if !ok {
		return model.Credential{}, model.Reject(http.StatusForbidden,
			model.ReasonInvalidToken, fleet_errors.ErrInvalidToken.Error())
	}
	return model.Credential{Kind: model.CredentialBearer, Token: token}, model.Admit()
}

func (s *AuthorizationService) Authorize(cred model.Credential, route model.RouteRequirement, pathParams map[string]string, method string) model.Decision {
	return Authorize(cred, route, pathParams, method, s.now())
}

// Authorize applies a route's requirement to a resolved credential. Master
// and bearer credentials are admitted; valet keys must pass Check.
func Authorize(cred model.Credential, route model.RouteRequirement, pathParams map[string]string, method string, now time.Time) model.Decision {
	switch cred.Kind {
	case model.CredentialMaster, model.CredentialBearer:
		return model.Admit()
	case model.CredentialValet:
		if cred.Valet == nil {
			return model.Reject(http.StatusForbidden, model.ReasonNotFound, fleet_errors.ErrValetKeyNotFound.Error())
		}
	default:
		return model.Reject(http.StatusUnauthorized, model.ReasonCredentialRequired, fleet_errors.ErrCredentialRequired.Error())
	}

	req := model.ValetRequirement{Scope: route.Scope, Method: route.Method}
	if req.Method == "" {
		req.Method = method
	}
	if route.ResourceParam != "" {
		if value, ok := pathParams[route.ResourceParam]; ok {
			req.Resources = map[string]string{route.ResourceParam: value}
		}
	}

	verdict := cred.Valet.Check(now, req)
	if !verdict.Allowed {
		return model.Reject(http.StatusForbidden, verdict.Reason, verdict.Message)
	}
	return model.Admit()
}

// RecordDecision publishes access.decided for auditing.
func (s *AuthorizationService) RecordDecision(ctx context.Context, cred model.Credential, req AuthRequest, resourceID string, decision model.Decision) {
	if s.events == nil {
		return
	}
	s.events.Publish(ctx, util.EventAccessDecided, model.AccessDecision{
		Timestamp:  s.now(),
		Kind:       cred.Kind,
		Method:     req.Method,
		Path:       req.Path,
		ResourceID: resourceID,
		Decision:   decision,
	})
}
