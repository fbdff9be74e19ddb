// api/service/valet_key_service.go
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/dev-mohitbeniwal/fleet/api/db"
	fleet_errors "github.com/dev-mohitbeniwal/fleet/api/errors"
	logger "github.com/dev-mohitbeniwal/fleet/api/logging"
	"github.com/dev-mohitbeniwal/fleet/api/model"
)

const (
	valetKeyPrefix = "valet_key:"
	valetKeyType   = "valet_key"
)

// IssueValetKeyRequest is the body of POST /valet-keys.
type IssueValetKeyRequest struct {
	Scopes              []string                         `json:"scopes"`
	AllowedMethods      []string                         `json:"allowed_methods"`
	ResourceConstraints map[string]model.ConstraintValue `json:"resource_constraints"`
	ExpiresInHours      *float64                         `json:"expires_in_hours"`
}

// IValetKeyService defines the interface for valet key operations
type IValetKeyService interface {
	Issue(ctx context.Context, req IssueValetKeyRequest) (*model.ValetKey, error)
	Lookup(ctx context.Context, token string) (*model.ValetKey, error)
	Validate(ctx context.Context, token string, req model.ValetRequirement) (model.Verdict, error)
}

// ValetKeyService stores valet key metadata in the TTL cache only, so a key
// disappears when its entry expires.
type ValetKeyService struct {
	cache           db.KeyValueStore
	sealer          *db.Sealer
	defaultTTLHours float64
	now             func() time.Time
}

var _ IValetKeyService = &ValetKeyService{}

func NewValetKeyService(cache db.KeyValueStore, sealer *db.Sealer, defaultTTLHours float64) *ValetKeyService {
	if defaultTTLHours <= 0 {
		defaultTTLHours = 1
	}
	return &ValetKeyService{
		cache:           cache,
		sealer:          sealer,
		defaultTTLHours: defaultTTLHours,
		now:             time.Now,
	}
}

// Issue creates a valet key. The cache TTL and expires_at derive from the
// same duration.
func (s *ValetKeyService) Issue(ctx context.Context, req IssueValetKeyRequest) (*model.ValetKey, error) {
	if len(req.Scopes) == 0 {
		return nil, fmt.Errorf("%w: scopes are required", fleet_errors.ErrValidation)
	}
	hours := s.defaultTTLHours
	if req.ExpiresInHours != nil {
		hours = *req.ExpiresInHours
	}
	if hours <= 0 || math.IsNaN(hours) || math.IsInf(hours, 0) {
		return nil, fmt.Errorf("%w: expires_in_hours must be positive", fleet_errors.ErrValidation)
	}
	methods := req.AllowedMethods
	if len(methods) == 0 {
		methods = []string{model.Wildcard}
	}
	constraints := req.ResourceConstraints
	if constraints == nil {
		constraints = map[string]model.ConstraintValue{}
	}

	value, err := randomToken()
	if err != nil {
		return nil, fmt.Errorf("generate valet key: %w", err)
	}

	ttl := time.Duration(hours * float64(time.Hour))
	now := s.now().UTC()
	key := &model.ValetKey{
		Token:               value,
		Scopes:              req.Scopes,
		AllowedMethods:      methods,
		ResourceConstraints: constraints,
		CreatedAt:           now,
		ExpiresAt:           now.Add(ttl),
		Type:                valetKeyType,
	}

	data, err := json.Marshal(key)
	if err != nil {
		return nil, err
	}
	sealed, err := s.sealer.Seal(data)
	if err != nil {
		return nil, fmt.Errorf("seal valet key: %w", err)
	}
	if err := s.cache.SetWithTTL(ctx, valetKeyPrefix+value, sealed, ttl); err != nil {
		logger.Error("Failed to store valet key", zap.Error(err))
		return nil, err
	}

	logger.Info("Valet key issued",
		zap.Strings("scopes", key.Scopes),
		zap.Strings("allowedMethods", key.AllowedMethods),
		zap.Time("expiresAt", key.ExpiresAt))
	return key, nil
}

// Lookup returns nil without error when the key is unknown or its cache
// entry expired.
func (s *ValetKeyService) Lookup(ctx context.Context, token string) (*model.ValetKey, error) {
	if token == "" {
		return nil, nil
	}
	value, found, err := s.cache.Get(ctx, valetKeyPrefix+token)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	data, err := s.sealer.Open(value)
	if err != nil {
		logger.Warn("Failed to open valet key metadata", zap.Error(err))
		return nil, nil
	}
	var key model.ValetKey
	if err := json.Unmarshal(data, &key); err != nil {
		logger.Warn("Failed to decode valet key metadata", zap.Error(err))
		return nil, nil
	}
	return &key, nil
}

// Validate runs the full ordered check for token against req.
func (s *ValetKeyService) Validate(ctx context.Context, token string, req model.ValetRequirement) (model.Verdict, error) {
	key, err := s.Lookup(ctx, token)
	if err != nil {
		return model.Verdict{}, err
	}
	if key == nil {
		return model.Deny(model.ReasonNotFound, fleet_errors.ErrValetKeyNotFound.Error()), nil
	}
	return key.Check(s.now(), req), nil
}
