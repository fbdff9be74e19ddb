// api/service/token_service.go
package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dev-mohitbeniwal/fleet/api/dao"
	"github.com/dev-mohitbeniwal/fleet/api/db"
	logger "github.com/dev-mohitbeniwal/fleet/api/logging"
	"github.com/dev-mohitbeniwal/fleet/api/model"
)

const (
	tokenKeyPrefix = "token:"
	tokenValid     = "valid"
	tokenBytes     = 32
)

// ITokenService defines the interface for bearer token operations
type ITokenService interface {
	Issue(ctx context.Context, description string) (*model.BearerToken, error)
	Exists(ctx context.Context, token string) (bool, error)
	SeedInternal(ctx context.Context, secret string) error
}

type TokenTTLs struct {
	Issued   time.Duration
	Fallback time.Duration
	Internal time.Duration
}

// TokenService keeps bearer tokens in the TTL cache and mirrors them into a
// durable registry, which is the fallback once the cache entry expires.
type TokenService struct {
	cache    db.KeyValueStore
	registry dao.TokenRegistry
	ttls     TokenTTLs
}

var _ ITokenService = &TokenService{}

func NewTokenService(cache db.KeyValueStore, registry dao.TokenRegistry, ttls TokenTTLs) *TokenService {
	if ttls.Issued <= 0 {
		ttls.Issued = 24 * time.Hour
	}
	if ttls.Fallback <= 0 {
		ttls.Fallback = time.Hour
	}
	if ttls.Internal <= 0 {
		ttls.Internal = 365 * 24 * time.Hour
	}
	return &TokenService{cache: cache, registry: registry, ttls: ttls}
}

// Issue mints a new bearer token. The registry write must succeed; the
// cache write is best-effort since Exists falls back to the registry.
func (s *TokenService) Issue(ctx context.Context, description string) (*model.BearerToken, error) {
	value, err := randomToken()
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	token := model.BearerToken{Token: value, Description: description}

	if err := s.registry.Register(ctx, token); err != nil {
		logger.Error("Failed to register bearer token", zap.Error(err))
		return nil, err
	}
	if err := s.cache.SetWithTTL(ctx, tokenKeyPrefix+value, tokenValid, s.ttls.Issued); err != nil {
		logger.Warn("Failed to cache bearer token", zap.Error(err))
	}

	logger.Info("Bearer token issued", zap.String("description", description))
	return &token, nil
}

// Exists reports whether token was ever issued. A registry hit refreshes
// the cache entry with the shorter fallback TTL.
func (s *TokenService) Exists(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, nil
	}
	key := tokenKeyPrefix + token

	cached, err := s.cache.Exists(ctx, key)
	if err != nil {
		logger.Warn("Token cache unavailable, falling back to registry", zap.Error(err))
	} else if cached {
		return true, nil
	}

	found, err := s.registry.Contains(ctx, token)
	if err != nil {
		logger.Error("Failed to read token registry", zap.Error(err))
		return false, err
	}
	if !found {
		return false, nil
	}

	if err := s.cache.SetWithTTL(ctx, key, tokenValid, s.ttls.Fallback); err != nil {
		logger.Warn("Failed to re-cache bearer token", zap.Error(err))
	}
	return true, nil
}

// SeedInternal registers the shared internal service secret. Failures are
// logged only, so a service can start while its cache is down.
func (s *TokenService) SeedInternal(ctx context.Context, secret string) error {
	if secret == "" {
		return nil
	}
	if err := s.registry.Register(ctx, model.BearerToken{Token: secret, Description: "internal service token"}); err != nil {
		logger.Warn("Failed to register internal service token", zap.Error(err))
	}
	if err := s.cache.SetWithTTL(ctx, tokenKeyPrefix+secret, tokenValid, s.ttls.Internal); err != nil {
		logger.Warn("Failed to cache internal service token", zap.Error(err))
	}
	return nil
}

func randomToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
