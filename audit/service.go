// api/audit/service.go
package audit

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	logger "github.com/dev-mohitbeniwal/fleet/api/logging"
	"github.com/dev-mohitbeniwal/fleet/api/model"
	"github.com/dev-mohitbeniwal/fleet/api/util"
)

type Service interface {
	LogAccess(ctx context.Context, log AuditLog) error
	QueryLogs(ctx context.Context, from, to time.Time, credentialKind, resourceID string) ([]AuditLog, error)
	HandleAccessDecided(ctx context.Context, event util.Event) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) LogAccess(ctx context.Context, log AuditLog) error {
	return s.repo.LogAccess(ctx, log)
}

func (s *service) QueryLogs(ctx context.Context, from, to time.Time, credentialKind, resourceID string) ([]AuditLog, error) {
	return s.repo.QueryLogs(ctx, from, to, credentialKind, resourceID)
}

// HandleAccessDecided is subscribed to access.decided.
func (s *service) HandleAccessDecided(ctx context.Context, event util.Event) error {
	decision, ok := event.Payload.(model.AccessDecision)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
	}
	if err := s.repo.LogAccess(ctx, FromDecision(decision)); err != nil {
		logger.Warn("Failed to record access decision",
			zap.String("path", decision.Path),
			zap.Error(err))
		return err
	}
	return nil
}
