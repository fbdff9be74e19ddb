// api/util/notification_service.go

package util

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	logger "github.com/dev-mohitbeniwal/fleet/api/logging"
)

// CircuitChange is the payload of circuit.opened and circuit.closed.
type CircuitChange struct {
	Key       string
	FailCount int
	Open      bool
}

type NotificationService struct{}

func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

// Register subscribes the notifier to the events operators care about.
func (n *NotificationService) Register(bus *EventBus) {
	bus.Subscribe(EventCircuitOpened, n.handleCircuitChange)
	bus.Subscribe(EventCircuitClosed, n.handleCircuitChange)
	bus.Subscribe(EventTaskProcessed, n.handleTaskProcessed)
}

func (n *NotificationService) handleCircuitChange(ctx context.Context, event Event) error {
	change, ok := event.Payload.(CircuitChange)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
	}
	return n.NotifyCircuitChange(ctx, change)
}

func (n *NotificationService) handleTaskProcessed(ctx context.Context, event Event) error {
	count, ok := event.Payload.(int)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
	}
	logger.Info("NOTIFICATION: Task queue drained", zap.Int("processed", count))
	return nil
}

func (n *NotificationService) NotifyCircuitChange(ctx context.Context, change CircuitChange) error {
	if change.Open {
		logger.Warn("NOTIFICATION: Circuit opened",
			zap.String("circuit", change.Key),
			zap.Int("failCount", change.FailCount))
		return nil
	}
	logger.Info("NOTIFICATION: Circuit closed", zap.String("circuit", change.Key))
	return nil
}
