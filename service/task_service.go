// api/service/task_service.go
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/dev-mohitbeniwal/fleet/api/dao"
	"github.com/dev-mohitbeniwal/fleet/api/db"
	fleet_errors "github.com/dev-mohitbeniwal/fleet/api/errors"
	logger "github.com/dev-mohitbeniwal/fleet/api/logging"
	"github.com/dev-mohitbeniwal/fleet/api/model"
	"github.com/dev-mohitbeniwal/fleet/api/util"
)

const DefaultQueueKey = "tareas_pendientes"

// ITaskService defines the interface for task operations
type ITaskService interface {
	Enqueue(ctx context.Context, task model.Task) error
	DrainAndProcess(ctx context.Context) ([]model.Task, error)
	GetTask(ctx context.Context, taskID int) (*model.Task, error)
	ListTasks(ctx context.Context) ([]model.Task, error)
	PendingCount(ctx context.Context) (int64, error)
}

type QueueSettings struct {
	Key             string
	ProcessingDelay time.Duration
	LockTTL         time.Duration
}

// TaskService accepts tasks into a FIFO queue and turns them into stored
// records when the queue is drained. Only one drain runs at a time per
// queue, across processes sharing the queue.
type TaskService struct {
	taskDAO        *dao.TaskDAO
	reader         *CacheAside[model.Task]
	projects       ProjectLookup
	queue          db.WorkQueue
	locker         db.Locker
	validationUtil *util.ValidationUtil
	events         util.Publisher
	settings       QueueSettings

	drainMu sync.Mutex
}

var _ ITaskService = &TaskService{}

func NewTaskService(
	taskDAO *dao.TaskDAO,
	reader *CacheAside[model.Task],
	projects ProjectLookup,
	queue db.WorkQueue,
	locker db.Locker,
	validationUtil *util.ValidationUtil,
	events util.Publisher,
	settings QueueSettings,
) *TaskService {
	if settings.Key == "" {
		settings.Key = DefaultQueueKey
	}
	if settings.LockTTL <= 0 {
		settings.LockTTL = 5 * time.Minute
	}
	return &TaskService{
		taskDAO:        taskDAO,
		reader:         reader,
		projects:       projects,
		queue:          queue,
		locker:         locker,
		validationUtil: validationUtil,
		events:         events,
		settings:       settings,
	}
}

// Enqueue validates task, confirms its project exists and appends it to
// the tail of the queue.
func (s *TaskService) Enqueue(ctx context.Context, task model.Task) error {
	if err := s.validationUtil.ValidateStruct(task); err != nil {
		return fmt.Errorf("%w: %v", fleet_errors.ErrInvalidTaskData, err)
	}

	exists, err := s.projects.ProjectExists(ctx, task.ProyectoID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: proyecto_id %d", fleet_errors.ErrProjectNotFound, task.ProyectoID)
	}

	task.ID = 0
	payload, err := json.Marshal(task)
	if err != nil {
		return err
	}
	if err := s.queue.Push(ctx, s.settings.Key, string(payload)); err != nil {
		logger.Error("Failed to enqueue task", zap.Error(err))
		return fmt.Errorf("%w: %v", fleet_errors.ErrDependencyUnavailable, err)
	}

	logger.Info("Task enqueued",
		zap.String("nombre", task.Nombre),
		zap.Int("proyectoID", task.ProyectoID))
	return nil
}

// DrainAndProcess pops entries until the queue is empty and stores each one
// after the processing delay. If ctx is cancelled while an entry is in
// flight, that entry goes back to the head of the queue and the tasks
// processed so far are returned with ctx's error.
func (s *TaskService) DrainAndProcess(ctx context.Context) ([]model.Task, error) {
	if !s.drainMu.TryLock() {
		return nil, fleet_errors.ErrDrainInProgress
	}
	defer s.drainMu.Unlock()

	lockName := "queue:" + s.settings.Key
	owner, locked, err := s.locker.LockResource(ctx, lockName, s.settings.LockTTL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", fleet_errors.ErrDependencyUnavailable, err)
	}
	if !locked {
		return nil, fleet_errors.ErrDrainInProgress
	}
	defer func() {
		if err := s.locker.UnlockResource(context.WithoutCancel(ctx), lockName, owner); err != nil {
			logger.Warn("Failed to release queue lock", zap.String("queue", s.settings.Key), zap.Error(err))
		}
	}()

	processed := []model.Task{}
	for {
		if err := ctx.Err(); err != nil {
			return processed, err
		}

		held, err := s.locker.RefreshLock(ctx, lockName, owner, s.settings.LockTTL)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return processed, ctxErr
			}
			return processed, fmt.Errorf("%w: %v", fleet_errors.ErrDependencyUnavailable, err)
		}
		if !held {
			logger.Warn("Queue lock taken over, stopping drain",
				zap.String("queue", s.settings.Key), zap.Int("processed", len(processed)))
			return processed, fmt.Errorf("%w: lock on %s lost", fleet_errors.ErrDrainInProgress, s.settings.Key)
		}

		payload, ok, err := s.queue.Pop(ctx, s.settings.Key)
		if err != nil {
			return processed, fmt.Errorf("%w: %v", fleet_errors.ErrDependencyUnavailable, err)
		}
		if !ok {
			break
		}

		var task model.Task
		if err := json.Unmarshal([]byte(payload), &task); err != nil {
			logger.Error("Dropping undecodable queue entry", zap.String("queue", s.settings.Key), zap.Error(err))
			continue
		}
		logger.Info("Processing task", zap.String("nombre", task.Nombre))

		if err := sleepCtx(ctx, s.settings.ProcessingDelay); err != nil {
			s.requeue(ctx, payload)
			return processed, err
		}

		task.ID = 0
		created, err := s.taskDAO.Create(ctx, task)
		if err != nil {
			s.requeue(ctx, payload)
			return processed, err
		}
		processed = append(processed, *created)
	}

	if len(processed) > 0 && s.events != nil {
		s.events.Publish(ctx, util.EventTaskProcessed, len(processed))
	}
	return processed, nil
}

func (s *TaskService) requeue(ctx context.Context, payload string) {
	if err := s.queue.PushFront(context.WithoutCancel(ctx), s.settings.Key, payload); err != nil {
		logger.Error("Failed to return task to queue, entry lost",
			zap.String("queue", s.settings.Key),
			zap.String("payload", payload),
			zap.Error(err))
	}
}

func (s *TaskService) GetTask(ctx context.Context, taskID int) (*model.Task, error) {
	return s.reader.Get(ctx, taskID)
}

func (s *TaskService) ListTasks(ctx context.Context) ([]model.Task, error) {
	return s.taskDAO.List(ctx)
}

func (s *TaskService) PendingCount(ctx context.Context) (int64, error) {
	return s.queue.Len(ctx, s.settings.Key)
}

// RunAutoDrain drains the queue every interval until ctx is done. A drain
// already running elsewhere is skipped silently.
func (s *TaskService) RunAutoDrain(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return nil
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			processed, err := s.DrainAndProcess(ctx)
			switch {
			case err == nil:
				if len(processed) > 0 {
					logger.Info("Background drain finished", zap.Int("processed", len(processed)))
				}
			case errors.Is(err, fleet_errors.ErrDrainInProgress), errors.Is(err, context.Canceled):
			default:
				logger.Warn("Background drain failed", zap.Error(err))
			}
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
