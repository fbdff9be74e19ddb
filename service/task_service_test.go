// api/service/task_service_test.go
package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/dev-mohitbeniwal/fleet/api/dao"
	"github.com/dev-mohitbeniwal/fleet/api/db"
	fleet_errors "github.com/dev-mohitbeniwal/fleet/api/errors"
	"github.com/dev-mohitbeniwal/fleet/api/model"
	"github.com/dev-mohitbeniwal/fleet/api/service"
	mock_service "github.com/dev-mohitbeniwal/fleet/api/test/service_mock"
	"github.com/dev-mohitbeniwal/fleet/api/util"
)

const testQueue = "cola_test"

func newTaskService(t *testing.T, store *db.RedisStore, projects service.ProjectLookup, events util.Publisher, delay time.Duration) *service.TaskService {
	t.Helper()
	c, err := dao.NewFileCollection(t.TempDir(), "tareas")
	require.NoError(t, err)
	tasks := dao.NewTaskDAO(c)
	return service.NewTaskService(tasks, service.NewCacheAside(store, tasks, "tarea", 0), projects,
		store, store, util.NewValidationUtil(), events,
		service.QueueSettings{Key: testQueue, ProcessingDelay: delay, LockTTL: time.Minute})
}

func allProjectsExist(ctrl *gomock.Controller) *mock_service.MockProjectLookup {
	projects := mock_service.NewMockProjectLookup(ctrl)
	projects.EXPECT().ProjectExists(gomock.Any(), gomock.Any()).Return(true, nil).AnyTimes()
	return projects
}

func TestTaskService_EnqueueAndDrainInOrder(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	store, _ := newRedis(t)
	events := &capturingPublisher{}
	svc := newTaskService(t, store, allProjectsExist(ctrl), events, 0)

	for _, name := range []string{"A", "B", "C"} {
		require.NoError(t, svc.Enqueue(ctx, model.Task{Nombre: name, ProyectoID: 1}))
	}
	pending, err := svc.PendingCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), pending)

	processed, err := svc.DrainAndProcess(ctx)
	require.NoError(t, err)
	require.Len(t, processed, 3)
	for i, name := range []string{"A", "B", "C"} {
		assert.Equal(t, name, processed[i].Nombre)
		assert.Equal(t, i+1, processed[i].ID)
	}

	pending, err = svc.PendingCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, pending)

	stored, err := svc.GetTask(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "B", stored.Nombre)

	if assert.Len(t, events.events, 1) {
		assert.Equal(t, util.EventTaskProcessed, events.events[0].eventType)
		assert.Equal(t, 3, events.events[0].payload)
	}
}

func TestTaskService_EmptyDrain(t *testing.T) {
	ctrl := gomock.NewController(t)
	store, _ := newRedis(t)
	events := &capturingPublisher{}
	svc := newTaskService(t, store, allProjectsExist(ctrl), events, 0)

	processed, err := svc.DrainAndProcess(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, processed)
	assert.Empty(t, processed)
	assert.Empty(t, events.events)
}

func TestTaskService_EnqueueRejections(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	store, _ := newRedis(t)
	projects := mock_service.NewMockProjectLookup(ctrl)
	svc := newTaskService(t, store, projects, nil, 0)

	err := svc.Enqueue(ctx, model.Task{ProyectoID: 1})
	assert.ErrorIs(t, err, fleet_errors.ErrInvalidTaskData)

	projects.EXPECT().ProjectExists(gomock.Any(), 9).Return(false, nil)
	err = svc.Enqueue(ctx, model.Task{Nombre: "A", ProyectoID: 9})
	assert.ErrorIs(t, err, fleet_errors.ErrProjectNotFound)

	projects.EXPECT().ProjectExists(gomock.Any(), 4).
		Return(false, errors.Join(fleet_errors.ErrCircuitOpen, errors.New("tareas->proyectos")))
	err = svc.Enqueue(ctx, model.Task{Nombre: "A", ProyectoID: 4})
	assert.ErrorIs(t, err, fleet_errors.ErrCircuitOpen)

	pending, err := svc.PendingCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, pending)
}

func TestTaskService_DrainLockHeldElsewhere(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	store, mr := newRedis(t)
	svc := newTaskService(t, store, allProjectsExist(ctrl), nil, 0)

	require.NoError(t, svc.Enqueue(ctx, model.Task{Nombre: "A", ProyectoID: 1}))
	require.NoError(t, mr.Set("lock:queue:"+testQueue, "locked"))

	_, err := svc.DrainAndProcess(ctx)
	assert.ErrorIs(t, err, fleet_errors.ErrDrainInProgress)

	pending, err := svc.PendingCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), pending)
}

func TestTaskService_ConcurrentDrainInProcess(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	store, _ := newRedis(t)
	svc := newTaskService(t, store, allProjectsExist(ctrl), nil, 200*time.Millisecond)

	require.NoError(t, svc.Enqueue(ctx, model.Task{Nombre: "A", ProyectoID: 1}))

	done := make(chan error, 1)
	go func() {
		_, err := svc.DrainAndProcess(ctx)
		done <- err
	}()

	assert.Eventually(t, func() bool {
		n, err := svc.PendingCount(ctx)
		return err == nil && n == 0
	}, time.Second, 5*time.Millisecond)

	_, err := svc.DrainAndProcess(ctx)
	assert.ErrorIs(t, err, fleet_errors.ErrDrainInProgress)

	require.NoError(t, <-done)
	tasks, err := svc.ListTasks(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
}

func TestTaskService_DrainStopsWhenLockTakenOver(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	store, mr := newRedis(t)
	svc := newTaskService(t, store, allProjectsExist(ctrl), nil, 200*time.Millisecond)

	for _, name := range []string{"A", "B", "C"} {
		require.NoError(t, svc.Enqueue(ctx, model.Task{Nombre: name, ProyectoID: 1}))
	}

	type result struct {
		processed []model.Task
		err       error
	}
	done := make(chan result, 1)
	go func() {
		processed, err := svc.DrainAndProcess(ctx)
		done <- result{processed, err}
	}()

	require.Eventually(t, func() bool {
		n, err := svc.PendingCount(ctx)
		return err == nil && n == 2
	}, time.Second, 5*time.Millisecond)

	// The first lock expired and another process acquired it.
	require.NoError(t, mr.Set("lock:queue:"+testQueue, "other-drainer"))

	res := <-done
	assert.ErrorIs(t, res.err, fleet_errors.ErrDrainInProgress)
	require.Len(t, res.processed, 1)
	assert.Equal(t, "A", res.processed[0].Nombre)

	held, err := mr.Get("lock:queue:" + testQueue)
	require.NoError(t, err)
	assert.Equal(t, "other-drainer", held)

	pending, err := svc.PendingCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), pending)
}

func TestTaskService_CancelRequeuesInFlightTask(t *testing.T) {
	ctrl := gomock.NewController(t)
	store, mr := newRedis(t)
	svc := newTaskService(t, store, allProjectsExist(ctrl), nil, time.Hour)

	require.NoError(t, svc.Enqueue(context.Background(), model.Task{Nombre: "A", ProyectoID: 1}))
	require.NoError(t, svc.Enqueue(context.Background(), model.Task{Nombre: "B", ProyectoID: 1}))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	processed, err := svc.DrainAndProcess(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Empty(t, processed)

	entries, err := mr.List(testQueue)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.JSONEq(t, `{"nombre": "A", "proyecto_id": 1}`, entries[0])
	assert.JSONEq(t, `{"nombre": "B", "proyecto_id": 1}`, entries[1])
	assert.False(t, mr.Exists("lock:queue:"+testQueue))

	tasks, err := svc.ListTasks(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestTaskService_RunAutoDrain(t *testing.T) {
	ctrl := gomock.NewController(t)
	store, _ := newRedis(t)
	svc := newTaskService(t, store, allProjectsExist(ctrl), nil, 0)

	require.NoError(t, svc.Enqueue(context.Background(), model.Task{Nombre: "A", ProyectoID: 1}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.RunAutoDrain(ctx, 10*time.Millisecond) }()

	assert.Eventually(t, func() bool {
		tasks, err := svc.ListTasks(context.Background())
		return err == nil && len(tasks) == 1
	}, time.Second, 5*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}
