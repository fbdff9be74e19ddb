// api/service/cache_aside_test.go
package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dev-mohitbeniwal/fleet/api/dao"
	fleet_errors "github.com/dev-mohitbeniwal/fleet/api/errors"
	"github.com/dev-mohitbeniwal/fleet/api/model"
	fleet_mock "github.com/dev-mohitbeniwal/fleet/api/test/mock"
)

func projectDocs() []json.RawMessage {
	return []json.RawMessage{
		json.RawMessage(`{"id": 1, "nombre": "Portal", "usuario_id": 1}`),
		json.RawMessage(`{"id": 2, "nombre": "API", "usuario_id": 1, "prioridad": "alta"}`),
	}
}

func TestCacheAside_MissThenHit(t *testing.T) {
	ctx := context.Background()
	cache, mr := newCache(t)
	collection := new(fleet_mock.MockCollection)
	collection.On("List", mock.Anything).Return(projectDocs(), nil)
	reader := NewCacheAside(cache, dao.NewProjectDAO(collection), "proyecto", 0)

	first, err := reader.Get(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "API", first.Nombre)
	assert.True(t, mr.Exists("proyecto:2"))
	assert.Equal(t, DefaultRecordTTL, mr.TTL("proyecto:2"))

	second, err := reader.Get(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, first.Nombre, second.Nombre)
	assert.JSONEq(t, `"alta"`, string(second.Extra["prioridad"]))
	collection.AssertNumberOfCalls(t, "List", 1)
}

func TestCacheAside_EntryExpires(t *testing.T) {
	ctx := context.Background()
	cache, mr := newCache(t)
	collection := new(fleet_mock.MockCollection)
	collection.On("List", mock.Anything).Return(projectDocs(), nil)
	reader := NewCacheAside(cache, dao.NewProjectDAO(collection), "proyecto", 30*time.Second)

	_, err := reader.Get(ctx, 1)
	require.NoError(t, err)

	mr.FastForward(31 * time.Second)
	assert.False(t, mr.Exists("proyecto:1"))

	_, err = reader.Get(ctx, 1)
	require.NoError(t, err)
	collection.AssertNumberOfCalls(t, "List", 2)
}

func TestCacheAside_NotFoundIsNotCached(t *testing.T) {
	ctx := context.Background()
	cache, mr := newCache(t)
	collection := new(fleet_mock.MockCollection)
	collection.On("List", mock.Anything).Return(projectDocs(), nil)
	reader := NewCacheAside(cache, dao.NewProjectDAO(collection), "proyecto", 0)

	_, err := reader.Get(ctx, 99)
	assert.ErrorIs(t, err, fleet_errors.ErrProjectNotFound)
	assert.False(t, mr.Exists("proyecto:99"))

	_, err = reader.Get(ctx, 99)
	assert.ErrorIs(t, err, fleet_errors.ErrProjectNotFound)
	collection.AssertNumberOfCalls(t, "List", 2)
}

func TestCacheAside_CacheDownReadsStore(t *testing.T) {
	ctx := context.Background()
	cache, mr := newCache(t)
	collection := new(fleet_mock.MockCollection)
	collection.On("List", mock.Anything).Return(projectDocs(), nil)
	reader := NewCacheAside(cache, dao.NewProjectDAO(collection), "proyecto", 0)

	mr.Close()

	project, err := reader.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Portal", project.Nombre)
}

func TestCacheAside_ConcurrentCallersReturnCopies(t *testing.T) {
	ctx := context.Background()
	cache, _ := newCache(t)
	collection := new(fleet_mock.MockCollection)
	collection.On("List", mock.Anything).Return(projectDocs(), nil)
	reader := NewCacheAside(cache, dao.NewProjectDAO(collection), "proyecto", 0)

	results := make([]*model.Project, 10)
	var wg sync.WaitGroup
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p, err := reader.Get(ctx, 1)
			if assert.NoError(t, err) {
				results[i] = p
			}
		}(i)
	}
	wg.Wait()

	for i := 1; i < len(results); i++ {
		require.NotNil(t, results[i])
		assert.Equal(t, "Portal", results[i].Nombre)
		assert.NotSame(t, results[0], results[i])
	}
}

func TestCacheAside_CancelledCallerDoesNotFailOthers(t *testing.T) {
	cache, _ := newCache(t)
	collection := new(fleet_mock.MockCollection)
	started := make(chan struct{})
	release := make(chan struct{})
	loadCtxErr := make(chan error, 1)
	collection.On("List", mock.Anything).Run(func(args mock.Arguments) {
		close(started)
		<-release
		loadCtxErr <- args.Get(0).(context.Context).Err()
	}).Return(projectDocs(), nil).Once()
	reader := NewCacheAside(cache, dao.NewProjectDAO(collection), "proyecto", 0)

	leaderCtx, cancel := context.WithCancel(context.Background())
	leaderErr := make(chan error, 1)
	go func() {
		_, err := reader.Get(leaderCtx, 1)
		leaderErr <- err
	}()
	<-started

	type result struct {
		project *model.Project
		err     error
	}
	follower := make(chan result, 1)
	go func() {
		p, err := reader.Get(context.Background(), 1)
		follower <- result{p, err}
	}()

	cancel()
	assert.ErrorIs(t, <-leaderErr, context.Canceled)

	close(release)
	res := <-follower
	require.NoError(t, res.err)
	assert.Equal(t, "Portal", res.project.Nombre)
	assert.NoError(t, <-loadCtxErr)
	collection.AssertNumberOfCalls(t, "List", 1)
}
