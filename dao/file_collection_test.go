// api/dao/file_collection_test.go
package dao

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileCollection_CreatesMissingFile(t *testing.T) {
	dir := t.TempDir()
	c, err := NewFileCollection(dir, "usuarios")
	require.NoError(t, err)

	docs, err := c.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, docs)

	data, err := os.ReadFile(filepath.Join(dir, "usuarios.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))
}

func TestFileCollection_AppendAssignsMaxPlusOne(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "proyectos.json"),
		[]byte(`[{"id": 7, "nombre": "A"}, {"id": 3, "nombre": "B"}]`), 0o644))

	c, err := NewFileCollection(dir, "proyectos")
	require.NoError(t, err)

	stored, err := c.Append(context.Background(), json.RawMessage(`{"nombre": "C", "id": 1}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"id": 8, "nombre": "C"}`, string(stored))

	reopened, err := NewFileCollection(dir, "proyectos")
	require.NoError(t, err)
	docs, err := reopened.List(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.JSONEq(t, `{"id": 8, "nombre": "C"}`, string(docs[2]))
}

func TestFileCollection_ConcurrentAppendsGetDistinctIDs(t *testing.T) {
	c, err := NewFileCollection(t.TempDir(), "tareas")
	require.NoError(t, err)

	const writers = 20
	ids := make(chan int, writers)
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			stored, err := c.Append(context.Background(), json.RawMessage(`{"nombre": "t"}`))
			if !assert.NoError(t, err) {
				return
			}
			id, err := recordID(stored)
			assert.NoError(t, err)
			ids <- id
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int]bool)
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	assert.Len(t, seen, writers)
	for id := 1; id <= writers; id++ {
		assert.True(t, seen[id])
	}
}

func TestFileCollection_RejectsNonObjects(t *testing.T) {
	c, err := NewFileCollection(t.TempDir(), "usuarios")
	require.NoError(t, err)

	_, err = c.Append(context.Background(), json.RawMessage(`[1, 2]`))
	assert.Error(t, err)

	docs, err := c.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestFileCollection_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "usuarios.json"), []byte(`{`), 0o644))

	_, err := NewFileCollection(dir, "usuarios")
	assert.Error(t, err)
}
