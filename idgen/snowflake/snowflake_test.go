package snowflake

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGenerator_InvalidConfig(t *testing.T) {
	_, err := NewGenerator(-1, 1)
	assert.Error(t, err)

	_, err = NewGenerator(1, 64)
	assert.Error(t, err)
}

func TestGenerator_Monotonic(t *testing.T) {
	gen, err := NewGenerator(1, 1)
	require.NoError(t, err)

	prev := int64(0)
	for i := 0; i < 1000; i++ {
		id, err := gen.NextID()
		require.NoError(t, err)
		require.Greater(t, id, prev)
		prev = id
	}
}

func TestGenerator_ConcurrentUnique(t *testing.T) {
	gen, err := NewGenerator(2, 3)
	require.NoError(t, err)

	const workers = 8
	const perWorker = 500

	var mu sync.Mutex
	seen := make(map[int64]bool, workers*perWorker)

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				id := gen.Generate()
				mu.Lock()
				seen[id] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, workers*perWorker)
}
