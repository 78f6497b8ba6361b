package store

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tretabank/eventing"
)

func makeBatch(streamID string, fromPosition uint64, count int) []eventing.Event {
	events := make([]eventing.Event, 0, count)
	for i := 0; i < count; i++ {
		events = append(events, *eventing.NewEvent(streamID, "TestEvent", fromPosition+uint64(i), map[string]any{"n": i}))
	}
	return events
}

func TestMemoryEventStore_AppendAndLoad(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryEventStore()

	require.NoError(t, s.AppendEvents(ctx, "stream-1", makeBatch("stream-1", 1, 2), 0))

	last, err := s.LastPosition(ctx, "stream-1")
	require.NoError(t, err)
	assert.Equal(t, uint64(2), last)

	loaded, err := s.LoadEvents(ctx, "stream-1", 0)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, uint64(1), loaded[0].Position)
	assert.Equal(t, uint64(2), loaded[1].Position)

	// afterPosition 过滤
	tail, err := s.LoadEvents(ctx, "stream-1", 1)
	require.NoError(t, err)
	require.Len(t, tail, 1)
	assert.Equal(t, uint64(2), tail[0].Position)
}

func TestMemoryEventStore_EmptyStream(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryEventStore()

	last, err := s.LastPosition(ctx, "missing")
	require.NoError(t, err)
	assert.Equal(t, uint64(0), last)

	loaded, err := s.LoadEvents(ctx, "missing", 0)
	require.NoError(t, err)
	assert.Empty(t, loaded)

	// 空批次是no-op
	require.NoError(t, s.AppendEvents(ctx, "missing", nil, 0))
}

func TestMemoryEventStore_ConcurrencyConflict(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryEventStore()

	require.NoError(t, s.AppendEvents(ctx, "stream-1", makeBatch("stream-1", 1, 1), 0))

	// 过期的期望位置：确定性失败，无论重试多少次
	for i := 0; i < 3; i++ {
		err := s.AppendEvents(ctx, "stream-1", makeBatch("stream-1", 1, 1), 0)
		require.Error(t, err)
		assert.True(t, eventing.IsConcurrencyError(err))
	}

	// 冲突不产生任何写入
	last, err := s.LastPosition(ctx, "stream-1")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), last)
}

func TestMemoryEventStore_RejectsNonSequentialBatch(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryEventStore()

	// 位置与期望不衔接
	err := s.AppendEvents(ctx, "stream-1", makeBatch("stream-1", 5, 1), 0)
	require.Error(t, err)
	assert.False(t, eventing.IsConcurrencyError(err))

	// 混入其他流的事件
	bad := makeBatch("stream-2", 1, 1)
	err = s.AppendEvents(ctx, "stream-1", bad, 0)
	require.Error(t, err)

	last, _ := s.LastPosition(ctx, "stream-1")
	assert.Equal(t, uint64(0), last)
}

// TestMemoryEventStore_ConcurrentAppendSameStream
// 并发对同一流追加相同位置：恰好一个成功，其余全部收到并发冲突。
// 配合 `go test -race` 使用。
func TestMemoryEventStore_ConcurrentAppendSameStream(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewMemoryEventStore()

	const racers = 8

	var wg sync.WaitGroup
	wg.Add(racers)
	var mu sync.Mutex
	successes, conflicts := 0, 0

	for r := 0; r < racers; r++ {
		go func() {
			defer wg.Done()
			err := s.AppendEvents(ctx, "stream-1", makeBatch("stream-1", 1, 1), 0)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
			} else if eventing.IsConcurrencyError(err) {
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, racers-1, conflicts)

	last, err := s.LastPosition(ctx, "stream-1")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), last)
}
