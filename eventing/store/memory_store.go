package store

import (
	"context"
	"sync"

	"tretabank/eventing"
)

// MemoryEventStore 内存事件存储，用于测试与示例
//
// 与SQL实现遵守同一契约：位置检查与写入在同一临界区内完成，
// 冲突时整批拒绝，不会出现部分追加。
type MemoryEventStore struct {
	mu      sync.RWMutex
	streams map[string][]eventing.Event // streamID -> ordered events
}

// NewMemoryEventStore 创建内存事件存储
func NewMemoryEventStore() *MemoryEventStore {
	return &MemoryEventStore{
		streams: make(map[string][]eventing.Event),
	}
}

// AppendEvents 实现 IEventStore
func (m *MemoryEventStore) AppendEvents(ctx context.Context, streamID string, events []eventing.Event, expectedPosition uint64) error {
	if len(events) == 0 {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	current := m.lastPositionLocked(streamID)
	if current != expectedPosition {
		return eventing.NewConcurrencyError(streamID, expectedPosition, current)
	}

	if err := validateBatch(streamID, events, expectedPosition); err != nil {
		return err
	}

	m.streams[streamID] = append(m.streams[streamID], events...)
	return nil
}

// LoadEvents 实现 IEventStore
func (m *MemoryEventStore) LoadEvents(ctx context.Context, streamID string, afterPosition uint64) ([]eventing.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stream := m.streams[streamID]
	res := make([]eventing.Event, 0, len(stream))
	for _, e := range stream {
		if e.Position > afterPosition {
			res = append(res, e)
		}
	}
	return res, nil
}

// LastPosition 实现 IEventStore
func (m *MemoryEventStore) LastPosition(ctx context.Context, streamID string) (uint64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastPositionLocked(streamID), nil
}

func (m *MemoryEventStore) lastPositionLocked(streamID string) uint64 {
	stream := m.streams[streamID]
	if len(stream) == 0 {
		return 0
	}
	return stream[len(stream)-1].Position
}

// 确认实现接口
var _ IEventStore = (*MemoryEventStore)(nil)
