// Package store 定义事件存储的核心接口与内存实现
package store

import (
	"context"

	"tretabank/eventing"
)

// IEventStore 事件存储接口（最小化设计）
//
// 事件存储是账户聚合唯一的串行化机制：两个编排器以相同的
// expectedPosition 竞争追加时，恰好一个成功，失败方必须丢弃
// 其全部暂存变更并由调用方决定是否重试。正确性完全由位置
// 唯一约束在提交时保证，读取-决策窗口内不持有任何锁。
type IEventStore interface {
	// AppendEvents 以原子批次追加事件到指定流
	//
	// expectedPosition 为调用方读到的流内最后位置（0表示空流），
	// 事件位置必须为 expectedPosition+1, expectedPosition+2, …。
	// 任一位置已存在时整批回滚（不会出现部分追加），并返回
	// ConcurrencyError；其他失败返回 EventStoreError。
	AppendEvents(ctx context.Context, streamID string, events []eventing.Event, expectedPosition uint64) error

	// LoadEvents 加载流内指定位置之后的事件，按位置升序
	//
	// afterPosition 为起始位置（不包含），0表示从头加载。
	LoadEvents(ctx context.Context, streamID string, afterPosition uint64) ([]eventing.Event, error)

	// LastPosition 返回流内最后一个事件的位置，空流返回0
	LastPosition(ctx context.Context, streamID string) (uint64, error)
}

// validateBatch 校验批次完整性：信封合法、位置衔接且连续
func validateBatch(streamID string, events []eventing.Event, expectedPosition uint64) error {
	for i := range events {
		evt := &events[i]
		if evt.StreamID != streamID {
			return eventing.NewInvalidEventError(evt.ID, evt.Type, "mixed stream ids in append batch")
		}
		if err := evt.Validate(); err != nil {
			return eventing.NewInvalidEventErrorWithCause(evt.ID, evt.Type, "event validation failed", err)
		}
		want := expectedPosition + uint64(i) + 1
		if evt.Position != want {
			return eventing.NewInvalidEventError(evt.ID, evt.Type,
				"event position not sequential")
		}
	}
	return nil
}
