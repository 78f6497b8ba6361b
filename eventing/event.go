// Package eventing 定义事件流的存储信封与错误类型
package eventing

import (
	"fmt"
	"strconv"
	"time"

	"tretabank/idgen/snowflake"
)

// IEvent 事件信封的只读视图
type IEvent interface {
	// GetID 事件全局唯一ID
	GetID() string

	// GetStreamID 所属事件流ID（即聚合ID）
	GetStreamID() string

	// GetType 事件类型
	GetType() string

	// GetPosition 事件在流内的位置（从1开始、严格递增、无空洞）
	GetPosition() uint64

	// GetTimestamp 事件产生时间
	GetTimestamp() time.Time

	// GetPayload 事件负载
	GetPayload() any
}

// Event 事件信封
//
// 事件日志是唯一事实来源：信封一旦写入即不可变。
// Payload 在内存实现中保持原始领域事件，在SQL实现中
// 序列化为JSON、读取时以 json.RawMessage 返回。
type Event struct {
	ID        string         `json:"id"`
	StreamID  string         `json:"stream_id"`
	Type      string         `json:"type"`
	Position  uint64         `json:"position"`
	Timestamp time.Time      `json:"timestamp"`
	Payload   any            `json:"payload"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

func (e *Event) GetID() string           { return e.ID }
func (e *Event) GetStreamID() string     { return e.StreamID }
func (e *Event) GetType() string         { return e.Type }
func (e *Event) GetPosition() uint64     { return e.Position }
func (e *Event) GetTimestamp() time.Time { return e.Timestamp }
func (e *Event) GetPayload() any         { return e.Payload }

// Validate 校验信封完整性
func (e *Event) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("event id cannot be empty")
	}
	if e.StreamID == "" {
		return fmt.Errorf("stream id cannot be empty")
	}
	if e.Type == "" {
		return fmt.Errorf("event type cannot be empty")
	}
	if e.Position == 0 {
		return fmt.Errorf("event position must be greater than 0")
	}
	return nil
}

// NewEvent 创建事件信封
func NewEvent(streamID, eventType string, position uint64, payload any) *Event {
	return &Event{
		ID:        strconv.FormatInt(snowflake.Generate(), 10),
		StreamID:  streamID,
		Type:      eventType,
		Position:  position,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
		Metadata:  make(map[string]any),
	}
}
