// Package messaging 提供已提交事件的对外通知抽象
//
// 发布发生在事件成功写入事件日志之后，属于尽力而为的通知：
// 发布失败不回滚命令，事实来源始终是事件日志。
package messaging

import (
	"time"
)

// IMessage 消息接口
type IMessage interface {
	// GetID 获取消息ID
	GetID() string

	// GetType 获取消息类型
	GetType() string

	// GetTimestamp 获取时间戳
	GetTimestamp() time.Time

	// GetPayload 获取消息数据
	GetPayload() interface{}

	// GetMetadata 获取元数据
	GetMetadata() map[string]interface{}
}

// Message 消息基础实现
type Message struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Payload   interface{}            `json:"payload"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// GetID 获取消息ID
func (m *Message) GetID() string {
	return m.ID
}

// GetType 获取消息类型
func (m *Message) GetType() string {
	return m.Type
}

// GetTimestamp 获取时间戳
func (m *Message) GetTimestamp() time.Time {
	return m.Timestamp
}

// GetPayload 获取消息数据
func (m *Message) GetPayload() interface{} {
	return m.Payload
}

// GetMetadata 获取元数据
func (m *Message) GetMetadata() map[string]interface{} {
	if m.Metadata == nil {
		m.Metadata = make(map[string]interface{})
	}
	return m.Metadata
}

// SetMetadata 设置元数据
func (m *Message) SetMetadata(key string, value interface{}) {
	if m.Metadata == nil {
		m.Metadata = make(map[string]interface{})
	}
	m.Metadata[key] = value
}

// NewMessage 创建新消息
func NewMessage(messageID, messageType string, payload interface{}) *Message {
	return &Message{
		ID:        messageID,
		Type:      messageType,
		Timestamp: time.Now(),
		Payload:   payload,
		Metadata:  make(map[string]interface{}),
	}
}
