package messaging

import (
	"context"
	"sync"
)

// IEventPublisher 事件发布接口
type IEventPublisher interface {
	// Publish 发布单条消息
	Publish(ctx context.Context, message IMessage) error

	// PublishAll 按序发布一批消息，遇错即停
	PublishAll(ctx context.Context, messages []IMessage) error

	// Close 释放底层连接
	Close() error
}

// NoopPublisher 空发布器，用于不需要对外通知的部署
type NoopPublisher struct{}

// NewNoopPublisher 创建空发布器
func NewNoopPublisher() *NoopPublisher {
	return &NoopPublisher{}
}

func (p *NoopPublisher) Publish(ctx context.Context, message IMessage) error {
	return nil
}

func (p *NoopPublisher) PublishAll(ctx context.Context, messages []IMessage) error {
	return nil
}

func (p *NoopPublisher) Close() error {
	return nil
}

// MemoryPublisher 内存发布器，记录已发布消息，用于测试与示例
type MemoryPublisher struct {
	mu       sync.Mutex
	messages []IMessage
}

// NewMemoryPublisher 创建内存发布器
func NewMemoryPublisher() *MemoryPublisher {
	return &MemoryPublisher{}
}

func (p *MemoryPublisher) Publish(ctx context.Context, message IMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, message)
	return nil
}

func (p *MemoryPublisher) PublishAll(ctx context.Context, messages []IMessage) error {
	for _, msg := range messages {
		if err := p.Publish(ctx, msg); err != nil {
			return err
		}
	}
	return nil
}

func (p *MemoryPublisher) Close() error {
	return nil
}

// Messages 返回已发布消息的快照
func (p *MemoryPublisher) Messages() []IMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]IMessage, len(p.messages))
	copy(out, p.messages)
	return out
}

// 确认实现接口
var (
	_ IEventPublisher = (*NoopPublisher)(nil)
	_ IEventPublisher = (*MemoryPublisher)(nil)
)
