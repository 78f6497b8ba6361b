// Package natsjetstream 基于 NATS JetStream 的事件发布器
package natsjetstream

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	"tretabank/logging"
	"tretabank/messaging"
)

// Config configures the JetStream publisher.
type Config struct {
	URL           string
	Stream        string
	SubjectPrefix string
	Logger        logging.Logger
	Conn          *nats.Conn

	// 可选：流参数
	MaxBytes int64 // 0 表示不设置
	Replicas int   // 0 表示默认
}

// Publisher 将已提交的领域事件发布到 JetStream 流
//
// 只负责发布，不做订阅：下游投影、审计等消费者各自管理
// 自己的 durable consumer。
type Publisher struct {
	cfg      Config
	logger   logging.Logger
	conn     *nats.Conn
	js       nats.JetStreamContext
	ownsConn bool

	mu      sync.Mutex
	started bool
}

// NewPublisher builds a JetStream publisher.
func NewPublisher(cfg Config) *Publisher {
	if cfg.Stream == "" {
		cfg.Stream = "TRETABANK"
	}
	if cfg.SubjectPrefix == "" {
		cfg.SubjectPrefix = "bank.events."
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.ComponentLogger("publisher.nats")
	}
	return &Publisher{
		cfg:    cfg,
		logger: cfg.Logger,
	}
}

// Start 建立连接并确保流存在
func (p *Publisher) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return errors.New("nats publisher already started")
	}
	if err := p.ensureConnection(); err != nil {
		return err
	}
	if err := p.ensureStream(); err != nil {
		return err
	}
	p.started = true
	return nil
}

// Publish 实现 messaging.IEventPublisher
func (p *Publisher) Publish(ctx context.Context, message messaging.IMessage) error {
	p.mu.Lock()
	js := p.js
	started := p.started
	p.mu.Unlock()
	if !started || js == nil {
		return errors.New("nats publisher not started")
	}
	data, err := marshalMessage(message)
	if err != nil {
		return err
	}
	subject := p.subjectName(message.GetType())
	if _, err := js.Publish(subject, data, nats.Context(ctx)); err != nil {
		return err
	}
	p.logger.Debug(ctx, "event published",
		logging.String("subject", subject), logging.String("message_id", message.GetID()))
	return nil
}

// PublishAll 实现 messaging.IEventPublisher
func (p *Publisher) PublishAll(ctx context.Context, messages []messaging.IMessage) error {
	for _, msg := range messages {
		if err := p.Publish(ctx, msg); err != nil {
			return err
		}
	}
	return nil
}

// Close 实现 messaging.IEventPublisher
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.started = false
	if p.ownsConn && p.conn != nil {
		p.conn.Close()
	}
	p.conn = nil
	p.js = nil
	return nil
}

func (p *Publisher) ensureConnection() error {
	if p.conn != nil && p.js != nil {
		return nil
	}
	if p.cfg.Conn != nil {
		p.conn = p.cfg.Conn
	} else {
		if p.cfg.URL == "" {
			p.cfg.URL = nats.DefaultURL
		}
		conn, err := nats.Connect(p.cfg.URL)
		if err != nil {
			return err
		}
		p.conn = conn
		p.ownsConn = true
	}
	js, err := p.conn.JetStream()
	if err != nil {
		return err
	}
	p.js = js
	return nil
}

func (p *Publisher) ensureStream() error {
	_, err := p.js.StreamInfo(p.cfg.Stream)
	if err == nil {
		return nil
	}
	if !errors.Is(err, nats.ErrStreamNotFound) && !strings.Contains(err.Error(), "stream not found") {
		return err
	}
	sc := &nats.StreamConfig{
		Name:      p.cfg.Stream,
		Subjects:  []string{p.cfg.SubjectPrefix + ">"},
		Retention: nats.LimitsPolicy,
	}
	if p.cfg.MaxBytes > 0 {
		sc.MaxBytes = p.cfg.MaxBytes
	}
	if p.cfg.Replicas > 0 {
		sc.Replicas = p.cfg.Replicas
	}
	_, err = p.js.AddStream(sc)
	return err
}

func (p *Publisher) subjectName(messageType string) string {
	return p.cfg.SubjectPrefix + messageType
}

func marshalMessage(msg messaging.IMessage) ([]byte, error) {
	payload, err := json.Marshal(msg.GetPayload())
	if err != nil {
		return nil, err
	}
	metadata := msg.GetMetadata()
	if metadata == nil {
		metadata = make(map[string]interface{})
	}
	ts := msg.GetTimestamp()
	if ts.IsZero() {
		ts = time.Now()
	}
	return json.Marshal(struct {
		ID        string                 `json:"id"`
		Type      string                 `json:"type"`
		Timestamp int64                  `json:"timestamp"`
		Payload   json.RawMessage        `json:"payload"`
		Metadata  map[string]interface{} `json:"metadata"`
	}{ID: msg.GetID(), Type: msg.GetType(), Timestamp: ts.UnixNano(), Payload: payload, Metadata: metadata})
}

func unmarshalMessage(data []byte) (messaging.IMessage, error) {
	var wire struct {
		ID        string                 `json:"id"`
		Type      string                 `json:"type"`
		Timestamp int64                  `json:"timestamp"`
		Payload   json.RawMessage        `json:"payload"`
		Metadata  map[string]interface{} `json:"metadata"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, err
	}
	var payload interface{}
	if len(wire.Payload) > 0 {
		if err := json.Unmarshal(wire.Payload, &payload); err != nil {
			return nil, err
		}
	}
	if wire.Metadata == nil {
		wire.Metadata = make(map[string]interface{})
	}
	return &messaging.Message{
		ID:        wire.ID,
		Type:      wire.Type,
		Timestamp: time.Unix(0, wire.Timestamp),
		Payload:   payload,
		Metadata:  wire.Metadata,
	}, nil
}

// 确认实现接口
var _ messaging.IEventPublisher = (*Publisher)(nil)
