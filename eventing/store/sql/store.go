// Package sql 基于通用SQL接口的事件存储实现
package sql

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"tretabank/eventing"
	"tretabank/eventing/store"
	"tretabank/logging"
	"tretabank/storage/database"
)

// DefaultTableName 默认事件表名
const DefaultTableName = "domain_events"

// Schema 返回事件表建表语句
//
// (stream_id, position) 上的唯一约束是乐观并发控制的基石：
// 竞争追加在提交时由该约束裁决，恰好一个成功。
func Schema(tableName string) string {
	return fmt.Sprintf(`
        CREATE TABLE IF NOT EXISTS %s (
            id        TEXT PRIMARY KEY,
            stream_id TEXT NOT NULL,
            type      TEXT NOT NULL,
            position  INTEGER NOT NULL,
            timestamp DATETIME NOT NULL,
            payload   TEXT NOT NULL,
            metadata  TEXT NOT NULL,
            UNIQUE(stream_id, position)
        );
    `, tableName)
}

// SQLEventStore 基于通用SQL接口的事件存储
type SQLEventStore struct {
	db        database.IDatabase
	tableName string
	logger    logging.Logger
}

// NewSQLEventStore 创建SQL事件存储
func NewSQLEventStore(db database.IDatabase, tableName string) *SQLEventStore {
	if tableName == "" {
		tableName = DefaultTableName
	}
	return &SQLEventStore{
		db:        db,
		tableName: tableName,
		logger:    logging.ComponentLogger("eventstore.sql"),
	}
}

// Init 初始化（建表并检查连接）
func (s *SQLEventStore) Init(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, Schema(s.tableName)); err != nil {
		return eventing.NewStoreFailedError("create event table failed", err)
	}
	return s.db.Ping(ctx)
}

// preparedEvent 预处理的事件数据（批量插入前先完成序列化）
type preparedEvent struct {
	id           string
	typ          string
	position     uint64
	timestamp    time.Time
	payloadJSON  string
	metadataJSON string
}

// AppendEvents 实现 store.IEventStore
//
// 整个批次在单个事务内完成：事务内位置检查 + 插入。
// 位置不匹配或唯一约束被违反时整批回滚并返回 ConcurrencyError，
// 不会出现部分追加。
func (s *SQLEventStore) AppendEvents(ctx context.Context, streamID string, events []eventing.Event, expectedPosition uint64) error {
	if len(events) == 0 {
		return nil
	}

	if err := validateAppendBatch(streamID, events, expectedPosition); err != nil {
		return err
	}

	prepared, err := s.prepare(events)
	if err != nil {
		return err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return eventing.NewStoreFailedError("begin transaction failed", err)
	}
	defer tx.Rollback()

	// 位置检查必须在事务内，与插入构成同一原子单元
	current, err := s.lastPosition(ctx, tx, streamID)
	if err != nil {
		return eventing.NewStoreFailedError("query last position failed", err)
	}
	if current != expectedPosition {
		return eventing.NewConcurrencyError(streamID, expectedPosition, current)
	}

	if err := s.insert(ctx, tx, streamID, prepared, expectedPosition); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		if isDuplicateKeyError(err) {
			return eventing.NewConcurrencyError(streamID, expectedPosition, expectedPosition)
		}
		return eventing.NewStoreFailedError("commit transaction failed", err)
	}

	s.logger.Debug(ctx, "events appended",
		logging.String("stream_id", streamID),
		logging.Int("event_count", len(events)),
		logging.Uint64("from_position", expectedPosition+1))
	return nil
}

func (s *SQLEventStore) insert(ctx context.Context, tx database.ITransaction, streamID string, prepared []preparedEvent, expectedPosition uint64) error {
	const columns = "(id, stream_id, type, position, timestamp, payload, metadata)"

	if len(prepared) == 1 {
		// 单个事件：使用简单INSERT（更易读的错误信息）
		p := prepared[0]
		insertSQL := fmt.Sprintf("INSERT INTO %s %s VALUES (?, ?, ?, ?, ?, ?, ?)", s.tableName, columns)
		if _, err := tx.Exec(ctx, insertSQL, p.id, streamID, p.typ, p.position, p.timestamp, p.payloadJSON, p.metadataJSON); err != nil {
			if isDuplicateKeyError(err) {
				return eventing.NewConcurrencyError(streamID, expectedPosition, p.position)
			}
			return &eventing.EventStoreError{Code: eventing.ErrCodeStoreFailed, Message: "insert event failed", Cause: err, EventID: p.id, EventType: p.typ}
		}
		return nil
	}

	// 多个事件：单条批量INSERT，减少数据库往返
	placeholders := make([]string, len(prepared))
	args := make([]any, 0, len(prepared)*7)
	for i, p := range prepared {
		placeholders[i] = "(?, ?, ?, ?, ?, ?, ?)"
		args = append(args, p.id, streamID, p.typ, p.position, p.timestamp, p.payloadJSON, p.metadataJSON)
	}
	batchSQL := fmt.Sprintf("INSERT INTO %s %s VALUES %s", s.tableName, columns, strings.Join(placeholders, ","))
	if _, err := tx.Exec(ctx, batchSQL, args...); err != nil {
		if isDuplicateKeyError(err) {
			return eventing.NewConcurrencyError(streamID, expectedPosition, expectedPosition)
		}
		return eventing.NewStoreFailedError("batch insert events failed", err)
	}
	return nil
}

func (s *SQLEventStore) prepare(events []eventing.Event) ([]preparedEvent, error) {
	prepared := make([]preparedEvent, 0, len(events))
	for i := range events {
		evt := &events[i]

		payloadJSON, err := json.Marshal(evt.Payload)
		if err != nil {
			return nil, &eventing.EventStoreError{Code: eventing.ErrCodeSerializePayload, Message: "serialize payload failed", Cause: err, EventID: evt.ID, EventType: evt.Type}
		}
		metadataJSON, err := json.Marshal(evt.Metadata)
		if err != nil {
			return nil, &eventing.EventStoreError{Code: eventing.ErrCodeSerializePayload, Message: "serialize metadata failed", Cause: err, EventID: evt.ID, EventType: evt.Type}
		}

		prepared = append(prepared, preparedEvent{
			id:           evt.ID,
			typ:          evt.Type,
			position:     evt.Position,
			timestamp:    evt.Timestamp,
			payloadJSON:  string(payloadJSON),
			metadataJSON: string(metadataJSON),
		})
	}
	return prepared, nil
}

// LoadEvents 实现 store.IEventStore
func (s *SQLEventStore) LoadEvents(ctx context.Context, streamID string, afterPosition uint64) ([]eventing.Event, error) {
	query := fmt.Sprintf("SELECT id, stream_id, type, position, timestamp, payload, metadata FROM %s WHERE stream_id = ? AND position > ? ORDER BY position ASC", s.tableName)
	rows, err := s.db.Query(ctx, query, streamID, afterPosition)
	if err != nil {
		return nil, eventing.NewStoreFailedError("query events failed", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

// LastPosition 实现 store.IEventStore
func (s *SQLEventStore) LastPosition(ctx context.Context, streamID string) (uint64, error) {
	pos, err := s.lastPosition(ctx, s.db, streamID)
	if err != nil {
		return 0, eventing.NewStoreFailedError("query last position failed", err)
	}
	return pos, nil
}

func (s *SQLEventStore) lastPosition(ctx context.Context, db database.IDatabase, streamID string) (uint64, error) {
	var current uint64
	row := db.QueryRow(ctx, fmt.Sprintf("SELECT COALESCE(MAX(position), 0) FROM %s WHERE stream_id = ?", s.tableName), streamID)
	if err := row.Scan(&current); err != nil {
		return 0, err
	}
	return current, nil
}

func scanEvents(rows database.IRows) ([]eventing.Event, error) {
	var events []eventing.Event
	for rows.Next() {
		var (
			evt          eventing.Event
			payloadJSON  string
			metadataJSON string
		)
		if err := rows.Scan(&evt.ID, &evt.StreamID, &evt.Type, &evt.Position, &evt.Timestamp, &payloadJSON, &metadataJSON); err != nil {
			return nil, eventing.NewStoreFailedError("scan event failed", err)
		}
		evt.Payload = json.RawMessage(payloadJSON)
		if metadataJSON != "" && metadataJSON != "null" {
			if err := json.Unmarshal([]byte(metadataJSON), &evt.Metadata); err != nil {
				return nil, eventing.NewStoreFailedError("decode event metadata failed", err)
			}
		}
		events = append(events, evt)
	}
	if err := rows.Err(); err != nil {
		return nil, eventing.NewStoreFailedError("iterate events failed", err)
	}
	return events, nil
}

func validateAppendBatch(streamID string, events []eventing.Event, expectedPosition uint64) error {
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
			return eventing.NewInvalidEventError(evt.ID, evt.Type, "event position not sequential")
		}
	}
	return nil
}

func isDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint failed")
}

// 确认实现接口
var _ store.IEventStore = (*SQLEventStore)(nil)
