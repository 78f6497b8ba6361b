package eventing

import (
	stdErrors "errors"
	"fmt"
)

// 事件存储错误代码
const (
	ErrCodeStoreFailed      = "STORE_FAILED"
	ErrCodeInvalidEvent     = "INVALID_EVENT"
	ErrCodeSerializePayload = "SERIALIZE_PAYLOAD_FAILED"
)

// EventStoreError 事件存储错误基类
type EventStoreError struct {
	Code      string
	Message   string
	Cause     error
	EventID   string
	EventType string
}

func (e *EventStoreError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *EventStoreError) Unwrap() error { return e.Cause }

// NewStoreFailedError 创建存储失败错误
func NewStoreFailedError(message string, cause error) *EventStoreError {
	return &EventStoreError{Code: ErrCodeStoreFailed, Message: message, Cause: cause}
}

// NewInvalidEventError 创建无效事件错误
func NewInvalidEventError(eventID, eventType, message string) *EventStoreError {
	return &EventStoreError{Code: ErrCodeInvalidEvent, Message: message, EventID: eventID, EventType: eventType}
}

// NewInvalidEventErrorWithCause 创建带原因的无效事件错误
func NewInvalidEventErrorWithCause(eventID, eventType, message string, cause error) *EventStoreError {
	return &EventStoreError{Code: ErrCodeInvalidEvent, Message: message, Cause: cause, EventID: eventID, EventType: eventType}
}

// ConcurrencyError 并发冲突错误
//
// 乐观锁的判定结果：期望位置与存储中的实际位置不一致，
// 或位置唯一约束被违反。本错误是业务错误的最终形态，
// 不包裹下层错误；调用方通过 errors.As 或 IsConcurrencyError 识别。
type ConcurrencyError struct {
	StreamID         string
	ExpectedPosition uint64
	ActualPosition   uint64
}

func (e *ConcurrencyError) Error() string {
	return fmt.Sprintf("concurrency conflict: stream %s expected position %d, actual position %d",
		e.StreamID, e.ExpectedPosition, e.ActualPosition)
}

// NewConcurrencyError 创建并发冲突错误
func NewConcurrencyError(streamID string, expected, actual uint64) *ConcurrencyError {
	return &ConcurrencyError{StreamID: streamID, ExpectedPosition: expected, ActualPosition: actual}
}

// IsConcurrencyError 判断是否为并发冲突
func IsConcurrencyError(err error) bool {
	var ce *ConcurrencyError
	return stdErrors.As(err, &ce)
}
