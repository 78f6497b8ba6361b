// Package errors 提供带错误代码的应用错误类型
//
// 领域层与事件存储层有各自的类型化错误（domain.DomainError、
// eventing.ConcurrencyError 等），本包负责在应用层对它们做统一分类，
// 并为前置适配器提供错误代码到HTTP状态码的映射。
package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
)

// ErrorCode 错误代码类型
type ErrorCode string

// 预定义错误代码
const (
	ErrCodeInternal     ErrorCode = "INTERNAL_ERROR"
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeValidation   ErrorCode = "VALIDATION_ERROR"
	ErrCodeConcurrency  ErrorCode = "CONCURRENCY_ERROR"
	ErrCodeDatabase     ErrorCode = "DATABASE_ERROR"
	ErrCodeQueue        ErrorCode = "QUEUE_ERROR"
	ErrCodeCache        ErrorCode = "CACHE_ERROR"
)

// AppError 应用错误实现
type AppError struct {
	code    ErrorCode
	message string
	cause   error
}

// NewError 创建新错误
func NewError(code ErrorCode, message string) *AppError {
	return &AppError{code: code, message: message}
}

// WrapError 包装错误，保留原因链（errors.Is/As 可穿透）
func WrapError(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{code: code, message: message, cause: err}
}

// Error 实现 error 接口
func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.code, e.message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.code, e.message)
}

// Code 获取错误代码
func (e *AppError) Code() ErrorCode {
	return e.code
}

// Message 获取错误消息
func (e *AppError) Message() string {
	return e.message
}

// Cause 获取原始错误
func (e *AppError) Cause() error {
	return e.cause
}

// Unwrap 解包错误（支持 errors.Unwrap）
func (e *AppError) Unwrap() error {
	return e.cause
}

// Is 检查是否为指定类型的错误
func (e *AppError) Is(target error) bool {
	if target == nil {
		return false
	}
	if appErr, ok := target.(*AppError); ok {
		return e.code == appErr.code
	}
	if e.cause != nil {
		return stdErrors.Is(e.cause, target)
	}
	return false
}

// IsErrorCode 检查是否为指定错误代码
func IsErrorCode(err error, code ErrorCode) bool {
	if err == nil {
		return false
	}
	var appErr *AppError
	if stdErrors.As(err, &appErr) {
		return appErr.code == code
	}
	return false
}

// IsNotFound 检查是否为未找到错误
func IsNotFound(err error) bool {
	return IsErrorCode(err, ErrCodeNotFound)
}

// IsValidation 检查是否为验证错误
func IsValidation(err error) bool {
	return IsErrorCode(err, ErrCodeValidation)
}

// IsConcurrency 检查是否为并发冲突错误
func IsConcurrency(err error) bool {
	return IsErrorCode(err, ErrCodeConcurrency)
}

// GetErrorCode 获取错误代码，非 AppError 一律视为内部错误
func GetErrorCode(err error) ErrorCode {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if stdErrors.As(err, &appErr) {
		return appErr.code
	}
	return ErrCodeInternal
}

// HTTPStatus 错误代码到HTTP状态码的映射
//
// 约定：
//   - NOT_FOUND            -> 404
//   - VALIDATION/INVALID   -> 400
//   - CONCURRENCY          -> 409（调用方可根据该状态决定是否重试）
//   - 其余（存储等）        -> 500
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	switch GetErrorCode(err) {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeValidation, ErrCodeInvalidInput:
		return http.StatusBadRequest
	case ErrCodeConcurrency:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
