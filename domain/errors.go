package domain

import (
	"errors"
	"fmt"
)

// DomainError 领域规则错误
//
// 领域错误是业务语义的最终形态，不包裹下层错误；
// 调用方通过 errors.Is 与预定义变量做识别。
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// 领域规则错误
var (
	ErrInvalidAmount     = &DomainError{Code: "INVALID_AMOUNT", Message: "invalid amount"}
	ErrInvalidCurrency   = &DomainError{Code: "INVALID_CURRENCY", Message: "currency cannot be empty"}
	ErrCurrencyMismatch  = &DomainError{Code: "CURRENCY_MISMATCH", Message: "cannot operate on money with different currencies"}
	ErrInsufficientFunds = &DomainError{Code: "INSUFFICIENT_FUNDS", Message: "insufficient balance"}
)

// RepositoryError 通用仓储错误
type RepositoryError struct {
	Code    string
	Message string
	Cause   error
}

func (e *RepositoryError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *RepositoryError) Unwrap() error {
	return e.Cause
}

// 常见仓储错误
var (
	ErrAccountNotFound  = &RepositoryError{Code: "ACCOUNT_NOT_FOUND", Message: "bank account not found"}
	ErrRepositoryFailed = &RepositoryError{Code: "REPOSITORY_FAILED", Message: "repository operation failed"}
)

// IsRepositoryError 判断是否为仓储错误
func IsRepositoryError(err error) bool {
	var repoErr *RepositoryError
	return errors.As(err, &repoErr)
}

// NewRepositoryError 创建带原因的仓储错误
func NewRepositoryError(code, message string, cause error) *RepositoryError {
	return &RepositoryError{Code: code, Message: message, Cause: cause}
}
