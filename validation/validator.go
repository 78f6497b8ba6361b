// Package validation 提供命令输入的基础校验函数
package validation

import (
	"fmt"
	"strings"

	"tretabank/errors"
)

// ValidateRequired 验证必填字段
func ValidateRequired(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return errors.NewError(errors.ErrCodeValidation,
			fmt.Sprintf("%s cannot be empty", fieldName))
	}
	return nil
}

// ValidateStringLength 验证字符串长度
func ValidateStringLength(value, fieldName string, min, max int) error {
	length := len(value)
	if length < min {
		return errors.NewError(errors.ErrCodeValidation,
			fmt.Sprintf("%s must be at least %d characters (got %d)", fieldName, min, length))
	}
	if max > 0 && length > max {
		return errors.NewError(errors.ErrCodeValidation,
			fmt.Sprintf("%s must be at most %d characters (got %d)", fieldName, max, length))
	}
	return nil
}
