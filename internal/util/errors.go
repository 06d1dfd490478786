package util

import (
	"errors"
	"fmt"
)

var (
	ErrTableNotFound     = errors.New("table not found")
	ErrProblemNotFound   = errors.New("Problem not found")
	ErrFlashcardNotFound = errors.New("Flashcard not found")
	ErrContentProvider   = errors.New("content provider error")
)

// ValidationError 请求内容不合法（包括未通过安全检查的查询）
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// QueryExecutionError 数据库执行查询失败，错误信息原样返回给用户
type QueryExecutionError struct {
	Err error
}

func (e *QueryExecutionError) Error() string {
	return "SQL Error: " + e.Err.Error()
}

func (e *QueryExecutionError) Unwrap() error {
	return e.Err
}

// TableNotFoundError 表不在练习库中
type TableNotFoundError struct {
	Table string
}

func (e *TableNotFoundError) Error() string {
	return fmt.Sprintf("Table %q does not exist", e.Table)
}

func (e *TableNotFoundError) Is(target error) bool {
	return target == ErrTableNotFound
}
