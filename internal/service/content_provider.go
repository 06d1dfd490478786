package service

import (
	"context"
	"fmt"
	"sql_practice_backend/internal/model"
	"sql_practice_backend/internal/util"
)

//go:generate mockgen -source=content_provider.go -destination=../mocks/service/mock_content_provider.go -package=mock_service

// ResultKind 内容生成结果类型
type ResultKind string

const (
	// ResultSuccess 模型返回并成功解析
	ResultSuccess ResultKind = "success"
	// ResultFallback 使用了内置兜底内容
	ResultFallback ResultKind = "fallback"
	// ResultError 无法给出可用内容
	ResultError ResultKind = "error"
)

// Result 带标签的生成结果，调用方据此区分真实内容与兜底内容
type Result[T any] struct {
	Kind   ResultKind
	Value  T
	Reason string
}

func Succeeded[T any](v T) Result[T] {
	return Result[T]{Kind: ResultSuccess, Value: v}
}

func FellBack[T any](v T, reason string) Result[T] {
	return Result[T]{Kind: ResultFallback, Value: v, Reason: reason}
}

func Failed[T any](reason string) Result[T] {
	return Result[T]{Kind: ResultError, Reason: reason}
}

// Err 仅 ResultError 时返回错误
func (r Result[T]) Err() error {
	if r.Kind != ResultError {
		return nil
	}
	return fmt.Errorf("%w: %s", util.ErrContentProvider, r.Reason)
}

type ProblemRequest struct {
	Difficulty string
	Topic      string
}

type CheckRequest struct {
	Query              string
	ProblemDescription string
	Result             interface{}
	ExpectedResult     interface{}
}

type HintRequest struct {
	ProblemDescription string
	Query              string
	Level              int
}

type DistractorRequest struct {
	Question   string
	Answer     string
	Topic      string
	Difficulty string
}

type ExplainRequest struct {
	Concept    string
	UserAnswer string
}

// ContentProvider 生成题目、评判答案、提示和干扰项
type ContentProvider interface {
	GenerateProblem(ctx context.Context, req ProblemRequest) Result[model.Problem]
	CheckAnswer(ctx context.Context, req CheckRequest) Result[model.Feedback]
	GenerateHint(ctx context.Context, req HintRequest) Result[string]
	GenerateWrongAnswers(ctx context.Context, req DistractorRequest) Result[[]string]
	ExplainFlashcard(ctx context.Context, req ExplainRequest) Result[string]
}
