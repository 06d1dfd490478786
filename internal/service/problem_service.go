package service

import (
	"context"
	"errors"
	"fmt"
	"sql_practice_backend/internal/model"
	"sql_practice_backend/internal/util"
	"sql_practice_backend/pkg/logger"
	"strings"

	"go.uber.org/zap"
)

const (
	defaultAttemptDifficulty = model.DifficultyBasic
	defaultAttemptTopic      = "General SQL"
)

// ProblemService 题目生成、答案评判与提示
type ProblemService struct {
	provider ContentProvider
	query    *QueryService
	progress *ProgressService
}

func NewProblemService(provider ContentProvider, query *QueryService, progress *ProgressService) *ProblemService {
	return &ProblemService{provider: provider, query: query, progress: progress}
}

type GenerateInput struct {
	Difficulty string
	Topic      string
	Save       bool
}

// Generate 生成题目，Save 为 true 时保存并回填 SavedID
func (s *ProblemService) Generate(ctx context.Context, in GenerateInput) (*model.Problem, error) {
	difficulty := in.Difficulty
	if difficulty == "" {
		difficulty = model.DifficultyBasic
	}

	result := s.provider.GenerateProblem(ctx, ProblemRequest{Difficulty: difficulty, Topic: in.Topic})
	if err := result.Err(); err != nil {
		return nil, err
	}

	problem := result.Value
	if problem.Source == "" {
		problem.Source = model.ProblemSourceAI
		if result.Kind == ResultFallback {
			problem.Source = model.ProblemSourceFallback
		}
	}

	if in.Save {
		id, err := s.progress.SaveProblem(problem)
		if err != nil {
			return nil, fmt.Errorf("save problem: %w", err)
		}
		problem.SavedID = id
	}

	logger.Log.Info("Problem generated",
		zap.String("title", problem.Title),
		zap.String("difficulty", problem.Difficulty),
		zap.String("kind", string(result.Kind)),
		zap.String("saved_id", problem.SavedID))
	return &problem, nil
}

// CheckInput ProblemID 实际是题目标题，用于记录答题历史
type CheckInput struct {
	Query              string
	ProblemID          string
	ProblemDescription string
	ExpectedResult     interface{}
	Result             interface{}
	Difficulty         string
	Topic              string
}

// Check 评判答案。查询或评判失败时同时返回 correct=false 的反馈和错误
func (s *ProblemService) Check(ctx context.Context, in CheckInput) (*model.Feedback, error) {
	if strings.TrimSpace(in.Query) == "" {
		return nil, util.NewValidationError("Query is required")
	}

	result := in.Result
	if result == nil {
		executed, err := s.query.Execute(ctx, in.Query)
		if err != nil {
			return &model.Feedback{
				Correct:      false,
				Message:      fmt.Sprintf("Query error: %s", err.Error()),
				Improvements: []string{},
			}, err
		}
		result = executed.Rows
	}

	checked := s.provider.CheckAnswer(ctx, CheckRequest{
		Query:              in.Query,
		ProblemDescription: in.ProblemDescription,
		Result:             result,
		ExpectedResult:     in.ExpectedResult,
	})
	feedback := checked.Value
	if feedback.Improvements == nil {
		feedback.Improvements = []string{}
	}
	if err := checked.Err(); err != nil {
		return &feedback, err
	}

	if in.ProblemID != "" {
		s.recordAttempt(in, feedback)
	}
	return &feedback, nil
}

// recordAttempt 记录失败不影响评判结果
func (s *ProblemService) recordAttempt(in CheckInput, feedback model.Feedback) {
	difficulty := in.Difficulty
	if difficulty == "" {
		difficulty = defaultAttemptDifficulty
	}
	topic := in.Topic
	if topic == "" {
		topic = defaultAttemptTopic
	}

	err := s.progress.RecordProblemAttempt(ProblemAttemptInput{
		Title:      in.ProblemID,
		Difficulty: difficulty,
		Topic:      topic,
		Query:      in.Query,
		Score:      feedback.Score,
		Correct:    feedback.Correct,
	})
	if err != nil {
		logger.Log.Error("Failed to record problem attempt",
			zap.String("problem", in.ProblemID),
			zap.Error(err))
	}
}

func (s *ProblemService) Hint(ctx context.Context, description, query string, level int) (string, error) {
	if strings.TrimSpace(description) == "" {
		return "", util.NewValidationError("Problem description is required")
	}

	result := s.provider.GenerateHint(ctx, HintRequest{
		ProblemDescription: description,
		Query:              query,
		Level:              level,
	})
	if err := result.Err(); err != nil {
		return "", err
	}
	return result.Value, nil
}

func (s *ProblemService) ListSaved(limit int) ([]model.SavedProblemSummary, error) {
	return s.progress.ListSavedProblems(limit)
}

func (s *ProblemService) GetSaved(id string) (*model.Problem, error) {
	return s.progress.GetSavedProblem(id)
}

func (s *ProblemService) DeleteSaved(id string) error {
	return s.progress.DeleteSavedProblem(id)
}

// IsQueryError 查询本身的问题（未通过检查或执行失败）
func IsQueryError(err error) bool {
	var ve *util.ValidationError
	var qe *util.QueryExecutionError
	return errors.As(err, &ve) || errors.As(err, &qe)
}
