package service

import (
	"context"
	"sql_practice_backend/internal/config"
	"sql_practice_backend/internal/model"
	"sql_practice_backend/internal/repository"
	"sql_practice_backend/internal/sqlcheck"
	"sql_practice_backend/internal/util"
	"sql_practice_backend/pkg/logger"
	"sql_practice_backend/pkg/monitoring"
	"strings"
	"time"

	"go.uber.org/zap"
)

// QueryService 练习库查询与结构浏览
type QueryService struct {
	repo    *repository.PracticeRepository
	timeout time.Duration
	maxRows int
}

func NewQueryService(repo *repository.PracticeRepository, cfg config.QueryConfig) *QueryService {
	return &QueryService{repo: repo, timeout: cfg.Timeout, maxRows: cfg.MaxRows}
}

// Execute 先过安全检查再执行，检查失败返回 ValidationError，执行失败返回 QueryExecutionError
func (s *QueryService) Execute(ctx context.Context, query string) (*model.QueryResult, error) {
	if ok, reason := sqlcheck.IsSafe(query); !ok {
		monitoring.QueryCounter.WithLabelValues(monitoring.QueryRejected).Inc()
		logger.Log.Info("Query rejected", zap.String("reason", reason))
		return nil, &util.ValidationError{Reason: reason}
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	result, err := s.repo.Execute(ctx, query)
	if err != nil {
		monitoring.QueryCounter.WithLabelValues(monitoring.QueryFailed).Inc()
		if ctx.Err() == context.DeadlineExceeded {
			err = context.DeadlineExceeded
		}
		return nil, &util.QueryExecutionError{Err: err}
	}

	monitoring.QueryCounter.WithLabelValues(monitoring.QueryExecuted).Inc()
	logger.Log.Debug("Query executed",
		zap.Int("rows", len(result.Rows)),
		zap.Bool("truncated", result.Truncated),
		zap.Duration("elapsed", time.Since(start)))
	return result, nil
}

func (s *QueryService) Schema(ctx context.Context) (model.SchemaDescriptor, error) {
	return s.repo.Schema(ctx)
}

// SampleData limit 非正数时取默认值，并受 max_rows 限制
func (s *QueryService) SampleData(ctx context.Context, table string, limit int) (*model.SampleData, error) {
	table = strings.TrimSpace(table)
	if table == "" {
		return nil, util.NewValidationError("Table name is required")
	}
	if limit <= 0 {
		limit = util.DefaultSampleLimit
	}
	if s.maxRows > 0 && limit > s.maxRows {
		limit = s.maxRows
	}
	return s.repo.SampleData(ctx, table, limit)
}

func (s *QueryService) TableStats(ctx context.Context) (map[string]model.TableStats, error) {
	return s.repo.RowCounts(ctx)
}

func (s *QueryService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}
