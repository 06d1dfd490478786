package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sql_practice_backend/internal/config"
	"sql_practice_backend/internal/controller"
	"sql_practice_backend/internal/middleware"
	"sql_practice_backend/internal/repository"
	"sql_practice_backend/internal/service"
	"sql_practice_backend/pkg/configwatcher"
	"sql_practice_backend/pkg/database"
	"sql_practice_backend/pkg/logger"
	"sql_practice_backend/pkg/monitoring"
	"sql_practice_backend/pkg/security"
	"sql_practice_backend/pkg/tracing"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	ProgressDB      *gorm.DB
	PracticeDB      *sqlx.DB
	services        *services
	rateLimiter     *security.RateLimiter
	tracerProvider  *sdktrace.TracerProvider
	configCallbacks []func(*config.Config)
}

type repositories struct {
	practice          *repository.PracticeRepository
	flashcardProgress *repository.FlashcardProgressRepository
	flashcardOption   *repository.FlashcardOptionRepository
	problemAttempt    *repository.ProblemAttemptRepository
	statistics        *repository.StatisticsRepository
	savedProblem      *repository.SavedProblemRepository
}

type services struct {
	ai        *service.AIService
	query     *service.QueryService
	progress  *service.ProgressService
	flashcard *service.FlashcardService
	problem   *service.ProblemService
}

type controllers struct {
	problem   *controller.ProblemController
	flashcard *controller.FlashcardController
	progress  *controller.ProgressController
	database  *controller.DatabaseController
	health    *controller.HealthController
}

// RegisterConfigCallback 配置文件热更新后按注册顺序回调
func (a *App) RegisterConfigCallback(cb func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, cb)
}

func (a *App) applyConfig(cfg *config.Config) {
	for _, cb := range a.configCallbacks {
		cb(cfg)
	}
}

func (a *App) initRepositories(cfg *config.Config) *repositories {
	return &repositories{
		practice:          repository.NewPracticeRepository(a.PracticeDB, cfg.Query.MaxRows),
		flashcardProgress: repository.NewFlashcardProgressRepository(a.ProgressDB),
		flashcardOption:   repository.NewFlashcardOptionRepository(a.ProgressDB),
		problemAttempt:    repository.NewProblemAttemptRepository(a.ProgressDB),
		statistics:        repository.NewStatisticsRepository(a.ProgressDB),
		savedProblem:      repository.NewSavedProblemRepository(a.ProgressDB),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config) (*services, error) {
	s := &services{}

	s.ai = service.NewAIService(cfg.AI)
	s.query = service.NewQueryService(repos.practice, cfg.Query)
	s.progress = service.NewProgressService(
		a.ProgressDB,
		repos.flashcardProgress,
		repos.flashcardOption,
		repos.problemAttempt,
		repos.statistics,
		repos.savedProblem,
	)

	flashcards, err := service.NewFlashcardService(s.ai, s.progress)
	if err != nil {
		return nil, fmt.Errorf("load flashcards: %w", err)
	}
	s.flashcard = flashcards

	s.problem = service.NewProblemService(s.ai, s.query, s.progress)

	return s, nil
}

func (a *App) initControllers(s *services) *controllers {
	return &controllers{
		problem:   controller.NewProblemController(s.problem, s.query),
		flashcard: controller.NewFlashcardController(s.flashcard),
		progress:  controller.NewProgressController(s.progress),
		database:  controller.NewDatabaseController(s.query),
		health:    controller.NewHealthController(s.query, s.progress, s.ai.Enabled),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.AccessLog())
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(a.rateLimiter.Middleware())

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func rateWindow(cfg config.RateLimitConfig) time.Duration {
	return time.Duration(cfg.WindowMinutes) * time.Minute
}

// NewApp 初始化数据库、服务与路由，练习库不存在且开启 auto_seed 时先生成
func NewApp(cfg *config.Config) (*App, error) {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	gin.SetMode(cfg.Server.Mode)

	progressDB, err := database.InitDB(&cfg.Progress, cfg.Server.Mode)
	if err != nil {
		return nil, fmt.Errorf("initialize progress database: %w", err)
	}

	if cfg.Practice.AutoSeed {
		if err := database.Seed(cfg.Practice.Path, false); err != nil {
			database.Close(progressDB)
			return nil, fmt.Errorf("seed practice database: %w", err)
		}
	}

	practiceDB, err := database.OpenPractice(cfg.Practice.Path)
	if err != nil {
		database.Close(progressDB)
		return nil, fmt.Errorf("open practice database: %w", err)
	}

	app := &App{
		Config:      cfg,
		ProgressDB:  progressDB,
		PracticeDB:  practiceDB,
		rateLimiter: security.NewRateLimiter(cfg.RateLimit.MaxRequests, rateWindow(cfg.RateLimit)),
	}

	// 监控初始化
	monitoring.Init()

	repos := app.initRepositories(cfg)
	svcs, err := app.initServices(repos, cfg)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.services = svcs
	ctrls := app.initControllers(svcs)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("sql-practice-backend", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("initialize tracing: %w", err)
		}
		app.tracerProvider = tp
	}

	router := gin.New()
	app.Router = router
	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, ctrls)

	app.RegisterConfigCallback(logger.SetLevel)
	app.RegisterConfigCallback(func(c *config.Config) {
		svcs.ai.UpdateConfig(c.AI)
	})
	app.RegisterConfigCallback(func(c *config.Config) {
		app.rateLimiter.Update(c.RateLimit.MaxRequests, rateWindow(c.RateLimit))
	})

	return app, nil
}

// Close 释放数据库连接与后台资源，可重复调用
func (a *App) Close() {
	if a.services != nil {
		if err := a.services.ai.Close(); err != nil {
			logger.Log.Warn("Failed to close AI client", zap.Error(err))
		}
		a.services = nil
	}
	if a.rateLimiter != nil {
		a.rateLimiter.Stop()
		a.rateLimiter = nil
	}
	if a.tracerProvider != nil {
		if err := a.tracerProvider.Shutdown(context.Background()); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
		a.tracerProvider = nil
	}
	if a.PracticeDB != nil {
		if err := a.PracticeDB.Close(); err != nil {
			logger.Log.Warn("Failed to close practice database", zap.Error(err))
		}
		a.PracticeDB = nil
	}
	if a.ProgressDB != nil {
		if err := database.Close(a.ProgressDB); err != nil {
			logger.Log.Warn("Failed to close progress database", zap.Error(err))
		}
		a.ProgressDB = nil
	}
}

func (a *App) Run() error {
	defer a.Close()

	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if a.Config.File != "" {
		go func() {
			if err := configwatcher.WatchConfig(ctx, a.Config.File, a.applyConfig); err != nil {
				logger.Log.Error("Config watcher stopped", zap.Error(err))
			}
		}()
	}

	// 启动服务器
	serveErr := make(chan error, 1)
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serveErr:
		return fmt.Errorf("listen: %w", err)
	case <-quit:
	}
	logger.Log.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Log.Info("Server exiting")
	return nil
}
