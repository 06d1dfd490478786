package config

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Practice  PracticeConfig  `mapstructure:"practice"`
	Progress  ProgressConfig  `mapstructure:"progress"`
	AI        AIConfig        `mapstructure:"ai"`
	Query     QueryConfig     `mapstructure:"query"`
	Log       LogConfig       `mapstructure:"log"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`

	// 配置文件路径（运行时，非配置项）
	File string `mapstructure:"-"`
}

type ServerConfig struct {
	Port string `mapstructure:"port" validate:"required,numeric"`
	Mode string `mapstructure:"mode" validate:"oneof=debug release test"`
}

// PracticeConfig 练习库（只读，供用户查询）
type PracticeConfig struct {
	Path     string `mapstructure:"path" validate:"required"`
	AutoSeed bool   `mapstructure:"auto_seed"`
}

// ProgressConfig 学习进度库
type ProgressConfig struct {
	Driver    string `mapstructure:"driver" validate:"oneof=sqlite mysql"`
	Path      string `mapstructure:"path" validate:"required_if=Driver sqlite"`
	Host      string `mapstructure:"host" validate:"required_if=Driver mysql"`
	Port      int    `mapstructure:"port"`
	User      string `mapstructure:"user"`
	Password  string `mapstructure:"password"`
	DBName    string `mapstructure:"dbname" validate:"required_if=Driver mysql"`
	Charset   string `mapstructure:"charset"`
	ParseTime bool   `mapstructure:"parse_time"`
}

type AIConfig struct {
	BaseURL    string        `mapstructure:"base_url" validate:"omitempty,url"`
	APIKey     string        `mapstructure:"api_key"`
	Model      string        `mapstructure:"model" validate:"required"`
	MaxRetries uint          `mapstructure:"max_retries" validate:"lte=10"`
	Timeout    time.Duration `mapstructure:"timeout" validate:"gt=0"`
}

// Enabled 未配置地址或密钥时使用内置兜底内容
func (c AIConfig) Enabled() bool {
	return c.BaseURL != "" && c.APIKey != ""
}

type QueryConfig struct {
	MaxRows int           `mapstructure:"max_rows" validate:"min=1"`
	Timeout time.Duration `mapstructure:"timeout" validate:"gt=0"`
}

type LogConfig struct {
	File  string `mapstructure:"file" validate:"required"`
	Level string `mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint" validate:"required_if=Enabled true"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests" validate:"min=1"`
	WindowMinutes int `mapstructure:"window_minutes" validate:"min=1"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "5000")
	v.SetDefault("server.mode", "debug")

	v.SetDefault("practice.path", "database/practice.db")
	v.SetDefault("practice.auto_seed", true)

	v.SetDefault("progress.driver", "sqlite")
	v.SetDefault("progress.path", "database/progress.db")
	v.SetDefault("progress.port", 3306)
	v.SetDefault("progress.charset", "utf8mb4")
	v.SetDefault("progress.parse_time", true)

	v.SetDefault("ai.base_url", "")
	v.SetDefault("ai.model", "gpt-4o-mini")
	v.SetDefault("ai.max_retries", 2)
	v.SetDefault("ai.timeout", "30s")

	v.SetDefault("query.max_rows", 1000)
	v.SetDefault("query.timeout", "5s")

	v.SetDefault("log.file", "logs/app.log")

	v.SetDefault("cors.allowed_origins", []string{"http://localhost:3000", "http://localhost:5173"})
	v.SetDefault("rate_limit.max_requests", 600)
	v.SetDefault("rate_limit.window_minutes", 1)
}

// LoadConfig 读取 path 目录下的 config.yaml，文件不存在时仅使用默认值与环境变量
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("SQL_PRACTICE")
	v.AutomaticEnv()

	setDefaults(v)

	// Server
	v.BindEnv("server.port", "SERVER_PORT")
	v.BindEnv("server.mode", "SERVER_MODE")

	// Database
	v.BindEnv("practice.path", "PRACTICE_DB_PATH")
	v.BindEnv("progress.driver", "PROGRESS_DB_DRIVER")
	v.BindEnv("progress.path", "PROGRESS_DB_PATH")
	v.BindEnv("progress.host", "DATABASE_HOST")
	v.BindEnv("progress.port", "DATABASE_PORT")
	v.BindEnv("progress.user", "DATABASE_USER")
	v.BindEnv("progress.password", "DATABASE_PASSWORD")
	v.BindEnv("progress.dbname", "DATABASE_NAME")

	// AI
	v.BindEnv("ai.base_url", "AI_BASE_URL")
	v.BindEnv("ai.api_key", "AI_API_KEY")
	v.BindEnv("ai.model", "AI_MODEL")

	// Tracing
	v.BindEnv("tracing.enabled", "TRACING_ENABLED")
	v.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.File = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
