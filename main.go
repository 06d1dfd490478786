// @title SQL Practice 后端 API
// @version 1.0
// @description SQL 练习平台的后端服务器。
// @termsOfService http://swagger.io/terms/

// @contact.name API支持

// @host localhost:5000
// @BasePath /api

package main

import (
	"fmt"
	"os"
	"sql_practice_backend/internal/app"
	"sql_practice_backend/internal/config"
	"sql_practice_backend/pkg/database"
	"sql_practice_backend/pkg/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var configDir string

func main() {
	// .env 不存在时忽略
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:           "sqlpractice",
		Short:         "SQL practice backend server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "configs", "directory containing config.yaml")

	rootCmd.AddCommand(newServeCommand(), newSeedCommand(), newMigrateCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return nil, fmt.Errorf("config.LoadConfig() > %w", err)
	}
	return cfg, nil
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}
}

func serve() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	application, err := app.NewApp(cfg)
	if err != nil {
		return err
	}
	defer logger.Log.Sync()

	return application.Run()
}

func newSeedCommand() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the practice database with sample data",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger.InitLogger(cfg)
			defer logger.Log.Sync()

			return database.Seed(cfg.Practice.Path, force)
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "recreate the practice database if it already exists")
	return cmd
}

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Migrate the progress database and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger.InitLogger(cfg)
			defer logger.Log.Sync()

			// InitDB 打开时即完成迁移
			db, err := database.InitDB(&cfg.Progress, cfg.Server.Mode)
			if err != nil {
				return fmt.Errorf("database.InitDB() > %w", err)
			}
			return database.Close(db)
		},
	}
}
