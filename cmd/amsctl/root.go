package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ams/backend/internal/infrastructure/cache"
	"github.com/ams/backend/internal/infrastructure/config"
	"github.com/ams/backend/internal/infrastructure/logger"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	logLevel   string
	jsonOutput bool

	cfg *config.Config
	log *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:          "amsctl",
	Short:        "Operate the archival management backend",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		var err error
		log, err = logger.New(&logger.Config{
			Level:   logLevel,
			Format:  "console",
			Output:  "stderr",
			Service: "amsctl",
		})
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(*cobra.Command, []string) {
		if log != nil {
			_ = logger.Sync(log)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print results as JSON")
}

// printResult writes v as indented JSON or through the text formatter
func printResult(cmd *cobra.Command, v any, text func()) error {
	if !jsonOutput {
		text()
		return nil
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

// connectRedis returns nil when Redis cannot be reached
func connectRedis(ctx context.Context) redis.UniversalClient {
	client, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		log.Warn("Redis unavailable", zap.Error(err))
		return nil
	}
	return client
}
