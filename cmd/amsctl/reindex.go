package main

import (
	"fmt"

	"github.com/ams/backend/internal/application/indexing"
	"github.com/ams/backend/internal/infrastructure/catalogindex"
	"github.com/ams/backend/internal/infrastructure/logger"
	"github.com/ams/backend/internal/infrastructure/persistence"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var reindexCmd = &cobra.Command{
	Use:   "reindex [type...]",
	Short: "Rebuild the public catalog from the database",
	Long: `Rebuild the public catalog from the database.

Types are isaar, archival_unit and finding_aids; without arguments every
type is rebuilt. Documents whose record was deleted or is no longer public
are removed.`,
	Example: `  amsctl reindex
  amsctl reindex finding_aids
  amsctl reindex isaar,archival_unit --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(logLevel))
		db, err := persistence.NewDatabase(&cfg.Database, persistence.WithGormLogger(gormLog))
		if err != nil {
			return err
		}
		defer db.Close()

		redisClient := connectRedis(ctx)
		if redisClient != nil {
			defer redisClient.Close()
		}
		index, err := catalogindex.New(cfg.Catalog, redisClient, log)
		if err != nil {
			return err
		}
		defer index.Close()

		builders := indexing.DefaultBuilders(indexing.Sources{
			Isaar:           persistence.NewGormIsaarRepository(db.DB),
			Units:           persistence.NewGormArchivalUnitRepository(db.DB),
			Containers:      persistence.NewGormContainerRepository(db.DB),
			FindingAids:     persistence.NewGormFindingAidsRepository(db.DB),
			DigitalVersions: persistence.NewGormDigitalVersionRepository(db.DB),
		})
		svc := indexing.NewReindexService(builders, index, cfg.Catalog.ReindexPageSize, log)

		resp, err := svc.Run(ctx, indexing.ReindexRequest{Types: args})
		if err != nil {
			return err
		}
		log.Info("Catalog rebuilt", zap.Duration("elapsed", resp.Elapsed))
		return printResult(cmd, resp, func() {
			for _, r := range resp.Reports {
				fmt.Fprintf(cmd.OutOrStdout(), "%-14s indexed=%d skipped=%d removed=%d (%s)\n",
					r.Type, r.Indexed, r.Skipped, r.Removed, r.Duration)
			}
		})
	},
}

func init() {
	rootCmd.AddCommand(reindexCmd)
}
