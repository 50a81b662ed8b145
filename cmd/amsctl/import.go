package main

import (
	"errors"
	"fmt"
	"os"
	"unicode/utf8"

	findingaidsapp "github.com/ams/backend/internal/application/findingaids"
	"github.com/ams/backend/internal/infrastructure/logger"
	"github.com/ams/backend/internal/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	importDryRun    bool
	importDelimiter string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Bulk-load descriptions from spreadsheet exports",
}

var importFolderListCmd = &cobra.Command{
	Use:   "folder-list <container-id> <file.csv>",
	Short: "Create folder and item descriptions for one container",
	Long: `Create folder and item descriptions for one container from a CSV
folder list. The whole file is validated first; if any row is invalid the
row errors are printed and nothing is saved. Published rows reach the
public catalog once the server's outbox processor picks up their events.`,
	Example: `  amsctl import folder-list 6f1c0b9e-0d7c-4d59-9b1e-2a4cb1f0e8d3 box14.csv --dry-run
  amsctl import folder-list 6f1c0b9e-0d7c-4d59-9b1e-2a4cb1f0e8d3 box14.csv --delimiter ';'`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		containerID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid container id %q", args[0])
		}
		delimiter, err := parseDelimiter(importDelimiter)
		if err != nil {
			return err
		}
		f, err := os.Open(args[1])
		if err != nil {
			return err
		}
		defer f.Close()

		gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(logLevel))
		db, err := persistence.NewDatabase(&cfg.Database, persistence.WithGormLogger(gormLog))
		if err != nil {
			return err
		}
		defer db.Close()

		svc := findingaidsapp.NewImportService(
			persistence.NewGormFindingAidsRepository(db.DB),
			persistence.NewGormContainerRepository(db.DB),
			log,
		)
		res, importErr := svc.ImportFolderList(cmd.Context(), findingaidsapp.ImportFolderListRequest{
			ContainerID: containerID,
			DryRun:      importDryRun,
			Delimiter:   delimiter,
		}, f)
		if res != nil {
			if err := printResult(cmd, res, func() { printImportResult(cmd, res) }); err != nil {
				return err
			}
		}
		if importErr != nil {
			return importErr
		}
		if len(res.Errors) > 0 {
			return errors.New("folder list rejected, nothing was saved")
		}
		return nil
	},
}

func printImportResult(cmd *cobra.Command, res *findingaidsapp.ImportResult) {
	out := cmd.OutOrStdout()
	for _, e := range res.Errors {
		fmt.Fprintf(out, "row %d  %-16s %-20s %s\n", e.Row, e.Column, e.Code, e.Message)
	}
	if res.Truncated {
		fmt.Fprintf(out, "... %d errors in total\n", res.TotalErrors)
	}
	switch {
	case len(res.Errors) > 0:
		fmt.Fprintf(out, "%d rows read, %d invalid\n", res.TotalRows, res.TotalErrors)
	case res.DryRun:
		fmt.Fprintf(out, "%d rows valid (dry run)\n", res.TotalRows)
	default:
		fmt.Fprintf(out, "%d of %d rows created\n", res.Created, res.TotalRows)
	}
}

func parseDelimiter(s string) (rune, error) {
	if s == "" {
		return 0, nil
	}
	if s == `\t` {
		return '\t', nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("delimiter must be a single character, got %q", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}

func init() {
	importFolderListCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "validate and preview without saving")
	importFolderListCmd.Flags().StringVar(&importDelimiter, "delimiter", "", `field separator (default ","; use \t for tabs)`)
	importCmd.AddCommand(importFolderListCmd)
	rootCmd.AddCommand(importCmd)
}
