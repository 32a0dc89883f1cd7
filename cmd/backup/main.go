// Command backup exports and restores the kinship document store.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v3"

	"kinship/internal/config"
	"kinship/internal/database"
	"kinship/internal/docstore"
	"kinship/internal/logging"
	"kinship/internal/service"
)

func main() {
	app := &cli.Command{
		Name:  "backup",
		Usage: "Export and import the kinship document store",
		Commands: []*cli.Command{
			exportCommand(),
			importCommand(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Write every collection to a JSON file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "output file path (default: backup_YYYYMMDD_HHMMSS.json)",
			},
		},
		Action: runExport,
	}
}

func importCommand() *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Restore collections from a JSON file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "input",
				Aliases:  []string{"i"},
				Usage:    "input file path",
				Required: true,
			},
			&cli.BoolFlag{
				Name:  "clear",
				Usage: "clear existing data before import (WARNING: destructive)",
			},
		},
		Action: runImport,
	}
}

// openBackupService opens the configured database and runs migrations
func openBackupService(ctx context.Context) (*service.BackupService, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.New(cfg.LogLevel, cfg.Debug)
	if err != nil {
		return nil, nil, err
	}

	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	if err := db.RunMigrations(ctx, logger); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	cleanup := func() {
		db.Close()
		_ = logger.Sync()
	}
	return service.NewBackupService(docstore.NewSQLStore(db), logger), cleanup, nil
}

func runExport(ctx context.Context, cmd *cli.Command) error {
	outputPath := cmd.String("output")
	if outputPath == "" {
		outputPath = fmt.Sprintf("backup_%s.json", time.Now().Format("20060102_150405"))
	}

	if dir := filepath.Dir(outputPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	backupService, cleanup, err := openBackupService(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	stats, err := backupService.Export(ctx, outputPath)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	fmt.Printf("Export complete: %s\n", outputPath)
	printStats(stats)
	return nil
}

func runImport(ctx context.Context, cmd *cli.Command) error {
	inputPath := cmd.String("input")
	if _, err := os.Stat(inputPath); err != nil {
		return fmt.Errorf("input file not found: %s", inputPath)
	}

	backupService, cleanup, err := openBackupService(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	clear := cmd.Bool("clear")
	if clear {
		fmt.Println("WARNING: existing data will be cleared before import")
	}

	stats, err := backupService.Import(ctx, inputPath, clear)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	fmt.Println("Import complete")
	printStats(stats)
	return nil
}

func printStats(stats service.BackupStats) {
	for collection, n := range stats {
		fmt.Printf("  %-20s %d documents\n", collection, n)
	}
}
