package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"fleetops/adapters/excel"
	"fleetops/adapters/postgres"
	"fleetops/domain/core"
	"fleetops/domain/firstmile"
	"fleetops/internal"
	"fleetops/internal/config"
	"fleetops/internal/container"
	"fleetops/internal/errors"
	"fleetops/internal/migration"
	"fleetops/internal/testkit"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const (
	parseFailedMessage  = "The file could not be read as a spreadsheet."
	commitFailedMessage = "Upload failed. Some tasks may already have been saved; check the task list before uploading again."
)

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "fleetops-cli",
		Short:         "fleetops CLI for first-mile task imports",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newImportCmd(),
		newTemplateCmd(),
		newSampleCmd(),
		newTasksCmd(),
	)
	return rootCmd
}

func newImportCmd() *cobra.Command {
	var dryRun bool
	var showAll bool

	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Parse a first-mile spreadsheet and save its valid rows",
		Long: `Parse an .xlsx or .csv file of first-mile tasks, print a review of the
rows, then save every valid row as a Pending task in chunks of up to 500.

Rows without a source hub or destination are reported and skipped.

Example: fleetops-cli import tasks.xlsx --dry-run`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), args[0], dryRun, showAll)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Parse and review only; save nothing")
	cmd.Flags().BoolVar(&showAll, "all", false, "List every row, not just invalid ones")
	return cmd
}

func newTemplateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "template [out.xlsx]",
		Short: "Write the first-mile import template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTemplate(cmd.OutOrStdout(), args[0])
		},
	}
}

func newSampleCmd() *cobra.Command {
	opts := testkit.DefaultTaskGeneratorConfig()

	cmd := &cobra.Command{
		Use:   "sample [out.xlsx]",
		Short: "Write a synthetic first-mile workbook for trying the import",
		Long: `Write a workbook of randomly generated first-mile tasks in the template
layout, with destinations spelled the loose ways operators type them.

Example: fleetops-cli sample tasks.xlsx --rows 1200 --invalid-rate 0.05 --seed 7`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSample(cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().IntVar(&opts.Rows, "rows", opts.Rows, "Number of data rows")
	cmd.Flags().Float64Var(&opts.InvalidRate, "invalid-rate", opts.InvalidRate, "Share of rows missing a hub or destination")
	cmd.Flags().IntVar(&opts.Days, "days", opts.Days, "Spread task dates over this many days")
	cmd.Flags().Int64Var(&opts.Seed, "seed", opts.Seed, "Random seed")
	return cmd
}

func newTasksCmd() *cobra.Command {
	var destination, sourceHub, status, from, to string
	var limit int

	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List saved first-mile tasks",
		Long: `List saved first-mile tasks ordered by date and time.

Example: fleetops-cli tasks --destination SOC-N --from 2026-02-01 --to 2026-02-28`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := buildTaskFilter(destination, sourceHub, status, from, to, limit)
			if err != nil {
				return err
			}
			return runTasks(cmd.Context(), cmd.OutOrStdout(), filter)
		},
	}

	cmd.Flags().StringVar(&destination, "destination", "", "Destination code, e.g. SOC-N")
	cmd.Flags().StringVar(&sourceHub, "source-hub", "", "Source hub")
	cmd.Flags().StringVar(&status, "status", "", "Task status, e.g. Pending")
	cmd.Flags().StringVar(&from, "from", "", "First task date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "Last task date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&limit, "limit", 200, "Maximum tasks to list")
	return cmd
}

func runImport(ctx context.Context, out, errOut io.Writer, path string, dryRun, showAll bool) error {
	appConfig, logger, err := loadConfig(!dryRun)
	if err != nil {
		return reportError(errOut, "Invalid configuration", err)
	}

	c, err := container.New(appConfig, logger)
	if err != nil {
		return reportError(errOut, "Failed to start", err)
	}
	defer c.Shutdown()

	parsed, err := c.ImportService.ParseFile(ctx, path)
	if err != nil {
		if errors.HasCode(err, errors.CodeParseFailed) {
			return reportError(errOut, parseFailedMessage, err)
		}
		return reportError(errOut, "Failed to read file", err)
	}

	printParseResult(out, parsed, showAll)

	if dryRun {
		fmt.Fprintln(out, mutedStyle.Render("Dry run: nothing was saved."))
		return nil
	}
	if parsed.Summary.Valid == 0 {
		fmt.Fprintln(out, warnStyle.Render("No valid rows to save."))
		return nil
	}

	db, err := openDatabase(ctx, appConfig)
	if err != nil {
		return reportError(errOut, "Failed to connect to database", err)
	}
	defer db.Close()

	if err := c.InitWithDatabase(db); err != nil {
		return reportError(errOut, "Failed to connect to database", err)
	}

	result, err := c.ImportService.Commit(ctx, parsed.Batch, func(percent float64) {
		fmt.Fprintf(out, "\rUploading... %3.0f%%", percent)
	})
	fmt.Fprintln(out)
	if err != nil {
		if result != nil {
			fmt.Fprintf(errOut, "%d tasks were saved before the failure.\n", result.TasksCommitted)
		}
		return reportError(errOut, commitFailedMessage, err)
	}

	printCommitResult(out, result)
	return nil
}

func runTemplate(out io.Writer, path string) error {
	if !strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return fmt.Errorf("template path must end in .xlsx")
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := excel.WriteTemplate(file); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	fmt.Fprintln(out, successStyle.Render("Template written to "+path))
	return nil
}

func runSample(out io.Writer, path string, opts testkit.TaskGeneratorConfig) error {
	if !strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return fmt.Errorf("sample path must end in .xlsx")
	}
	if opts.Rows <= 0 {
		return fmt.Errorf("--rows must be positive")
	}
	if opts.InvalidRate < 0 || opts.InvalidRate > 1 {
		return fmt.Errorf("--invalid-rate must be between 0 and 1")
	}

	sheet := testkit.NewTaskDataGenerator(opts).Generate()

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := testkit.WriteWorkbook(file, excel.TemplateSheet, sheet.Rows); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("Wrote %d rows (%d valid, %d invalid) to %s",
		opts.Rows, sheet.Valid, sheet.Invalid, path)))
	return nil
}

func runTasks(ctx context.Context, out io.Writer, filter firstmile.TaskFilter) error {
	appConfig, _, err := loadConfig(true)
	if err != nil {
		return err
	}

	db, err := openDatabase(ctx, appConfig)
	if err != nil {
		return err
	}
	defer db.Close()

	tasks, err := postgres.NewTaskRepository(db).List(ctx, filter)
	if err != nil {
		return err
	}

	printTasks(out, tasks)
	return nil
}

func buildTaskFilter(destination, sourceHub, status, from, to string, limit int) (firstmile.TaskFilter, error) {
	filter := firstmile.TaskFilter{
		Destination: destination,
		SourceHub:   sourceHub,
		Status:      firstmile.TaskStatus(status),
		Limit:       limit,
	}

	var err error
	if from != "" {
		if filter.From, err = core.ParseDate(from); err != nil {
			return filter, fmt.Errorf("invalid --from: %w", err)
		}
	}
	if to != "" {
		if filter.To, err = core.ParseDate(to); err != nil {
			return filter, fmt.Errorf("invalid --to: %w", err)
		}
	}
	if limit < 0 {
		return filter, fmt.Errorf("--limit must not be negative")
	}
	return filter, nil
}

// loadConfig reads configuration for one CLI run. Logging stays at WARN
// unless LOG_LEVEL asks for more, so command output is not interleaved
// with info lines.
func loadConfig(requireDatabase bool) (*config.Config, *internal.Logger, error) {
	appConfig, err := config.Load(requireDatabase)
	if err != nil {
		return nil, nil, err
	}

	level := internal.LogLevelWarn
	if os.Getenv("LOG_LEVEL") != "" {
		level = internal.ParseLogLevel(appConfig.LogLevel)
	}
	return appConfig, internal.NewLogger(level), nil
}

func openDatabase(ctx context.Context, appConfig *config.Config) (*sqlx.DB, error) {
	db, err := postgres.Connect(ctx, appConfig.Database)
	if err != nil {
		return nil, err
	}
	if err := migration.NewRunner().Run(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
