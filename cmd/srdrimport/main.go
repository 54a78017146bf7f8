package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	srdr "github.com/jensjap/SRDR-ImportProject2"
	"github.com/jensjap/SRDR-ImportProject2/catalog"
	"github.com/jensjap/SRDR-ImportProject2/config"
	"github.com/jensjap/SRDR-ImportProject2/format"
	"github.com/jensjap/SRDR-ImportProject2/store"
)

var version = "0.1.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "srdrimport",
		Short: "Import exported study reports into SRDR",
		Long: `srdrimport reads HTML study reports exported from the data-entry form
and writes each one as a study graph: publication, key questions, design
details, arms, outcomes and the results tables.

Each report is imported in its own transaction. A report that fails is
rolled back, logged to the fatal log, and the run moves on.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	f := root.PersistentFlags()
	f.String("config", "", "Run configuration file (YAML)")
	f.String("catalog", "", "Field catalog file (YAML); built-in ids when empty")
	f.Int64("project-id", config.DefaultProjectID, "Project that new studies belong to")
	f.Int64("creator-id", config.DefaultCreatorID, "User recorded as the study creator")
	f.String("db-driver", config.DefaultDriver, "Database driver (sqlite, mysql, postgres)")
	f.String("db-dsn", config.DefaultDSN, "Database connection string")
	f.String("fatal-log", config.DefaultFatalLog, "File receiving one line per failed report")
	f.String("matching-log", config.DefaultMatchingLog, "File receiving unmatched outcome titles")
	f.String("log-level", config.DefaultLogLevel, "Log level (debug, info, warn, error)")

	root.AddCommand(importCmd())
	root.AddCommand(analyzeCmd())
	root.AddCommand(migrateCmd())
	return root
}

// settings loads the config file and applies any flags the user set.
func settings(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("catalog") {
		cfg.Catalog, _ = flags.GetString("catalog")
	}
	if flags.Changed("project-id") {
		cfg.ProjectID, _ = flags.GetInt64("project-id")
	}
	if flags.Changed("creator-id") {
		cfg.CreatorID, _ = flags.GetInt64("creator-id")
	}
	if flags.Changed("db-driver") {
		cfg.DB.Driver, _ = flags.GetString("db-driver")
	}
	if flags.Changed("db-dsn") {
		cfg.DB.DSN, _ = flags.GetString("db-dsn")
	}
	if flags.Changed("fatal-log") {
		cfg.FatalLog, _ = flags.GetString("fatal-log")
	}
	if flags.Changed("matching-log") {
		cfg.MatchingLog, _ = flags.GetString("matching-log")
	}
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	return cfg, cfg.Validate()
}

// newLogger builds a production logger at the configured level.
func newLogger(cfg config.Config) (*zap.Logger, error) {
	lvl, err := cfg.Level()
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	logger, err := zc.Build()
	if err != nil {
		return nil, eris.Wrap(err, "building logger")
	}
	return logger, nil
}

// importer returns the base Importer for a run.
func importer(cfg config.Config, logger *zap.Logger) (*srdr.Importer, error) {
	cat := catalog.Default()
	if cfg.Catalog != "" {
		var err error
		if cat, err = catalog.Load(cfg.Catalog); err != nil {
			return nil, err
		}
	}
	return srdr.Open("").
		ProjectID(cfg.ProjectID).
		CreatorID(cfg.CreatorID).
		Catalog(cat).
		FatalLog(cfg.FatalLog).
		MatchingLog(cfg.MatchingLog).
		Logger(logger), nil
}

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import FILE|DIR...",
		Short: "Import reports into the database",
		Long: `Import one or more HTML reports. A directory contributes the HTML files
directly inside it, in name order.

Example:
  srdrimport import reports/
  srdrimport import --db-driver mysql --db-dsn 'user:pass@tcp(localhost:3306)/srdr' a.html b.html
  srdrimport import --dry-run reports/`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dryRun, _ := cmd.Flags().GetBool("dry-run")

			cfg, err := settings(cmd)
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			files, err := format.Inputs(args)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				return eris.New("no HTML reports found")
			}

			base, err := importer(cfg, logger)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			var st store.Store
			if dryRun {
				st = store.NewMemory()
			} else {
				sqlStore, err := store.OpenSQL(ctx, cfg.DB.Driver, cfg.DB.DSN)
				if err != nil {
					return err
				}
				st = sqlStore
			}
			defer st.Close()

			report := base.Batch(ctx, st, files)
			printReport(cmd.OutOrStdout(), report, dryRun)
			if report.Failed() {
				return eris.Errorf("%d of %d reports failed; see %s", len(report.Failures), len(files), cfg.FatalLog)
			}
			return nil
		},
	}

	cmd.Flags().Bool("dry-run", false, "Import into memory only; nothing is persisted")
	return cmd
}

func printReport(w io.Writer, report *srdr.Report, dryRun bool) {
	for _, r := range report.Results {
		fmt.Fprintf(w, "%s: study %d (%s), %d arms, %d outcomes, %d data entries\n",
			r.File, r.StudyID, r.Identifier, r.Arms, r.Outcomes, r.Tables.Entries)
	}
	for _, f := range report.Failures {
		fmt.Fprintf(w, "FAILED %v\n", f)
	}
	suffix := ""
	if dryRun {
		suffix = " (dry run, nothing persisted)"
	}
	fmt.Fprintf(w, "\n%d imported, %d failed%s\n", len(report.Results), len(report.Failures), suffix)
}

func analyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze FILE|DIR...",
		Short: "Show how reports would be imported without writing anything",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := format.Inputs(args)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			failed := 0
			for _, f := range files {
				a, err := srdr.Open(f).Analyze()
				if err != nil {
					fmt.Fprintf(w, "FAILED %v\n", err)
					failed++
					continue
				}
				printAnalysis(w, a)
				if !a.Importable() {
					failed++
				}
			}
			if failed > 0 {
				return eris.Errorf("%d of %d reports cannot be imported", failed, len(files))
			}
			return nil
		},
	}
}

func printAnalysis(w io.Writer, a *srdr.Analysis) {
	fmt.Fprintf(w, "%s\n", a.File)
	if a.Title != "" {
		fmt.Fprintf(w, "  title:      %s\n", a.Title)
	}
	if a.Importable() {
		fmt.Fprintf(w, "  identifier: %s\n", a.Identifier)
	} else {
		fmt.Fprintf(w, "  identifier: MISSING\n")
	}

	fmt.Fprintln(w, "  regions:")
	for _, r := range a.Regions {
		if r.Found {
			fmt.Fprintf(w, "    %-24s %d rows\n", r.Name, r.Rows)
		} else {
			fmt.Fprintf(w, "    %-24s not found\n", r.Name)
		}
	}
	fmt.Fprintln(w, "  results tables:")
	for _, b := range a.Buckets {
		if b.Tables > 0 {
			fmt.Fprintf(w, "    %-32s %d tables, %d rows\n", b.Bucket, b.Tables, b.Rows)
		}
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create any missing database tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := settings(cmd)
			if err != nil {
				return err
			}
			// OpenSQL migrates on connect.
			st, err := store.OpenSQL(cmd.Context(), cfg.DB.Driver, cfg.DB.DSN)
			if err != nil {
				return err
			}
			defer st.Close()
			fmt.Fprintf(cmd.OutOrStdout(), "%s schema is up to date\n", cfg.DB.Driver)
			return nil
		},
	}
}
