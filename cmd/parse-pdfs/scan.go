package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/artnoricojr/parse-pdfs/internal/aggregate"
	"github.com/artnoricojr/parse-pdfs/internal/config"
	"github.com/artnoricojr/parse-pdfs/internal/extract"
	"github.com/artnoricojr/parse-pdfs/internal/home"
	"github.com/artnoricojr/parse-pdfs/internal/journal"
	"github.com/artnoricojr/parse-pdfs/internal/pipeline"
	"github.com/artnoricojr/parse-pdfs/internal/scanner"
	"github.com/artnoricojr/parse-pdfs/internal/search"
	"github.com/artnoricojr/parse-pdfs/internal/terms"
)

var (
	scanTermsPath  string
	scanOutputDir  string
	scanExtensions []string
	scanRecursive  bool
	scanBefore     int
	scanAfter      int
	scanSummary    bool
	scanCSV        bool
	scanVerbose    bool
)

var scanCmd = &cobra.Command{
	Use:   "scan <directory>",
	Short: "Scan a directory of documents for pattern matches",
	Long: `Scan a directory for document files, extract text page by page, and
search every page against the loaded term list.

Results are written to the output directory as results_<timestamp>.json.
With --summary a summary_<timestamp>.json is written alongside; with
--csv the flat match listing is also exported as CSV.

Examples:
  parse-pdfs scan ./pdfs -t terms.json
  parse-pdfs scan ./docs -t terms.csv -r --before 50 --after 50
  parse-pdfs scan ./files -t patterns.json -e .pdf -e .txt -S -o ./results`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := home.New(homeDir)
		if err != nil {
			return err
		}
		if err := h.EnsureExists(); err != nil {
			return err
		}

		// The journal is constructed before anything else that can fail,
		// so config and setup errors land in the exception log too.
		j, err := journal.New(h.LogsPath(), nil)
		if err != nil {
			return err
		}

		err = runScan(cmd, args[0], h, j)
		if err != nil && cmd.Context().Err() == nil {
			j.Record("fatal error in scan", err)
		}
		return err
	},
}

// applyScanDefaults fills unset flags from config. Flags the user set on
// the command line always win.
func applyScanDefaults(cmd *cobra.Command, cfg *config.Config, h *home.Dir) {
	flags := cmd.Flags()

	if !flags.Changed("extensions") && len(cfg.Scan.Extensions) > 0 {
		scanExtensions = cfg.Scan.Extensions
	}
	if !flags.Changed("recursive") {
		scanRecursive = cfg.Scan.Recursive
	}
	if !flags.Changed("before") {
		scanBefore = cfg.Scan.ContextBefore
	}
	if !flags.Changed("after") {
		scanAfter = cfg.Scan.ContextAfter
	}
	if !flags.Changed("summary") {
		scanSummary = cfg.Output.Summary
	}
	if !flags.Changed("csv") {
		scanCSV = cfg.Output.CSV
	}
	if !flags.Changed("output") {
		if cfg.Output.Dir != "" {
			scanOutputDir = cfg.Output.Dir
		} else {
			scanOutputDir = h.ResultsPath()
		}
	}
}

// logLevel resolves the console log level from config and --verbose.
func logLevel(cfg *config.Config, verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Logging.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func runScan(cmd *cobra.Command, scanDir string, h *home.Dir, j *journal.Journal) error {
	ctx := cmd.Context()
	startTime := time.Now()

	cm, err := config.NewManager(cfgFile, h.Path())
	if err != nil {
		return err
	}
	cfg := cm.Get()
	applyScanDefaults(cmd, cfg, h)

	if scanBefore < 0 || scanAfter < 0 {
		return fmt.Errorf("context sizes must be non-negative")
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg, scanVerbose),
	}))
	j.SetLogger(logger)

	logger.Info("loading term list", "path", scanTermsPath)
	set, err := terms.Load(scanTermsPath)
	if err != nil {
		return err
	}
	if set.Len() == 0 {
		return fmt.Errorf("no search terms loaded from %s", scanTermsPath)
	}
	logger.Info("loaded search terms", "count", set.Len())

	searcher := search.NewSearcher(set, scanBefore, scanAfter, logger)

	registry := extract.NewRegistry()
	registry.Register(".pdf", &extract.PDF{
		Binary:  cfg.Extract.PdftotextBin,
		Workers: cfg.Extract.Workers,
		Logger:  logger,
	})
	registry.Register(".txt", extract.Text{})
	registry.Register(".text", extract.Text{})

	logger.Info("scanning directory", "path", scanDir)
	files, err := scanner.Scan(scanDir, scanExtensions, scanRecursive)
	if err != nil {
		return err
	}
	logger.Info("found files to process", "count", len(files))

	agg := aggregate.New(scanBefore, scanAfter)
	runner := &pipeline.Runner{
		Searcher:   searcher,
		Extractors: registry,
		Aggregator: agg,
		Journal:    j,
		Logger:     logger,
	}
	if err := runner.Run(ctx, files); err != nil {
		return err
	}

	if err := os.MkdirAll(scanOutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	stamp := startTime.Format("20060102_150405")

	resultsFile := filepath.Join(scanOutputDir, fmt.Sprintf("results_%s.json", stamp))
	if err := agg.SaveResults(resultsFile); err != nil {
		return err
	}
	logger.Info("results saved", "path", resultsFile)

	endTime := time.Now()
	elapsed := endTime.Sub(startTime).Seconds()

	if scanSummary {
		summaryFile := filepath.Join(scanOutputDir, fmt.Sprintf("summary_%s.json", stamp))
		if err := agg.SaveSummary(summaryFile, startTime, endTime, elapsed, len(files), set); err != nil {
			return err
		}
		logger.Info("summary report saved", "path", summaryFile)
	}

	if scanCSV {
		csvFile := filepath.Join(scanOutputDir, fmt.Sprintf("results_%s.csv", stamp))
		if err := agg.ExportCSV(csvFile); err != nil {
			return err
		}
		if agg.TotalMatches() > 0 {
			logger.Info("CSV export saved", "path", csvFile)
		}
	}

	logger.Info("processing complete",
		"run_id", agg.RunID(),
		"files_scanned", len(files),
		"total_matches", agg.TotalMatches(),
		"elapsed_seconds", fmt.Sprintf("%.2f", elapsed),
	)
	return nil
}

func init() {
	scanCmd.Flags().StringVarP(&scanTermsPath, "terms", "t", "", "term list file (.json, .yaml, or .csv)")
	scanCmd.Flags().StringVarP(&scanOutputDir, "output", "o", "", "output directory for results (default: home results dir)")
	scanCmd.Flags().StringSliceVarP(&scanExtensions, "extensions", "e", []string{".pdf"}, "file extensions to process")
	scanCmd.Flags().BoolVarP(&scanRecursive, "recursive", "r", false, "scan subdirectories recursively")
	scanCmd.Flags().IntVar(&scanBefore, "before", 50, "characters of context before each match")
	scanCmd.Flags().IntVar(&scanAfter, "after", 50, "characters of context after each match")
	scanCmd.Flags().BoolVarP(&scanSummary, "summary", "S", false, "write a job summary report")
	scanCmd.Flags().BoolVar(&scanCSV, "csv", false, "also export results as CSV")
	scanCmd.Flags().BoolVarP(&scanVerbose, "verbose", "v", false, "enable debug logging")

	_ = scanCmd.MarkFlagRequired("terms")
}
