package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sromeroi/exifdate-folder/internal/config"
	"github.com/sromeroi/exifdate-folder/internal/extractor"
	"github.com/sromeroi/exifdate-folder/internal/logger"
	"github.com/sromeroi/exifdate-folder/internal/renamer"
	"github.com/sromeroi/exifdate-folder/internal/scanner"
	"github.com/sromeroi/exifdate-folder/internal/statistics"
)

var (
	cfgFile   string
	verbose   bool
	quiet     bool
	assumeYes bool
	dryRun    bool
	version   string
	buildTime string
)

// exitCodeError carries a specific process exit status for main to apply.
type exitCodeError struct {
	code int
	err  error
}

func (e *exitCodeError) Error() string { return e.err.Error() }
func (e *exitCodeError) Unwrap() error { return e.err }

// rootCmd is the base command for the CLI.
var rootCmd = &cobra.Command{
	Use:   "exifdate <path>",
	Short: "Rename image files to their EXIF capture timestamp",
	Long: `Exifdate renames image files to a canonical YYYYMMDD_HHMMSS name derived
from embedded EXIF metadata. The argument is either a directory (processed
recursively) or a single image file.

When a RAW/ORF file matches the image's base name, it is renamed to the same
derived name so the pair stays together. Name collisions are resolved by
appending a numeric suffix.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRename(cmd, args[0], dryRun)
	},
}

// scanCmd runs the same pipeline without touching the filesystem.
var scanCmd = &cobra.Command{
	Use:   "scan <path>",
	Short: "Show what would be renamed without making changes",
	Long: `Scan the specified directory or file and print every rename the root
command would perform, without modifying anything. No confirmation is asked.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRename(cmd, args[0], true)
	},
}

// testExifCmd tests date extraction on a specific file.
var testExifCmd = &cobra.Command{
	Use:   "test-exif <file>",
	Short: "Test EXIF date extraction on a specific file",
	Long: `Runs date extraction on a single file and shows the extracted timestamp
and which tag supplied it. Useful for debugging extraction issues.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTestExif(args[0])
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable verbose logging")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "suppress non-error output")

	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "simulate renaming without making changes")
	rootCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "skip the confirmation prompt")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(testExifCmd)
}

// runRename executes the main rename pipeline for the given path.
func runRename(cmd *cobra.Command, path string, dry bool) error {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if dry {
		cfg.Security.DryRun = true
	}

	log := setupLogger(cfg)
	stats := statistics.NewStatistics()
	scan := scanner.NewScanner(cfg, log, stats)

	sp := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	sp.Prefix = "Scanning for image files "
	if !quiet {
		sp.Start()
	}
	candidates, err := scan.Resolve(path)
	sp.Stop()

	if err != nil {
		cmd.SilenceUsage = true
		if errors.Is(err, scanner.ErrNotAnImage) {
			return &exitCodeError{code: 2, err: err}
		}
		return err
	}

	if len(candidates) == 0 {
		fmt.Println("No images found.")
		return nil
	}

	if !quiet {
		fmt.Printf("Found %d image files.\n", len(candidates))
	}

	if !cfg.Security.DryRun && cfg.Security.ConfirmBeforeStart && !assumeYes {
		prompt := fmt.Sprintf("\nProcess '%s' and rename %d images? (y/n): ", path, len(candidates))
		if !confirm(prompt) {
			fmt.Println("Aborting...")
			return nil
		}
	}

	ren := renamer.NewRenamer(cfg, log, stats, buildExtractor(cfg, log))

	var bar *progressbar.ProgressBar
	if !quiet && len(candidates) > 1 {
		bar = progressbar.Default(int64(len(candidates)), "Processing images")
	}

	for _, cand := range candidates {
		res := ren.Process(cand)
		if bar != nil {
			bar.Add(1)
		}
		printResult(res, cfg.Security.DryRun)
	}

	stats.Finalize()

	if !quiet {
		fmt.Println("\n" + stats.Summary())
		if stats.ErrorCount() > 0 {
			fmt.Println("\n" + stats.ErrorSummary())
		}
	}

	return nil
}

// runTestExif tests date extraction for a given file.
func runTestExif(filePath string) error {
	if !fileExists(filePath) {
		return fmt.Errorf("file does not exist: %s", filePath)
	}

	fmt.Printf("Testing EXIF extraction for: %s\n", filePath)

	log := logrus.New()
	cfg := config.DefaultConfig()
	dateExtractor := buildExtractor(cfg, log)

	date, err := dateExtractor.ExtractDate(filePath)
	if err != nil {
		fmt.Printf("Error extracting date: %v\n", err)
		return nil
	}

	fmt.Printf("Extracted date: %s\n", date.Date.Format("2006-01-02 15:04:05"))
	fmt.Printf("Source tag: %s (raw value %q)\n", date.Source, date.Raw)
	fmt.Printf("Target name: %s\n", date.Date.Format(renamer.TargetLayout))
	return nil
}

// buildExtractor assembles the extractor chain according to configuration.
func buildExtractor(cfg *config.Config, log *logrus.Logger) extractor.DateExtractor {
	primary := extractor.NewEXIFExtractor(log, cfg.ImageExtensions)

	if cfg.Processing.UseExiftoolFallback {
		if _, err := exec.LookPath("exiftool"); err == nil {
			fallback := extractor.NewExiftoolExtractor(log, cfg.ImageExtensions)
			return extractor.NewChainExtractor(primary, fallback)
		}
		log.Warn("exiftool binary not found in PATH, fallback extractor disabled")
	}

	return primary
}

// printResult prints a colored per-file result line.
func printResult(res renamer.Result, dry bool) {
	if quiet {
		return
	}

	prefix := ""
	if dry {
		prefix = "DRY-RUN: "
	}

	switch res.Status {
	case renamer.StatusRenamed:
		color.Green("%sRENAMED: '%s' -> '%s'", prefix, res.Source, res.Target)
		if res.RawSource != "" && res.RawErr == nil {
			color.Green("%sRENAMED: '%s' -> '%s'", prefix, res.RawSource, res.RawTarget)
		}
		if res.RawErr != nil {
			color.Red("ERROR: renaming '%s' to '%s': %v", res.RawSource, res.RawTarget, res.RawErr)
		}
	case renamer.StatusSkipped:
		color.Yellow("%sSKIPPED: '%s' (already in the desired format)", prefix, res.Source)
	case renamer.StatusFailed:
		color.Red("ERROR: '%s': %v", res.Source, res.Err)
	}
}

// confirm asks the user for y/n confirmation, re-prompting until valid input.
func confirm(message string) bool {
	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print(message)
		input, err := reader.ReadString('\n')
		if err != nil {
			return false
		}
		switch strings.ToLower(strings.TrimSpace(input)) {
		case "y":
			return true
		case "n":
			return false
		}
	}
}

// setupLogger configures and returns a logger.
func setupLogger(cfg *config.Config) *logrus.Logger {
	loggerCfg := logger.LoggerConfig{
		Level:      cfg.Logging.Level,
		FilePath:   cfg.Logging.FilePath,
		MaxSize:    cfg.Logging.MaxSize,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAge:     cfg.Logging.MaxAge,
		Compress:   cfg.Logging.Compress,
		Console:    !quiet,
	}

	if verbose {
		loggerCfg.Level = "debug"
	}
	if quiet {
		loggerCfg.Level = "error"
	}

	log, err := logger.NewLogger(loggerCfg)
	if err != nil {
		log = logrus.New()
		log.SetLevel(logrus.InfoLevel)
	}

	return log
}

// fileExists returns true if the given path exists and is a file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		var ece *exitCodeError
		if errors.As(err, &ece) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(ece.code)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
