// Command synth searches a rendezvous light-model's algorithm space and
// verifies survivors against an external model checker.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/xdefago/synth-light/internal/cache"
	"github.com/xdefago/synth-light/internal/config"
	"github.com/xdefago/synth-light/internal/logging"
	"github.com/xdefago/synth-light/internal/orchestrator"
	"github.com/xdefago/synth-light/internal/progress"
	"github.com/xdefago/synth-light/internal/report"
	"github.com/xdefago/synth-light/internal/telemetry"
)

var (
	configPath string

	lightClass  string
	numColors   int
	classL      bool
	scheduler   string
	rigidity    string
	retainRule  bool
	weakFilter  bool

	parallelism    int
	searchDepth    int
	timeoutSeconds int
	workspaceDir   string
	useTmpfs       bool
	cacheDir       string
	reportPath     string

	logLevel string
	logDir   string
	trace    bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("synth: %v", err)
	}
}

var rootCmd = &cobra.Command{
	Use:   "synth",
	Short: "Search and verify distributed rendezvous light-algorithms",
	Long: `synth enumerates the syntactic space of light-based rendezvous
algorithms for a given visibility class and color count, prunes it with
static filters and symmetry canonicalization, and hands every survivor to
an external model checker for liveness verification.`,
	RunE: runSearch,
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", "", "YAML config file (flags below override its values)")

	rootCmd.Flags().StringVar(&lightClass, "light-class", "", "visibility class: full, external, or internal")
	rootCmd.Flags().IntVar(&numColors, "colors", 0, "number of light colors K")
	rootCmd.Flags().BoolVar(&classL, "class-l", false, "restrict to position-oblivious (ClassL) algorithms")
	rootCmd.Flags().StringVar(&scheduler, "scheduler", "", "scheduler name passed through to the checker")
	rootCmd.Flags().StringVar(&rigidity, "rigidity", "", "movement rigidity passed through to the checker")
	rootCmd.Flags().BoolVar(&retainRule, "retain", false, "apply Viglietta's retain-rule filter")
	rootCmd.Flags().BoolVar(&weakFilter, "weak", false, "apply the weak coverage filter")

	rootCmd.Flags().IntVarP(&parallelism, "parallelism", "p", 0, "number of worker goroutines")
	rootCmd.Flags().IntVar(&searchDepth, "search-depth", 0, "model checker search-depth bound (-m)")
	rootCmd.Flags().IntVar(&timeoutSeconds, "verifier-timeout", 0, "per-algorithm verifier timeout, seconds")
	rootCmd.Flags().StringVar(&workspaceDir, "workspace-dir", "", "base directory for scratch verifier workspaces")
	rootCmd.Flags().BoolVar(&useTmpfs, "tmpfs", false, "back scratch workspaces with tmpfs when available")
	rootCmd.Flags().StringVar(&cacheDir, "cache-dir", "", "resumable result cache directory (empty disables caching)")
	rootCmd.Flags().StringVar(&reportPath, "report", "", "write the final report as JSON to this path")

	rootCmd.Flags().StringVar(&logLevel, "log-level", "info", "debug, info, warn, or error")
	rootCmd.Flags().StringVar(&logDir, "log-dir", "", "also write logs to this directory")
	rootCmd.Flags().BoolVar(&trace, "trace", false, "print one OpenTelemetry span per verifier invocation to stdout")
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	shutdown, err := telemetry.Init(ctx, "synth", trace)
	if err != nil {
		return err
	}
	defer shutdown(context.Background())

	params := config.DefaultModelParams()
	flags := config.DefaultRunFlags()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return fmt.Errorf("reading %s: %w", configPath, err)
		}
		file, err := config.Load(data)
		if err != nil {
			return err
		}
		params, flags = file.Model, file.Run
	}

	applyFlagOverrides(cmd, &params, &flags)

	if err := params.Validate(); err != nil {
		return err
	}
	if err := flags.Validate(); err != nil {
		return err
	}

	level, err := logging.ParseLevel(logLevel)
	if err != nil {
		return err
	}
	logger := logging.New(logging.Config{Level: level, LogDir: logDir, Service: "synth"})
	defer logger.Close()

	var store *cache.Store
	if cacheDir != "" {
		store, err = cache.Open(cacheDir)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	sink := progress.NewRateLimited(consoleSink{}, 2)

	opts := orchestrator.Options{ProgressSink: sink, Logger: logger}
	if store != nil {
		opts.Cache = store
	}

	rep, err := orchestrator.Run(ctx, params, flags, opts)
	if err != nil {
		return err
	}

	streamSink := report.NewStreamSink(os.Stdout, report.DefaultIsJSON())
	for _, entry := range rep.Entries {
		if entry.Verdict != report.VerdictGathers {
			continue
		}
		if err := streamSink.Append(entry); err != nil {
			return err
		}
	}

	fmt.Fprintf(os.Stderr, "synth: %d algorithms verified, %d gather\n", len(rep.Entries), len(rep.Survivors()))
	return nil
}

// applyFlagOverrides layers explicitly-set command-line flags over params
// and flags, which may already carry values loaded from a config file.
func applyFlagOverrides(cmd *cobra.Command, params *config.ModelParams, flags *config.RunFlags) {
	set := cmd.Flags().Changed

	if set("light-class") {
		params.LightClass = lightClass
	}
	if set("colors") {
		params.Colors = numColors
	}
	if set("class-l") {
		params.ClassL = classL
	}
	if set("scheduler") {
		params.Scheduler = scheduler
	}
	if set("rigidity") {
		params.Rigidity = rigidity
	}
	if set("retain") {
		params.Retain = retainRule
	}
	if set("weak") {
		params.Weak = weakFilter
	}

	if set("parallelism") {
		flags.Parallelism = parallelism
	}
	if set("search-depth") {
		flags.SearchDepth = searchDepth
	}
	if set("verifier-timeout") {
		flags.VerifierTimeoutS = timeoutSeconds
	}
	if set("workspace-dir") {
		flags.WorkspaceBaseDir = workspaceDir
	}
	if set("tmpfs") {
		flags.UseTmpfs = useTmpfs
	}
	if set("report") {
		flags.ReportPath = reportPath
	}
}

// consoleSink prints a one-line status update per verified algorithm,
// rate-limited by the caller so it doesn't flood the terminal.
type consoleSink struct{}

func (consoleSink) Report(_ context.Context, ev progress.Event) {
	fmt.Fprintf(os.Stderr, "\renumerated=%d filtered=%d verified=%d passed=%d last=%s(%s)",
		ev.EnumeratedCount, ev.SurvivedFilters, ev.VerifiedCount, ev.PassedCount, ev.LastCode, ev.LastOutcome)
}

func (consoleSink) Close() error { return nil }
