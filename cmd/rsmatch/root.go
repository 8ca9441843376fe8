package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/oxhq/rsmatch/internal/completion"
	"github.com/oxhq/rsmatch/internal/config"
	"github.com/oxhq/rsmatch/internal/pattern"
	"github.com/oxhq/rsmatch/internal/tracestore"
	"github.com/oxhq/rsmatch/internal/tsrust"
)

const version = "0.3.0"

var (
	bold   = color.New(color.Bold).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
)

// app carries the state shared by every subcommand of one invocation.
type app struct {
	cfgFile  string
	logLevel string
	traceDSN string
	noColor  bool

	cfg      *config.Config
	logger   *zap.Logger
	cache    *tsrust.Cache
	parser   *tsrust.Parser
	recorder *tracestore.Recorder
}

// newRootCmd builds the command tree. The caller owns a and must call
// a.teardown once the command has run.
func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "rsmatch",
		Short:         "Structural pattern matching and completion for Rust sources",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "Configuration file (default "+config.DefaultFile+")")
	flags.StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flags.StringVar(&a.traceDSN, "trace", "", "Record faults to this sqlite path or libsql URL")
	flags.BoolVar(&a.noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(
		newCompleteCmd(a),
		newClassifyCmd(a),
		newScanCmd(a),
		newAnnotateCmd(a),
		newLintsCmd(a),
		newFaultsCmd(a),
	)

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%w\n%s", err, cmd.UsageString())
	})
	return rootCmd
}

func (a *app) setup() error {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	if a.traceDSN != "" {
		cfg.TraceDSN = a.traceDSN
	}
	a.cfg = cfg

	if a.noColor {
		color.NoColor = true
	}

	a.logger, err = newLogger(cfg.Level())
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	if cfg.TraceDSN != "" {
		a.recorder = tracestore.NewRecorder()
	}
	a.cache = tsrust.NewCache(cfg.CacheTTL)
	a.parser = tsrust.NewParser(a.cache)
	return nil
}

// teardown flushes recorded faults and releases the parser. It is safe to
// call when setup never ran.
func (a *app) teardown() error {
	defer func() {
		if a.parser != nil {
			a.parser.Close()
			a.parser = nil
		}
		if a.logger != nil {
			_ = a.logger.Sync()
		}
	}()
	if a.cache != nil && a.logger != nil {
		stats := a.cache.Stats()
		a.logger.Debug("parse cache",
			zap.Int64("hits", stats["hits"]),
			zap.Int64("misses", stats["misses"]),
			zap.Int64("evictions", stats["evictions"]))
	}
	if a.recorder == nil || len(a.recorder.Pending()) == 0 {
		return nil
	}

	db, err := tracestore.Connect(a.cfg.TraceDSN, a.cfg.TraceDebug)
	if err != nil {
		return fmt.Errorf("opening trace store: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	n, err := a.recorder.Flush(db)
	if err != nil {
		return err
	}
	a.logger.Debug("recorded faults",
		zap.Int("count", n),
		zap.String("session", a.recorder.Session()))
	return nil
}

func newLogger(level zapcore.Level) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.DisableStacktrace = true
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}

// matcher returns a matcher reporting to the trace recorder, if any.
func (a *app) matcher() *pattern.Matcher {
	opts := []pattern.Option{pattern.WithLogger(a.logger)}
	if a.recorder != nil {
		opts = append(opts, pattern.WithTracer(a.recorder))
	}
	return pattern.NewMatcher(opts...)
}

func (a *app) contributor() *completion.Contributor {
	opts := []completion.Option{
		completion.WithLogger(a.logger),
		completion.WithFeatures(a.cfg.Features...),
		completion.WithFiles(os.DirFS(a.cfg.Root)),
		completion.WithDisabled(a.cfg.DisabledProviders...),
	}
	if a.recorder != nil {
		opts = append(opts,
			completion.WithTracer(a.recorder),
			completion.WithFailureSink(a.recorder))
	}
	return completion.New(opts...)
}
