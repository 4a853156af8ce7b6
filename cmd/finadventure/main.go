package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"FinAdventure/internal/chart"
	"FinAdventure/internal/config"
	"FinAdventure/internal/notifier"
	"FinAdventure/internal/series"
)

var (
	cfgPath string
	verbose bool
	logFile string

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "finadventure",
	Short: "Upload financial time series and chart them",
	Long: `finadventure ingests tabular financial data (CSV or JSON), maps its
columns onto date/value/description, submits it to an ingestion endpoint,
and charts the stored series with range filters and zoom.

Run "finadventure serve" to start a local API that plays both endpoints.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(config.ResolvePath(cfgPath))
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("config validation: %w", err)
		}
		logger, err = buildLogger(cfg.Log.Level)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file (default $FINADV_CONFIG or "+config.DefaultPath+")")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to this file instead of stderr")

	rootCmd.AddCommand(previewCmd, uploadCmd, chartCmd, viewCmd, watchCmd, serveCmd, typesCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		if !errors.Is(err, errReported) {
			reportError(err, "", "")
		}
		os.Exit(1)
	}
}

func buildLogger(level string) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	zc.Level = lvl
	if verbose {
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	if logFile != "" {
		zc.OutputPaths = []string{logFile}
		zc.ErrorOutputPaths = []string{logFile}
	}
	l, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return l, nil
}

// reportError prints err as a notice on stderr.
func reportError(err error, symbol, dataType string) {
	if n, ok := notifier.FromError(err, symbol, dataType); ok {
		fmt.Fprintln(os.Stderr, notifier.FormatNotice(n))
	}
}

// errReported marks an error whose notice was already printed.
var errReported = errors.New("command failed")

// fail prints err as a notice and returns errReported so main only sets the
// exit status.
func fail(err error, symbol, dataType string) error {
	reportError(err, symbol, dataType)
	return errReported
}

func newFetcher() *series.HTTPFetcher {
	return series.NewHTTPFetcher(cfg.API.BaseURL, cfg.API.SeriesPath, cfg.API.DataTypesPath, cfg.API.Proxy, logger)
}

func newRenderer(format string) *chart.Renderer {
	if format == "" {
		format = cfg.Chart.Format
	}
	return chart.NewRenderer(cfg.Chart.Width, cfg.Chart.Height, chart.Format(format))
}
