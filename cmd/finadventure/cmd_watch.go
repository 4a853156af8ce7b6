package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"FinAdventure/internal/notifier"
	"FinAdventure/internal/scheduler"
	"FinAdventure/internal/series"
	"FinAdventure/internal/viewer"
)

var watchCron string

var watchCmd = &cobra.Command{
	Use:   "watch <symbol>",
	Short: "Re-fetch a series on a cron schedule and keep its chart image fresh",
	Long: `Fetches the series once, then again on every cron tick (six fields,
seconds first), re-rendering the chart image and printing a summary.
Stops on Ctrl+C.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&chartDataType, "data-type", "t", "", "data type (default from config)")
	watchCmd.Flags().StringVarP(&chartRange, "range", "r", string(viewer.WindowAll), "range filter: 1m, 3m, 6m, 1y or all")
	watchCmd.Flags().StringVarP(&chartOutput, "output", "o", "", "chart image path (default from config)")
	watchCmd.Flags().StringVar(&chartFormat, "format", "", "image format, png or svg (default from config)")
	watchCmd.Flags().StringVar(&watchCron, "cron", "", "refresh schedule (default from config)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	window, err := viewer.ParseWindow(chartRange)
	if err != nil {
		return fail(err, "", "")
	}
	spec := watchCron
	if spec == "" {
		spec = cfg.Watch.Cron
	}

	ctx := cmd.Context()
	renderer := newRenderer(chartFormat)
	session := viewer.NewSession(renderer, viewer.WithLogger(logger))
	defer session.Close()

	sched := scheduler.NewScheduler(ctx, series.NewStore(newFetcher(), logger), session, renderer, notifier.NewWriterNotifier(os.Stdout), logger)
	sched.Query = chartQuery(args[0])
	sched.Window = window
	sched.Output = outputPath()
	if err := sched.RegisterRefresh(spec); err != nil {
		return err
	}

	sched.RunNow()
	sched.Start()
	logger.Info("watching series",
		zap.String("symbol", sched.Query.Symbol),
		zap.String("data_type", sched.Query.DataType),
		zap.String("cron", spec),
	)

	<-ctx.Done()
	logger.Info("shutdown signal received, stopping")
	sched.Stop()
	return nil
}
