package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"FinAdventure/internal/insight"
	"FinAdventure/internal/notifier"
	"FinAdventure/internal/series"
	"FinAdventure/internal/tui"
	"FinAdventure/internal/uploader"
	"FinAdventure/internal/viewer"
)

var (
	chartDataType string
	chartRange    string
	chartOutput   string
	chartFormat   string
	chartStart    string
	chartEnd      string
	chartLimit    int
	zoomIn        int
	zoomOut       int
)

var chartCmd = &cobra.Command{
	Use:   "chart <symbol>",
	Short: "Fetch a series and render it to an image",
	Long: `Fetches the series for a symbol, applies the range filter and zoom
steps, writes the chart image and prints statistics for the visible range.

Example:
  finadventure chart AAPL --range 6m --zoom-in 2 --output aapl.png`,
	Args: cobra.ExactArgs(1),
	RunE: runChart,
}

var viewCmd = &cobra.Command{
	Use:   "view <symbol>",
	Short: "Interactive terminal chart viewer",
	Long: `Opens an interactive viewer for a symbol's series.

Keys: +/- zoom, r reset, 1-5 range (1m 3m 6m 1y all), f refetch,
s save the chart image, q quit.`,
	Args: cobra.ExactArgs(1),
	RunE: runView,
}

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "List the data types the series endpoint knows about",
	Args:  cobra.NoArgs,
	RunE:  runTypes,
}

func init() {
	for _, c := range []*cobra.Command{chartCmd, viewCmd} {
		c.Flags().StringVarP(&chartDataType, "data-type", "t", "", "data type (default from config)")
		c.Flags().StringVarP(&chartOutput, "output", "o", "", "chart image path (default from config)")
		c.Flags().StringVar(&chartFormat, "format", "", "image format, png or svg (default from config)")
		c.Flags().StringVar(&chartStart, "start-date", "", "only fetch points on or after YYYY-MM-DD")
		c.Flags().StringVar(&chartEnd, "end-date", "", "only fetch points on or before YYYY-MM-DD")
		c.Flags().IntVar(&chartLimit, "limit", 0, "maximum points to fetch (0 lets the server decide)")
	}
	chartCmd.Flags().StringVarP(&chartRange, "range", "r", string(viewer.WindowAll), "range filter: 1m, 3m, 6m, 1y or all")
	chartCmd.Flags().IntVar(&zoomIn, "zoom-in", 0, "zoom-in steps applied after the range filter")
	chartCmd.Flags().IntVar(&zoomOut, "zoom-out", 0, "zoom-out steps applied after zooming in")
}

func chartQuery(symbol string) series.Query {
	dataType := chartDataType
	if dataType == "" {
		dataType = cfg.Upload.DefaultCategory
	}
	return series.Query{
		Symbol:    uploader.NormalizeSymbol(symbol),
		DataType:  dataType,
		StartDate: chartStart,
		EndDate:   chartEnd,
		Limit:     chartLimit,
	}
}

func outputPath() string {
	if chartOutput != "" {
		return chartOutput
	}
	if chartFormat != "" && chartFormat != cfg.Chart.Format {
		return strings.TrimSuffix(cfg.Chart.Output, "."+cfg.Chart.Format) + "." + chartFormat
	}
	return cfg.Chart.Output
}

func runChart(cmd *cobra.Command, args []string) error {
	window, err := viewer.ParseWindow(chartRange)
	if err != nil {
		return fail(err, "", "")
	}
	q := chartQuery(args[0])
	renderer := newRenderer(chartFormat)
	session := viewer.NewSession(renderer, viewer.WithLogger(logger))
	defer session.Close()
	store := series.NewStore(newFetcher(), logger)

	viewer.Handle(session, viewer.Event{Kind: viewer.EventLoadStarted, Symbol: q.Symbol, DataType: q.DataType})
	ts, err := store.Fetch(cmd.Context(), q)
	v := viewer.Handle(session, viewer.Event{Kind: viewer.EventLoaded, Series: ts, Err: err})
	if v.Status != viewer.StatusReady {
		fmt.Fprintln(cmd.OutOrStdout(), notifier.FormatViewState(v))
		if v.Status == viewer.StatusError {
			return errReported
		}
		return nil
	}

	v = viewer.Handle(session, viewer.Event{Kind: viewer.EventRange, Window: window})
	for i := 0; i < zoomIn; i++ {
		v = viewer.Handle(session, viewer.Event{Kind: viewer.EventZoomIn})
	}
	for i := 0; i < zoomOut; i++ {
		v = viewer.Handle(session, viewer.Event{Kind: viewer.EventZoomOut})
	}
	fmt.Fprintln(cmd.OutOrStdout(), notifier.FormatViewState(v))

	dates, values := session.Visible()
	if in, err := insight.Build(q.Symbol, q.DataType, dates, values); err == nil {
		fmt.Fprintln(cmd.OutOrStdout(), notifier.FormatInsight(in))
	}

	out := outputPath()
	if err := renderer.WriteFile(v.Chart, out); err != nil {
		return fail(fmt.Errorf("write chart %s: %w", out, err), q.Symbol, q.DataType)
	}
	logger.Info("chart written", zap.String("path", out), zap.Int("points", v.Range.Count))
	fmt.Fprintf(cmd.OutOrStdout(), "Chart written to %s\n", out)
	return nil
}

func runView(cmd *cobra.Command, args []string) error {
	q := chartQuery(args[0])
	l := logger
	if logFile == "" {
		// stderr output would tear the full-screen view
		l = zap.NewNop()
	}
	renderer := newRenderer(chartFormat)
	session := viewer.NewSession(renderer, viewer.WithLogger(l))
	fetcher := series.NewHTTPFetcher(cfg.API.BaseURL, cfg.API.SeriesPath, cfg.API.DataTypesPath, cfg.API.Proxy, l)
	store := series.NewStore(fetcher, l)

	m := tui.New(cmd.Context(), store, session, renderer, q, outputPath(), l)
	if _, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run(); err != nil {
		return fmt.Errorf("run viewer: %w", err)
	}
	return nil
}

func runTypes(cmd *cobra.Command, args []string) error {
	types, err := newFetcher().DataTypes(cmd.Context())
	if err != nil {
		return fail(err, "", "")
	}
	for _, t := range types {
		fmt.Fprintln(cmd.OutOrStdout(), t)
	}
	return nil
}
