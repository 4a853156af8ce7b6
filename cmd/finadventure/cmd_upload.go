package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"FinAdventure/internal/ingest"
	"FinAdventure/internal/model"
	"FinAdventure/internal/notifier"
	"FinAdventure/internal/uploader"
)

var (
	dateColumn        string
	valueColumn       string
	descriptionColumn string
	uploadSymbol      string
	uploadCategory    string
	previewRows       int
)

var previewCmd = &cobra.Command{
	Use:   "preview <file>",
	Short: "Parse a CSV or JSON file and show its first rows and column mapping",
	Long: `Parses the file, shows the first rows as a table and the current
column mapping. Columns not given with --date/--value are guessed from
common header names.`,
	Args: cobra.ExactArgs(1),
	RunE: runPreview,
}

var uploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Map a file's columns and submit it to the ingestion endpoint",
	Long: `Parses the file, maps the chosen columns onto date/value/description,
shows the preview and submits the records.

Example:
  finadventure upload prices.csv --symbol aapl --category "Historical Prices" --date Date --value Close`,
	Args: cobra.ExactArgs(1),
	RunE: runUpload,
}

func init() {
	for _, c := range []*cobra.Command{previewCmd, uploadCmd} {
		c.Flags().StringVar(&dateColumn, "date", "", "column holding the date")
		c.Flags().StringVar(&valueColumn, "value", "", "column holding the value")
		c.Flags().StringVar(&descriptionColumn, "description", "", "optional column holding a description")
		c.Flags().IntVar(&previewRows, "rows", 0, "preview rows to show (default from config)")
	}
	uploadCmd.Flags().StringVarP(&uploadSymbol, "symbol", "s", "", "ticker symbol the records belong to")
	uploadCmd.Flags().StringVar(&uploadCategory, "category", "", "data category (default from config)")
	_ = uploadCmd.MarkFlagRequired("symbol")
}

// loadFile parses path and applies the column flags. A recognised but
// unsupported format returns the placeholder dataset with the error.
func loadFile(path string) (*model.Dataset, *ingest.ColumnMapper, error) {
	format, err := ingest.DetectFormat(path)
	if err != nil {
		return nil, nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	p := &ingest.Parser{Delimiter: cfg.DelimiterRune()}
	ds, err := p.Parse(string(data), format)
	if err != nil {
		return ds, nil, err
	}
	logger.Debug("file parsed",
		zap.String("path", path),
		zap.String("format", string(format)),
		zap.Int("columns", len(ds.Headers)),
		zap.Int("rows", len(ds.Rows)),
	)

	m := ingest.NewColumnMapper()
	m.SetHeaders(ds.Headers)
	selections := []struct {
		field  ingest.Field
		column string
	}{
		{ingest.FieldDate, dateColumn},
		{ingest.FieldValue, valueColumn},
		{ingest.FieldDescription, descriptionColumn},
	}
	for _, sel := range selections {
		if sel.column == "" {
			continue
		}
		if _, _, err := m.Select(sel.field, sel.column); err != nil {
			return ds, m, err
		}
	}
	m.AutoDetect()
	return ds, m, nil
}

func rowsLimit() int {
	if previewRows > 0 {
		return previewRows
	}
	return cfg.Upload.PreviewRows
}

func runPreview(cmd *cobra.Command, args []string) error {
	ds, m, err := loadFile(args[0])
	var ue *model.UnsupportedFormatError
	if errors.As(err, &ue) && ds != nil {
		reportError(err, "", "")
		fmt.Fprintln(cmd.OutOrStdout(), notifier.FormatPreview(ingest.RenderPreview(ds, rowsLimit()), nil))
		return errReported
	}
	if err != nil {
		return fail(err, "", "")
	}
	fmt.Fprintln(cmd.OutOrStdout(), notifier.FormatPreview(ingest.RenderPreview(ds, rowsLimit()), m.PreviewLines()))
	if err := m.Validate(); err != nil {
		reportError(err, "", "")
	}
	return nil
}

func runUpload(cmd *cobra.Command, args []string) error {
	ds, m, err := loadFile(args[0])
	if err != nil {
		return fail(err, "", "")
	}
	fmt.Fprintln(cmd.OutOrStdout(), notifier.FormatPreview(ingest.RenderPreview(ds, rowsLimit()), m.PreviewLines()))

	category := uploadCategory
	if category == "" {
		category = cfg.Upload.DefaultCategory
	}
	s := uploader.NewSubmitter(cfg.IngestURL(), cfg.API.Proxy, logger)
	res, err := s.Submit(cmd.Context(), uploader.Batch{
		Rows:     ds.Rows,
		Mapping:  m.Mapping(),
		Symbol:   uploadSymbol,
		Category: category,
	})
	if err != nil {
		return fail(err, uploader.NormalizeSymbol(uploadSymbol), category)
	}
	fmt.Fprintln(cmd.OutOrStdout(), notifier.FormatSubmitResult(res))
	return nil
}
