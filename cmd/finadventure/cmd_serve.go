package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"FinAdventure/internal/datastore"
	"FinAdventure/internal/devapi"
)

const shutdownTimeout = 5 * time.Second

var (
	serveListen string
	serveDB     string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the local development API",
	Long: `Serves the ingestion and series endpoints locally:

  POST /process_uploaded_data
  GET  /api/historical_chart_data/{symbol}
  GET  /api/data_types
  GET  /api/pipeline_runs

Records are kept in memory unless a SQLite path is configured.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveListen, "listen", "l", "", "listen address (default from config)")
	serveCmd.Flags().StringVar(&serveDB, "db", "", "SQLite database path (default from config; empty keeps records in memory)")
}

func openStore() (datastore.Store, error) {
	path := serveDB
	if path == "" {
		path = cfg.DevAPI.SQLitePath
	}
	if path == "" {
		logger.Info("using in-memory store")
		return datastore.NewMemoryStore(), nil
	}
	s, err := datastore.NewSQLiteStore(path, logger)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return s, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	addr := serveListen
	if addr == "" {
		addr = cfg.DevAPI.Listen
	}
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	srv := &http.Server{
		Addr:              addr,
		Handler:           devapi.Routes(devapi.NewHandler(store, logger)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(cmd.Context())
	g.Go(func() error {
		logger.Info("dev api listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down dev api")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
