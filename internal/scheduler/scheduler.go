// Package scheduler refreshes a chart on a cron schedule.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"FinAdventure/internal/chart"
	"FinAdventure/internal/insight"
	"FinAdventure/internal/notifier"
	"FinAdventure/internal/series"
	"FinAdventure/internal/viewer"
)

// Scheduler re-fetches one series on a cron schedule, pushes it through a
// viewer session and reports the result.
type Scheduler struct {
	Cron     *cron.Cron
	Store    *series.Store
	Session  *viewer.Session
	Renderer *chart.Renderer
	Notifier notifier.Notifier
	Query    series.Query
	Window   viewer.Window
	Output   string // chart image path; empty skips rendering
	Ctx      context.Context
	logger   *zap.Logger
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, store *series.Store, session *viewer.Session, renderer *chart.Renderer, n notifier.Notifier, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if n == nil {
		n = notifier.NoopNotifier{}
	}
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Store:    store,
		Session:  session,
		Renderer: renderer,
		Notifier: n,
		Window:   viewer.WindowAll,
		Ctx:      ctx,
		logger:   logger,
	}
}

// RegisterRefresh registers the refresh task on spec (six fields, seconds
// first).
func (s *Scheduler) RegisterRefresh(spec string) error {
	if _, err := s.Cron.AddFunc(spec, s.refreshTask); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.logger.Info("scheduler started", zap.Int("entries", len(s.Cron.Entries())))
}

// Stop stops the cron scheduler and waits for a running task to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.logger.Info("scheduler stopped")
}

// RunNow executes the refresh task immediately.
func (s *Scheduler) RunNow() {
	s.refreshTask()
}

func (s *Scheduler) refreshTask() {
	q := s.Query
	s.logger.Info("refreshing series", zap.String("symbol", q.Symbol), zap.String("data_type", q.DataType))

	s.Session.BeginLoad(q.Symbol, q.DataType)
	ts, err := s.Store.Fetch(s.Ctx, q)
	if errors.Is(err, series.ErrStaleResponse) {
		return
	}
	v := s.Session.Settle(ts, err)
	if v.Status == viewer.StatusReady && s.Window != "" && s.Window != v.Window {
		v = s.Session.ApplyWindow(s.Window)
	}

	var b strings.Builder
	b.WriteString(notifier.FormatViewState(v))
	if v.Status == viewer.StatusReady {
		dates, values := s.Session.Visible()
		if in, err := insight.Build(v.Symbol, v.DataType, dates, values); err == nil {
			b.WriteString("\n")
			b.WriteString(notifier.FormatInsight(in))
		}
		if s.Output != "" {
			if err := s.Renderer.WriteFile(v.Chart, s.Output); err != nil {
				s.logger.Error("write chart", zap.String("path", s.Output), zap.Error(err))
			} else {
				b.WriteString(fmt.Sprintf("\nChart written to %s", s.Output))
			}
		}
	}
	s.trySend(b.String())
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.Send(text); err != nil {
		s.logger.Error("send notification", zap.Error(err))
	}
}
