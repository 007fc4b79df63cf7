package background

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/moeketsims/stocktracking-sub002/internal/jobs"
	"github.com/moeketsims/stocktracking-sub002/internal/services"
	"github.com/moeketsims/stocktracking-sub002/pkg/logger"
)

// Config holds job intervals.
type Config struct {
	AlertSweepInterval   time.Duration
	ReportExportInterval time.Duration
}

// JobScheduler owns the gocron scheduler and the two recurring jobs: the
// stock alert sweep and the daily report export. Jobs run in singleton mode
// so a slow run is rescheduled rather than stacked.
type JobScheduler struct {
	scheduler gocron.Scheduler
	alertSvc  *jobs.StockAlertService
	reportSvc services.ReportService
	log       *logger.Logger
	jobs      map[string]gocron.Job
	mu        sync.RWMutex
}

func NewJobScheduler(alertSvc *jobs.StockAlertService, reportSvc services.ReportService,
	cfg Config, log *logger.Logger) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	js := &JobScheduler{
		scheduler: scheduler,
		alertSvc:  alertSvc,
		reportSvc: reportSvc,
		log:       log,
		jobs:      make(map[string]gocron.Job),
	}

	if err := js.registerJobs(cfg); err != nil {
		return nil, err
	}
	return js, nil
}

func (js *JobScheduler) Start() {
	js.log.Info().Int("jobs", len(js.jobs)).Msg("starting background job scheduler")
	js.scheduler.Start()
}

func (js *JobScheduler) Stop() error {
	js.log.Info().Msg("stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) registerJobs(cfg Config) error {
	alertJob, err := js.scheduler.NewJob(
		gocron.DurationJob(cfg.AlertSweepInterval),
		gocron.NewTask(js.runAlertSweep),
		gocron.WithName("stock-alert-sweep"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return err
	}
	js.jobs["stock-alert-sweep"] = alertJob

	reportJob, err := js.scheduler.NewJob(
		gocron.DurationJob(cfg.ReportExportInterval),
		gocron.NewTask(js.runReportExport),
		gocron.WithName("daily-report-export"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return err
	}
	js.jobs["daily-report-export"] = reportJob

	return nil
}

func (js *JobScheduler) runAlertSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := js.alertSvc.Sweep(ctx); err != nil {
		js.log.Error().Err(err).Msg("stock alert sweep failed")
	}
}

func (js *JobScheduler) runReportExport() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	url, err := js.reportSvc.ExportDailyReport(ctx, time.Now().UTC())
	if err != nil {
		js.log.Error().Err(err).Msg("daily report export failed")
		return
	}
	js.log.Info().Str("url", url).Msg("daily report available")
}

// JobNames lists the registered jobs, for the health endpoint.
func (js *JobScheduler) JobNames() []string {
	js.mu.RLock()
	defer js.mu.RUnlock()

	names := make([]string, 0, len(js.jobs))
	for name := range js.jobs {
		names = append(names, name)
	}
	return names
}
