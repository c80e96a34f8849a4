// Package reporter schedules full recomputes of the report tables and
// exposes a small status endpoint for operators.
package reporter

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/puzpuzpuz/xsync/v4"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/go-jose/go-jose/v4/json"

	"github.com/Rohan-1103/covidx/pkg/db"
	"github.com/Rohan-1103/covidx/pkg/logging"
	"github.com/Rohan-1103/covidx/pkg/reporter/activity"
	"github.com/Rohan-1103/covidx/pkg/utils"
)

// App recomputes every report on each Cron tick and tracks the last
// successful run per report.
type App struct {
	CovidDB   *db.CovidDB
	ReportsDB *db.ReportsDB

	Activity *activity.Context

	// Cron is the scheduler that triggers recompute tasks according to CronSpec.
	Cron     *cron.Cron
	CronSpec string

	// LastRun tracks the last successful recompute per report name.
	LastRun *xsync.Map[string, time.Time]

	Logger *zap.Logger

	// Server is the HTTP server that serves health and status.
	Server *http.Server
}

// Initialize initializes the App.
func Initialize(ctx context.Context) (*App, error) {
	logger, err := logging.New()
	if err != nil {
		// nothing else to do here, we'll just log to stderr
		panic(err)
	}

	covidDb, reportsDb, basicDbsErr := db.NewBasicDbs(ctx, logger)
	if basicDbsErr != nil {
		logger.Fatal("Unable to initialize basic databases", zap.Error(basicDbsErr))
	}

	app := &App{
		CovidDB:   covidDb,
		ReportsDB: reportsDb,
		Activity: &activity.Context{
			Logger:    logger,
			CovidDB:   covidDb,
			ReportsDB: reportsDb,
			Workers:   utils.EnvInt("REPORTER_WORKERS", 4),
		},
		CronSpec: utils.Env("REPORTER_CRON", "0 */15 * * * *"),
		LastRun:  xsync.NewMap[string, time.Time](),
		Logger:   logger,
	}

	if err := app.SetupScheduler(ctx, cron.DefaultLogger); err != nil {
		return nil, err
	}
	app.SetupServer()

	return app, nil
}

// SetupScheduler sets up the cron scheduler.
func (a *App) SetupScheduler(ctx context.Context, logger cron.Logger) error {
	a.Cron = cron.New(cron.WithSeconds(), cron.WithChain(cron.Recover(logger)))

	_, err := a.Cron.AddFunc(a.CronSpec, func() {
		// keep each run bounded
		rctx, cancel := context.WithTimeout(ctx, 10*time.Minute)
		defer cancel()
		a.RunAll(rctx)
	})
	return err
}

// SetupServer sets up the HTTP server.
func (a *App) SetupServer() {
	// use <ip>:<port> to bind to a specific interface or :<port> to bind to all interfaces
	addr := utils.Env("ADDR", ":3003")

	r := mux.NewRouter()

	r.Handle("/healthz", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(200) })).Methods("GET")
	r.Handle("/statusz", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		status := make(map[string]time.Time)
		a.LastRun.Range(func(report string, at time.Time) bool {
			status[report] = at
			return true
		})
		_ = json.NewEncoder(w).Encode(status)
	})).Methods("GET")

	a.Server = &http.Server{Addr: addr, Handler: r}
}

// RunAll runs every recompute activity once, recording last successful runs.
func (a *App) RunAll(ctx context.Context) {
	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"rolling_vaccinations", a.Activity.ComputeRollingVaccinations},
		{"leaderboards", a.Activity.ComputeLeaderboards},
		{"global_summary", a.Activity.ComputeGlobalSummary},
	}

	for _, step := range steps {
		if err := step.fn(ctx); err != nil {
			a.Logger.Error("Report recompute failed",
				zap.String("report", step.name),
				zap.Error(err))
			continue
		}
		a.LastRun.Store(step.name, time.Now().UTC())
	}
}

// Start runs one recompute immediately, then serves until the context is canceled.
func (a *App) Start(ctx context.Context) {
	a.RunAll(ctx)

	a.Cron.Start()
	a.Logger.Info("Cron started", zap.String("cronSpec", a.CronSpec))

	go func() { _ = a.Server.ListenAndServe() }()
	<-ctx.Done()
	a.Stop()
}

// Stop stops the scheduler and closes connections.
func (a *App) Stop() {
	if a.Cron != nil {
		<-a.Cron.Stop().Done()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = a.Server.Shutdown(shutdownCtx)

	if err := a.ReportsDB.Close(); err != nil {
		a.Logger.Error("Failed to close database connection", zap.Error(err))
	}
	if err := a.CovidDB.Close(); err != nil {
		a.Logger.Error("Failed to close database connection", zap.Error(err))
	}
	a.Logger.Info("さようなら!")
}
