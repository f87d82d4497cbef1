package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/alexanderramin/kaizen/internal/api"
	"github.com/alexanderramin/kaizen/internal/cli"
	"github.com/alexanderramin/kaizen/internal/config"
	"github.com/alexanderramin/kaizen/internal/db"
	"github.com/alexanderramin/kaizen/internal/repository"
	"github.com/alexanderramin/kaizen/internal/service"
	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Config: defaults, then ~/.kaizen/config.yaml or $KAIZEN_CONFIG, then KAIZEN_* env.
	cfg, err := config.Load("", nil)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	clock := func() time.Time { return time.Now().In(loc) }

	// Open database (migrations run on open)
	database, err := db.OpenDB(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Metrics double as a use-case observer; per-call logs only at debug level.
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := service.NewMetrics(reg)
	if err != nil {
		return fmt.Errorf("registering metrics: %w", err)
	}
	observers := []service.UseCaseObserver{metrics}
	if logger.Enabled(context.Background(), slog.LevelDebug) {
		observers = append(observers, service.NewSlogUseCaseObserver(logger))
	}

	// Wire repositories
	taskRepo := repository.NewSQLiteTaskRepo(database)
	learningRepo := repository.NewSQLiteLearningRepo(database)
	projectRepo := repository.NewSQLiteProjectRepo(database)
	ledgerRepo := repository.NewSQLiteLedgerRepo(database)
	inputRepo := repository.NewSQLiteDailyInputRepo(database)

	// Wire unit of work for transactional operations
	uow := db.NewSQLiteUnitOfWork(database)

	// Wire services; entity services score through the recorder.
	perf := service.NewPerformanceService(ledgerRepo, uow, clock, metrics, observers...)
	events := service.NewScoreRecorder(perf, logger, cfg.Scoring.LedgerRetries, metrics)
	tasks := service.NewTaskService(taskRepo, uow, events, clock, observers...)
	learnings := service.NewLearningService(learningRepo, uow, events, clock, observers...)
	projects := service.NewProjectService(projectRepo, uow, events, clock, observers...)
	inputs := service.NewDailyInputService(inputRepo, uow, events, cfg.WakeCutoffMinutes(), observers...)
	dashboard := service.NewDashboardService(tasks, learnings, projects, perf, inputs)

	app := &cli.App{
		Tasks:       tasks,
		Learnings:   learnings,
		Projects:    projects,
		Performance: perf,
		Inputs:      inputs,
		Dashboard:   dashboard,
		Now:         clock,
	}

	// Detect interactive terminal for the daily input form.
	app.IsInteractive = isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())

	app.Serve = func(ctx context.Context) error {
		handler := &api.Handler{
			Tasks:       tasks,
			Learnings:   learnings,
			Projects:    projects,
			Performance: perf,
			Inputs:      inputs,
			Dashboard:   dashboard,
			Now:         clock,
		}
		router := api.NewRouter(handler, api.Options{
			AllowedOrigins: cfg.Server.AllowedOrigins,
			Gatherer:       reg,
			Health:         database.PingContext,
			Logger:         logger,
		})
		return api.Serve(ctx, cfg.Server.Addr, router, logger)
	}

	// Execute root command
	rootCmd := cli.NewRootCmd(app)
	return rootCmd.ExecuteContext(context.Background())
}
