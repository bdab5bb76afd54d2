package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/MinThiha23/exco-budget-management-system-sub001/internal/config"
	"github.com/MinThiha23/exco-budget-management-system-sub001/internal/database"
	"github.com/MinThiha23/exco-budget-management-system-sub001/internal/notifications"
)

// ReminderWorker nudges program owners about queries that have sat
// unanswered past the configured age.
type ReminderWorker struct {
	db       *sqlx.DB
	notifier *notifications.Service
	maxAge   time.Duration
	logger   *zap.Logger
}

type staleQuery struct {
	ProgramID    uuid.UUID `db:"program_id"`
	OwnerID      uuid.UUID `db:"owner_id"`
	ProgramTitle string    `db:"program_title"`
	AskedAt      time.Time `db:"asked_at"`
}

func NewReminderWorker(db *sqlx.DB, notifier *notifications.Service, maxAge time.Duration, logger *zap.Logger) *ReminderWorker {
	return &ReminderWorker{db: db, notifier: notifier, maxAge: maxAge, logger: logger}
}

// Run finds stale pending queries and sends one reminder per program.
func (w *ReminderWorker) Run(ctx context.Context) {
	cutoff := time.Now().Add(-w.maxAge)
	stale, err := w.findStaleQueries(ctx, cutoff)
	if err != nil {
		w.logger.Error("Failed to find stale queries", zap.Error(err))
		return
	}
	if len(stale) == 0 {
		w.logger.Info("No stale pending queries")
		return
	}

	w.logger.Info("Sending query reminders", zap.Int("count", len(stale)))
	for _, q := range stale {
		err := w.notifier.RemindPendingQuery(ctx, q.ProgramID, q.OwnerID, q.ProgramTitle, q.AskedAt)
		if err != nil {
			w.logger.Error("Failed to send reminder",
				zap.String("program_id", q.ProgramID.String()),
				zap.Error(err))
		}
	}
}

func (w *ReminderWorker) findStaleQueries(ctx context.Context, cutoff time.Time) ([]staleQuery, error) {
	const query = `
		SELECT q.program_id AS program_id,
		       p.user_id    AS owner_id,
		       p.title      AS program_title,
		       MIN(q.created_at) AS asked_at
		FROM program_queries q
		JOIN programs p ON p.id = q.program_id
		WHERE q.status = 'pending'
		  AND q.created_at < $1
		  AND p.deleted_at IS NULL
		GROUP BY q.program_id, p.user_id, p.title`

	var stale []staleQuery
	if err := w.db.SelectContext(ctx, &stale, query, cutoff); err != nil {
		return nil, err
	}
	return stale, nil
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig("config.json")
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "initializing logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	gormDB, err := database.Connect(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to access connection pool", zap.Error(err))
	}
	db := sqlx.NewDb(sqlDB, "postgres")
	defer db.Close()

	hub := notifications.NewHub(logger)
	notificationRepo := notifications.NewRepository(gormDB)
	notifier := notifications.NewService(notificationRepo, nil, hub, logger)

	worker := NewReminderWorker(db, notifier, cfg.Worker.PendingQueryMaxAge, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	scheduler := cron.New()
	_, err = scheduler.AddFunc(cfg.Worker.ReminderSchedule, func() {
		worker.Run(ctx)
	})
	if err != nil {
		logger.Fatal("Invalid reminder schedule",
			zap.String("schedule", cfg.Worker.ReminderSchedule),
			zap.Error(err))
	}
	scheduler.Start()

	logger.Info("Reminder worker started",
		zap.String("schedule", cfg.Worker.ReminderSchedule),
		zap.Duration("max_age", cfg.Worker.PendingQueryMaxAge))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Reminder worker shutting down")

	cancel()
	<-scheduler.Stop().Done()
	logger.Info("Reminder worker stopped")
}
