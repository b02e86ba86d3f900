package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"

	"github.com/sankofabank/core-ledger/internal/config"
	"github.com/sankofabank/core-ledger/internal/repository"
	"github.com/sankofabank/core-ledger/internal/service"
)

const jobTimeout = 30 * time.Minute

func main() {
	log.Println("Starting ledger scheduler...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	accountRepo := repository.NewAccountRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)
	loanRepo := repository.NewLoanRepository(db)
	batchService := service.NewBatchService(db, accountRepo, ledgerRepo, loanRepo, cfg)

	location, err := time.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		log.Fatalf("Invalid scheduler timezone %q: %v", cfg.Scheduler.Timezone, err)
	}

	// Initialize cron scheduler
	c := cron.New(cron.WithSeconds(), cron.WithLocation(location))

	// Schedule tasks
	setupCronJobs(c, cfg, batchService)

	// Start the scheduler
	c.Start()
	log.Println("Scheduler started successfully")

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down scheduler...")
	c.Stop()
	log.Println("Scheduler stopped")
}

func setupCronJobs(c *cron.Cron, cfg *config.Config, batchService *service.BatchService) {
	// Daily interest accrual for deposit accounts and active loans
	_, err := c.AddFunc(cfg.Scheduler.AccrualCron, func() {
		runJob("daily interest accrual", func(ctx context.Context) (*service.BatchResult, error) {
			return batchService.RunDailyAccrual(ctx, time.Now().UTC())
		})
	})
	if err != nil {
		log.Fatalf("Error scheduling accrual job: %v", err)
	}

	// Periodic posting of accrued interest into customer accounts
	_, err = c.AddFunc(cfg.Scheduler.PostingCron, func() {
		runJob("interest posting", func(ctx context.Context) (*service.BatchResult, error) {
			return batchService.RunInterestPosting(ctx, time.Now().UTC())
		})
	})
	if err != nil {
		log.Fatalf("Error scheduling interest posting job: %v", err)
	}

	// Daily overdue / days-past-due update for loans
	_, err = c.AddFunc(cfg.Scheduler.OverdueCron, func() {
		runJob("overdue update", func(ctx context.Context) (*service.BatchResult, error) {
			return batchService.RunOverdueUpdate(ctx, time.Now().UTC())
		})
	})
	if err != nil {
		log.Fatalf("Error scheduling overdue update job: %v", err)
	}

	log.Println("Cron jobs scheduled successfully")
}

func runJob(name string, fn func(ctx context.Context) (*service.BatchResult, error)) {
	log.Printf("Running %s job...", name)
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	result, err := fn(ctx)
	if err != nil {
		log.Printf("%s job failed: %v", name, err)
		return
	}
	log.Printf("%s job done: processed=%d skipped=%d failed=%d", name, result.Processed, result.Skipped, result.Failed)
}
