package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/sankofabank/core-ledger/internal/config"
	"github.com/sankofabank/core-ledger/internal/handler"
	"github.com/sankofabank/core-ledger/internal/repository"
	"github.com/sankofabank/core-ledger/internal/service"
	"github.com/sankofabank/core-ledger/pkg/response"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database
	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Initialize Redis
	redisClient := initRedis(cfg)
	defer redisClient.Close()

	// Initialize repositories
	accountRepo := repository.NewAccountRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)
	loanRepo := repository.NewLoanRepository(db)

	// Initialize services
	ledgerService := service.NewLedgerService(db, accountRepo, ledgerRepo, redisClient, cfg)
	loanService := service.NewLoanService(db, loanRepo, accountRepo, ledgerRepo, redisClient, cfg)

	accountHandler := handler.NewAccountHandler(ledgerService)
	loanHandler := handler.NewLoanHandler(loanService)
	healthHandler := handler.NewHealthHandler(db, redisClient)

	// Setup routes
	router := setupRoutes(accountHandler, loanHandler, healthHandler)

	// Start server
	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

func initDB(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	return db, nil
}

func initRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

func setupRoutes(accountHandler *handler.AccountHandler, loanHandler *handler.LoanHandler, healthHandler *handler.HealthHandler) *mux.Router {
	router := mux.NewRouter()
	router.Use(response.LoggingMiddleware)

	// Health check
	router.HandleFunc("/health", healthHandler.Health).Methods("GET")
	router.HandleFunc("/health/ready", healthHandler.Ready).Methods("GET")

	// API routes
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/accounts", accountHandler.OpenAccount).Methods("POST")
	api.HandleFunc("/accounts/{accountNumber}/balance", accountHandler.GetBalance).Methods("GET")
	api.HandleFunc("/accounts/{accountNumber}/entries", accountHandler.GetStatement).Methods("GET")
	api.HandleFunc("/accounts/{accountNumber}/status", accountHandler.UpdateStatus).Methods("PUT")
	api.HandleFunc("/accounts/{accountNumber}/lien", accountHandler.PlaceLien).Methods("POST")
	api.HandleFunc("/accounts/{accountNumber}/lien/release", accountHandler.ReleaseLien).Methods("POST")

	api.HandleFunc("/transactions", accountHandler.PostTransfer).Methods("POST")
	api.HandleFunc("/transactions/entries/{entryId}/reverse", accountHandler.ReverseEntry).Methods("POST")

	api.HandleFunc("/loans", loanHandler.Disburse).Methods("POST")
	api.HandleFunc("/loans/{loanAccountNumber}", loanHandler.GetLoan).Methods("GET")
	api.HandleFunc("/loans/{loanAccountNumber}/schedule", loanHandler.GetSchedule).Methods("GET")
	api.HandleFunc("/loans/{loanAccountNumber}/repayments", loanHandler.MakeRepayment).Methods("POST")

	return router
}
