package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"database/sql"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/cashlane/advance-service/internal/config"
	"github.com/cashlane/advance-service/internal/handler"
	"github.com/cashlane/advance-service/internal/integrations/ofx"
	"github.com/cashlane/advance-service/internal/integrations/webhook"
	"github.com/cashlane/advance-service/internal/metrics"
	"github.com/cashlane/advance-service/internal/repository"
	"github.com/cashlane/advance-service/internal/risk"
	"github.com/cashlane/advance-service/internal/service"
	"github.com/cashlane/advance-service/internal/utils/email"
)

func main() {
	// Load .env if present, before anything reads the environment
	_ = godotenv.Load()

	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logLevel, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	// Build the risk engine; invalid parameters abort startup
	engine, err := risk.NewEngine(cfg.Risk, logger)
	if err != nil {
		logger.Fatalf("Failed to build risk engine: %v", err)
	}

	// Initialize database
	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}

	// Initialize layers
	repo := repository.NewRepository(db)
	recorder := metrics.NewRecorder()
	parser := ofx.NewParser(logger)
	wh := webhook.NewClient(cfg.WebhookURL, logger)
	notifier := email.NewSender(cfg, logger)
	svc := service.NewService(repo, engine, parser, wh, notifier, recorder, logger)
	h := handler.NewHandler(svc, logger)

	// Nightly overdue-installment sweep
	c := cron.New()
	if _, err := c.AddFunc(cfg.OverdueSweepSpec, func() {
		if _, err := svc.SweepOverdueInstallments(time.Now().UTC()); err != nil {
			logger.Errorf("Overdue sweep failed: %v", err)
		}
	}); err != nil {
		logger.Fatalf("Failed to schedule overdue sweep: %v", err)
	}
	c.Start()
	defer c.Stop()

	// Setup router
	r := mux.NewRouter()
	r.HandleFunc("/healthz", h.Health).Methods("GET")
	if cfg.MetricsEnabled {
		r.Handle("/metrics", recorder.Handler()).Methods("GET")
	}
	v1 := r.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/decisions", h.CreateDecision).Methods("POST")
	v1.HandleFunc("/decisions/history", h.DecisionHistory).Methods("GET")
	v1.HandleFunc("/plans/{id}", h.GetPlan).Methods("GET")
	v1.HandleFunc("/statements/import", h.ImportStatement).Methods("POST")

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	logger.Infof("Starting server on %s", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("Server failed: %v", err)
	}
}
