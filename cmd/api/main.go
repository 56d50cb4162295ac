package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/campuspay/campuspay/internal/balance"
	"github.com/campuspay/campuspay/internal/config"
	"github.com/campuspay/campuspay/internal/database"
	campuspayHttp "github.com/campuspay/campuspay/internal/http"
	balanceHandler "github.com/campuspay/campuspay/internal/http/balance"
	ledgerHandler "github.com/campuspay/campuspay/internal/http/ledger"
	reportHandler "github.com/campuspay/campuspay/internal/http/report"
	stockHandler "github.com/campuspay/campuspay/internal/http/stock"
	studentHandler "github.com/campuspay/campuspay/internal/http/student"
	"github.com/campuspay/campuspay/internal/ledger"
	ledgerStore "github.com/campuspay/campuspay/internal/ledger/store"
	"github.com/campuspay/campuspay/internal/report"
	reportStore "github.com/campuspay/campuspay/internal/report/store"
	"github.com/campuspay/campuspay/internal/stock"
	stockStore "github.com/campuspay/campuspay/internal/stock/store"
	"github.com/campuspay/campuspay/internal/student"
	studentStore "github.com/campuspay/campuspay/internal/student/store"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load .env file", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	db, err := database.New(ctx, cfg)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	classes := student.NewClassSet(cfg.Ledger.ClassCodes)
	students := studentStore.New(db)

	var (
		studentService = student.NewService(students, classes)
		stockService   = stock.NewService(stockStore.New(db))
		ledgerService  = ledger.NewService(ledgerStore.New(db), cfg.Ledger.RequireFunds)
		balanceService = balance.NewService(students, classes)
		reportService  = report.NewService(reportStore.New(db))
	)

	var (
		studentH = studentHandler.NewHandler(studentService)
		stockH   = stockHandler.NewHandler(stockService)
		ledgerH  = ledgerHandler.NewHandler(ledgerService)
		balanceH = balanceHandler.NewHandler(balanceService)
		reportH  = reportHandler.NewHandler(reportService)
	)

	router := campuspayHttp.New(studentH, stockH, ledgerH, balanceH, reportH, campuspayHttp.Options{
		Timeout:     cfg.Server.Timeout,
		CORSOrigins: cfg.Server.CORSOrigins,
	})

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "app", cfg.App.Name, "port", port)

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
