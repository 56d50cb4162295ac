package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/campuspay/campuspay/internal/http/balance"
	"github.com/campuspay/campuspay/internal/http/ledger"
	"github.com/campuspay/campuspay/internal/http/report"
	"github.com/campuspay/campuspay/internal/http/stock"
	"github.com/campuspay/campuspay/internal/http/student"
)

type Options struct {
	Timeout     time.Duration
	CORSOrigins []string
}

func New(
	studentsV1 *student.Handler,
	stockV1 *stock.Handler,
	ledgerV1 *ledger.Handler,
	balanceV1 *balance.Handler,
	reportsV1 *report.Handler,
	opts Options,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(opts.Timeout))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/students", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			studentsV1.Routes(r)
		})

		r.Route("/stock", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			stockV1.Routes(r)
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			ledgerV1.TransactionRoutes(r)
		})

		r.Route("/purchases", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			ledgerV1.PurchaseRoutes(r)
		})

		r.Route("/balance", balanceV1.Routes)

		r.Route("/reports", reportsV1.Routes)
	})

	return router
}
