package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/pocketbook/internal/http/group"
	"github.com/MrJamesThe3rd/pocketbook/internal/http/ledger"
	"github.com/MrJamesThe3rd/pocketbook/internal/http/report"
	"github.com/MrJamesThe3rd/pocketbook/internal/http/respond"
	"github.com/MrJamesThe3rd/pocketbook/internal/http/rule"
	"github.com/MrJamesThe3rd/pocketbook/internal/http/user"
	ledgerdomain "github.com/MrJamesThe3rd/pocketbook/internal/ledger"
)

const healthTimeout = 2 * time.Second

type Handlers struct {
	Users   *user.Handler
	Groups  *group.Handler
	Ledger  *ledger.Handler
	Rules   *rule.Handler
	Reports *report.Handler
}

// Pinger reports whether the database is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Options struct {
	// Authenticate rejects requests without a valid token and puts the actor
	// in the request context.
	Authenticate func(http.Handler) http.Handler
	// Instrument wraps every request; nil disables it.
	Instrument  func(http.Handler) http.Handler
	Metrics     http.Handler
	DB          Pinger
	CORSOrigins []string
}

func New(h Handlers, opts Options) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	if opts.Instrument != nil {
		router.Use(opts.Instrument)
	}

	router.Get("/health", health(opts.DB))

	if opts.Metrics != nil {
		router.Handle("/metrics", opts.Metrics)
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.With(middleware.AllowContentType("application/json")).Group(h.Users.PublicRoutes)
			r.With(opts.Authenticate).Group(h.Users.Routes)
		})

		r.Group(func(r chi.Router) {
			r.Use(opts.Authenticate)

			r.Route("/groups", h.Groups.Routes)
			r.Route("/wallets", h.Ledger.WalletRoutes)
			r.Route("/categories", h.Ledger.CategoryRoutes)
			r.Route("/incomes", h.Ledger.EntryRoutes(ledgerdomain.KindIncome))
			r.Route("/expenses", h.Ledger.EntryRoutes(ledgerdomain.KindExpense))
			r.Route("/transfers", h.Ledger.TransferRoutes)
			r.Route("/contributions", h.Ledger.ContributionRoutes)
			r.Route("/category-rules", h.Rules.Routes)
			r.Route("/reports", h.Reports.Routes)
		})
	})

	return router
}

func health(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
			defer cancel()

			if err := db.PingContext(ctx); err != nil {
				respond.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}

		respond.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
