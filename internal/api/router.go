// Package api is the HTTP surface over the transfer orchestrator and the
// account-management service. Request/response encoding lives here; all
// business rules live below.
package api

import (
	"context"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/example/bank-core/internal/bank"
	"github.com/example/bank-core/internal/security"
	"github.com/example/bank-core/pkg/audit"
)

// Transferer is the orchestrator surface the API consumes.
type Transferer interface {
	Transfer(ctx context.Context, fromID, toID, amount int64) (*bank.LedgerEntry, error)
}

// AccountManager is the account-management surface the API consumes.
type AccountManager interface {
	Create(ctx context.Context, userID int64, name string) (*bank.Account, error)
	Get(ctx context.Context, id int64) (*bank.Account, error)
	Balance(ctx context.Context, id int64) (int64, error)
	Rename(ctx context.Context, userID, accountID int64, name string) error
	Block(ctx context.Context, id int64) error
	Unblock(ctx context.Context, id int64) error
	Close(ctx context.Context, id int64) error
}

type Auditor interface {
	Append(event string) *audit.Entry
}

// Dependencies carries everything the router needs, passed explicitly.
type Dependencies struct {
	Logger       *slog.Logger
	Transfers    Transferer
	Accounts     AccountManager
	Auditor      Auditor
	RateLimiter  *security.TokenBucket
	MaxBodyBytes int64
}

func NewRouter(deps Dependencies) http.Handler {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(security.CorrelationID)
	r.Use(RequestLogger(deps.Logger))
	r.Use(security.BodySizeLimit(deps.MaxBodyBytes))
	if deps.RateLimiter != nil {
		r.Use(security.RateLimit(deps.RateLimiter, rateLimitKeyByIP))
	}
	if deps.Auditor != nil {
		r.Use(AuditMiddleware(deps.Auditor))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/payments", handleCreatePayment(deps))

		r.Route("/accounts", func(r chi.Router) {
			r.Post("/", handleCreateAccount(deps))

			r.Route("/{accountID}", func(r chi.Router) {
				r.Get("/", handleGetAccount(deps))
				r.Get("/balance", handleGetBalance(deps))
				r.Put("/name", handleRenameAccount(deps))
				r.Post("/block", handleBlockAccount(deps))
				r.Post("/unblock", handleUnblockAccount(deps))
				r.Post("/close", handleCloseAccount(deps))
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		security.WriteJSONError(w, r, http.StatusNotFound, "not_found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		security.WriteJSONError(w, r, http.StatusMethodNotAllowed, "method_not_allowed")
	})

	return r
}

func rateLimitKeyByIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return ""
	}
	return "ip:" + host
}
