package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/example/bank-core/internal/bank"
	"github.com/example/bank-core/internal/security"
)

type accountRef struct {
	ID int64 `json:"id"`
}

type createPaymentRequest struct {
	FromAcc accountRef `json:"from_acc"`
	ToAcc   accountRef `json:"to_acc"`
	Amount  string     `json:"amount"`
}

type paymentResponse struct {
	CorrelationID string     `json:"correlation_id"`
	ID            int64      `json:"id"`
	FromAcc       accountRef `json:"from_acc"`
	ToAcc         accountRef `json:"to_acc"`
	Amount        string     `json:"amount"`
	CreatedAt     string     `json:"created_at"`
}

type createAccountRequest struct {
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
}

type accountResponse struct {
	CorrelationID string        `json:"correlation_id"`
	Account       *bank.Account `json:"account"`
}

type balanceResponse struct {
	CorrelationID string `json:"correlation_id"`
	AccountID     int64  `json:"account_id"`
	Amount        string `json:"amount"`
}

type renameAccountRequest struct {
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
}

type statusResponse struct {
	CorrelationID string `json:"correlation_id"`
	Success       bool   `json:"success"`
}

func handleCreatePayment(deps Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createPaymentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			security.WriteJSONError(w, r, http.StatusBadRequest, "invalid_json")
			return
		}

		amount, err := bank.ParseAmount(req.Amount)
		if err != nil {
			security.WriteJSONError(w, r, http.StatusBadRequest, "invalid_amount")
			return
		}

		entry, err := deps.Transfers.Transfer(r.Context(), req.FromAcc.ID, req.ToAcc.ID, amount)
		if err != nil {
			writeDomainError(w, r, deps, err)
			return
		}

		writeJSON(w, r, http.StatusOK, paymentResponse{
			CorrelationID: security.CorrelationIDFromContext(r.Context()),
			ID:            entry.ID,
			FromAcc:       accountRef{ID: entry.FromAccountID},
			ToAcc:         accountRef{ID: entry.ToAccountID},
			Amount:        bank.FormatAmount(entry.Amount),
			CreatedAt:     entry.CreatedAt.Format(timeFormat),
		})
	}
}

func handleCreateAccount(deps Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createAccountRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			security.WriteJSONError(w, r, http.StatusBadRequest, "invalid_json")
			return
		}
		if req.Name == "" {
			security.WriteJSONError(w, r, http.StatusBadRequest, "name_required")
			return
		}

		account, err := deps.Accounts.Create(r.Context(), req.UserID, req.Name)
		if err != nil {
			writeDomainError(w, r, deps, err)
			return
		}

		writeJSON(w, r, http.StatusCreated, accountResponse{
			CorrelationID: security.CorrelationIDFromContext(r.Context()),
			Account:       account,
		})
	}
}

func handleGetAccount(deps Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := accountID(w, r)
		if !ok {
			return
		}

		account, err := deps.Accounts.Get(r.Context(), id)
		if err != nil {
			writeDomainError(w, r, deps, err)
			return
		}

		writeJSON(w, r, http.StatusOK, accountResponse{
			CorrelationID: security.CorrelationIDFromContext(r.Context()),
			Account:       account,
		})
	}
}

func handleGetBalance(deps Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := accountID(w, r)
		if !ok {
			return
		}

		balance, err := deps.Accounts.Balance(r.Context(), id)
		if err != nil {
			writeDomainError(w, r, deps, err)
			return
		}

		writeJSON(w, r, http.StatusOK, balanceResponse{
			CorrelationID: security.CorrelationIDFromContext(r.Context()),
			AccountID:     id,
			Amount:        bank.FormatAmount(balance),
		})
	}
}

func handleRenameAccount(deps Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := accountID(w, r)
		if !ok {
			return
		}

		var req renameAccountRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			security.WriteJSONError(w, r, http.StatusBadRequest, "invalid_json")
			return
		}
		if req.Name == "" {
			security.WriteJSONError(w, r, http.StatusBadRequest, "name_required")
			return
		}

		if err := deps.Accounts.Rename(r.Context(), req.UserID, id, req.Name); err != nil {
			writeDomainError(w, r, deps, err)
			return
		}
		writeStatus(w, r)
	}
}

func handleBlockAccount(deps Dependencies) http.HandlerFunc {
	return lifecycleHandler(deps, func(deps Dependencies, r *http.Request, id int64) error {
		return deps.Accounts.Block(r.Context(), id)
	})
}

func handleUnblockAccount(deps Dependencies) http.HandlerFunc {
	return lifecycleHandler(deps, func(deps Dependencies, r *http.Request, id int64) error {
		return deps.Accounts.Unblock(r.Context(), id)
	})
}

func handleCloseAccount(deps Dependencies) http.HandlerFunc {
	return lifecycleHandler(deps, func(deps Dependencies, r *http.Request, id int64) error {
		return deps.Accounts.Close(r.Context(), id)
	})
}

func lifecycleHandler(deps Dependencies, op func(Dependencies, *http.Request, int64) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := accountID(w, r)
		if !ok {
			return
		}
		if err := op(deps, r, id); err != nil {
			writeDomainError(w, r, deps, err)
			return
		}
		writeStatus(w, r)
	}
}

func accountID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "accountID"), 10, 64)
	if err != nil {
		security.WriteJSONError(w, r, http.StatusBadRequest, "invalid_account_id")
		return 0, false
	}
	return id, true
}

func writeStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, statusResponse{
		CorrelationID: security.CorrelationIDFromContext(r.Context()),
		Success:       true,
	})
}

// writeDomainError maps the transfer/account error taxonomy onto stable HTTP
// codes. Only storage failures are retryable, so only they map to 503.
func writeDomainError(w http.ResponseWriter, r *http.Request, deps Dependencies, err error) {
	switch {
	case bank.IsNotFound(err):
		security.WriteJSONError(w, r, http.StatusNotFound, "account_not_found")
	case errors.Is(err, bank.ErrInvalidAmount):
		security.WriteJSONError(w, r, http.StatusBadRequest, "invalid_amount")
	case errors.Is(err, bank.ErrInsufficientFunds):
		security.WriteJSONError(w, r, http.StatusUnprocessableEntity, "insufficient_funds")
	case errors.Is(err, bank.ErrSourceBlocked):
		security.WriteJSONError(w, r, http.StatusUnprocessableEntity, "source_account_blocked")
	case errors.Is(err, bank.ErrSourceClosed):
		security.WriteJSONError(w, r, http.StatusUnprocessableEntity, "source_account_closed")
	case errors.Is(err, bank.ErrDestinationClosed):
		security.WriteJSONError(w, r, http.StatusUnprocessableEntity, "destination_account_closed")
	case errors.Is(err, bank.ErrNotOwner):
		security.WriteJSONError(w, r, http.StatusForbidden, "not_account_owner")
	case errors.Is(err, bank.ErrAccountClosed):
		security.WriteJSONError(w, r, http.StatusConflict, "account_closed")
	case bank.IsRetryable(err):
		deps.Logger.Error("storage failure", "error", err)
		security.WriteJSONError(w, r, http.StatusServiceUnavailable, "storage_unavailable")
	default:
		deps.Logger.Error("unhandled error", "error", err)
		security.WriteJSONError(w, r, http.StatusInternalServerError, "internal_error")
	}
}
