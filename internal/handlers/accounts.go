package handlers

import (
	"encoding/json"
	"net/http"

	"moneybook/internal/middleware"
	"moneybook/internal/money"
	"moneybook/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type createAccountRequest struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Balance any    `json:"balance"`
}

func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req createAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	balance := decimal.Zero
	if req.Balance != nil {
		parsed, err := money.ParseAmount(req.Balance)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid balance")
			return
		}
		balance = parsed
	}
	account, err := h.ledger.CreateAccount(r.Context(), services.CreateAccountRequest{
		OwnerID: userID,
		Name:    req.Name,
		Type:    req.Type,
		Balance: balance,
	})
	if err != nil {
		respondLedgerError(w, err, "unable to create account")
		return
	}
	respondJSON(w, http.StatusCreated, account)
}

func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	accounts, err := h.ledger.ListAccounts(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load accounts")
		return
	}
	respondJSON(w, http.StatusOK, accounts)
}

func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	account, err := h.ledger.GetAccount(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		respondLedgerError(w, err, "unable to load account")
		return
	}
	respondJSON(w, http.StatusOK, account)
}

type updateAccountRequest struct {
	Name *string `json:"name"`
	Type *string `json:"type"`
}

func (h *Handler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req updateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	account, err := h.ledger.UpdateAccount(r.Context(), services.UpdateAccountRequest{
		OwnerID:   userID,
		AccountID: chi.URLParam(r, "id"),
		Name:      req.Name,
		Type:      req.Type,
	})
	if err != nil {
		respondLedgerError(w, err, "unable to update account")
		return
	}
	respondJSON(w, http.StatusOK, account)
}

func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err := h.ledger.DeleteAccount(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		respondLedgerError(w, err, "unable to delete account")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "account deleted"})
}

// SelfCheck compares each account's stored balance against the signed sum of
// its transactions; a nonzero difference means the ledger has diverged.
func (h *Handler) SelfCheck(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	type row struct {
		AccountID      string          `db:"account_id"`
		Name           string          `db:"name"`
		AccountBalance decimal.Decimal `db:"account_balance"`
		TransactionSum decimal.Decimal `db:"transaction_sum"`
		Difference     decimal.Decimal `db:"difference"`
	}
	query := `
		SELECT a.id AS account_id,
		       a.name,
		       a.balance AS account_balance,
		       COALESCE(SUM(CASE WHEN t.type = 'credit' THEN t.amount ELSE -t.amount END), 0) AS transaction_sum,
		       (a.balance - COALESCE(SUM(CASE WHEN t.type = 'credit' THEN t.amount ELSE -t.amount END), 0)) AS difference
		FROM accounts a
		LEFT JOIN transactions t ON t.account_id = a.id
		WHERE a.user_id = $1
		GROUP BY a.id, a.name, a.balance
		ORDER BY a.name
	`
	var rows []row
	if err := h.reconcileDB.SelectContext(r.Context(), &rows, query, userID); err != nil {
		respondError(w, http.StatusInternalServerError, "unable to self_check")
		return
	}
	response := make([]map[string]any, 0, len(rows))
	for _, item := range rows {
		response = append(response, map[string]any{
			"account_id":      item.AccountID,
			"name":            item.Name,
			"account_balance": item.AccountBalance,
			"transaction_sum": item.TransactionSum,
			"difference":      item.Difference,
		})
	}
	respondJSON(w, http.StatusOK, response)
}
