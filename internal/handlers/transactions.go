package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"moneybook/internal/middleware"
	"moneybook/internal/money"
	"moneybook/internal/services"

	"github.com/go-chi/chi/v5"
)

type createTransactionRequest struct {
	AccountID   string `json:"account_id"`
	Amount      any    `json:"amount"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Date        string `json:"date"`
}

func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.AccountID == "" {
		respondError(w, http.StatusBadRequest, "account_id is required")
		return
	}
	amount, err := money.ParseAmount(req.Amount)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_amount")
		return
	}
	var date *time.Time
	if req.Date != "" {
		parsed, err := parseDate(req.Date)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid_date")
			return
		}
		date = &parsed
	}
	transaction, err := h.ledger.PostTransaction(r.Context(), services.PostTransactionRequest{
		OwnerID:     userID,
		AccountID:   req.AccountID,
		Amount:      amount,
		Type:        req.Type,
		Description: req.Description,
		Date:        date,
	})
	if err != nil {
		respondLedgerError(w, err, "unable to create transaction")
		return
	}
	respondJSON(w, http.StatusCreated, transaction)
}

func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	accountID := r.URL.Query().Get("account_id")
	transactions, err := h.ledger.ListTransactions(r.Context(), userID, accountID)
	if err != nil {
		respondLedgerError(w, err, "unable to load transactions")
		return
	}
	respondJSON(w, http.StatusOK, transactions)
}

func (h *Handler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	transaction, err := h.ledger.GetTransaction(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		respondLedgerError(w, err, "unable to load transaction")
		return
	}
	respondJSON(w, http.StatusOK, transaction)
}

func (h *Handler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err := h.ledger.DeleteTransaction(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		respondLedgerError(w, err, "unable to delete transaction")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "transaction deleted"})
}
