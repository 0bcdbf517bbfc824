package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"moneybook/internal/money"
	"moneybook/internal/services"
	"moneybook/internal/validator"
)

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondLedgerError maps domain errors onto statuses; anything unrecognized
// becomes a 500 with the given fallback message.
func respondLedgerError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrAccountNotFound):
		respondError(w, http.StatusNotFound, "account_not_found")
	case errors.Is(err, services.ErrTransactionNotFound):
		respondError(w, http.StatusNotFound, "transaction_not_found")
	case errors.Is(err, services.ErrForbidden):
		respondError(w, http.StatusForbidden, "access_denied")
	case errors.Is(err, services.ErrDuplicateAccountName):
		respondError(w, http.StatusConflict, "duplicate_account_name")
	case errors.Is(err, services.ErrInvalidTransactionType),
		errors.Is(err, services.ErrInvalidPeriod),
		errors.Is(err, validator.ErrMissingAccountName),
		errors.Is(err, validator.ErrMissingAccountType),
		errors.Is(err, money.ErrInvalidAmount):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, fallback)
	}
}
