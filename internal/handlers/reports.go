package handlers

import (
	"net/http"
	"strconv"
	"time"

	"moneybook/internal/middleware"
)

func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	query := r.URL.Query()
	var start, end *time.Time
	var startRaw, endRaw *string
	if raw := query.Get("start_date"); raw != "" {
		parsed, err := parseDate(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid start_date")
			return
		}
		start = &parsed
		startRaw = &raw
	}
	if raw := query.Get("end_date"); raw != "" {
		parsed, err := parseDate(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid end_date")
			return
		}
		end = &parsed
		endRaw = &raw
	}
	summary, err := h.reports.Summary(r.Context(), userID, start, end)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to build summary")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"total_credits": summary.TotalCredits,
		"total_debits":  summary.TotalDebits,
		"net_income":    summary.NetIncome,
		"total_balance": summary.TotalBalance,
		"period": map[string]any{
			"start_date": startRaw,
			"end_date":   endRaw,
		},
	})
}

func (h *Handler) MonthlyReport(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	now := time.Now().UTC()
	query := r.URL.Query()
	year := now.Year()
	month := int(now.Month())
	if raw := query.Get("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "year and month must be integers")
			return
		}
		year = parsed
	}
	if raw := query.Get("month"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "year and month must be integers")
			return
		}
		month = parsed
	}
	report, err := h.reports.Monthly(r.Context(), userID, year, month)
	if err != nil {
		respondLedgerError(w, err, "unable to build monthly report")
		return
	}
	respondJSON(w, http.StatusOK, report)
}
