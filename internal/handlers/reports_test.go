package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"moneybook/internal/services"

	"github.com/shopspring/decimal"
)

func TestSummaryRejectsBadStartDate(t *testing.T) {
	handler := newTestHandler(stubReconcileDB{}, fakeTxRunner{}, stubUserStore{}, stubLedger{}, stubReports{})
	req := httptest.NewRequest(http.MethodGet, "/reports/summary?start_date=not-a-date", nil)
	rr := doAuthed(t, handler.Routes(), req, "user-1")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestSummaryForwardsDateRange(t *testing.T) {
	var gotStart, gotEnd *time.Time
	reports := stubReports{
		summaryFn: func(ctx context.Context, ownerID string, start, end *time.Time) (services.Summary, error) {
			gotStart, gotEnd = start, end
			return services.Summary{
				TotalCredits: decimal.RequireFromString("100"),
				TotalDebits:  decimal.RequireFromString("42"),
				NetIncome:    decimal.RequireFromString("58"),
				TotalBalance: decimal.RequireFromString("158"),
			}, nil
		},
	}
	handler := newTestHandler(stubReconcileDB{}, fakeTxRunner{}, stubUserStore{}, stubLedger{}, reports)
	req := httptest.NewRequest(http.MethodGet, "/reports/summary?start_date=2026-01-01&end_date=2026-01-31", nil)
	rr := doAuthed(t, handler.Routes(), req, "user-1")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if gotStart == nil || gotEnd == nil {
		t.Fatal("date range not forwarded")
	}
	if gotStart.Day() != 1 || gotEnd.Day() != 31 {
		t.Fatalf("range %v..%v, want Jan 1..Jan 31", gotStart, gotEnd)
	}
	var resp struct {
		TotalCredits decimal.Decimal `json:"total_credits"`
		TotalDebits  decimal.Decimal `json:"total_debits"`
		NetIncome    decimal.Decimal `json:"net_income"`
		TotalBalance decimal.Decimal `json:"total_balance"`
		Period       struct {
			StartDate *string `json:"start_date"`
			EndDate   *string `json:"end_date"`
		} `json:"period"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.NetIncome.Equal(decimal.RequireFromString("58")) {
		t.Fatalf("net income %s, want 58", resp.NetIncome)
	}
	if resp.Period.StartDate == nil || *resp.Period.StartDate != "2026-01-01" {
		t.Fatalf("period start %v, want 2026-01-01", resp.Period.StartDate)
	}
}

func TestSummaryWithoutRangeEchoesNullPeriod(t *testing.T) {
	handler := newTestHandler(stubReconcileDB{}, fakeTxRunner{}, stubUserStore{}, stubLedger{}, stubReports{})
	req := httptest.NewRequest(http.MethodGet, "/reports/summary", nil)
	rr := doAuthed(t, handler.Routes(), req, "user-1")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"start_date":null`) {
		t.Fatalf("expected null start_date, got %s", rr.Body.String())
	}
}

func TestMonthlyRejectsNonIntegerMonth(t *testing.T) {
	handler := newTestHandler(stubReconcileDB{}, fakeTxRunner{}, stubUserStore{}, stubLedger{}, stubReports{})
	req := httptest.NewRequest(http.MethodGet, "/reports/monthly?year=2026&month=march", nil)
	rr := doAuthed(t, handler.Routes(), req, "user-1")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestMonthlyRejectsOutOfRangeMonth(t *testing.T) {
	reports := stubReports{
		monthlyFn: func(ctx context.Context, ownerID string, year, month int) (services.MonthlyReport, error) {
			return services.MonthlyReport{}, services.ErrInvalidPeriod
		},
	}
	handler := newTestHandler(stubReconcileDB{}, fakeTxRunner{}, stubUserStore{}, stubLedger{}, reports)
	req := httptest.NewRequest(http.MethodGet, "/reports/monthly?year=2026&month=13", nil)
	rr := doAuthed(t, handler.Routes(), req, "user-1")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestMonthlyDefaultsToCurrentMonth(t *testing.T) {
	var gotYear, gotMonth int
	reports := stubReports{
		monthlyFn: func(ctx context.Context, ownerID string, year, month int) (services.MonthlyReport, error) {
			gotYear, gotMonth = year, month
			return services.MonthlyReport{}, nil
		},
	}
	handler := newTestHandler(stubReconcileDB{}, fakeTxRunner{}, stubUserStore{}, stubLedger{}, reports)
	req := httptest.NewRequest(http.MethodGet, "/reports/monthly", nil)
	rr := doAuthed(t, handler.Routes(), req, "user-1")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	now := time.Now().UTC()
	if gotYear != now.Year() || gotMonth != int(now.Month()) {
		t.Fatalf("defaulted to %d-%d, want %d-%d", gotYear, gotMonth, now.Year(), int(now.Month()))
	}
}

func TestMonthlyForwardsExplicitPeriod(t *testing.T) {
	var gotYear, gotMonth int
	reports := stubReports{
		monthlyFn: func(ctx context.Context, ownerID string, year, month int) (services.MonthlyReport, error) {
			gotYear, gotMonth = year, month
			return services.MonthlyReport{}, nil
		},
	}
	handler := newTestHandler(stubReconcileDB{}, fakeTxRunner{}, stubUserStore{}, stubLedger{}, reports)
	req := httptest.NewRequest(http.MethodGet, "/reports/monthly?year=2025&month=12", nil)
	rr := doAuthed(t, handler.Routes(), req, "user-1")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if gotYear != 2025 || gotMonth != 12 {
		t.Fatalf("forwarded %d-%d, want 2025-12", gotYear, gotMonth)
	}
}
