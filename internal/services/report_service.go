package services

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"moneybook/internal/models"
	"moneybook/internal/store"
)

var ErrInvalidPeriod = errors.New("month must be between 1 and 12")

type ReportAccountStore interface {
	SumBalances(ctx context.Context, userID string) (decimal.Decimal, error)
}

type ReportTransactionStore interface {
	SumByType(ctx context.Context, userID, transactionType string, start, end *time.Time) (decimal.Decimal, error)
	ListInWindow(ctx context.Context, userID string, start, end time.Time) ([]store.TransactionWithAccount, error)
}

// ReportService aggregates over the ledger's data without mutating it.
type ReportService struct {
	accounts     ReportAccountStore
	transactions ReportTransactionStore
}

func NewReportService(accounts ReportAccountStore, transactions ReportTransactionStore) *ReportService {
	return &ReportService{accounts: accounts, transactions: transactions}
}

type Summary struct {
	TotalCredits decimal.Decimal `json:"total_credits"`
	TotalDebits  decimal.Decimal `json:"total_debits"`
	NetIncome    decimal.Decimal `json:"net_income"`
	TotalBalance decimal.Decimal `json:"total_balance"`
}

// Summary totals credits and debits over the owner's transactions, optionally
// bounded by an inclusive date range. TotalBalance always reflects the present
// balances regardless of the range.
func (s *ReportService) Summary(ctx context.Context, ownerID string, start, end *time.Time) (Summary, error) {
	credits, err := s.transactions.SumByType(ctx, ownerID, models.TransactionCredit, start, end)
	if err != nil {
		return Summary{}, err
	}
	debits, err := s.transactions.SumByType(ctx, ownerID, models.TransactionDebit, start, end)
	if err != nil {
		return Summary{}, err
	}
	balance, err := s.accounts.SumBalances(ctx, ownerID)
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		TotalCredits: credits,
		TotalDebits:  debits,
		NetIncome:    credits.Sub(debits),
		TotalBalance: balance,
	}, nil
}

type MonthlyPeriod struct {
	Year      int       `json:"year"`
	Month     int       `json:"month"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

type MonthlyTotals struct {
	TotalCredits decimal.Decimal `json:"total_credits"`
	TotalDebits  decimal.Decimal `json:"total_debits"`
}

type AccountActivity struct {
	AccountType  string               `json:"account_type"`
	TotalCredits decimal.Decimal      `json:"total_credits"`
	TotalDebits  decimal.Decimal      `json:"total_debits"`
	Transactions []models.Transaction `json:"transactions"`
}

type MonthlyReport struct {
	Period    MonthlyPeriod              `json:"period"`
	Summary   MonthlyTotals              `json:"summary"`
	ByAccount map[string]AccountActivity `json:"by_account"`
}

// Monthly reports the owner's activity for one calendar month, the window
// being [first of month, first of next month). Accounts without transactions
// in the window are omitted; active ones are keyed by account name.
func (s *ReportService) Monthly(ctx context.Context, ownerID string, year, month int) (MonthlyReport, error) {
	if month < 1 || month > 12 {
		return MonthlyReport{}, ErrInvalidPeriod
	}
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	rows, err := s.transactions.ListInWindow(ctx, ownerID, start, end)
	if err != nil {
		return MonthlyReport{}, err
	}
	report := MonthlyReport{
		Period: MonthlyPeriod{
			Year:      year,
			Month:     month,
			StartDate: start,
			EndDate:   end,
		},
		ByAccount: make(map[string]AccountActivity),
	}
	for _, row := range rows {
		activity, seen := report.ByAccount[row.AccountName]
		if !seen {
			activity.AccountType = row.AccountType
		}
		if row.Type == models.TransactionCredit {
			report.Summary.TotalCredits = report.Summary.TotalCredits.Add(row.Amount)
			activity.TotalCredits = activity.TotalCredits.Add(row.Amount)
		} else {
			report.Summary.TotalDebits = report.Summary.TotalDebits.Add(row.Amount)
			activity.TotalDebits = activity.TotalDebits.Add(row.Amount)
		}
		activity.Transactions = append(activity.Transactions, row.Transaction)
		report.ByAccount[row.AccountName] = activity
	}
	return report, nil
}
