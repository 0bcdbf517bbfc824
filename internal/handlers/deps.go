package handlers

import (
	"context"
	"time"

	"moneybook/internal/models"
	"moneybook/internal/services"
	"moneybook/internal/store"
)

type UserStore interface {
	Create(ctx context.Context, tx store.Execer, id, username, email, passwordHash string) error
	GetByEmail(ctx context.Context, email string) (models.User, error)
	GetByID(ctx context.Context, userID string) (models.User, error)
}

type Ledger interface {
	CreateAccount(ctx context.Context, req services.CreateAccountRequest) (models.Account, error)
	UpdateAccount(ctx context.Context, req services.UpdateAccountRequest) (models.Account, error)
	DeleteAccount(ctx context.Context, ownerID, accountID string) error
	ListAccounts(ctx context.Context, ownerID string) ([]models.Account, error)
	GetAccount(ctx context.Context, ownerID, accountID string) (models.Account, error)
	PostTransaction(ctx context.Context, req services.PostTransactionRequest) (models.Transaction, error)
	DeleteTransaction(ctx context.Context, ownerID, transactionID string) error
	GetTransaction(ctx context.Context, ownerID, transactionID string) (models.Transaction, error)
	ListTransactions(ctx context.Context, ownerID, accountID string) ([]models.Transaction, error)
}

type Reports interface {
	Summary(ctx context.Context, ownerID string, start, end *time.Time) (services.Summary, error)
	Monthly(ctx context.Context, ownerID string, year, month int) (services.MonthlyReport, error)
}
