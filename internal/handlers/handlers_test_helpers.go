package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"moneybook/internal/auth"
	"moneybook/internal/config"
	"moneybook/internal/models"
	"moneybook/internal/services"
	"moneybook/internal/store"
	"moneybook/internal/websocket"

	"github.com/jmoiron/sqlx"
)

type fakeTxRunner struct {
	withTxFn func(ctx context.Context, fn func(*sqlx.Tx) error) error
}

func (f fakeTxRunner) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	if f.withTxFn != nil {
		return f.withTxFn(ctx, fn)
	}
	return fn(nil)
}

type stubReconcileDB struct {
	selectFn func(ctx context.Context, dest any, query string, args ...any) error
}

func (s stubReconcileDB) SelectContext(ctx context.Context, dest any, query string, args ...any) error {
	if s.selectFn == nil {
		return nil
	}
	return s.selectFn(ctx, dest, query, args...)
}

type stubUserStore struct {
	createFn     func(ctx context.Context, tx store.Execer, id, username, email, passwordHash string) error
	getByEmailFn func(ctx context.Context, email string) (models.User, error)
	getByIDFn    func(ctx context.Context, userID string) (models.User, error)
}

func (s stubUserStore) Create(ctx context.Context, tx store.Execer, id, username, email, passwordHash string) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, id, username, email, passwordHash)
}

func (s stubUserStore) GetByEmail(ctx context.Context, email string) (models.User, error) {
	if s.getByEmailFn == nil {
		return models.User{}, nil
	}
	return s.getByEmailFn(ctx, email)
}

func (s stubUserStore) GetByID(ctx context.Context, userID string) (models.User, error) {
	if s.getByIDFn == nil {
		return models.User{ID: userID}, nil
	}
	return s.getByIDFn(ctx, userID)
}

type stubLedger struct {
	createAccountFn     func(ctx context.Context, req services.CreateAccountRequest) (models.Account, error)
	updateAccountFn     func(ctx context.Context, req services.UpdateAccountRequest) (models.Account, error)
	deleteAccountFn     func(ctx context.Context, ownerID, accountID string) error
	listAccountsFn      func(ctx context.Context, ownerID string) ([]models.Account, error)
	getAccountFn        func(ctx context.Context, ownerID, accountID string) (models.Account, error)
	postTransactionFn   func(ctx context.Context, req services.PostTransactionRequest) (models.Transaction, error)
	deleteTransactionFn func(ctx context.Context, ownerID, transactionID string) error
	getTransactionFn    func(ctx context.Context, ownerID, transactionID string) (models.Transaction, error)
	listTransactionsFn  func(ctx context.Context, ownerID, accountID string) ([]models.Transaction, error)
}

func (s stubLedger) CreateAccount(ctx context.Context, req services.CreateAccountRequest) (models.Account, error) {
	if s.createAccountFn == nil {
		return models.Account{}, nil
	}
	return s.createAccountFn(ctx, req)
}

func (s stubLedger) UpdateAccount(ctx context.Context, req services.UpdateAccountRequest) (models.Account, error) {
	if s.updateAccountFn == nil {
		return models.Account{}, nil
	}
	return s.updateAccountFn(ctx, req)
}

func (s stubLedger) DeleteAccount(ctx context.Context, ownerID, accountID string) error {
	if s.deleteAccountFn == nil {
		return nil
	}
	return s.deleteAccountFn(ctx, ownerID, accountID)
}

func (s stubLedger) ListAccounts(ctx context.Context, ownerID string) ([]models.Account, error) {
	if s.listAccountsFn == nil {
		return nil, nil
	}
	return s.listAccountsFn(ctx, ownerID)
}

func (s stubLedger) GetAccount(ctx context.Context, ownerID, accountID string) (models.Account, error) {
	if s.getAccountFn == nil {
		return models.Account{}, nil
	}
	return s.getAccountFn(ctx, ownerID, accountID)
}

func (s stubLedger) PostTransaction(ctx context.Context, req services.PostTransactionRequest) (models.Transaction, error) {
	if s.postTransactionFn == nil {
		return models.Transaction{}, nil
	}
	return s.postTransactionFn(ctx, req)
}

func (s stubLedger) DeleteTransaction(ctx context.Context, ownerID, transactionID string) error {
	if s.deleteTransactionFn == nil {
		return nil
	}
	return s.deleteTransactionFn(ctx, ownerID, transactionID)
}

func (s stubLedger) GetTransaction(ctx context.Context, ownerID, transactionID string) (models.Transaction, error) {
	if s.getTransactionFn == nil {
		return models.Transaction{}, nil
	}
	return s.getTransactionFn(ctx, ownerID, transactionID)
}

func (s stubLedger) ListTransactions(ctx context.Context, ownerID, accountID string) ([]models.Transaction, error) {
	if s.listTransactionsFn == nil {
		return nil, nil
	}
	return s.listTransactionsFn(ctx, ownerID, accountID)
}

type stubReports struct {
	summaryFn func(ctx context.Context, ownerID string, start, end *time.Time) (services.Summary, error)
	monthlyFn func(ctx context.Context, ownerID string, year, month int) (services.MonthlyReport, error)
}

func (s stubReports) Summary(ctx context.Context, ownerID string, start, end *time.Time) (services.Summary, error) {
	if s.summaryFn == nil {
		return services.Summary{}, nil
	}
	return s.summaryFn(ctx, ownerID, start, end)
}

func (s stubReports) Monthly(ctx context.Context, ownerID string, year, month int) (services.MonthlyReport, error) {
	if s.monthlyFn == nil {
		return services.MonthlyReport{}, nil
	}
	return s.monthlyFn(ctx, ownerID, year, month)
}

func newTestHandler(reconcileDB store.Selecter, txRunner fakeTxRunner, users stubUserStore, ledger stubLedger, reports stubReports) *Handler {
	cfg := config.Config{JWTSecret: "secret", TokenTTL: time.Minute, AllowedOrigins: "*"}
	return New(reconcileDB, txRunner, cfg, users, ledger, reports, websocket.NewHub())
}

func bearerToken(t *testing.T, userID string) string {
	t.Helper()
	token, err := auth.GenerateToken("secret", userID, time.Minute)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	return token
}

func doAuthed(t *testing.T, handler http.Handler, req *http.Request, userID string) *httptest.ResponseRecorder {
	t.Helper()
	req.Header.Set("Authorization", "Bearer "+bearerToken(t, userID))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}
