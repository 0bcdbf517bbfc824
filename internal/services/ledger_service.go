package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"moneybook/internal/db"
	"moneybook/internal/models"
	"moneybook/internal/store"
	"moneybook/internal/validator"
	"moneybook/internal/websocket"
)

var (
	ErrAccountNotFound        = errors.New("account not found")
	ErrTransactionNotFound    = errors.New("transaction not found")
	ErrForbidden              = errors.New("transaction does not belong to user")
	ErrDuplicateAccountName   = errors.New("account name already exists")
	ErrInvalidTransactionType = errors.New("transaction type must be credit or debit")
)

type AccountStore interface {
	Create(ctx context.Context, tx store.Execer, id, userID, name, accountType string, balance decimal.Decimal) error
	ListByUser(ctx context.Context, userID string) ([]models.Account, error)
	GetForUser(ctx context.Context, accountID, userID string) (models.Account, error)
	GetByName(ctx context.Context, userID, name string) (models.Account, error)
	GetForUpdate(ctx context.Context, tx store.Getter, accountID string) (models.Account, error)
	Update(ctx context.Context, tx store.Execer, accountID, name, accountType string) error
	Delete(ctx context.Context, tx store.Execer, accountID string) (int64, error)
	AdjustBalance(ctx context.Context, tx store.Execer, accountID string, delta decimal.Decimal) (int64, error)
}

type TransactionStore interface {
	Create(ctx context.Context, tx store.Execer, input store.TransactionInput) error
	GetByID(ctx context.Context, transactionID string) (models.Transaction, error)
	Delete(ctx context.Context, tx store.Execer, transactionID string) (int64, error)
	ListByUser(ctx context.Context, userID string) ([]models.Transaction, error)
	ListByAccount(ctx context.Context, accountID string) ([]models.Transaction, error)
}

type BalanceHub interface {
	BroadcastBalance(userID string, update websocket.BalanceUpdate)
}

// LedgerService owns accounts and their transactions. Every write that moves
// a balance runs as one storage transaction: the transaction row and the
// account's balance column commit together or not at all, with the account
// row locked for the duration.
type LedgerService struct {
	txRunner     db.TxRunner
	accounts     AccountStore
	transactions TransactionStore
	hub          BalanceHub
}

func NewLedgerService(txRunner db.TxRunner, accounts AccountStore, transactions TransactionStore, hub BalanceHub) *LedgerService {
	return &LedgerService{
		txRunner:     txRunner,
		accounts:     accounts,
		transactions: transactions,
		hub:          hub,
	}
}

type CreateAccountRequest struct {
	OwnerID string
	Name    string
	Type    string
	Balance decimal.Decimal
}

func (s *LedgerService) CreateAccount(ctx context.Context, req CreateAccountRequest) (models.Account, error) {
	name := strings.TrimSpace(req.Name)
	accountType := strings.TrimSpace(req.Type)
	if err := validator.ValidateAccountName(name); err != nil {
		return models.Account{}, err
	}
	if err := validator.ValidateAccountType(accountType); err != nil {
		return models.Account{}, err
	}
	if _, err := s.accounts.GetByName(ctx, req.OwnerID, name); err == nil {
		return models.Account{}, ErrDuplicateAccountName
	} else if !errors.Is(err, sql.ErrNoRows) {
		return models.Account{}, err
	}
	accountID := uuid.NewString()
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		return s.accounts.Create(ctx, tx, accountID, req.OwnerID, name, accountType, req.Balance)
	})
	if err != nil {
		if isUniqueViolation(err) {
			return models.Account{}, ErrDuplicateAccountName
		}
		return models.Account{}, err
	}
	return s.accounts.GetForUser(ctx, accountID, req.OwnerID)
}

type UpdateAccountRequest struct {
	OwnerID   string
	AccountID string
	Name      *string
	Type      *string
}

func (s *LedgerService) UpdateAccount(ctx context.Context, req UpdateAccountRequest) (models.Account, error) {
	account, err := s.accounts.GetForUser(ctx, req.AccountID, req.OwnerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Account{}, ErrAccountNotFound
		}
		return models.Account{}, err
	}
	name := account.Name
	accountType := account.Type
	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		if err := validator.ValidateAccountName(trimmed); err != nil {
			return models.Account{}, err
		}
		existing, err := s.accounts.GetByName(ctx, req.OwnerID, trimmed)
		if err == nil && existing.ID != account.ID {
			return models.Account{}, ErrDuplicateAccountName
		}
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return models.Account{}, err
		}
		name = trimmed
	}
	if req.Type != nil {
		trimmed := strings.TrimSpace(*req.Type)
		if err := validator.ValidateAccountType(trimmed); err != nil {
			return models.Account{}, err
		}
		accountType = trimmed
	}
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		return s.accounts.Update(ctx, tx, account.ID, name, accountType)
	})
	if err != nil {
		if isUniqueViolation(err) {
			return models.Account{}, ErrDuplicateAccountName
		}
		return models.Account{}, err
	}
	account.Name = name
	account.Type = accountType
	return account, nil
}

// DeleteAccount removes the account and, through the schema cascade, every
// transaction posted against it.
func (s *LedgerService) DeleteAccount(ctx context.Context, ownerID, accountID string) error {
	if _, err := s.accounts.GetForUser(ctx, accountID, ownerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrAccountNotFound
		}
		return err
	}
	return s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		rows, err := s.accounts.Delete(ctx, tx, accountID)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrAccountNotFound
		}
		return nil
	})
}

func (s *LedgerService) ListAccounts(ctx context.Context, ownerID string) ([]models.Account, error) {
	return s.accounts.ListByUser(ctx, ownerID)
}

func (s *LedgerService) GetAccount(ctx context.Context, ownerID, accountID string) (models.Account, error) {
	account, err := s.accounts.GetForUser(ctx, accountID, ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Account{}, ErrAccountNotFound
		}
		return models.Account{}, err
	}
	return account, nil
}

type PostTransactionRequest struct {
	OwnerID     string
	AccountID   string
	Amount      decimal.Decimal
	Type        string
	Description string
	Date        *time.Time
}

// PostTransaction records a credit or debit and moves the owning account's
// balance by the same signed amount inside one storage transaction. Negative
// amounts are flipped to their magnitude; the direction comes from Type only.
func (s *LedgerService) PostTransaction(ctx context.Context, req PostTransactionRequest) (models.Transaction, error) {
	if req.Type != models.TransactionCredit && req.Type != models.TransactionDebit {
		return models.Transaction{}, ErrInvalidTransactionType
	}
	amount := req.Amount.Abs()
	date := time.Now().UTC()
	if req.Date != nil {
		date = *req.Date
	}
	transactionID := uuid.NewString()
	var account models.Account
	var balanceAfter decimal.Decimal
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		locked, err := s.accounts.GetForUpdate(ctx, tx, req.AccountID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrAccountNotFound
			}
			return err
		}
		if locked.UserID != req.OwnerID {
			return ErrAccountNotFound
		}
		account = locked
		if err := s.transactions.Create(ctx, tx, store.TransactionInput{
			ID:          transactionID,
			AccountID:   req.AccountID,
			Amount:      amount,
			Type:        req.Type,
			Description: req.Description,
			Date:        date,
		}); err != nil {
			return err
		}
		delta := amount
		if req.Type == models.TransactionDebit {
			delta = amount.Neg()
		}
		if _, err := s.accounts.AdjustBalance(ctx, tx, req.AccountID, delta); err != nil {
			return err
		}
		balanceAfter = locked.Balance.Add(delta)
		return nil
	})
	if err != nil {
		return models.Transaction{}, err
	}
	s.hub.BroadcastBalance(req.OwnerID, websocket.BalanceUpdate{
		AccountID:   account.ID,
		AccountName: account.Name,
		Balance:     balanceAfter.String(),
	})
	return s.transactions.GetByID(ctx, transactionID)
}

// DeleteTransaction reverses the balance adjustment applied at creation and
// removes the row, again as one storage transaction. A transaction on another
// user's account is reported as forbidden, not missing.
func (s *LedgerService) DeleteTransaction(ctx context.Context, ownerID, transactionID string) error {
	txn, err := s.transactions.GetByID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrTransactionNotFound
		}
		return err
	}
	if _, err := s.accounts.GetForUser(ctx, txn.AccountID, ownerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrForbidden
		}
		return err
	}
	var account models.Account
	var balanceAfter decimal.Decimal
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		locked, err := s.accounts.GetForUpdate(ctx, tx, txn.AccountID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrTransactionNotFound
			}
			return err
		}
		account = locked
		rows, err := s.transactions.Delete(ctx, tx, transactionID)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrTransactionNotFound
		}
		delta := txn.SignedAmount().Neg()
		if _, err := s.accounts.AdjustBalance(ctx, tx, txn.AccountID, delta); err != nil {
			return err
		}
		balanceAfter = locked.Balance.Add(delta)
		return nil
	})
	if err != nil {
		return err
	}
	s.hub.BroadcastBalance(ownerID, websocket.BalanceUpdate{
		AccountID:   account.ID,
		AccountName: account.Name,
		Balance:     balanceAfter.String(),
	})
	return nil
}

func (s *LedgerService) GetTransaction(ctx context.Context, ownerID, transactionID string) (models.Transaction, error) {
	txn, err := s.transactions.GetByID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Transaction{}, ErrTransactionNotFound
		}
		return models.Transaction{}, err
	}
	if _, err := s.accounts.GetForUser(ctx, txn.AccountID, ownerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Transaction{}, ErrForbidden
		}
		return models.Transaction{}, err
	}
	return txn, nil
}

// ListTransactions returns the owner's transactions, most recent date first.
// With an account filter it returns only that account's rows, failing when the
// account is missing or foreign.
func (s *LedgerService) ListTransactions(ctx context.Context, ownerID, accountID string) ([]models.Transaction, error) {
	if accountID != "" {
		if _, err := s.accounts.GetForUser(ctx, accountID, ownerID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, ErrAccountNotFound
			}
			return nil, err
		}
		return s.transactions.ListByAccount(ctx, accountID)
	}
	return s.transactions.ListByUser(ctx, ownerID)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
