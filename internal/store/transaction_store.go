package store

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"moneybook/internal/models"
)

type TransactionStore struct {
	db DB
}

func NewTransactionStore(db DB) *TransactionStore {
	return &TransactionStore{db: db}
}

type TransactionInput struct {
	ID          string
	AccountID   string
	Amount      decimal.Decimal
	Type        string
	Description string
	Date        time.Time
}

// TransactionWithAccount carries the owning account's name and type alongside
// the transaction, for report grouping.
type TransactionWithAccount struct {
	models.Transaction
	AccountName string `db:"account_name"`
	AccountType string `db:"account_type"`
}

func (s *TransactionStore) Create(ctx context.Context, tx Execer, input TransactionInput) error {
	query := `
		INSERT INTO transactions (id, account_id, amount, type, description, date)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := tx.ExecContext(ctx, query,
		input.ID, input.AccountID, input.Amount, input.Type, input.Description, input.Date,
	)
	return err
}

func (s *TransactionStore) GetByID(ctx context.Context, transactionID string) (models.Transaction, error) {
	var row models.Transaction
	err := s.db.GetContext(ctx, &row, `
		SELECT id, account_id, amount, type, description, date, seq, created_at
		FROM transactions
		WHERE id = $1
	`, transactionID)
	if err != nil {
		return models.Transaction{}, err
	}
	return row, nil
}

func (s *TransactionStore) Delete(ctx context.Context, tx Execer, transactionID string) (int64, error) {
	res, err := tx.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1`, transactionID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *TransactionStore) ListByAccount(ctx context.Context, accountID string) ([]models.Transaction, error) {
	var rows []models.Transaction
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, account_id, amount, type, description, date, seq, created_at
		FROM transactions
		WHERE account_id = $1
		ORDER BY date DESC, seq ASC
	`, accountID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *TransactionStore) ListByUser(ctx context.Context, userID string) ([]models.Transaction, error) {
	var rows []models.Transaction
	err := s.db.SelectContext(ctx, &rows, `
		SELECT t.id, t.account_id, t.amount, t.type, t.description, t.date, t.seq, t.created_at
		FROM transactions t
		JOIN accounts a ON a.id = t.account_id
		WHERE a.user_id = $1
		ORDER BY t.date DESC, t.seq ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// SumByType totals transaction amounts of one type across all of the user's
// accounts, optionally bounded by an inclusive date range.
func (s *TransactionStore) SumByType(ctx context.Context, userID, transactionType string, start, end *time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(t.amount), 0)
		FROM transactions t
		JOIN accounts a ON a.id = t.account_id
		WHERE a.user_id = $1 AND t.type = $2
	`
	args := []any{userID, transactionType}
	if start != nil {
		args = append(args, *start)
		query += " AND t.date >= $" + itoa(len(args))
	}
	if end != nil {
		args = append(args, *end)
		query += " AND t.date <= $" + itoa(len(args))
	}
	var sum decimal.Decimal
	err := s.db.GetContext(ctx, &sum, query, args...)
	return sum, err
}

// ListInWindow returns the user's transactions in [start, end), oldest first,
// joined with the owning account's name and type.
func (s *TransactionStore) ListInWindow(ctx context.Context, userID string, start, end time.Time) ([]TransactionWithAccount, error) {
	var rows []TransactionWithAccount
	err := s.db.SelectContext(ctx, &rows, `
		SELECT t.id, t.account_id, t.amount, t.type, t.description, t.date, t.seq, t.created_at,
		       a.name AS account_name, a.type AS account_type
		FROM transactions t
		JOIN accounts a ON a.id = t.account_id
		WHERE a.user_id = $1 AND t.date >= $2 AND t.date < $3
		ORDER BY t.date ASC, t.seq ASC
	`, userID, start, end)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func itoa(value int) string {
	return fmt.Sprintf("%d", value)
}
