package store

import (
	"context"

	"github.com/shopspring/decimal"

	"moneybook/internal/models"
)

type AccountStore struct {
	db DB
}

func NewAccountStore(db DB) *AccountStore {
	return &AccountStore{db: db}
}

func (s *AccountStore) Create(ctx context.Context, tx Execer, id, userID, name, accountType string, balance decimal.Decimal) error {
	query := `
		INSERT INTO accounts (id, user_id, name, type, balance)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := tx.ExecContext(ctx, query, id, userID, name, accountType, balance)
	return err
}

func (s *AccountStore) ListByUser(ctx context.Context, userID string) ([]models.Account, error) {
	var rows []models.Account
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, user_id, name, type, balance, created_at
		FROM accounts
		WHERE user_id = $1
		ORDER BY created_at ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// GetForUser resolves an account only when it belongs to the given user;
// a foreign account is indistinguishable from a missing one.
func (s *AccountStore) GetForUser(ctx context.Context, accountID, userID string) (models.Account, error) {
	var row models.Account
	err := s.db.GetContext(ctx, &row, `
		SELECT id, user_id, name, type, balance, created_at
		FROM accounts
		WHERE id = $1 AND user_id = $2
	`, accountID, userID)
	if err != nil {
		return models.Account{}, err
	}
	return row, nil
}

func (s *AccountStore) GetByName(ctx context.Context, userID, name string) (models.Account, error) {
	var row models.Account
	err := s.db.GetContext(ctx, &row, `
		SELECT id, user_id, name, type, balance, created_at
		FROM accounts
		WHERE user_id = $1 AND name = $2
	`, userID, name)
	if err != nil {
		return models.Account{}, err
	}
	return row, nil
}

func (s *AccountStore) GetForUpdate(ctx context.Context, tx Getter, accountID string) (models.Account, error) {
	var row models.Account
	err := tx.GetContext(ctx, &row, `
		SELECT id, user_id, name, type, balance
		FROM accounts
		WHERE id = $1
		FOR UPDATE
	`, accountID)
	if err != nil {
		return models.Account{}, err
	}
	return row, nil
}

func (s *AccountStore) Update(ctx context.Context, tx Execer, accountID, name, accountType string) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE accounts
		SET name = $1, type = $2
		WHERE id = $3
	`, name, accountType, accountID)
	return err
}

func (s *AccountStore) Delete(ctx context.Context, tx Execer, accountID string) (int64, error) {
	res, err := tx.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, accountID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *AccountStore) AdjustBalance(ctx context.Context, tx Execer, accountID string, delta decimal.Decimal) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE accounts
		SET balance = balance + $1
		WHERE id = $2
	`, delta, accountID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *AccountStore) SumBalances(ctx context.Context, userID string) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := s.db.GetContext(ctx, &sum, `
		SELECT COALESCE(SUM(balance), 0)
		FROM accounts
		WHERE user_id = $1
	`, userID)
	return sum, err
}
