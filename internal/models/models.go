package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TransactionCredit = "credit"
	TransactionDebit  = "debit"
)

type User struct {
	ID           string    `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

type Account struct {
	ID        string          `db:"id" json:"id"`
	UserID    string          `db:"user_id" json:"user_id"`
	Name      string          `db:"name" json:"name"`
	Type      string          `db:"type" json:"type"`
	Balance   decimal.Decimal `db:"balance" json:"balance"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}

// Amount is always a non-negative magnitude; the direction lives in Type.
type Transaction struct {
	ID          string          `db:"id" json:"id"`
	AccountID   string          `db:"account_id" json:"account_id"`
	Amount      decimal.Decimal `db:"amount" json:"amount"`
	Type        string          `db:"type" json:"type"`
	Description string          `db:"description" json:"description"`
	Date        time.Time       `db:"date" json:"date"`
	Seq         int64           `db:"seq" json:"-"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}

// SignedAmount is the transaction's contribution to its account balance.
func (t Transaction) SignedAmount() decimal.Decimal {
	if t.Type == TransactionDebit {
		return t.Amount.Neg()
	}
	return t.Amount
}
