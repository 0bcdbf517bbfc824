package store

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"moneybook/internal/models"
)

func TestAccountStoreCreate(t *testing.T) {
	ctx := context.Background()
	execer := stubExecer{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "INSERT INTO accounts") {
				t.Fatalf("unexpected query: %s", query)
			}
			if len(args) != 5 {
				t.Fatalf("expected 5 args, got %d", len(args))
			}
			if args[0] != "acc-1" || args[1] != "user-1" || args[2] != "bank" || args[3] != "checking" {
				t.Fatalf("unexpected args: %#v", args)
			}
			balance, ok := args[4].(decimal.Decimal)
			if !ok || !balance.Equal(decimal.NewFromInt(100)) {
				t.Fatalf("unexpected balance arg: %#v", args[4])
			}
			return stubResult{rows: 1}, nil
		},
	}
	store := NewAccountStore(stubDB{})
	if err := store.Create(ctx, execer, "acc-1", "user-1", "bank", "checking", decimal.NewFromInt(100)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAccountStoreListByUser(t *testing.T) {
	ctx := context.Background()
	store := NewAccountStore(stubDB{
		selectFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "FROM accounts") || !strings.Contains(query, "WHERE user_id = $1") {
				t.Fatalf("unexpected query: %s", query)
			}
			if len(args) != 1 || args[0] != "user-1" {
				t.Fatalf("unexpected args: %#v", args)
			}
			*dest.(*[]models.Account) = []models.Account{{ID: "acc-1", Name: "bank"}}
			return nil
		},
	})
	rows, err := store.ListByUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 || rows[0].Name != "bank" {
		t.Fatalf("unexpected rows: %#v", rows)
	}
}

func TestAccountStoreGetForUserScopesByOwner(t *testing.T) {
	ctx := context.Background()
	store := NewAccountStore(stubDB{
		getFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "WHERE id = $1 AND user_id = $2") {
				t.Fatalf("unexpected query: %s", query)
			}
			if len(args) != 2 || args[0] != "acc-1" || args[1] != "user-1" {
				t.Fatalf("unexpected args: %#v", args)
			}
			*dest.(*models.Account) = models.Account{ID: "acc-1", UserID: "user-1"}
			return nil
		},
	})
	account, err := store.GetForUser(ctx, "acc-1", "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if account.ID != "acc-1" {
		t.Fatalf("unexpected account: %#v", account)
	}
}

func TestAccountStoreGetForUpdateLocksRow(t *testing.T) {
	ctx := context.Background()
	getter := stubGetter{
		getFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "FOR UPDATE") {
				t.Fatalf("expected FOR UPDATE, got: %s", query)
			}
			*dest.(*models.Account) = models.Account{ID: "acc-1", Balance: decimal.NewFromInt(70)}
			return nil
		},
	}
	store := NewAccountStore(stubDB{})
	account, err := store.GetForUpdate(ctx, getter, "acc-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !account.Balance.Equal(decimal.NewFromInt(70)) {
		t.Fatalf("unexpected balance: %s", account.Balance)
	}
}

func TestAccountStoreAdjustBalance(t *testing.T) {
	ctx := context.Background()
	execer := stubExecer{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "SET balance = balance + $1") {
				t.Fatalf("unexpected query: %s", query)
			}
			delta, ok := args[0].(decimal.Decimal)
			if !ok || !delta.Equal(decimal.NewFromInt(-30)) {
				t.Fatalf("unexpected delta arg: %#v", args[0])
			}
			return stubResult{rows: 1}, nil
		},
	}
	store := NewAccountStore(stubDB{})
	rows, err := store.AdjustBalance(ctx, execer, "acc-1", decimal.NewFromInt(-30))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows != 1 {
		t.Fatalf("expected 1 row affected, got %d", rows)
	}
}

func TestAccountStoreDelete(t *testing.T) {
	ctx := context.Background()
	execer := stubExecer{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "DELETE FROM accounts WHERE id = $1") {
				t.Fatalf("unexpected query: %s", query)
			}
			return stubResult{rows: 1}, nil
		},
	}
	store := NewAccountStore(stubDB{})
	rows, err := store.Delete(ctx, execer, "acc-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows != 1 {
		t.Fatalf("expected 1 row affected, got %d", rows)
	}
}

func TestAccountStoreSumBalances(t *testing.T) {
	ctx := context.Background()
	store := NewAccountStore(stubDB{
		getFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "COALESCE(SUM(balance), 0)") {
				t.Fatalf("unexpected query: %s", query)
			}
			*dest.(*decimal.Decimal) = decimal.NewFromInt(170)
			return nil
		},
	})
	sum, err := store.SumBalances(ctx, "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !sum.Equal(decimal.NewFromInt(170)) {
		t.Fatalf("unexpected sum: %s", sum)
	}
}
