package money

import (
	"encoding/json"
	"testing"
)

func TestParseAmountNumber(t *testing.T) {
	amount, err := ParseAmount(float64(100.5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if amount.String() != "100.5" {
		t.Fatalf("unexpected amount: %s", amount)
	}
}

func TestParseAmountString(t *testing.T) {
	amount, err := ParseAmount(" -30.25 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if amount.String() != "-30.25" {
		t.Fatalf("unexpected amount: %s", amount)
	}
}

func TestParseAmountJSONNumber(t *testing.T) {
	amount, err := ParseAmount(json.Number("42"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !amount.Equal(amount.Abs()) || amount.String() != "42" {
		t.Fatalf("unexpected amount: %s", amount)
	}
}

func TestParseAmountInvalid(t *testing.T) {
	for _, value := range []any{nil, "abc", "", true, []any{1}} {
		if _, err := ParseAmount(value); err != ErrInvalidAmount {
			t.Fatalf("expected ErrInvalidAmount for %#v, got %v", value, err)
		}
	}
}
