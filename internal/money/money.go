package money

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrInvalidAmount = errors.New("invalid amount")

// ParseAmount converts a decoded JSON amount field into a decimal. Clients
// send amounts as JSON numbers or numeric strings; anything else is rejected.
// The sign is preserved so callers can decide how to normalize it.
func ParseAmount(value any) (decimal.Decimal, error) {
	switch v := value.(type) {
	case float64:
		return decimal.NewFromFloat(v), nil
	case json.Number:
		return parseString(v.String())
	case string:
		return parseString(v)
	default:
		return decimal.Zero, ErrInvalidAmount
	}
}

func parseString(raw string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	parsed, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	return parsed, nil
}
