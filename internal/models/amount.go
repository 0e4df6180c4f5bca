package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a monetary amount in minor currency units (cents). All ledger
// arithmetic happens on integers; the JSON representation is an exact
// decimal in major units, so 12345 marshals as 123.45.
type Amount int64

// AmountFromDecimal converts a decimal major-unit value to an Amount.
// Fractions beyond the minor unit are rejected.
func AmountFromDecimal(d decimal.Decimal) (Amount, error) {
	cents := d.Mul(decimal.NewFromInt(100))
	if !cents.IsInteger() {
		return 0, ErrAmountPrecision
	}

	return Amount(cents.IntPart()), nil
}

// Decimal returns the amount as a decimal in major units.
func (a Amount) Decimal() decimal.Decimal {
	return decimal.New(int64(a), -2)
}

// String returns the amount formatted in major units, e.g. "123.45".
func (a Amount) String() string {
	return a.Decimal().StringFixed(2)
}

// MarshalJSON implements the json.Marshaler interface.
// Amounts are written as plain decimal numbers.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.Decimal().StringFixed(2)), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface.
// Both JSON numbers and quoted decimal strings are accepted.
func (a *Amount) UnmarshalJSON(data []byte) error {
	value := strings.Trim(string(data), `"`)
	if value == "" || value == "null" {
		return nil
	}

	d, err := decimal.NewFromString(value)
	if err != nil {
		return ErrAmountInvalid
	}

	parsed, err := AmountFromDecimal(d)
	if err != nil {
		return err
	}

	*a = parsed
	return nil
}
