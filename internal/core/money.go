// Package core provides money parsing and handling utilities.
//
// Amounts are kept as the text the user entered so that nothing is lost on a
// round trip through the store. Aggregation reads them permissively: whatever
// does not parse as a number counts as zero.
package core

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a stored earning or goal amount.
type Amount struct {
	raw string
}

// leading numeric prefix, the same way a browser parseFloat reads "12.5abc" as 12.5
var numericPrefix = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// plainDecimal is what user input may look like: no sign, no exponent.
var plainDecimal = regexp.MustCompile(`^(\d+\.?\d*|\.\d+)$`)

// maxExponent bounds exponents read from stored amounts. Anything larger
// reads as zero instead of expanding into millions of digits.
const maxExponent = 30

// NewAmount wraps an already parsed value.
func NewAmount(d decimal.Decimal) Amount {
	return Amount{raw: d.String()}
}

// AmountOf wraps raw user input without validating it.
func AmountOf(raw string) Amount {
	return Amount{raw: raw}
}

func (a Amount) String() string {
	return a.raw
}

// Decimal returns the numeric value of the amount. Missing or malformed input
// yields zero; it never fails.
func (a Amount) Decimal() decimal.Decimal {
	m := numericPrefix.FindString(strings.TrimSpace(a.raw))
	if m == "" {
		return decimal.Zero
	}
	if i := strings.IndexAny(m, "eE"); i >= 0 {
		exp, err := strconv.Atoi(m[i+1:])
		if err != nil || exp > maxExponent || exp < -maxExponent {
			return decimal.Zero
		}
	}
	m = strings.TrimPrefix(strings.TrimSuffix(m, "."), "+")
	m = strings.Replace(m, ".e", "e", 1)
	m = strings.Replace(m, ".E", "E", 1)
	d, err := decimal.NewFromString(m)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// MarshalJSON writes plain decimal amounts as JSON numbers and anything else,
// exponent notation included, as the original string.
func (a Amount) MarshalJSON() ([]byte, error) {
	if a.raw == "" {
		return []byte("0"), nil
	}
	if plainDecimal.MatchString(strings.TrimPrefix(a.raw, "-")) {
		if d, err := decimal.NewFromString(a.raw); err == nil {
			return []byte(d.String()), nil
		}
	}
	return json.Marshal(a.raw)
}

// UnmarshalJSON accepts numbers, strings and null.
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		a.raw = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		a.raw = s
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		a.raw = n.String()
		return nil
	}
}

// ParseAmount strictly parses user input for a new earning.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators. Empty,
// non-numeric, exponent, negative and zero values are rejected with
// ErrInvalidAmount.
func ParseAmount(s string) (Amount, error) {
	d, err := parsePlain(s)
	if err != nil || !d.IsPositive() {
		return Amount{}, ErrInvalidAmount
	}
	return Amount{raw: strings.TrimSuffix(strings.ReplaceAll(strings.TrimSpace(s), ",", "."), ".")}, nil
}

// ParseGoal strictly parses a monthly goal. Blank clears the goal to zero;
// negative and non-numeric values are rejected with ErrInvalidAmount.
func ParseGoal(s string) (decimal.Decimal, error) {
	if strings.TrimSpace(s) == "" {
		return decimal.Zero, nil
	}
	return parsePlain(s)
}

func parsePlain(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if !plainDecimal.MatchString(s) {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(strings.TrimSuffix(s, "."))
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// Sum adds the permissive values of every amount.
func Sum(amounts ...Amount) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a.Decimal())
	}
	return total
}
