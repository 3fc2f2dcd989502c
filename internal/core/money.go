// Package core holds the pure domain of the expense ledger: the expense
// entity and its validation rules, fixed-point money, the analytics engine
// and the query pipeline. Nothing in this package performs I/O or logging.
package core

import (
	"strconv"
	"strings"
	"unicode"
)

// ParseAmount converts a decimal string to cents with half-up rounding on the
// third decimal place. Both dot (12.34) and comma (12,34) separators are
// accepted. Zero is a valid amount; negative values are not.
//
// Examples:
//
//	ParseAmount("12.34")  -> 1234, nil
//	ParseAmount("12,34")  -> 1234, nil
//	ParseAmount("12.345") -> 1234, nil (rounds down)
//	ParseAmount("12.346") -> 1235, nil (rounds up)
func ParseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	// Guard the *100 against overflow.
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return 0, ErrInvalidAmount
	}
	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}
	return iv*100 + fracCents, nil
}

// CentsFromFloat converts a display-precision amount to cents with half-up
// rounding. Used at the JSON boundary where amounts arrive as numbers.
func CentsFromFloat(v float64) (int64, error) {
	if v < 0 {
		return 0, ErrNegativeAmount
	}
	return int64(v*100 + 0.5), nil
}

// Float returns the amount at display precision. Keep calculations in cents;
// this is for the presentation boundary only.
func (m Money) Float() float64 {
	return float64(m.Cents) / 100.0
}

func (m Money) Add(other Money) Money {
	return Money{Cents: m.Cents + other.Cents}
}
