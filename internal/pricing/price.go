// Package pricing converts between the formatted BRL strings stored on
// products and orders and decimal amounts.
package pricing

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const CurrencySymbol = "R$"

var ErrUnparseable = errors.New("unparseable price")

// ParseError carries the raw input that could not be read as an amount.
type ParseError struct {
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("parse price %q", e.Input)
	}
	return fmt.Sprintf("parse price %q: %v", e.Input, e.Err)
}

func (e *ParseError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrUnparseable}
	}
	return []error{ErrUnparseable, e.Err}
}

// Parse reads a pt-BR currency string such as "R$ 1.234,56". The currency
// symbol and all whitespace are dropped, '.' is treated as the thousands
// separator and ',' as the decimal separator.
func Parse(s string) (decimal.Decimal, error) {
	cleaned := strings.ReplaceAll(s, CurrencySymbol, "")
	cleaned = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, cleaned)
	cleaned = strings.ReplaceAll(cleaned, ".", "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")

	if cleaned == "" {
		return decimal.Zero, &ParseError{Input: s}
	}
	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, &ParseError{Input: s, Err: err}
	}
	return amount, nil
}

// FormatBRL renders an amount as "R$ 1.234,56".
func FormatBRL(amount decimal.Decimal) string {
	rounded := amount.Round(2)
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Neg()
	}
	f, _ := rounded.Float64()
	p := message.NewPrinter(language.BrazilianPortuguese)
	return sign + CurrencySymbol + " " + p.Sprint(number.Decimal(f, number.Scale(2)))
}
