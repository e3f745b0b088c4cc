package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

type Money struct {
	Amount   decimal.Decimal
	Currency currency.Unit
}

func NewMoney(amount decimal.Decimal, unit currency.Unit) Money {
	return Money{Amount: amount, Currency: unit}
}

// String renders the amount with the currency's standard scale, e.g. "USD 12.50".
func (m Money) String() string {
	scale, _ := currency.Standard.Rounding(m.Currency)

	return fmt.Sprintf("%s %s", m.Currency.String(), m.Amount.StringFixed(int32(scale)))
}

// NonNegative clamps negative amounts to zero.
func NonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
