package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Employee struct {
	ID     string `json:"id,omitempty"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Mobile string `json:"mobile,omitempty"`
	Active bool   `json:"active"`
}

type Payment struct {
	ID        string          `json:"id"`
	BookingID string          `json:"bookingId"`
	Amount    decimal.Decimal `json:"amount"`
	Status    string          `json:"status"`
	CreatedAt *time.Time      `json:"createdAt,omitempty"`
}
