package domain

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/shopspring/decimal"
)

type Cart struct {
	Lines []CartLine `json:"items"`
}

// MaxQuantity caps a single cart line.
const MaxQuantity = 999

// ClampQuantity bounds q to [0, MaxQuantity].
func ClampQuantity(q int) int {
	return min(max(q, 0), MaxQuantity)
}

// AddQuantity sums two line quantities without exceeding MaxQuantity.
func AddQuantity(a, b int) int {
	a, b = ClampQuantity(a), ClampQuantity(b)
	return ClampQuantity(a + b)
}

type CartLine struct {
	ServiceID   string          `json:"serviceId"`
	ServiceName string          `json:"serviceName"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	Icon        string          `json:"descriptionIcon,omitempty"`
}

// Subtotal is price times quantity, with negative inputs counted as zero.
func (l CartLine) Subtotal() decimal.Decimal {
	if l.Quantity <= 0 {
		return decimal.Zero
	}
	return NonNegative(l.Price).Mul(decimal.NewFromInt(int64(l.Quantity)))
}

func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.Lines {
		total = total.Add(line.Subtotal())
	}
	return total
}

func (c Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Find returns the index of the line with serviceID, or -1.
func (c Cart) Find(serviceID string) int {
	for i, line := range c.Lines {
		if line.ServiceID == serviceID {
			return i
		}
	}
	return -1
}

type cartLineJSON struct {
	ServiceID   string          `json:"serviceId"`
	ServiceName string          `json:"serviceName"`
	Category    string          `json:"category"`
	Price       json.RawMessage `json:"price"`
	Quantity    json.RawMessage `json:"quantity"`
	Icon        string          `json:"descriptionIcon"`
}

// UnmarshalJSON accepts numbers or numeric strings for price and quantity.
// Anything else, including a missing field, decodes to zero.
func (l *CartLine) UnmarshalJSON(data []byte) error {
	var raw cartLineJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*l = CartLine{
		ServiceID:   raw.ServiceID,
		ServiceName: raw.ServiceName,
		Category:    raw.Category,
		Price:       lenientDecimal(raw.Price),
		Quantity:    lenientQuantity(raw.Quantity),
		Icon:        raw.Icon,
	}

	return nil
}

func lenientQuantity(raw json.RawMessage) int {
	d := lenientDecimal(raw)
	if d.IsNegative() {
		return 0
	}
	if d.GreaterThan(decimal.NewFromInt(MaxQuantity)) {
		return MaxQuantity
	}
	return int(d.IntPart())
}

func lenientDecimal(raw json.RawMessage) decimal.Decimal {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return decimal.Zero
	}

	text := string(raw)
	if unquoted, err := strconv.Unquote(text); err == nil {
		text = unquoted
	}

	d, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero
	}
	return d
}
