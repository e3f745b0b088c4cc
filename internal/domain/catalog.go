package domain

import "github.com/shopspring/decimal"

type Service struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Description       string          `json:"description,omitempty"`
	Category          string          `json:"category"`
	ImageURL          string          `json:"imageUrl,omitempty"`
	Icon              string          `json:"descriptionIcon,omitempty"`
	Active            bool            `json:"active"`
	BasePrice         decimal.Decimal `json:"basePrice"`
	EstimatedDuration int             `json:"estimatedDuration,omitempty"`
	Features          []string        `json:"features,omitempty"`
}

// Line converts the service into a cart line priced at its base price.
func (s Service) Line(quantity int) CartLine {
	return CartLine{
		ServiceID:   s.ID,
		ServiceName: s.Name,
		Category:    s.Category,
		Price:       s.BasePrice,
		Quantity:    quantity,
		Icon:        s.Icon,
	}
}

type Package struct {
	ID          string          `json:"id"`
	ServiceID   string          `json:"serviceId"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Duration    int             `json:"duration,omitempty"`
	Inclusions  []string        `json:"inclusions,omitempty"`
	Active      bool            `json:"active"`

	// Synthetic marks a package made up on the client because the service has none.
	Synthetic bool `json:"-"`
}

const StandardPackageName = "Standard"

// StandardPackage is the stand-in used when a service has no packages configured.
func StandardPackage(serviceID string, price decimal.Decimal) Package {
	return Package{
		ServiceID: serviceID,
		Name:      StandardPackageName,
		Price:     price,
		Active:    true,
		Synthetic: true,
	}
}
