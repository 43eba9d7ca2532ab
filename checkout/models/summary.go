package models

import (
	"github.com/Herzon-Palma/Coders/pkg/domain"
	"github.com/Herzon-Palma/Coders/pkg/money"
)

// CheckoutLine is one frozen cart line inside a checkout summary.
type CheckoutLine struct {
	ProductID domain.ProductID `json:"product_id"`
	Name      string           `json:"name"`
	UnitPrice money.Money      `json:"unit_price"`
	Qty       int              `json:"qty"`
	LineTotal money.Money      `json:"line_total"`
}

// CheckoutSummary is an immutable snapshot of the cart taken when checkout
// starts. It is a deliberate copy: later cart mutations never reach the
// checkout.
type CheckoutSummary struct {
	CartID     domain.CartID     `json:"cart_id"`
	CustomerID domain.CustomerID `json:"customer_id"`
	Items      []CheckoutLine    `json:"items"`
	Subtotal   money.Money       `json:"subtotal"`
}

func (s CheckoutSummary) IsEmpty() bool { return len(s.Items) == 0 }

func (s CheckoutSummary) ItemCount() int { return len(s.Items) }

// StockLine is the slice of a checkout line the stock policy needs.
type StockLine struct {
	ProductID domain.ProductID `json:"product_id"`
	Qty       int              `json:"qty"`
}

// StockLines projects the summary into stock-policy input.
func (s CheckoutSummary) StockLines() []StockLine {
	lines := make([]StockLine, 0, len(s.Items))
	for _, item := range s.Items {
		lines = append(lines, StockLine{ProductID: item.ProductID, Qty: item.Qty})
	}
	return lines
}
