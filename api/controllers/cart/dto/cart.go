package cartdto

import (
	"github.com/shopspring/decimal"

	"github.com/camisetia/storefront/internal/cart"
	"github.com/camisetia/storefront/pkg/money"
)

// QuantityRequest sets the quantity of one line. Zero or less removes it.
type QuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

// CartLine is a cart item with its display prices.
type CartLine struct {
	cart.Item
	UnitPriceDisplay string          `json:"unitPriceDisplay"`
	LineTotal        decimal.Decimal `json:"lineTotal"`
	LineTotalDisplay string          `json:"lineTotalDisplay"`
}

// Cart is the cart snapshot returned by every cart endpoint.
type Cart struct {
	Items        []CartLine      `json:"items"`
	Total        decimal.Decimal `json:"total"`
	TotalDisplay string          `json:"totalDisplay"`
	ItemCount    int             `json:"itemCount"`
}

// Committed is returned after the current selection was added to the cart.
type Committed struct {
	Item CartLine `json:"item"`
	Cart Cart     `json:"cart"`
}

func NewCartLine(item cart.Item) CartLine {
	total := item.LineTotal()
	return CartLine{
		Item:             item,
		UnitPriceDisplay: money.FormatCOP(item.UnitPrice),
		LineTotal:        total,
		LineTotalDisplay: money.FormatCOP(total),
	}
}

func NewCart(items []cart.Item) Cart {
	lines := make([]CartLine, 0, len(items))
	count := 0
	for _, item := range items {
		lines = append(lines, NewCartLine(item))
		count += item.Quantity
	}
	total := cart.Total(items)
	return Cart{
		Items:        lines,
		Total:        total,
		TotalDisplay: money.FormatCOP(total),
		ItemCount:    count,
	}
}
