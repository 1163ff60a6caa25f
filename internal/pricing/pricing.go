// Package pricing derives unit prices from a selection. Every function here is
// pure and works in decimal; rounding only happens when prices are displayed.
package pricing

import (
	"strings"

	"github.com/camisetia/storefront/internal/catalog"
	"github.com/camisetia/storefront/internal/selection"
	"github.com/shopspring/decimal"
)

// Surcharge sources reported in a Quote.
const (
	SurchargeNone       = "none"
	SurchargePredefined = "predefined"
	SurchargeAI         = "ai"
)

// Quote breaks a unit price into its parts.
type Quote struct {
	Base            decimal.Decimal `json:"base"`
	DesignSurcharge decimal.Decimal `json:"designSurcharge"`
	SurchargeSource string          `json:"surchargeSource"`
	UnitPrice       decimal.Decimal `json:"unitPrice"`
}

// UnitPrice is the garment base price plus the design surcharge. A predefined
// design adds its modifier; a generated AI design adds the catalog surcharge.
// Without a known garment the price is zero.
func UnitPrice(st selection.State, cat *catalog.Catalog) decimal.Decimal {
	return QuoteFor(st, cat).UnitPrice
}

func QuoteFor(st selection.State, cat *catalog.Catalog) Quote {
	q := Quote{
		Base:            decimal.Zero,
		DesignSurcharge: decimal.Zero,
		SurchargeSource: SurchargeNone,
		UnitPrice:       decimal.Zero,
	}
	garment, ok := cat.Garment(st.GarmentID)
	if !ok {
		return q
	}
	q.Base = garment.BasePrice

	if st.DesignID != "" {
		if design, ok := cat.Design(st.DesignID); ok {
			q.DesignSurcharge = design.PriceModifier
			q.SurchargeSource = SurchargePredefined
		}
	} else if aiCommitted(st) {
		q.DesignSurcharge = cat.AIDesignPriceModifier()
		q.SurchargeSource = SurchargeAI
	}

	q.UnitPrice = q.Base.Add(q.DesignSurcharge)
	return q
}

// aiCommitted holds when there is prompt text and an image generated for it.
func aiCommitted(st selection.State) bool {
	return st.Generated != nil && strings.TrimSpace(st.PromptText) != ""
}
