package selectiondto

import (
	"unicode/utf8"

	"github.com/camisetia/storefront/internal/catalog"
	"github.com/camisetia/storefront/internal/pricing"
	"github.com/camisetia/storefront/internal/selection"
	"github.com/camisetia/storefront/pkg/money"
)

// SelectRequest picks a catalog option by id.
type SelectRequest struct {
	ID string `json:"id" validate:"required,max=64"`
}

// ModifierRequest sets an AI style or background. An empty id clears it.
type ModifierRequest struct {
	ID string `json:"id" validate:"max=64"`
}

// PromptRequest replaces the AI prompt text. Longer text is truncated.
type PromptRequest struct {
	Text *string `json:"text" validate:"required"`
}

// Selection is the selection snapshot returned by every selection endpoint.
type Selection struct {
	State            selection.State `json:"state"`
	Committable      bool            `json:"committable"`
	Missing          []string        `json:"missing"`
	Generating       bool            `json:"generating"`
	Quote            pricing.Quote   `json:"quote"`
	UnitPriceDisplay string          `json:"unitPriceDisplay"`
	PromptLength     int             `json:"promptLength"`
	PromptLimit      int             `json:"promptLimit"`
}

func NewSelection(st selection.State, cat *catalog.Catalog, generating bool) Selection {
	quote := pricing.QuoteFor(st, cat)
	missing := st.Missing(cat)
	if missing == nil {
		missing = []string{}
	}
	return Selection{
		State:            st,
		Committable:      len(missing) == 0,
		Missing:          missing,
		Generating:       generating,
		Quote:            quote,
		UnitPriceDisplay: money.FormatCOP(quote.UnitPrice),
		PromptLength:     utf8.RuneCountInString(st.PromptText),
		PromptLimit:      selection.MaxPromptLength,
	}
}
