package pricing

import (
	"testing"
	"time"

	"github.com/camisetia/storefront/internal/catalog"
	"github.com/camisetia/storefront/internal/selection"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)
	return cat
}

func price(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func aiState() selection.State {
	st := selection.State{
		GarmentID:    "short-sleeve",
		SizeID:       "M",
		ColorID:      "black",
		PromptText:   "a ninja cat",
		StyleID:      "cyberpunk",
		BackgroundID: "fondo-negro",
	}
	st.Generated = &selection.GeneratedDesign{ID: uuid.New(), ImageRef: "https://cdn.example.com/x.png", GeneratedAt: time.Now()}
	return st
}

func TestUnitPrice(t *testing.T) {
	cat := testCatalog(t)

	cases := []struct {
		name string
		st   selection.State
		want decimal.Decimal
	}{
		{"no garment", selection.State{DesignID: "design2"}, decimal.Zero},
		{"garment only", selection.State{GarmentID: "short-sleeve"}, price(50000)},
		{"zero modifier design", selection.State{GarmentID: "short-sleeve", SizeID: "M", ColorID: "black", DesignID: "design1"}, price(50000)},
		{"design with modifier", selection.State{GarmentID: "long-sleeve", DesignID: "design5"}, price(66000)},
		{"cap", selection.State{GarmentID: "cap", DesignID: "design4"}, price(39000)},
		{"ai generated", aiState(), price(60000)},
		{"ai prompt without image", func() selection.State { s := aiState(); s.Generated = nil; return s }(), price(50000)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := UnitPrice(tc.st, cat)
			assert.True(t, tc.want.Equal(got), "want %s got %s", tc.want, got)
		})
	}
}

func TestUnitPriceIsIdempotent(t *testing.T) {
	cat := testCatalog(t)
	st := aiState()
	first := UnitPrice(st, cat)
	second := UnitPrice(st, cat)
	assert.True(t, first.Equal(second))
}

func TestUnitPriceFollowsConfiguredAISurcharge(t *testing.T) {
	cat := testCatalog(t).WithAIDesignPrice(decimal.Zero)
	assert.True(t, UnitPrice(aiState(), cat).Equal(price(50000)))

	cat = cat.WithAIDesignPrice(decimal.RequireFromString("12500.50"))
	assert.Equal(t, "62500.5", UnitPrice(aiState(), cat).String())
}

func TestQuoteBreakdown(t *testing.T) {
	cat := testCatalog(t)

	q := QuoteFor(selection.State{GarmentID: "short-sleeve", DesignID: "design2"}, cat)
	assert.True(t, q.Base.Equal(price(50000)))
	assert.True(t, q.DesignSurcharge.Equal(price(5000)))
	assert.Equal(t, SurchargePredefined, q.SurchargeSource)
	assert.True(t, q.UnitPrice.Equal(price(55000)))

	q = QuoteFor(aiState(), cat)
	assert.Equal(t, SurchargeAI, q.SurchargeSource)
	assert.True(t, q.DesignSurcharge.Equal(price(10000)))

	q = QuoteFor(selection.State{}, cat)
	assert.Equal(t, SurchargeNone, q.SurchargeSource)
	assert.True(t, q.UnitPrice.IsZero())
}
