package checkout

import (
	"net/url"
	"strings"
	"testing"

	"github.com/camisetia/storefront/internal/cart"
	"github.com/camisetia/storefront/pkg/config"
	pkgerrors "github.com/camisetia/storefront/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleItems() []cart.Item {
	return []cart.Item{
		{
			Garment:   cart.GarmentRef{ID: "short-sleeve", Name: "Manga Corta"},
			Size:      &cart.SizeRef{ID: "M", Name: "M"},
			Color:     cart.ColorRef{ID: "black", Name: "Negro"},
			Design:    cart.DesignRef{ID: "design1", Name: "Diseño Abstracto Moderno"},
			Quantity:  2,
			UnitPrice: decimal.NewFromInt(50000),
		},
		{
			Garment:   cart.GarmentRef{ID: "cap", Name: "Gorra"},
			Color:     cart.ColorRef{ID: "white", Name: "Blanco"},
			Design:    cart.DesignRef{ID: cart.AIDesignID, Name: AIDesignLabel, GenerationID: "gen-1"},
			Quantity:  1,
			UnitPrice: decimal.NewFromInt(45000),
			AIPrompt:  "a ninja cat & friends",
		},
	}
}

func newFormatter(t *testing.T) *Formatter {
	t.Helper()
	f, err := NewFormatter(config.CheckoutConfig{WhatsAppNumber: "+57 300-123-4567", WhatsAppBaseURL: "https://wa.me/"})
	require.NoError(t, err)
	return f
}

func TestMessageListsEveryLine(t *testing.T) {
	f := newFormatter(t)
	items := sampleItems()

	msg, err := f.Message(items, cart.Total(items))
	require.NoError(t, err)

	want := "¡Hola! Quiero hacer este pedido:\n\n" +
		"1. 2 x Manga Corta | Talla: M | Color: Negro | Diseño: Diseño Abstracto Moderno | $50.000 c/u\n" +
		"2. 1 x Gorra | Color: Blanco | Diseño personalizado con IA: \"a ninja cat & friends\" | $45.000 c/u\n" +
		"\nTotal: $145.000"
	assert.Equal(t, want, msg)
}

func TestMessageRejectsEmptyCart(t *testing.T) {
	_, err := newFormatter(t).Message(nil, decimal.Zero)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = newFormatter(t).Handoff([]cart.Item{})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestLinkEscapesWholeMessage(t *testing.T) {
	f := newFormatter(t)
	handoff, err := f.Handoff(sampleItems())
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(handoff.Link, "https://wa.me/573001234567?text="))
	query := strings.TrimPrefix(handoff.Link, "https://wa.me/573001234567?text=")
	assert.NotContains(t, query, " ")
	assert.NotContains(t, query, "+")
	assert.NotContains(t, query, "&")
	assert.Contains(t, query, "%20")

	parsed, err := url.Parse(handoff.Link)
	require.NoError(t, err)
	assert.Equal(t, handoff.Message, parsed.Query().Get("text"))

	assert.True(t, handoff.Total.Equal(decimal.NewFromInt(145000)))
	assert.Equal(t, 3, handoff.ItemCount)
}

func TestNewFormatterValidatesNumber(t *testing.T) {
	for _, number := range []string{"", "   ", "57300abc", "+"} {
		_, err := NewFormatter(config.CheckoutConfig{WhatsAppNumber: number})
		assert.Error(t, err, number)
	}

	f, err := NewFormatter(config.CheckoutConfig{WhatsAppNumber: "573001234567"})
	require.NoError(t, err)
	link, err := f.Link("hola")
	require.NoError(t, err)
	assert.Equal(t, "https://wa.me/573001234567?text=hola", link)
}
