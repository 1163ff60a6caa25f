// Package checkout turns a cart into the WhatsApp order hand-off.
package checkout

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/camisetia/storefront/internal/cart"
	"github.com/camisetia/storefront/pkg/config"
	pkgerrors "github.com/camisetia/storefront/pkg/errors"
	"github.com/camisetia/storefront/pkg/money"
	"github.com/shopspring/decimal"
)

const (
	AIDesignLabel      = cart.AIDesignName
	MessageEmptyCart   = "Tu carrito está vacío."
	defaultWhatsAppURL = "https://wa.me"
)

// Handoff is what the storefront shows at checkout.
type Handoff struct {
	Message   string          `json:"message"`
	Link      string          `json:"link"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"itemCount"`
}

type Formatter struct {
	number  string
	baseURL string
}

// NewFormatter validates the destination number. Formatting characters such
// as '+', spaces and dashes are stripped.
func NewFormatter(cfg config.CheckoutConfig) (*Formatter, error) {
	number := strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9':
			return r
		case r == '+' || r == ' ' || r == '-' || r == '(' || r == ')':
			return -1
		default:
			return 'x'
		}
	}, cfg.WhatsAppNumber)
	if number == "" || strings.ContainsRune(number, 'x') {
		return nil, fmt.Errorf("invalid whatsapp number %q", cfg.WhatsAppNumber)
	}

	base := strings.TrimRight(strings.TrimSpace(cfg.WhatsAppBaseURL), "/")
	if base == "" {
		base = defaultWhatsAppURL
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("invalid whatsapp base url: %w", err)
	}
	return &Formatter{number: number, baseURL: base}, nil
}

// Message renders the order summary for items.
func (f *Formatter) Message(items []cart.Item, total decimal.Decimal) (string, error) {
	if len(items) == 0 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, MessageEmptyCart)
	}

	var b strings.Builder
	b.WriteString("¡Hola! Quiero hacer este pedido:\n\n")
	for i, item := range items {
		fmt.Fprintf(&b, "%d. %d x %s", i+1, item.Quantity, item.Garment.Name)
		if item.Size != nil {
			fmt.Fprintf(&b, " | Talla: %s", item.Size.Name)
		}
		fmt.Fprintf(&b, " | Color: %s", item.Color.Name)
		if item.IsAI() {
			fmt.Fprintf(&b, " | %s: \"%s\"", AIDesignLabel, item.AIPrompt)
		} else {
			fmt.Fprintf(&b, " | Diseño: %s", item.Design.Name)
		}
		fmt.Fprintf(&b, " | %s c/u\n", money.FormatCOP(item.UnitPrice))
	}
	fmt.Fprintf(&b, "\nTotal: %s", money.FormatCOP(total))
	return b.String(), nil
}

// Link returns https://wa.me/<number>?text=<message> with the whole message
// percent-escaped, spaces as %20.
func (f *Formatter) Link(message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", errors.New("empty checkout message")
	}
	escaped := strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
	return f.baseURL + "/" + f.number + "?text=" + escaped, nil
}

// Handoff builds the message and link for items.
func (f *Formatter) Handoff(items []cart.Item) (Handoff, error) {
	total := cart.Total(items)
	msg, err := f.Message(items, total)
	if err != nil {
		return Handoff{}, err
	}
	link, err := f.Link(msg)
	if err != nil {
		return Handoff{}, err
	}
	count := 0
	for _, item := range items {
		count += item.Quantity
	}
	return Handoff{Message: msg, Link: link, Total: total, ItemCount: count}, nil
}
