package controllers

import (
	"net/http"

	"github.com/camisetia/storefront/api/controllers/sessionctx"
	"github.com/camisetia/storefront/api/responses"
	"github.com/camisetia/storefront/internal/checkout"
	pkgerrors "github.com/camisetia/storefront/pkg/errors"
	"github.com/camisetia/storefront/pkg/logger"
	"github.com/camisetia/storefront/pkg/money"
)

type whatsAppHandoff struct {
	checkout.Handoff
	TotalDisplay string `json:"totalDisplay"`
}

// CheckoutWhatsApp renders the order message and WhatsApp deep link for the
// session cart. The cart is left as is.
func CheckoutWhatsApp(resolver sessionctx.Resolver, formatter *checkout.Formatter, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if formatter == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout unavailable"))
			return
		}
		ws, err := sessionctx.ResolveWorkspace(r, resolver)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		handoff, err := formatter.Handoff(ws.Cart.Items())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if logg != nil {
			ctx := logg.WithFields(r.Context(), map[string]any{"item_count": handoff.ItemCount, "total": handoff.Total.String()})
			logg.Info(ctx, "checkout.whatsapp_handoff")
		}
		responses.WriteSuccess(w, whatsAppHandoff{Handoff: handoff, TotalDisplay: money.FormatCOP(handoff.Total)})
	}
}
