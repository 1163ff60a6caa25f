package cart

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	cartdto "github.com/camisetia/storefront/api/controllers/cart/dto"
	"github.com/camisetia/storefront/api/controllers/sessionctx"
	"github.com/camisetia/storefront/api/responses"
	"github.com/camisetia/storefront/api/validators"
	pkgerrors "github.com/camisetia/storefront/pkg/errors"
	"github.com/camisetia/storefront/pkg/logger"
)

// CartFetch returns the session cart with its total and item count.
func CartFetch(resolver sessionctx.Resolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, err := sessionctx.ResolveWorkspace(r, resolver)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cartdto.NewCart(ws.Cart.Items()))
	}
}

// CartCommit adds the current selection to the cart at its current price.
func CartCommit(resolver sessionctx.Resolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, err := sessionctx.ResolveWorkspace(r, resolver)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		line, err := ws.Commit(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, cartdto.Committed{
			Item: cartdto.NewCartLine(line),
			Cart: cartdto.NewCart(ws.Cart.Items()),
		})
	}
}

// CartSetQuantity updates one line. A quantity of zero or less removes it.
func CartSetQuantity(resolver sessionctx.Resolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, err := sessionctx.ResolveWorkspace(r, resolver)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		itemID, err := itemIDFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload cartdto.QuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if *payload.Quantity > 0 {
			if _, ok := ws.Cart.SetQuantity(r.Context(), itemID, *payload.Quantity); !ok {
				responses.WriteError(r.Context(), logg, w, itemNotFound(itemID))
				return
			}
		} else {
			ws.Cart.Remove(r.Context(), itemID)
		}
		responses.WriteSuccess(w, cartdto.NewCart(ws.Cart.Items()))
	}
}

// CartRemoveItem deletes one line. Unknown ids leave the cart unchanged.
func CartRemoveItem(resolver sessionctx.Resolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, err := sessionctx.ResolveWorkspace(r, resolver)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		itemID, err := itemIDFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ws.Cart.Remove(r.Context(), itemID)
		responses.WriteSuccess(w, cartdto.NewCart(ws.Cart.Items()))
	}
}

func CartClear(resolver sessionctx.Resolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, err := sessionctx.ResolveWorkspace(r, resolver)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ws.Cart.Clear(r.Context())
		responses.WriteSuccess(w, cartdto.NewCart(ws.Cart.Items()))
	}
}

func itemIDFromPath(r *http.Request) (string, error) {
	raw := chi.URLParam(r, "itemId")
	id, err := url.PathUnescape(raw)
	if err != nil || id == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "invalid item id").
			WithDetails(map[string]string{"itemId": raw})
	}
	return id, nil
}

func itemNotFound(id string) error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "El producto no está en el carrito.").
		WithDetails(map[string]string{"itemId": id})
}
