package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/camisetia/storefront/api/responses"
	"github.com/camisetia/storefront/internal/catalog"
	pkgerrors "github.com/camisetia/storefront/pkg/errors"
	"github.com/camisetia/storefront/pkg/logger"
)

func CatalogFetch(cat *catalog.Catalog, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cat == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}
		responses.WriteSuccess(w, cat.View())
	}
}

// CatalogGarmentColors lists the colors a garment can be ordered in.
func CatalogGarmentColors(cat *catalog.Catalog, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cat == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}
		garmentID := chi.URLParam(r, "garmentId")
		colors, ok := cat.OfferedColors(garmentID)
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "garment not found").
				WithDetails(map[string]string{"garmentId": garmentID}))
			return
		}
		responses.WriteSuccess(w, map[string]any{"garmentId": garmentID, "colors": colors})
	}
}
