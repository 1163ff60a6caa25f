package selection

import (
	"net"
	"net/http"
	"strings"

	selectiondto "github.com/camisetia/storefront/api/controllers/selection/dto"
	"github.com/camisetia/storefront/api/controllers/sessionctx"
	"github.com/camisetia/storefront/api/responses"
	"github.com/camisetia/storefront/api/validators"
	"github.com/camisetia/storefront/internal/designgen"
	selectionsvc "github.com/camisetia/storefront/internal/selection"
	"github.com/camisetia/storefront/internal/session"
	pkgerrors "github.com/camisetia/storefront/pkg/errors"
	"github.com/camisetia/storefront/pkg/logger"
)

// MessageColorNotOffered is returned when a color is not available for the
// selected garment.
const MessageColorNotOffered = "Este color no está disponible para la prenda seleccionada."

// SelectionFetch returns the session selection with its quote and the steps
// still missing.
func SelectionFetch(resolver sessionctx.Resolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, err := sessionctx.ResolveWorkspace(r, resolver)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeSelection(w, ws, ws.Selection.State())
	}
}

func SelectionReset(resolver sessionctx.Resolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, err := sessionctx.ResolveWorkspace(r, resolver)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeSelection(w, ws, ws.Selection.Reset())
	}
}

func SelectGarment(resolver sessionctx.Resolver, logg *logger.Logger) http.HandlerFunc {
	return selectHandler(resolver, logg, func(ws *session.Workspace, id string) (selectionsvc.State, error) {
		return ws.Selection.SelectGarment(id)
	})
}

func SelectSize(resolver sessionctx.Resolver, logg *logger.Logger) http.HandlerFunc {
	return selectHandler(resolver, logg, func(ws *session.Workspace, id string) (selectionsvc.State, error) {
		return ws.Selection.SelectSize(id)
	})
}

// SelectColor only accepts colors offered for the selected garment.
func SelectColor(resolver sessionctx.Resolver, logg *logger.Logger) http.HandlerFunc {
	return selectHandler(resolver, logg, func(ws *session.Workspace, id string) (selectionsvc.State, error) {
		current := ws.Selection.State()
		cat := ws.Selection.Catalog()
		if current.GarmentID != "" {
			if _, known := cat.Color(id); known && !cat.IsColorOffered(current.GarmentID, id) {
				return current, pkgerrors.New(pkgerrors.CodeValidation, MessageColorNotOffered).
					WithDetails(map[string]string{"colorId": id, "garmentId": current.GarmentID})
			}
		}
		return ws.Selection.SelectColor(id)
	})
}

func SelectDesign(resolver sessionctx.Resolver, logg *logger.Logger) http.HandlerFunc {
	return selectHandler(resolver, logg, func(ws *session.Workspace, id string) (selectionsvc.State, error) {
		return ws.Selection.SelectDesign(id)
	})
}

func SetPrompt(resolver sessionctx.Resolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, err := sessionctx.ResolveWorkspace(r, resolver)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload selectiondto.PromptRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeSelection(w, ws, ws.Selection.SetPromptText(*payload.Text))
	}
}

func SetStyle(resolver sessionctx.Resolver, logg *logger.Logger) http.HandlerFunc {
	return modifierHandler(resolver, logg, func(ws *session.Workspace, id string) (selectionsvc.State, error) {
		return ws.Selection.SetStyle(id)
	})
}

func SetBackground(resolver sessionctx.Resolver, logg *logger.Logger) http.HandlerFunc {
	return modifierHandler(resolver, logg, func(ws *session.Workspace, id string) (selectionsvc.State, error) {
		return ws.Selection.SetBackground(id)
	})
}

// Generate asks the AI generator for an image of the current prompt, style
// and background. The call blocks until the generator answers. Attempts are
// limited per session and per client address.
func Generate(resolver sessionctx.Resolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, err := sessionctx.ResolveWorkspace(r, resolver)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ctx := designgen.WithClientAddr(r.Context(), clientAddr(r))
		st, err := ws.Generate(ctx)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if logg != nil && st.Generated != nil {
			logg.Info(logg.WithField(r.Context(), "generation_id", st.Generated.ID.String()), "selection.design_generated")
		}
		writeSelection(w, ws, st)
	}
}

// clientAddr is the request's remote host without the port. RealIP, when
// mounted, has already replaced RemoteAddr with the forwarded address.
func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

type transition func(ws *session.Workspace, id string) (selectionsvc.State, error)

func selectHandler(resolver sessionctx.Resolver, logg *logger.Logger, apply transition) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, err := sessionctx.ResolveWorkspace(r, resolver)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload selectiondto.SelectRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		st, err := apply(ws, strings.TrimSpace(payload.ID))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeSelection(w, ws, st)
	}
}

func modifierHandler(resolver sessionctx.Resolver, logg *logger.Logger, apply transition) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, err := sessionctx.ResolveWorkspace(r, resolver)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload selectiondto.ModifierRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		st, err := apply(ws, strings.TrimSpace(payload.ID))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeSelection(w, ws, st)
	}
}

func writeSelection(w http.ResponseWriter, ws *session.Workspace, st selectionsvc.State) {
	responses.WriteSuccess(w, selectiondto.NewSelection(st, ws.Selection.Catalog(), ws.Selection.Generating()))
}
