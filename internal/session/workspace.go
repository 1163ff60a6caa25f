package session

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/camisetia/storefront/internal/cart"
	"github.com/camisetia/storefront/internal/catalog"
	"github.com/camisetia/storefront/internal/pricing"
	"github.com/camisetia/storefront/internal/selection"
	pkgerrors "github.com/camisetia/storefront/pkg/errors"
)

// MessageIncompleteSelection is returned when committing an incomplete selection.
const MessageIncompleteSelection = "¡Completa tu selección! Elige tipo de prenda, talla, color y diseño para continuar."

// Workspace is everything one storefront session owns.
type Workspace struct {
	ID        string
	Selection *selection.Machine
	Cart      *cart.Store

	lastSeen atomic.Int64
}

func (w *Workspace) touch(now time.Time) {
	w.lastSeen.Store(now.UnixNano())
}

func (w *Workspace) idleSince(now time.Time) time.Duration {
	return now.Sub(time.Unix(0, w.lastSeen.Load()))
}

// Generate requests an AI design for the current selection. The session id
// is the identity the generation limit is counted against.
func (w *Workspace) Generate(ctx context.Context) (selection.State, error) {
	return w.Selection.RequestGeneration(ctx, w.ID)
}

// Commit adds the current selection to the cart at its current unit price.
// The selection itself is left untouched.
func (w *Workspace) Commit(ctx context.Context) (cart.Item, error) {
	st := w.Selection.State()
	cat := w.Selection.Catalog()
	if missing := st.Missing(cat); len(missing) > 0 {
		return cart.Item{}, pkgerrors.New(pkgerrors.CodeValidation, MessageIncompleteSelection).
			WithDetails(map[string]any{"missing": missing})
	}
	item, err := ItemFromState(st, cat)
	if err != nil {
		return cart.Item{}, err
	}
	return w.Cart.Add(ctx, item), nil
}

// ItemFromState snapshots a committable selection into a cart line.
func ItemFromState(st selection.State, cat *catalog.Catalog) (cart.Item, error) {
	garment, ok := cat.Garment(st.GarmentID)
	if !ok {
		return cart.Item{}, pkgerrors.New(pkgerrors.CodeValidation, MessageIncompleteSelection)
	}
	color, ok := cat.Color(st.ColorID)
	if !ok {
		return cart.Item{}, pkgerrors.New(pkgerrors.CodeValidation, MessageIncompleteSelection)
	}

	item := cart.Item{
		Garment:   cart.GarmentRef{ID: garment.ID, Name: garment.Name, ImageURL: garment.ImageURL},
		Color:     cart.ColorRef{ID: color.ID, Name: color.Name, Hex: color.Hex},
		Quantity:  1,
		UnitPrice: pricing.UnitPrice(st, cat),
	}
	if st.SizeID != "" {
		if size, ok := cat.Size(st.SizeID); ok {
			item.Size = &cart.SizeRef{ID: size.ID, Name: size.Name}
		}
	}

	switch {
	case st.DesignID != "":
		design, ok := cat.Design(st.DesignID)
		if !ok {
			return cart.Item{}, pkgerrors.New(pkgerrors.CodeValidation, MessageIncompleteSelection)
		}
		item.Design = cart.DesignRef{ID: design.ID, Name: design.Name, ImageURL: design.ImageURL, Hint: design.Hint}
	case st.HasAIDesign():
		item.Design = cart.DesignRef{
			ID:           cart.AIDesignID,
			Name:         cart.AIDesignName,
			ImageURL:     st.Generated.ImageRef,
			ThumbnailURL: st.Generated.ThumbnailRef,
			GenerationID: st.Generated.ID.String(),
		}
		item.AIPrompt = st.PromptText
	default:
		return cart.Item{}, pkgerrors.New(pkgerrors.CodeValidation, MessageIncompleteSelection)
	}
	return item, nil
}
