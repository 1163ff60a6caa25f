package selection

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/camisetia/storefront/internal/catalog"
	"github.com/camisetia/storefront/internal/designgen"
	pkgerrors "github.com/camisetia/storefront/pkg/errors"
)

// Generator is the AI design boundary used by RequestGeneration.
type Generator interface {
	Generate(ctx context.Context, userID, prompt string) (designgen.Result, error)
}

// MessageGenerationSuperseded is returned when a generation result arrives
// after the inputs it was requested for have changed.
const MessageGenerationSuperseded = "Tu diseño cambió mientras se generaba la imagen. Vuelve a generarla."

// MessageGenerationPending is returned when the same inputs are submitted
// again while their image is still being generated.
const MessageGenerationPending = "Ya estamos generando tu diseño. Espera a que termine."

// Machine owns one customer's State and applies transitions to it.
// Catalog ids coming from requests are checked here.
type Machine struct {
	mu        sync.Mutex
	catalog   *catalog.Catalog
	generator Generator

	state State
	// revision changes whenever an input of the AI design changes.
	revision uint64
	// ticket identifies the most recent generation request.
	ticket   uint64
	inFlight int
	// pending is the revision the latest outstanding request was issued for.
	pending uint64
}

func NewMachine(cat *catalog.Catalog, generator Generator) (*Machine, error) {
	if cat == nil {
		return nil, errors.New("catalog required")
	}
	if generator == nil {
		return nil, errors.New("design generator required")
	}
	return &Machine{catalog: cat, generator: generator}, nil
}

func (m *Machine) Catalog() *catalog.Catalog {
	return m.catalog
}

func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Generating reports whether a generation request is outstanding.
func (m *Machine) Generating() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inFlight > 0
}

// Reset clears every choice and discards any outstanding generation result.
func (m *Machine) Reset() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = State{}
	m.revision++
	return m.state
}

func (m *Machine) SelectGarment(id string) (State, error) {
	if _, ok := m.catalog.Garment(id); !ok {
		return m.State(), invalidID("garmentId", id)
	}
	return m.apply(func(s State) State { return s.SelectGarment(id) }), nil
}

// SelectSize is rejected when no garment is selected or the garment is not sized.
func (m *Machine) SelectSize(id string) (State, error) {
	if _, ok := m.catalog.Size(id); !ok {
		return m.State(), invalidID("sizeId", id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	garment, ok := m.catalog.Garment(m.state.GarmentID)
	if !ok {
		return m.state, pkgerrors.New(pkgerrors.CodeValidation, "Elige primero el tipo de prenda.").
			WithDetails(map[string]any{"field": "sizeId"})
	}
	if !garment.RequiresSize {
		return m.state, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("%s no maneja tallas.", garment.Name)).
			WithDetails(map[string]any{"field": "sizeId", "garmentId": garment.ID})
	}
	m.state = m.state.SelectSize(id)
	return m.state, nil
}

func (m *Machine) SelectColor(id string) (State, error) {
	if _, ok := m.catalog.Color(id); !ok {
		return m.State(), invalidID("colorId", id)
	}
	return m.apply(func(s State) State { return s.SelectColor(id) }), nil
}

func (m *Machine) SelectDesign(id string) (State, error) {
	if _, ok := m.catalog.Design(id); !ok {
		return m.State(), invalidID("designId", id)
	}
	return m.apply(func(s State) State { return s.SelectPredefinedDesign(id) }), nil
}

func (m *Machine) SetPromptText(text string) State {
	return m.apply(func(s State) State { return s.SetPromptText(text) })
}

// SetStyle sets the AI style. An empty id clears it.
func (m *Machine) SetStyle(id string) (State, error) {
	if id != "" {
		if _, ok := m.catalog.Style(id); !ok {
			return m.State(), invalidID("styleId", id)
		}
	}
	return m.apply(func(s State) State { return s.SetStyle(id) }), nil
}

// SetBackground sets the AI background. An empty id clears it.
func (m *Machine) SetBackground(id string) (State, error) {
	if id != "" {
		if _, ok := m.catalog.Background(id); !ok {
			return m.State(), invalidID("backgroundId", id)
		}
	}
	return m.apply(func(s State) State { return s.SetBackground(id) }), nil
}

// RequestGeneration composes the prompt from the current inputs and asks the
// generator for an image. The previous image is dropped when the request
// starts. A repeat submission of unchanged inputs while their request is
// outstanding is rejected without reaching the generator. The result is kept only if no AI input changed and no newer request
// was issued while the generator was running; otherwise a state conflict is
// returned and the state is left as the later edits made it.
func (m *Machine) RequestGeneration(ctx context.Context, userID string) (State, error) {
	m.mu.Lock()
	prompt, err := m.state.ComposePrompt(m.catalog)
	if err != nil {
		st := m.state
		m.mu.Unlock()
		return st, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "Completa la descripción, el estilo y el fondo antes de generar.").
			WithDetails(map[string]any{"missing": st.Missing(m.catalog)})
	}
	if m.inFlight > 0 && m.pending == m.revision {
		st := m.state
		m.mu.Unlock()
		return st, pkgerrors.New(pkgerrors.CodeStateConflict, MessageGenerationPending)
	}
	m.state = m.state.withGenerated(nil)
	m.ticket++
	ticket, revision := m.ticket, m.revision
	m.pending = revision
	m.inFlight++
	m.mu.Unlock()

	result, genErr := m.generator.Generate(ctx, userID, prompt)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.inFlight--
	if genErr != nil {
		return m.state, genErr
	}
	if ticket != m.ticket || revision != m.revision {
		return m.state, pkgerrors.New(pkgerrors.CodeStateConflict, MessageGenerationSuperseded)
	}
	m.state = m.state.withGenerated(&GeneratedDesign{
		ID:           result.ID,
		ImageRef:     result.ImageRef,
		ThumbnailRef: result.ThumbnailRef,
		Prompt:       result.Prompt,
		GeneratedAt:  result.GeneratedAt,
	})
	return m.state, nil
}

func (m *Machine) apply(transition func(State) State) State {
	m.mu.Lock()
	defer m.mu.Unlock()
	next := transition(m.state)
	if aiInputsChanged(m.state, next) {
		m.revision++
	}
	m.state = next
	return next
}

func aiInputsChanged(before, after State) bool {
	return before.GarmentID != after.GarmentID ||
		before.DesignID != after.DesignID ||
		before.PromptText != after.PromptText ||
		before.StyleID != after.StyleID ||
		before.BackgroundID != after.BackgroundID
}

func invalidID(field, id string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("%s %q no existe en el catálogo.", field, id)).
		WithDetails(map[string]any{"field": field})
}
