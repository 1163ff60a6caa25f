package selection

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/camisetia/storefront/internal/designgen"
	pkgerrors "github.com/camisetia/storefront/pkg/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	prompts []string
	err     error
}

func (f *fakeGenerator) Generate(_ context.Context, _ string, prompt string) (designgen.Result, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return designgen.Result{}, f.err
	}
	return designgen.Result{ID: uuid.New(), ImageRef: "https://cdn.example.com/gen.png", Prompt: prompt, GeneratedAt: time.Now()}, nil
}

// gatedGenerator blocks every call until the test releases it.
type gatedGenerator struct {
	started chan string
	release chan error
}

func newGatedGenerator() *gatedGenerator {
	return &gatedGenerator{started: make(chan string, 4), release: make(chan error, 4)}
}

func (g *gatedGenerator) Generate(_ context.Context, _ string, prompt string) (designgen.Result, error) {
	g.started <- prompt
	if err := <-g.release; err != nil {
		return designgen.Result{}, err
	}
	return designgen.Result{ID: uuid.New(), ImageRef: "https://cdn.example.com/" + prompt, Prompt: prompt, GeneratedAt: time.Now()}, nil
}

type generationOutcome struct {
	state State
	err   error
}

func newTestMachine(t *testing.T, gen Generator) *Machine {
	t.Helper()
	m, err := NewMachine(testCatalog(t), gen)
	require.NoError(t, err)
	return m
}

func prepareAI(t *testing.T, m *Machine) {
	t.Helper()
	_, err := m.SelectGarment("short-sleeve")
	require.NoError(t, err)
	_, err = m.SelectSize("M")
	require.NoError(t, err)
	_, err = m.SelectColor("black")
	require.NoError(t, err)
	m.SetPromptText("a ninja cat")
	_, err = m.SetStyle("cyberpunk")
	require.NoError(t, err)
	_, err = m.SetBackground("fondo-negro")
	require.NoError(t, err)
}

func TestNewMachineRequiresDependencies(t *testing.T) {
	_, err := NewMachine(nil, &fakeGenerator{})
	assert.Error(t, err)
	_, err = NewMachine(testCatalog(t), nil)
	assert.Error(t, err)
}

func TestMachineRejectsUnknownIDs(t *testing.T) {
	m := newTestMachine(t, &fakeGenerator{})

	_, err := m.SelectGarment("hoodie")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = m.SelectGarment("short-sleeve")
	require.NoError(t, err)

	for _, call := range []func() (State, error){
		func() (State, error) { return m.SelectSize("XXL") },
		func() (State, error) { return m.SelectColor("purple") },
		func() (State, error) { return m.SelectDesign("design42") },
		func() (State, error) { return m.SetStyle("vaporwave") },
		func() (State, error) { return m.SetBackground("fondo-rosa") },
	} {
		st, err := call()
		assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
		assert.Equal(t, State{GarmentID: "short-sleeve"}, st)
	}
}

func TestSelectSizeRequiresSizedGarment(t *testing.T) {
	m := newTestMachine(t, &fakeGenerator{})

	_, err := m.SelectSize("M")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = m.SelectGarment("cap")
	require.NoError(t, err)
	_, err = m.SelectSize("M")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	assert.Empty(t, m.State().SizeID)

	_, err = m.SelectGarment("long-sleeve")
	require.NoError(t, err)
	st, err := m.SelectSize("L")
	require.NoError(t, err)
	assert.Equal(t, "L", st.SizeID)
}

func TestRequestGenerationStoresResult(t *testing.T) {
	gen := &fakeGenerator{}
	m := newTestMachine(t, gen)
	prepareAI(t, m)

	st, err := m.RequestGeneration(context.Background(), "session-1")
	require.NoError(t, err)
	require.NotNil(t, st.Generated)
	assert.Equal(t, []string{"a ninja cat, estilo CiberPunk, con fondo negro"}, gen.prompts)
	assert.Equal(t, "a ninja cat, estilo CiberPunk, con fondo negro", st.Generated.Prompt)
	assert.True(t, st.IsCommittable(m.Catalog()))
	assert.False(t, m.Generating())
}

func TestRequestGenerationPreconditions(t *testing.T) {
	gen := &fakeGenerator{}
	m := newTestMachine(t, gen)
	m.SetPromptText("gato")

	_, err := m.RequestGeneration(context.Background(), "session-1")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	assert.Empty(t, gen.prompts)
}

func TestFailedGenerationKeepsInputs(t *testing.T) {
	gen := &fakeGenerator{}
	m := newTestMachine(t, gen)
	prepareAI(t, m)

	_, err := m.RequestGeneration(context.Background(), "session-1")
	require.NoError(t, err)

	gen.err = pkgerrors.New(pkgerrors.CodeGeneration, designgen.MessageGenerationFailed)
	st, err := m.RequestGeneration(context.Background(), "session-1")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeGeneration))
	assert.Nil(t, st.Generated)
	assert.Equal(t, "a ninja cat", st.PromptText)
	assert.Equal(t, "cyberpunk", st.StyleID)
	assert.Equal(t, "fondo-negro", st.BackgroundID)
}

func TestEditDuringGenerationDiscardsResult(t *testing.T) {
	gen := newGatedGenerator()
	m := newTestMachine(t, gen)
	prepareAI(t, m)

	done := make(chan generationOutcome, 1)
	go func() {
		st, err := m.RequestGeneration(context.Background(), "session-1")
		done <- generationOutcome{st, err}
	}()

	<-gen.started
	assert.True(t, m.Generating())
	m.SetPromptText("a ninja dog")
	gen.release <- nil

	out := <-done
	require.Error(t, out.err)
	assert.True(t, pkgerrors.IsCode(out.err, pkgerrors.CodeStateConflict))
	assert.Nil(t, out.state.Generated)
	assert.Equal(t, "a ninja dog", out.state.PromptText)
	assert.Nil(t, m.State().Generated)
	assert.False(t, m.Generating())
}

func TestUnrelatedEditsDuringGenerationKeepResult(t *testing.T) {
	gen := newGatedGenerator()
	m := newTestMachine(t, gen)
	prepareAI(t, m)

	done := make(chan generationOutcome, 1)
	go func() {
		st, err := m.RequestGeneration(context.Background(), "session-1")
		done <- generationOutcome{st, err}
	}()

	<-gen.started
	_, err := m.SelectSize("XL")
	require.NoError(t, err)
	_, err = m.SelectColor("red")
	require.NoError(t, err)
	gen.release <- nil

	out := <-done
	require.NoError(t, out.err)
	require.NotNil(t, out.state.Generated)
	assert.Equal(t, "XL", out.state.SizeID)
	assert.Equal(t, "red", out.state.ColorID)
}

func TestNewerRequestSupersedesOlder(t *testing.T) {
	gen := newGatedGenerator()
	m := newTestMachine(t, gen)
	prepareAI(t, m)

	first := make(chan generationOutcome, 1)
	go func() {
		st, err := m.RequestGeneration(context.Background(), "session-1")
		first <- generationOutcome{st, err}
	}()
	<-gen.started

	m.SetPromptText("a ninja dog")
	second := make(chan generationOutcome, 1)
	go func() {
		st, err := m.RequestGeneration(context.Background(), "session-1")
		second <- generationOutcome{st, err}
	}()
	<-gen.started

	gen.release <- nil
	gen.release <- nil
	outA, outB := <-first, <-second

	require.Error(t, outA.err)
	assert.True(t, pkgerrors.IsCode(outA.err, pkgerrors.CodeStateConflict))
	require.NoError(t, outB.err)
	require.NotNil(t, m.State().Generated)
	assert.Contains(t, m.State().Generated.Prompt, "a ninja dog")
}

func TestRepeatSubmissionWhileGeneratingIsRejected(t *testing.T) {
	gen := newGatedGenerator()
	m := newTestMachine(t, gen)
	prepareAI(t, m)

	done := make(chan generationOutcome, 1)
	go func() {
		st, err := m.RequestGeneration(context.Background(), "session-1")
		done <- generationOutcome{st, err}
	}()
	<-gen.started

	_, err := m.RequestGeneration(context.Background(), "session-1")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict))
	assert.Equal(t, MessageGenerationPending, pkgerrors.As(err).Message())
	assert.Len(t, gen.started, 0, "the repeat never reaches the generator")
	assert.True(t, m.Generating())

	gen.release <- nil
	out := <-done
	require.NoError(t, out.err)
	require.NotNil(t, out.state.Generated)
	assert.False(t, m.Generating())
}

func TestResetDiscardsOutstandingGeneration(t *testing.T) {
	gen := newGatedGenerator()
	m := newTestMachine(t, gen)
	prepareAI(t, m)

	done := make(chan generationOutcome, 1)
	go func() {
		st, err := m.RequestGeneration(context.Background(), "session-1")
		done <- generationOutcome{st, err}
	}()
	<-gen.started
	assert.Equal(t, State{}, m.Reset())
	gen.release <- errors.New("ignored")

	out := <-done
	require.Error(t, out.err)
	assert.Equal(t, State{}, m.State())
}
