package selection

import (
	"strings"
	"testing"
	"time"

	"github.com/camisetia/storefront/internal/catalog"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)
	return cat
}

func generated(prompt string) *GeneratedDesign {
	return &GeneratedDesign{ID: uuid.New(), ImageRef: "https://cdn.example.com/a.png", Prompt: prompt, GeneratedAt: time.Now()}
}

func fullAIState() State {
	return State{}.
		SelectGarment("short-sleeve").
		SelectSize("M").
		SelectColor("black").
		SetPromptText("a ninja cat").
		SetStyle("cyberpunk").
		SetBackground("fondo-negro").
		withGenerated(generated("a ninja cat, estilo CiberPunk, con fondo negro"))
}

func TestSelectGarmentResetsEverythingAfterIt(t *testing.T) {
	states := []State{
		fullAIState(),
		State{}.SelectGarment("cap").SelectColor("white").SelectPredefinedDesign("design2"),
		{},
	}
	for _, garment := range []string{"short-sleeve", "long-sleeve", "cap", "short-sleeve"} {
		for _, st := range states {
			next := st.SelectGarment(garment)
			assert.Equal(t, State{GarmentID: garment}, next)
		}
	}
}

func TestTransitionsDoNotMutateReceiver(t *testing.T) {
	st := fullAIState()
	_ = st.SelectPredefinedDesign("design1")
	_ = st.SetPromptText("otra idea")
	_ = st.SelectGarment("cap")
	assert.Equal(t, fullAIState().PromptText, st.PromptText)
	assert.NotNil(t, st.Generated)
	assert.Equal(t, "short-sleeve", st.GarmentID)
}

func TestSelectPredefinedDesignClearsAIInputs(t *testing.T) {
	st := fullAIState().SelectPredefinedDesign("design3")
	assert.Equal(t, "design3", st.DesignID)
	assert.Empty(t, st.PromptText)
	assert.Empty(t, st.StyleID)
	assert.Empty(t, st.BackgroundID)
	assert.Nil(t, st.Generated)
	assert.Equal(t, "M", st.SizeID)
	assert.Equal(t, "black", st.ColorID)
}

func TestSetPromptText(t *testing.T) {
	st := State{}.SelectGarment("short-sleeve").SelectPredefinedDesign("design1")

	blank := st.SetPromptText("   ")
	assert.Equal(t, "design1", blank.DesignID, "blank text keeps the design")
	assert.Empty(t, blank.PromptText, "blank text is not stored next to a design")
	assert.Equal(t, blank, st.SetPromptText("\t\n"))

	typed := st.SetPromptText("gato")
	assert.Empty(t, typed.DesignID)
	assert.Equal(t, "gato", typed.PromptText)

	long := strings.Repeat("ñ", 200)
	truncated := st.SetPromptText(long)
	assert.Equal(t, MaxPromptLength, len([]rune(truncated.PromptText)))

	ai := fullAIState()
	assert.NotNil(t, ai.SetPromptText("a ninja cat").Generated, "same text keeps the image")
	assert.Nil(t, ai.SetPromptText("a ninja dog").Generated)
	assert.Nil(t, ai.SetPromptText("").Generated)
}

func TestStyleAndBackgroundChangesInvalidateImage(t *testing.T) {
	ai := fullAIState()
	assert.NotNil(t, ai.SetStyle("cyberpunk").Generated)
	assert.Nil(t, ai.SetStyle("anime").Generated)
	assert.NotNil(t, ai.SetBackground("fondo-negro").Generated)
	assert.Nil(t, ai.SetBackground("fondo-blanco").Generated)

	// size and color never touch the design
	assert.NotNil(t, ai.SelectSize("XL").SelectColor("red").Generated)
}

func TestIsCommittable(t *testing.T) {
	cat := testCatalog(t)

	predefined := State{}.SelectGarment("short-sleeve").SelectSize("M").SelectColor("black").SelectPredefinedDesign("design1")
	assert.True(t, predefined.IsCommittable(cat))

	cases := map[string]State{
		"empty":               {},
		"no garment":          {SizeID: "M", ColorID: "black", DesignID: "design1"},
		"unknown garment":     {GarmentID: "hoodie", ColorID: "black", DesignID: "design1"},
		"no size":             predefined.SelectSize(""),
		"no color":            predefined.SelectColor(""),
		"no design":           State{}.SelectGarment("short-sleeve").SelectSize("M").SelectColor("black"),
		"prompt without gen":  fullAIState().withGenerated(nil),
		"prompt without bg":   fullAIState().SetBackground(""),
		"image without style": fullAIState().withGenerated(generated("x")).SetStyle(""),
	}
	for name, st := range cases {
		assert.False(t, st.IsCommittable(cat), name)
	}

	assert.True(t, fullAIState().IsCommittable(cat))

	capState := State{}.SelectGarment("cap").SelectColor("white").SelectPredefinedDesign("design4")
	assert.True(t, capState.IsCommittable(cat), "garments without sizing need no size")
}

func TestMissingSteps(t *testing.T) {
	cat := testCatalog(t)

	assert.Equal(t, []string{StepGarment, StepColor, StepDesign}, State{}.Missing(cat))
	assert.Equal(t, []string{StepSize, StepColor, StepDesign}, State{}.SelectGarment("long-sleeve").Missing(cat))

	partialAI := State{}.SelectGarment("cap").SelectColor("black").SetPromptText("gato")
	assert.Equal(t, []string{StepStyle, StepBackground, StepGeneration}, partialAI.Missing(cat))
	assert.Empty(t, fullAIState().Missing(cat))
}

func TestComposePrompt(t *testing.T) {
	cat := testCatalog(t)

	prompt, err := fullAIState().ComposePrompt(cat)
	require.NoError(t, err)
	assert.Equal(t, "a ninja cat, estilo CiberPunk, con fondo negro", prompt)

	_, err = fullAIState().SetPromptText(" ").ComposePrompt(cat)
	assert.ErrorIs(t, err, errPromptRequired)
	_, err = fullAIState().SetStyle("").ComposePrompt(cat)
	assert.ErrorIs(t, err, errStyleRequired)
	_, err = fullAIState().SetBackground("").ComposePrompt(cat)
	assert.ErrorIs(t, err, errBackgroundRequired)
	_, err = fullAIState().SetStyle("vaporwave").ComposePrompt(cat)
	assert.Error(t, err)
}
