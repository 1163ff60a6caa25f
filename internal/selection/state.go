package selection

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/camisetia/storefront/internal/catalog"
	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

// MaxPromptLength bounds the AI prompt text, counted in characters.
const MaxPromptLength = 150

// Steps reported by State.Missing.
const (
	StepGarment    = "garment"
	StepSize       = "size"
	StepColor      = "color"
	StepDesign     = "design"
	StepStyle      = "style"
	StepBackground = "background"
	StepGeneration = "generation"
)

// GeneratedDesign is the image produced by one successful generation.
type GeneratedDesign struct {
	ID           uuid.UUID `json:"id"`
	ImageRef     string    `json:"imageRef"`
	ThumbnailRef string    `json:"thumbnailRef,omitempty"`
	Prompt       string    `json:"prompt"`
	GeneratedAt  time.Time `json:"generatedAt"`
}

// State is one customer's in-progress order configuration. It is a value:
// every transition returns a new State and leaves the receiver unchanged.
// Completeness is derived from the fields on demand and never stored.
type State struct {
	GarmentID    string           `json:"garmentId,omitempty"`
	SizeID       string           `json:"sizeId,omitempty"`
	ColorID      string           `json:"colorId,omitempty"`
	DesignID     string           `json:"designId,omitempty"`
	PromptText   string           `json:"promptText,omitempty"`
	StyleID      string           `json:"styleId,omitempty"`
	BackgroundID string           `json:"backgroundId,omitempty"`
	Generated    *GeneratedDesign `json:"generated,omitempty"`
}

// SelectGarment sets the garment and resets every later choice.
func (s State) SelectGarment(id string) State {
	return State{GarmentID: id}
}

func (s State) SelectSize(id string) State {
	s.SizeID = id
	return s
}

func (s State) SelectColor(id string) State {
	s.ColorID = id
	return s
}

// SelectPredefinedDesign picks a catalog design and drops all AI input.
func (s State) SelectPredefinedDesign(id string) State {
	s.DesignID = id
	s.PromptText = ""
	s.StyleID = ""
	s.BackgroundID = ""
	s.Generated = nil
	return s
}

// SetPromptText stores text truncated to MaxPromptLength. Blank text is
// stored as "". Non-blank text replaces any predefined design; a different
// text drops the generated image.
func (s State) SetPromptText(text string) State {
	text = truncate(norm.NFC.String(text), MaxPromptLength)
	if !hasText(text) {
		text = ""
	}
	if text != s.PromptText {
		s.Generated = nil
	}
	s.PromptText = text
	if hasText(text) {
		s.DesignID = ""
	}
	return s
}

func (s State) SetStyle(id string) State {
	if id != s.StyleID {
		s.Generated = nil
	}
	s.StyleID = id
	return s
}

func (s State) SetBackground(id string) State {
	if id != s.BackgroundID {
		s.Generated = nil
	}
	s.BackgroundID = id
	return s
}

func (s State) withGenerated(g *GeneratedDesign) State {
	s.Generated = g
	return s
}

// HasAIDesign reports whether the AI path is fully satisfied.
func (s State) HasAIDesign() bool {
	return hasText(s.PromptText) && s.StyleID != "" && s.BackgroundID != "" && s.Generated != nil
}

// IsCommittable reports whether the state can become a cart item.
func (s State) IsCommittable(cat *catalog.Catalog) bool {
	return len(s.Missing(cat)) == 0
}

// Missing lists the steps still needed before the state is committable,
// in the order a customer completes them.
func (s State) Missing(cat *catalog.Catalog) []string {
	var missing []string
	garment, ok := cat.Garment(s.GarmentID)
	if !ok {
		missing = append(missing, StepGarment)
	} else if garment.RequiresSize && s.SizeID == "" {
		missing = append(missing, StepSize)
	}
	if s.ColorID == "" {
		missing = append(missing, StepColor)
	}

	switch {
	case s.DesignID != "":
	case !hasText(s.PromptText):
		missing = append(missing, StepDesign)
	default:
		if s.StyleID == "" {
			missing = append(missing, StepStyle)
		}
		if s.BackgroundID == "" {
			missing = append(missing, StepBackground)
		}
		if s.Generated == nil {
			missing = append(missing, StepGeneration)
		}
	}
	return missing
}

var (
	errPromptRequired     = errors.New("prompt text required")
	errStyleRequired      = errors.New("style required")
	errBackgroundRequired = errors.New("background required")
)

// ComposePrompt builds the generator input "<text>, <style>, <background>".
func (s State) ComposePrompt(cat *catalog.Catalog) (string, error) {
	text := strings.TrimSpace(s.PromptText)
	if text == "" {
		return "", errPromptRequired
	}
	if s.StyleID == "" {
		return "", errStyleRequired
	}
	style, ok := cat.Style(s.StyleID)
	if !ok {
		return "", fmt.Errorf("unknown style %q", s.StyleID)
	}
	if s.BackgroundID == "" {
		return "", errBackgroundRequired
	}
	background, ok := cat.Background(s.BackgroundID)
	if !ok {
		return "", fmt.Errorf("unknown background %q", s.BackgroundID)
	}
	return text + ", " + style.PromptFragment + ", " + background.PromptFragment, nil
}

func hasText(text string) bool {
	return strings.TrimSpace(text) != ""
}

func truncate(text string, limit int) string {
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	return string([]rune(text)[:limit])
}
