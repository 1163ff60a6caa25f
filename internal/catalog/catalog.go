package catalog

import (
	"github.com/shopspring/decimal"
)

type Garment struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	BasePrice    decimal.Decimal `json:"basePrice"`
	RequiresSize bool            `json:"requiresSize"`
	ImageURL     string          `json:"imageUrl"`
	Hint         string          `json:"hint,omitempty"`
	// ColorIDs restricts the colors offered for the garment. Empty offers every color.
	ColorIDs []string `json:"colorIds,omitempty"`
}

type Size struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Color struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Hex  string `json:"hex"`
}

type Design struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	ImageURL      string          `json:"imageUrl"`
	Hint          string          `json:"hint,omitempty"`
	PriceModifier decimal.Decimal `json:"priceModifier"`
}

// Modifier is an AI style or background option and the text it adds to a prompt.
type Modifier struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	PromptFragment string `json:"promptFragment"`
}

// Catalog is the read-only set of options a customer can pick from.
// A Catalog is never mutated after construction and is safe for concurrent use.
type Catalog struct {
	garments    []Garment
	sizes       []Size
	colors      []Color
	designs     []Design
	styles      []Modifier
	backgrounds []Modifier

	garmentIdx    map[string]int
	sizeIdx       map[string]int
	colorIdx      map[string]int
	designIdx     map[string]int
	styleIdx      map[string]int
	backgroundIdx map[string]int

	aiDesignPrice decimal.Decimal
}

func newCatalog(garments []Garment, sizes []Size, colors []Color, designs []Design, styles, backgrounds []Modifier, aiDesignPrice decimal.Decimal) *Catalog {
	c := &Catalog{
		garments:      garments,
		sizes:         sizes,
		colors:        colors,
		designs:       designs,
		styles:        styles,
		backgrounds:   backgrounds,
		garmentIdx:    make(map[string]int, len(garments)),
		sizeIdx:       make(map[string]int, len(sizes)),
		colorIdx:      make(map[string]int, len(colors)),
		designIdx:     make(map[string]int, len(designs)),
		styleIdx:      make(map[string]int, len(styles)),
		backgroundIdx: make(map[string]int, len(backgrounds)),
		aiDesignPrice: aiDesignPrice,
	}
	for i, g := range garments {
		c.garmentIdx[g.ID] = i
	}
	for i, s := range sizes {
		c.sizeIdx[s.ID] = i
	}
	for i, col := range colors {
		c.colorIdx[col.ID] = i
	}
	for i, d := range designs {
		c.designIdx[d.ID] = i
	}
	for i, s := range styles {
		c.styleIdx[s.ID] = i
	}
	for i, b := range backgrounds {
		c.backgroundIdx[b.ID] = i
	}
	return c
}

func lookup[T any](items []T, idx map[string]int, id string) (T, bool) {
	i, ok := idx[id]
	if !ok {
		var zero T
		return zero, false
	}
	return items[i], true
}

func (c *Catalog) Garment(id string) (Garment, bool) {
	return lookup(c.garments, c.garmentIdx, id)
}

func (c *Catalog) Size(id string) (Size, bool) {
	return lookup(c.sizes, c.sizeIdx, id)
}

func (c *Catalog) Color(id string) (Color, bool) {
	return lookup(c.colors, c.colorIdx, id)
}

func (c *Catalog) Design(id string) (Design, bool) {
	return lookup(c.designs, c.designIdx, id)
}

func (c *Catalog) Style(id string) (Modifier, bool) {
	return lookup(c.styles, c.styleIdx, id)
}

func (c *Catalog) Background(id string) (Modifier, bool) {
	return lookup(c.backgrounds, c.backgroundIdx, id)
}

func (c *Catalog) Garments() []Garment { return append([]Garment(nil), c.garments...) }
func (c *Catalog) Sizes() []Size { return append([]Size(nil), c.sizes...) }
func (c *Catalog) Colors() []Color { return append([]Color(nil), c.colors...) }
func (c *Catalog) Designs() []Design { return append([]Design(nil), c.designs...) }
func (c *Catalog) Styles() []Modifier { return append([]Modifier(nil), c.styles...) }
func (c *Catalog) Backgrounds() []Modifier { return append([]Modifier(nil), c.backgrounds...) }

// AIDesignPriceModifier is the surcharge applied to items carrying an AI generated design.
func (c *Catalog) AIDesignPriceModifier() decimal.Decimal {
	return c.aiDesignPrice
}

// WithAIDesignPrice returns a copy of the catalog using the given AI design surcharge.
func (c *Catalog) WithAIDesignPrice(price decimal.Decimal) *Catalog {
	clone := *c
	clone.aiDesignPrice = price
	return &clone
}

// OfferedColors returns the colors a garment can be ordered in, in catalog order.
// The second result is false when the garment does not exist.
func (c *Catalog) OfferedColors(garmentID string) ([]Color, bool) {
	garment, ok := c.Garment(garmentID)
	if !ok {
		return nil, false
	}
	if len(garment.ColorIDs) == 0 {
		return c.Colors(), true
	}
	allowed := make(map[string]struct{}, len(garment.ColorIDs))
	for _, id := range garment.ColorIDs {
		allowed[id] = struct{}{}
	}
	out := make([]Color, 0, len(garment.ColorIDs))
	for _, col := range c.colors {
		if _, ok := allowed[col.ID]; ok {
			out = append(out, col)
		}
	}
	return out, true
}

// IsColorOffered reports whether colorID is in the offered set of garmentID.
func (c *Catalog) IsColorOffered(garmentID, colorID string) bool {
	colors, ok := c.OfferedColors(garmentID)
	if !ok {
		return false
	}
	for _, col := range colors {
		if col.ID == colorID {
			return true
		}
	}
	return false
}

// View is the serializable form of the whole catalog.
type View struct {
	Garments      []Garment       `json:"garments"`
	Sizes         []Size          `json:"sizes"`
	Colors        []Color         `json:"colors"`
	Designs       []Design        `json:"designs"`
	Styles        []Modifier      `json:"styles"`
	Backgrounds   []Modifier      `json:"backgrounds"`
	AIDesignPrice decimal.Decimal `json:"aiDesignPrice"`
}

func (c *Catalog) View() View {
	return View{
		Garments:      c.Garments(),
		Sizes:         c.Sizes(),
		Colors:        c.Colors(),
		Designs:       c.Designs(),
		Styles:        c.Styles(),
		Backgrounds:   c.Backgrounds(),
		AIDesignPrice: c.aiDesignPrice,
	}
}
