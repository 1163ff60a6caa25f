package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/camisetia/storefront/pkg/config"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

type fileCatalog struct {
	AIDesignPrice string         `yaml:"aiDesignPrice"`
	Garments      []fileGarment  `yaml:"garments"`
	Sizes         []Size         `yaml:"sizes"`
	Colors        []Color        `yaml:"colors"`
	Designs       []fileDesign   `yaml:"designs"`
	Styles        []fileModifier `yaml:"styles"`
	Backgrounds   []fileModifier `yaml:"backgrounds"`
}

type fileGarment struct {
	ID           string   `yaml:"id"`
	Name         string   `yaml:"name"`
	BasePrice    string   `yaml:"basePrice"`
	RequiresSize bool     `yaml:"requiresSize"`
	ImageURL     string   `yaml:"imageUrl"`
	Hint         string   `yaml:"hint"`
	Colors       []string `yaml:"colors"`
}

type fileDesign struct {
	ID            string `yaml:"id"`
	Name          string `yaml:"name"`
	ImageURL      string `yaml:"imageUrl"`
	Hint          string `yaml:"hint"`
	PriceModifier string `yaml:"priceModifier"`
}

type fileModifier struct {
	ID     string `yaml:"id"`
	Name   string `yaml:"name"`
	Prompt string `yaml:"prompt"`
}

// Default returns the catalog bundled with the binary.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// LoadFile reads a catalog document from disk.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(data)
}

// Load builds the catalog described by cfg: the file at cfg.Path when set,
// otherwise the bundled default, with the AI design surcharge override applied.
func Load(cfg config.CatalogConfig) (*Catalog, error) {
	var (
		cat *Catalog
		err error
	)
	if strings.TrimSpace(cfg.Path) != "" {
		cat, err = LoadFile(cfg.Path)
	} else {
		cat, err = Default()
	}
	if err != nil {
		return nil, err
	}

	price, ok, err := cfg.AIDesignPriceOverride()
	if err != nil {
		return nil, err
	}
	if ok {
		cat = cat.WithAIDesignPrice(price)
	}
	return cat, nil
}

// Parse decodes and validates a YAML catalog document. Every problem found
// is reported in the returned error, not only the first.
func Parse(data []byte) (*Catalog, error) {
	var doc fileCatalog
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	var errs error
	aiPrice := parsePrice(&errs, "aiDesignPrice", doc.AIDesignPrice)

	colorIDs := make(map[string]struct{}, len(doc.Colors))
	seen := newIDSet(&errs, "color")
	for i, col := range doc.Colors {
		seen.check(i, col.ID, col.Name)
		colorIDs[col.ID] = struct{}{}
	}

	garments := make([]Garment, 0, len(doc.Garments))
	seen = newIDSet(&errs, "garment")
	for i, g := range doc.Garments {
		seen.check(i, g.ID, g.Name)
		for _, colorID := range g.Colors {
			if _, ok := colorIDs[colorID]; !ok {
				errs = multierr.Append(errs, fmt.Errorf("garment %q references unknown color %q", g.ID, colorID))
			}
		}
		garments = append(garments, Garment{
			ID:           g.ID,
			Name:         g.Name,
			BasePrice:    parsePrice(&errs, "garment "+g.ID+" basePrice", g.BasePrice),
			RequiresSize: g.RequiresSize,
			ImageURL:     g.ImageURL,
			Hint:         g.Hint,
			ColorIDs:     g.Colors,
		})
	}

	seen = newIDSet(&errs, "size")
	for i, s := range doc.Sizes {
		seen.check(i, s.ID, s.Name)
	}

	designs := make([]Design, 0, len(doc.Designs))
	seen = newIDSet(&errs, "design")
	for i, d := range doc.Designs {
		seen.check(i, d.ID, d.Name)
		designs = append(designs, Design{
			ID:            d.ID,
			Name:          d.Name,
			ImageURL:      d.ImageURL,
			Hint:          d.Hint,
			PriceModifier: parsePrice(&errs, "design "+d.ID+" priceModifier", d.PriceModifier),
		})
	}

	styles := toModifiers(&errs, "style", doc.Styles)
	backgrounds := toModifiers(&errs, "background", doc.Backgrounds)

	if len(garments) == 0 {
		errs = multierr.Append(errs, fmt.Errorf("catalog has no garments"))
	}
	if len(doc.Colors) == 0 {
		errs = multierr.Append(errs, fmt.Errorf("catalog has no colors"))
	}
	if errs != nil {
		return nil, fmt.Errorf("invalid catalog: %w", errs)
	}

	return newCatalog(garments, doc.Sizes, doc.Colors, designs, styles, backgrounds, aiPrice), nil
}

func toModifiers(errs *error, kind string, in []fileModifier) []Modifier {
	seen := newIDSet(errs, kind)
	out := make([]Modifier, 0, len(in))
	for i, m := range in {
		seen.check(i, m.ID, m.Name)
		if strings.TrimSpace(m.Prompt) == "" {
			*errs = multierr.Append(*errs, fmt.Errorf("%s %q has no prompt fragment", kind, m.ID))
		}
		out = append(out, Modifier{ID: m.ID, Name: m.Name, PromptFragment: m.Prompt})
	}
	return out
}

// parsePrice parses a non-negative amount. A blank value is zero.
func parsePrice(errs *error, field, raw string) decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		*errs = multierr.Append(*errs, fmt.Errorf("%s: %w", field, err))
		return decimal.Zero
	}
	if value.IsNegative() {
		*errs = multierr.Append(*errs, fmt.Errorf("%s must not be negative", field))
		return decimal.Zero
	}
	return value
}

type idSet struct {
	errs *error
	kind string
	ids  map[string]struct{}
}

func newIDSet(errs *error, kind string) *idSet {
	return &idSet{errs: errs, kind: kind, ids: make(map[string]struct{})}
}

func (s *idSet) check(index int, id, name string) {
	if strings.TrimSpace(id) == "" {
		*s.errs = multierr.Append(*s.errs, fmt.Errorf("%s #%d has an empty id", s.kind, index))
		return
	}
	if strings.TrimSpace(name) == "" {
		*s.errs = multierr.Append(*s.errs, fmt.Errorf("%s %q has an empty name", s.kind, id))
	}
	if _, dup := s.ids[id]; dup {
		*s.errs = multierr.Append(*s.errs, fmt.Errorf("duplicate %s id %q", s.kind, id))
		return
	}
	s.ids[id] = struct{}{}
}
