package cart

import (
	"time"

	"github.com/shopspring/decimal"
)

// Design id and name recorded for AI generated designs.
const (
	AIDesignID   = "ai-design"
	AIDesignName = "Diseño personalizado con IA"
)

type GarmentRef struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl,omitempty"`
}

type SizeRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ColorRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Hex  string `json:"hex"`
}

type DesignRef struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ImageURL     string `json:"imageUrl,omitempty"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
	Hint         string `json:"hint,omitempty"`
	GenerationID string `json:"generationId,omitempty"`
}

// Item is one cart line. Everything except Quantity is a snapshot taken when
// the line was added; UnitPrice in particular never changes afterwards.
type Item struct {
	ID        string          `json:"id"`
	Garment   GarmentRef      `json:"garment"`
	Size      *SizeRef        `json:"size,omitempty"`
	Color     ColorRef        `json:"color"`
	Design    DesignRef       `json:"design"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	AIPrompt  string          `json:"aiPrompt,omitempty"`
	AddedAt   time.Time       `json:"addedAt"`
}

func (i Item) Key() Key {
	k := Key{
		GarmentID:    i.Garment.ID,
		ColorID:      i.Color.ID,
		DesignID:     i.Design.ID,
		GenerationID: i.Design.GenerationID,
	}
	if i.Size != nil {
		k.SizeID = i.Size.ID
	}
	return k
}

// IsAI reports whether the line carries a generated design.
func (i Item) IsAI() bool {
	return i.Design.GenerationID != ""
}

func (i Item) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
