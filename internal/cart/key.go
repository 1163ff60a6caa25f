package cart

import (
	"fmt"
	"net/url"
	"strings"
)

const keyParts = 5

// Key is the structural identity of a line item. Two additions with equal
// keys merge into one line. AI designs carry their generation id, so every
// generated image gets its own line.
type Key struct {
	GarmentID    string
	SizeID       string
	ColorID      string
	DesignID     string
	GenerationID string
}

// ID encodes the key as the public item id. Each part is query-escaped so
// a ':' inside a catalog id cannot collide with the separator.
func (k Key) ID() string {
	parts := [keyParts]string{k.GarmentID, k.SizeID, k.ColorID, k.DesignID, k.GenerationID}
	for i, p := range parts {
		parts[i] = url.QueryEscape(p)
	}
	return strings.Join(parts[:], ":")
}

// ParseID decodes an id produced by Key.ID.
func ParseID(id string) (Key, error) {
	parts := strings.Split(id, ":")
	if len(parts) != keyParts {
		return Key{}, fmt.Errorf("item id %q: expected %d parts, got %d", id, keyParts, len(parts))
	}
	for i, p := range parts {
		decoded, err := url.QueryUnescape(p)
		if err != nil {
			return Key{}, fmt.Errorf("item id %q: %w", id, err)
		}
		parts[i] = decoded
	}
	return Key{
		GarmentID:    parts[0],
		SizeID:       parts[1],
		ColorID:      parts[2],
		DesignID:     parts[3],
		GenerationID: parts[4],
	}, nil
}
