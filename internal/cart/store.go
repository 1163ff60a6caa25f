package cart

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/camisetia/storefront/pkg/logger"
	"github.com/camisetia/storefront/pkg/metrics"
	"github.com/shopspring/decimal"
)

// Options wires a Store.
type Options struct {
	Storage Storage
	// Key is the storage key holding this cart.
	Key     string
	Logger  *logger.Logger
	Metrics *metrics.CartMetrics
	Clock   func() time.Time
}

// Store is one client's cart. Every mutation writes the full item list to
// storage before returning. Write failures are logged and counted, never
// returned, so the in-memory cart stays authoritative.
type Store struct {
	mu      sync.Mutex
	key     string
	storage Storage
	items   []Item
	logg    *logger.Logger
	metrics *metrics.CartMetrics
	now     func() time.Time
}

// Open rehydrates the cart stored under opts.Key. Missing or unreadable data
// yields an empty cart.
func Open(ctx context.Context, opts Options) (*Store, error) {
	if opts.Storage == nil {
		return nil, errors.New("cart storage required")
	}
	if strings.TrimSpace(opts.Key) == "" {
		return nil, errors.New("cart key required")
	}
	logg := opts.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}

	s := &Store{
		key:     opts.Key,
		storage: opts.Storage,
		items:   []Item{},
		logg:    logg,
		metrics: opts.Metrics,
		now:     clock,
	}
	s.items = s.load(ctx)
	return s, nil
}

func (s *Store) load(ctx context.Context) []Item {
	ctx = s.logg.WithField(ctx, "cart_key", s.key)
	data, found, err := s.storage.Load(ctx, s.key)
	if err != nil {
		s.metrics.IncLoadFailure()
		s.logg.WarnErr(ctx, "cart.load_failed", err)
		return []Item{}
	}
	if !found || len(data) == 0 {
		return []Item{}
	}

	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		s.metrics.IncLoadFailure()
		s.logg.WarnErr(ctx, "cart.load_malformed", err)
		return []Item{}
	}

	// Drop lines that could not have been written by this store.
	clean := make([]Item, 0, len(items))
	for _, item := range items {
		if item.Quantity <= 0 || item.Garment.ID == "" || item.ID != item.Key().ID() {
			s.logg.Warn(s.logg.WithField(ctx, "item_id", item.ID), "cart.load_dropped_item")
			continue
		}
		clean = append(clean, item)
	}
	return clean
}

// Add merges item into the cart. A line with the same key gains the incoming
// quantity; otherwise item is appended. Quantities below one count as one.
func (s *Store) Add(ctx context.Context, item Item) Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	if item.Quantity <= 0 {
		item.Quantity = 1
	}
	item.ID = item.Key().ID()

	line := item
	if idx := s.indexLocked(item.ID); idx >= 0 {
		s.items[idx].Quantity += item.Quantity
		line = s.items[idx]
	} else {
		if line.AddedAt.IsZero() {
			line.AddedAt = s.now()
		}
		s.items = append(s.items, line)
	}

	s.metrics.IncMutation(metrics.CartOpAdd)
	s.persistLocked(ctx)
	return line
}

// Remove deletes the line with id. Unknown ids are ignored.
func (s *Store) Remove(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(ctx, id)
}

// SetQuantity sets the quantity of line id. n <= 0 removes the line.
// The second result is false when no line remains for id.
func (s *Store) SetQuantity(ctx context.Context, id string, n int) (Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n <= 0 {
		s.removeLocked(ctx, id)
		return Item{}, false
	}
	idx := s.indexLocked(id)
	if idx < 0 {
		return Item{}, false
	}
	s.items[idx].Quantity = n
	s.metrics.IncMutation(metrics.CartOpSetQuantity)
	s.persistLocked(ctx)
	return s.items[idx], true
}

func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = []Item{}
	s.metrics.IncMutation(metrics.CartOpClear)
	s.persistLocked(ctx)
}

// Items returns the lines in insertion order.
func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Item{}, s.items...)
}

func (s *Store) Get(id string) (Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := s.indexLocked(id); idx >= 0 {
		return s.items[idx], true
	}
	return Item{}, false
}

// Total is the sum of unit price times quantity over all lines.
func (s *Store) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Total(s.items)
}

// ItemCount is the sum of quantities over all lines.
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, item := range s.items {
		count += item.Quantity
	}
	return count
}

// Total sums the line totals of items.
func Total(items []Item) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}
	return total
}

func (s *Store) removeLocked(ctx context.Context, id string) {
	idx := s.indexLocked(id)
	if idx < 0 {
		return
	}
	s.items = append(s.items[:idx], s.items[idx+1:]...)
	s.metrics.IncMutation(metrics.CartOpRemove)
	s.persistLocked(ctx)
}

func (s *Store) indexLocked(id string) int {
	for i, item := range s.items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) persistLocked(ctx context.Context) {
	data, err := json.Marshal(s.items)
	if err == nil {
		err = s.storage.Save(ctx, s.key, data)
	}
	if err != nil {
		s.metrics.IncPersistFailure()
		s.logg.WarnErr(s.logg.WithField(ctx, "cart_key", s.key), "cart.persist_failed", err)
	}
}
