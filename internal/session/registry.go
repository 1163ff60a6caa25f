// Package session keeps one selection machine and one cart per storefront
// session. Carts live in storage and outlast the in-memory workspace;
// selections do not.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/camisetia/storefront/internal/cart"
	"github.com/camisetia/storefront/internal/catalog"
	"github.com/camisetia/storefront/internal/selection"
	"github.com/camisetia/storefront/pkg/logger"
	"github.com/camisetia/storefront/pkg/metrics"
)

const DefaultIdleTTL = 2 * time.Hour

type Options struct {
	Catalog   *catalog.Catalog
	Generator selection.Generator
	Storage   cart.Storage
	// CartKey prefixes the storage key of every session cart.
	CartKey     string
	IdleTTL     time.Duration
	Logger      *logger.Logger
	CartMetrics *metrics.CartMetrics
	Clock       func() time.Time
}

type Registry struct {
	mu         sync.Mutex
	opts       Options
	workspaces map[string]*Workspace
}

func NewRegistry(opts Options) (*Registry, error) {
	if opts.Catalog == nil {
		return nil, errors.New("catalog required")
	}
	if opts.Generator == nil {
		return nil, errors.New("design generator required")
	}
	if opts.Storage == nil {
		return nil, errors.New("cart storage required")
	}
	if strings.TrimSpace(opts.CartKey) == "" {
		return nil, errors.New("cart key required")
	}
	if opts.IdleTTL <= 0 {
		opts.IdleTTL = DefaultIdleTTL
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &Registry{opts: opts, workspaces: make(map[string]*Workspace)}, nil
}

// CartKeyFor is the storage key holding the cart of sessionID.
func (r *Registry) CartKeyFor(sessionID string) string {
	return r.opts.CartKey + ":" + sessionID
}

// Get returns the workspace of sessionID, creating it and rehydrating its
// cart on first use. Workspaces idle longer than the TTL are dropped first.
// The cart is read from storage without holding the registry lock.
func (r *Registry) Get(ctx context.Context, sessionID string) (*Workspace, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, errors.New("session id required")
	}
	now := r.opts.Clock()

	r.mu.Lock()
	r.sweepLocked(ctx, now)
	if ws, ok := r.workspaces[sessionID]; ok {
		ws.touch(now)
		r.mu.Unlock()
		return ws, nil
	}
	r.mu.Unlock()

	machine, err := selection.NewMachine(r.opts.Catalog, r.opts.Generator)
	if err != nil {
		return nil, err
	}
	store, err := cart.Open(ctx, cart.Options{
		Storage: r.opts.Storage,
		Key:     r.CartKeyFor(sessionID),
		Logger:  r.opts.Logger,
		Metrics: r.opts.CartMetrics,
		Clock:   r.opts.Clock,
	})
	if err != nil {
		return nil, fmt.Errorf("open cart: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// A concurrent first request may have won; its workspace is the one kept.
	if ws, ok := r.workspaces[sessionID]; ok {
		ws.touch(now)
		return ws, nil
	}
	ws := &Workspace{ID: sessionID, Selection: machine, Cart: store}
	ws.touch(now)
	r.workspaces[sessionID] = ws
	r.opts.Logger.Debug(r.opts.Logger.WithSessionID(ctx, sessionID), "session.workspace_created")
	return ws, nil
}

// Len reports how many workspaces are held in memory.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.workspaces)
}

func (r *Registry) sweepLocked(ctx context.Context, now time.Time) {
	for id, ws := range r.workspaces {
		if ws.idleSince(now) > r.opts.IdleTTL && !ws.Selection.Generating() {
			delete(r.workspaces, id)
			r.opts.Logger.Debug(r.opts.Logger.WithSessionID(ctx, id), "session.workspace_evicted")
		}
	}
}
