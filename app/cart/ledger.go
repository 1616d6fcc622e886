// Package cart keeps a shopper's selection of fabrics and the meters wanted
// of each, persisting a snapshot after every change.
package cart

import (
	"context"
	"errors"
	"math"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/telascatalogo/telas/app/models"
	"github.com/telascatalogo/telas/pkg/collection"
	"github.com/telascatalogo/telas/pkg/logger"
	"github.com/telascatalogo/telas/pkg/metrics"
)

// MinMeters is the smallest quantity a line can hold.
const MinMeters = 0.5

// Line is one fabric in the cart. Quantity counts how many times the fabric
// was added; Meters is what is actually ordered.
type Line struct {
	models.Fabric
	Quantity int     `json:"quantity"`
	Meters   float64 `json:"meters"`
}

// Subtotal is price × meters.
func (l Line) Subtotal() decimal.Decimal {
	return decimal.NewFromFloat(l.PricePerMeter).Mul(decimal.NewFromFloat(l.Meters))
}

// Ledger is a cart owned by a single session. It is safe for concurrent use,
// but two ledgers sharing a snapshot key overwrite each other.
type Ledger struct {
	mu       sync.Mutex
	lines    []Line
	store    SnapshotStore
	key      string
	degraded bool
}

// Open loads the snapshot under key. A missing, unreadable or corrupt
// snapshot yields an empty ledger.
func Open(ctx context.Context, store SnapshotStore, key string) *Ledger {
	l := &Ledger{store: store, key: key}

	lines, err := store.Load(ctx, key)
	switch {
	case errors.Is(err, ErrSnapshotNotFound):
	case err != nil:
		metrics.CartSnapshotFailures.WithLabelValues("load").Inc()
		logger.WithCtx(ctx).Warn("cart: snapshot unreadable, starting empty", "key", key, "error", err)
	default:
		l.lines = sanitize(lines)
	}
	return l
}

// sanitize drops lines without an id, merges away duplicates (first wins)
// and clamps quantities.
func sanitize(lines []Line) []Line {
	valid := collection.Filter(lines, func(ln Line) bool { return ln.ID != 0 })
	out := collection.UniqueBy(valid, func(ln Line) uint { return ln.ID })
	for i := range out {
		out[i].Meters = clampMeters(out[i].Meters)
		if out[i].Quantity < 1 {
			out[i].Quantity = 1
		}
	}
	return out
}

func clampMeters(m float64) float64 {
	if math.IsNaN(m) || math.IsInf(m, 0) || m < MinMeters {
		return MinMeters
	}
	return m
}

func (l *Ledger) indexOf(id uint) int {
	return collection.IndexOf(l.lines, func(ln Line) bool { return ln.ID == id })
}

// Add puts meters of f into the cart, merging with an existing line for the
// same fabric. Meters below MinMeters (or not finite) count as MinMeters.
func (l *Ledger) Add(ctx context.Context, f models.Fabric, meters float64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	meters = clampMeters(meters)
	if i := l.indexOf(f.ID); i >= 0 {
		l.lines[i].Meters += meters
		l.lines[i].Quantity++
	} else {
		l.lines = append(l.lines, Line{Fabric: f, Quantity: 1, Meters: meters})
	}
	l.persist(ctx)
}

// SetMeters replaces the meters of the line for id, floored at MinMeters.
// Unknown ids are ignored.
func (l *Ledger) SetMeters(ctx context.Context, id uint, meters float64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexOf(id)
	if i < 0 {
		return
	}
	l.lines[i].Meters = clampMeters(meters)
	l.persist(ctx)
}

// Remove deletes the line for id, if any.
func (l *Ledger) Remove(ctx context.Context, id uint) {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexOf(id)
	if i < 0 {
		return
	}
	l.lines = append(l.lines[:i:i], l.lines[i+1:]...)
	l.persist(ctx)
}

// Clear empties the cart.
func (l *Ledger) Clear(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.lines = nil
	l.persist(ctx)
}

// Lines returns a copy of the lines in insertion order.
func (l *Ledger) Lines() []Line {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Line, len(l.lines))
	copy(out, l.lines)
	return out
}

// LineCount is the number of distinct fabrics in the cart.
func (l *Ledger) LineCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.lines)
}

// Total is Σ price × meters over all lines.
func (l *Ledger) Total() decimal.Decimal {
	return Total(l.Lines())
}

// Total sums the subtotals of lines.
func Total(lines []Line) decimal.Decimal {
	return collection.Reduce(lines, decimal.Zero, func(acc decimal.Decimal, ln Line) decimal.Decimal {
		return acc.Add(ln.Subtotal())
	})
}

// Degraded reports whether persistence failed and the ledger now lives only
// in memory.
func (l *Ledger) Degraded() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.degraded
}

// persist saves the snapshot; callers hold l.mu. After the first failure the
// ledger switches to an in-memory store and keeps working.
func (l *Ledger) persist(ctx context.Context) {
	snapshot := make([]Line, len(l.lines))
	copy(snapshot, l.lines)

	err := l.store.Save(ctx, l.key, snapshot)
	if err == nil {
		return
	}

	metrics.CartSnapshotFailures.WithLabelValues("save").Inc()
	logger.WithCtx(ctx).Warn("cart: snapshot save failed, continuing in memory", "key", l.key, "error", err)

	l.degraded = true
	mem := NewMemoryStore()
	_ = mem.Save(ctx, l.key, snapshot)
	l.store = mem
}
