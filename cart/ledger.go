// Package cart owns the authoritative in-memory list of line items. All
// mutations pass through the Ledger, which persists a snapshot through its
// store after every change; collaborators only ever see copies of the items.
package cart

import (
	"context"
	"errors"
	"sync"

	"github.com/hanko-field/cartkit/domain"
)

var errLedgerStoreRequired = errors.New("cart: store is required")

// Store is the persistence dependency of the ledger. Save never reports
// failure to the ledger; a failed write is the store's problem to log and the
// in-memory state stays authoritative.
type Store interface {
	Save(ctx context.Context, items []domain.LineItem)
	Load(ctx context.Context) []domain.LineItem
}

// LedgerDeps wires the persistence and logging dependencies of a Ledger.
type LedgerDeps struct {
	Store  Store
	Logger func(ctx context.Context, event string, fields map[string]any)
}

// Ledger is the single source of truth for cart contents. Items are unique by
// SKU and keep insertion order; updating an existing SKU never moves it.
type Ledger struct {
	mu     sync.Mutex
	items  []domain.LineItem
	store  Store
	logger func(ctx context.Context, event string, fields map[string]any)
}

// NewLedger constructs a Ledger enforcing dependency validation.
func NewLedger(deps LedgerDeps) (*Ledger, error) {
	if deps.Store == nil {
		return nil, errLedgerStoreRequired
	}
	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}
	return &Ledger{
		store:  deps.Store,
		logger: logger,
	}, nil
}

// Initialize seeds the ledger from the stored snapshot, or empty when the
// store has nothing usable. Calling it again discards uncommitted in-memory
// state and reloads whatever the store holds.
func (l *Ledger) Initialize(ctx context.Context) {
	items := l.store.Load(ctx)
	l.mu.Lock()
	l.items = items
	l.mu.Unlock()
	l.logger(ctx, "cart.initialized", map[string]any{"items": len(items)})
}

// AddItem appends item with the given quantity, or increments the quantity of
// an existing entry with the same SKU. A quantity below one is clamped to one:
// an add gesture always means "at least one more", and removal is the
// exclusive business of UpdateQuantity and RemoveItem. The incoming item's own
// Quantity field is ignored.
func (l *Ledger) AddItem(ctx context.Context, item domain.LineItem, quantity int) {
	if quantity < 1 {
		quantity = 1
	}
	l.mu.Lock()
	found := false
	for i := range l.items {
		if l.items[i].SKU == item.SKU {
			l.items[i].Quantity += quantity
			found = true
			break
		}
	}
	if !found {
		item.Quantity = quantity
		l.items = append(l.items, item)
	}
	snapshot := domain.CloneItems(l.items)
	l.mu.Unlock()

	l.store.Save(ctx, snapshot)
}

// RemoveItem deletes the entry with the given SKU. Removing an absent SKU is a
// no-op, but the snapshot is persisted either way.
func (l *Ledger) RemoveItem(ctx context.Context, sku string) {
	l.mu.Lock()
	kept := l.items[:0]
	for _, it := range l.items {
		if it.SKU != sku {
			kept = append(kept, it)
		}
	}
	l.items = kept
	snapshot := domain.CloneItems(l.items)
	l.mu.Unlock()

	l.store.Save(ctx, snapshot)
}

// UpdateQuantity sets the entry's quantity to exactly quantity. A quantity of
// zero or less removes the entry instead; an unknown SKU is a no-op.
func (l *Ledger) UpdateQuantity(ctx context.Context, sku string, quantity int) {
	if quantity <= 0 {
		l.RemoveItem(ctx, sku)
		return
	}
	l.mu.Lock()
	changed := false
	for i := range l.items {
		if l.items[i].SKU == sku {
			l.items[i].Quantity = quantity
			changed = true
			break
		}
	}
	if !changed {
		l.mu.Unlock()
		return
	}
	snapshot := domain.CloneItems(l.items)
	l.mu.Unlock()

	l.store.Save(ctx, snapshot)
}

// Clear empties the ledger and persists the empty snapshot.
func (l *Ledger) Clear(ctx context.Context) {
	l.mu.Lock()
	l.items = nil
	l.mu.Unlock()

	l.store.Save(ctx, nil)
	l.logger(ctx, "cart.cleared", nil)
}

// Items returns a defensive copy of the current items in insertion order.
func (l *Ledger) Items() []domain.LineItem {
	l.mu.Lock()
	defer l.mu.Unlock()
	return domain.CloneItems(l.items)
}

// Total sums unit price times quantity over all items. Plain float64
// accumulation; callers format for display.
func (l *Ledger) Total() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	var total float64
	for _, it := range l.items {
		total += it.UnitPrice * float64(it.Quantity)
	}
	return total
}

// Count sums the quantities of all items.
func (l *Ledger) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	count := 0
	for _, it := range l.items {
		count += it.Quantity
	}
	return count
}
