package cart

import (
	"context"
	"testing"

	"github.com/hanko-field/cartkit/domain"
)

type stubStore struct {
	saves    [][]domain.LineItem
	loadFunc func(ctx context.Context) []domain.LineItem
}

func (s *stubStore) Save(_ context.Context, items []domain.LineItem) {
	s.saves = append(s.saves, domain.CloneItems(items))
}

func (s *stubStore) Load(ctx context.Context) []domain.LineItem {
	if s.loadFunc == nil {
		return nil
	}
	return s.loadFunc(ctx)
}

func newTestLedger(t *testing.T, store Store) *Ledger {
	t.Helper()
	ledger, err := NewLedger(LedgerDeps{Store: store})
	if err != nil {
		t.Fatalf("unexpected error constructing ledger: %v", err)
	}
	return ledger
}

func TestNewLedgerRequiresStore(t *testing.T) {
	if _, err := NewLedger(LedgerDeps{}); err == nil {
		t.Fatalf("expected error for missing store")
	}
}

func TestLedgerAddItemMergesBySKU(t *testing.T) {
	store := &stubStore{}
	ledger := newTestLedger(t, store)
	ctx := context.Background()
	ledger.Initialize(ctx)

	ledger.AddItem(ctx, domain.LineItem{SKU: "sku-a", DisplayName: "Alpha", UnitPrice: 10}, 1)
	ledger.AddItem(ctx, domain.LineItem{SKU: "sku-b", DisplayName: "Beta", UnitPrice: 5}, 2)
	ledger.AddItem(ctx, domain.LineItem{SKU: "sku-a", DisplayName: "Alpha", UnitPrice: 10}, 3)

	items := ledger.Items()
	if len(items) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(items))
	}
	if items[0].SKU != "sku-a" || items[0].Quantity != 4 {
		t.Fatalf("expected sku-a quantity 4 first, got %+v", items[0])
	}
	if items[1].SKU != "sku-b" || items[1].Quantity != 2 {
		t.Fatalf("expected sku-b quantity 2 second, got %+v", items[1])
	}
}

func TestLedgerAddItemKeepsInsertionOrderOnUpdate(t *testing.T) {
	store := &stubStore{}
	ledger := newTestLedger(t, store)
	ctx := context.Background()
	ledger.Initialize(ctx)

	ledger.AddItem(ctx, domain.LineItem{SKU: "first"}, 1)
	ledger.AddItem(ctx, domain.LineItem{SKU: "second"}, 1)
	ledger.AddItem(ctx, domain.LineItem{SKU: "first"}, 1)

	items := ledger.Items()
	if items[0].SKU != "first" {
		t.Fatalf("expected first-added to stay first, got %q", items[0].SKU)
	}
}

func TestLedgerAddItemClampsNonPositiveQuantity(t *testing.T) {
	store := &stubStore{}
	ledger := newTestLedger(t, store)
	ctx := context.Background()
	ledger.Initialize(ctx)

	ledger.AddItem(ctx, domain.LineItem{SKU: "sku-a"}, 0)
	ledger.AddItem(ctx, domain.LineItem{SKU: "sku-b"}, -3)

	items := ledger.Items()
	if items[0].Quantity != 1 || items[1].Quantity != 1 {
		t.Fatalf("expected quantities clamped to 1, got %+v", items)
	}
}

func TestLedgerUpdateQuantitySetsExactValue(t *testing.T) {
	store := &stubStore{}
	ledger := newTestLedger(t, store)
	ctx := context.Background()
	ledger.Initialize(ctx)

	ledger.AddItem(ctx, domain.LineItem{SKU: "sku-a"}, 5)
	ledger.UpdateQuantity(ctx, "sku-a", 2)

	if got := ledger.Items()[0].Quantity; got != 2 {
		t.Fatalf("expected quantity set to 2, got %d", got)
	}
}

func TestLedgerUpdateQuantityNonPositiveRemoves(t *testing.T) {
	for _, quantity := range []int{0, -1, -100} {
		store := &stubStore{}
		ledger := newTestLedger(t, store)
		ctx := context.Background()
		ledger.Initialize(ctx)

		ledger.AddItem(ctx, domain.LineItem{SKU: "sku-a"}, 3)
		ledger.UpdateQuantity(ctx, "sku-a", quantity)

		if len(ledger.Items()) != 0 {
			t.Fatalf("quantity %d: expected item removed", quantity)
		}
	}
}

func TestLedgerUpdateQuantityUnknownSKUIsNoop(t *testing.T) {
	store := &stubStore{}
	ledger := newTestLedger(t, store)
	ctx := context.Background()
	ledger.Initialize(ctx)

	ledger.AddItem(ctx, domain.LineItem{SKU: "sku-a"}, 1)
	saves := len(store.saves)
	ledger.UpdateQuantity(ctx, "missing", 7)

	if len(store.saves) != saves {
		t.Fatalf("expected no persist for unknown sku")
	}
	if got := ledger.Items()[0].Quantity; got != 1 {
		t.Fatalf("expected untouched quantity, got %d", got)
	}
}

func TestLedgerRemoveItemAbsentIsNoError(t *testing.T) {
	store := &stubStore{}
	ledger := newTestLedger(t, store)
	ctx := context.Background()
	ledger.Initialize(ctx)

	ledger.RemoveItem(ctx, "ghost")

	if len(ledger.Items()) != 0 {
		t.Fatalf("expected empty ledger")
	}
}

func TestLedgerTotalsAndCount(t *testing.T) {
	store := &stubStore{}
	ledger := newTestLedger(t, store)
	ctx := context.Background()
	ledger.Initialize(ctx)

	if ledger.Total() != 0 || ledger.Count() != 0 {
		t.Fatalf("expected zero totals on empty ledger")
	}

	ledger.AddItem(ctx, domain.LineItem{SKU: "A", UnitPrice: 10}, 1)
	ledger.AddItem(ctx, domain.LineItem{SKU: "B", UnitPrice: 5}, 2)

	if got := ledger.Total(); got != 20 {
		t.Fatalf("expected total 20, got %v", got)
	}
	if got := ledger.Count(); got != 3 {
		t.Fatalf("expected count 3, got %d", got)
	}

	ledger.RemoveItem(ctx, "A")

	if got := ledger.Total(); got != 10 {
		t.Fatalf("expected total 10 after removal, got %v", got)
	}
	if got := ledger.Count(); got != 2 {
		t.Fatalf("expected count 2 after removal, got %d", got)
	}
}

func TestLedgerItemsReturnsDefensiveCopy(t *testing.T) {
	store := &stubStore{}
	ledger := newTestLedger(t, store)
	ctx := context.Background()
	ledger.Initialize(ctx)

	ledger.AddItem(ctx, domain.LineItem{SKU: "sku-a", Quantity: 99}, 1)

	items := ledger.Items()
	items[0].Quantity = 42

	if got := ledger.Items()[0].Quantity; got != 1 {
		t.Fatalf("expected internal state untouched, got %d", got)
	}
}

func TestLedgerPersistsAfterEveryMutation(t *testing.T) {
	store := &stubStore{}
	ledger := newTestLedger(t, store)
	ctx := context.Background()
	ledger.Initialize(ctx)

	ledger.AddItem(ctx, domain.LineItem{SKU: "sku-a"}, 1)
	ledger.UpdateQuantity(ctx, "sku-a", 4)
	ledger.RemoveItem(ctx, "sku-a")
	ledger.Clear(ctx)

	if len(store.saves) != 4 {
		t.Fatalf("expected 4 persisted snapshots, got %d", len(store.saves))
	}
	if last := store.saves[len(store.saves)-1]; len(last) != 0 {
		t.Fatalf("expected final snapshot empty, got %+v", last)
	}
}

func TestLedgerInitializeReloadsStoredSnapshot(t *testing.T) {
	stored := []domain.LineItem{{SKU: "kept", Quantity: 2}}
	store := &stubStore{
		loadFunc: func(context.Context) []domain.LineItem {
			return domain.CloneItems(stored)
		},
	}
	ledger := newTestLedger(t, store)
	ctx := context.Background()

	ledger.Initialize(ctx)
	if len(ledger.Items()) != 1 {
		t.Fatalf("expected seeded ledger")
	}

	// Uncommitted in-memory drift is wiped by re-initializing.
	ledger.AddItem(ctx, domain.LineItem{SKU: "extra"}, 1)
	ledger.Initialize(ctx)

	items := ledger.Items()
	if len(items) != 1 || items[0].SKU != "kept" {
		t.Fatalf("expected reload to restore stored snapshot, got %+v", items)
	}
}
