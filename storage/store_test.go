package storage

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/hanko-field/cartkit/domain"
)

type failingSlot struct {
	readErr  error
	writeErr error
}

func (s *failingSlot) Read(context.Context) ([]byte, error) { return nil, s.readErr }
func (s *failingSlot) Write(context.Context, []byte) error  { return s.writeErr }
func (s *failingSlot) Delete(context.Context) error         { return nil }

type eventRecorder struct {
	events []string
}

func (r *eventRecorder) logger() func(context.Context, string, map[string]any) {
	return func(_ context.Context, event string, _ map[string]any) {
		r.events = append(r.events, event)
	}
}

func (r *eventRecorder) count(event string) int {
	n := 0
	for _, e := range r.events {
		if e == event {
			n++
		}
	}
	return n
}

func newTestStore(t *testing.T, slot Slot, ttl time.Duration, clock func() time.Time, logger func(context.Context, string, map[string]any)) *Store {
	t.Helper()
	store, err := NewStore(StoreDeps{Slot: slot, TTL: ttl, Clock: clock, Logger: logger})
	if err != nil {
		t.Fatalf("unexpected error constructing store: %v", err)
	}
	return store
}

func TestNewStoreValidatesDeps(t *testing.T) {
	if _, err := NewStore(StoreDeps{TTL: time.Hour}); err == nil {
		t.Fatalf("expected error for missing slot")
	}
	if _, err := NewStore(StoreDeps{Slot: NewMemorySlot()}); err == nil {
		t.Fatalf("expected error for non-positive ttl")
	}
}

func TestStoreRoundTripPreservesOrder(t *testing.T) {
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	store := newTestStore(t, NewMemorySlot(), 24*time.Hour, func() time.Time { return now }, nil)
	ctx := context.Background()

	items := []domain.LineItem{
		{SKU: "b", DisplayName: "Second", UnitPrice: 5, Quantity: 2},
		{SKU: "a", DisplayName: "First", UnitPrice: 10, Quantity: 1, VariantLabel: "large"},
	}
	store.Save(ctx, items)

	loaded := store.Load(ctx)
	if !reflect.DeepEqual(items, loaded) {
		t.Fatalf("round trip mismatch:\nsaved  %+v\nloaded %+v", items, loaded)
	}
}

func TestStoreExpiryWindow(t *testing.T) {
	savedAt := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	now := savedAt
	slot := NewMemorySlot()
	store := newTestStore(t, slot, 2*time.Hour, func() time.Time { return now }, nil)
	ctx := context.Background()

	store.Save(ctx, []domain.LineItem{{SKU: "a", Quantity: 1}})

	now = savedAt.Add(2*time.Hour - time.Millisecond)
	if got := store.Load(ctx); len(got) != 1 {
		t.Fatalf("expected snapshot before expiry, got %+v", got)
	}

	now = savedAt.Add(2*time.Hour + time.Millisecond)
	if got := store.Load(ctx); got != nil {
		t.Fatalf("expected absent snapshot after expiry, got %+v", got)
	}

	// The stale slot is deleted at that read.
	if _, err := slot.Read(ctx); !errors.Is(err, ErrSlotEmpty) {
		t.Fatalf("expected slot deleted, got err %v", err)
	}
}

func TestStoreLoadAbsentSlot(t *testing.T) {
	rec := &eventRecorder{}
	store := newTestStore(t, NewMemorySlot(), time.Hour, nil, rec.logger())

	if got := store.Load(context.Background()); got != nil {
		t.Fatalf("expected nil for absent slot, got %+v", got)
	}
	if len(rec.events) != 0 {
		t.Fatalf("an empty slot is not an error, logged %v", rec.events)
	}
}

func TestStoreLoadCorruptSlot(t *testing.T) {
	slot := NewMemorySlot()
	ctx := context.Background()
	if err := slot.Write(ctx, []byte("{not json")); err != nil {
		t.Fatalf("seed slot: %v", err)
	}

	rec := &eventRecorder{}
	store := newTestStore(t, slot, time.Hour, nil, rec.logger())

	if got := store.Load(ctx); got != nil {
		t.Fatalf("expected nil for corrupt slot, got %+v", got)
	}
	if rec.count("storage.load_failed") != 1 {
		t.Fatalf("expected one load_failed event, got %v", rec.events)
	}
}

func TestStoreSaveFailureIsSwallowed(t *testing.T) {
	rec := &eventRecorder{}
	slot := &failingSlot{writeErr: errors.New("quota exceeded"), readErr: ErrSlotEmpty}
	store := newTestStore(t, slot, time.Hour, nil, rec.logger())

	// Must not panic or propagate; the mutation that triggered the save
	// already succeeded in memory.
	store.Save(context.Background(), []domain.LineItem{{SKU: "a", Quantity: 1}})

	if rec.count("storage.save_failed") != 1 {
		t.Fatalf("expected one save_failed event, got %v", rec.events)
	}
}

func TestStorePurgeDeletesSlot(t *testing.T) {
	slot := NewMemorySlot()
	store := newTestStore(t, slot, time.Hour, nil, nil)
	ctx := context.Background()

	store.Save(ctx, []domain.LineItem{{SKU: "a", Quantity: 1}})
	store.Purge(ctx)

	if _, err := slot.Read(ctx); !errors.Is(err, ErrSlotEmpty) {
		t.Fatalf("expected slot deleted, got err %v", err)
	}
}

func TestFileSlotLifecycle(t *testing.T) {
	path := t.TempDir() + "/snapshot.json"
	slot := NewFileSlot(path)
	ctx := context.Background()

	if _, err := slot.Read(ctx); !errors.Is(err, ErrSlotEmpty) {
		t.Fatalf("expected empty slot, got err %v", err)
	}
	if err := slot.Write(ctx, []byte(`{"items":[]}`)); err != nil {
		t.Fatalf("write: %v", err)
	}
	data, err := slot.Read(ctx)
	if err != nil || string(data) != `{"items":[]}` {
		t.Fatalf("read back mismatch: %q err %v", data, err)
	}
	if err := slot.Delete(ctx); err != nil {
		t.Fatalf("delete: %v", err)
	}
	// Deleting an absent slot stays a no-op.
	if err := slot.Delete(ctx); err != nil {
		t.Fatalf("second delete: %v", err)
	}
}
