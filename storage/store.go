// Package storage persists timestamped cart snapshots into a single durable
// slot. The store owns staleness: a snapshot past its expiry is reported as
// absent and deleted on read. Write failures are logged and swallowed so a
// cart mutation can never fail on persistence.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/hanko-field/cartkit/domain"
)

// ErrSlotEmpty reports that the durable slot holds no value.
var ErrSlotEmpty = errors.New("storage: slot empty")

var (
	errStoreSlotRequired = errors.New("storage: slot is required")
	errStoreTTLRequired  = errors.New("storage: ttl must be positive")
)

// Slot is one named durable key. Read returns ErrSlotEmpty when nothing is
// stored; Delete on an empty slot is a no-op.
type Slot interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, data []byte) error
	Delete(ctx context.Context) error
}

// StoreDeps wires the slot, expiry window and clock of a Store.
type StoreDeps struct {
	Slot   Slot
	TTL    time.Duration
	Clock  func() time.Time
	Logger func(ctx context.Context, event string, fields map[string]any)
}

// Store reads and writes serialized snapshots with a wall-clock expiry.
type Store struct {
	slot   Slot
	ttl    time.Duration
	now    func() time.Time
	logger func(ctx context.Context, event string, fields map[string]any)
}

// NewStore constructs a Store. The TTL applies to all subsequent writes.
func NewStore(deps StoreDeps) (*Store, error) {
	if deps.Slot == nil {
		return nil, errStoreSlotRequired
	}
	if deps.TTL <= 0 {
		return nil, errStoreTTLRequired
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}
	return &Store{
		slot:   deps.Slot,
		ttl:    deps.TTL,
		now:    clock,
		logger: logger,
	}, nil
}

// Save wraps items in a snapshot stamped with the current time and expiry and
// writes it to the slot. Failures are logged, never returned: the in-memory
// ledger stays authoritative when the slot is unwritable.
func (s *Store) Save(ctx context.Context, items []domain.LineItem) {
	now := s.now()
	snapshot := domain.Snapshot{
		Items:     items,
		SavedAt:   now.UnixMilli(),
		ExpiresAt: now.Add(s.ttl).UnixMilli(),
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		s.logger(ctx, "storage.save_failed", map[string]any{"error": err.Error()})
		return
	}
	if err := s.slot.Write(ctx, data); err != nil {
		s.logger(ctx, "storage.save_failed", map[string]any{"error": err.Error()})
	}
}

// Load returns the stored items, or nil when the slot is missing, unparsable
// or expired. An expired snapshot is deleted on the spot so the stale slot is
// never surfaced again.
func (s *Store) Load(ctx context.Context) []domain.LineItem {
	data, err := s.slot.Read(ctx)
	if err != nil {
		if !errors.Is(err, ErrSlotEmpty) {
			s.logger(ctx, "storage.load_failed", map[string]any{"error": err.Error()})
		}
		return nil
	}
	var snapshot domain.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		s.logger(ctx, "storage.load_failed", map[string]any{"error": err.Error()})
		return nil
	}
	if snapshot.ExpiresAt < s.now().UnixMilli() {
		if err := s.slot.Delete(ctx); err != nil {
			s.logger(ctx, "storage.purge_failed", map[string]any{"error": err.Error()})
		}
		s.logger(ctx, "storage.snapshot_expired", map[string]any{
			"expiresAtEpochMs": snapshot.ExpiresAt,
		})
		return nil
	}
	return snapshot.Items
}

// Purge unconditionally deletes the slot.
func (s *Store) Purge(ctx context.Context) {
	if err := s.slot.Delete(ctx); err != nil {
		s.logger(ctx, "storage.purge_failed", map[string]any{"error": err.Error()})
	}
}
