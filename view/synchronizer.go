package view

import (
	"context"
	"errors"
	"strconv"

	"github.com/hanko-field/cartkit/domain"
	"github.com/hanko-field/cartkit/format"
)

var (
	errSyncLedgerRequired = errors.New("view: ledger is required")
	errSyncPanelRequired  = errors.New("view: panel is required")
)

// SynchronizerDeps wires the ledger, host surfaces and display settings.
type SynchronizerDeps struct {
	Ledger Ledger
	Panel  Panel
	// BadgeHosts enumerates the current open-cart trigger elements. May
	// return an empty set; may be nil when the host renders no badges.
	BadgeHosts func() []BadgeHost
	// Translate resolves display strings, e.g. the empty placeholder.
	Translate func(key string, params map[string]string) string
	Currency  string
	// Language reports the active display language for money formatting.
	Language func() string
	// ShowBadge disables badge rendering entirely when false.
	ShowBadge bool
}

// Synchronizer re-renders the panel and badges from ledger state. It is
// stateless between calls apart from the panel visibility flag; badge nodes
// are reused across renders so host styling on them survives updates.
type Synchronizer struct {
	ledger     Ledger
	panel      Panel
	badgeHosts func() []BadgeHost
	translate  func(key string, params map[string]string) string
	currency   string
	language   func() string
	showBadge  bool
	open       bool
}

// NewSynchronizer constructs a Synchronizer enforcing dependency validation.
func NewSynchronizer(deps SynchronizerDeps) (*Synchronizer, error) {
	if deps.Ledger == nil {
		return nil, errSyncLedgerRequired
	}
	if deps.Panel == nil {
		return nil, errSyncPanelRequired
	}
	translate := deps.Translate
	if translate == nil {
		translate = func(key string, _ map[string]string) string { return key }
	}
	badgeHosts := deps.BadgeHosts
	if badgeHosts == nil {
		badgeHosts = func() []BadgeHost { return nil }
	}
	currency := deps.Currency
	if currency == "" {
		currency = "EUR"
	}
	lang := deps.Language
	if lang == nil {
		lang = func() string { return "en" }
	}
	return &Synchronizer{
		ledger:     deps.Ledger,
		panel:      deps.Panel,
		badgeHosts: badgeHosts,
		translate:  translate,
		currency:   currency,
		language:   lang,
		showBadge:  deps.ShowBadge,
	}, nil
}

// Refresh re-renders the panel and all badges from current ledger state.
func (s *Synchronizer) Refresh(ctx context.Context) {
	s.RenderPanel(ctx, s.ledger.Items())
	s.RenderBadges(s.ledger.Count())
}

// RenderPanel fully replaces the panel's item list. An empty ledger shows the
// placeholder and hides the footer; otherwise the footer carries the
// formatted subtotal.
func (s *Synchronizer) RenderPanel(ctx context.Context, items []domain.LineItem) {
	if len(items) == 0 {
		s.panel.ShowEmpty(s.translate("cart.empty", nil))
		s.panel.SetFooterVisible(false)
		return
	}

	rows := make([]ItemRow, 0, len(items))
	for _, it := range items {
		rows = append(rows, s.buildRow(ctx, it))
	}
	s.panel.ReplaceItems(rows)
	s.panel.SetFooterVisible(true)
	s.panel.SetSubtotal(
		s.translate("cart.subtotal", nil),
		format.Currency(s.ledger.Total(), s.currency, s.language()),
	)
}

func (s *Synchronizer) buildRow(ctx context.Context, it domain.LineItem) ItemRow {
	sku := it.SKU
	quantity := it.Quantity
	return ItemRow{
		SKU:       sku,
		Name:      it.DisplayName,
		Variant:   it.VariantLabel,
		ImageRef:  it.ImageRef,
		UnitPrice: format.Currency(it.UnitPrice, s.currency, s.language()),
		Quantity:  quantity,
		OnDecrement: func() {
			next := quantity - 1
			if next < 1 {
				next = 1
			}
			s.ledger.UpdateQuantity(ctx, sku, next)
			s.Refresh(ctx)
		},
		OnIncrement: func() {
			s.ledger.UpdateQuantity(ctx, sku, quantity+1)
			s.Refresh(ctx)
		},
		OnQuantityInput: func(raw string) {
			next, err := strconv.Atoi(raw)
			if err != nil || next == 0 {
				next = 1
			}
			s.ledger.UpdateQuantity(ctx, sku, next)
			s.Refresh(ctx)
		},
		OnRemove: func() {
			s.ledger.RemoveItem(ctx, sku)
			s.Refresh(ctx)
		},
	}
}

// RenderBadges ensures each open-cart trigger carries exactly one indicator
// with the count as text, reusing the existing node, and removes it when the
// count is zero. Zero trigger elements is fine.
func (s *Synchronizer) RenderBadges(count int) {
	for _, host := range s.badgeHosts() {
		if count <= 0 || !s.showBadge {
			host.RemoveBadge()
			continue
		}
		text := strconv.Itoa(count)
		if node := host.Badge(); node != nil {
			node.SetText(text)
			continue
		}
		host.AttachBadge(text)
	}
}

// Open shows the panel, re-rendering first so it never surfaces stale
// contents.
func (s *Synchronizer) Open(ctx context.Context) {
	s.RenderPanel(ctx, s.ledger.Items())
	s.panel.SetVisible(true)
	s.open = true
}

// Close hides the panel without re-rendering.
func (s *Synchronizer) Close() {
	s.panel.SetVisible(false)
	s.open = false
}

// IsOpen reports the panel visibility flag.
func (s *Synchronizer) IsOpen() bool {
	return s.open
}
