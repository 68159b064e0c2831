// Package view keeps the host-rendered panel and badge counters consistent
// with the ledger. The host owns markup and styling; it implements Panel and
// BadgeHost and the synchronizer tells it what to show.
package view

import (
	"context"

	"github.com/hanko-field/cartkit/domain"
)

// ItemRow is the view model for one panel row. The host renders the fields
// and wires its four controls to the callbacks; every callback ends in a full
// re-render so displayed totals stay consistent.
type ItemRow struct {
	SKU       string
	Name      string
	Variant   string
	ImageRef  string
	UnitPrice string
	Quantity  int

	// OnDecrement lowers the quantity with a floor of one; decrementing from
	// one stays at one and never removes the row.
	OnDecrement func()
	// OnIncrement raises the quantity without bound.
	OnIncrement func()
	// OnQuantityInput applies a directly entered quantity. Non-numeric,
	// empty or zero input defaults to one; a negative value removes the row.
	OnQuantityInput func(raw string)
	// OnRemove deletes the row's item.
	OnRemove func()
}

// Panel is the slide-out cart surface the host renders.
type Panel interface {
	// ReplaceItems swaps the whole item list, in ledger order.
	ReplaceItems(rows []ItemRow)
	// ShowEmpty replaces the list with a single placeholder row.
	ShowEmpty(text string)
	// SetSubtotal updates the footer's subtotal label and formatted value.
	SetSubtotal(label, formatted string)
	// SetFooterVisible shows or hides the subtotal/checkout footer.
	SetFooterVisible(visible bool)
	// SetVisible toggles the panel's open state.
	SetVisible(visible bool)
}

// BadgeNode is the count indicator attached to an open-cart trigger.
type BadgeNode interface {
	SetText(text string)
}

// BadgeHost is an element flagged as a cart-opening trigger that can carry a
// badge indicator.
type BadgeHost interface {
	// Badge returns the existing indicator, or nil when none is attached.
	Badge() BadgeNode
	// AttachBadge creates the indicator with the given text and returns it.
	AttachBadge(text string) BadgeNode
	// RemoveBadge detaches the indicator entirely. A no-op when absent.
	RemoveBadge()
}

// Ledger is the slice of cart behaviour the synchronizer needs.
type Ledger interface {
	Items() []domain.LineItem
	Total() float64
	Count() int
	UpdateQuantity(ctx context.Context, sku string, quantity int)
	RemoveItem(ctx context.Context, sku string)
}
