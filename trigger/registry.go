// Package trigger decouples the widget from the host's UI event source. The
// host pushes activation events carrying the element's attributes; the widget
// subscribes with predicates so the ledger and checkout never see a UI
// framework.
package trigger

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/hanko-field/cartkit/domain"
)

// Attribute vocabulary recognised on trigger elements.
const (
	AttrAdd     = "data-cart-add"
	AttrOpen    = "data-cart-open"
	AttrPriceID = "data-price-id"
	AttrName    = "data-product-name"
	AttrPrice   = "data-product-price"
	AttrImage   = "data-product-image"
	AttrVariant = "data-product-variant"
)

// ErrMissingAttribute reports an add trigger without the required product data.
var ErrMissingAttribute = errors.New("trigger: missing required attribute")

// Event is one UI activation: the attribute bag of the element the host saw
// being interacted with.
type Event struct {
	Attrs map[string]string
}

// Attr returns the named attribute, or empty when absent.
func (e Event) Attr(name string) string {
	return e.Attrs[name]
}

// Has reports whether the named attribute is present at all.
func (e Event) Has(name string) bool {
	_, ok := e.Attrs[name]
	return ok
}

// Predicate decides whether a handler wants an event.
type Predicate func(Event) bool

// Handler consumes a matched event.
type Handler func(ctx context.Context, ev Event)

// HasAttr matches events whose element carries the named marker attribute.
func HasAttr(name string) Predicate {
	return func(ev Event) bool { return ev.Has(name) }
}

type subscription struct {
	pred    Predicate
	handler Handler
}

// Registry dispatches host UI events to subscribed handlers.
type Registry struct {
	subs []subscription
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// OnTriggered registers handler for every event matching pred. Registration
// order is dispatch order.
func (r *Registry) OnTriggered(pred Predicate, handler Handler) {
	if pred == nil || handler == nil {
		return
	}
	r.subs = append(r.subs, subscription{pred: pred, handler: handler})
}

// Dispatch delivers ev to every matching handler.
func (r *Registry) Dispatch(ctx context.Context, ev Event) {
	for _, sub := range r.subs {
		if sub.pred(ev) {
			sub.handler(ctx, ev)
		}
	}
}

// ParseAddEvent extracts a line item from an add trigger's attributes. The
// price reference, display name and unit price are required; a missing or
// unparsable value yields an error and no item.
func ParseAddEvent(ev Event) (domain.LineItem, error) {
	priceRef := strings.TrimSpace(ev.Attr(AttrPriceID))
	if priceRef == "" {
		return domain.LineItem{}, fmt.Errorf("%w: %s", ErrMissingAttribute, AttrPriceID)
	}
	name := strings.TrimSpace(ev.Attr(AttrName))
	if name == "" {
		return domain.LineItem{}, fmt.Errorf("%w: %s", ErrMissingAttribute, AttrName)
	}
	rawPrice := strings.TrimSpace(ev.Attr(AttrPrice))
	if rawPrice == "" {
		return domain.LineItem{}, fmt.Errorf("%w: %s", ErrMissingAttribute, AttrPrice)
	}
	price, err := strconv.ParseFloat(rawPrice, 64)
	if err != nil {
		return domain.LineItem{}, fmt.Errorf("trigger: invalid %s %q: %w", AttrPrice, rawPrice, err)
	}
	return domain.LineItem{
		SKU:          priceRef,
		DisplayName:  name,
		UnitPrice:    price,
		ImageRef:     strings.TrimSpace(ev.Attr(AttrImage)),
		VariantLabel: strings.TrimSpace(ev.Attr(AttrVariant)),
	}, nil
}
