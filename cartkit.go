// Package cartkit is an embeddable cart widget core: it owns cart state,
// persists it with a time-based expiry, keeps host-rendered views in sync and
// hands off to a hosted checkout provider, recognising successful payment on
// return. The host environment renders the actual UI and feeds interaction
// events in through narrow collaborator interfaces.
package cartkit

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/hanko-field/cartkit/cart"
	"github.com/hanko-field/cartkit/checkout"
	"github.com/hanko-field/cartkit/domain"
	"github.com/hanko-field/cartkit/i18n"
	"github.com/hanko-field/cartkit/storage"
	"github.com/hanko-field/cartkit/trigger"
	"github.com/hanko-field/cartkit/view"
)

var (
	errDepsSlotRequired    = errors.New("cartkit: slot is required")
	errDepsPanelRequired   = errors.New("cartkit: panel is required")
	errDepsBrowserRequired = errors.New("cartkit: browser is required")
)

// Deps are the host-side collaborators the widget is wired against.
type Deps struct {
	// Slot is the durable storage slot holding the persisted snapshot.
	Slot storage.Slot
	// Panel is the host's slide-out cart surface.
	Panel view.Panel
	// BadgeHosts enumerates the current open-cart trigger elements. Optional.
	BadgeHosts func() []view.BadgeHost
	// Browser is the browsing context used by the checkout handoff.
	Browser checkout.Browser
	// Notifier surfaces loading, success and error notices. Optional.
	Notifier checkout.Notifier
	// Triggers is the host's UI event registry. Optional; when set, the
	// widget subscribes its add-to-cart and open-cart handlers.
	Triggers *trigger.Registry
	// BrowserLocale reports the host locale for language detection. Optional.
	BrowserLocale func() string
	// Provider overrides the session provider; by default sessions are
	// created through the configured checkout endpoint. Hosts without a
	// backend may pass a StripeProvider here.
	Provider checkout.SessionProvider
	// HTTPClient overrides the endpoint provider's HTTP client.
	HTTPClient *http.Client
	Logger     *zap.Logger
	Clock      func() time.Time
	// TokenFunc overrides correlation token minting.
	TokenFunc func() string
}

// Widget is the handle returned by New. All operations are methods on it, so
// a second initialization cannot occur by construction; the package-level
// Init shim exists only for call-surface compatibility.
type Widget struct {
	cfg      Config
	log      *zap.Logger
	bundle   *i18n.Bundle
	ledger   *cart.Ledger
	store    *storage.Store
	views    *view.Synchronizer
	handoff  *checkout.Handoff
	notifier checkout.Notifier
}

// New validates cfg, wires all components, seeds the ledger from the stored
// snapshot, registers trigger handlers, concludes any checkout the page
// returned from and renders the initial views.
func New(ctx context.Context, cfg Config, deps Deps) (*Widget, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if deps.Slot == nil {
		return nil, errDepsSlotRequired
	}
	if deps.Panel == nil {
		return nil, errDepsPanelRequired
	}
	if deps.Browser == nil {
		return nil, errDepsBrowserRequired
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	events := eventLogger(logger)

	bundle := i18n.New(i18n.Options{
		Language:      cfg.Language,
		DetectBrowser: *cfg.DetectBrowserLanguage,
		BrowserLocale: deps.BrowserLocale,
		Fallback:      cfg.FallbackLanguage,
		Overrides:     cfg.Translations,
		Logger:        events,
	})

	store, err := storage.NewStore(storage.StoreDeps{
		Slot:   deps.Slot,
		TTL:    time.Duration(cfg.CartLifetimeHours) * time.Hour,
		Clock:  deps.Clock,
		Logger: events,
	})
	if err != nil {
		return nil, err
	}

	ledger, err := cart.NewLedger(cart.LedgerDeps{
		Store:  store,
		Logger: events,
	})
	if err != nil {
		return nil, err
	}

	views, err := view.NewSynchronizer(view.SynchronizerDeps{
		Ledger:     ledger,
		Panel:      deps.Panel,
		BadgeHosts: deps.BadgeHosts,
		Translate:  bundle.T,
		Currency:   cfg.Currency,
		Language:   bundle.Language,
		ShowBadge:  *cfg.ShowCartBadge,
	})
	if err != nil {
		return nil, err
	}

	provider := deps.Provider
	if provider == nil {
		provider, err = checkout.NewEndpointProvider(cfg.CheckoutEndpoint, cfg.APIKey, deps.HTTPClient)
		if err != nil {
			return nil, err
		}
	}

	handoff, err := checkout.NewHandoff(checkout.HandoffDeps{
		Provider:               provider,
		Browser:                deps.Browser,
		Cart:                   ledger,
		Notifier:               deps.Notifier,
		Translate:              bundle.T,
		CollectShippingAddress: cfg.CollectShippingAddress,
		ShippingCountries:      cfg.ShippingCountries,
		CollectPhoneNumber:     cfg.CollectPhoneNumber,
		ShippingRates:          cfg.ShippingOptions,
		TokenFunc:              deps.TokenFunc,
		Logger:                 events,
	})
	if err != nil {
		return nil, err
	}

	w := &Widget{
		cfg:      cfg,
		log:      logger,
		bundle:   bundle,
		ledger:   ledger,
		store:    store,
		views:    views,
		handoff:  handoff,
		notifier: deps.Notifier,
	}

	if deps.Triggers != nil {
		deps.Triggers.OnTriggered(trigger.HasAttr(trigger.AttrAdd), w.handleAddTrigger)
		deps.Triggers.OnTriggered(trigger.HasAttr(trigger.AttrOpen), func(ctx context.Context, _ trigger.Event) {
			w.views.Open(ctx)
		})
	}

	w.ledger.Initialize(ctx)
	w.CheckSuccessOnLoad(ctx)
	w.views.Refresh(ctx)

	logger.Info("cartkit.initialized", zap.String("language", bundle.Language()))
	return w, nil
}

func (w *Widget) handleAddTrigger(ctx context.Context, ev trigger.Event) {
	item, err := trigger.ParseAddEvent(ev)
	if err != nil {
		w.log.Warn("trigger.missing_attribute", zap.Error(err))
		return
	}
	w.ledger.AddItem(ctx, item, 1)
	if w.notifier != nil {
		w.notifier.ShowSuccess(w.bundle.T("notifications.added", map[string]string{"name": item.DisplayName}))
	}
	if *w.cfg.OpenCartOnAdd {
		w.views.Open(ctx)
	}
	w.views.Refresh(ctx)
}

// Open shows the cart panel, re-rendering it first.
func (w *Widget) Open(ctx context.Context) {
	w.views.Open(ctx)
}

// Close hides the cart panel.
func (w *Widget) Close() {
	w.views.Close()
}

// AddItem adds an item programmatically, outside the trigger flow.
func (w *Widget) AddItem(ctx context.Context, item domain.LineItem, quantity int) {
	w.ledger.AddItem(ctx, item, quantity)
	w.views.Refresh(ctx)
}

// RemoveItem removes the item with the given SKU.
func (w *Widget) RemoveItem(ctx context.Context, sku string) {
	w.ledger.RemoveItem(ctx, sku)
	w.views.Refresh(ctx)
}

// UpdateQuantity sets an item's quantity; zero or less removes it.
func (w *Widget) UpdateQuantity(ctx context.Context, sku string, quantity int) {
	w.ledger.UpdateQuantity(ctx, sku, quantity)
	w.views.Refresh(ctx)
}

// Clear empties the cart and re-renders.
func (w *Widget) Clear(ctx context.Context) {
	w.ledger.Clear(ctx)
	w.views.Refresh(ctx)
}

// Items returns a copy of the current cart contents.
func (w *Widget) Items() []domain.LineItem {
	return w.ledger.Items()
}

// Total returns the current cart total.
func (w *Widget) Total() float64 {
	return w.ledger.Total()
}

// Count returns the summed quantity across items.
func (w *Widget) Count() int {
	return w.ledger.Count()
}

// StartCheckout captures a snapshot of the cart and hands it to the checkout
// provider. Later cart mutations do not affect the in-flight attempt.
func (w *Widget) StartCheckout(ctx context.Context) error {
	return w.handoff.StartCheckout(ctx, w.ledger.Items())
}

// CheckSuccessOnLoad concludes a returned checkout: when the success marker
// is on the page URL the cart is cleared exactly once and the URL cleaned.
// Safe to call unconditionally on every page load.
func (w *Widget) CheckSuccessOnLoad(ctx context.Context) {
	if w.handoff.CheckSuccessOnLoad(ctx) {
		w.views.Refresh(ctx)
	}
}

// SetLanguage switches the active display language.
func (w *Widget) SetLanguage(ctx context.Context, lang string) {
	w.bundle.SetLanguage(lang)
	w.views.Refresh(ctx)
}

// Config returns the effective configuration after defaulting.
func (w *Widget) Config() Config {
	return w.cfg
}
