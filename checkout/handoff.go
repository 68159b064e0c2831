package checkout

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/hanko-field/cartkit/domain"
)

var (
	errHandoffProviderRequired = errors.New("checkout: provider is required")
	errHandoffBrowserRequired  = errors.New("checkout: browser is required")
	errHandoffCartRequired     = errors.New("checkout: cart is required")
)

// HandoffDeps wires the provider, browsing context and configuration of a
// Handoff.
type HandoffDeps struct {
	Provider SessionProvider
	Browser  Browser
	Cart     Cart
	Notifier Notifier
	// Translate resolves the user-facing progress strings.
	Translate func(key string, params map[string]string) string
	// CollectShippingAddress attaches ShippingCountries to the request.
	CollectShippingAddress bool
	ShippingCountries      []string
	CollectPhoneNumber     bool
	ShippingRates          []string
	// TokenFunc mints the per-attempt correlation token.
	TokenFunc func() string
	Logger    func(ctx context.Context, event string, fields map[string]any)
}

// Handoff builds and submits session-creation requests and concludes the
// checkout on return.
type Handoff struct {
	provider  SessionProvider
	browser   Browser
	cart      Cart
	notifier  Notifier
	translate func(key string, params map[string]string) string

	collectAddress bool
	countries      []string
	collectPhone   bool
	rates          []string

	token  func() string
	logger func(ctx context.Context, event string, fields map[string]any)

	mu    sync.Mutex
	state State
}

// NewHandoff constructs a Handoff enforcing dependency validation.
func NewHandoff(deps HandoffDeps) (*Handoff, error) {
	if deps.Provider == nil {
		return nil, errHandoffProviderRequired
	}
	if deps.Browser == nil {
		return nil, errHandoffBrowserRequired
	}
	if deps.Cart == nil {
		return nil, errHandoffCartRequired
	}
	notifier := deps.Notifier
	if notifier == nil {
		notifier = nopNotifier{}
	}
	translate := deps.Translate
	if translate == nil {
		translate = func(key string, _ map[string]string) string { return key }
	}
	token := deps.TokenFunc
	if token == nil {
		token = func() string { return "cart_" + uuid.NewString() }
	}
	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}
	return &Handoff{
		provider:       deps.Provider,
		browser:        deps.Browser,
		cart:           deps.Cart,
		notifier:       notifier,
		translate:      translate,
		collectAddress: deps.CollectShippingAddress,
		countries:      deps.ShippingCountries,
		collectPhone:   deps.CollectPhoneNumber,
		rates:          deps.ShippingRates,
		token:          token,
		logger:         logger,
		state:          StateIdle,
	}, nil
}

// State reports the current lifecycle state.
func (h *Handoff) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

func (h *Handoff) setState(s State) {
	h.mu.Lock()
	h.state = s
	h.mu.Unlock()
}

// StartCheckout submits a session-creation request for the snapshot and
// navigates to the returned URL. An empty snapshot is a no-op. The snapshot
// is the attempt's own copy: cart mutations while the request is in flight
// only affect later attempts. A failure of any kind hides the loading
// indicator, surfaces an error notification and returns the handoff to Idle.
func (h *Handoff) StartCheckout(ctx context.Context, snapshot []domain.LineItem) error {
	if len(snapshot) == 0 {
		return nil
	}

	h.setState(StateSubmitting)
	h.notifier.ShowLoading(h.translate("checkout.processing", nil))

	token := h.token()
	req := h.buildRequest(snapshot, token)

	redirectURL, err := h.provider.CreateSession(ctx, req)
	if err == nil && strings.TrimSpace(redirectURL) == "" {
		err = errors.New("checkout: provider returned no redirect url")
	}
	if err != nil {
		h.logger(ctx, "checkout.session_failed", map[string]any{
			"cartId": token,
			"error":  err.Error(),
		})
		h.notifier.HideLoading()
		h.notifier.ShowError(h.translate("checkout.error", nil))
		h.setState(StateIdle)
		return err
	}

	h.logger(ctx, "checkout.redirecting", map[string]any{"cartId": token})
	h.setState(StateRedirecting)
	h.browser.Navigate(redirectURL)
	return nil
}

func (h *Handoff) buildRequest(snapshot []domain.LineItem, token string) SessionRequest {
	items := make([]SessionLineItem, 0, len(snapshot))
	for _, it := range snapshot {
		items = append(items, SessionLineItem{PriceRef: it.SKU, Quantity: it.Quantity})
	}

	loc := h.browser.Location()
	success := *loc
	q := success.Query()
	q.Set(successParam, "true")
	q.Set(cartIDParam, token)
	success.RawQuery = q.Encode()

	req := SessionRequest{
		Items:          items,
		SuccessURL:     success.String(),
		CancelURL:      loc.String(),
		Metadata:       map[string]string{"cart_id": token},
		CollectPhone:   h.collectPhone,
		IdempotencyKey: token,
	}
	if h.collectAddress && len(h.countries) > 0 {
		req.ShippingCountries = append([]string(nil), h.countries...)
	}
	if len(h.rates) > 0 {
		req.ShippingRates = append([]string(nil), h.rates...)
	}
	return req
}

// CheckSuccessOnLoad inspects the page URL for the success marker. When
// present it clears the cart exactly once, shows the success notification and
// rewrites the URL to drop the marker and correlation token without
// navigating. Safe to call unconditionally on every load; once the marker is
// stripped further calls do nothing. Returns whether the cart was cleared.
func (h *Handoff) CheckSuccessOnLoad(ctx context.Context) bool {
	loc := h.browser.Location()
	q := loc.Query()
	if q.Get(successParam) != "true" {
		return false
	}
	token := q.Get(cartIDParam)

	h.cart.Clear(ctx)
	h.notifier.ShowSuccess(h.translate("checkout.success", nil))

	cleaned := *loc
	q.Del(successParam)
	q.Del(cartIDParam)
	cleaned.RawQuery = q.Encode()
	h.browser.ReplaceURL(cleaned.String())

	h.logger(ctx, "checkout.success_confirmed", map[string]any{"cartId": token})
	return true
}

type nopNotifier struct{}

func (nopNotifier) ShowLoading(string) {}
func (nopNotifier) HideLoading()       {}
func (nopNotifier) ShowSuccess(string) {}
func (nopNotifier) ShowError(string)   {}
