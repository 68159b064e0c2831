package main

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/hanko-field/cartkit/view"
)

// consoleHost stands in for the browser environment: it plays the panel, the
// badge host, the browsing context and the notifier, logging everything the
// widget asks it to render.
type consoleHost struct {
	log *zap.Logger

	mu       sync.Mutex
	location *url.URL
	lastNav  string
	badge    *consoleBadge
}

func newConsoleHost(log *zap.Logger) *consoleHost {
	loc, _ := url.Parse("https://shop.example.com/store")
	return &consoleHost{log: log, location: loc}
}

func (h *consoleHost) ctx() context.Context {
	return context.Background()
}

// Panel.

func (h *consoleHost) ReplaceItems(rows []view.ItemRow) {
	names := make([]string, 0, len(rows))
	for _, row := range rows {
		names = append(names, row.Name)
	}
	h.log.Info("panel rows", zap.Strings("items", names))
}

func (h *consoleHost) ShowEmpty(text string) {
	h.log.Info("panel empty", zap.String("text", text))
}

func (h *consoleHost) SetSubtotal(label, formatted string) {
	h.log.Info("panel subtotal", zap.String("label", label), zap.String("value", formatted))
}

func (h *consoleHost) SetFooterVisible(visible bool) {
	h.log.Info("panel footer", zap.Bool("visible", visible))
}

func (h *consoleHost) SetVisible(visible bool) {
	h.log.Info("panel visible", zap.Bool("visible", visible))
}

// Badges.

type consoleBadge struct {
	text string
}

func (b *consoleBadge) SetText(text string) { b.text = text }

func (h *consoleHost) Badge() view.BadgeNode {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.badge == nil {
		return nil
	}
	return h.badge
}

func (h *consoleHost) AttachBadge(text string) view.BadgeNode {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.badge = &consoleBadge{text: text}
	return h.badge
}

func (h *consoleHost) RemoveBadge() {
	h.mu.Lock()
	h.badge = nil
	h.mu.Unlock()
}

func (h *consoleHost) badgeHosts() []view.BadgeHost {
	return []view.BadgeHost{h}
}

// Browser.

func (h *consoleHost) Location() *url.URL {
	h.mu.Lock()
	defer h.mu.Unlock()
	clone := *h.location
	return &clone
}

func (h *consoleHost) Navigate(rawURL string) {
	h.mu.Lock()
	h.lastNav = rawURL
	h.mu.Unlock()
	h.log.Info("navigate", zap.String("url", rawURL))
}

func (h *consoleHost) lastNavigation() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.lastNav
}

func (h *consoleHost) ReplaceURL(rawURL string) {
	if parsed, err := url.Parse(rawURL); err == nil {
		h.mu.Lock()
		h.location = parsed
		h.mu.Unlock()
	}
	h.log.Info("replace url", zap.String("url", rawURL))
}

// returnFromCheckout simulates landing back on the page with the success
// marker the widget put on the return URL.
func (h *consoleHost) returnFromCheckout() {
	h.mu.Lock()
	defer h.mu.Unlock()
	nav := h.lastNav
	loc := *h.location
	q := loc.Query()
	q.Set("payment_success", "true")
	if i := strings.LastIndex(nav, "/"); i >= 0 {
		q.Set("cart_id", "cart_"+nav[i+1:])
	}
	loc.RawQuery = q.Encode()
	h.location = &loc
}

// Notifier.

func (h *consoleHost) ShowLoading(text string) {
	h.log.Info("loading", zap.String("text", text))
}

func (h *consoleHost) HideLoading() {
	h.log.Info("loading dismissed")
}

func (h *consoleHost) ShowSuccess(text string) {
	h.log.Info("notice", zap.String("text", text))
}

func (h *consoleHost) ShowError(text string) {
	h.log.Warn("notice", zap.String("text", text))
}
