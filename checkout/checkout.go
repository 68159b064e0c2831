// Package checkout hands the cart off to a hosted checkout provider and
// recognises successful payment on return. One attempt walks
// Idle -> Submitting -> (Redirecting | Failed); Redirecting ends the in-page
// lifecycle, Failed surfaces a notification and returns to Idle.
package checkout

import (
	"context"
	"net/url"
)

// State enumerates the handoff lifecycle.
type State string

const (
	// StateIdle is the only state before a checkout attempt.
	StateIdle State = "idle"
	// StateSubmitting covers the in-flight session request.
	StateSubmitting State = "submitting"
	// StateRedirecting means the browsing context is navigating away.
	StateRedirecting State = "redirecting"
)

// Query parameter names carried on the return URL.
const (
	successParam = "payment_success"
	cartIDParam  = "cart_id"
)

// SessionLineItem is a ledger entry reduced to what the provider needs.
type SessionLineItem struct {
	PriceRef string
	Quantity int
}

// SessionRequest is the provider-agnostic session-creation payload. The
// optional collection blocks are attached only when their fields are
// non-empty.
type SessionRequest struct {
	Items      []SessionLineItem
	SuccessURL string
	CancelURL  string
	Metadata   map[string]string
	// ShippingCountries attaches shipping address collection limited to
	// these ISO-3166-1 alpha-2 codes when non-empty.
	ShippingCountries []string
	// CollectPhone attaches phone number collection.
	CollectPhone bool
	// ShippingRates attaches the provider shipping rate references. An empty
	// list attaches nothing.
	ShippingRates  []string
	IdempotencyKey string
}

// SessionProvider creates a hosted checkout session and returns the URL to
// redirect the customer to.
type SessionProvider interface {
	CreateSession(ctx context.Context, req SessionRequest) (string, error)
}

// Browser is the handoff's view of the browsing context.
type Browser interface {
	// Location returns the current page URL.
	Location() *url.URL
	// Navigate loads rawURL, leaving the page.
	Navigate(rawURL string)
	// ReplaceURL rewrites the address bar without navigating.
	ReplaceURL(rawURL string)
}

// Notifier surfaces checkout progress to the user.
type Notifier interface {
	ShowLoading(text string)
	HideLoading()
	ShowSuccess(text string)
	ShowError(text string)
}

// Cart is the slice of ledger behaviour the handoff needs on return.
type Cart interface {
	Clear(ctx context.Context)
}
