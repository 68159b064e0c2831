package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/client"
)

var errStripeKeyRequired = errors.New("checkout: stripe api key is required")

type stripeSessionAPI interface {
	New(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

// StripeProvider creates Checkout Sessions directly against Stripe, for hosts
// that terminate checkout without a backend endpoint of their own.
type StripeProvider struct {
	sessions stripeSessionAPI
	logger   func(ctx context.Context, event string, fields map[string]any)
}

// StripeProviderConfig configures the StripeProvider. Sessions overrides the
// real API client in tests.
type StripeProviderConfig struct {
	APIKey   string
	Backends *stripe.Backends
	Sessions stripeSessionAPI
	Logger   func(ctx context.Context, event string, fields map[string]any)
}

// NewStripeProvider constructs a Stripe-backed SessionProvider.
func NewStripeProvider(cfg StripeProviderConfig) (*StripeProvider, error) {
	sessions := cfg.Sessions
	if sessions == nil {
		apiKey := strings.TrimSpace(cfg.APIKey)
		if apiKey == "" {
			return nil, errStripeKeyRequired
		}
		sc := client.New(apiKey, cfg.Backends)
		sessions = sc.CheckoutSessions
	}
	logger := cfg.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}
	return &StripeProvider{
		sessions: sessions,
		logger:   logger,
	}, nil
}

// CreateSession implements SessionProvider using the Stripe Checkout API.
func (p *StripeProvider) CreateSession(ctx context.Context, req SessionRequest) (string, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
	}
	params.Context = ctx
	if key := strings.TrimSpace(req.IdempotencyKey); key != "" {
		params.SetIdempotencyKey(key)
	}
	if len(req.Metadata) > 0 {
		params.Metadata = make(map[string]string, len(req.Metadata))
		for k, v := range req.Metadata {
			params.Metadata[k] = v
		}
	}

	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(req.Items))
	for _, it := range req.Items {
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			Price:    stripe.String(it.PriceRef),
			Quantity: stripe.Int64(int64(it.Quantity)),
		})
	}
	params.LineItems = lineItems

	if len(req.ShippingCountries) > 0 {
		params.ShippingAddressCollection = &stripe.CheckoutSessionShippingAddressCollectionParams{
			AllowedCountries: stripe.StringSlice(req.ShippingCountries),
		}
	}
	if req.CollectPhone {
		params.PhoneNumberCollection = &stripe.CheckoutSessionPhoneNumberCollectionParams{
			Enabled: stripe.Bool(true),
		}
	}
	for _, rate := range req.ShippingRates {
		params.ShippingOptions = append(params.ShippingOptions, &stripe.CheckoutSessionShippingOptionParams{
			ShippingRate: stripe.String(rate),
		})
	}

	session, err := p.sessions.New(params)
	if err != nil {
		return "", fmt.Errorf("checkout: create stripe session: %w", err)
	}

	p.logger(ctx, "checkout.stripe.session_created", map[string]any{
		"sessionId": session.ID,
	})
	return session.URL, nil
}
