package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Default HTTP timeout and headers for session creation.
const (
	defaultTimeout    = 8 * time.Second
	apiKeyHeader      = "X-API-Key"
	idempotencyHeader = "Idempotency-Key"
)

var errClientEndpointRequired = errors.New("checkout: endpoint is required")

// EndpointProvider creates sessions through the host's configured checkout
// endpoint: a JSON POST answered by {"url": "..."}.
type EndpointProvider struct {
	endpoint string
	apiKey   string
	http     *http.Client
}

// NewEndpointProvider constructs a provider posting to endpoint with apiKey.
// A nil client gets a default with a conservative timeout.
func NewEndpointProvider(endpoint, apiKey string, client *http.Client) (*EndpointProvider, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, errClientEndpointRequired
	}
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &EndpointProvider{
		endpoint: endpoint,
		apiKey:   strings.TrimSpace(apiKey),
		http:     client,
	}, nil
}

type sessionItemPayload struct {
	PriceRef string `json:"priceRef"`
	Quantity int    `json:"quantity"`
}

type shippingAddressPayload struct {
	AllowedCountries []string `json:"allowed_countries"`
}

type phonePayload struct {
	Enabled bool `json:"enabled"`
}

type shippingOptionPayload struct {
	ShippingRate string `json:"shipping_rate"`
}

type sessionBodyPayload struct {
	Items                     []sessionItemPayload    `json:"items"`
	SuccessURL                string                  `json:"success_url"`
	CancelURL                 string                  `json:"cancel_url"`
	Metadata                  map[string]string       `json:"metadata"`
	ShippingAddressCollection *shippingAddressPayload `json:"shipping_address_collection,omitempty"`
	PhoneNumberCollection     *phonePayload           `json:"phone_number_collection,omitempty"`
	ShippingOptions           []shippingOptionPayload `json:"shipping_options,omitempty"`
}

type sessionResponsePayload struct {
	URL string `json:"url"`
}

// CreateSession implements SessionProvider over the configured endpoint.
func (p *EndpointProvider) CreateSession(ctx context.Context, req SessionRequest) (string, error) {
	payload, err := json.Marshal(buildBody(req))
	if err != nil {
		return "", fmt.Errorf("checkout: encode session request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("checkout: build session request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if p.apiKey != "" {
		httpReq.Header.Set(apiKeyHeader, p.apiKey)
	}
	if key := strings.TrimSpace(req.IdempotencyKey); key != "" {
		httpReq.Header.Set(idempotencyHeader, key)
	}

	resp, err := p.http.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("checkout: submit session request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("checkout: session status %d: %s", resp.StatusCode, drainError(resp.Body))
	}

	var decoded sessionResponsePayload
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("checkout: decode session response: %w", err)
	}
	return strings.TrimSpace(decoded.URL), nil
}

func buildBody(req SessionRequest) sessionBodyPayload {
	items := make([]sessionItemPayload, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, sessionItemPayload{PriceRef: it.PriceRef, Quantity: it.Quantity})
	}
	body := sessionBodyPayload{
		Items:      items,
		SuccessURL: req.SuccessURL,
		CancelURL:  req.CancelURL,
		Metadata:   req.Metadata,
	}
	if len(req.ShippingCountries) > 0 {
		body.ShippingAddressCollection = &shippingAddressPayload{AllowedCountries: req.ShippingCountries}
	}
	if req.CollectPhone {
		body.PhoneNumberCollection = &phonePayload{Enabled: true}
	}
	for _, rate := range req.ShippingRates {
		body.ShippingOptions = append(body.ShippingOptions, shippingOptionPayload{ShippingRate: rate})
	}
	return body
}

func drainError(r io.Reader) string {
	if r == nil {
		return ""
	}
	b, _ := io.ReadAll(io.LimitReader(r, 256))
	return strings.TrimSpace(string(b))
}
