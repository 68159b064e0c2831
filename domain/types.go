package domain

// LineItem is a single cart entry. SKU doubles as the provider price
// reference and is the only identity the cart recognises.
type LineItem struct {
	SKU          string  `json:"sku"`
	DisplayName  string  `json:"displayName"`
	UnitPrice    float64 `json:"unitPrice"`
	Quantity     int     `json:"quantity"`
	ImageRef     string  `json:"imageRef,omitempty"`
	VariantLabel string  `json:"variantLabel,omitempty"`
}

// Snapshot is the persisted form of the cart: the items plus the wall-clock
// window in which the snapshot is still valid. Timestamps are epoch millis.
type Snapshot struct {
	Items     []LineItem `json:"items"`
	SavedAt   int64      `json:"savedAtEpochMs"`
	ExpiresAt int64      `json:"expiresAtEpochMs"`
}

// CloneItems returns a copy of items so callers can never alias the live
// sequence owned by the ledger.
func CloneItems(items []LineItem) []LineItem {
	if items == nil {
		return nil
	}
	out := make([]LineItem, len(items))
	copy(out, items)
	return out
}
