package cartkit

import "strings"

// Defaults applied by withDefaults.
const (
	defaultCurrency         = "EUR"
	defaultTheme            = "light"
	defaultLanguage         = "en"
	defaultFallbackLanguage = "en"
	defaultPosition         = "right"
	defaultCartLifetime     = 24
)

// defaultShippingCountries is the allowed-country list used when shipping
// address collection is enabled without an explicit list.
var defaultShippingCountries = []string{
	"US", "CA", "GB", "FR", "DE", "ES", "IT", "NL", "BE", "CH", "AT", "IE",
	"PT", "DK", "SE", "NO", "FI", "PL", "CZ", "AU", "NZ", "JP", "SG", "HK",
}

// ConfigError reports a missing mandatory option. It is fatal: initialization
// halts and no widget is returned.
type ConfigError struct {
	Field string
}

func (e *ConfigError) Error() string {
	return "cartkit: missing required option " + e.Field
}

// Config is the widget's recognised option surface. APIKey and
// CheckoutEndpoint are mandatory; everything else has a default. The
// default-on booleans are pointers so an explicit false survives defaulting.
type Config struct {
	APIKey           string `yaml:"apiKey"`
	CheckoutEndpoint string `yaml:"checkoutEndpoint"`

	Currency              string `yaml:"currency"`
	Theme                 string `yaml:"theme"`
	Language              string `yaml:"language"`
	DetectBrowserLanguage *bool  `yaml:"detectBrowserLanguage"`
	FallbackLanguage      string `yaml:"fallbackLanguage"`
	Position              string `yaml:"position"`
	CartLifetimeHours     int    `yaml:"cartLifetimeHours"`
	ShowCartBadge         *bool  `yaml:"showCartBadge"`
	OpenCartOnAdd         *bool  `yaml:"openCartOnAdd"`

	CollectShippingAddress bool     `yaml:"collectShippingAddress"`
	ShippingCountries      []string `yaml:"shippingCountries"`
	CollectPhoneNumber     bool     `yaml:"collectPhoneNumber"`
	ShippingOptions        []string `yaml:"shippingOptions"`

	// Translations merges host strings over the built-in catalogs, keyed by
	// language then dotted key.
	Translations map[string]map[string]string `yaml:"translations"`
}

func (c Config) withDefaults() Config {
	if strings.TrimSpace(c.Currency) == "" {
		c.Currency = defaultCurrency
	}
	if strings.TrimSpace(c.Theme) == "" {
		c.Theme = defaultTheme
	}
	if strings.TrimSpace(c.Language) == "" {
		c.Language = defaultLanguage
	}
	if c.DetectBrowserLanguage == nil {
		c.DetectBrowserLanguage = boolPtr(true)
	}
	if strings.TrimSpace(c.FallbackLanguage) == "" {
		c.FallbackLanguage = defaultFallbackLanguage
	}
	if c.Position != "left" {
		c.Position = defaultPosition
	}
	if c.CartLifetimeHours <= 0 {
		c.CartLifetimeHours = defaultCartLifetime
	}
	if c.ShowCartBadge == nil {
		c.ShowCartBadge = boolPtr(true)
	}
	if c.OpenCartOnAdd == nil {
		c.OpenCartOnAdd = boolPtr(true)
	}
	if c.CollectShippingAddress && len(c.ShippingCountries) == 0 {
		c.ShippingCountries = append([]string(nil), defaultShippingCountries...)
	}
	return c
}

// Validate reports the first missing mandatory option.
func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return &ConfigError{Field: "apiKey"}
	}
	if strings.TrimSpace(c.CheckoutEndpoint) == "" {
		return &ConfigError{Field: "checkoutEndpoint"}
	}
	return nil
}

func boolPtr(v bool) *bool {
	return &v
}
