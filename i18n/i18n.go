// Package i18n resolves display strings for the widget. Catalogs are flat
// maps keyed by dotted paths; English and French ship built in, hosts may
// override or add languages wholesale.
package i18n

import (
	"context"
	"strings"
)

// Bundle holds the active language and the merged catalogs.
type Bundle struct {
	lang     string
	fallback string
	custom   map[string]map[string]string
	logger   func(ctx context.Context, event string, fields map[string]any)
}

// Options configures a Bundle.
type Options struct {
	// Language is the initial language; empty means "en".
	Language string
	// DetectBrowser switches to the browser's primary language subtag when it
	// is available, falling back to Fallback otherwise.
	DetectBrowser bool
	// BrowserLocale reports the host environment's locale, e.g. "fr-FR".
	BrowserLocale func() string
	// Fallback is the language used when detection misses; empty means "en".
	Fallback string
	// Overrides merges host-supplied strings over the built-in catalogs,
	// keyed by language then by dotted path.
	Overrides map[string]map[string]string
	Logger    func(ctx context.Context, event string, fields map[string]any)
}

// New builds a Bundle and resolves the initial language.
func New(opts Options) *Bundle {
	logger := opts.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}
	b := &Bundle{
		fallback: defaultLang(opts.Fallback),
		custom:   opts.Overrides,
		logger:   logger,
	}

	lang := defaultLang(opts.Language)
	if opts.DetectBrowser && opts.BrowserLocale != nil {
		if detected := primarySubtag(opts.BrowserLocale()); detected != "" {
			if b.has(detected) {
				lang = detected
			} else {
				lang = b.fallback
			}
		}
	}
	b.SetLanguage(lang)
	return b
}

// SetLanguage switches the active language, warning and falling back to
// English when the language has no catalog at all.
func (b *Bundle) SetLanguage(lang string) {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if !b.has(lang) {
		b.logger(context.Background(), "i18n.language_unavailable", map[string]any{"language": lang})
		lang = "en"
	}
	b.lang = lang
}

// Language returns the active language.
func (b *Bundle) Language() string {
	return b.lang
}

// T returns the translation for key, substituting {{name}} placeholders from
// params. Lookup order: custom catalog, built-in catalog, then the same chain
// for English. A key missing everywhere is returned verbatim.
func (b *Bundle) T(key string, params map[string]string) string {
	value, ok := b.lookup(b.lang, key)
	if !ok && b.lang != "en" {
		value, ok = b.lookup("en", key)
	}
	if !ok {
		b.logger(context.Background(), "i18n.missing_translation", map[string]any{"key": key})
		return key
	}
	for name, val := range params {
		value = strings.ReplaceAll(value, "{{"+name+"}}", val)
	}
	return value
}

func (b *Bundle) lookup(lang, key string) (string, bool) {
	if m, ok := b.custom[lang]; ok {
		if v, ok := m[key]; ok {
			return v, true
		}
	}
	if m, ok := builtin[lang]; ok {
		if v, ok := m[key]; ok {
			return v, true
		}
	}
	return "", false
}

func (b *Bundle) has(lang string) bool {
	if _, ok := builtin[lang]; ok {
		return true
	}
	_, ok := b.custom[lang]
	return ok
}

func defaultLang(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang == "" {
		return "en"
	}
	return lang
}

// primarySubtag reduces "fr-FR" to "fr".
func primarySubtag(locale string) string {
	locale = strings.ToLower(strings.TrimSpace(locale))
	if i := strings.IndexAny(locale, "-_"); i >= 0 {
		locale = locale[:i]
	}
	return locale
}
