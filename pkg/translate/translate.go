// Package translate provides the runtime side of dictionary keys: a
// Translator capability, an engine built on golang.org/x/text, a per-locale
// engine cache and context injection for call sites that need translations.
package translate

import "context"

// Translator looks up phrases by key.
type Translator interface {
	// Has reports whether a phrase exists for key.
	Has(key string) bool
	// T returns the phrase for key with opts applied.
	T(key string, opts Options) string
}

// Options control interpolation and plural selection.
type Options struct {
	// Count selects a plural form and is available as %{smart_count}.
	Count *int
	// Vars are substituted for %{name} placeholders.
	Vars map[string]any
}

// WithCount returns Options selecting the plural form for n.
func WithCount(n int) Options {
	return Options{Count: &n}
}

type ctxKey struct{}

// WithTranslator returns a copy of ctx carrying t.
func WithTranslator(ctx context.Context, t Translator) context.Context {
	return context.WithValue(ctx, ctxKey{}, t)
}

// FromContext returns the Translator carried by ctx.
func FromContext(ctx context.Context) (Translator, bool) {
	t, ok := ctx.Value(ctxKey{}).(Translator)
	return t, ok && t != nil
}

// Translate translates key with the Translator carried by ctx. The key itself
// is returned when ctx carries no Translator or the key is unknown.
func Translate(ctx context.Context, key string, opts Options) string {
	t, ok := FromContext(ctx)
	if !ok || !t.Has(key) {
		return key
	}
	return t.T(key, opts)
}
