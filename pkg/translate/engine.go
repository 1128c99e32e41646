package translate

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
)

const (
	// PluralSeparator splits the plural forms of a phrase.
	PluralSeparator = "||||"
	// CountVar is the placeholder name bound to Options.Count.
	CountVar = "smart_count"
)

var placeholder = regexp.MustCompile(`%\{(.*?)\}`)

// Engine translates the phrases of one locale.
type Engine struct {
	tag     language.Tag
	phrases map[string]string
}

// NewEngine returns an engine for locale. Plural forms are chosen with the
// CLDR plural rules of the locale's language.
func NewEngine(locale string, phrases map[string]string) (*Engine, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("parse locale %q: %w", locale, err)
	}

	own := make(map[string]string, len(phrases))
	for k, v := range phrases {
		own[k] = v
	}
	return &Engine{tag: tag, phrases: own}, nil
}

// Locale returns the engine's language tag.
func (e *Engine) Locale() language.Tag {
	return e.tag
}

// Has implements Translator.
func (e *Engine) Has(key string) bool {
	_, ok := e.phrases[key]
	return ok
}

// T implements Translator. Unknown keys are returned unchanged. When
// opts.Count is set, the phrase is split on PluralSeparator and the form for
// the count is used.
func (e *Engine) T(key string, opts Options) string {
	phrase, ok := e.phrases[key]
	if !ok {
		return key
	}

	vars := opts.Vars
	if opts.Count != nil {
		forms := strings.Split(phrase, PluralSeparator)
		phrase = strings.TrimSpace(forms[e.formIndex(len(forms), *opts.Count)])

		vars = make(map[string]any, len(opts.Vars)+1)
		for k, v := range opts.Vars {
			vars[k] = v
		}
		vars[CountVar] = *opts.Count
	}
	return interpolate(phrase, vars)
}

// formIndex maps the CLDR cardinal category of count to a form: one, few
// and many take the first three forms in order, everything else the last.
func (e *Engine) formIndex(forms, count int) int {
	if forms < 2 {
		return 0
	}
	n := count
	if n < 0 {
		n = -n
	}
	idx := forms - 1
	switch plural.Cardinal.MatchPlural(e.tag, n, 0, 0, 0, 0) {
	case plural.One:
		idx = 0
	case plural.Few:
		idx = 1
	case plural.Many:
		idx = 2
	}
	return min(idx, forms-1)
}

// interpolate replaces %{name} with vars[name]. Placeholders without a value
// are left in place.
func interpolate(phrase string, vars map[string]any) string {
	if len(vars) == 0 {
		return phrase
	}
	return placeholder.ReplaceAllStringFunc(phrase, func(m string) string {
		name := m[2 : len(m)-1]
		if v, ok := vars[name]; ok && v != nil {
			return fmt.Sprint(v)
		}
		return m
	})
}
