package translate

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-json-experiment/json"
)

// Dictionary maps phrase keys to phrases.
type Dictionary map[string]string

// Dictionaries maps locales to their dictionaries.
type Dictionaries map[string]Dictionary

// ErrNotString is returned when a dictionary value is neither a string nor
// an object of strings.
var ErrNotString = errors.New("phrase is not a string")

// Phrases returns the phrases for locale. For the default locale that is its
// dictionary as is; for any other locale the default dictionary is
// overlaid with the locale's own phrases. dicts is never modified.
func Phrases(dicts Dictionaries, locale, defaultLocale string) Dictionary {
	if locale == defaultLocale {
		return dicts[locale]
	}
	merged := make(Dictionary, len(dicts[defaultLocale])+len(dicts[locale]))
	for k, v := range dicts[defaultLocale] {
		merged[k] = v
	}
	for k, v := range dicts[locale] {
		merged[k] = v
	}
	return merged
}

// Locales returns the locales of dicts, sorted.
func (d Dictionaries) Locales() []string {
	locales := make([]string, 0, len(d))
	for l := range d {
		locales = append(locales, l)
	}
	sort.Strings(locales)
	return locales
}

// LoadDictionaries reads every <locale>.json file in dir. Nested objects are
// flattened into dotted keys.
func LoadDictionaries(dir string) (Dictionaries, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dictionaries: %w", err)
	}

	dicts := Dictionaries{}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		locale := strings.TrimSuffix(entry.Name(), ".json")
		dict, err := LoadDictionary(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		dicts[locale] = dict
	}
	return dicts, nil
}

// LoadDictionary reads a single JSON dictionary file.
func LoadDictionary(path string) (Dictionary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dictionary: %w", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	dict := Dictionary{}
	if err := flatten(dict, "", raw); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return dict, nil
}

func flatten(dst Dictionary, prefix string, src map[string]any) error {
	for k, v := range src {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case string:
			dst[key] = val
		case map[string]any:
			if err := flatten(dst, key, val); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w: %s", ErrNotString, key)
		}
	}
	return nil
}
