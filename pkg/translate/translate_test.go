package translate_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoosis/dictlint/pkg/translate"
)

func newEngine(t *testing.T, locale string, phrases map[string]string) *translate.Engine {
	t.Helper()
	e, err := translate.NewEngine(locale, phrases)
	require.NoError(t, err)
	return e
}

func TestEngineT_InterpolatesAndPluralizes_When_OptionsAreGiven(t *testing.T) {
	t.Parallel()

	e := newEngine(t, "en", map[string]string{
		"hello": "Hello, %{name}!",
		"cars":  "%{smart_count} car |||| %{smart_count} cars",
		"plain": "Plain",
	})

	tests := []struct {
		name string
		key  string
		opts translate.Options
		want string
	}{
		{name: "plain phrase", key: "plain", want: "Plain"},
		{name: "named variable", key: "hello", opts: translate.Options{Vars: map[string]any{"name": "Ada"}}, want: "Hello, Ada!"},
		{name: "missing variable is kept", key: "hello", want: "Hello, %{name}!"},
		{name: "singular", key: "cars", opts: translate.WithCount(1), want: "1 car"},
		{name: "plural", key: "cars", opts: translate.WithCount(3), want: "3 cars"},
		{name: "zero is plural in english", key: "cars", opts: translate.WithCount(0), want: "0 cars"},
		{name: "count on single form phrase", key: "plain", opts: translate.WithCount(5), want: "Plain"},
		{name: "unknown key is returned", key: "nope", want: "nope"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, e.T(tc.key, tc.opts))
		})
	}
}

func TestEngineT_UsesLocalePluralRules_When_LanguageHasMoreForms(t *testing.T) {
	t.Parallel()

	ru := newEngine(t, "ru", map[string]string{
		"files": "%{smart_count} файл |||| %{smart_count} файла |||| %{smart_count} файлов",
	})
	assert.Equal(t, "1 файл", ru.T("files", translate.WithCount(1)))
	assert.Equal(t, "3 файла", ru.T("files", translate.WithCount(3)))
	assert.Equal(t, "5 файлов", ru.T("files", translate.WithCount(5)))
	assert.Equal(t, "21 файл", ru.T("files", translate.WithCount(21)))

	fr := newEngine(t, "fr", map[string]string{"items": "%{smart_count} objet |||| %{smart_count} objets"})
	assert.Equal(t, "0 objet", fr.T("items", translate.WithCount(0)))
	assert.Equal(t, "2 objets", fr.T("items", translate.WithCount(2)))
}

func TestNewEngine_ReturnsError_When_LocaleIsMalformed(t *testing.T) {
	t.Parallel()

	_, err := translate.NewEngine("not a locale!", nil)
	require.Error(t, err)
}

func TestEngine_DoesNotShareCallerPhrases(t *testing.T) {
	t.Parallel()

	phrases := map[string]string{"a": "A"}
	e := newEngine(t, "en", phrases)
	phrases["b"] = "B"

	assert.True(t, e.Has("a"))
	assert.False(t, e.Has("b"))
	assert.Equal(t, "en", e.Locale().String())
}

func TestPhrases_MergesDefaultWithoutMutation_When_LocaleDiffers(t *testing.T) {
	t.Parallel()

	dicts := translate.Dictionaries{
		"en": {"title": "Title", "body": "Body"},
		"de": {"title": "Titel"},
	}

	assert.Equal(t, translate.Dictionary{"title": "Title", "body": "Body"}, translate.Phrases(dicts, "en", "en"))
	assert.Equal(t, translate.Dictionary{"title": "Titel", "body": "Body"}, translate.Phrases(dicts, "de", "en"))
	assert.Equal(t, translate.Dictionary{"title": "Title", "body": "Body"}, translate.Phrases(dicts, "fr", "en"))

	assert.Equal(t, translate.Dictionary{"title": "Title", "body": "Body"}, dicts["en"], "default dictionary must not change")
	assert.Equal(t, []string{"de", "en"}, dicts.Locales())
}

func TestTranslate_FallsBackToKey_When_TranslatorIsMissingOrKeyUnknown(t *testing.T) {
	t.Parallel()

	e := newEngine(t, "en", map[string]string{"greet": "Hi %{name}"})
	ctx := translate.WithTranslator(context.Background(), e)

	assert.Equal(t, "Hi Bo", translate.Translate(ctx, "greet", translate.Options{Vars: map[string]any{"name": "Bo"}}))
	assert.Equal(t, "unknown.key", translate.Translate(ctx, "unknown.key", translate.Options{}))
	assert.Equal(t, "greet", translate.Translate(context.Background(), "greet", translate.Options{}))

	got, ok := translate.FromContext(ctx)
	require.True(t, ok)
	assert.Same(t, e, got)
}

func TestCache_ReusesEngine_When_LocaleIsUnchanged(t *testing.T) {
	t.Parallel()

	dicts := translate.Dictionaries{"en": {"a": "A"}, "de": {"a": "Ä"}}
	c := translate.NewCache(dicts, "en")

	first, err := c.Engine("de")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e, err := c.Engine("de")
			assert.NoError(t, err)
			assert.Same(t, first, e)
		}()
	}
	wg.Wait()

	en, err := c.Engine("en")
	require.NoError(t, err)
	assert.NotSame(t, first, en)
	assert.Equal(t, "Ä", first.T("a", translate.Options{}))

	c.Invalidate()
	rebuilt, err := c.Engine("de")
	require.NoError(t, err)
	assert.NotSame(t, first, rebuilt)

	c.Replace(translate.Dictionaries{"en": {"a": "A2"}})
	replaced, err := c.Engine("de")
	require.NoError(t, err)
	assert.Equal(t, "A2", replaced.T("a", translate.Options{}))

	_, err = c.Engine("??")
	require.Error(t, err)
}

func TestLoadDictionaries_ReadsLocaleFiles_When_DirectoryHoldsJSON(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	files := map[string]string{
		"en.json":   `{"title": "Title", "nav": {"home": "Home", "about": "About"}}`,
		"de.json":   `{"title": "Titel"}`,
		"README.md": `not a dictionary`,
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.json"), 0o755))

	dicts, err := translate.LoadDictionaries(dir)
	require.NoError(t, err)

	want := translate.Dictionaries{
		"en": {"title": "Title", "nav.home": "Home", "nav.about": "About"},
		"de": {"title": "Titel"},
	}
	if diff := cmp.Diff(want, dicts); diff != "" {
		t.Fatalf("dictionaries mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadDictionaries_ReturnsError_When_FileIsInvalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{name: "malformed json", content: `{"a":`},
		{name: "non string phrase", content: `{"a": 1}`, wantErr: translate.ErrNotString},
		{name: "non string nested phrase", content: `{"a": {"b": true}}`, wantErr: translate.ErrNotString},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, "en.json"), []byte(tc.content), 0o644))

			_, err := translate.LoadDictionaries(dir)
			require.Error(t, err)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
			}
		})
	}

	_, err := translate.LoadDictionaries(filepath.Join(t.TempDir(), "missing"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestEngineT_SelectsPluralForm_When_LocaleLacksSomeCategories(t *testing.T) {
	t.Parallel()

	twoForms := map[string]string{"items": "%{smart_count} a |||| %{smart_count} b"}
	threeForms := map[string]string{"items": "%{smart_count} a |||| %{smart_count} b |||| %{smart_count} c"}

	tests := []struct {
		name    string
		locale  string
		phrases map[string]string
		count   int
		want    string
	}{
		{name: "english singular", locale: "en", phrases: twoForms, count: 1, want: "1 a"},
		{name: "english plural", locale: "en", phrases: twoForms, count: 2, want: "2 b"},
		{name: "german singular", locale: "de", phrases: twoForms, count: 1, want: "1 a"},
		{name: "german plural", locale: "de", phrases: twoForms, count: 7, want: "7 b"},
		{name: "french zero is singular", locale: "fr", phrases: twoForms, count: 0, want: "0 a"},
		{name: "polish few", locale: "pl", phrases: threeForms, count: 4, want: "4 b"},
		{name: "polish many", locale: "pl", phrases: threeForms, count: 5, want: "5 c"},
		{name: "russian few with two forms", locale: "ru", phrases: twoForms, count: 3, want: "3 b"},
		{name: "japanese has one form", locale: "ja", phrases: twoForms, count: 1, want: "1 b"},
		{name: "negative count uses magnitude", locale: "en", phrases: twoForms, count: -1, want: "-1 a"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			e := newEngine(t, tc.locale, tc.phrases)
			assert.Equal(t, tc.want, e.T("items", translate.WithCount(tc.count)))
		})
	}
}

func TestCache_BuildsEngines_When_BundledDictionariesHavePluralPhrases(t *testing.T) {
	t.Parallel()

	dicts, err := translate.LoadDictionaries(filepath.Join("..", "..", "testdata", "locales"))
	require.NoError(t, err)
	c := translate.NewCache(dicts, "en")

	en, err := c.Engine("en")
	require.NoError(t, err)
	assert.Equal(t, "1 item", en.T("items", translate.WithCount(1)))

	de, err := c.Engine("de")
	require.NoError(t, err)
	assert.Equal(t, "2 Einträge", de.T("items", translate.WithCount(2)))

	fr, err := c.Engine("fr")
	require.NoError(t, err)
	assert.Equal(t, "3 items", fr.T("items", translate.WithCount(3)))
}
