package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-json-experiment/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
rules:
  i18n/match-dictionaries:
    severity: error
    referenceFile: locales/en.json
files: ["**.json"]
`

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code := execute(context.Background(), append(args, "--log-level", "error"), &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestLint_ExitsWithProblems_When_DictionaryMissesKeys(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		".dictlint.yaml":  testConfig,
		"locales/en.json": `{"title": "Title", "body": "Body"}`,
		"locales/de.json": `{"title": "Titel"}`,
		"src/app.ts":      `export default { "title": "x" };`,
	})

	code, out, _ := runCLI(t, "lint", "--config", filepath.Join(dir, ".dictlint.yaml"), dir)

	assert.Equal(t, exitProblems, code)
	assert.Contains(t, out, filepath.Join(dir, "locales", "de.json"))
	assert.Contains(t, out, "Missing keys: 'body'")
	assert.Contains(t, out, "1 problem (1 error, 0 warnings)")
	assert.NotContains(t, out, "app.ts")
}

func TestLint_ExitsCleanly_When_DictionariesMatch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		".dictlint.yaml":  testConfig,
		"locales/en.json": `{"title": "Title", "body": "Body"}`,
		"locales/de.json": `{"body": "Text", "title": "Titel"}`,
	})

	code, out, _ := runCLI(t, "lint", "--config", filepath.Join(dir, ".dictlint.yaml"), dir)

	assert.Equal(t, exitOK, code)
	assert.Empty(t, out)
}

func TestLint_WritesSARIF_When_FormatFlagIsSet(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		".dictlint.yaml":  testConfig,
		"locales/en.json": `{"title": "Title", "body": "Body"}`,
		"locales/fr.json": `{"title": "Titre", "body": "Corps", "extra": "x"}`,
	})

	code, out, _ := runCLI(t, "lint", "--config", filepath.Join(dir, ".dictlint.yaml"), "--format", "sarif", dir)
	require.Equal(t, exitProblems, code)

	var log struct {
		Runs []struct {
			Tool struct {
				Driver struct {
					Rules []struct {
						ID string `json:"id"`
					} `json:"rules"`
				} `json:"driver"`
			} `json:"tool"`
			Results []struct {
				RuleID  string `json:"ruleId"`
				Message struct {
					Text string `json:"text"`
				} `json:"message"`
			} `json:"results"`
		} `json:"runs"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &log))
	require.Len(t, log.Runs, 1)
	require.Len(t, log.Runs[0].Results, 1)
	assert.Equal(t, "i18n/match-dictionaries", log.Runs[0].Results[0].RuleID)
	assert.Equal(t, "Unnecessary keys: 'extra'", log.Runs[0].Results[0].Message.Text)
	assert.Equal(t, "i18n/match-dictionaries", log.Runs[0].Tool.Driver.Rules[0].ID)
}

func TestLint_ExitsWithFailure_When_ConfigIsInvalid(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"bad.yaml":     "rules:\n  i18n/unknown:\n    severity: error\n",
		"plugin.yaml":  "plugins: [react]\n",
		"options.yaml": "rules:\n  i18n/match-dictionaries:\n    options: []\n",
	})

	for _, name := range []string{"bad.yaml", "plugin.yaml", "options.yaml"} {
		code, _, errOut := runCLI(t, "lint", "--config", filepath.Join(dir, name), dir)
		assert.Equal(t, exitFailure, code, name)
		assert.True(t, strings.HasPrefix(errOut, "dictlint: "), errOut)
	}

	code, _, _ := runCLI(t, "lint", "--config", filepath.Join(dir, "missing.yaml"), dir)
	assert.Equal(t, exitFailure, code)
}

func TestKeys_PrintsDictionaryKeys_When_GivenFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"en.ts": `export default { "title": "Title", "body": "Body" };`,
	})

	code, out, _ := runCLI(t, "keys", filepath.Join(dir, "en.ts"))
	require.Equal(t, exitOK, code)
	assert.Equal(t, "title\nbody\n", out)

	code, out, _ = runCLI(t, "keys", "--json", filepath.Join(dir, "en.ts"))
	require.Equal(t, exitOK, code)
	var got []string
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, []string{"title", "body"}, got)

	code, _, _ = runCLI(t, "keys", filepath.Join(dir, "en.yaml"))
	assert.Equal(t, exitFailure, code)
}

func TestTranslate_PrintsPhrase_When_KeyExists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"en.json": `{"greeting": "Hello %{name}", "items": "%{smart_count} item |||| %{smart_count} items"}`,
		"de.json": `{"greeting": "Hallo %{name}"}`,
	})

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "locale phrase", args: []string{"--locale", "de", "--var", "name=Ada", "greeting"}, want: "Hallo Ada\n"},
		{name: "default fills gaps", args: []string{"--locale", "de", "--count", "2", "items"}, want: "2 items\n"},
		{name: "singular", args: []string{"--count", "1", "items"}, want: "1 item\n"},
		{name: "unknown key", args: []string{"--locale", "de", "missing.key"}, want: "missing.key\n"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			code, out, _ := runCLI(t, append([]string{"translate", "--dir", dir}, tc.args...)...)
			require.Equal(t, exitOK, code)
			assert.Equal(t, tc.want, out)
		})
	}

	code, _, _ := runCLI(t, "translate", "--dir", dir, "--var", "novalue", "greeting")
	assert.Equal(t, exitFailure, code)
}

func TestRules_ListsPluginRulesAndProcessors(t *testing.T) {
	t.Parallel()

	code, out, _ := runCLI(t, "rules")
	require.Equal(t, exitOK, code)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "i18n/json"), lines[0])
	assert.Contains(t, lines[0], "dictlint-plugin-i18n 0.0.1")
	assert.True(t, strings.HasPrefix(lines[1], "i18n/match-dictionaries"), lines[1])
}

func TestLint_PassesOnBundledDictionaries(t *testing.T) {
	t.Parallel()

	root := filepath.Join("..", "..", "testdata")
	code, out, _ := runCLI(t, "lint", "--config", filepath.Join(root, "dictlint.yaml"), filepath.Join(root, "locales"))

	assert.Equal(t, exitOK, code, out)
	assert.Empty(t, out)
}
