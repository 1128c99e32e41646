package lint_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoosis/dictlint/pkg/lint"
)

func writeTree(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))
	}
}

func isJSON(path string) bool {
	return strings.HasSuffix(path, ".json")
}

func TestDiscover_FiltersByPatterns_When_WalkingDirectories(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir,
		"locales/en.json",
		"locales/de.json",
		"locales/legacy/fr.json",
		"src/app.ts",
		"package.json",
		".git/config.json",
		"vendor/x.json",
	)

	tests := []struct {
		name    string
		include []string
		ignore  []string
		want    []string
	}{
		{
			name: "no patterns keeps every lintable file",
			want: []string{"locales/de.json", "locales/en.json", "locales/legacy/fr.json", "package.json"},
		},
		{
			name:    "include limits to locales",
			include: []string{"**/locales/**.json"},
			want:    []string{"locales/de.json", "locales/en.json", "locales/legacy/fr.json"},
		},
		{
			name:   "ignored directories are pruned",
			ignore: []string{"**/legacy"},
			want:   []string{"locales/de.json", "locales/en.json", "package.json"},
		},
		{
			name:   "ignored files are dropped",
			ignore: []string{"**/package.json"},
			want:   []string{"locales/de.json", "locales/en.json", "locales/legacy/fr.json"},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			m, err := lint.NewMatcher(tc.include, tc.ignore)
			require.NoError(t, err)

			files, err := lint.Discover([]string{dir}, m, isJSON)
			require.NoError(t, err)

			want := make([]string, 0, len(tc.want))
			for _, name := range tc.want {
				want = append(want, filepath.Join(dir, filepath.FromSlash(name)))
			}
			assert.Equal(t, want, files)
		})
	}
}

func TestDiscover_KeepsExplicitFiles_When_IncludeDoesNotMatch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, "en.json", "notes.txt")
	m, err := lint.NewMatcher([]string{"**/locales/**"}, nil)
	require.NoError(t, err)

	file := filepath.Join(dir, "en.json")
	files, err := lint.Discover([]string{file, file, filepath.Join(dir, "notes.txt")}, m, isJSON)
	require.NoError(t, err)
	assert.Equal(t, []string{file}, files)
}

func TestDiscover_ReturnsError_When_PathIsInvalid(t *testing.T) {
	t.Parallel()

	m, err := lint.NewMatcher(nil, nil)
	require.NoError(t, err)

	_, err = lint.Discover([]string{""}, m, isJSON)
	require.Error(t, err)

	_, err = lint.Discover([]string{filepath.Join(t.TempDir(), "missing")}, m, isJSON)
	require.Error(t, err)
}

func TestNewMatcher_ReturnsError_When_PatternIsMalformed(t *testing.T) {
	t.Parallel()

	_, err := lint.NewMatcher([]string{"[a-"}, nil)
	require.Error(t, err)

	_, err = lint.NewMatcher(nil, []string{"[a-"})
	require.Error(t, err)
}
