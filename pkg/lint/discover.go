package lint

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/gobwas/glob"
)

var skippedDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"vendor":       true,
}

// Matcher selects files by glob patterns. Patterns use "/" separators and
// support "**".
type Matcher struct {
	include []glob.Glob
	ignore  []glob.Glob
}

// NewMatcher compiles include and ignore patterns. With no include patterns
// every file is included.
func NewMatcher(include, ignore []string) (*Matcher, error) {
	m := &Matcher{}
	for _, p := range include {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("compile pattern %q: %w", p, err)
		}
		m.include = append(m.include, g)
	}
	for _, p := range ignore {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("compile ignore pattern %q: %w", p, err)
		}
		m.ignore = append(m.ignore, g)
	}
	return m, nil
}

// Ignored reports whether path matches an ignore pattern.
func (m *Matcher) Ignored(path string) bool {
	slashed := filepath.ToSlash(path)
	for _, g := range m.ignore {
		if g.Match(slashed) {
			return true
		}
	}
	return false
}

// Included reports whether path matches an include pattern and no ignore
// pattern.
func (m *Matcher) Included(path string) bool {
	if m.Ignored(path) {
		return false
	}
	if len(m.include) == 0 {
		return true
	}
	slashed := filepath.ToSlash(path)
	for _, g := range m.include {
		if g.Match(slashed) {
			return true
		}
	}
	return false
}

// Discover walks paths (or "." if none are given) and returns the files
// accepted by m and lintable, sorted. Files named explicitly are returned
// whenever they are lintable and not ignored.
func Discover(paths []string, m *Matcher, lintable func(path string) bool) ([]string, error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}

	seen := map[string]bool{}
	var files []string
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, root := range paths {
		if root == "" {
			return nil, errors.New("empty path provided")
		}

		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", root, err)
		}
		if !info.IsDir() {
			if lintable(root) && !m.Ignored(root) {
				add(root)
			}
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && (skippedDirs[d.Name()] || m.Ignored(path)) {
					return filepath.SkipDir
				}
				return nil
			}
			if lintable(path) && m.Included(path) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", root, err)
		}
	}

	sort.Strings(files)
	return files, nil
}
