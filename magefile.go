//go:build mage

// Build and check targets for dictlint.
//
//	mage       build, vet, gofmt, test (default)
//	mage qa    adds the race detector, golangci-lint and govulncheck
//	mage dict  lints testdata/locales with a fresh build
package main

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

const binary = "bin/dictlint"

// Default target.
var Default = All

// All builds the binary, runs vet and the unit tests, and fails on unformatted files.
func All() error {
	return runSequential(checks()...)
}

// Qa runs All plus the race detector, golangci-lint and govulncheck.
func Qa() error {
	steps := append(checks(),
		step{"Race", "go", []string{"test", "-race", "-timeout=5m", "./..."}},
		step{"Golangci-lint", "golangci-lint", []string{"run", "./..."}},
		step{"Govulncheck", "govulncheck", []string{"./..."}},
	)
	return runSequential(steps...)
}

// Dict lints the bundled dictionaries with a fresh dictlint build.
func Dict() error {
	return runSequential(
		buildStep(),
		step{"Lint", binary, []string{"lint", "--config", "testdata/dictlint.yaml", "testdata/locales"}},
	)
}

// Clean removes build artifacts.
func Clean() error {
	return os.RemoveAll("bin")
}

func checks() []step {
	return []step{
		buildStep(),
		step{"Vet", "go", []string{"vet", "./..."}},
		step{"Test", "go", []string{"test", "-cover", "./..."}},
	}
}

func buildStep() step {
	return step{"Build", "go", []string{"build", "-o", binary, "./cmd/dictlint"}}
}

type step struct {
	name string
	cmd  string
	args []string
}

func runSequential(steps ...step) error {
	if err := gofmt(); err != nil {
		return err
	}
	for _, s := range steps {
		fmt.Printf("→ %s\n", s.name)
		cmd := exec.Command(s.cmd, s.args...)
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		if err := cmd.Run(); err != nil {
			return fmt.Errorf("%s failed: %w", s.name, err)
		}
	}
	return nil
}

// gofmt fails when any file outside _examples needs formatting.
func gofmt() error {
	fmt.Println("→ Gofmt")
	var out bytes.Buffer
	cmd := exec.Command("gofmt", "-l", "cmd", "pkg", "magefile.go")
	cmd.Stdout = &out
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("gofmt failed: %w", err)
	}
	if files := strings.TrimSpace(out.String()); files != "" {
		return fmt.Errorf("unformatted files:\n%s", files)
	}
	return nil
}
