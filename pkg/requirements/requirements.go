// Package requirements handles pip requirement specifiers and requirements.txt
// style files.
//
// A specifier is one raw line from a requirements file: a package name with an
// optional version constraint ("numpy==1.23.4", "requests>=2.28"). The
// normalized base name (lowercase, constraint stripped) is the join key used
// when matching specifiers against dependency graph records; the raw specifier
// text is preserved for output.
package requirements

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/karthikmswamy/wheelhouse/pkg/errors"
)

// operators are the version-comparison operators recognized in specifiers.
// Two-character operators come first so "numpy>=1.0" splits at ">=" and not ">".
var operators = []string{"==", ">=", "<=", "!=", "~=", ">", "<"}

// BaseName returns the lowercase package name of a specifier with any trailing
// version-comparison clause removed. If no operator is present, the whole
// trimmed, lowercased specifier is returned. The function is pure and
// idempotent; callers must not assume the result is non-empty.
func BaseName(spec string) string {
	name := strings.TrimSpace(spec)
	for _, op := range operators {
		if i := strings.Index(name, op); i >= 0 {
			name = name[:i]
		}
	}
	return strings.ToLower(strings.TrimSpace(name))
}

// Load reads a requirements file and returns its specifiers in input order.
// Blank lines and lines whose first non-whitespace character is '#' are
// skipped; all other lines are returned verbatim (trimmed). A missing file
// yields an INPUT_NOT_FOUND error; a file with no specifiers after
// filtering yields EMPTY_INPUT.
func Load(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeInputNotFound, "%s not found", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var specs []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		specs = append(specs, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(specs) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyInput, "%s is empty or contains only comments", path)
	}
	return specs, nil
}

// BaseNameSet returns the set of base names for a list of specifiers.
// This is the "original set": the universe considered for classification.
func BaseNameSet(specs []string) map[string]bool {
	set := make(map[string]bool, len(specs))
	for _, s := range specs {
		set[BaseName(s)] = true
	}
	return set
}

// WriteFile writes one specifier per line to path, overwriting any existing
// file. Raw specifier text is preserved as-is.
func WriteFile(path string, specs []string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, s := range specs {
		if _, err := fmt.Fprintln(w, s); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	return w.Flush()
}
