package runner

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

// DefaultSuffix is the discovery suffix used when none is configured.
const DefaultSuffix = "http"

// Discover walks dir recursively and returns every file matching the
// test_<name>.<suffix>.json discovery pattern, sorted in the order
// filepath.WalkDir visits them (lexicographic per directory level).
func Discover(dir, suffix string) ([]string, error) {
	if suffix == "" {
		suffix = DefaultSuffix
	}
	pattern, err := regexp.Compile(`^test_.+\.` + regexp.QuoteMeta(suffix) + `\.json$`)
	if err != nil {
		return nil, fmt.Errorf("runner: compiling discovery pattern: %w", err)
	}

	var matches []string
	err = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if pattern.MatchString(d.Name()) {
			matches = append(matches, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("runner: discovering scenarios under %s: %w", dir, err)
	}
	return matches, nil
}
