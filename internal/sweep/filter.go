package sweep

import (
	"fmt"
	"path/filepath"
)

// Filter returns the cases whose name matches the glob pattern.
// An empty pattern matches everything.
func Filter(cases []Case, pattern string) ([]Case, error) {
	if pattern == "" {
		return cases, nil
	}
	var out []Case
	for _, c := range cases {
		ok, err := filepath.Match(pattern, c.Name)
		if err != nil {
			return nil, fmt.Errorf("invalid filter pattern: %w", err)
		}
		if ok {
			out = append(out, c)
		}
	}
	return out, nil
}
