package schema

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// LoadFromGlobs expands the given glob patterns and parses every matching
// file into a named schema. The schema name is the file basename without its
// .json extension. Zero matches is not an error; callers decide how to treat
// an empty result.
func LoadFromGlobs(patterns []string) (map[string]*FirestoreSchema, error) {
	paths, err := ExpandGlobs(patterns)
	if err != nil {
		return nil, err
	}
	return LoadFromFiles(paths)
}

// ExpandGlobs expands schema file patterns into a sorted, de-duplicated file
// list. Patterns matching nothing contribute nothing.
func ExpandGlobs(patterns []string) ([]string, error) {
	paths := make([]string, 0)
	seen := make(map[string]bool)

	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid schema file pattern %q: %v", pattern, err)
		}
		for _, match := range matches {
			if !seen[match] {
				seen[match] = true
				paths = append(paths, match)
			}
		}
	}

	sort.Strings(paths)
	return paths, nil
}

// LoadFromFiles parses the given schema files. Duplicate schema names across
// files are rejected since both would compile to the same view names.
func LoadFromFiles(paths []string) (map[string]*FirestoreSchema, error) {
	schemas := make(map[string]*FirestoreSchema, len(paths))

	for _, path := range paths {
		name, parsed, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		if _, exists := schemas[name]; exists {
			return nil, fmt.Errorf("duplicate schema name %q from file %s", name, path)
		}
		schemas[name] = parsed
	}

	return schemas, nil
}

// LoadFile parses a single schema file and returns its derived name.
func LoadFile(path string) (string, *FirestoreSchema, error) {
	name := SchemaName(path)

	raw, err := os.ReadFile(path)
	if err != nil {
		return name, nil, fmt.Errorf("failed to read schema file %s: %v", path, err)
	}

	parsed, err := Parse(name, raw)
	if err != nil {
		return name, nil, err
	}

	return name, parsed, nil
}

// SchemaName derives a schema name from its file path.
func SchemaName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
