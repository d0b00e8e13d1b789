package validate

import (
	"fmt"

	"github.com/rit3sh-x/fireview/core/constants"
	"github.com/rit3sh-x/fireview/core/schema"
)

// ValidateSchemaFiles checks every schema file matched by the given patterns
// and reports each one individually. One malformed file does not hide the
// results for the others.
func ValidateSchemaFiles(patterns []string) error {
	paths, err := schema.ExpandGlobs(patterns)
	if err != nil {
		return err
	}

	if len(paths) == 0 {
		fmt.Printf(constants.YELLOW+"No schema files matched %v"+constants.RESET+"\n", patterns)
		return nil
	}

	invalid := 0
	for _, path := range paths {
		name, _, err := schema.LoadFile(path)
		if err != nil {
			invalid++
			fmt.Printf(constants.RED+"✗ %s: %v"+constants.RESET+"\n", path, err)
			continue
		}
		fmt.Printf(constants.GREEN+"✔ %s (schema %q)"+constants.RESET+"\n", path, name)
	}

	if invalid > 0 {
		return fmt.Errorf("%d of %d schema files failed validation", invalid, len(paths))
	}

	return nil
}
