package drop

import (
	"context"
	"fmt"

	"github.com/rit3sh-x/fireview/core/constants"
	"github.com/rit3sh-x/fireview/core/factory"
	"github.com/rit3sh-x/fireview/core/schema"
)

// DropViews deletes every view the matched schemas compile to, dependents
// first. Views that were never installed are skipped silently.
func DropViews(ctx context.Context, f *factory.Factory, patterns []string) error {
	schemas, err := schema.LoadFromGlobs(patterns)
	if err != nil {
		return fmt.Errorf("failed to load schema files: %v", err)
	}

	if len(schemas) == 0 {
		fmt.Printf(constants.YELLOW+"No schema definitions matched %v"+constants.RESET+"\n", patterns)
		return nil
	}

	results := f.Drop(ctx, schemas)

	failed := 0
	for _, result := range results {
		if result.Err != nil {
			failed++
			fmt.Printf(constants.RED+"✗ schema %q: %v"+constants.RESET+"\n", result.Schema, result.Err)
			continue
		}
		fmt.Printf(constants.GREEN+"✔ schema %q: %d views dropped"+constants.RESET+"\n", result.Schema, len(result.Views))
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d schemas failed", failed, len(results))
	}

	return nil
}
