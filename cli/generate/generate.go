package generate

import (
	"context"
	"fmt"

	"github.com/rit3sh-x/fireview/core/constants"
	"github.com/rit3sh-x/fireview/core/factory"
	"github.com/rit3sh-x/fireview/core/schema"
)

type GenerateCommand struct {
	factory  *factory.Factory
	patterns []string
}

func NewGenerateCommand(f *factory.Factory, patterns []string) *GenerateCommand {
	return &GenerateCommand{
		factory:  f,
		patterns: patterns,
	}
}

// Execute loads the schema files and installs the compiled views. Schemas
// fail independently; the command reports every outcome and errors only if
// at least one schema failed.
func (gc *GenerateCommand) Execute(ctx context.Context) error {
	schemas, err := schema.LoadFromGlobs(gc.patterns)
	if err != nil {
		return fmt.Errorf("failed to load schema files: %v", err)
	}

	if len(schemas) == 0 {
		fmt.Printf(constants.YELLOW+"No schema definitions matched %v"+constants.RESET+"\n", gc.patterns)
		return nil
	}

	results := gc.factory.Install(ctx, schemas)

	failed := 0
	for _, result := range results {
		if result.Err != nil {
			failed++
			fmt.Printf(constants.RED+"✗ schema %q: %v"+constants.RESET+"\n", result.Schema, result.Err)
			continue
		}
		fmt.Printf(constants.GREEN+"✔ schema %q: %d views installed"+constants.RESET+"\n", result.Schema, len(result.Views))
		for _, view := range result.Views {
			fmt.Printf("  %s\n", view)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d schemas failed", failed, len(results))
	}

	return nil
}
