package plan

import (
	"fmt"
	"sort"

	"github.com/rit3sh-x/fireview/core/compiler"
	"github.com/rit3sh-x/fireview/core/constants"
	"github.com/rit3sh-x/fireview/core/schema"
)

type PlanCommand struct {
	compiler *compiler.Compiler
	patterns []string
}

func NewPlanCommand(c *compiler.Compiler, patterns []string) *PlanCommand {
	return &PlanCommand{
		compiler: c,
		patterns: patterns,
	}
}

// Execute compiles every schema and prints the DDL that generate would
// install, without touching the database.
func (pc *PlanCommand) Execute() error {
	schemas, err := schema.LoadFromGlobs(pc.patterns)
	if err != nil {
		return fmt.Errorf("failed to load schema files: %v", err)
	}

	if len(schemas) == 0 {
		fmt.Printf(constants.YELLOW+"No schema definitions matched %v"+constants.RESET+"\n", pc.patterns)
		return nil
	}

	names := make([]string, 0, len(schemas))
	for name := range schemas {
		names = append(names, name)
	}
	sort.Strings(names)

	failed := 0
	for _, name := range names {
		views, err := pc.compiler.Compile(name, schemas[name])
		if err != nil {
			failed++
			fmt.Printf(constants.RED+"✗ schema %q: %v"+constants.RESET+"\n", name, err)
			continue
		}

		fmt.Printf(constants.CYAN+"-- schema %q (%d views)"+constants.RESET+"\n", name, len(views))
		for _, view := range views {
			fmt.Printf("\n%s;\n", view.DDL)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d schemas failed to compile", failed, len(schemas))
	}

	return nil
}
