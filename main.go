package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alexflint/go-arg"
	"go.uber.org/zap"

	"github.com/rit3sh-x/fireview/cli/drop"
	"github.com/rit3sh-x/fireview/cli/generate"
	initfireview "github.com/rit3sh-x/fireview/cli/init"
	"github.com/rit3sh-x/fireview/cli/list"
	"github.com/rit3sh-x/fireview/cli/plan"
	"github.com/rit3sh-x/fireview/cli/validate"
	"github.com/rit3sh-x/fireview/core/compiler"
	"github.com/rit3sh-x/fireview/core/constants"
	"github.com/rit3sh-x/fireview/core/db"
	"github.com/rit3sh-x/fireview/core/dialect"
	"github.com/rit3sh-x/fireview/core/factory"
)

type schemaArgs struct {
	Schemas []string `arg:"positional" help:"schema file globs (default: fireview/schemas/*.json)"`
}

type generateArgs struct {
	Schemas []string `arg:"positional" help:"schema file globs (default: fireview/schemas/*.json)"`
	DryRun  bool     `arg:"--dry-run" help:"print the SQL without installing views"`
}

type args struct {
	Init     *struct{}     `arg:"subcommand:init" help:"scaffold a fireview project"`
	Validate *schemaArgs   `arg:"subcommand:validate" help:"validate schema files"`
	Plan     *schemaArgs   `arg:"subcommand:plan" help:"print the SQL that generate would install"`
	Generate *generateArgs `arg:"subcommand:generate" help:"compile schemas and install views"`
	List     *struct{}     `arg:"subcommand:list" help:"list installed views"`
	Drop     *schemaArgs   `arg:"subcommand:drop" help:"drop the views compiled from schemas"`

	EnvFile string `arg:"--env-file" default:".env" help:"env file to load"`
	Verbose bool   `arg:"-v,--verbose" help:"verbose logging"`
}

func (args) Description() string {
	return "fireview materializes typed, queryable SQL views over a document-database changelog"
}

func main() {
	var parsed args
	parser := arg.MustParse(&parsed)

	if err := run(&parsed, parser); err != nil {
		fmt.Fprintln(os.Stderr, constants.RED+err.Error()+constants.RESET)
		os.Exit(1)
	}
}

func run(parsed *args, parser *arg.Parser) error {
	ctx := context.Background()

	if parsed.Init != nil {
		return initfireview.Init()
	}
	if parsed.Validate != nil {
		return validate.ValidateSchemaFiles(patternsOrDefault(parsed.Validate.Schemas))
	}

	switch {
	case parsed.Plan != nil:
		c, _, err := setup(parsed.EnvFile)
		if err != nil {
			return err
		}
		return plan.NewPlanCommand(c, patternsOrDefault(parsed.Plan.Schemas)).Execute()

	case parsed.Generate != nil:
		c, cfg, err := setup(parsed.EnvFile)
		if err != nil {
			return err
		}
		if parsed.Generate.DryRun {
			return plan.NewPlanCommand(c, patternsOrDefault(parsed.Generate.Schemas)).Execute()
		}

		manager, cleanup, err := openManager(ctx, cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		logger, err := newLogger(parsed.Verbose)
		if err != nil {
			return err
		}
		defer logger.Sync()

		f := factory.New(c, manager, logger)
		return generate.NewGenerateCommand(f, patternsOrDefault(parsed.Generate.Schemas)).Execute(ctx)

	case parsed.List != nil:
		_, cfg, err := setup(parsed.EnvFile)
		if err != nil {
			return err
		}
		manager, cleanup, err := openManager(ctx, cfg)
		if err != nil {
			return err
		}
		defer cleanup()
		return list.ListViews(ctx, manager)

	case parsed.Drop != nil:
		c, cfg, err := setup(parsed.EnvFile)
		if err != nil {
			return err
		}
		manager, cleanup, err := openManager(ctx, cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		logger, err := newLogger(parsed.Verbose)
		if err != nil {
			return err
		}
		defer logger.Sync()

		f := factory.New(c, manager, logger)
		return drop.DropViews(ctx, f, patternsOrDefault(parsed.Drop.Schemas))
	}

	parser.WriteHelp(os.Stdout)
	return nil
}

func setup(envFile string) (*compiler.Compiler, *db.Config, error) {
	cfg, err := db.LoadConfig(envFile)
	if err != nil {
		return nil, nil, err
	}

	d, err := dialect.ByName(cfg.Dialect, cfg.ProjectID, cfg.DatasetID)
	if err != nil {
		return nil, nil, err
	}

	return compiler.New(d, cfg.TablePrefix, cfg.ChangelogTable), cfg, nil
}

func openManager(ctx context.Context, cfg *db.Config) (factory.ViewManager, func(), error) {
	switch cfg.Dialect {
	case "postgres":
		pool, err := db.Pool(ctx, cfg.DatabaseURI)
		if err != nil {
			return nil, nil, err
		}
		manager := db.NewPostgresViewManager(pool, cfg.DatasetID)
		return manager, func() { pool.Close() }, nil

	default:
		manager, err := db.NewBigQueryViewManager(ctx, cfg.ProjectID, cfg.DatasetID, cfg.CredentialsFile)
		if err != nil {
			return nil, nil, err
		}
		return manager, func() { _ = manager.Close() }, nil
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}

	config := zap.NewProductionConfig()
	config.DisableStacktrace = true
	return config.Build()
}

func patternsOrDefault(patterns []string) []string {
	if len(patterns) == 0 {
		return []string{constants.SCHEMA_GLOB}
	}
	return patterns
}
