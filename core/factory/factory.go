package factory

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/rit3sh-x/fireview/core/compiler"
	"github.com/rit3sh-x/fireview/core/schema"
)

// ViewManager is the view-management surface of the target database. EnsureView
// installs a view idempotently (create if absent, replace if present),
// DeleteView removes one and tolerates absence, ListViews enumerates what is
// installed in the target dataset.
type ViewManager interface {
	EnsureView(ctx context.Context, view compiler.ViewDefinition) error
	DeleteView(ctx context.Context, name string) error
	ListViews(ctx context.Context) ([]string, error)
}

// ViewCreationError reports a rejected view statement with enough context to
// locate and diagnose the offending declaration.
type ViewCreationError struct {
	Schema string
	View   string
	SQL    string
	Err    error
}

func (e *ViewCreationError) Error() string {
	return fmt.Sprintf("schema %q: failed to create view %q: %v", e.Schema, e.View, e.Err)
}

func (e *ViewCreationError) Unwrap() error {
	return e.Err
}

// Result is the outcome of one schema's compilation and installation. Views
// lists what was successfully created before any failure; Err is nil on full
// success.
type Result struct {
	Schema string
	Views  []string
	Err    error
}

// Factory drives the per-schema pipeline: compile the view set, then create
// each view in dependency order. Schemas are processed independently and
// sequentially; one schema's failure never blocks the remaining schemas, and
// nothing is rolled back since a re-run repairs idempotently.
type Factory struct {
	compiler *compiler.Compiler
	manager  ViewManager
	logger   *zap.Logger
}

func New(c *compiler.Compiler, m ViewManager, logger *zap.Logger) *Factory {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Factory{compiler: c, manager: m, logger: logger}
}

// Install compiles and installs every schema, in name order for determinism.
// It always returns one Result per schema.
func (f *Factory) Install(ctx context.Context, schemas map[string]*schema.FirestoreSchema) []Result {
	results := make([]Result, 0, len(schemas))
	owners := make(map[string]string)

	for _, name := range sortedNames(schemas) {
		results = append(results, f.installOne(ctx, name, schemas[name], owners))
	}

	return results
}

func (f *Factory) installOne(ctx context.Context, schemaName string, s *schema.FirestoreSchema, owners map[string]string) Result {
	result := Result{Schema: schemaName}

	views, err := f.compiler.Compile(schemaName, s)
	if err != nil {
		f.logger.Error("schema compilation failed",
			zap.String("schema", schemaName), zap.Error(err))
		result.Err = err
		return result
	}

	// Underscore-joined child view names can coincide with another schema's
	// views, e.g. a schema named users_friends and the friends array of a
	// schema named users. Refuse the later schema before touching the database
	// so the earlier installation stays intact.
	for _, view := range views {
		if owner, taken := owners[view.Name]; taken && owner != schemaName {
			f.logger.Error("view name collision",
				zap.String("schema", schemaName),
				zap.String("view", view.Name),
				zap.String("owner", owner))
			result.Err = fmt.Errorf("schema %q: view name %q collides with a view of schema %q", schemaName, view.Name, owner)
			return result
		}
	}
	for _, view := range views {
		owners[view.Name] = schemaName
	}

	for _, view := range views {
		if err := f.manager.EnsureView(ctx, view); err != nil {
			f.logger.Error("view creation failed",
				zap.String("schema", schemaName),
				zap.String("view", view.Name),
				zap.Error(err))
			result.Err = &ViewCreationError{Schema: schemaName, View: view.Name, SQL: view.DDL, Err: err}
			return result
		}
		f.logger.Info("view created",
			zap.String("schema", schemaName),
			zap.String("view", view.Name))
		result.Views = append(result.Views, view.Name)
	}

	return result
}

// Drop deletes every view a schema set compiles to, dependents first. A view
// that is already absent is not an error.
func (f *Factory) Drop(ctx context.Context, schemas map[string]*schema.FirestoreSchema) []Result {
	results := make([]Result, 0, len(schemas))

	for _, name := range sortedNames(schemas) {
		result := Result{Schema: name}

		views, err := f.compiler.Compile(name, schemas[name])
		if err != nil {
			result.Err = err
			results = append(results, result)
			continue
		}

		for i := len(views) - 1; i >= 0; i-- {
			if err := f.manager.DeleteView(ctx, views[i].Name); err != nil {
				result.Err = fmt.Errorf("failed to delete view %q: %w", views[i].Name, err)
				break
			}
			f.logger.Info("view deleted",
				zap.String("schema", name),
				zap.String("view", views[i].Name))
			result.Views = append(result.Views, views[i].Name)
		}

		results = append(results, result)
	}

	return results
}

func sortedNames(schemas map[string]*schema.FirestoreSchema) []string {
	names := make([]string, 0, len(schemas))
	for name := range schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
