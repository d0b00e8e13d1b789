package compiler

import (
	"strings"

	"github.com/rit3sh-x/fireview/core/constants"
	"github.com/rit3sh-x/fireview/core/dialect"
	"github.com/rit3sh-x/fireview/core/schema"
)

// ViewDefinition is one compiled view, ready to install. Query is the bare
// SELECT for engines whose view API takes a query; DDL is the idempotent
// CREATE OR REPLACE form for engines driven by SQL statements. DependsOn
// lists views that must exist first.
type ViewDefinition struct {
	Name      string
	Query     string
	DDL       string
	DependsOn []string
}

// Compiler turns one FirestoreSchema into the view set that materializes it:
// a latest-snapshot view over the changelog, a typed view per schema level,
// and recursively one typed view per array-of-map field. Compilation is pure
// string assembly; the same schema always compiles to byte-identical SQL.
type Compiler struct {
	dialect        dialect.Dialect
	resolver       *Resolver
	tablePrefix    string
	changelogTable string
}

func New(d dialect.Dialect, tablePrefix, changelogTable string) *Compiler {
	if changelogTable == "" {
		changelogTable = constants.ChangelogTableName(tablePrefix)
	}
	return &Compiler{
		dialect:        d,
		resolver:       NewResolver(d),
		tablePrefix:    tablePrefix,
		changelogTable: changelogTable,
	}
}

// Compile produces the schema's views in dependency order: snapshot first,
// then the top typed view, then child views depth-first in declaration
// order. A resolution failure aborts the whole schema; no partial view list
// is returned.
func (c *Compiler) Compile(schemaName string, s *schema.FirestoreSchema) ([]ViewDefinition, error) {
	snapshotName := constants.SnapshotViewName(c.tablePrefix, schemaName)
	snapshotRef := c.dialect.TableRef(snapshotName)

	views := []ViewDefinition{{
		Name:  snapshotName,
		Query: c.buildSnapshotQuery(),
	}}

	columns, children, err := c.flatten(schemaName, s.Fields, nil, constants.COL_DATA)
	if err != nil {
		return nil, err
	}

	topName := constants.TypedViewName(c.tablePrefix, schemaName)
	views = append(views, ViewDefinition{
		Name:      topName,
		Query:     c.buildTypedQuery(snapshotRef, nil, columns),
		DependsOn: []string{snapshotName},
	})

	childViews, err := c.compileChildren(schemaName, snapshotName, children, nil, nil)
	if err != nil {
		return nil, err
	}
	views = append(views, childViews...)

	for i := range views {
		views[i].DDL = c.dialect.CreateOrReplaceView(views[i].Name, views[i].Query)
	}

	return views, nil
}

// compileChildren builds one typed view per array field, depth-first. Each
// child view selects from the schema's snapshot view through the chain of
// unnest steps leading to its element. pathPrefix is the array's path from
// the document root; aliases derive from it so that a nested array reusing an
// enclosing array's field name cannot bind the same alias twice in one chain.
func (c *Compiler) compileChildren(schemaName, snapshotName string, children []childRef, steps []unnestStep, pathPrefix []string) ([]ViewDefinition, error) {
	views := make([]ViewDefinition, 0, len(children))

	for _, child := range children {
		childName := childSchemaName(schemaName, child.Path)
		absPath := append(append([]string{}, pathPrefix...), child.Path...)
		elementAlias := flatPath(absPath) + "_member"
		ordinalAlias := flatPath(absPath) + "_offset"

		source := constants.COL_DATA
		if len(steps) > 0 {
			source = steps[len(steps)-1].ElementAlias
		}

		chain := append(append([]unnestStep{}, steps...), unnestStep{
			Source:       source,
			Path:         child.Path,
			ElementAlias: elementAlias,
			OrdinalAlias: ordinalAlias,
		})

		columns, grandchildren, err := c.flattenElement(schemaName, child, elementAlias)
		if err != nil {
			return nil, err
		}

		views = append(views, ViewDefinition{
			Name:      constants.TypedViewName(c.tablePrefix, childName),
			Query:     c.buildTypedQuery(c.dialect.TableRef(snapshotName), chain, columns),
			DependsOn: []string{snapshotName},
		})

		nested, err := c.compileChildren(childName, snapshotName, grandchildren, chain, absPath)
		if err != nil {
			return nil, err
		}
		views = append(views, nested...)
	}

	return views, nil
}

// flattenElement produces the columns of a child view's element. A map
// element flattens its fields against the unnested element alias; a scalar
// element becomes a single column named after the array field itself.
func (c *Compiler) flattenElement(schemaName string, child childRef, elementAlias string) ([]Column, []childRef, error) {
	element := child.Element
	fieldPath := dottedPath(child.Path)

	switch element.Type {
	case schema.MAP:
		return c.flatten(schemaName, element.Fields, nil, elementAlias)

	case schema.ARRAY:
		// Firestore forbids directly nested arrays; schema validation rejects
		// them before compilation.
		return nil, nil, &UnsupportedFieldTypeError{Schema: schemaName, Path: fieldPath, Type: schema.ARRAY}

	default:
		rules, err := c.resolver.Resolve(schemaName, fieldPath, element.Type)
		if err != nil {
			return nil, nil, err
		}
		name := child.Path[len(child.Path)-1]
		columns := make([]Column, 0, len(rules))
		for _, rule := range rules {
			columnPath := append([]string{name}, rule.NameSuffix...)
			columns = append(columns, Column{
				QualifiedName: dottedPath(columnPath),
				Expr:          rule.Expr(elementAlias, rule.NameSuffix),
				SQLType:       rule.SQLType,
			})
		}
		return columns, nil, nil
	}
}

// childSchemaName joins a parent schema name with the array field path that
// spawned the child. Dots in the path become underscores so the result is a
// legal resource-name segment. The joined name is deterministic but can
// coincide with another schema's name (users_friends vs the friends array of
// users); factory.Install rejects such overlaps before installing anything.
func childSchemaName(parent string, path []string) string {
	return parent + "_" + flatPath(path)
}

func flatPath(path []string) string {
	return strings.Join(path, "_")
}
