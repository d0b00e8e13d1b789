package compiler

import (
	"strings"

	"github.com/rit3sh-x/fireview/core/schema"
)

// Column is one typed, flattened output column of a view.
type Column struct {
	// QualifiedName is the dotted field path, e.g. "address.city" or
	// "home.latitude". The SQL builder converts it to a legal alias.
	QualifiedName string
	Expr          string
	SQLType       string
}

// childRef marks an array field encountered during flattening. The array is
// not expanded inline; it becomes a child schema compiled into its own view.
type childRef struct {
	// Path is the field path of the array relative to the flattening root.
	Path []string
	// Element is the array's element shape. Its Name is empty; the array
	// field's own name identifies it.
	Element schema.Field
}

// flatten walks fields in declaration order and produces the flat column list
// for one view level. MAP fields recurse inline with an extended path prefix;
// ARRAY fields are recorded as child refs and contribute no inline column.
// source is the SQL expression holding the JSON document at this level.
func (c *Compiler) flatten(schemaName string, fields []schema.Field, prefix []string, source string) ([]Column, []childRef, error) {
	columns := make([]Column, 0, len(fields))
	children := make([]childRef, 0)

	for _, f := range fields {
		path := appendPath(prefix, f.Name)

		switch f.Type {
		case schema.MAP:
			// An empty map legally contributes zero columns.
			nested, nestedChildren, err := c.flatten(schemaName, f.Fields, path, source)
			if err != nil {
				return nil, nil, err
			}
			columns = append(columns, nested...)
			children = append(children, nestedChildren...)

		case schema.ARRAY:
			children = append(children, childRef{Path: path, Element: *f.Element})

		default:
			rules, err := c.resolver.Resolve(schemaName, dottedPath(path), f.Type)
			if err != nil {
				return nil, nil, err
			}
			for _, rule := range rules {
				columnPath := append(append([]string{}, path...), rule.NameSuffix...)
				columns = append(columns, Column{
					QualifiedName: dottedPath(columnPath),
					Expr:          rule.Expr(source, columnPath),
					SQLType:       rule.SQLType,
				})
			}
		}
	}

	return columns, children, nil
}

func appendPath(prefix []string, name string) []string {
	path := make([]string, 0, len(prefix)+1)
	path = append(path, prefix...)
	return append(path, name)
}

func dottedPath(path []string) string {
	return strings.Join(path, ".")
}
