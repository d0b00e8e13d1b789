package compiler

import (
	"fmt"

	"github.com/rit3sh-x/fireview/core/dialect"
	"github.com/rit3sh-x/fireview/core/schema"
)

// UnsupportedFieldTypeError aborts compilation of the schema that declared a
// field type with no resolution rule. Path is the dotted field path.
type UnsupportedFieldTypeError struct {
	Schema string
	Path   string
	Type   schema.FieldType
}

func (e *UnsupportedFieldTypeError) Error() string {
	return fmt.Sprintf("schema %q: field %q: unsupported field type %q", e.Schema, e.Path, e.Type)
}

// ColumnRule describes one column derived from a scalar field. NameSuffix is
// appended to the field's qualified name and JSON path; most types produce a
// single rule with no suffix, GEOPOINT produces a latitude/longitude pair.
type ColumnRule struct {
	NameSuffix []string
	SQLType    string
	Expr       func(source string, path []string) string
}

// Resolver maps scalar field types to extraction rules for one dialect.
type Resolver struct {
	dialect dialect.Dialect
}

func NewResolver(d dialect.Dialect) *Resolver {
	return &Resolver{dialect: d}
}

// Resolve returns the column rules for a scalar field type. MAP and ARRAY are
// structural and never resolve here; the flattener routes them before asking.
// Unknown variants fail the whole schema's compilation.
func (r *Resolver) Resolve(schemaName, fieldPath string, ft schema.FieldType) ([]ColumnRule, error) {
	sqlType, err := r.dialect.SQLType(ft)
	if err != nil {
		return nil, &UnsupportedFieldTypeError{Schema: schemaName, Path: fieldPath, Type: ft}
	}

	switch ft {
	case schema.STRING, schema.REFERENCE:
		return []ColumnRule{{SQLType: sqlType, Expr: r.dialect.ExtractString}}, nil
	case schema.NUMBER:
		return []ColumnRule{{SQLType: sqlType, Expr: r.dialect.ExtractNumber}}, nil
	case schema.BOOLEAN:
		return []ColumnRule{{SQLType: sqlType, Expr: r.dialect.ExtractBoolean}}, nil
	case schema.TIMESTAMP:
		return []ColumnRule{{SQLType: sqlType, Expr: r.dialect.ExtractTimestamp}}, nil
	case schema.GEOPOINT:
		return []ColumnRule{
			{NameSuffix: []string{"latitude"}, SQLType: sqlType, Expr: r.dialect.ExtractNumber},
			{NameSuffix: []string{"longitude"}, SQLType: sqlType, Expr: r.dialect.ExtractNumber},
		}, nil
	case schema.STRINGIFIED_MAP:
		return []ColumnRule{{SQLType: sqlType, Expr: r.dialect.ExtractStringifiedMap}}, nil
	case schema.NULL:
		nullExpr := func(string, []string) string { return r.dialect.NullString() }
		return []ColumnRule{{SQLType: sqlType, Expr: nullExpr}}, nil
	default:
		return nil, &UnsupportedFieldTypeError{Schema: schemaName, Path: fieldPath, Type: ft}
	}
}
