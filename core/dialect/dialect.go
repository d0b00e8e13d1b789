package dialect

import (
	"fmt"

	"github.com/rit3sh-x/fireview/core/schema"
)

// Dialect abstracts the SQL surface that differs between target engines:
// identifier quoting, JSON extraction syntax, array decomposition and the
// view DDL form. Everything above it assembles dialect-neutral query shapes.
type Dialect interface {
	Name() string

	// QuoteIdent quotes a bare column or alias identifier.
	QuoteIdent(name string) string
	// TableRef returns the fully-qualified reference to a table or view in
	// the target dataset.
	TableRef(name string) string
	// ColumnAlias converts a dotted field path into a legal column alias.
	ColumnAlias(qualifiedName string) string

	// SQLType returns the target column type for a scalar field type. NUMBER
	// inside a GEOPOINT pair uses the same mapping as NUMBER.
	SQLType(ft schema.FieldType) (string, error)

	ExtractString(source string, path []string) string
	ExtractNumber(source string, path []string) string
	ExtractBoolean(source string, path []string) string
	ExtractTimestamp(source string, path []string) string
	ExtractStringifiedMap(source string, path []string) string
	NullString() string

	// UnnestArray returns a join clause decomposing the JSON array at path
	// under source into one row per element, binding elementAlias to the raw
	// element and ordinalAlias to its position.
	UnnestArray(source string, path []string, elementAlias, ordinalAlias string) string

	// CreateOrReplaceView wraps a SELECT into the idempotent view DDL.
	CreateOrReplaceView(viewName, query string) string
}

// ByName returns the dialect for a configured name.
func ByName(name, projectID, datasetID string) (Dialect, error) {
	switch name {
	case "bigquery", "":
		return NewBigQuery(projectID, datasetID), nil
	case "postgres":
		return NewPostgres(datasetID), nil
	default:
		return nil, fmt.Errorf("unknown dialect %q", name)
	}
}
