package dialect

import (
	"fmt"
	"strings"

	"github.com/rit3sh-x/fireview/core/schema"
)

// Postgres emits SQL against a changelog mirrored into a jsonb column. The
// BigQuery dataset maps to a Postgres schema.
type Postgres struct {
	schemaName string
}

func NewPostgres(schemaName string) *Postgres {
	return &Postgres{schemaName: schemaName}
}

func (pg *Postgres) Name() string {
	return "postgres"
}

func (pg *Postgres) QuoteIdent(name string) string {
	return `"` + name + `"`
}

func (pg *Postgres) TableRef(name string) string {
	return fmt.Sprintf(`"%s"."%s"`, pg.schemaName, name)
}

func (pg *Postgres) ColumnAlias(qualifiedName string) string {
	return strings.ReplaceAll(qualifiedName, ".", "_")
}

func (pg *Postgres) SQLType(ft schema.FieldType) (string, error) {
	switch ft {
	case schema.STRING, schema.REFERENCE, schema.NULL, schema.STRINGIFIED_MAP:
		return "text", nil
	case schema.NUMBER, schema.GEOPOINT:
		return "double precision", nil
	case schema.BOOLEAN:
		return "boolean", nil
	case schema.TIMESTAMP:
		return "timestamptz", nil
	default:
		return "", fmt.Errorf("no Postgres column type for field type %q", ft)
	}
}

func (pg *Postgres) textPath(path []string) string {
	return "'{" + strings.Join(path, ",") + "}'"
}

func (pg *Postgres) ExtractString(source string, path []string) string {
	return fmt.Sprintf("(%s #>> %s)", source, pg.textPath(path))
}

func (pg *Postgres) ExtractNumber(source string, path []string) string {
	return fmt.Sprintf("(%s #>> %s)::double precision", source, pg.textPath(path))
}

func (pg *Postgres) ExtractBoolean(source string, path []string) string {
	return fmt.Sprintf("(%s #>> %s)::boolean", source, pg.textPath(path))
}

// ExtractTimestamp accepts either an ISO-8601 string or epoch milliseconds at
// the field path.
func (pg *Postgres) ExtractTimestamp(source string, path []string) string {
	scalar := pg.ExtractString(source, path)
	return fmt.Sprintf(
		`CASE WHEN %s ~ '^-?\d+$' THEN to_timestamp(%s::bigint / 1000.0) ELSE %s::timestamptz END`,
		scalar, scalar, scalar)
}

func (pg *Postgres) ExtractStringifiedMap(source string, path []string) string {
	return fmt.Sprintf("(%s #> %s)::text", source, pg.textPath(path))
}

func (pg *Postgres) NullString() string {
	return "NULL::text"
}

func (pg *Postgres) UnnestArray(source string, path []string, elementAlias, ordinalAlias string) string {
	return fmt.Sprintf("CROSS JOIN LATERAL jsonb_array_elements(%s #> %s) WITH ORDINALITY AS %s(%s, %s)",
		source, pg.textPath(path), "unnest_"+elementAlias, elementAlias, ordinalAlias)
}

func (pg *Postgres) CreateOrReplaceView(viewName, query string) string {
	return fmt.Sprintf("CREATE OR REPLACE VIEW %s AS\n%s", pg.TableRef(viewName), query)
}
