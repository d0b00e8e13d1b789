package dialect

import (
	"fmt"
	"strings"

	"github.com/rit3sh-x/fireview/core/schema"
)

// BigQuery emits GoogleSQL. Extraction uses JSON_EXTRACT_SCALAR over the raw
// data column with SAFE_CAST so that malformed payloads surface as NULL
// instead of failing the whole query.
type BigQuery struct {
	projectID string
	datasetID string
}

func NewBigQuery(projectID, datasetID string) *BigQuery {
	return &BigQuery{projectID: projectID, datasetID: datasetID}
}

func (bq *BigQuery) Name() string {
	return "bigquery"
}

func (bq *BigQuery) QuoteIdent(name string) string {
	return "`" + name + "`"
}

func (bq *BigQuery) TableRef(name string) string {
	return fmt.Sprintf("`%s.%s.%s`", bq.projectID, bq.datasetID, name)
}

func (bq *BigQuery) ColumnAlias(qualifiedName string) string {
	return strings.ReplaceAll(qualifiedName, ".", "_")
}

func (bq *BigQuery) SQLType(ft schema.FieldType) (string, error) {
	switch ft {
	case schema.STRING, schema.REFERENCE, schema.NULL, schema.STRINGIFIED_MAP:
		return "STRING", nil
	case schema.NUMBER, schema.GEOPOINT:
		return "FLOAT64", nil
	case schema.BOOLEAN:
		return "BOOL", nil
	case schema.TIMESTAMP:
		return "TIMESTAMP", nil
	default:
		return "", fmt.Errorf("no BigQuery column type for field type %q", ft)
	}
}

func (bq *BigQuery) jsonPath(path []string) string {
	if len(path) == 0 {
		return "'$'"
	}
	return "'$." + strings.Join(path, ".") + "'"
}

func (bq *BigQuery) ExtractString(source string, path []string) string {
	return fmt.Sprintf("JSON_EXTRACT_SCALAR(%s, %s)", source, bq.jsonPath(path))
}

func (bq *BigQuery) ExtractNumber(source string, path []string) string {
	return fmt.Sprintf("SAFE_CAST(JSON_EXTRACT_SCALAR(%s, %s) AS FLOAT64)", source, bq.jsonPath(path))
}

func (bq *BigQuery) ExtractBoolean(source string, path []string) string {
	return fmt.Sprintf("SAFE_CAST(JSON_EXTRACT_SCALAR(%s, %s) AS BOOL)", source, bq.jsonPath(path))
}

// ExtractTimestamp accepts either an ISO-8601 string or epoch milliseconds at
// the field path.
func (bq *BigQuery) ExtractTimestamp(source string, path []string) string {
	scalar := bq.ExtractString(source, path)
	return fmt.Sprintf(
		"COALESCE(SAFE.PARSE_TIMESTAMP('%%Y-%%m-%%dT%%H:%%M:%%E*SZ', %s), TIMESTAMP_MILLIS(SAFE_CAST(%s AS INT64)))",
		scalar, scalar)
}

func (bq *BigQuery) ExtractStringifiedMap(source string, path []string) string {
	return fmt.Sprintf("JSON_EXTRACT(%s, %s)", source, bq.jsonPath(path))
}

func (bq *BigQuery) NullString() string {
	return "CAST(NULL AS STRING)"
}

func (bq *BigQuery) UnnestArray(source string, path []string, elementAlias, ordinalAlias string) string {
	return fmt.Sprintf("CROSS JOIN UNNEST(JSON_EXTRACT_ARRAY(%s, %s)) AS %s WITH OFFSET AS %s",
		source, bq.jsonPath(path), elementAlias, ordinalAlias)
}

func (bq *BigQuery) CreateOrReplaceView(viewName, query string) string {
	return fmt.Sprintf("CREATE OR REPLACE VIEW %s AS\n%s", bq.TableRef(viewName), query)
}
