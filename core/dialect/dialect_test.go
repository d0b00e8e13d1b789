package dialect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rit3sh-x/fireview/core/schema"
)

func TestByName(t *testing.T) {
	d, err := ByName("bigquery", "proj", "ds")
	require.NoError(t, err)
	assert.Equal(t, "bigquery", d.Name())

	d, err = ByName("postgres", "", "public")
	require.NoError(t, err)
	assert.Equal(t, "postgres", d.Name())

	_, err = ByName("oracle", "", "")
	assert.Error(t, err)
}

func TestBigQueryExpressions(t *testing.T) {
	bq := NewBigQuery("proj", "ds")

	assert.Equal(t, "`proj.ds.users_raw_changelog`", bq.TableRef("users_raw_changelog"))
	assert.Equal(t, "address_city", bq.ColumnAlias("address.city"))

	assert.Equal(t,
		"JSON_EXTRACT_SCALAR(data, '$.address.city')",
		bq.ExtractString("data", []string{"address", "city"}))
	assert.Equal(t,
		"SAFE_CAST(JSON_EXTRACT_SCALAR(data, '$.score') AS FLOAT64)",
		bq.ExtractNumber("data", []string{"score"}))
	assert.Equal(t,
		"SAFE_CAST(JSON_EXTRACT_SCALAR(data, '$.active') AS BOOL)",
		bq.ExtractBoolean("data", []string{"active"}))
	assert.Equal(t,
		"JSON_EXTRACT(data, '$.settings')",
		bq.ExtractStringifiedMap("data", []string{"settings"}))
	assert.Equal(t, "CAST(NULL AS STRING)", bq.NullString())

	// Extraction against an unnested element uses the root path.
	assert.Equal(t,
		"JSON_EXTRACT_SCALAR(tags_member, '$')",
		bq.ExtractString("tags_member", nil))

	ts := bq.ExtractTimestamp("data", []string{"last_seen"})
	assert.Contains(t, ts, "SAFE.PARSE_TIMESTAMP")
	assert.Contains(t, ts, "TIMESTAMP_MILLIS")
}

func TestBigQueryUnnestAndDDL(t *testing.T) {
	bq := NewBigQuery("proj", "ds")

	assert.Equal(t,
		"CROSS JOIN UNNEST(JSON_EXTRACT_ARRAY(data, '$.friends')) AS friends_member WITH OFFSET AS friends_offset",
		bq.UnnestArray("data", []string{"friends"}, "friends_member", "friends_offset"))

	ddl := bq.CreateOrReplaceView("v", "SELECT 1")
	assert.Equal(t, "CREATE OR REPLACE VIEW `proj.ds.v` AS\nSELECT 1", ddl)
}

func TestBigQuerySQLTypes(t *testing.T) {
	bq := NewBigQuery("proj", "ds")

	for ft, want := range map[schema.FieldType]string{
		schema.STRING:          "STRING",
		schema.REFERENCE:       "STRING",
		schema.NULL:            "STRING",
		schema.STRINGIFIED_MAP: "STRING",
		schema.NUMBER:          "FLOAT64",
		schema.GEOPOINT:        "FLOAT64",
		schema.BOOLEAN:         "BOOL",
		schema.TIMESTAMP:       "TIMESTAMP",
	} {
		got, err := bq.SQLType(ft)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := bq.SQLType(schema.MAP)
	assert.Error(t, err)
	_, err = bq.SQLType(schema.ARRAY)
	assert.Error(t, err)
}

func TestPostgresExpressions(t *testing.T) {
	pg := NewPostgres("public")

	assert.Equal(t, `"public"."users_raw_changelog"`, pg.TableRef("users_raw_changelog"))
	assert.Equal(t, "address_city", pg.ColumnAlias("address.city"))

	assert.Equal(t,
		"(data #>> '{address,city}')",
		pg.ExtractString("data", []string{"address", "city"}))
	assert.Equal(t,
		"(data #>> '{score}')::double precision",
		pg.ExtractNumber("data", []string{"score"}))
	assert.Equal(t,
		"(data #>> '{active}')::boolean",
		pg.ExtractBoolean("data", []string{"active"}))
	assert.Equal(t,
		"(data #> '{settings}')::text",
		pg.ExtractStringifiedMap("data", []string{"settings"}))
	assert.Equal(t, "NULL::text", pg.NullString())

	ts := pg.ExtractTimestamp("data", []string{"last_seen"})
	assert.Contains(t, ts, "to_timestamp")
	assert.Contains(t, ts, "::timestamptz")
}

func TestPostgresUnnestAndDDL(t *testing.T) {
	pg := NewPostgres("public")

	assert.Equal(t,
		"CROSS JOIN LATERAL jsonb_array_elements(data #> '{friends}') WITH ORDINALITY AS unnest_friends_member(friends_member, friends_offset)",
		pg.UnnestArray("data", []string{"friends"}, "friends_member", "friends_offset"))

	ddl := pg.CreateOrReplaceView("v", "SELECT 1")
	assert.Equal(t, "CREATE OR REPLACE VIEW \"public\".\"v\" AS\nSELECT 1", ddl)
}
