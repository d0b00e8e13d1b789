package constants

const (
	PROJECT_DIR        = "fireview"
	SCHEMA_DIR         = PROJECT_DIR + "/schemas"
	SAMPLE_SCHEMA_FILE = SCHEMA_DIR + "/example.json"
	SCHEMA_GLOB        = SCHEMA_DIR + "/*.json"

	DATABASE_URI_ENV = "DATABASE_URI"
	DB_MAX_CONNS_ENV = "DB_MAX_CONNS"
	DB_MIN_CONNS_ENV = "DB_MIN_CONNS"

	TEST_QUERY = "SELECT 1"
)

const (
	RED    = "\033[31m"
	GREEN  = "\033[32m"
	YELLOW = "\033[33m"
	BLUE   = "\033[34m"
	CYAN   = "\033[36m"
	RESET  = "\033[0m"
)

// Changelog column names. The ingestion pipeline owns this layout; every
// generated view reads exactly these columns.
const (
	COL_DOCUMENT_NAME = "document_name"
	COL_DOCUMENT_ID   = "document_id"
	COL_TIMESTAMP     = "timestamp"
	COL_SEQUENCE      = "sequence_number"
	COL_OPERATION     = "operation"
	COL_DATA          = "data"
)

type Operation string

const (
	OP_IMPORT Operation = "IMPORT"
	OP_CREATE Operation = "CREATE"
	OP_UPDATE Operation = "UPDATE"
	OP_DELETE Operation = "DELETE"
)

func (op Operation) String() string {
	return string(op)
}

// ChangelogTableName derives the default raw changelog table for a prefix.
func ChangelogTableName(tablePrefix string) string {
	return tablePrefix + "_raw_changelog"
}

// SnapshotViewName names the latest-snapshot view for a schema. The name is a
// pure function of its inputs so re-runs always target the same resource.
func SnapshotViewName(tablePrefix, schemaName string) string {
	return tablePrefix + "_schema_" + schemaName + "_raw_latest"
}

// TypedViewName names the typed view for a schema (top-level or child).
func TypedViewName(tablePrefix, schemaName string) string {
	return tablePrefix + "_schema_" + schemaName + "_latest"
}
