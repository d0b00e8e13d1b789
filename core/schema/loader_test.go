package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSchemaFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFromGlobs(t *testing.T) {
	dir := t.TempDir()
	writeSchemaFile(t, dir, "users.json", `{ "fields": [ { "name": "name", "type": "string" } ] }`)
	writeSchemaFile(t, dir, "orders.json", `{ "fields": [ { "name": "total", "type": "number" } ] }`)

	schemas, err := LoadFromGlobs([]string{filepath.Join(dir, "*.json")})
	require.NoError(t, err)
	require.Len(t, schemas, 2)

	assert.Contains(t, schemas, "users")
	assert.Contains(t, schemas, "orders")
	assert.Equal(t, "name", schemas["users"].Fields[0].Name)
}

func TestLoadFromGlobsNoMatches(t *testing.T) {
	dir := t.TempDir()

	schemas, err := LoadFromGlobs([]string{filepath.Join(dir, "*.json")})
	require.NoError(t, err)
	assert.Empty(t, schemas)
}

func TestLoadFromGlobsInvalidFile(t *testing.T) {
	dir := t.TempDir()
	writeSchemaFile(t, dir, "bad.json", `{ "fields": [ { "name": "a", "type": "int" } ] }`)

	_, err := LoadFromGlobs([]string{filepath.Join(dir, "*.json")})
	assert.Error(t, err)
}

func TestLoadFromFilesDuplicateSchemaName(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()
	pathA := writeSchemaFile(t, dirA, "users.json", `{ "fields": [] }`)
	pathB := writeSchemaFile(t, dirB, "users.json", `{ "fields": [] }`)

	_, err := LoadFromFiles([]string{pathA, pathB})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate schema name")
}

func TestExpandGlobsDeduplicates(t *testing.T) {
	dir := t.TempDir()
	path := writeSchemaFile(t, dir, "users.json", `{ "fields": [] }`)

	paths, err := ExpandGlobs([]string{filepath.Join(dir, "*.json"), path})
	require.NoError(t, err)
	assert.Equal(t, []string{path}, paths)
}

func TestSchemaName(t *testing.T) {
	assert.Equal(t, "users", SchemaName("fireview/schemas/users.json"))
	assert.Equal(t, "orders", SchemaName("orders.json"))
}
