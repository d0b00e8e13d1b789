package factory

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rit3sh-x/fireview/core/compiler"
	"github.com/rit3sh-x/fireview/core/dialect"
	"github.com/rit3sh-x/fireview/core/schema"
)

type fakeManager struct {
	created []string
	deleted []string
	failOn  string
}

func (m *fakeManager) EnsureView(_ context.Context, view compiler.ViewDefinition) error {
	if view.Name == m.failOn {
		return fmt.Errorf("name collision on %s", view.Name)
	}
	m.created = append(m.created, view.Name)
	return nil
}

func (m *fakeManager) DeleteView(_ context.Context, name string) error {
	if name == m.failOn {
		return errors.New("permission denied")
	}
	m.deleted = append(m.deleted, name)
	return nil
}

func (m *fakeManager) ListViews(context.Context) ([]string, error) {
	return append([]string{}, m.created...), nil
}

func newTestFactory(m ViewManager) *Factory {
	c := compiler.New(dialect.NewBigQuery("proj", "ds"), "fs", "")
	return New(c, m, nil)
}

func userSchema() *schema.FirestoreSchema {
	return &schema.FirestoreSchema{Fields: []schema.Field{
		{Name: "name", Type: schema.STRING},
		{Name: "friends", Type: schema.ARRAY, Element: &schema.Field{
			Type:   schema.MAP,
			Fields: []schema.Field{{Name: "id", Type: schema.REFERENCE}},
		}},
	}}
}

func TestInstallCreatesInDependencyOrder(t *testing.T) {
	manager := &fakeManager{}
	f := newTestFactory(manager)

	results := f.Install(context.Background(), map[string]*schema.FirestoreSchema{
		"users": userSchema(),
	})

	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)

	assert.Equal(t, []string{
		"fs_schema_users_raw_latest",
		"fs_schema_users_latest",
		"fs_schema_users_friends_latest",
	}, manager.created)
	assert.Equal(t, manager.created, results[0].Views)
}

func TestInstallIsolatesSchemaFailures(t *testing.T) {
	manager := &fakeManager{failOn: "fs_schema_orders_latest"}
	f := newTestFactory(manager)

	results := f.Install(context.Background(), map[string]*schema.FirestoreSchema{
		"orders": {Fields: []schema.Field{{Name: "total", Type: schema.NUMBER}}},
		"users":  userSchema(),
	})

	require.Len(t, results, 2)

	// Schemas run in name order: orders first, then users.
	orders, users := results[0], results[1]
	assert.Equal(t, "orders", orders.Schema)
	require.Error(t, orders.Err)

	var verr *ViewCreationError
	require.ErrorAs(t, orders.Err, &verr)
	assert.Equal(t, "orders", verr.Schema)
	assert.Equal(t, "fs_schema_orders_latest", verr.View)
	assert.NotEmpty(t, verr.SQL)

	// The snapshot view created before the failure is left in place.
	assert.Equal(t, []string{"fs_schema_orders_raw_latest"}, orders.Views)

	// The other schema still installs fully.
	require.NoError(t, users.Err)
	assert.Len(t, users.Views, 3)
}

func TestInstallCompilationFailureCreatesNothing(t *testing.T) {
	manager := &fakeManager{}
	f := newTestFactory(manager)

	results := f.Install(context.Background(), map[string]*schema.FirestoreSchema{
		"bad":   {Fields: []schema.Field{{Name: "age", Type: schema.FieldType("int")}}},
		"users": userSchema(),
	})

	require.Len(t, results, 2)

	bad, users := results[0], results[1]
	require.Error(t, bad.Err)

	var uerr *compiler.UnsupportedFieldTypeError
	require.ErrorAs(t, bad.Err, &uerr)
	assert.Empty(t, bad.Views)

	require.NoError(t, users.Err)
	assert.Len(t, users.Views, 3)

	// No view of the failed schema reached the database.
	for _, name := range manager.created {
		assert.NotContains(t, name, "bad")
	}
}

func TestInstallRejectsViewNameCollision(t *testing.T) {
	manager := &fakeManager{}
	f := newTestFactory(manager)

	// The child view of users' friends array and the typed view of a schema
	// named users_friends both resolve to fs_schema_users_friends_latest.
	results := f.Install(context.Background(), map[string]*schema.FirestoreSchema{
		"users":         userSchema(),
		"users_friends": {Fields: []schema.Field{{Name: "note", Type: schema.STRING}}},
	})

	require.Len(t, results, 2)

	users, collided := results[0], results[1]
	require.NoError(t, users.Err)
	assert.Len(t, users.Views, 3)

	assert.Equal(t, "users_friends", collided.Schema)
	require.Error(t, collided.Err)
	assert.Contains(t, collided.Err.Error(), "fs_schema_users_friends_latest")
	assert.Contains(t, collided.Err.Error(), `collides`)
	assert.Empty(t, collided.Views)

	// The colliding schema never reached the database, not even with its
	// non-colliding snapshot view.
	assert.NotContains(t, manager.created, "fs_schema_users_friends_raw_latest")
	assert.Len(t, manager.created, 3)
}

func TestInstallZeroSchemas(t *testing.T) {
	manager := &fakeManager{}
	f := newTestFactory(manager)

	results := f.Install(context.Background(), map[string]*schema.FirestoreSchema{})
	assert.Empty(t, results)
	assert.Empty(t, manager.created)
}

func TestDropDeletesDependentsFirst(t *testing.T) {
	manager := &fakeManager{}
	f := newTestFactory(manager)

	results := f.Drop(context.Background(), map[string]*schema.FirestoreSchema{
		"users": userSchema(),
	})

	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)

	assert.Equal(t, []string{
		"fs_schema_users_friends_latest",
		"fs_schema_users_latest",
		"fs_schema_users_raw_latest",
	}, manager.deleted)
}

func TestDropReportsFailure(t *testing.T) {
	manager := &fakeManager{failOn: "fs_schema_users_latest"}
	f := newTestFactory(manager)

	results := f.Drop(context.Background(), map[string]*schema.FirestoreSchema{
		"users": userSchema(),
	})

	require.Len(t, results, 1)
	require.Error(t, results[0].Err)
	assert.Equal(t, []string{"fs_schema_users_friends_latest"}, results[0].Views)
}
