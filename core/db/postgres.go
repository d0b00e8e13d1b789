package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rit3sh-x/fireview/core/compiler"
)

// PostgresViewManager installs views by executing the compiled DDL against a
// Postgres schema (the dataset equivalent).
type PostgresViewManager struct {
	pool       *pgxpool.Pool
	schemaName string
}

func NewPostgresViewManager(pool *pgxpool.Pool, schemaName string) *PostgresViewManager {
	return &PostgresViewManager{pool: pool, schemaName: schemaName}
}

func (m *PostgresViewManager) EnsureView(ctx context.Context, view compiler.ViewDefinition) error {
	if _, err := m.pool.Exec(ctx, fmt.Sprintf(`CREATE SCHEMA IF NOT EXISTS "%s"`, m.schemaName)); err != nil {
		return fmt.Errorf("failed to ensure schema %q: %v", m.schemaName, err)
	}

	if _, err := m.pool.Exec(ctx, view.DDL); err != nil {
		return fmt.Errorf("failed to create view %q: %v", view.Name, err)
	}

	return nil
}

func (m *PostgresViewManager) DeleteView(ctx context.Context, name string) error {
	stmt := fmt.Sprintf(`DROP VIEW IF EXISTS "%s"."%s" CASCADE`, m.schemaName, name)
	if _, err := m.pool.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("failed to drop view %q: %v", name, err)
	}
	return nil
}

func (m *PostgresViewManager) ListViews(ctx context.Context) ([]string, error) {
	rows, err := m.pool.Query(ctx,
		`SELECT table_name FROM information_schema.views WHERE table_schema = $1 ORDER BY table_name`,
		m.schemaName)
	if err != nil {
		return nil, fmt.Errorf("failed to list views: %v", err)
	}
	defer rows.Close()

	views := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan view name: %v", err)
		}
		views = append(views, name)
	}

	return views, rows.Err()
}

func (m *PostgresViewManager) Close() error {
	m.pool.Close()
	return nil
}
