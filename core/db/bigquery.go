package db

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/rit3sh-x/fireview/core/compiler"
)

// BigQueryViewManager installs views through the BigQuery table API. A view
// is created when absent and its query replaced when present; a name that is
// taken by a non-view resource is reported as a collision, never overwritten.
type BigQueryViewManager struct {
	client  *bigquery.Client
	dataset *bigquery.Dataset
}

func NewBigQueryViewManager(ctx context.Context, projectID, datasetID, credentialsFile string) (*BigQueryViewManager, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := bigquery.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create BigQuery client: %v", err)
	}

	return &BigQueryViewManager{
		client:  client,
		dataset: client.Dataset(datasetID),
	}, nil
}

func (m *BigQueryViewManager) EnsureView(ctx context.Context, view compiler.ViewDefinition) error {
	table := m.dataset.Table(view.Name)

	md, err := table.Metadata(ctx)
	if isNotFound(err) {
		if err := table.Create(ctx, &bigquery.TableMetadata{
			Name:      view.Name,
			ViewQuery: view.Query,
		}); err != nil {
			return fmt.Errorf("failed to create view %q: %v", view.Name, err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read metadata for %q: %v", view.Name, err)
	}

	if md.Type != bigquery.ViewTable {
		return fmt.Errorf("resource %q already exists and is a %s, not a view", view.Name, md.Type)
	}

	if _, err := table.Update(ctx, bigquery.TableMetadataToUpdate{ViewQuery: view.Query}, md.ETag); err != nil {
		return fmt.Errorf("failed to update view %q: %v", view.Name, err)
	}

	return nil
}

func (m *BigQueryViewManager) DeleteView(ctx context.Context, name string) error {
	err := m.dataset.Table(name).Delete(ctx)
	if err != nil && !isNotFound(err) {
		return fmt.Errorf("failed to delete view %q: %v", name, err)
	}
	return nil
}

func (m *BigQueryViewManager) ListViews(ctx context.Context) ([]string, error) {
	it := m.dataset.Tables(ctx)
	views := make([]string, 0)

	for {
		table, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list tables: %v", err)
		}

		md, err := table.Metadata(ctx)
		if err != nil {
			continue // skip tables we cannot read
		}
		if md.Type == bigquery.ViewTable {
			views = append(views, table.TableID)
		}
	}

	return views, nil
}

func (m *BigQueryViewManager) Close() error {
	return m.client.Close()
}

func isNotFound(err error) bool {
	var apiErr *googleapi.Error
	return errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound
}
