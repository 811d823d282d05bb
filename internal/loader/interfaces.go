package loader

import "context"

//go:generate mockgen -destination=mock_loader.go -package=loader snowloader/internal/loader TableClient

// TableClient creates records in a ServiceNow table
type TableClient interface {
	CreateRecord(ctx context.Context, table string, data map[string]any) (map[string]any, error)
}
