package storage

import (
	"context"
	"fmt"

	"todo-api/config"
)

// Open builds the table selected by cfg.Backend and wraps it for tracing.
func Open(ctx context.Context, cfg config.Config) (Table, error) {
	switch cfg.Backend {
	case config.BackendDynamo:
		table, err := OpenDynamo(ctx, cfg.TableName, cfg.Region, cfg.Endpoint)
		if err != nil {
			return nil, err
		}
		return Traced(table, "dynamodb"), nil
	case config.BackendSQLite:
		table, err := OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return Traced(table, "sqlite"), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
