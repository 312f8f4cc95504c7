// Package store persists report runs: which extract was processed, with what
// parameters, and the resulting tables. SQLite is the default backend;
// Postgres is available for shared deployments.
package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"
)

// Run is one persisted report invocation.
type Run struct {
	ID     string `json:"id"`
	Kind   string `json:"kind"`   // aggregate, compare, rollup, summary
	Source string `json:"source"` // input file(s), comma-separated
	// Params is the JSON-encoded request: group-by fields, measure, join
	// mode, and the rest of the knobs that shaped the result.
	Params json.RawMessage `json:"params"`
	// Tables is the JSON-encoded result tables.
	Tables        json.RawMessage `json:"tables"`
	CoercionCount int             `json:"coercion_count"`
	CreatedAt     time.Time       `json:"created_at"`
}

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Kind   string `json:"kind,omitempty"`
	Source string `json:"source,omitempty"`
	Limit  int    `json:"limit,omitempty"`
	Offset int    `json:"offset,omitempty"`
}

// Store defines the persistence interface for report runs.
type Store interface {
	CreateRun(ctx context.Context, run *Run) (*Run, error)
	GetRun(ctx context.Context, id string) (*Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]Run, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// Open creates a store for the configured driver.
func Open(ctx context.Context, driver, databaseURL string) (Store, error) {
	switch driver {
	case "sqlite":
		return NewSQLite(databaseURL)
	case "postgres":
		return NewPostgres(ctx, databaseURL)
	default:
		return nil, eris.Errorf("store: unknown driver %q", driver)
	}
}
