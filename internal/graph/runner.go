package graph

import (
	"context"

	"github.com/edusphere/edusphere-backend/internal/platform/neo4jdb"
)

// Runner is the minimal cypher surface the graph layer needs. The
// production implementation is *neo4jdb.Client; tests substitute a fake.
type Runner interface {
	ReadRows(ctx context.Context, cypher string, params map[string]any) ([]map[string]any, error)
	WriteRows(ctx context.Context, cypher string, params map[string]any) error
}

var _ Runner = (*neo4jdb.Client)(nil)
