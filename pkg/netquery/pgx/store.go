package pgx

import (
	"context"

	pgxv5 "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type pgxIConn interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, optionsAndArgs ...any) (pgxv5.Rows, error)
	QueryRow(ctx context.Context, sql string, optionsAndArgs ...any) pgxv5.Row
	Begin(ctx context.Context) (pgxv5.Tx, error)
}

// NetworkDBQuery implements the netquery.NetworkQueryService and
// netquery.OrthologLookupService interfaces against PostgreSQL. The
// interaction and ortholog tables are maintained by the data import
// pipeline; this type only reads them, except for the precomputed
// ortholog counts written by the worker.
type NetworkDBQuery struct {
	conn pgxIConn

	orthologChunk int
	maxParallel   int
}

type NetworkDBQueryOption func(*NetworkDBQuery)

// WithOrthologChunkSize overrides how many locus tags are resolved per
// batched ortholog query.
func WithOrthologChunkSize(size int) NetworkDBQueryOption {
	return func(q *NetworkDBQuery) {
		if size > 0 {
			q.orthologChunk = size
		}
	}
}

// NewNetworkDBQuery creates a query client using an existing database
// connection or pool.
func NewNetworkDBQuery(conn pgxIConn, opts ...NetworkDBQueryOption) *NetworkDBQuery {
	q := &NetworkDBQuery{
		conn:          conn,
		orthologChunk: 200,
		maxParallel:   4,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(q)
	}
	return q
}
