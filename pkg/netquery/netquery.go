package netquery

import (
	"context"

	"github.com/strainnet/portal/backend/pkg/common"
)

// NeighborhoodRequest describes one network fetch. MinScore is an inclusive
// lower bound on the evidence score for the named scoring metric. When
// LocusTag is set, results are restricted to interactions touching that
// locus. Lightweight requests are used for the global overview and must be
// capped with MaxResults to bound response size.
type NeighborhoodRequest struct {
	ScoreType   string
	MinScore    float64
	Species     string
	LocusTag    string
	Lightweight bool
	MaxResults  int
}

// NetworkQueryService fetches interaction network data. Implementations
// back it with the interaction database; the network core only depends on
// this interface.
type NetworkQueryService interface {
	GetNeighborhood(ctx context.Context, req NeighborhoodRequest) (common.NetworkData, error)
}

// OrthologLookupService resolves ortholog relationships for a batch of
// locus tags. A tag with no data maps to an empty list rather than failing
// the whole batch.
type OrthologLookupService interface {
	GetBatch(ctx context.Context, locusTags []string, speciesFilter string) (map[string][]common.OrthologRelationship, error)
}
