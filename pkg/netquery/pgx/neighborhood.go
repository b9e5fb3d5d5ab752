package pgx

import (
	"context"
	"fmt"

	"github.com/strainnet/portal/backend/pkg/common"
	"github.com/strainnet/portal/backend/pkg/netquery"
)

const defaultLightweightCap = 2000

const neighborhoodQuery = `
SELECT i.locus_a, i.locus_b, i.score,
       pa.name, pa.product, pb.name, pb.product,
       COALESCE(ca.count, 0), COALESCE(cb.count, 0)
FROM interactions i
JOIN proteins pa ON pa.locus_tag = i.locus_a
JOIN proteins pb ON pb.locus_tag = i.locus_b
LEFT JOIN ortholog_counts ca ON ca.locus_tag = i.locus_a
LEFT JOIN ortholog_counts cb ON cb.locus_tag = i.locus_b
WHERE i.score_type = $1
  AND i.score >= $2
  AND ($3 = '' OR pa.species = $3)
  AND ($4 = '' OR i.locus_a = $4 OR i.locus_b = $4)
ORDER BY i.score DESC, i.locus_a, i.locus_b
LIMIT $5
`

// GetNeighborhood fetches interactions at or above the score threshold for
// the requested scoring metric. A locus filter restricts results to
// interactions touching that locus; lightweight requests are capped by
// MaxResults to bound the global-view payload.
func (q *NetworkDBQuery) GetNeighborhood(
	ctx context.Context,
	req netquery.NeighborhoodRequest,
) (common.NetworkData, error) {
	limit := req.MaxResults
	if !req.Lightweight {
		// Focused fetches are naturally bounded by the locus filter; the
		// cap here is just a backstop against degenerate hubs.
		limit = defaultLightweightCap
	}
	if limit <= 0 {
		limit = defaultLightweightCap
	}

	rows, err := q.conn.Query(ctx, neighborhoodQuery,
		req.ScoreType, req.MinScore, req.Species, req.LocusTag, limit)
	if err != nil {
		return common.NetworkData{}, fmt.Errorf("failed to query interactions: %w", err)
	}
	defer rows.Close()

	nodes := make(map[string]common.Node)
	var edges []common.Edge
	edgeSeen := make(map[string]struct{})

	for rows.Next() {
		var locusA, locusB string
		var score float64
		var nameA, productA, nameB, productB string
		var countA, countB int

		err := rows.Scan(&locusA, &locusB, &score,
			&nameA, &productA, &nameB, &productB, &countA, &countB)
		if err != nil {
			return common.NetworkData{}, fmt.Errorf("failed to scan interaction row: %w", err)
		}

		addProteinNode(nodes, locusA, nameA, productA, countA)
		addProteinNode(nodes, locusB, nameB, productB, countB)

		key := common.EdgeKey(locusA, locusB)
		if _, dup := edgeSeen[key]; dup {
			continue
		}
		edgeSeen[key] = struct{}{}
		edges = append(edges, common.Edge{
			Source: locusA,
			Target: locusB,
			Weight: score,
			Type:   common.EdgeTypePPI,
		})
	}
	if err := rows.Err(); err != nil {
		return common.NetworkData{}, fmt.Errorf("failed to read interaction rows: %w", err)
	}

	data := common.NetworkData{
		Nodes: make([]common.Node, 0, len(nodes)),
		Edges: edges,
		Properties: map[string]string{
			"score_type": req.ScoreType,
		},
	}
	for _, node := range nodes {
		data.Nodes = append(data.Nodes, node)
	}
	return data, nil
}

func addProteinNode(nodes map[string]common.Node, locus, name, product string, orthologCount int) {
	if _, ok := nodes[locus]; ok {
		return
	}
	label := name
	if label == "" {
		label = locus
	}
	nodes[locus] = common.Node{
		ID:            locus,
		Label:         label,
		LocusTag:      locus,
		Product:       product,
		Type:          common.NodeTypePPI,
		HasOrthologs:  orthologCount > 0,
		OrthologCount: orthologCount,
	}
}
