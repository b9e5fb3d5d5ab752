package pgx

import (
	"context"
	"fmt"

	"github.com/strainnet/portal/backend/pkg/common"
)

// GeneHit is one row of a gene search result.
type GeneHit struct {
	LocusTag string `json:"locus_tag"`
	Name     string `json:"name,omitempty"`
	Product  string `json:"product,omitempty"`
	Species  string `json:"species,omitempty"`
}

const geneSearchQuery = `
SELECT locus_tag, name, product, species
FROM proteins
WHERE ($2 = '' OR species = $2)
  AND (locus_tag ILIKE '%' || $1 || '%'
       OR name ILIKE '%' || $1 || '%'
       OR product ILIKE '%' || $1 || '%')
ORDER BY (locus_tag ILIKE $1 OR name ILIKE $1) DESC, locus_tag
LIMIT $3
`

// SearchGenes finds proteins whose locus tag, name or product matches the
// query, with exact matches ranked first.
func (q *NetworkDBQuery) SearchGenes(ctx context.Context, query, species string, limit int) ([]GeneHit, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := q.conn.Query(ctx, geneSearchQuery, query, species, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search genes: %w", err)
	}
	defer rows.Close()

	hits := make([]GeneHit, 0)
	for rows.Next() {
		var hit GeneHit
		if err := rows.Scan(&hit.LocusTag, &hit.Name, &hit.Product, &hit.Species); err != nil {
			return nil, fmt.Errorf("failed to scan gene row: %w", err)
		}
		hits = append(hits, hit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read gene rows: %w", err)
	}
	return hits, nil
}

// GetProtein returns the node record for a locus tag.
func (q *NetworkDBQuery) GetProtein(ctx context.Context, locusTag string) (common.Node, error) {
	var node common.Node
	var name string
	err := q.conn.QueryRow(ctx,
		`SELECT locus_tag, name, product,
		        (SELECT COALESCE(count, 0) FROM ortholog_counts WHERE locus_tag = proteins.locus_tag)
		 FROM proteins WHERE locus_tag = $1`,
		locusTag).Scan(&node.ID, &name, &node.Product, &node.OrthologCount)
	if err != nil {
		return common.Node{}, fmt.Errorf("failed to get protein %s: %w", locusTag, err)
	}

	node.LocusTag = node.ID
	node.Label = name
	if node.Label == "" {
		node.Label = node.ID
	}
	node.Type = common.NodeTypePPI
	node.HasOrthologs = node.OrthologCount > 0
	return node, nil
}
