package pgx

import (
	"context"
	"fmt"
	"sync"

	"github.com/strainnet/portal/backend/pkg/common"
	"github.com/strainnet/portal/backend/pkg/logger"

	"golang.org/x/sync/errgroup"
)

const orthologBatchQuery = `
SELECT locus_tag, ortholog_tag, species, ortholog_species, ortholog_type, confidence
FROM orthologs
WHERE locus_tag = ANY($1)
  AND ($2 = '' OR ortholog_species = $2)
ORDER BY locus_tag, confidence DESC, ortholog_tag
`

// GetBatch resolves ortholog relationships for a batch of locus tags,
// chunked and fanned out in parallel. A failed chunk degrades to empty
// lists for its tags instead of failing the whole batch; every requested
// tag is present in the result.
func (q *NetworkDBQuery) GetBatch(
	ctx context.Context,
	locusTags []string,
	speciesFilter string,
) (map[string][]common.OrthologRelationship, error) {
	out := make(map[string][]common.OrthologRelationship, len(locusTags))
	for _, tag := range locusTags {
		// Tags without data serialize as [] rather than null.
		out[tag] = []common.OrthologRelationship{}
	}
	if len(locusTags) == 0 {
		return out, nil
	}

	eg, gCtx := errgroup.WithContext(ctx)
	eg.SetLimit(q.maxParallel)
	mutex := sync.Mutex{}

	for start := 0; start < len(locusTags); start += q.orthologChunk {
		end := start + q.orthologChunk
		if end > len(locusTags) {
			end = len(locusTags)
		}
		chunk := locusTags[start:end]

		eg.Go(func() error {
			rels, err := q.queryOrthologChunk(gCtx, chunk, speciesFilter)
			if err != nil {
				// Partial failure: the chunk's tags keep their empty lists.
				logger.Warn("[Orthologs] Chunk lookup failed", "tags", len(chunk), "err", err)
				return nil
			}

			mutex.Lock()
			defer mutex.Unlock()
			for tag, tagRels := range rels {
				out[tag] = tagRels
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (q *NetworkDBQuery) queryOrthologChunk(
	ctx context.Context,
	locusTags []string,
	speciesFilter string,
) (map[string][]common.OrthologRelationship, error) {
	rows, err := q.conn.Query(ctx, orthologBatchQuery, locusTags, speciesFilter)
	if err != nil {
		return nil, fmt.Errorf("failed to query orthologs: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]common.OrthologRelationship)
	for rows.Next() {
		var rel common.OrthologRelationship
		err := rows.Scan(&rel.LocusTag, &rel.OrthologTag, &rel.Species,
			&rel.OrthologSpecies, &rel.OrthologType, &rel.Confidence)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ortholog row: %w", err)
		}
		out[rel.LocusTag] = append(out[rel.LocusTag], rel)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read ortholog rows: %w", err)
	}
	return out, nil
}

// ListSpeciesLoci returns all locus tags of a species, used by the worker
// to precompute ortholog counts.
func (q *NetworkDBQuery) ListSpeciesLoci(ctx context.Context, species string) ([]string, error) {
	rows, err := q.conn.Query(ctx,
		`SELECT locus_tag FROM proteins WHERE ($1 = '' OR species = $1) ORDER BY locus_tag`,
		species)
	if err != nil {
		return nil, fmt.Errorf("failed to query species loci: %w", err)
	}
	defer rows.Close()

	var loci []string
	for rows.Next() {
		var locus string
		if err := rows.Scan(&locus); err != nil {
			return nil, fmt.Errorf("failed to scan locus row: %w", err)
		}
		loci = append(loci, locus)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read locus rows: %w", err)
	}
	return loci, nil
}

// UpsertOrthologCounts writes precomputed ortholog counts in one
// transaction so the neighborhood query can serve nodes pre-tagged.
func (q *NetworkDBQuery) UpsertOrthologCounts(ctx context.Context, counts map[string]int) error {
	if len(counts) == 0 {
		return nil
	}

	tx, err := q.conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for locus, count := range counts {
		_, err := tx.Exec(ctx,
			`INSERT INTO ortholog_counts (locus_tag, count)
			 VALUES ($1, $2)
			 ON CONFLICT (locus_tag) DO UPDATE SET count = EXCLUDED.count, updated_at = now()`,
			locus, count)
		if err != nil {
			return fmt.Errorf("failed to upsert ortholog count for %s: %w", locus, err)
		}
	}

	return tx.Commit(ctx)
}
