package network

import (
	"sort"

	"github.com/strainnet/portal/backend/pkg/common"
)

// EnrichWithOrthologs joins a fetched node/edge set with ortholog
// relationships keyed by locus tag.
//
// Every network node is tagged with its ortholog count. When show is false
// that is all that happens. When show is true, relationships whose partner
// is itself a network node become ortholog-typed edges between the two
// existing nodes; partners outside the network become synthesized
// ortholog-typed nodes, capped per source node, with orphan partners
// dropped.
func (c *NetworkClient) EnrichWithOrthologs(
	data common.NetworkData,
	orthologs map[string][]common.OrthologRelationship,
	show bool,
) common.NetworkData {
	nodes := make([]common.Node, len(data.Nodes))
	copy(nodes, data.Nodes)

	nodeByLocus := make(map[string]string, len(nodes))
	for i := range nodes {
		rels := orthologs[nodes[i].LocusTag]
		nodes[i].OrthologCount = len(rels)
		nodes[i].HasOrthologs = len(rels) > 0
		if nodes[i].Type == common.NodeTypePPI && nodes[i].LocusTag != "" {
			nodeByLocus[nodes[i].LocusTag] = nodes[i].ID
		}
	}

	if !show {
		return common.NetworkData{Nodes: nodes, Edges: data.Edges, Properties: data.Properties}
	}

	edges := make([]common.Edge, len(data.Edges))
	copy(edges, data.Edges)
	edgeSeen := make(map[string]struct{}, len(edges))
	for _, e := range edges {
		edgeSeen[common.EdgeKey(e.Source, e.Target)] = struct{}{}
	}

	// How many distinct source loci reference each external partner.
	// Shared partners rank above private ones when the cap applies.
	sharedBy := make(map[string]int)
	for locus, rels := range orthologs {
		if _, ok := nodeByLocus[locus]; !ok {
			continue
		}
		seen := make(map[string]struct{})
		for _, rel := range rels {
			if _, internal := nodeByLocus[rel.OrthologTag]; internal {
				continue
			}
			if _, dup := seen[rel.OrthologTag]; dup {
				continue
			}
			seen[rel.OrthologTag] = struct{}{}
			sharedBy[rel.OrthologTag]++
		}
	}

	synthesized := make(map[string]common.Node)

	sourceIDs := make([]string, 0, len(nodes))
	sourceByID := make(map[string]common.Node, len(nodes))
	for _, n := range nodes {
		if n.Type != common.NodeTypePPI || n.LocusTag == "" {
			continue
		}
		sourceIDs = append(sourceIDs, n.ID)
		sourceByID[n.ID] = n
	}
	sort.Strings(sourceIDs)

	for _, sourceID := range sourceIDs {
		source := sourceByID[sourceID]
		rels := orthologs[source.LocusTag]
		if len(rels) == 0 {
			continue
		}

		var external []common.OrthologRelationship
		for _, rel := range rels {
			partnerID, internal := nodeByLocus[rel.OrthologTag]
			if internal {
				if partnerID == source.ID {
					continue
				}
				key := common.EdgeKey(source.ID, partnerID)
				if _, dup := edgeSeen[key]; dup {
					continue
				}
				edgeSeen[key] = struct{}{}
				edges = append(edges, common.Edge{
					Source:         source.ID,
					Target:         partnerID,
					Weight:         rel.Confidence,
					Type:           common.EdgeTypeOrtholog,
					OrthologType:   rel.OrthologType,
					ExpansionLevel: source.ExpansionLevel,
				})
				continue
			}
			external = append(external, rel)
		}

		rankPartners(external, sharedBy)
		kept := 0
		seen := make(map[string]struct{})
		for _, rel := range external {
			if _, dup := seen[rel.OrthologTag]; dup {
				continue
			}
			seen[rel.OrthologTag] = struct{}{}
			if kept >= c.orthologPartnerCap {
				break
			}
			kept++

			if _, ok := synthesized[rel.OrthologTag]; !ok {
				synthesized[rel.OrthologTag] = common.Node{
					ID:             rel.OrthologTag,
					Label:          rel.OrthologTag,
					LocusTag:       rel.OrthologTag,
					Type:           common.NodeTypeOrtholog,
					ExpansionLevel: source.ExpansionLevel,
					Attrs: map[string]string{
						"species": rel.OrthologSpecies,
					},
				}
			}

			key := common.EdgeKey(source.ID, rel.OrthologTag)
			if _, dup := edgeSeen[key]; dup {
				continue
			}
			edgeSeen[key] = struct{}{}
			edges = append(edges, common.Edge{
				Source:         source.ID,
				Target:         rel.OrthologTag,
				Weight:         rel.Confidence,
				Type:           common.EdgeTypeOrtholog,
				OrthologType:   rel.OrthologType,
				ExpansionLevel: source.ExpansionLevel,
			})
		}
	}

	// Drop synthesized partners that ended up with no edges.
	connected := make(map[string]struct{})
	for _, e := range edges {
		connected[e.Source] = struct{}{}
		connected[e.Target] = struct{}{}
	}

	synthIDs := make([]string, 0, len(synthesized))
	for id := range synthesized {
		if _, ok := connected[id]; ok {
			synthIDs = append(synthIDs, id)
		}
	}
	sort.Strings(synthIDs)
	for _, id := range synthIDs {
		nodes = append(nodes, synthesized[id])
	}

	return common.NetworkData{Nodes: nodes, Edges: edges, Properties: data.Properties}
}

// rankPartners orders external ortholog candidates: partners shared by more
// source nodes first, then 1:1 orthology, then higher confidence, with the
// tag as the final deterministic tiebreaker.
func rankPartners(rels []common.OrthologRelationship, sharedBy map[string]int) {
	sort.SliceStable(rels, func(i, j int) bool {
		si, sj := sharedBy[rels[i].OrthologTag], sharedBy[rels[j].OrthologTag]
		if si != sj {
			return si > sj
		}
		oi, oj := rels[i].OrthologType == "1:1", rels[j].OrthologType == "1:1"
		if oi != oj {
			return oi
		}
		if rels[i].Confidence != rels[j].Confidence {
			return rels[i].Confidence > rels[j].Confidence
		}
		return rels[i].OrthologTag < rels[j].OrthologTag
	})
}
