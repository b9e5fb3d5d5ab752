package network

import (
	"github.com/strainnet/portal/backend/pkg/common"
)

// apply folds one path entry into the state in place. Expand and Rewind go
// through this single code path so that replaying a path prefix is
// guaranteed to rebuild identical state.
func (s *ExpansionState) apply(entry common.ExpansionPathNode) {
	level := entry.Level

	for _, node := range entry.Fetched.Nodes {
		if _, ok := s.Nodes[node.ID]; ok {
			// First discovery wins; a rediscovered node keeps its level.
			continue
		}
		node.ExpansionLevel = level
		s.Nodes[node.ID] = node
	}

	// The expansion root itself may not be part of the fetched payload.
	if _, ok := s.Nodes[entry.Node.ID]; !ok {
		root := entry.Node
		root.ExpansionLevel = level
		s.Nodes[root.ID] = root
	}

	for _, edge := range entry.Fetched.Edges {
		edge.ExpansionLevel = level
		s.mergeEdge(edge)
	}

	s.Path = append(s.Path, entry)
	s.CurrentLevel = level
	s.expandedLoci[entry.LocusTag] = struct{}{}
}

// mergeEdge inserts an edge keyed by its unordered endpoint pair. On
// conflict the edge from the lower expansion level wins; within the same
// level the higher weight wins. This keeps level coloring stable with the
// step at which a relationship was first seen.
func (s *ExpansionState) mergeEdge(edge common.Edge) {
	key := common.EdgeKey(edge.Source, edge.Target)

	idx, ok := s.edgeIndex[key]
	if !ok {
		s.edgeIndex[key] = len(s.Edges)
		s.Edges = append(s.Edges, edge)
		return
	}

	existing := s.Edges[idx]
	if edge.ExpansionLevel < existing.ExpansionLevel {
		s.Edges[idx] = edge
		return
	}
	if edge.ExpansionLevel == existing.ExpansionLevel && edge.Weight > existing.Weight {
		s.Edges[idx] = edge
	}
}
