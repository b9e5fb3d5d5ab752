package network

import (
	"time"

	"github.com/strainnet/portal/backend/pkg/common"
)

// ExpansionState is the single source of truth for what has been expanded
// and in what order. It owns the ordered expansion path, the cumulative
// node map and edge list, and the set of loci that were already used as
// expansion roots.
//
// States are immutable by convention: Expand and Rewind return a new state
// and never mutate their receiver, so callers can keep earlier snapshots
// for undo.
type ExpansionState struct {
	Path         []common.ExpansionPathNode
	CurrentLevel int
	Nodes        map[string]common.Node
	Edges        []common.Edge

	expandedLoci map[string]struct{}
	edgeIndex    map[string]int
}

// NewExpansionState returns an empty state: no path, no nodes, level 0.
func NewExpansionState() *ExpansionState {
	return &ExpansionState{
		Nodes:        make(map[string]common.Node),
		expandedLoci: make(map[string]struct{}),
		edgeIndex:    make(map[string]int),
	}
}

// Seed builds the level-0 state for a freshly focused node: the node itself
// plus its fetched neighborhood, with the seed as the first path entry.
func (c *NetworkClient) Seed(node common.Node, neighborhood common.NetworkData) *ExpansionState {
	s := NewExpansionState()
	s.apply(common.ExpansionPathNode{
		LocusTag:  node.LocusTag,
		NodeID:    node.ID,
		Node:      node,
		Fetched:   neighborhood,
		Timestamp: time.Now().UTC(),
		Level:     0,
	})
	return s
}

// IsExpanded reports whether the locus was already used as an expansion
// root. Re-expanding such a locus is an idempotent no-op.
func (s *ExpansionState) IsExpanded(locusTag string) bool {
	_, ok := s.expandedLoci[locusTag]
	return ok
}

// LevelOf returns the path level at which the node was an expansion root.
// This is distinct from the node's ExpansionLevel tag, which marks when it
// was discovered. The second return value is false if the node was never
// expanded.
func (s *ExpansionState) LevelOf(nodeID string) (int, bool) {
	for _, entry := range s.Path {
		if entry.NodeID == nodeID {
			return entry.Level, true
		}
	}
	return 0, false
}

// Expand folds one fetched neighborhood into the cumulative state at depth
// CurrentLevel+1 and appends the expansion root to the path. The input state
// is not mutated.
//
// Expanding an already-expanded locus returns the state unchanged with no
// error. Expanding at or beyond the depth bound returns ErrDepthExceeded
// with the state unchanged.
func (c *NetworkClient) Expand(
	state *ExpansionState,
	root common.Node,
	fetched common.NetworkData,
) (*ExpansionState, error) {
	if state.IsExpanded(root.LocusTag) {
		return state, nil
	}
	if !c.CanExpand(state.CurrentLevel) {
		return state, ErrDepthExceeded
	}

	next := state.clone()
	next.apply(common.ExpansionPathNode{
		LocusTag:  root.LocusTag,
		NodeID:    root.ID,
		Node:      root,
		Fetched:   fetched,
		Timestamp: time.Now().UTC(),
		Level:     state.CurrentLevel + 1,
	})

	return next, nil
}

func (s *ExpansionState) clone() *ExpansionState {
	next := &ExpansionState{
		Path:         make([]common.ExpansionPathNode, len(s.Path)),
		CurrentLevel: s.CurrentLevel,
		Nodes:        make(map[string]common.Node, len(s.Nodes)),
		Edges:        make([]common.Edge, len(s.Edges)),
		expandedLoci: make(map[string]struct{}, len(s.expandedLoci)),
		edgeIndex:    make(map[string]int, len(s.edgeIndex)),
	}
	copy(next.Path, s.Path)
	copy(next.Edges, s.Edges)
	for id, node := range s.Nodes {
		next.Nodes[id] = node
	}
	for locus := range s.expandedLoci {
		next.expandedLoci[locus] = struct{}{}
	}
	for key, idx := range s.edgeIndex {
		next.edgeIndex[key] = idx
	}
	return next
}
