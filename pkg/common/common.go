package common

import "time"

// NodeType distinguishes proteins that come from the interaction network
// from partners that were synthesized during ortholog enrichment.
type NodeType string

const (
	NodeTypePPI      NodeType = "ppi"
	NodeTypeOrtholog NodeType = "ortholog"
)

// EdgeType distinguishes protein-protein interactions from ortholog
// relationship edges.
type EdgeType string

const (
	EdgeTypePPI      EdgeType = "ppi"
	EdgeTypeOrtholog EdgeType = "ortholog"
)

// Node represents a protein in the interaction network. The ID is the stable
// protein/locus identifier and acts as the node identity everywhere.
//
// ExpansionLevel records the expansion step at which the node was first
// discovered (0 = seed neighborhood). Nodes are immutable value records: once
// discovered at a level, a later rediscovery never changes it.
type Node struct {
	ID             string            `json:"id"`
	Label          string            `json:"label"`
	LocusTag       string            `json:"locus_tag,omitempty"`
	Product        string            `json:"product,omitempty"`
	Type           NodeType          `json:"node_type"`
	ExpansionLevel int               `json:"expansion_level"`
	HasOrthologs   bool              `json:"has_orthologs,omitempty"`
	OrthologCount  int               `json:"ortholog_count,omitempty"`
	InPath         bool              `json:"in_path,omitempty"`
	Attrs          map[string]string `json:"attrs,omitempty"`
}

// Edge represents an interaction or ortholog relationship between two nodes.
// Identity is the unordered (Source, Target) pair; at most one edge is stored
// per pair regardless of direction.
//
// Weight is the evidence score, higher = stronger.
type Edge struct {
	Source         string   `json:"source"`
	Target         string   `json:"target"`
	Weight         float64  `json:"weight"`
	Type           EdgeType `json:"edge_type"`
	OrthologType   string   `json:"ortholog_type,omitempty"`
	ExpansionLevel int      `json:"expansion_level"`
	InPath         bool     `json:"in_path,omitempty"`
}

// EdgeKey returns the canonical storage key for an unordered endpoint pair.
// EdgeKey(a, b) == EdgeKey(b, a).
func EdgeKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "\x00" + b
}

// NetworkData is a flat node/edge set as fetched from the network query
// service or emitted to the rendering surface.
type NetworkData struct {
	Nodes      []Node            `json:"nodes"`
	Edges      []Edge            `json:"edges"`
	Properties map[string]string `json:"properties,omitempty"`
}

// ExpansionPathNode is one entry on the expansion path: a user-driven
// expansion of a single node at a given depth level. Level 0 is always the
// seed node.
//
// Fetched retains the neighborhood data that was merged at this step so that
// rewinding can replay the merge deterministically without refetching.
type ExpansionPathNode struct {
	LocusTag  string      `json:"locus_tag"`
	NodeID    string      `json:"node_id"`
	Node      Node        `json:"node"`
	Fetched   NetworkData `json:"-"`
	Timestamp time.Time   `json:"timestamp"`
	Level     int         `json:"level"`
}

// OrthologRelationship links a locus to an inferred ortholog in another (or
// the same) species. It is only used to decorate a fetched network, never
// persisted on its own.
type OrthologRelationship struct {
	LocusTag        string  `json:"locus_tag"`
	OrthologTag     string  `json:"ortholog_tag"`
	Species         string  `json:"species,omitempty"`
	OrthologSpecies string  `json:"ortholog_species,omitempty"`
	OrthologType    string  `json:"ortholog_type,omitempty"`
	Confidence      float64 `json:"confidence"`
}
