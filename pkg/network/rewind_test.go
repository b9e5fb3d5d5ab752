package network

import (
	"reflect"
	"testing"

	"github.com/strainnet/portal/backend/pkg/common"
)

// expandChain walks the seed state through B at level 1 and D at level 2.
func expandChain(t *testing.T, c *NetworkClient) *ExpansionState {
	t.Helper()
	s := seedState(c)

	s, err := c.Expand(s, s.Nodes["B"], common.NetworkData{
		Nodes: []common.Node{ppiNode("B"), ppiNode("D")},
		Edges: []common.Edge{ppiEdge("B", "D", 0.7)},
	})
	if err != nil {
		t.Fatalf("Expand(B) error = %v", err)
	}

	s, err = c.Expand(s, s.Nodes["D"], common.NetworkData{
		Nodes: []common.Node{ppiNode("D"), ppiNode("E")},
		Edges: []common.Edge{ppiEdge("D", "E", 0.6)},
	})
	if err != nil {
		t.Fatalf("Expand(D) error = %v", err)
	}
	return s
}

func TestRewindToSeed(t *testing.T) {
	c := testClient()
	s := expandChain(t, c)

	rewound := s.Rewind(-1)

	if len(rewound.Path) != 1 || rewound.Path[0].NodeID != "A" {
		t.Fatalf("path after rewind(-1) = %v, want only the seed entry A", rewound.Path)
	}
	if rewound.CurrentLevel != 0 {
		t.Errorf("CurrentLevel = %d, want 0", rewound.CurrentLevel)
	}
	if len(rewound.Edges) != 2 {
		t.Fatalf("edge count = %d, want the 2 seed edges", len(rewound.Edges))
	}
	ab := findEdge(t, rewound.Edges, "A", "B")
	if ab.Weight != 0.9 {
		t.Errorf("A-B weight = %v, want 0.9", ab.Weight)
	}
	if _, ok := rewound.Nodes["D"]; ok {
		t.Error("node D survived rewind to seed")
	}
	if _, ok := rewound.Nodes["E"]; ok {
		t.Error("node E survived rewind to seed")
	}
	if rewound.IsExpanded("B") {
		t.Error("IsExpanded(B) = true after rewind to seed")
	}
}

func TestRewindToIntermediateLevel(t *testing.T) {
	c := testClient()
	s := expandChain(t, c)

	rewound := s.Rewind(1)

	if len(rewound.Path) != 2 {
		t.Fatalf("path length = %d, want 2", len(rewound.Path))
	}
	if rewound.CurrentLevel != 1 {
		t.Errorf("CurrentLevel = %d, want 1", rewound.CurrentLevel)
	}
	if _, ok := rewound.Nodes["D"]; !ok {
		t.Error("node D missing after rewind to level 1")
	}
	if _, ok := rewound.Nodes["E"]; ok {
		t.Error("node E survived rewind to level 1")
	}
}

// Rewinding and replaying the same prefix must be deterministic: the
// reconstructed node/edge sets are identical to the originals.
func TestRewindReplayDeterminism(t *testing.T) {
	c := testClient()
	s := expandChain(t, c)

	rewound := s.Rewind(len(s.Path) - 1)

	if !reflect.DeepEqual(rewound.Nodes, s.Nodes) {
		t.Errorf("replayed nodes = %v, want %v", rewound.Nodes, s.Nodes)
	}
	if !reflect.DeepEqual(rewound.Edges, s.Edges) {
		t.Errorf("replayed edges = %v, want %v", rewound.Edges, s.Edges)
	}
	if !reflect.DeepEqual(rewound.Path, s.Path) {
		t.Errorf("replayed path = %v, want %v", rewound.Path, s.Path)
	}
}

func TestRewindOutOfRange(t *testing.T) {
	c := testClient()
	s := expandChain(t, c)

	tests := []struct {
		name  string
		level int
	}{
		{name: "below sentinel", level: -2},
		{name: "past end", level: len(s.Path)},
		{name: "far past end", level: 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Rewind(tt.level); got != s {
				t.Errorf("Rewind(%d) returned a new state, want unchanged input", tt.level)
			}
		})
	}
}

func TestRewindEmptyState(t *testing.T) {
	s := NewExpansionState()

	if got := s.Rewind(-1); got != s {
		t.Error("Rewind(-1) on empty state returned a new state, want unchanged input")
	}
	if got := s.Reset(); got != s {
		t.Error("Reset() on empty state returned a new state, want unchanged input")
	}
}

func TestReset(t *testing.T) {
	c := testClient()
	s := expandChain(t, c)

	reset := s.Reset()
	want := s.Rewind(-1)

	if !reflect.DeepEqual(reset.Nodes, want.Nodes) || !reflect.DeepEqual(reset.Edges, want.Edges) {
		t.Error("Reset() differs from Rewind(-1)")
	}
}
