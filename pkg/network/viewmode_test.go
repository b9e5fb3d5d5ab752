package network

import (
	"context"
	"errors"
	"testing"

	"github.com/strainnet/portal/backend/pkg/common"
	"github.com/strainnet/portal/backend/pkg/netquery"
)

type mockNetworkService struct {
	neighborhoods map[string]common.NetworkData
	global        common.NetworkData
	err           error
	onFetch       func(req netquery.NeighborhoodRequest)
	requests      []netquery.NeighborhoodRequest
}

func (m *mockNetworkService) GetNeighborhood(ctx context.Context, req netquery.NeighborhoodRequest) (common.NetworkData, error) {
	m.requests = append(m.requests, req)
	if m.onFetch != nil {
		m.onFetch(req)
	}
	if m.err != nil {
		return common.NetworkData{}, m.err
	}
	if req.Lightweight {
		return m.global, nil
	}
	return m.neighborhoods[req.LocusTag], nil
}

type mockOrthologService struct {
	batch map[string][]common.OrthologRelationship
	err   error
}

func (m *mockOrthologService) GetBatch(ctx context.Context, locusTags []string, speciesFilter string) (map[string][]common.OrthologRelationship, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make(map[string][]common.OrthologRelationship, len(locusTags))
	for _, tag := range locusTags {
		out[tag] = m.batch[tag]
	}
	return out, nil
}

func testController(netSvc *mockNetworkService, orthSvc *mockOrthologService) *ViewController {
	return NewViewController(testClient(), netSvc, orthSvc, ViewQuery{
		ScoreType:  "combined",
		MinScore:   0.4,
		Species:    "strain-1",
		MaxResults: 500,
	})
}

func scenarioService() *mockNetworkService {
	return &mockNetworkService{
		neighborhoods: map[string]common.NetworkData{
			"A": {
				Nodes: []common.Node{ppiNode("A"), ppiNode("B"), ppiNode("C")},
				Edges: []common.Edge{ppiEdge("A", "B", 0.9), ppiEdge("A", "C", 0.5)},
			},
			"B": {
				Nodes: []common.Node{ppiNode("B"), ppiNode("D"), ppiNode("A")},
				Edges: []common.Edge{ppiEdge("B", "D", 0.7), ppiEdge("B", "A", 0.95)},
			},
		},
		global: common.NetworkData{
			Nodes: []common.Node{ppiNode("A"), ppiNode("B")},
		},
	}
}

func TestFocusAndExpand(t *testing.T) {
	netSvc := scenarioService()
	v := testController(netSvc, &mockOrthologService{})

	if v.Mode() != ViewModeGlobal {
		t.Fatalf("initial mode = %s, want global", v.Mode())
	}

	if err := v.Focus(context.Background(), ppiNode("A")); err != nil {
		t.Fatalf("Focus() error = %v", err)
	}
	if v.Mode() != ViewModeFocused || v.FocusedNode() != "A" {
		t.Fatalf("after focus: mode = %s, focus = %s", v.Mode(), v.FocusedNode())
	}

	if err := v.Expand(context.Background(), "B"); err != nil {
		t.Fatalf("Expand(B) error = %v", err)
	}

	state := v.State()
	if state.CurrentLevel != 1 || len(state.Path) != 2 {
		t.Errorf("state = {level %d, path %d}, want level 1 with 2 path entries", state.CurrentLevel, len(state.Path))
	}
	if state.Nodes["D"].ExpansionLevel != 1 {
		t.Errorf("node D level = %d, want 1", state.Nodes["D"].ExpansionLevel)
	}
	if v.ExpandingNode() != "" {
		t.Errorf("expanding indicator = %q after completion, want cleared", v.ExpandingNode())
	}
}

func TestExpandUnknownNode(t *testing.T) {
	v := testController(scenarioService(), &mockOrthologService{})
	if err := v.Focus(context.Background(), ppiNode("A")); err != nil {
		t.Fatalf("Focus() error = %v", err)
	}
	if err := v.Expand(context.Background(), "Z"); err != ErrUnknownNode {
		t.Errorf("Expand(Z) error = %v, want ErrUnknownNode", err)
	}
}

func TestExpandRequiresFocus(t *testing.T) {
	v := testController(scenarioService(), &mockOrthologService{})
	if err := v.Expand(context.Background(), "B"); err != ErrNotFocused {
		t.Errorf("Expand() in global mode error = %v, want ErrNotFocused", err)
	}
}

func TestExpandFetchFailureLeavesState(t *testing.T) {
	netSvc := scenarioService()
	v := testController(netSvc, &mockOrthologService{})
	if err := v.Focus(context.Background(), ppiNode("A")); err != nil {
		t.Fatalf("Focus() error = %v", err)
	}

	netSvc.err = errors.New("backend down")
	err := v.Expand(context.Background(), "B")
	if err == nil {
		t.Fatal("Expand() with failing fetch returned nil error")
	}

	state := v.State()
	if state.CurrentLevel != 0 || len(state.Path) != 1 {
		t.Errorf("state changed on fetch failure: level %d, path %d", state.CurrentLevel, len(state.Path))
	}
	if v.ExpandingNode() != "" {
		t.Error("expanding indicator not cleared after fetch failure")
	}

	// The failure is retryable: a later expand succeeds.
	netSvc.err = nil
	if err := v.Expand(context.Background(), "B"); err != nil {
		t.Fatalf("retried Expand() error = %v", err)
	}
}

// Only one expansion may be in flight at a time. The mock issues a second
// Expand while the first fetch is still running; it must be rejected and
// the first expansion must still apply.
func TestExpandSerializesInFlight(t *testing.T) {
	netSvc := scenarioService()
	v := testController(netSvc, &mockOrthologService{})
	if err := v.Focus(context.Background(), ppiNode("A")); err != nil {
		t.Fatalf("Focus() error = %v", err)
	}

	var concurrentErr error
	netSvc.onFetch = func(req netquery.NeighborhoodRequest) {
		if req.LocusTag == "B" {
			concurrentErr = v.Expand(context.Background(), "C")
		}
	}

	if err := v.Expand(context.Background(), "B"); err != nil {
		t.Fatalf("Expand(B) error = %v", err)
	}
	if concurrentErr != ErrExpansionInFlight {
		t.Fatalf("concurrent Expand(C) error = %v, want ErrExpansionInFlight", concurrentErr)
	}

	state := v.State()
	if state.CurrentLevel != 1 || len(state.Path) != 2 {
		t.Errorf("state = {level %d, path %d}, want level 1 with 2 path entries", state.CurrentLevel, len(state.Path))
	}
	if state.IsExpanded("C") {
		t.Error("rejected concurrent expansion was applied")
	}
	if v.ExpandingNode() != "" {
		t.Errorf("expanding indicator = %q after completion, want cleared", v.ExpandingNode())
	}
}

// An out-of-range rewind is a no-op and must not invalidate an expansion
// fetch that is still in flight.
func TestExpandSurvivesNoopRewind(t *testing.T) {
	netSvc := scenarioService()
	v := testController(netSvc, &mockOrthologService{})
	if err := v.Focus(context.Background(), ppiNode("A")); err != nil {
		t.Fatalf("Focus() error = %v", err)
	}

	netSvc.onFetch = func(req netquery.NeighborhoodRequest) {
		if req.LocusTag == "B" {
			if err := v.Rewind(42); err != nil {
				t.Errorf("Rewind(42) error = %v", err)
			}
		}
	}

	if err := v.Expand(context.Background(), "B"); err != nil {
		t.Fatalf("Expand(B) after no-op rewind error = %v", err)
	}
	state := v.State()
	if state.CurrentLevel != 1 || len(state.Path) != 2 {
		t.Errorf("state = {level %d, path %d}, want level 1 with 2 path entries", state.CurrentLevel, len(state.Path))
	}
}

// A fetch that completes after the user returned to global view must be
// discarded, not applied. The mock navigates away mid-fetch.
func TestExpandStaleAfterBackToGlobal(t *testing.T) {
	netSvc := scenarioService()
	v := testController(netSvc, &mockOrthologService{})
	if err := v.Focus(context.Background(), ppiNode("A")); err != nil {
		t.Fatalf("Focus() error = %v", err)
	}

	netSvc.onFetch = func(req netquery.NeighborhoodRequest) {
		if req.LocusTag == "B" {
			v.BackToGlobal()
		}
	}

	if err := v.Expand(context.Background(), "B"); err != ErrStaleResponse {
		t.Fatalf("Expand() after navigation error = %v, want ErrStaleResponse", err)
	}
	if v.Mode() != ViewModeGlobal || v.State() != nil {
		t.Error("stale expansion was applied after back-to-global")
	}
}

func TestFocusStaleAfterBackToGlobal(t *testing.T) {
	netSvc := scenarioService()
	v := testController(netSvc, &mockOrthologService{})

	netSvc.onFetch = func(req netquery.NeighborhoodRequest) {
		if req.LocusTag == "A" {
			v.BackToGlobal()
		}
	}

	if err := v.Focus(context.Background(), ppiNode("A")); err != ErrStaleResponse {
		t.Fatalf("Focus() after navigation error = %v, want ErrStaleResponse", err)
	}
	if v.Mode() != ViewModeGlobal {
		t.Error("stale focus was applied after back-to-global")
	}
}

func TestControllerRewind(t *testing.T) {
	netSvc := scenarioService()
	v := testController(netSvc, &mockOrthologService{})
	if err := v.Focus(context.Background(), ppiNode("A")); err != nil {
		t.Fatalf("Focus() error = %v", err)
	}
	if err := v.Expand(context.Background(), "B"); err != nil {
		t.Fatalf("Expand(B) error = %v", err)
	}

	if err := v.Rewind(-1); err != nil {
		t.Fatalf("Rewind(-1) error = %v", err)
	}

	state := v.State()
	if len(state.Path) != 1 || state.Path[0].NodeID != "A" {
		t.Errorf("path after rewind = %v, want [A]", state.Path)
	}
	if _, ok := state.Nodes["D"]; ok {
		t.Error("node D survived controller rewind")
	}
}

func TestRenderMarksPath(t *testing.T) {
	netSvc := scenarioService()
	v := testController(netSvc, &mockOrthologService{})
	if err := v.Focus(context.Background(), ppiNode("A")); err != nil {
		t.Fatalf("Focus() error = %v", err)
	}
	if err := v.Expand(context.Background(), "B"); err != nil {
		t.Fatalf("Expand(B) error = %v", err)
	}

	data, err := v.Render(context.Background())
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	for _, n := range data.Nodes {
		wantInPath := n.ID == "A" || n.ID == "B"
		if n.InPath != wantInPath {
			t.Errorf("node %s inPath = %v, want %v", n.ID, n.InPath, wantInPath)
		}
	}
	ab := findEdge(t, data.Edges, "A", "B")
	if !ab.InPath {
		t.Error("edge A-B not marked inPath")
	}
	ac := findEdge(t, data.Edges, "A", "C")
	if ac.InPath {
		t.Error("edge A-C marked inPath")
	}
}

// Ortholog lookup failure must degrade to an undecorated render, not fail
// the view.
func TestRenderDegradesOnOrthologFailure(t *testing.T) {
	netSvc := scenarioService()
	orthSvc := &mockOrthologService{err: errors.New("ortholog service down")}
	v := testController(netSvc, orthSvc)
	v.SetShowOrthologs(true)

	if err := v.Focus(context.Background(), ppiNode("A")); err != nil {
		t.Fatalf("Focus() error = %v", err)
	}

	data, err := v.Render(context.Background())
	if err != nil {
		t.Fatalf("Render() error = %v, want graceful degradation", err)
	}
	for _, n := range data.Nodes {
		if n.Type == common.NodeTypeOrtholog {
			t.Errorf("render synthesized ortholog node %s despite lookup failure", n.ID)
		}
	}
}

func TestRenderWithOrthologs(t *testing.T) {
	netSvc := scenarioService()
	orthSvc := &mockOrthologService{
		batch: map[string][]common.OrthologRelationship{
			"A": {rel("A", "EXT1", "1:1", 0.9)},
		},
	}
	v := testController(netSvc, orthSvc)
	v.SetShowOrthologs(true)

	if err := v.Focus(context.Background(), ppiNode("A")); err != nil {
		t.Fatalf("Focus() error = %v", err)
	}

	data, err := v.Render(context.Background())
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !hasNode(data.Nodes, "EXT1") {
		t.Error("ortholog partner EXT1 missing from render")
	}
	a := nodeByID(t, data.Nodes, "A")
	if a.OrthologCount != 1 {
		t.Errorf("node A ortholog count = %d, want 1", a.OrthologCount)
	}
}

func TestGlobalFetchIsLightweight(t *testing.T) {
	netSvc := scenarioService()
	v := testController(netSvc, &mockOrthologService{})

	if _, err := v.Global(context.Background()); err != nil {
		t.Fatalf("Global() error = %v", err)
	}
	if len(netSvc.requests) != 1 {
		t.Fatalf("request count = %d, want 1", len(netSvc.requests))
	}
	req := netSvc.requests[0]
	if !req.Lightweight || req.MaxResults != 500 || req.LocusTag != "" {
		t.Errorf("global request = %+v, want lightweight capped fetch without locus filter", req)
	}
}
