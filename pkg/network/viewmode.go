package network

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/strainnet/portal/backend/pkg/common"
	"github.com/strainnet/portal/backend/pkg/logger"
	"github.com/strainnet/portal/backend/pkg/netquery"
)

// ViewMode is the display mode of the network view.
type ViewMode string

const (
	// ViewModeGlobal shows the full lightweight-fetched network with no
	// focus node.
	ViewModeGlobal ViewMode = "global"
	// ViewModeFocused shows a single node, its neighborhood and any
	// expansion-path augmentation.
	ViewModeFocused ViewMode = "focused"
)

// ViewQuery carries the user-selected query parameters for all fetches
// issued by a controller.
type ViewQuery struct {
	ScoreType     string
	MinScore      float64
	Species       string
	ShowOrthologs bool
	MaxResults    int
}

// ViewController drives the two-mode network view: a global overview and a
// focused, expandable single-node view. All state transitions are applied
// under one lock so a render never observes a partially merged state.
//
// Fetch results are guarded by an epoch counter: navigating away or
// resetting bumps the epoch and any fetch that completes under an older
// epoch is discarded.
type ViewController struct {
	mu sync.Mutex

	client  *NetworkClient
	netSvc  netquery.NetworkQueryService
	orthSvc netquery.OrthologLookupService

	mode      ViewMode
	focusID   string
	state     *ExpansionState
	expanding string
	epoch     uint64
	query     ViewQuery
}

// NewViewController creates a controller in global mode.
func NewViewController(
	client *NetworkClient,
	netSvc netquery.NetworkQueryService,
	orthSvc netquery.OrthologLookupService,
	query ViewQuery,
) *ViewController {
	return &ViewController{
		client:  client,
		netSvc:  netSvc,
		orthSvc: orthSvc,
		mode:    ViewModeGlobal,
		query:   query,
	}
}

// Mode returns the current view mode.
func (v *ViewController) Mode() ViewMode {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.mode
}

// FocusedNode returns the ID of the focused node, or "" in global mode.
func (v *ViewController) FocusedNode() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.focusID
}

// ExpandingNode returns the ID of the node whose expansion fetch is in
// flight, or "" when none is. The UI uses this to show a loading indicator
// and block duplicate requests.
func (v *ViewController) ExpandingNode() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.expanding
}

// SetShowOrthologs toggles ortholog decoration on rendered output.
func (v *ViewController) SetShowOrthologs(show bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.query.ShowOrthologs = show
}

// Global fetches the lightweight overview network. It does not alter any
// focused state and can be called in either mode.
func (v *ViewController) Global(ctx context.Context) (common.NetworkData, error) {
	v.mu.Lock()
	req := netquery.NeighborhoodRequest{
		ScoreType:   v.query.ScoreType,
		MinScore:    v.query.MinScore,
		Species:     v.query.Species,
		Lightweight: true,
		MaxResults:  v.query.MaxResults,
	}
	v.mu.Unlock()

	data, err := v.netSvc.GetNeighborhood(ctx, req)
	if err != nil {
		return common.NetworkData{}, fmt.Errorf("failed to fetch global network: %w", err)
	}
	return data, nil
}

// Focus transitions to the focused view for the given node, fetching its
// full neighborhood and seeding a fresh expansion state. Any previous
// focused state is discarded and in-flight fetches for it become stale.
func (v *ViewController) Focus(ctx context.Context, node common.Node) error {
	v.mu.Lock()
	v.epoch++
	epoch := v.epoch
	v.expanding = ""
	req := netquery.NeighborhoodRequest{
		ScoreType: v.query.ScoreType,
		MinScore:  v.query.MinScore,
		Species:   v.query.Species,
		LocusTag:  node.LocusTag,
	}
	v.mu.Unlock()

	data, err := v.netSvc.GetNeighborhood(ctx, req)

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.epoch != epoch {
		return ErrStaleResponse
	}
	if err != nil {
		return fmt.Errorf("failed to fetch neighborhood for %s: %w", node.ID, err)
	}

	v.mode = ViewModeFocused
	v.focusID = node.ID
	v.state = v.client.Seed(node, data)
	return nil
}

// Expand fetches the neighborhood of a node in the focused view and merges
// it into the cumulative state one level deeper. Only one expansion may be
// in flight at a time; a second request returns ErrExpansionInFlight.
//
// Expanding an already-expanded node is a no-op. Expanding at the depth
// bound returns ErrDepthExceeded with the state unchanged.
func (v *ViewController) Expand(ctx context.Context, nodeID string) error {
	v.mu.Lock()
	if v.mode != ViewModeFocused || v.state == nil {
		v.mu.Unlock()
		return ErrNotFocused
	}
	node, ok := v.state.Nodes[nodeID]
	if !ok {
		v.mu.Unlock()
		return ErrUnknownNode
	}
	if v.state.IsExpanded(node.LocusTag) {
		v.mu.Unlock()
		return nil
	}
	if !v.client.CanExpand(v.state.CurrentLevel) {
		v.mu.Unlock()
		return ErrDepthExceeded
	}
	if v.expanding != "" {
		v.mu.Unlock()
		return ErrExpansionInFlight
	}
	v.expanding = nodeID
	epoch := v.epoch
	req := netquery.NeighborhoodRequest{
		ScoreType: v.query.ScoreType,
		MinScore:  v.query.MinScore,
		Species:   v.query.Species,
		LocusTag:  node.LocusTag,
	}
	v.mu.Unlock()

	data, err := v.netSvc.GetNeighborhood(ctx, req)

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.epoch != epoch {
		// The view moved on while the fetch was in flight; the epoch bump
		// already cleared the expanding indicator.
		return ErrStaleResponse
	}
	v.expanding = ""
	if err != nil {
		return fmt.Errorf("failed to fetch neighborhood for %s: %w", nodeID, err)
	}

	next, err := v.client.Expand(v.state, node, data)
	if err != nil {
		return err
	}
	v.state = next
	return nil
}

// Rewind truncates the expansion path back to the given level, rebuilding
// the state by replay. Level -1 restores the seed-only view. An in-flight
// expansion fetch becomes stale. An out-of-range level is a no-op and
// leaves any in-flight fetch undisturbed.
func (v *ViewController) Rewind(level int) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.mode != ViewModeFocused || v.state == nil {
		return ErrNotFocused
	}
	next := v.state.Rewind(level)
	if next == v.state {
		return nil
	}
	v.epoch++
	v.expanding = ""
	v.state = next
	return nil
}

// BackToGlobal clears all expansion state and returns to the global
// overview. An in-flight expansion fetch becomes stale.
func (v *ViewController) BackToGlobal() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.epoch++
	v.mode = ViewModeGlobal
	v.focusID = ""
	v.state = nil
	v.expanding = ""
}

// State returns the current expansion state snapshot, or nil in global
// mode. The snapshot must be treated as read-only.
func (v *ViewController) State() *ExpansionState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Render flattens the focused state into a node/edge list for the drawing
// surface, marking elements on the active expansion path, and decorates it
// with ortholog data. An ortholog lookup failure degrades to an undecorated
// render instead of failing the view.
func (v *ViewController) Render(ctx context.Context) (common.NetworkData, error) {
	v.mu.Lock()
	if v.mode != ViewModeFocused || v.state == nil {
		v.mu.Unlock()
		return common.NetworkData{}, ErrNotFocused
	}
	state := v.state
	query := v.query
	v.mu.Unlock()

	data := flatten(state)

	loci := make([]string, 0, len(data.Nodes))
	for _, n := range data.Nodes {
		if n.Type == common.NodeTypePPI && n.LocusTag != "" {
			loci = append(loci, n.LocusTag)
		}
	}

	orthologs, err := v.orthSvc.GetBatch(ctx, loci, query.Species)
	if err != nil {
		logger.Warn("[Network] Ortholog lookup failed, rendering without orthologs", "err", err)
		orthologs = map[string][]common.OrthologRelationship{}
	}

	return v.client.EnrichWithOrthologs(data, orthologs, query.ShowOrthologs), nil
}

// flatten produces a deterministic node/edge list from the cumulative
// state. Nodes and edges on the active expansion path carry the InPath
// flag, used by the UI purely for highlighting.
func flatten(state *ExpansionState) common.NetworkData {
	onPath := make(map[string]struct{}, len(state.Path))
	for _, entry := range state.Path {
		onPath[entry.NodeID] = struct{}{}
	}

	nodes := make([]common.Node, 0, len(state.Nodes))
	for _, node := range state.Nodes {
		_, inPath := onPath[node.ID]
		node.InPath = inPath
		nodes = append(nodes, node)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })

	edges := make([]common.Edge, len(state.Edges))
	copy(edges, state.Edges)
	for i := range edges {
		_, srcOn := onPath[edges[i].Source]
		_, tgtOn := onPath[edges[i].Target]
		edges[i].InPath = srcOn && tgtOn
	}
	sort.Slice(edges, func(i, j int) bool {
		return common.EdgeKey(edges[i].Source, edges[i].Target) < common.EdgeKey(edges[j].Source, edges[j].Target)
	})

	return common.NetworkData{Nodes: nodes, Edges: edges}
}
