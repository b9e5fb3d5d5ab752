package network

// NetworkClient holds the policy knobs for the interaction network core:
// how deep user-driven expansion may go and how many synthesized ortholog
// partners are kept per node during enrichment.
//
// A NetworkClient should be created using NewNetworkClient.
type NetworkClient struct {
	maxExpansionDepth  int
	orthologPartnerCap int
}

// NewNetworkClientParams defines the configuration parameters for creating
// a new NetworkClient.
//
// MaxExpansionDepth bounds how many expansion steps a user may take from the
// seed node. OrthologPartnerCap bounds how many ortholog-only partners are
// attached per source node during enrichment.
type NewNetworkClientParams struct {
	MaxExpansionDepth  int
	OrthologPartnerCap int
}

// NewNetworkClient creates and returns a new NetworkClient configured with
// the provided parameters. Non-positive values fall back to the defaults
// (depth 3, partner cap 3).
//
// Example:
//
//	params := network.NewNetworkClientParams{
//		MaxExpansionDepth:  3,
//		OrthologPartnerCap: 3,
//	}
//	client := network.NewNetworkClient(params)
func NewNetworkClient(params NewNetworkClientParams) *NetworkClient {
	maxDepth := params.MaxExpansionDepth
	if maxDepth <= 0 {
		maxDepth = 3
	}
	partnerCap := params.OrthologPartnerCap
	if partnerCap <= 0 {
		partnerCap = 3
	}

	return &NetworkClient{
		maxExpansionDepth:  maxDepth,
		orthologPartnerCap: partnerCap,
	}
}

// MaxExpansionDepth returns the configured expansion depth bound.
func (c *NetworkClient) MaxExpansionDepth() int {
	return c.maxExpansionDepth
}

// CanExpand reports whether a node at the given path level may still be
// expanded. Expansion is allowed strictly below the configured maximum depth.
func (c *NetworkClient) CanExpand(currentLevel int) bool {
	return currentLevel < c.maxExpansionDepth
}
