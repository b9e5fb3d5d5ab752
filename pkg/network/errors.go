package network

import "errors"

var (
	// ErrDepthExceeded is returned when an expansion is requested at or
	// beyond the configured maximum depth. The state is left unchanged and
	// the caller is expected to surface a user-facing notice.
	ErrDepthExceeded = errors.New("maximum expansion depth reached")

	// ErrExpansionInFlight is returned when an expansion is requested while
	// another one is still being fetched. Expansions are serialized to keep
	// the path order deterministic.
	ErrExpansionInFlight = errors.New("another expansion is in progress")

	// ErrStaleResponse marks a fetch result that completed after the view
	// was reset or navigated away. The result is discarded, never applied.
	ErrStaleResponse = errors.New("stale response discarded")

	// ErrNotFocused is returned for operations that require a focused view.
	ErrNotFocused = errors.New("no node is focused")

	// ErrUnknownNode is returned when the requested node is not part of the
	// current cumulative graph.
	ErrUnknownNode = errors.New("node not in current network")
)
