package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/strainnet/portal/backend/internal/server/middleware"
	"github.com/strainnet/portal/backend/internal/session"
	"github.com/strainnet/portal/backend/pkg/common"
	"github.com/strainnet/portal/backend/pkg/network"
)

type pathEntry struct {
	NodeID   string `json:"node_id"`
	LocusTag string `json:"locus_tag"`
	Level    int    `json:"level"`
}

type sessionView struct {
	SessionID    string             `json:"session_id"`
	Mode         network.ViewMode   `json:"mode"`
	FocusedNode  string             `json:"focused_node,omitempty"`
	CurrentLevel int                `json:"current_level"`
	MaxDepth     int                `json:"max_depth"`
	Expanding    string             `json:"expanding,omitempty"`
	Path         []pathEntry        `json:"path"`
	Network      common.NetworkData `json:"network"`
}

// lookupSession resolves a session and enforces that it belongs to the
// requesting user. Admins may access any session.
func lookupSession(c echo.Context, id string) (*session.Session, int, string) {
	user := c.(*middleware.AppContext).User
	if user == nil {
		return nil, http.StatusUnauthorized, "Unauthorized"
	}

	s, ok := c.(*middleware.AppContext).App.Sessions.Get(id)
	if !ok {
		return nil, http.StatusNotFound, "Session not found"
	}
	if !middleware.IsAdmin(user) && s.UserID != user.UserID {
		return nil, http.StatusForbidden, "Session belongs to another user"
	}
	return s, http.StatusOK, ""
}

// buildSessionView renders the session into the payload the UI consumes.
func buildSessionView(c echo.Context, s *session.Session) (sessionView, error) {
	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	view := sessionView{
		SessionID:   s.ID,
		Mode:        s.Controller.Mode(),
		FocusedNode: s.Controller.FocusedNode(),
		MaxDepth:    app.Network.MaxExpansionDepth(),
		Expanding:   s.Controller.ExpandingNode(),
		Path:        make([]pathEntry, 0),
	}

	state := s.Controller.State()
	if state == nil {
		return view, nil
	}
	view.CurrentLevel = state.CurrentLevel
	for _, entry := range state.Path {
		view.Path = append(view.Path, pathEntry{
			NodeID:   entry.NodeID,
			LocusTag: entry.LocusTag,
			Level:    entry.Level,
		})
	}

	data, err := s.Controller.Render(ctx)
	if err != nil {
		return sessionView{}, err
	}
	view.Network = data
	return view, nil
}
