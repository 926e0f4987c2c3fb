package orch

import (
	"github.com/dkeye/Multiplayer/internal/app"
	"github.com/dkeye/Multiplayer/internal/core"
	"github.com/dkeye/Multiplayer/internal/domain"
)

// OpenPortal registers a portal owned by sid and announces it to every other
// connection. Reopening an open id does nothing.
func (o *Orchestrator) OpenPortal(sid core.SessionID, id domain.PortalID, target domain.RoomID) bool {
	if !o.Portals.Open(id, target, playerID(sid)) {
		return false
	}
	o.broadcast(sid, app.ControlFrame, portalMsg{Type: MsgPortalOpen, Portal: id, Room: target})
	return true
}

// ClosePortal closes the portal if sid opened it.
func (o *Orchestrator) ClosePortal(sid core.SessionID, id domain.PortalID) bool {
	if !o.Portals.Close(id, playerID(sid)) {
		return false
	}
	o.broadcast(sid, app.ControlFrame, portalMsg{Type: MsgPortalClose, Portal: id})
	return true
}

func (o *Orchestrator) ListPortals() []domain.Portal {
	return o.Portals.List()
}
