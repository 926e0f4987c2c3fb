package orch

import (
	"encoding/json"

	"github.com/dkeye/Multiplayer/internal/app"
	"github.com/dkeye/Multiplayer/internal/core"
	"github.com/dkeye/Multiplayer/internal/domain"
	"github.com/rs/zerolog/log"
)

// Orchestrator is the single mutation surface over rooms, portals and the
// shared data store. It is safe for concurrent use; all per-room state
// changes go through core.RoomService which serializes them per room.
type Orchestrator struct {
	Registry *app.Registry
	Rooms    core.RoomManager
	Portals  *app.PortalRegistry
	Data     *app.DataStore
	Policy   app.Policy
	Auth     core.HostAuthorizer
}

func New(auth core.HostAuthorizer) *Orchestrator {
	return &Orchestrator{
		Registry: app.NewRegistry(),
		Rooms:    core.NewRoomManager(),
		Portals:  app.NewPortalRegistry(),
		Data:     app.NewDataStore(),
		Policy:   app.SimplePolicy{},
		Auth:     auth,
	}
}

// roomOf resolves the room a connection currently belongs to.
func (o *Orchestrator) roomOf(sid core.SessionID) (core.RoomService, bool) {
	roomID, _, ok := o.Registry.RoomOf(sid)
	if !ok {
		return nil, false
	}
	return o.Rooms.GetRoom(roomID)
}

func encode(v any) (core.Frame, bool) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Msg("marshal message")
		return nil, false
	}
	return b, true
}

func (o *Orchestrator) sendTo(sid core.SessionID, kind app.FrameKind, v any) {
	f, ok := encode(v)
	if !ok {
		return
	}
	o.deliver(o.Registry.Signals([]core.SessionID{sid}), kind, f)
}

func (o *Orchestrator) sendMany(sids []core.SessionID, kind app.FrameKind, v any) {
	if len(sids) == 0 {
		return
	}
	f, ok := encode(v)
	if !ok {
		return
	}
	o.deliver(o.Registry.Signals(sids), kind, f)
}

// sendRoom delivers to every current member of room except skip.
func (o *Orchestrator) sendRoom(room core.RoomService, skip core.SessionID, kind app.FrameKind, v any) {
	sids := room.MemberIDs()
	if skip != "" {
		sids = without(sids, skip)
	}
	o.sendMany(sids, kind, v)
}

// broadcast delivers to every connection on the server except skip.
func (o *Orchestrator) broadcast(skip core.SessionID, kind app.FrameKind, v any) {
	f, ok := encode(v)
	if !ok {
		return
	}
	all := o.Registry.All()
	targets := all[:0]
	for _, s := range all {
		if s.SID != skip {
			targets = append(targets, s)
		}
	}
	o.deliver(targets, kind, f)
}

func (o *Orchestrator) deliver(targets []app.SessionSnap, kind app.FrameKind, f core.Frame) {
	for _, t := range targets {
		err := t.Session.Signal().TrySend(f)
		if err == nil {
			continue
		}
		o.onSendFailure(t.SID, t.Session, kind, err)
	}
}

func (o *Orchestrator) onSendFailure(sid core.SessionID, sess core.MemberSession, kind app.FrameKind, err error) {
	if o.Policy == nil {
		return
	}
	switch o.Policy.OnBackPressure(kind, sess) {
	case app.KickMember:
		log.Warn().Err(err).Str("module", "orch").Str("sid", string(sid)).Msg("kicking slow member")
		o.Registry.Cancel(sid)
		sess.Signal().Close()
	case app.DropFrame, app.NoAction:
		log.Debug().Err(err).Str("module", "orch").Str("sid", string(sid)).Msg("frame dropped")
	}
}

func without(sids []core.SessionID, skip core.SessionID) []core.SessionID {
	out := make([]core.SessionID, 0, len(sids))
	for _, sid := range sids {
		if sid != skip {
			out = append(out, sid)
		}
	}
	return out
}

func playerID(sid core.SessionID) domain.PlayerID { return domain.PlayerID(sid) }
