package orch

import (
	"encoding/json"
	"errors"

	"github.com/dkeye/Multiplayer/internal/app"
	"github.com/dkeye/Multiplayer/internal/core"
	"github.com/dkeye/Multiplayer/internal/domain"
	"github.com/rs/zerolog/log"
)

// Join admits the connection into roomID. A connection joins at most once;
// a refused ban check hands the join back so the client may try another room.
// Other members of the room are told about the newcomer, the newcomer is not.
func (o *Orchestrator) Join(sid core.SessionID, roomID domain.RoomID, raw json.RawMessage) error {
	player, err := domain.NewPlayer(playerID(sid), raw)
	if err != nil {
		return err
	}
	if err := o.Registry.BeginJoin(sid, player.StaticID); err != nil {
		return err
	}

	var room core.RoomService
	for {
		room = o.Rooms.GetOrCreate(roomID)
		err = room.Admit(player)
		if !errors.Is(err, core.ErrRoomClosed) {
			break
		}
	}
	if err != nil {
		o.Registry.AbortJoin(sid)
		return err
	}
	o.Registry.CompleteJoin(sid, roomID)
	log.Info().Str("module", "orch").Str("sid", string(sid)).Str("room", string(roomID)).Msg("player joined")

	o.sendRoom(room, sid, app.ControlFrame, playerMsg{Type: MsgPlayerJoined, Player: player})
	return nil
}

// Leave removes the connection from its room without closing the connection.
func (o *Orchestrator) Leave(sid core.SessionID) error {
	room, ok := o.roomOf(sid)
	if !ok {
		return domain.ErrNotJoined
	}
	res := o.removeMember(room, sid)
	o.announceLeave(room, sid, res)
	return nil
}

// Players returns the member map of the caller's room, empty when not joined.
func (o *Orchestrator) Players(sid core.SessionID) core.PlayerMap {
	room, ok := o.roomOf(sid)
	if !ok {
		return core.PlayerMap{}
	}
	return room.Snapshot()
}

// UpdateMultiplayer overwrites the caller's opaque per-frame state.
func (o *Orchestrator) UpdateMultiplayer(sid core.SessionID, data json.RawMessage) {
	room, ok := o.roomOf(sid)
	if !ok {
		return
	}
	room.UpdateData(sid, data)
}

// OnDisconnect runs the cleanup cascade for a dropped connection: stop its
// screen share, drop it from the room (clearing bans when the last host goes),
// close the portals it owns and tell the remaining members it left.
func (o *Orchestrator) OnDisconnect(sid core.SessionID) {
	room, inRoom := o.roomOf(sid)
	var res core.LeaveResult
	if inRoom {
		res = o.removeMember(room, sid)
		if res.WasPresenter {
			o.sendRoom(room, "", app.ControlFrame, typeOnly{Type: MsgShareEnd})
		}
	}

	for _, id := range o.Portals.CloseOwnedBy(playerID(sid)) {
		o.broadcast(sid, app.ControlFrame, portalMsg{Type: MsgPortalClose, Portal: id})
	}

	if inRoom && res.Removed {
		o.sendRoom(room, sid, app.ControlFrame, playerLeftMsg{Type: MsgPlayerLeft, ID: playerID(sid)})
	}
	o.Registry.Unbind(sid)
	log.Info().Str("module", "orch").Str("sid", string(sid)).Msg("disconnect handled")
}

func (o *Orchestrator) removeMember(room core.RoomService, sid core.SessionID) core.LeaveResult {
	res := room.Remove(sid)
	o.Registry.RemoveRoom(sid)
	if res.Empty {
		o.Rooms.Release(room)
	}
	if res.BansCleared {
		log.Info().Str("module", "orch").Str("room", string(room.Room().ID)).Msg("last host left, ban list cleared")
	}
	return res
}

func (o *Orchestrator) announceLeave(room core.RoomService, sid core.SessionID, res core.LeaveResult) {
	if !res.Removed {
		return
	}
	if res.WasPresenter {
		o.sendRoom(room, "", app.ControlFrame, typeOnly{Type: MsgShareEnd})
	}
	o.sendRoom(room, sid, app.ControlFrame, playerLeftMsg{Type: MsgPlayerLeft, ID: playerID(sid)})
}
