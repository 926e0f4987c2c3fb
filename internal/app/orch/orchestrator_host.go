package orch

import (
	"context"

	"github.com/dkeye/Multiplayer/internal/app"
	"github.com/dkeye/Multiplayer/internal/core"
	"github.com/rs/zerolog/log"
)

// RequestHost asks the authorizer whether the caller may host its room and
// blocks until it answers. Approval only takes effect if the caller is still
// a member when the answer arrives. Denials and errors change nothing and
// are not reported to the caller.
func (o *Orchestrator) RequestHost(ctx context.Context, sid core.SessionID) {
	room, ok := o.roomOf(sid)
	if !ok || o.Auth == nil {
		return
	}
	member, ok := room.Member(sid)
	if !ok {
		return
	}
	roomID := room.Room().ID
	logger := log.With().Str("module", "orch").Str("sid", string(sid)).Str("room", string(roomID)).Logger()

	if err := o.Auth.Authorize(ctx, member.StaticID, roomID); err != nil {
		logger.Info().Err(err).Msg("host request rejected")
		return
	}

	current, ok := o.Rooms.GetRoom(roomID)
	if !ok {
		logger.Info().Msg("host approval discarded, room gone")
		return
	}
	grant, ok := current.GrantHost(sid)
	if !ok {
		logger.Info().Msg("host approval discarded, no longer a member")
		return
	}
	o.sendMany(grant.Hosts, app.ControlFrame, playersMsg{Type: MsgPlayersUpdate, Players: grant.Snapshot})
}

func (o *Orchestrator) IsHost(sid core.SessionID) bool {
	room, ok := o.roomOf(sid)
	if !ok {
		return false
	}
	return room.IsHost(sid)
}

// SetPresenter toggles target's presenting flag. Ignored unless sid hosts the room.
func (o *Orchestrator) SetPresenter(sid, target core.SessionID) {
	room, ok := o.roomOf(sid)
	if !ok {
		return
	}
	change, ok := room.TogglePresenting(sid, target)
	if !ok {
		return
	}
	o.sendTo(change.Target, app.ControlFrame, presentingMsg{Type: MsgSetPresenter, Presenting: change.Presenting})
	o.sendMany(change.Hosts, app.ControlFrame, playersMsg{Type: MsgPlayersUpdate, Players: change.Snapshot})
}

// Mute tells target to silence itself. Ignored unless sid hosts the room.
func (o *Orchestrator) Mute(sid, target core.SessionID) {
	room, ok := o.roomOf(sid)
	if !ok || !room.CanModerate(sid, target) {
		return
	}
	o.sendTo(target, app.ControlFrame, typeOnly{Type: MsgMute})
}

// Ban adds target's static id to the room ban list and tells target. The
// target stays a member until its client leaves.
func (o *Orchestrator) Ban(sid, target core.SessionID) {
	room, ok := o.roomOf(sid)
	if !ok {
		return
	}
	if _, ok := room.Ban(sid, target); !ok {
		return
	}
	o.sendTo(target, app.ControlFrame, typeOnly{Type: MsgBan})
}
