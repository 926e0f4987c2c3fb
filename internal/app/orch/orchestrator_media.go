package orch

import (
	"encoding/json"

	"github.com/dkeye/Multiplayer/internal/app"
	"github.com/dkeye/Multiplayer/internal/core"
)

// ScreenShareActive reports whether someone presents in the caller's room.
func (o *Orchestrator) ScreenShareActive(sid core.SessionID) bool {
	room, ok := o.roomOf(sid)
	if !ok {
		return false
	}
	_, active := room.Presenter()
	return active
}

// StartScreenShare takes the room's presenter lock. Only one member may hold it.
func (o *Orchestrator) StartScreenShare(sid core.SessionID) bool {
	room, ok := o.roomOf(sid)
	if !ok || !room.StartShare(sid) {
		return false
	}
	o.sendRoom(room, "", app.ControlFrame, typeOnly{Type: MsgShareStart})
	return true
}

func (o *Orchestrator) StopScreenShare(sid core.SessionID) {
	room, ok := o.roomOf(sid)
	if !ok || !room.StopShare(sid) {
		return
	}
	o.sendRoom(room, "", app.ControlFrame, typeOnly{Type: MsgShareEnd})
}

func (o *Orchestrator) PushImage(sid core.SessionID, image json.RawMessage) {
	o.relayFromPresenter(sid, MsgShareImage, image)
}

func (o *Orchestrator) PushAudio(sid core.SessionID, audio json.RawMessage) {
	o.relayFromPresenter(sid, MsgShareAudio, audio)
}

func (o *Orchestrator) relayFromPresenter(sid core.SessionID, typ string, data json.RawMessage) {
	room, ok := o.roomOf(sid)
	if !ok || !room.IsPresenter(sid) {
		return
	}
	o.sendRoom(room, "", app.StreamFrame, blobMsg{Type: typ, Data: data})
}

// Voice relays a voice chunk to everyone else in the caller's room.
func (o *Orchestrator) Voice(sid core.SessionID, voice json.RawMessage) {
	room, ok := o.roomOf(sid)
	if !ok {
		return
	}
	o.sendRoom(room, sid, app.StreamFrame, blobMsg{Type: MsgVoice, Data: voice})
}
