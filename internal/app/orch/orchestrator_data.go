package orch

import (
	"encoding/json"

	"github.com/dkeye/Multiplayer/internal/app"
	"github.com/dkeye/Multiplayer/internal/core"
)

func (o *Orchestrator) GetData(key string) (json.RawMessage, bool) {
	return o.Data.Get(key)
}

func (o *Orchestrator) SetData(key string, value json.RawMessage) {
	o.Data.Set(key, value)
}

// Emit relays an arbitrary event to the caller's whole room, caller included.
func (o *Orchestrator) Emit(sid core.SessionID, event string, data json.RawMessage) {
	room, ok := o.roomOf(sid)
	if !ok {
		return
	}
	o.sendRoom(room, "", app.ControlFrame, eventMsg{Type: MsgEvent, Event: event, Data: data})
}
