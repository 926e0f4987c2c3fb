package signal

import (
	"encoding/json"
	"errors"

	"github.com/dkeye/Multiplayer/internal/core"
	"github.com/dkeye/Multiplayer/internal/domain"
	"github.com/rs/zerolog/log"
)

const maxRoomIDLen = 128

type bannedReply struct {
	Banned bool           `json:"banned"`
	ID     core.SessionID `json:"id"`
}

type errorReply struct {
	Error string `json:"error"`
}

func (ctl *SignalWSController) handleJoin(
	sid core.SessionID,
	conn *WsSignalConn,
	ack *int64,
	data []byte,
) {
	type joinPayload struct {
		Room   string          `json:"room"`
		Player json.RawMessage `json:"player"`
	}
	var p joinPayload
	if err := json.Unmarshal(data, &p); err != nil || p.Room == "" || len(p.Room) > maxRoomIDLen {
		log.Error().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("bad join payload")
		ctl.reply(conn, ack, errorReply{Error: "bad_payload"})
		return
	}

	err := ctl.Orch.Join(sid, domain.RoomID(p.Room), p.Player)
	switch {
	case err == nil:
		log.Info().Str("module", "signal").Str("sid", string(sid)).Str("room", p.Room).Msg("join")
		ctl.reply(conn, ack, sid)
	case errors.Is(err, domain.ErrBanned):
		ctl.reply(conn, ack, bannedReply{Banned: true, ID: sid})
	case errors.Is(err, domain.ErrAlreadyJoined):
		ctl.reply(conn, ack, errorReply{Error: "already_joined"})
	default:
		log.Warn().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("join refused")
		ctl.reply(conn, ack, errorReply{Error: "bad_payload"})
	}
}

// handleLeave leaves the current room; the connection itself stays open.
func (ctl *SignalWSController) handleLeave(
	sid core.SessionID,
	conn *WsSignalConn,
	ack *int64,
) {
	log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("leave")
	ctl.reply(conn, ack, ctl.Orch.Leave(sid) == nil)
}

type blobPayload struct {
	Data json.RawMessage `json:"data"`
}

func (ctl *SignalWSController) handleMultiplayer(sid core.SessionID, data []byte) {
	var p blobPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Debug().Err(err).Str("module", "signal").Msg("bad multiplayer payload")
		return
	}
	ctl.Orch.UpdateMultiplayer(sid, p.Data)
}

func (ctl *SignalWSController) handleVoice(sid core.SessionID, data []byte) {
	var p blobPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Debug().Err(err).Str("module", "signal").Msg("bad voice payload")
		return
	}
	ctl.Orch.Voice(sid, p.Data)
}

func (ctl *SignalWSController) handleEvent(sid core.SessionID, data []byte) {
	var p struct {
		Event string          `json:"event"`
		Data  json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad event payload")
		return
	}
	ctl.Orch.Emit(sid, p.Event, p.Data)
}

type dataPayload struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

func (ctl *SignalWSController) handleGetData(conn *WsSignalConn, ack *int64, data []byte) {
	var p dataPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad getdata payload")
		ctl.reply(conn, ack, nil)
		return
	}
	v, ok := ctl.Orch.GetData(p.Key)
	if !ok {
		ctl.reply(conn, ack, nil)
		return
	}
	ctl.reply(conn, ack, v)
}

func (ctl *SignalWSController) handleSetData(data []byte) {
	var p dataPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad setdata payload")
		return
	}
	ctl.Orch.SetData(p.Key, p.Value)
}

func (ctl *SignalWSController) handlePing(conn *WsSignalConn) {
	ctl.sendJSON(conn, struct {
		Type string `json:"type"`
	}{Type: "pong"})
}
