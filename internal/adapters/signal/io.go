package signal

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/dkeye/Multiplayer/internal/app"
	"github.com/dkeye/Multiplayer/internal/core"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const writeWait = 5 * time.Second

func (ctl *SignalWSController) pongWait() time.Duration {
	return ctl.pingPeriod * 10 / 9
}

func (ctl *SignalWSController) writePump(ctx context.Context, c *WsSignalConn) {
	var ping <-chan time.Time
	if ctl.pingPeriod > 0 {
		ticker := time.NewTicker(ctl.pingPeriod)
		defer ticker.Stop()
		ping = ticker.C
	}
	for {
		select {
		case <-ctx.Done():
			log.Debug().Str("module", "signal").Msg("writePump ctx done")
			return
		case <-ping:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				log.Warn().Err(err).Str("module", "signal").Msg("writePump ping")
				return
			}
		case data, ok := <-c.send:
			if !ok {
				log.Debug().Str("module", "signal").Msg("writePump channel closed")
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump write error")
				return
			}
		}
	}
}

// readPump owns the connection lifetime: when it returns the disconnect
// cascade runs exactly once for sid.
func (ctl *SignalWSController) readPump(ctx context.Context, cancel context.CancelFunc, sid core.SessionID, c *WsSignalConn) {
	defer func() {
		log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("readPump closing")
		ctl.Orch.OnDisconnect(sid)
		cancel()
		c.Close()
	}()

	if ctl.pingPeriod > 0 {
		_ = c.conn.SetReadDeadline(time.Now().Add(ctl.pongWait()))
		c.conn.SetPongHandler(func(string) error {
			return c.conn.SetReadDeadline(time.Now().Add(ctl.pongWait()))
		})
	}

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("readPump ctx done")
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Warn().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("readPump read error")
				}
				return
			}
			ctl.handleSignal(ctx, sid, c, data)
		}
	}
}

type envelope struct {
	Type string `json:"type"`
	Ack  *int64 `json:"ack,omitempty"`
}

type ackMsg struct {
	Type string `json:"type"`
	Ack  int64  `json:"ack"`
	Data any    `json:"data"`
}

func (ctl *SignalWSController) handleSignal(ctx context.Context, sid core.SessionID, c *WsSignalConn, data []byte) {
	var env envelope
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("module", "signal").Str("sid", string(sid)).Str("type", env.Type).Interface("panic", r).Msg("handler panic recovered")
		}
	}()
	if err := json.Unmarshal(data, &env); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad json")
		return
	}

	switch env.Type {
	case "join":
		ctl.handleJoin(sid, c, env.Ack, data)
	case "leave":
		ctl.handleLeave(sid, c, env.Ack)
	case "getplayers":
		ctl.reply(c, env.Ack, ctl.Orch.Players(sid))
	case "getdata":
		ctl.handleGetData(c, env.Ack, data)
	case "setdata":
		ctl.handleSetData(data)
	case "event":
		ctl.handleEvent(sid, data)
	case "multiplayer:update":
		ctl.handleMultiplayer(sid, data)
	case "voice":
		ctl.handleVoice(sid, data)
	case "hosting:setashost":
		ctl.handleSetAsHost(ctx, sid)
	case "hosting:setpresenter":
		ctl.handleTargeted(data, func(target core.SessionID) { ctl.Orch.SetPresenter(sid, target) })
	case "hosting:muteplayer":
		ctl.handleTargeted(data, func(target core.SessionID) { ctl.Orch.Mute(sid, target) })
	case "hosting:banplayer":
		ctl.handleTargeted(data, func(target core.SessionID) { ctl.Orch.Ban(sid, target) })
	case "screensharing:getdata":
		ctl.reply(c, env.Ack, ctl.Orch.ScreenShareActive(sid))
	case "screensharing:start":
		ctl.reply(c, env.Ack, ctl.Orch.StartScreenShare(sid))
	case "screensharing:image":
		ctl.handleShareFrame(data, func(b json.RawMessage) { ctl.Orch.PushImage(sid, b) })
	case "screensharing:audio":
		ctl.handleShareFrame(data, func(b json.RawMessage) { ctl.Orch.PushAudio(sid, b) })
	case "screensharing:end":
		ctl.Orch.StopScreenShare(sid)
	case "privateroom:open":
		ctl.handlePortalOpen(sid, data)
	case "privateroom:close":
		ctl.handlePortalClose(sid, data)
	case "privateroom:list":
		ctl.reply(c, env.Ack, ctl.Orch.ListPortals())
	case "ping":
		ctl.handlePing(c)
	default:
		log.Warn().Str("module", "signal").Str("type", env.Type).Msg("unknown signal")
	}
}

func (ctl *SignalWSController) reply(c *WsSignalConn, ack *int64, v any) {
	if ack == nil {
		return
	}
	ctl.sendJSON(c, ackMsg{Type: "ack", Ack: *ack, Data: v})
}

func (ctl *SignalWSController) sendJSON(c *WsSignalConn, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("sendJSON marshal")
		return
	}
	if err := c.TrySend(b); err != nil {
		ctl.onReplyFailure(c, err)
	}
}

// onReplyFailure treats a lost reply like any undeliverable control frame.
func (ctl *SignalWSController) onReplyFailure(c *WsSignalConn, err error) {
	if errors.Is(err, ErrClosed) {
		return
	}
	sess, ok := ctl.Orch.Registry.GetSession(c.sid)
	if ok && ctl.Orch.Policy != nil && ctl.Orch.Policy.OnBackPressure(app.ControlFrame, sess) != app.KickMember {
		log.Debug().Err(err).Str("module", "signal").Str("sid", string(c.sid)).Msg("reply dropped")
		return
	}
	log.Warn().Err(err).Str("module", "signal").Str("sid", string(c.sid)).Msg("reply undeliverable, kicking")
	ctl.Orch.Registry.Cancel(c.sid)
	c.Close()
}
