package signal

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/dkeye/Multiplayer/internal/app/orch"
	"github.com/dkeye/Multiplayer/internal/config"
	"github.com/dkeye/Multiplayer/internal/core"
	"github.com/dkeye/Multiplayer/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var ErrClosed = errors.New("connection closed")

type SignalWSController struct {
	Orch    *orch.Orchestrator
	Limiter *HostRequestLimiter

	readLimit  int64
	pingPeriod time.Duration
	sendBuffer int
}

func NewSignalWSController(o *orch.Orchestrator, cfg *config.Config) *SignalWSController {
	return &SignalWSController{
		Orch:       o,
		Limiter:    NewHostRequestLimiter(cfg.HostRequestLimit, cfg.HostRequestWindow),
		readLimit:  cfg.ReadLimit,
		pingPeriod: cfg.PingPeriod,
		sendBuffer: cfg.SendBuffer,
	}
}

type WsSignalConn struct {
	sid  core.SessionID
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func (c *WsSignalConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrClosed
	}
	select {
	case c.send <- f:
	default:
		return core.ErrBackpressure
	}
	return nil
}

func (c *WsSignalConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	if c.conn != nil {
		_ = c.conn.Close()
	}
	c.mu.Unlock()
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleSignal upgrades the request and serves one connection. Every
// connection gets its own session id; the cookie token only names the device.
func (ctl *SignalWSController) HandleSignal(ctx context.Context, c *gin.Context) {
	sid := core.SessionID(uuid.NewString())
	device := c.GetString(ClientTokenKey)
	log.Info().Str("module", "signal").Str("sid", string(sid)).Str("device", device).Msg("new WS connection")

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}
	if ctl.readLimit > 0 {
		ws.SetReadLimit(ctl.readLimit)
	}

	conn := &WsSignalConn{
		sid:  sid,
		conn: ws,
		send: make(chan core.Frame, ctl.sendBuffer),
	}

	meta := domain.NewMember(domain.PlayerID(sid), device)
	sess := core.NewMemberSession(meta, conn)
	ctx, cancel := context.WithCancel(ctx)
	ctl.Orch.Registry.BindSignal(ctx, sid, sess, cancel)

	go ctl.writePump(ctx, conn)
	go ctl.readPump(ctx, cancel, sid, conn)
}

// ClientTokenKey is the gin context key under which the device token is stored.
const ClientTokenKey = "client_token"
