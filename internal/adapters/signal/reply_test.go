package signal

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/dkeye/Multiplayer/internal/app/orch"
	"github.com/dkeye/Multiplayer/internal/core"
	"github.com/dkeye/Multiplayer/internal/core/mocks"
	"github.com/dkeye/Multiplayer/internal/domain"
	"go.uber.org/mock/gomock"
)

// bindConn registers a socket-less connection with a send queue of the given size.
func bindConn(o *orch.Orchestrator, sid core.SessionID, buffer int) (*WsSignalConn, context.Context) {
	c := &WsSignalConn{sid: sid, send: make(chan core.Frame, buffer)}
	ctx, cancel := context.WithCancel(context.Background())
	sess := core.NewMemberSession(domain.NewMember(domain.PlayerID(sid), ""), c)
	o.Registry.BindSignal(ctx, sid, sess, cancel)
	return c, ctx
}

func (c *WsSignalConn) isClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

func TestReplyQueued(t *testing.T) {
	ctl := &SignalWSController{Orch: orch.New(nil)}
	c, ctx := bindConn(ctl.Orch, "A", 1)

	ack := int64(7)
	ctl.reply(c, &ack, true)
	ctl.reply(c, nil, true)

	if len(c.send) != 1 {
		t.Fatalf("expected one queued frame, got %d", len(c.send))
	}
	var got ackMsg
	if err := json.Unmarshal(<-c.send, &got); err != nil {
		t.Fatal(err)
	}
	if got.Type != "ack" || got.Ack != 7 || got.Data != true {
		t.Fatalf("unexpected ack %+v", got)
	}
	if c.isClosed() || ctx.Err() != nil {
		t.Fatal("healthy connection was kicked")
	}
}

func TestReplyOnFullQueueKicks(t *testing.T) {
	ctl := &SignalWSController{Orch: orch.New(nil)}
	c, ctx := bindConn(ctl.Orch, "A", 1)
	c.send <- core.Frame(`{"type":"pending"}`)

	ack := int64(1)
	ctl.reply(c, &ack, true)

	if !c.isClosed() {
		t.Fatal("connection kept open after its ack could not be queued")
	}
	if ctx.Err() == nil {
		t.Fatal("connection context not cancelled")
	}

	// Replies to a closed connection are ignored.
	ctl.reply(c, &ack, true)
	ctl.handlePing(c)
}

func TestHostRequestPanicRecovered(t *testing.T) {
	ctrl := gomock.NewController(t)
	auth := mocks.NewMockHostAuthorizer(ctrl)
	ctl := &SignalWSController{Orch: orch.New(auth)}
	bindConn(ctl.Orch, "A", 4)
	if err := ctl.Orch.Join("A", "R1", json.RawMessage(`{"staticId":"s1"}`)); err != nil {
		t.Fatal(err)
	}

	auth.EXPECT().Authorize(gomock.Any(), domain.StaticID("s1"), domain.RoomID("R1")).
		DoAndReturn(func(context.Context, domain.StaticID, domain.RoomID) error {
			panic("authorizer exploded")
		})

	ctl.requestHost(context.Background(), "A")
	if ctl.Orch.IsHost("A") {
		t.Fatal("panicking authorizer granted host")
	}
}

func TestAnonymousHostRequestsLimitedPerConnection(t *testing.T) {
	ctrl := gomock.NewController(t)
	auth := mocks.NewMockHostAuthorizer(ctrl)
	ctl := &SignalWSController{
		Orch:    orch.New(auth),
		Limiter: NewHostRequestLimiter(1, time.Minute),
	}
	for _, sid := range []core.SessionID{"A", "B"} {
		bindConn(ctl.Orch, sid, 4)
		if err := ctl.Orch.Join(sid, "R1", nil); err != nil {
			t.Fatal(err)
		}
	}

	called := make(chan struct{}, 4)
	auth.EXPECT().Authorize(gomock.Any(), domain.StaticID(""), domain.RoomID("R1")).
		DoAndReturn(func(context.Context, domain.StaticID, domain.RoomID) error {
			called <- struct{}{}
			return nil
		}).Times(2)

	ctx := context.Background()
	ctl.handleSetAsHost(ctx, "A")
	ctl.handleSetAsHost(ctx, "B")
	ctl.handleSetAsHost(ctx, "A")

	for range 2 {
		select {
		case <-called:
		case <-time.After(2 * time.Second):
			t.Fatal("anonymous connections shared one rate limit bucket")
		}
	}
}
