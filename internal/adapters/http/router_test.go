package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dkeye/Multiplayer/internal/app/orch"
	"github.com/dkeye/Multiplayer/internal/config"
	"github.com/dkeye/Multiplayer/internal/core"
	"github.com/dkeye/Multiplayer/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

func testConfig() *config.Config {
	return &config.Config{
		Mode:              "test",
		Port:              3000,
		ReadLimit:         1 << 16,
		SendBuffer:        32,
		SnapshotRate:      60,
		HostRequestLimit:  1,
		HostRequestWindow: time.Minute,
		PublicURL:         "http://example.test/play",
		Secret:            "test-secret",
	}
}

func newTestServer(t *testing.T) (*httptest.Server, *orch.Orchestrator) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx, cancel := context.WithCancel(context.Background())
	o := orch.New(nil)
	srv := httptest.NewServer(SetupRouter(ctx, testConfig(), o))
	t.Cleanup(func() {
		cancel()
		srv.Close()
	})
	return srv, o
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.StatusCode)
	}
	var body struct {
		Status      string `json:"status"`
		Connections int    `json:"connections"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Status != "ok" || body.Connections != 0 {
		t.Fatalf("unexpected health body %+v err=%v", body, err)
	}
	var found bool
	for _, c := range resp.Cookies() {
		if c.Name == sessionName {
			found = true
		}
	}
	if !found {
		t.Fatal("device session cookie not set")
	}
}

func TestListRooms(t *testing.T) {
	srv, o := newTestServer(t)
	room := o.Rooms.GetOrCreate("R1")
	if err := room.Admit(domain.Player{ID: "p1", StaticID: "s1"}); err != nil {
		t.Fatal(err)
	}
	room.StartShare(core.SessionID("p1"))

	resp, err := http.Get(srv.URL + "/api/rooms")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var rooms []core.RoomInfo
	if err := json.NewDecoder(resp.Body).Decode(&rooms); err != nil {
		t.Fatal(err)
	}
	if len(rooms) != 1 || rooms[0].Name != "R1" || rooms[0].MemberCount != 1 || !rooms[0].Presenting {
		t.Fatalf("unexpected rooms %+v", rooms)
	}
}

func TestRoomQR(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, err := http.Get(srv.URL + "/api/rooms/lobby/qr")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK || resp.Header.Get("Content-Type") != "image/png" {
		t.Fatalf("unexpected response %d %s", resp.StatusCode, resp.Header.Get("Content-Type"))
	}
	body, _ := io.ReadAll(resp.Body)
	if !bytes.HasPrefix(body, []byte("\x89PNG")) {
		t.Fatal("body is not a png")
	}
}

type wsClient struct {
	t    *testing.T
	conn *websocket.Conn
}

func dial(t *testing.T, srv *httptest.Server) *wsClient {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws/signal"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return &wsClient{t: t, conn: conn}
}

func (c *wsClient) send(v any) {
	c.t.Helper()
	if err := c.conn.WriteJSON(v); err != nil {
		c.t.Fatalf("write: %v", err)
	}
}

// await reads until a message whose type matches typ (and ack, when non-zero).
func (c *wsClient) await(typ string, ack int64) map[string]json.RawMessage {
	c.t.Helper()
	_ = c.conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		var m map[string]json.RawMessage
		if err := c.conn.ReadJSON(&m); err != nil {
			c.t.Fatalf("waiting for %s: %v", typ, err)
		}
		var got string
		_ = json.Unmarshal(m["type"], &got)
		if got != typ {
			continue
		}
		if ack != 0 {
			var n int64
			_ = json.Unmarshal(m["ack"], &n)
			if n != ack {
				continue
			}
		}
		return m
	}
}

func TestSignalJoinRoundTrip(t *testing.T) {
	srv, _ := newTestServer(t)
	a := dial(t, srv)
	b := dial(t, srv)

	a.send(map[string]any{"type": "join", "ack": 1, "room": "R1", "player": map[string]any{"staticId": "s1", "name": "ann"}})
	var aID string
	if err := json.Unmarshal(a.await("ack", 1)["data"], &aID); err != nil || aID == "" {
		t.Fatalf("join ack did not carry the session id: %v", err)
	}

	b.send(map[string]any{"type": "join", "ack": 1, "room": "R1", "player": map[string]any{"staticId": "s2"}})
	b.await("ack", 1)

	joined := a.await("playerJoined", 0)
	var p domain.Player
	if err := json.Unmarshal(joined["player"], &p); err != nil || p.StaticID != "s2" {
		t.Fatalf("unexpected playerJoined %s", joined["player"])
	}

	a.send(map[string]any{"type": "getplayers", "ack": 2})
	var players core.PlayerMap
	if err := json.Unmarshal(a.await("ack", 2)["data"], &players); err != nil {
		t.Fatal(err)
	}
	if len(players) != 2 || !strings.Contains(string(players[domain.PlayerID(aID)].Profile), `"ann"`) {
		t.Fatalf("unexpected players %v", players)
	}

	a.send(map[string]any{"type": "join", "ack": 3, "room": "R2"})
	var reply struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(a.await("ack", 3)["data"], &reply); err != nil || reply.Error != "already_joined" {
		t.Fatalf("second join not refused: %+v %v", reply, err)
	}

	a.send(map[string]any{"type": "ping"})
	a.await("pong", 0)

	_ = b.conn.Close()
	left := a.await("playerLeaved", 0)
	if string(left["id"]) == `"`+aID+`"` {
		t.Fatal("leave announced for the wrong player")
	}
}

func TestSignalSharedData(t *testing.T) {
	srv, _ := newTestServer(t)
	a := dial(t, srv)

	a.send(map[string]any{"type": "getdata", "ack": 1, "key": "score"})
	if data := a.await("ack", 1)["data"]; string(data) != "null" {
		t.Fatalf("missing key should reply null, got %s", data)
	}
	a.send(map[string]any{"type": "setdata", "key": "score", "value": map[string]int{"red": 3}})
	a.send(map[string]any{"type": "getdata", "ack": 2, "key": "score"})
	if data := a.await("ack", 2)["data"]; string(data) != `{"red":3}` {
		t.Fatalf("unexpected value %s", data)
	}
}

func TestSignalBadJoinPayload(t *testing.T) {
	srv, _ := newTestServer(t)
	a := dial(t, srv)

	a.send(map[string]any{"type": "join", "ack": 1, "room": ""})
	var reply struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(a.await("ack", 1)["data"], &reply); err != nil || reply.Error != "bad_payload" {
		t.Fatalf("expected bad_payload, got %+v %v", reply, err)
	}

	a.send(map[string]any{"type": "join", "ack": 2, "room": "R1"})
	a.await("ack", 2)
}
