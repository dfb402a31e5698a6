package app

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/sketchsync/relay/internal/config"
	"github.com/sketchsync/relay/internal/core"
	"github.com/sketchsync/relay/internal/domain"
)

// fakeConn records every frame sent to it.
type fakeConn struct {
	id     string
	remote string
	frames []core.Frame
	closed bool
}

func newFakeConn(id, remote string) *fakeConn {
	return &fakeConn{id: id, remote: remote}
}

func (c *fakeConn) ID() string         { return c.id }
func (c *fakeConn) RemoteAddr() string { return c.remote }
func (c *fakeConn) Close()             { c.closed = true }

func (c *fakeConn) TrySend(f core.Frame) error {
	if c.closed {
		return errors.New("closed")
	}
	c.frames = append(c.frames, f)
	return nil
}

// received decodes every recorded frame of one type.
func (c *fakeConn) received(t *testing.T, typ string) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, f := range c.frames {
		var m map[string]any
		if err := json.Unmarshal(f, &m); err != nil {
			t.Fatalf("recorded frame is not JSON: %v", err)
		}
		if m["type"] == typ {
			out = append(out, m)
		}
	}
	return out
}

func (c *fakeConn) lastOf(t *testing.T, typ string) map[string]any {
	t.Helper()
	msgs := c.received(t, typ)
	if len(msgs) == 0 {
		t.Fatalf("conn %s received no %q frame", c.id, typ)
	}
	return msgs[len(msgs)-1]
}

func toRoomID(s string) domain.RoomID { return domain.RoomID(s) }

// staticSettings is a fixed SettingsSource for tests.
type staticSettings struct {
	s config.RelaySettings
}

func (f staticSettings) Snapshot() config.RelaySettings { return f.s }

func newTestHub() *Hub {
	return NewHub(staticSettings{})
}

// say marshals a message and pushes it through the full dispatch path.
func say(t *testing.T, h *Hub, conn core.Conn, msg map[string]any) {
	t.Helper()
	b, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("marshal test message: %v", err)
	}
	h.Dispatch(conn, b)
}

// join registers a connection and walks it through an approved join.
func join(t *testing.T, h *Hub, host, member *fakeConn, memberID, roomID string) {
	t.Helper()
	say(t, h, member, map[string]any{"type": "hello", "clientId": memberID})
	say(t, h, member, map[string]any{"type": "join:request", "roomId": roomID, "clientId": memberID})
	say(t, h, host, map[string]any{"type": "join:approve", "roomId": roomID, "clientId": memberID})
}

// createRoom registers a host and returns the new room's id.
func createRoom(t *testing.T, h *Hub, host *fakeConn, hostID string, extra map[string]any) string {
	t.Helper()
	say(t, h, host, map[string]any{"type": "hello", "clientId": hostID})
	msg := map[string]any{"type": "room:create", "clientId": hostID}
	for k, v := range extra {
		msg[k] = v
	}
	say(t, h, host, msg)
	created := host.lastOf(t, "room:created")
	id, _ := created["roomId"].(string)
	if id == "" {
		t.Fatal("room:created carried no roomId")
	}
	return id
}
