package app

import (
	"fmt"
	"testing"

	"github.com/sketchsync/relay/internal/config"
)

func TestHelloSendsInitialShareList(t *testing.T) {
	h := newTestHub()
	announcer := newFakeConn("c1", "192.168.1.5:1000")
	say(t, h, announcer, map[string]any{"type": "hello", "clientId": "alice"})
	say(t, h, announcer, map[string]any{
		"type": "share:announce", "roomId": "r1", "hostId": "alice", "name": "sketch",
	})

	late := newFakeConn("c2", "192.168.1.9:2000")
	say(t, h, late, map[string]any{"type": "hello", "clientId": "bob"})

	list := late.lastOf(t, "share:list")
	shares, _ := list["shares"].([]any)
	if len(shares) != 1 {
		t.Fatalf("initial share:list should carry 1 room, got %d", len(shares))
	}
}

func TestMalformedFramesAreDropped(t *testing.T) {
	h := newTestHub()
	conn := newFakeConn("c1", "192.168.1.5:1000")
	h.Dispatch(conn, []byte("not json at all"))
	h.Dispatch(conn, []byte(`{"no":"type"}`))
	h.Dispatch(conn, []byte(`{"type":"nonsense:type"}`))
	h.Dispatch(conn, []byte(`{"type":"hello"}`)) // missing clientId
	if len(conn.frames) != 0 {
		t.Fatalf("malformed input must be silent, got %d frames", len(conn.frames))
	}
	clients, _, _ := h.Stats()
	if clients != 0 {
		t.Fatalf("invalid hello must not register, got %d clients", clients)
	}
}

func TestRoomCreateRequiresAPIKey(t *testing.T) {
	h := NewHub(staticSettings{s: config.RelaySettings{
		RequireAPIKey: true,
		APIKeys:       []string{"sesame"},
	}})
	conn := newFakeConn("c1", "192.168.1.5:1000")
	say(t, h, conn, map[string]any{"type": "hello", "clientId": "alice"})

	for _, key := range []string{"", "wrong"} {
		say(t, h, conn, map[string]any{"type": "room:create", "clientId": "alice", "apiKey": key})
		errFrame := conn.lastOf(t, "room:error")
		if errFrame["reason"] != "api_key_required" {
			t.Fatalf("key %q: reason = %v, want api_key_required", key, errFrame["reason"])
		}
	}
	if _, public, _ := h.Stats(); public != 0 {
		t.Fatalf("rejected creates must not leave rooms, got %d", public)
	}

	say(t, h, conn, map[string]any{"type": "room:create", "clientId": "alice", "apiKey": "sesame"})
	conn.lastOf(t, "room:created")
}

func TestRoomCreateEnforcesRoomLimit(t *testing.T) {
	h := NewHub(staticSettings{s: config.RelaySettings{MaxRooms: 2}})
	conn := newFakeConn("c1", "192.168.1.5:1000")
	say(t, h, conn, map[string]any{"type": "hello", "clientId": "alice"})

	for i := 0; i < 2; i++ {
		say(t, h, conn, map[string]any{"type": "room:create", "clientId": "alice"})
		conn.lastOf(t, "room:created")
	}
	say(t, h, conn, map[string]any{"type": "room:create", "clientId": "alice"})
	errFrame := conn.lastOf(t, "room:error")
	if errFrame["reason"] != "room_limit" {
		t.Fatalf("reason = %v, want room_limit", errFrame["reason"])
	}
	if _, public, _ := h.Stats(); public != 2 {
		t.Fatalf("room count = %d, want 2", public)
	}
}

func TestRoomListHidesPrivateRoomsExceptByExactID(t *testing.T) {
	h := newTestHub()
	host := newFakeConn("c1", "192.168.1.5:1000")
	publicID := createRoom(t, h, host, "alice", map[string]any{"visibility": "public"})
	privateID := createRoom(t, h, host, "alice", map[string]any{"visibility": "private"})

	browser := newFakeConn("c2", "192.168.1.9:2000")
	say(t, h, browser, map[string]any{"type": "hello", "clientId": "bob"})

	say(t, h, browser, map[string]any{"type": "room:list"})
	listed := browser.lastOf(t, "room:list")
	rooms, _ := listed["rooms"].([]any)
	if len(rooms) != 1 {
		t.Fatalf("browse should list only the public room, got %d", len(rooms))
	}
	if id := rooms[0].(map[string]any)["roomId"]; id != publicID {
		t.Fatalf("listed %v, want %s", id, publicID)
	}

	say(t, h, browser, map[string]any{"type": "room:list", "query": privateID})
	listed = browser.lastOf(t, "room:list")
	rooms, _ = listed["rooms"].([]any)
	found := false
	for _, r := range rooms {
		if r.(map[string]any)["roomId"] == privateID {
			found = true
		}
	}
	if !found {
		t.Fatal("exact id query should surface the private room")
	}
}

// The end-to-end handshake from the host creating a room to an opaque
// payload reaching it.
func TestJoinAndRelayFlow(t *testing.T) {
	h := newTestHub()
	host := newFakeConn("a", "192.168.1.5:1000")
	roomID := createRoom(t, h, host, "a", map[string]any{"visibility": "public"})

	member := newFakeConn("b", "203.0.113.7:2000")
	say(t, h, member, map[string]any{"type": "hello", "clientId": "b"})
	say(t, h, member, map[string]any{
		"type": "join:request", "roomId": roomID, "clientId": "b", "password": "hunter2", "requestId": "q1",
	})

	fwd := host.lastOf(t, "join:request")
	if fwd["clientId"] != "b" || fwd["password"] != "hunter2" || fwd["requestId"] != "q1" {
		t.Fatalf("forwarded join:request incomplete: %v", fwd)
	}

	say(t, h, host, map[string]any{
		"type": "join:approve", "roomId": roomID, "clientId": "b", "permission": "viewer",
	})
	approved := member.lastOf(t, "join:approved")
	if approved["hostId"] != "a" || approved["permission"] != "viewer" || approved["roomId"] != roomID {
		t.Fatalf("unexpected join:approved: %v", approved)
	}

	say(t, h, member, map[string]any{
		"type": "client:message", "roomId": roomID, "payload": map[string]any{"x": float64(1)},
	})
	relayed := host.lastOf(t, "client:message")
	if relayed["clientId"] != "b" || relayed["roomId"] != roomID {
		t.Fatalf("unexpected client:message: %v", relayed)
	}
	payload, _ := relayed["payload"].(map[string]any)
	if payload["x"] != float64(1) {
		t.Fatalf("payload mangled in relay: %v", relayed["payload"])
	}
}

func TestJoinRequestUnknownRoomDenied(t *testing.T) {
	h := newTestHub()
	member := newFakeConn("b", "203.0.113.7:2000")
	say(t, h, member, map[string]any{"type": "hello", "clientId": "b"})
	say(t, h, member, map[string]any{"type": "join:request", "roomId": "0000000000000000", "clientId": "b"})

	denied := member.lastOf(t, "join:denied")
	if denied["reason"] != "not_found" {
		t.Fatalf("reason = %v, want not_found", denied["reason"])
	}
}

func TestJoinApproveByNonHostIgnored(t *testing.T) {
	h := newTestHub()
	host := newFakeConn("a", "192.168.1.5:1000")
	roomID := createRoom(t, h, host, "a", nil)

	intruder := newFakeConn("m", "203.0.113.7:2000")
	say(t, h, intruder, map[string]any{"type": "hello", "clientId": "mallory"})
	say(t, h, intruder, map[string]any{"type": "join:approve", "roomId": roomID, "clientId": "mallory"})

	r, ok := h.public.Get(toRoomID(roomID))
	if !ok {
		t.Fatal("room vanished")
	}
	if r.room.HasMember("mallory") {
		t.Fatal("non-host approve must never mutate membership")
	}
	if len(intruder.received(t, "join:approved")) != 0 {
		t.Fatal("no approval frame may be emitted")
	}
}

func TestJoinDenyForwardsReason(t *testing.T) {
	h := newTestHub()
	host := newFakeConn("a", "192.168.1.5:1000")
	roomID := createRoom(t, h, host, "a", nil)

	member := newFakeConn("b", "203.0.113.7:2000")
	say(t, h, member, map[string]any{"type": "hello", "clientId": "b"})
	say(t, h, member, map[string]any{"type": "join:request", "roomId": roomID, "clientId": "b"})
	say(t, h, host, map[string]any{"type": "join:deny", "roomId": roomID, "clientId": "b", "reason": "wrong password"})

	denied := member.lastOf(t, "join:denied")
	if denied["reason"] != "wrong password" {
		t.Fatalf("reason = %v, want the host's verbatim string", denied["reason"])
	}
}

func TestRoomMessageTargetedAndBroadcast(t *testing.T) {
	h := newTestHub()
	host := newFakeConn("a", "192.168.1.5:1000")
	roomID := createRoom(t, h, host, "a", nil)

	b := newFakeConn("b", "203.0.113.7:2000")
	c := newFakeConn("c", "203.0.113.8:2000")
	join(t, h, host, b, "b", roomID)
	join(t, h, host, c, "c", roomID)

	say(t, h, host, map[string]any{
		"type": "room:message", "roomId": roomID, "targetId": "b", "payload": "just-for-b",
	})
	if got := b.lastOf(t, "room:message")["payload"]; got != "just-for-b" {
		t.Fatalf("target payload = %v", got)
	}
	if len(c.received(t, "room:message")) != 0 {
		t.Fatal("targeted message leaked to another member")
	}

	say(t, h, host, map[string]any{
		"type": "room:message", "roomId": roomID, "payload": "for-everyone",
	})
	for _, m := range []*fakeConn{b, c} {
		if got := m.lastOf(t, "room:message")["payload"]; got != "for-everyone" {
			t.Fatalf("broadcast payload on %s = %v", m.id, got)
		}
	}

	// Non-hosts hold no broadcast authority.
	say(t, h, b, map[string]any{"type": "room:message", "roomId": roomID, "payload": "spoof"})
	for _, m := range []*fakeConn{c} {
		for _, f := range m.received(t, "room:message") {
			if f["payload"] == "spoof" {
				t.Fatal("member broadcast must be ignored")
			}
		}
	}
}

func TestRoomLeaveNotifiesHost(t *testing.T) {
	h := newTestHub()
	host := newFakeConn("a", "192.168.1.5:1000")
	roomID := createRoom(t, h, host, "a", nil)
	member := newFakeConn("b", "203.0.113.7:2000")
	join(t, h, host, member, "b", roomID)

	// Leaving with someone else's id is silently ignored.
	say(t, h, member, map[string]any{"type": "room:leave", "roomId": roomID, "clientId": "c"})
	if len(host.received(t, "room:member-left")) != 0 {
		t.Fatal("mismatched leave must be silent")
	}

	say(t, h, member, map[string]any{"type": "room:leave", "roomId": roomID, "clientId": "b"})
	left := host.lastOf(t, "room:member-left")
	if left["clientId"] != "b" || left["roomId"] != roomID {
		t.Fatalf("unexpected room:member-left: %v", left)
	}
	r, _ := h.public.Get(toRoomID(roomID))
	if r.room.HasMember("b") {
		t.Fatal("membership not removed")
	}
}

func TestRoomCloseByHostOnly(t *testing.T) {
	h := newTestHub()
	host := newFakeConn("a", "192.168.1.5:1000")
	roomID := createRoom(t, h, host, "a", nil)
	member := newFakeConn("b", "203.0.113.7:2000")
	join(t, h, host, member, "b", roomID)

	say(t, h, member, map[string]any{"type": "room:close", "roomId": roomID})
	if _, ok := h.public.Get(toRoomID(roomID)); !ok {
		t.Fatal("non-host close must be ignored")
	}

	say(t, h, host, map[string]any{"type": "room:close", "roomId": roomID})
	if _, ok := h.public.Get(toRoomID(roomID)); ok {
		t.Fatal("host close must remove the room")
	}
	closed := member.lastOf(t, "room:closed")
	if closed["roomId"] != roomID {
		t.Fatalf("unexpected room:closed: %v", closed)
	}
}

func TestHostDisconnectClosesAllHostedRooms(t *testing.T) {
	h := newTestHub()
	host := newFakeConn("a", "192.168.1.5:1000")

	const n = 3
	roomIDs := make([]string, 0, n)
	members := make([]*fakeConn, 0, n)
	for i := 0; i < n; i++ {
		roomID := createRoom(t, h, host, "a", nil)
		member := newFakeConn(fmt.Sprintf("m%d", i), fmt.Sprintf("203.0.113.%d:2000", 10+i))
		join(t, h, host, member, fmt.Sprintf("m%d", i), roomID)
		roomIDs = append(roomIDs, roomID)
		members = append(members, member)
	}

	h.Disconnect(host)

	for i, member := range members {
		closed := member.received(t, "room:closed")
		if len(closed) != 1 || closed[0]["roomId"] != roomIDs[i] {
			t.Fatalf("member %d: expected exactly one room:closed for its room, got %v", i, closed)
		}
	}
	if _, public, _ := h.Stats(); public != 0 {
		t.Fatalf("all hosted rooms must be gone, %d remain", public)
	}

	// Subsequent listings no longer include the rooms.
	browser := newFakeConn("z", "203.0.113.99:2000")
	say(t, h, browser, map[string]any{"type": "hello", "clientId": "z"})
	say(t, h, browser, map[string]any{"type": "room:list"})
	listed := browser.lastOf(t, "room:list")
	if rooms, _ := listed["rooms"].([]any); len(rooms) != 0 {
		t.Fatalf("closed rooms still listed: %v", rooms)
	}
}

func TestMemberDisconnectNotifiesHosts(t *testing.T) {
	h := newTestHub()
	host := newFakeConn("a", "192.168.1.5:1000")
	roomA := createRoom(t, h, host, "a", nil)
	roomB := createRoom(t, h, host, "a", nil)

	member := newFakeConn("b", "203.0.113.7:2000")
	join(t, h, host, member, "b", roomA)
	say(t, h, member, map[string]any{"type": "join:request", "roomId": roomB, "clientId": "b"})
	say(t, h, host, map[string]any{"type": "join:approve", "roomId": roomB, "clientId": "b"})

	h.Disconnect(member)

	left := host.received(t, "room:member-left")
	if len(left) != 2 {
		t.Fatalf("host should hear one member-left per membership, got %d", len(left))
	}
	for _, id := range []string{roomA, roomB} {
		r, _ := h.public.Get(toRoomID(id))
		if r.room.HasMember("b") {
			t.Fatalf("membership in %s survived disconnect", id)
		}
	}
}
