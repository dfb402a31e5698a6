package app

import (
	"github.com/sketchsync/relay/internal/core"
	"github.com/sketchsync/relay/internal/domain"
	"github.com/sketchsync/relay/internal/metrics"
	"github.com/sketchsync/relay/internal/protocol"
)

// handleClientMessage relays an opaque payload from a member to the
// room's host. Membership is not verified here: the host application
// owns that policy, the relay only requires a registered sender.
func (h *Hub) handleClientMessage(conn core.Conn, msg protocol.ClientMessage) {
	profile, ok := h.reg.ProfileOf(conn)
	if !ok {
		return
	}
	r, ok := h.resolveRoom(conn, domain.RoomID(msg.RoomID))
	if !ok {
		return
	}
	h.send(r.host, protocol.ClientRelay{
		Type:     protocol.TypeClientMessage,
		RoomID:   msg.RoomID,
		ClientID: profile.ClientID,
		Payload:  msg.Payload,
	})
	metrics.Incr("relay.client_messages", 1)
}

// handleRoomMessage relays from the host to one member or to all of
// them. Each delivery is independently best-effort: unreachable
// members are neither queued nor reported back.
func (h *Hub) handleRoomMessage(conn core.Conn, msg protocol.RoomMessage) {
	r, ok := h.resolveRoom(conn, domain.RoomID(msg.RoomID))
	if !ok || r.host != conn {
		return
	}
	frame := protocol.RoomRelay{
		Type:    protocol.TypeRoomMessage,
		RoomID:  msg.RoomID,
		Payload: msg.Payload,
	}
	if msg.TargetID != "" {
		if !r.room.HasMember(msg.TargetID) {
			return
		}
		if target, ok := h.reg.ConnByClientID(msg.TargetID); ok {
			h.send(target, frame)
			metrics.Incr("relay.room_messages", 1)
		}
		return
	}
	for _, memberID := range r.room.MemberIDs() {
		if target, ok := h.reg.ConnByClientID(memberID); ok {
			h.send(target, frame)
		}
	}
	metrics.Incr("relay.room_messages", 1)
}
