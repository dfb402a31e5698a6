package app

import (
	"github.com/rs/zerolog/log"

	"github.com/sketchsync/relay/internal/core"
	"github.com/sketchsync/relay/internal/domain"
	"github.com/sketchsync/relay/internal/protocol"
)

// handleJoinRequest forwards a join attempt to the room's host,
// password included; the relay never verifies passwords itself. An
// unresolvable room is a terminal join:denied{not_found}.
func (h *Hub) handleJoinRequest(conn core.Conn, msg protocol.JoinRequest) {
	r, ok := h.resolveRoom(conn, domain.RoomID(msg.RoomID))
	if !ok {
		h.send(conn, protocol.JoinDenied{
			Type:   protocol.TypeJoinDenied,
			RoomID: msg.RoomID,
			Reason: protocol.ReasonNotFound,
		})
		return
	}
	h.send(r.host, protocol.JoinForward{
		Type:      protocol.TypeJoinRequest,
		RoomID:    msg.RoomID,
		ClientID:  msg.ClientID,
		Nickname:  msg.Nickname,
		Avatar:    msg.Avatar,
		Password:  msg.Password,
		RequestID: msg.RequestID,
	})
	log.Info().Str("module", "app.hub").Str("room", msg.RoomID).
		Str("client", msg.ClientID).Msg("join request forwarded")
}

// handleJoinApprove grants membership. Only the room's host connection
// is authorized; anyone else is silently ignored. The approved client
// is notified if it is still reachable.
func (h *Hub) handleJoinApprove(conn core.Conn, msg protocol.JoinApprove) {
	r, ok := h.resolveRoom(conn, domain.RoomID(msg.RoomID))
	if !ok || r.host != conn {
		return
	}
	r.room.AddMember(msg.ClientID)
	log.Info().Str("module", "app.hub").Str("room", msg.RoomID).
		Str("client", msg.ClientID).Msg("join approved")

	permission := msg.Permission
	if permission == "" {
		permission = string(r.room.Meta.DefaultPermission())
	}
	if target, ok := h.reg.ConnByClientID(msg.ClientID); ok {
		h.send(target, protocol.JoinApproved{
			Type:       protocol.TypeJoinApproved,
			RoomID:     msg.RoomID,
			HostID:     r.room.HostID,
			Permission: permission,
		})
	}
}

// handleJoinDeny forwards the host's denial to the requester, carrying
// the host's reason verbatim.
func (h *Hub) handleJoinDeny(conn core.Conn, msg protocol.JoinDeny) {
	r, ok := h.resolveRoom(conn, domain.RoomID(msg.RoomID))
	if !ok || r.host != conn {
		return
	}
	if target, ok := h.reg.ConnByClientID(msg.ClientID); ok {
		h.send(target, protocol.JoinDenied{
			Type:   protocol.TypeJoinDenied,
			RoomID: msg.RoomID,
			Reason: msg.Reason,
		})
	}
	log.Info().Str("module", "app.hub").Str("room", msg.RoomID).
		Str("client", msg.ClientID).Msg("join denied")
}
