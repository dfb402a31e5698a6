package app

import (
	"github.com/rs/zerolog/log"

	"github.com/sketchsync/relay/internal/core"
	"github.com/sketchsync/relay/internal/domain"
	"github.com/sketchsync/relay/internal/metrics"
	"github.com/sketchsync/relay/internal/protocol"
)

// handleRoomCreate admits a new public room after consulting the
// settings collaborator: key gating first, then the room cap.
func (h *Hub) handleRoomCreate(conn core.Conn, msg protocol.RoomCreate) {
	settings := h.settings.Snapshot()
	if settings.RequireAPIKey && !settings.HasAPIKey(msg.APIKey) {
		h.send(conn, protocol.RoomError{
			Type:    protocol.TypeRoomError,
			Reason:  protocol.ReasonAPIKeyRequired,
			Message: "a valid api key is required to create rooms",
		})
		return
	}
	if settings.MaxRooms > 0 && h.public.Len() >= settings.MaxRooms {
		h.send(conn, protocol.RoomError{
			Type:    protocol.TypeRoomError,
			Reason:  protocol.ReasonRoomLimit,
			Message: "the room limit has been reached",
		})
		return
	}

	id := newRoomID(h.public.Has)
	room := domain.NewRoom(id, msg.ClientID, domain.RoomMeta{
		Name:             msg.Name,
		RequiresPassword: msg.RequiresPassword,
		Permission:       domain.Permission(msg.Permission),
		Visibility:       domain.Visibility(msg.Visibility),
		AppVersion:       msg.AppVersion,
	})
	h.public.Add(&hostedRoom{room: room, host: conn})
	metrics.Incr("rooms.public.created", 1)
	log.Info().Str("module", "app.hub").Str("room", string(id)).
		Str("host", msg.ClientID).Msg("public room created")

	h.send(conn, protocol.RoomCreated{Type: protocol.TypeRoomCreated, RoomID: string(id)})
}

func (h *Hub) handleRoomList(conn core.Conn, msg protocol.RoomList) {
	matched := h.public.Match(msg.Query)
	rooms := make([]protocol.RoomSummary, 0, len(matched))
	for _, r := range matched {
		rooms = append(rooms, protocol.RoomSummary{
			RoomID:           string(r.room.ID),
			Name:             r.room.Meta.Name,
			RequiresPassword: r.room.Meta.RequiresPassword,
			Permission:       string(r.room.Meta.Permission),
			Visibility:       string(r.room.Meta.Visibility),
			AppVersion:       r.room.Meta.AppVersion,
		})
	}
	h.send(conn, protocol.RoomListResult{
		Type:  protocol.TypeRoomList,
		Rooms: rooms,
		Query: msg.Query,
	})
}

// handleRoomLeave removes the caller from a room's membership. Only the
// owner of the client id may leave with it; the host is told the member
// is gone.
func (h *Hub) handleRoomLeave(conn core.Conn, msg protocol.RoomLeave) {
	profile, ok := h.reg.ProfileOf(conn)
	if !ok || profile.ClientID != msg.ClientID {
		return
	}
	r, ok := h.resolveRoom(conn, domain.RoomID(msg.RoomID))
	if !ok || !r.room.HasMember(msg.ClientID) {
		return
	}
	r.room.RemoveMember(msg.ClientID)
	h.send(r.host, protocol.MemberLeft{
		Type:     protocol.TypeMemberLeft,
		RoomID:   string(r.room.ID),
		ClientID: msg.ClientID,
	})
	log.Info().Str("module", "app.hub").Str("room", msg.RoomID).
		Str("client", msg.ClientID).Msg("member left")
}

// handleRoomClose tears a room down on the host's request. Public
// rooms notify every remaining member; LAN rooms refresh the listing
// for their network key.
func (h *Hub) handleRoomClose(conn core.Conn, msg protocol.RoomClose) {
	id := domain.RoomID(msg.RoomID)
	if r, ok := h.public.Get(id); ok {
		if r.host != conn {
			return
		}
		h.closePublicRoom(r)
		return
	}
	networkKey := h.networkKeyFor(conn)
	if r, ok := h.lan.Get(networkKey, id); ok {
		if r.host != conn {
			return
		}
		h.lan.Remove(networkKey, id)
		h.broadcastShareList(networkKey)
		log.Info().Str("module", "app.hub").Str("room", msg.RoomID).
			Str("network", networkKey).Msg("lan room closed")
	}
}

// closePublicRoom removes the room and broadcasts room:closed to every
// member reachable at that moment.
func (h *Hub) closePublicRoom(r *hostedRoom) {
	h.public.Remove(r.room.ID)
	closed := protocol.RoomClosed{Type: protocol.TypeRoomClosed, RoomID: string(r.room.ID)}
	for _, memberID := range r.room.MemberIDs() {
		if c, ok := h.reg.ConnByClientID(memberID); ok {
			h.send(c, closed)
		}
	}
	metrics.Incr("rooms.public.closed", 1)
	log.Info().Str("module", "app.hub").Str("room", string(r.room.ID)).Msg("public room closed")
}
