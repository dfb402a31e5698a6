package app

import (
	"github.com/rs/zerolog/log"

	"github.com/sketchsync/relay/internal/core"
	"github.com/sketchsync/relay/internal/protocol"
)

// Disconnect reconciles all state held by a closed connection. Invoked
// exactly once per connection close, it runs the full sequence under
// the hub lock: memberships first, then hosted LAN rooms, then hosted
// public rooms, then the network grouping. A connection that hosts some
// rooms and is a member of others takes both cleanup paths.
func (h *Hub) Disconnect(conn core.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	// 1. Drop the identity and pull the client out of every room it
	// joined, telling each room's host.
	profile, hadProfile := h.reg.DropProfile(conn)
	if hadProfile {
		memberships := h.public.WithMember(profile.ClientID)
		memberships = append(memberships, h.lan.WithMember(profile.ClientID)...)
		for _, r := range memberships {
			r.room.RemoveMember(profile.ClientID)
			h.send(r.host, protocol.MemberLeft{
				Type:     protocol.TypeMemberLeft,
				RoomID:   string(r.room.ID),
				ClientID: profile.ClientID,
			})
		}
	}

	// 2. Remove every LAN room this connection hosted, refreshing the
	// listing once per affected network key.
	for networkKey, rooms := range h.lan.HostedBy(conn) {
		for _, r := range rooms {
			h.lan.Remove(networkKey, r.room.ID)
		}
		h.broadcastShareList(networkKey)
	}

	// 3. Tear down every public room this connection hosted.
	for _, r := range h.public.HostedBy(conn) {
		h.closePublicRoom(r)
	}

	// 4. Leave the network group.
	if hadProfile {
		h.reg.DropFromNetwork(conn, profile.NetworkKey)
	}

	log.Info().Str("module", "app.hub").Str("conn", conn.ID()).Msg("disconnect reconciled")
}
