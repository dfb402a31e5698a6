package app

import (
	"github.com/rs/zerolog/log"

	"github.com/sketchsync/relay/internal/core"
	"github.com/sketchsync/relay/internal/domain"
	"github.com/sketchsync/relay/internal/protocol"
)

// handleShareAnnounce upserts a LAN room under the sender's network
// key, then re-broadcasts the full listing to every connection on that
// key. LAN rooms have no capacity or key gating; the trust boundary is
// "same coarse network".
func (h *Hub) handleShareAnnounce(conn core.Conn, msg protocol.ShareAnnounce) {
	networkKey := h.networkKeyFor(conn)
	room := domain.NewRoom(domain.RoomID(msg.RoomID), msg.HostID, domain.RoomMeta{
		Name:             msg.Name,
		ProjectID:        msg.ProjectID,
		OwnerNickname:    msg.OwnerNickname,
		RequiresPassword: msg.RequiresPassword,
		Permission:       domain.Permission(msg.Permission),
		Visibility:       domain.Visibility(msg.Visibility),
		AppVersion:       msg.AppVersion,
	})
	h.lan.Upsert(networkKey, &hostedRoom{room: room, host: conn})
	log.Info().Str("module", "app.hub").Str("network", networkKey).
		Str("room", msg.RoomID).Msg("share announced")
	h.broadcastShareList(networkKey)
}

// handleShareRemove removes the listing only when the sender is its
// host; anything else is silently ignored.
func (h *Hub) handleShareRemove(conn core.Conn, msg protocol.ShareRemove) {
	networkKey := h.networkKeyFor(conn)
	r, ok := h.lan.Get(networkKey, domain.RoomID(msg.RoomID))
	if !ok || r.host != conn {
		return
	}
	h.lan.Remove(networkKey, r.room.ID)
	log.Info().Str("module", "app.hub").Str("network", networkKey).
		Str("room", msg.RoomID).Msg("share removed")
	h.broadcastShareList(networkKey)
}

func (h *Hub) shareListFor(networkKey string) protocol.ShareList {
	rooms := h.lan.List(networkKey)
	shares := make([]protocol.ShareEntry, 0, len(rooms))
	for _, r := range rooms {
		shares = append(shares, protocol.ShareEntry{
			RoomID:           string(r.room.ID),
			HostID:           r.room.HostID,
			ProjectID:        r.room.Meta.ProjectID,
			Name:             r.room.Meta.Name,
			OwnerNickname:    r.room.Meta.OwnerNickname,
			RequiresPassword: r.room.Meta.RequiresPassword,
			Permission:       string(r.room.Meta.Permission),
			Visibility:       string(r.room.Meta.Visibility),
			AppVersion:       r.room.Meta.AppVersion,
		})
	}
	return protocol.ShareList{Type: protocol.TypeShareList, Shares: shares}
}

func (h *Hub) broadcastShareList(networkKey string) {
	list := h.shareListFor(networkKey)
	for _, c := range h.reg.NetworkConns(networkKey) {
		h.send(c, list)
	}
}
