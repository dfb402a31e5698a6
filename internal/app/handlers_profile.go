package app

import (
	"github.com/rs/zerolog/log"

	"github.com/sketchsync/relay/internal/core"
	"github.com/sketchsync/relay/internal/domain"
	"github.com/sketchsync/relay/internal/protocol"
)

// handleHello registers the connection's profile. Registering is
// idempotent per connection and overwrites any prior profile; the new
// peer immediately receives the LAN listing for its network key.
func (h *Hub) handleHello(conn core.Conn, msg protocol.Hello) {
	networkKey := DeriveNetworkKey(conn.RemoteAddr())
	profile := domain.NewClientProfile(msg.ClientID, msg.Nickname, msg.Avatar, networkKey)
	h.reg.Register(conn, profile)
	h.send(conn, h.shareListFor(networkKey))
}

func (h *Hub) handleProfileUpdate(conn core.Conn, msg protocol.ProfileUpdate) {
	h.reg.UpdateProfile(conn, msg.ClientID, msg.Nickname, msg.Avatar)
	log.Debug().Str("module", "app.hub").Str("conn", conn.ID()).
		Str("client", msg.ClientID).Msg("profile update")
}
