package app

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/sketchsync/relay/internal/config"
	"github.com/sketchsync/relay/internal/core"
	"github.com/sketchsync/relay/internal/domain"
	"github.com/sketchsync/relay/internal/metrics"
	"github.com/sketchsync/relay/internal/protocol"
)

// SettingsSource is the configuration collaborator consulted before
// admitting room:create. The hub only ever reads it.
type SettingsSource interface {
	Snapshot() config.RelaySettings
}

// Hub owns all mutable relay state. Every inbound message and every
// disconnect notification runs to completion under one mutex, so
// handlers never observe half-updated rooms or registries.
type Hub struct {
	mu       sync.Mutex
	settings SettingsSource
	reg      *Registry
	public   *PublicRooms
	lan      *LanRooms
}

func NewHub(settings SettingsSource) *Hub {
	return &Hub{
		settings: settings,
		reg:      NewRegistry(),
		public:   NewPublicRooms(),
		lan:      NewLanRooms(),
	}
}

// Dispatch routes one raw frame. Unparseable frames and unknown types
// are dropped without a response; the connection stays open.
func (h *Hub) Dispatch(conn core.Conn, data []byte) {
	var env protocol.Envelope
	if err := json.Unmarshal(data, &env); err != nil || env.Type == "" {
		log.Debug().Str("module", "app.hub").Str("conn", conn.ID()).Msg("dropping malformed frame")
		metrics.Incr("frames.malformed", 1)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	switch env.Type {
	case protocol.TypeHello:
		dispatch(h, conn, data, h.handleHello)
	case protocol.TypeProfileUpdate:
		dispatch(h, conn, data, h.handleProfileUpdate)
	case protocol.TypeShareAnnounce:
		dispatch(h, conn, data, h.handleShareAnnounce)
	case protocol.TypeShareRemove:
		dispatch(h, conn, data, h.handleShareRemove)
	case protocol.TypeRoomCreate:
		dispatch(h, conn, data, h.handleRoomCreate)
	case protocol.TypeRoomList:
		dispatch(h, conn, data, h.handleRoomList)
	case protocol.TypeJoinRequest:
		dispatch(h, conn, data, h.handleJoinRequest)
	case protocol.TypeJoinApprove:
		dispatch(h, conn, data, h.handleJoinApprove)
	case protocol.TypeJoinDeny:
		dispatch(h, conn, data, h.handleJoinDeny)
	case protocol.TypeClientMessage:
		dispatch(h, conn, data, h.handleClientMessage)
	case protocol.TypeRoomMessage:
		dispatch(h, conn, data, h.handleRoomMessage)
	case protocol.TypeRoomLeave:
		dispatch(h, conn, data, h.handleRoomLeave)
	case protocol.TypeRoomClose:
		dispatch(h, conn, data, h.handleRoomClose)
	default:
		log.Debug().Str("module", "app.hub").Str("type", env.Type).Msg("unknown message type")
	}
}

// validated is the boundary check every inbound payload passes before
// its handler runs.
type validated interface {
	Validate() error
}

// dispatch decodes and validates one payload, dropping it silently on
// failure.
func dispatch[T validated](h *Hub, conn core.Conn, data []byte, handler func(core.Conn, T)) {
	var msg T
	if err := json.Unmarshal(data, &msg); err != nil {
		log.Debug().Str("module", "app.hub").Str("conn", conn.ID()).Err(err).Msg("bad payload")
		metrics.Incr("frames.malformed", 1)
		return
	}
	if err := msg.Validate(); err != nil {
		log.Debug().Str("module", "app.hub").Str("conn", conn.ID()).Err(err).Msg("invalid payload")
		metrics.Incr("frames.malformed", 1)
		return
	}
	handler(conn, msg)
}

// send marshals and enqueues best-effort: a full or closed buffer drops
// the frame, never surfacing an error to the message that caused it.
func (h *Hub) send(conn core.Conn, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "app.hub").Msg("marshal outbound")
		return
	}
	if err := conn.TrySend(core.Frame(b)); err != nil {
		metrics.Incr("frames.dropped", 1)
		return
	}
	metrics.Incr("frames.sent", 1)
}

// networkKeyFor prefers the registered profile's key and falls back to
// deriving one from the transport address for unregistered senders.
func (h *Hub) networkKeyFor(conn core.Conn) string {
	if p, ok := h.reg.ProfileOf(conn); ok {
		return p.NetworkKey
	}
	return DeriveNetworkKey(conn.RemoteAddr())
}

// resolveRoom finds a room by id: the public store first, then the LAN
// store within the caller's network key.
func (h *Hub) resolveRoom(conn core.Conn, id domain.RoomID) (*hostedRoom, bool) {
	if r, ok := h.public.Get(id); ok {
		return r, true
	}
	if r, ok := h.lan.Get(h.networkKeyFor(conn), id); ok {
		return r, true
	}
	return nil, false
}

// Stats reports live counts for the health surface.
func (h *Hub) Stats() (clients, publicRooms, lanRooms int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.reg.Len(), h.public.Len(), h.lan.Len()
}
