package app

import (
	"github.com/sketchsync/relay/internal/core"
	"github.com/sketchsync/relay/internal/domain"
)

// hostedRoom pairs a room with the connection that administers it.
// Only the host connection may approve joins, relay room messages,
// update listings or close the room.
type hostedRoom struct {
	room *domain.Room
	host core.Conn
}

// PublicRooms is the globally keyed store. Room ids are unique across
// the whole store.
type PublicRooms struct {
	rooms map[domain.RoomID]*hostedRoom
}

func NewPublicRooms() *PublicRooms {
	return &PublicRooms{rooms: make(map[domain.RoomID]*hostedRoom)}
}

func (s *PublicRooms) Len() int { return len(s.rooms) }

func (s *PublicRooms) Get(id domain.RoomID) (*hostedRoom, bool) {
	r, ok := s.rooms[id]
	return r, ok
}

func (s *PublicRooms) Has(id domain.RoomID) bool {
	_, ok := s.rooms[id]
	return ok
}

func (s *PublicRooms) Add(r *hostedRoom) { s.rooms[r.room.ID] = r }

func (s *PublicRooms) Remove(id domain.RoomID) { delete(s.rooms, id) }

// Match returns rooms visible to a browse: every public-visibility
// room, plus a private room whose id equals the query exactly. Private
// rooms are never discoverable any other way.
func (s *PublicRooms) Match(query string) []*hostedRoom {
	out := make([]*hostedRoom, 0, len(s.rooms))
	for id, r := range s.rooms {
		if r.room.Meta.Visibility == domain.VisibilityPublic || string(id) == query {
			out = append(out, r)
		}
	}
	return out
}

// HostedBy snapshots the rooms administered by a connection.
func (s *PublicRooms) HostedBy(conn core.Conn) []*hostedRoom {
	var out []*hostedRoom
	for _, r := range s.rooms {
		if r.host == conn {
			out = append(out, r)
		}
	}
	return out
}

// WithMember snapshots the rooms a client id belongs to.
func (s *PublicRooms) WithMember(clientID string) []*hostedRoom {
	var out []*hostedRoom
	for _, r := range s.rooms {
		if r.room.HasMember(clientID) {
			out = append(out, r)
		}
	}
	return out
}

// LanRooms keys rooms by (network key, room id); ids are unique only
// within one network key. Listings are ungated and ephemeral.
type LanRooms struct {
	byNetwork map[string]map[domain.RoomID]*hostedRoom
}

func NewLanRooms() *LanRooms {
	return &LanRooms{byNetwork: make(map[string]map[domain.RoomID]*hostedRoom)}
}

// Upsert inserts or refreshes an announcement. An existing room under
// the same key keeps its membership; host, host id and metadata are
// taken from the latest announcement.
func (s *LanRooms) Upsert(networkKey string, r *hostedRoom) {
	rooms, ok := s.byNetwork[networkKey]
	if !ok {
		rooms = make(map[domain.RoomID]*hostedRoom)
		s.byNetwork[networkKey] = rooms
	}
	if prev, ok := rooms[r.room.ID]; ok {
		r.room.Members = prev.room.Members
	}
	rooms[r.room.ID] = r
}

func (s *LanRooms) Get(networkKey string, id domain.RoomID) (*hostedRoom, bool) {
	r, ok := s.byNetwork[networkKey][id]
	return r, ok
}

// Remove deletes a room, pruning the network bucket when it empties.
func (s *LanRooms) Remove(networkKey string, id domain.RoomID) {
	rooms, ok := s.byNetwork[networkKey]
	if !ok {
		return
	}
	delete(rooms, id)
	if len(rooms) == 0 {
		delete(s.byNetwork, networkKey)
	}
}

// List snapshots every room announced under a network key.
func (s *LanRooms) List(networkKey string) []*hostedRoom {
	rooms := s.byNetwork[networkKey]
	out := make([]*hostedRoom, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, r)
	}
	return out
}

// HostedBy returns rooms administered by a connection, grouped by the
// network key they were announced under.
func (s *LanRooms) HostedBy(conn core.Conn) map[string][]*hostedRoom {
	out := make(map[string][]*hostedRoom)
	for key, rooms := range s.byNetwork {
		for _, r := range rooms {
			if r.host == conn {
				out[key] = append(out[key], r)
			}
		}
	}
	return out
}

// WithMember returns rooms a client id belongs to across all keys.
func (s *LanRooms) WithMember(clientID string) []*hostedRoom {
	var out []*hostedRoom
	for _, rooms := range s.byNetwork {
		for _, r := range rooms {
			if r.room.HasMember(clientID) {
				out = append(out, r)
			}
		}
	}
	return out
}

func (s *LanRooms) Len() int {
	n := 0
	for _, rooms := range s.byNetwork {
		n += len(rooms)
	}
	return n
}
