package app

import (
	"github.com/rs/zerolog/log"

	"github.com/sketchsync/relay/internal/core"
	"github.com/sketchsync/relay/internal/domain"
)

// Registry holds the connection<->profile bidirectional index plus the
// network groups used to fan out LAN listings. It carries no lock of
// its own: the owning Hub serializes every mutation.
type Registry struct {
	profiles map[core.Conn]*domain.ClientProfile
	byClient map[string]core.Conn
	networks map[string]map[core.Conn]struct{}
}

func NewRegistry() *Registry {
	return &Registry{
		profiles: make(map[core.Conn]*domain.ClientProfile),
		byClient: make(map[string]core.Conn),
		networks: make(map[string]map[core.Conn]struct{}),
	}
}

// Register binds a profile to a connection, superseding any prior
// profile on that connection. A duplicate client id silently steals
// reachability from the earlier connection: the by-id map holds only
// the most recent registration.
func (r *Registry) Register(conn core.Conn, profile *domain.ClientProfile) {
	if prev, ok := r.profiles[conn]; ok {
		if r.byClient[prev.ClientID] == conn {
			delete(r.byClient, prev.ClientID)
		}
	}
	r.profiles[conn] = profile
	r.byClient[profile.ClientID] = conn

	group, ok := r.networks[profile.NetworkKey]
	if !ok {
		group = make(map[core.Conn]struct{})
		r.networks[profile.NetworkKey] = group
	}
	group[conn] = struct{}{}

	log.Info().Str("module", "app.registry").Str("conn", conn.ID()).
		Str("client", profile.ClientID).Str("network", profile.NetworkKey).
		Msg("registered profile")
}

// UpdateProfile mutates the profile in place, but only when the caller
// proves ownership by matching the registered client id. A mismatch is
// silently ignored so one connection cannot rewrite another's identity.
func (r *Registry) UpdateProfile(conn core.Conn, clientID string, nickname, avatar *string) {
	profile, ok := r.profiles[conn]
	if !ok || profile.ClientID != clientID {
		return
	}
	if nickname != nil {
		name := *nickname
		if len(name) > domain.MaxNicknameLen {
			name = name[:domain.MaxNicknameLen]
		}
		profile.Nickname = name
	}
	if avatar != nil {
		profile.Avatar = *avatar
	}
	log.Info().Str("module", "app.registry").Str("conn", conn.ID()).
		Str("client", clientID).Msg("updated profile")
}

func (r *Registry) ProfileOf(conn core.Conn) (*domain.ClientProfile, bool) {
	p, ok := r.profiles[conn]
	return p, ok
}

func (r *Registry) ConnByClientID(clientID string) (core.Conn, bool) {
	c, ok := r.byClient[clientID]
	return c, ok
}

// NetworkConns snapshots the connections sharing a network key.
func (r *Registry) NetworkConns(key string) []core.Conn {
	group := r.networks[key]
	out := make([]core.Conn, 0, len(group))
	for c := range group {
		out = append(out, c)
	}
	return out
}

// DropProfile removes both directions of the identity index and
// returns the profile that was bound, if any. Network group membership
// is left intact; the reconciler drops it separately.
func (r *Registry) DropProfile(conn core.Conn) (*domain.ClientProfile, bool) {
	profile, ok := r.profiles[conn]
	if !ok {
		return nil, false
	}
	delete(r.profiles, conn)
	if r.byClient[profile.ClientID] == conn {
		delete(r.byClient, profile.ClientID)
	}
	return profile, true
}

// DropFromNetwork removes the connection from its group, pruning the
// group when it empties.
func (r *Registry) DropFromNetwork(conn core.Conn, key string) {
	group, ok := r.networks[key]
	if !ok {
		return
	}
	delete(group, conn)
	if len(group) == 0 {
		delete(r.networks, key)
	}
}

func (r *Registry) Len() int { return len(r.profiles) }
