package domain

type RoomID string

type Permission string

const (
	PermissionEditor Permission = "editor"
	PermissionViewer Permission = "viewer"
)

type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// RoomMeta is the non-sensitive description of a room. ProjectID and
// OwnerNickname are only populated for LAN-announced rooms.
type RoomMeta struct {
	Name             string
	ProjectID        string
	OwnerNickname    string
	RequiresPassword bool
	Permission       Permission
	Visibility       Visibility
	AppVersion       string
}

// DefaultPermission is the level granted when an approval carries none.
func (m RoomMeta) DefaultPermission() Permission {
	if m.Permission == "" {
		return PermissionEditor
	}
	return m.Permission
}

// Room is a hosted session. Members holds approved client ids only;
// the host is never a member of its own room.
type Room struct {
	ID      RoomID
	HostID  string
	Meta    RoomMeta
	Members map[string]struct{}
}

func NewRoom(id RoomID, hostID string, meta RoomMeta) *Room {
	if meta.Visibility == "" {
		meta.Visibility = VisibilityPublic
	}
	return &Room{
		ID:      id,
		HostID:  hostID,
		Meta:    meta,
		Members: make(map[string]struct{}),
	}
}

func (r *Room) AddMember(clientID string)    { r.Members[clientID] = struct{}{} }
func (r *Room) RemoveMember(clientID string) { delete(r.Members, clientID) }

func (r *Room) HasMember(clientID string) bool {
	_, ok := r.Members[clientID]
	return ok
}

// MemberIDs snapshots the membership for fan-out.
func (r *Room) MemberIDs() []string {
	out := make([]string, 0, len(r.Members))
	for id := range r.Members {
		out = append(out, id)
	}
	return out
}
