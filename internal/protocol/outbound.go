package protocol

import "encoding/json"

// RoomSummary is a public listing entry. It never exposes the host
// identity or the member list.
type RoomSummary struct {
	RoomID           string `json:"roomId"`
	Name             string `json:"name"`
	RequiresPassword bool   `json:"requiresPassword"`
	Permission       string `json:"permission"`
	Visibility       string `json:"visibility"`
	AppVersion       string `json:"appVersion"`
}

// ShareEntry is a LAN listing entry. The host id is part of the
// announcement, so it stays visible here.
type ShareEntry struct {
	RoomID           string `json:"roomId"`
	HostID           string `json:"hostId"`
	ProjectID        string `json:"projectId,omitempty"`
	Name             string `json:"name"`
	OwnerNickname    string `json:"ownerNickname,omitempty"`
	RequiresPassword bool   `json:"requiresPassword"`
	Permission       string `json:"permission"`
	Visibility       string `json:"visibility"`
	AppVersion       string `json:"appVersion"`
}

type ShareList struct {
	Type   string       `json:"type"`
	Shares []ShareEntry `json:"shares"`
}

type RoomCreated struct {
	Type   string `json:"type"`
	RoomID string `json:"roomId"`
}

type RoomListResult struct {
	Type  string        `json:"type"`
	Rooms []RoomSummary `json:"rooms"`
	Query string        `json:"query,omitempty"`
}

// JoinForward is the join:request frame relayed to a room's host.
type JoinForward struct {
	Type      string `json:"type"`
	RoomID    string `json:"roomId"`
	ClientID  string `json:"clientId"`
	Nickname  string `json:"nickname,omitempty"`
	Avatar    string `json:"avatar,omitempty"`
	Password  string `json:"password,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

type JoinApproved struct {
	Type       string `json:"type"`
	RoomID     string `json:"roomId"`
	HostID     string `json:"hostId"`
	Permission string `json:"permission"`
}

type JoinDenied struct {
	Type   string `json:"type"`
	RoomID string `json:"roomId"`
	Reason string `json:"reason"`
}

type RoomError struct {
	Type    string `json:"type"`
	Reason  string `json:"reason"`
	Message string `json:"message,omitempty"`
}

// ClientRelay is the client:message frame relayed to a room's host.
type ClientRelay struct {
	Type     string          `json:"type"`
	RoomID   string          `json:"roomId"`
	ClientID string          `json:"clientId"`
	Payload  json.RawMessage `json:"payload"`
}

// RoomRelay is the room:message frame relayed to members.
type RoomRelay struct {
	Type    string          `json:"type"`
	RoomID  string          `json:"roomId"`
	Payload json.RawMessage `json:"payload"`
}

type MemberLeft struct {
	Type     string `json:"type"`
	RoomID   string `json:"roomId"`
	ClientID string `json:"clientId"`
}

type RoomClosed struct {
	Type   string `json:"type"`
	RoomID string `json:"roomId"`
}
