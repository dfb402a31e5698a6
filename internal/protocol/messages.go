// Package protocol defines the wire messages the relay speaks. Every
// frame is a JSON object with a string "type" discriminator; inbound
// payloads are validated here before any handler logic runs.
package protocol

import (
	"encoding/json"
	"errors"
)

// Inbound message types.
const (
	TypeHello         = "hello"
	TypeProfileUpdate = "profile:update"
	TypeShareAnnounce = "share:announce"
	TypeShareRemove   = "share:remove"
	TypeRoomCreate    = "room:create"
	TypeRoomList      = "room:list"
	TypeJoinRequest   = "join:request"
	TypeJoinApprove   = "join:approve"
	TypeJoinDeny      = "join:deny"
	TypeClientMessage = "client:message"
	TypeRoomMessage   = "room:message"
	TypeRoomLeave     = "room:leave"
	TypeRoomClose     = "room:close"
)

// Outbound message types. join:request, join:denied and client:message
// reuse the inbound discriminators.
const (
	TypeShareList    = "share:list"
	TypeRoomCreated  = "room:created"
	TypeJoinApproved = "join:approved"
	TypeJoinDenied   = "join:denied"
	TypeRoomError    = "room:error"
	TypeMemberLeft   = "room:member-left"
	TypeRoomClosed   = "room:closed"
)

// Machine-readable reasons carried by room:error and join:denied.
const (
	ReasonAPIKeyRequired = "api_key_required"
	ReasonRoomLimit      = "room_limit"
	ReasonNotFound       = "not_found"
)

var ErrMissingField = errors.New("missing required field")

// Envelope carries only the discriminator; the full payload is decoded
// per type once the envelope parses.
type Envelope struct {
	Type string `json:"type"`
}

type Hello struct {
	ClientID string `json:"clientId"`
	Nickname string `json:"nickname"`
	Avatar   string `json:"avatar"`
}

func (m Hello) Validate() error {
	if m.ClientID == "" {
		return ErrMissingField
	}
	return nil
}

// ProfileUpdate uses pointers so an absent field is distinguishable
// from an explicitly empty one.
type ProfileUpdate struct {
	ClientID string  `json:"clientId"`
	Nickname *string `json:"nickname"`
	Avatar   *string `json:"avatar"`
}

func (m ProfileUpdate) Validate() error {
	if m.ClientID == "" {
		return ErrMissingField
	}
	return nil
}

type ShareAnnounce struct {
	RoomID           string `json:"roomId"`
	HostID           string `json:"hostId"`
	ProjectID        string `json:"projectId"`
	Name             string `json:"name"`
	AppVersion       string `json:"appVersion"`
	RequiresPassword bool   `json:"requiresPassword"`
	OwnerNickname    string `json:"ownerNickname"`
	Permission       string `json:"permission"`
	Visibility       string `json:"visibility"`
}

func (m ShareAnnounce) Validate() error {
	if m.RoomID == "" || m.HostID == "" {
		return ErrMissingField
	}
	return nil
}

type ShareRemove struct {
	RoomID string `json:"roomId"`
}

func (m ShareRemove) Validate() error {
	if m.RoomID == "" {
		return ErrMissingField
	}
	return nil
}

type RoomCreate struct {
	ClientID         string `json:"clientId"`
	Name             string `json:"name"`
	RequiresPassword bool   `json:"requiresPassword"`
	Permission       string `json:"permission"`
	Visibility       string `json:"visibility"`
	AppVersion       string `json:"appVersion"`
	APIKey           string `json:"apiKey"`
}

func (m RoomCreate) Validate() error {
	if m.ClientID == "" {
		return ErrMissingField
	}
	return nil
}

type RoomList struct {
	Query string `json:"query"`
}

func (m RoomList) Validate() error { return nil }

type JoinRequest struct {
	RoomID    string `json:"roomId"`
	ClientID  string `json:"clientId"`
	Nickname  string `json:"nickname"`
	Avatar    string `json:"avatar"`
	Password  string `json:"password"`
	RequestID string `json:"requestId"`
}

func (m JoinRequest) Validate() error {
	if m.RoomID == "" || m.ClientID == "" {
		return ErrMissingField
	}
	return nil
}

type JoinApprove struct {
	RoomID     string `json:"roomId"`
	ClientID   string `json:"clientId"`
	Permission string `json:"permission"`
}

func (m JoinApprove) Validate() error {
	if m.RoomID == "" || m.ClientID == "" {
		return ErrMissingField
	}
	return nil
}

type JoinDeny struct {
	RoomID   string `json:"roomId"`
	ClientID string `json:"clientId"`
	Reason   string `json:"reason"`
}

func (m JoinDeny) Validate() error {
	if m.RoomID == "" || m.ClientID == "" {
		return ErrMissingField
	}
	return nil
}

type ClientMessage struct {
	RoomID  string          `json:"roomId"`
	Payload json.RawMessage `json:"payload"`
}

func (m ClientMessage) Validate() error {
	if m.RoomID == "" {
		return ErrMissingField
	}
	return nil
}

type RoomMessage struct {
	RoomID   string          `json:"roomId"`
	Payload  json.RawMessage `json:"payload"`
	TargetID string          `json:"targetId"`
}

func (m RoomMessage) Validate() error {
	if m.RoomID == "" {
		return ErrMissingField
	}
	return nil
}

type RoomLeave struct {
	RoomID   string `json:"roomId"`
	ClientID string `json:"clientId"`
}

func (m RoomLeave) Validate() error {
	if m.RoomID == "" || m.ClientID == "" {
		return ErrMissingField
	}
	return nil
}

type RoomClose struct {
	RoomID string `json:"roomId"`
}

func (m RoomClose) Validate() error {
	if m.RoomID == "" {
		return ErrMissingField
	}
	return nil
}
