// Package domain contains entities without logic, just meta-data.
package domain

const MaxNicknameLen = 64

// ClientProfile is what a connection announces about itself on hello.
// At most one profile exists per connection; the client id is
// caller-supplied and not guaranteed globally unique.
type ClientProfile struct {
	ClientID   string
	Nickname   string
	Avatar     string
	NetworkKey string
}

// NewClientProfile keeps construction obvious and clamps the nickname.
func NewClientProfile(clientID, nickname, avatar, networkKey string) *ClientProfile {
	if len(nickname) > MaxNicknameLen {
		nickname = nickname[:MaxNicknameLen]
	}
	return &ClientProfile{
		ClientID:   clientID,
		Nickname:   nickname,
		Avatar:     avatar,
		NetworkKey: networkKey,
	}
}
