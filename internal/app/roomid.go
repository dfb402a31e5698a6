package app

import (
	crand "crypto/rand"
	"fmt"
	"time"

	"github.com/sketchsync/relay/internal/domain"
)

const (
	roomIDLength   = 16
	roomIDAttempts = 8
)

// Overridable for tests.
var (
	randRead = crand.Read
	timeNow  = time.Now
)

// newRoomID draws a 16-digit numeric id, retrying on collision with a
// currently-live room. When every attempt collides it falls back to the
// last 16 digits of the current timestamp without re-checking
// uniqueness; the residual collision risk is accepted.
func newRoomID(taken func(domain.RoomID) bool) domain.RoomID {
	for attempt := 0; attempt < roomIDAttempts; attempt++ {
		var buf [roomIDLength]byte
		if _, err := randRead(buf[:]); err != nil {
			break
		}
		digits := make([]byte, roomIDLength)
		for i, b := range buf {
			digits[i] = '0' + b%10
		}
		id := domain.RoomID(digits)
		if !taken(id) {
			return id
		}
	}
	stamp := fmt.Sprintf("%016d", timeNow().UnixNano())
	return domain.RoomID(stamp[len(stamp)-roomIDLength:])
}
