package core

// Frame is a single encoded wire message ready for delivery.
type Frame []byte

// Conn abstracts the transport endpoint a client is reached on.
// Owned by the adapter; the adapter must Close() it.
type Conn interface {
	// ID identifies the connection in logs only.
	ID() string
	// RemoteAddr is the peer's transport address as host:port.
	RemoteAddr() string
	// TrySend enqueues a frame without blocking. A full or closed
	// outbound buffer drops the frame and returns an error; callers
	// treat delivery as best-effort either way.
	TrySend(Frame) error
	Close()
}
