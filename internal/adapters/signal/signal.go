// Package signal is the WebSocket transport adapter. It owns the
// upgrade, the read/write pumps and the outbound buffer; all protocol
// semantics live in the hub.
package signal

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/sketchsync/relay/internal/app"
	"github.com/sketchsync/relay/internal/core"
	"github.com/sketchsync/relay/internal/metrics"
)

var (
	ErrBackpressure = errors.New("backpressure")
	ErrClosed       = errors.New("connection closed")
)

const sendBufferSize = 32

type WSController struct {
	Hub        *app.Hub
	ReadLimit  int64
	PingPeriod time.Duration
}

func NewWSController(hub *app.Hub, readLimit int64, pingPeriod time.Duration) *WSController {
	if pingPeriod <= 0 {
		pingPeriod = 54 * time.Second
	}
	return &WSController{Hub: hub, ReadLimit: readLimit, PingPeriod: pingPeriod}
}

// wsConn implements core.Conn over a gorilla websocket.
type wsConn struct {
	id     string
	remote string
	conn   *websocket.Conn
	send   chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func (c *wsConn) ID() string         { return c.id }
func (c *wsConn) RemoteAddr() string { return c.remote }

func (c *wsConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrClosed
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *wsConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleSignal upgrades the request and starts the pumps. The hub is
// told about the connection's close exactly once, from the read pump.
func (ctl *WSController) HandleSignal(ctx context.Context, c *gin.Context) {
	sid := c.GetString("client_token")
	if sid == "" {
		sid = uuid.NewString()
	}
	log.Info().Str("module", "signal").Str("sid", sid).Msg("new WS connection")

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Msg("ws upgrade")
		return
	}
	if ctl.ReadLimit > 0 {
		ws.SetReadLimit(ctl.ReadLimit)
	}

	conn := &wsConn{
		id:     sid,
		remote: ws.RemoteAddr().String(),
		conn:   ws,
		send:   make(chan core.Frame, sendBufferSize),
	}
	metrics.Incr("connections.open", 1)

	ctx, cancel := context.WithCancel(ctx)
	go ctl.writePump(ctx, conn)
	go ctl.readPump(ctx, cancel, conn)
}
