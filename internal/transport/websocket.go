package transport

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	maxFrameSize = 64 * 1024

	wsReceiveBuffer = 64
)

// WebsocketBus connects a client to the relay over a websocket. One bus
// per room membership; the relay forwards frames to the room's other
// peer.
type WebsocketBus struct {
	conn   *websocket.Conn
	logger *slog.Logger

	recv    chan []byte
	writeMu sync.Mutex

	closeOnce sync.Once
	done      chan struct{}
}

var _ Bus = (*WebsocketBus)(nil)

// DialRelay connects to a relay's room endpoint. The url carries the
// room id, user id and role as query parameters.
func DialRelay(ctx context.Context, url string, logger *slog.Logger) (*WebsocketBus, error) {
	if logger == nil {
		logger = slog.Default()
	}
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("relay dial failed (status %d): %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("relay dial failed: %w", err)
	}
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	return NewWebsocketBus(conn, logger), nil
}

// NewWebsocketBus wraps an established connection. Used by DialRelay on
// the client side and by the relay for accepted connections.
func NewWebsocketBus(conn *websocket.Conn, logger *slog.Logger) *WebsocketBus {
	if logger == nil {
		logger = slog.Default()
	}
	b := &WebsocketBus{
		conn:   conn,
		logger: logger,
		recv:   make(chan []byte, wsReceiveBuffer),
		done:   make(chan struct{}),
	}
	go b.readPump()
	go b.pingLoop()
	return b
}

func (b *WebsocketBus) readPump() {
	defer close(b.recv)
	defer b.Close()

	b.conn.SetReadLimit(maxFrameSize)
	_ = b.conn.SetReadDeadline(time.Now().Add(pongWait))
	b.conn.SetPongHandler(func(string) error {
		return b.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, frame, err := b.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				b.logger.Debug("websocket read error", "error", err)
			}
			return
		}
		select {
		case b.recv <- frame:
		case <-b.done:
			return
		}
	}
}

func (b *WebsocketBus) pingLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			b.writeMu.Lock()
			_ = b.conn.SetWriteDeadline(time.Now().Add(writeWait))
			err := b.conn.WriteMessage(websocket.PingMessage, nil)
			b.writeMu.Unlock()
			if err != nil {
				b.Close()
				return
			}
		case <-b.done:
			return
		}
	}
}

func (b *WebsocketBus) Send(ctx context.Context, frame []byte) error {
	select {
	case <-b.done:
		return ErrBusClosed
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	b.writeMu.Lock()
	defer b.writeMu.Unlock()
	_ = b.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return b.conn.WriteMessage(websocket.TextMessage, frame)
}

func (b *WebsocketBus) Receive() <-chan []byte {
	return b.recv
}

func (b *WebsocketBus) Close() error {
	b.closeOnce.Do(func() {
		close(b.done)
		b.writeMu.Lock()
		_ = b.conn.SetWriteDeadline(time.Now().Add(writeWait))
		_ = b.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		b.writeMu.Unlock()
		_ = b.conn.Close()
	})
	return nil
}

// Upgrader accepts relay connections; the relay serves browsers and CLI
// clients alike, so origins are not restricted
var Upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}
