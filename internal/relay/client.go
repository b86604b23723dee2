package relay

import (
	"context"
	"log/slog"
	"time"

	"github.com/crossfire-game/crossfire-go/internal/model"
	"github.com/crossfire-game/crossfire-go/internal/transport"
)

const deliverTimeout = 10 * time.Second

// Client is one attached peer of a room. It pumps inbound frames to the
// hub and delivers outbound frames onto its bus.
type Client struct {
	userID      string
	role        model.PlayerRole
	bus         transport.Bus
	hub         *Hub
	logger      *slog.Logger
	connectedAt time.Time
}

// readPump forwards inbound frames until the bus closes, then detaches
func (c *Client) readPump() {
	for frame := range c.bus.Receive() {
		c.hub.Forward(c, frame)
	}

	select {
	case c.hub.unregister <- c:
	case <-c.hub.done:
	}
}

func (c *Client) deliver(frame []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), deliverTimeout)
	defer cancel()

	if err := c.bus.Send(ctx, frame); err != nil {
		c.logger.Warn("relay delivery failed",
			slog.String("user_id", c.userID), "error", err)
	}
}

func (c *Client) close() {
	_ = c.bus.Close()
}
