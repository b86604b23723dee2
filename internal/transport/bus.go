package transport

import "context"

// Bus is a full-duplex frame channel between the two peers of a room.
// Frames are opaque to the transport; the sync layer owns the envelope
// format. Receive's channel closes when the peer disconnects or the bus
// is closed.
type Bus interface {
	Send(ctx context.Context, frame []byte) error
	Receive() <-chan []byte
	Close() error
}
