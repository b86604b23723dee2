package transport

import (
	"context"
	"errors"
	"sync"
)

// ErrBusClosed is returned by Send after either end has closed
var ErrBusClosed = errors.New("transport: bus closed")

const memoryBusBuffer = 64

// MemoryBus is one end of an in-process pair, used for local games and
// tests. Frames sent on one end arrive on the other.
type MemoryBus struct {
	out  chan<- []byte
	recv chan []byte

	done      chan struct{} // shared by both ends
	closeOnce *sync.Once    // shared by both ends
}

var _ Bus = (*MemoryBus)(nil)

// NewMemoryPair returns two connected bus ends. Closing either end
// shuts down both.
func NewMemoryPair() (*MemoryBus, *MemoryBus) {
	ab := make(chan []byte, memoryBusBuffer)
	ba := make(chan []byte, memoryBusBuffer)
	done := make(chan struct{})
	once := &sync.Once{}

	a := &MemoryBus{out: ab, recv: make(chan []byte, memoryBusBuffer), done: done, closeOnce: once}
	b := &MemoryBus{out: ba, recv: make(chan []byte, memoryBusBuffer), done: done, closeOnce: once}
	go a.pump(ba)
	go b.pump(ab)
	return a, b
}

func (b *MemoryBus) pump(in <-chan []byte) {
	defer close(b.recv)
	for {
		select {
		case frame := <-in:
			select {
			case b.recv <- frame:
			case <-b.done:
				return
			}
		case <-b.done:
			return
		}
	}
}

func (b *MemoryBus) Send(ctx context.Context, frame []byte) error {
	select {
	case <-b.done:
		return ErrBusClosed
	default:
	}

	copied := append([]byte(nil), frame...)
	select {
	case b.out <- copied:
		return nil
	case <-b.done:
		return ErrBusClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *MemoryBus) Receive() <-chan []byte {
	return b.recv
}

// Close tears down both ends of the pair
func (b *MemoryBus) Close() error {
	b.closeOnce.Do(func() {
		close(b.done)
	})
	return nil
}
